/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"math/big"

	"github.com/pkg/errors"
)

// MasterSecret is the holder's link secret, signed into every credential as
// a hidden attribute. It never leaves the holder.
type MasterSecret struct {
	value *big.Int
}

// NewMasterSecret samples a fresh 256-bit master secret.
func NewMasterSecret() (*MasterSecret, error) {
	v, err := randomBits(largeMasterSecret)
	if err != nil {
		return nil, errors.Wrap(err, "new master secret")
	}

	return &MasterSecret{value: v}, nil
}

// MasterSecretFromValue restores a master secret from its integer value.
func MasterSecretFromValue(value *big.Int) (*MasterSecret, error) {
	if value == nil || value.Sign() < 0 {
		return nil, errors.New("master secret value must be a non-negative integer")
	}

	return &MasterSecret{value: new(big.Int).Set(value)}, nil
}

// Value returns the master secret's integer value.
func (ms *MasterSecret) Value() *big.Int {
	return new(big.Int).Set(ms.value)
}

// BlindedCredentialSecrets is the holder's issuance-time commitment to the
// hidden attribute values, sent to the issuer in place of the values.
type BlindedCredentialSecrets struct {
	U *big.Int
}

// CredentialSecretsBlindingFactors is the holder-retained counterpart of
// BlindedCredentialSecrets, needed to complete the issued signature.
type CredentialSecretsBlindingFactors struct {
	vPrime *big.Int
}

// BlindCredentialSecrets commits to the hidden attribute values:
// U = S^v' · prod R_i^(m_i) over the hidden values.
func BlindCredentialSecrets(pub *CredentialPublicKey,
	values *CredentialValues) (*BlindedCredentialSecrets, *CredentialSecretsBlindingFactors, error) {
	if pub == nil || pub.Primary == nil || values == nil {
		return nil, nil, errors.New("blind credential secrets: nil input")
	}

	pk := pub.Primary
	n := pk.N

	vPrime, err := randomBits(largeVPrime)
	if err != nil {
		return nil, nil, err
	}

	u := new(big.Int).Exp(pk.S, vPrime, n)

	for _, name := range values.Attrs() {
		if !values.IsHidden(name) {
			continue
		}

		base, ok := pk.R[name]
		if !ok {
			return nil, nil, errors.Wrapf(ErrAttributeNotFoundInSchema, "blind credential secrets: %q", name)
		}

		value, _ := values.Value(name)
		u.Mod(u.Mul(u, new(big.Int).Exp(base, value, n)), n)
	}

	return &BlindedCredentialSecrets{U: u},
		&CredentialSecretsBlindingFactors{vPrime: vPrime}, nil
}

// ProcessCredentialSignature folds the holder's blinding factor into the
// issued signature (v = v' + v'') and checks the completed signature against
// the full attribute values. The signature is updated in place.
func ProcessCredentialSignature(signature *CredentialSignature,
	factors *CredentialSecretsBlindingFactors, pub *CredentialPublicKey,
	values *CredentialValues) error {
	if signature == nil || factors == nil || pub == nil || pub.Primary == nil || values == nil {
		return errors.New("process credential signature: nil input")
	}

	signature.V = new(big.Int).Add(signature.V, factors.vPrime)

	pk := pub.Primary
	n := pk.N

	// A^e · S^v · prod R_i^(m_i) must equal Z for the completed signature.
	lhs := new(big.Int).Exp(signature.A, signature.E, n)
	lhs.Mod(lhs.Mul(lhs, new(big.Int).Exp(pk.S, signature.V, n)), n)

	for _, name := range values.Attrs() {
		base, ok := pk.R[name]
		if !ok {
			return errors.Wrapf(ErrAttributeNotFoundInSchema, "process credential signature: %q", name)
		}

		value, _ := values.Value(name)
		lhs.Mod(lhs.Mul(lhs, new(big.Int).Exp(base, value, n)), n)
	}

	if lhs.Cmp(new(big.Int).Mod(pk.Z, n)) != 0 {
		return errors.New("process credential signature: signature does not verify against the values")
	}

	return nil
}

// subProofInit bundles the first-message state of one credential's sub-proof.
type subProofInit struct {
	eq     *primaryEqProofInit
	ge     []*gePredicateProofInit
	nonrev *nonRevocProofInit
}

// ProofBuilder accumulates sub-proof requests over the holder's credentials
// and produces the presentation proof. Single-use: Finalize consumes it.
type ProofBuilder struct {
	accum     *ChallengeAccumulator
	inits     []*subProofInit
	finalized bool
}

// NewProofBuilder creates an empty proof builder.
func NewProofBuilder() *ProofBuilder {
	return &ProofBuilder{accum: NewChallengeAccumulator()}
}

// AddSubProofRequest commits one credential to the proof under construction.
// revReg and witness must both be given for a revocable credential and both
// nil otherwise. Call order fixes the sub-proof order of the final proof.
func (b *ProofBuilder) AddSubProofRequest(request *SubProofRequest, schema *CredentialSchema,
	nonSchema *NonCredentialSchema, signature *CredentialSignature, values *CredentialValues,
	pubKey *CredentialPublicKey, revReg *RevocationRegistry, witness *Witness) error {
	if b.finalized {
		return errors.Wrap(ErrVerifierAlreadyConsumed, "proof builder")
	}

	if request == nil || schema == nil || nonSchema == nil || pubKey == nil || pubKey.Primary == nil {
		return errors.New("proof builder: nil input")
	}

	for _, name := range request.referencedAttrs() {
		if !schema.ContainsAttr(name) && !nonSchema.ContainsAttr(name) {
			return errors.Wrapf(ErrAttributeNotFoundInSchema, "proof builder: %q", name)
		}
	}

	if (revReg == nil) != (witness == nil) {
		return errors.Wrap(ErrRevocationParamsMismatch, "proof builder")
	}

	init := &subProofInit{}

	eq, err := newPrimaryEqProofInit(pubKey.Primary, signature, values, request)
	if err != nil {
		return err
	}

	init.eq = eq

	for _, predicate := range request.Predicates {
		m, ok := values.Value(predicate.AttrName)
		if !ok {
			return errors.Wrapf(ErrAttributeNotFoundInSchema, "proof builder: %q", predicate.AttrName)
		}

		mTilde, ok := eq.mTilde[predicate.AttrName]
		if !ok {
			return errors.Errorf("proof builder: predicate attribute %q is revealed", predicate.AttrName)
		}

		ge, err := newGEPredicateProofInit(pubKey.Primary, predicate, m, mTilde)
		if err != nil {
			return err
		}

		init.ge = append(init.ge, ge)
	}

	if revReg != nil {
		if pubKey.Revocation == nil {
			return errors.Wrap(ErrRevocationParamsMismatch, "proof builder: key has no revocation component")
		}

		nonrev, err := newNonRevocProofInit(witness, pubKey.Revocation, revReg)
		if err != nil {
			return err
		}

		init.nonrev = nonrev
	}

	if err := b.accum.AddAll(init.contributions()); err != nil {
		return err
	}

	b.inits = append(b.inits, init)

	return nil
}

// contributions returns the sub-proof's ordered challenge contributions:
// the equality proof's T, the predicate tau commitments, A', the predicate
// commitment values, then the non-revocation contributions.
func (in *subProofInit) contributions() [][]byte {
	out := [][]byte{in.eq.t.Bytes()}

	for _, ge := range in.ge {
		out = append(out, ge.tauValues()...)
	}

	out = append(out, in.eq.aPrime.Bytes())

	for _, ge := range in.ge {
		out = append(out, ge.cValues()...)
	}

	if in.nonrev != nil {
		out = append(out, in.nonrev.contributions()...)
	}

	return out
}

// Finalize derives the aggregated challenge from the accumulated
// contributions and the verifier's nonce, then answers it for every
// credential. The builder is consumed.
func (b *ProofBuilder) Finalize(nonce *Nonce) (*Proof, error) {
	if b.finalized {
		return nil, errors.Wrap(ErrVerifierAlreadyConsumed, "proof builder")
	}

	b.finalized = true

	challenge, err := b.accum.Finalize(nonce)
	if err != nil {
		return nil, err
	}

	frChallenge := frFromOKM(challenge.FillBytes(make([]byte, challengeLen)))

	proof := &Proof{AggregatedChallenge: challenge}

	for _, init := range b.inits {
		eq, err := init.eq.finalize(challenge)
		if err != nil {
			return nil, err
		}

		sub := &SubProof{Primary: &PrimaryProof{EqProof: eq}}

		for _, ge := range init.ge {
			sub.Primary.GEProofs = append(sub.Primary.GEProofs, ge.finalize(challenge))
		}

		if init.nonrev != nil {
			sub.NonRevocation = init.nonrev.finalize(frChallenge)
		}

		proof.SubProofs = append(proof.SubProofs, sub)
	}

	return proof, nil
}
