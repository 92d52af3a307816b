/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"math/big"
	"sort"

	"github.com/pkg/errors"
)

// hiddenAttrs returns the sorted attribute names the key signs that are not
// revealed: the non-disclosed schema attributes plus every holder-contributed
// attribute.
func hiddenAttrs(pk *CredentialPrimaryPublicKey, revealed []string) []string {
	revealedSet := make(map[string]struct{}, len(revealed))
	for _, name := range revealed {
		revealedSet[name] = struct{}{}
	}

	hidden := make([]string, 0, len(pk.R))

	for name := range pk.R {
		if _, ok := revealedSet[name]; !ok {
			hidden = append(hidden, name)
		}
	}

	sort.Strings(hidden)

	return hidden
}

// primaryEqProofInit holds the first-message state of the signature
// possession proof for one credential.
type primaryEqProofInit struct {
	aPrime *big.Int
	t      *big.Int

	e  *big.Int
	vr *big.Int

	eTilde *big.Int
	vTilde *big.Int
	mTilde map[string]*big.Int

	hidden   []string
	values   *CredentialValues
	revealed []string
}

// newPrimaryEqProofInit randomizes the signature into A' and commits to the
// signature relation over the hidden attributes.
func newPrimaryEqProofInit(pk *CredentialPrimaryPublicKey, signature *CredentialSignature,
	values *CredentialValues, request *SubProofRequest) (*primaryEqProofInit, error) {
	if pk == nil || signature == nil || values == nil || request == nil {
		return nil, errors.New("primary proof: nil input")
	}

	for _, name := range request.RevealedAttrs {
		if values.IsHidden(name) {
			return nil, errors.Errorf("primary proof: attribute %q is holder-contributed and cannot be revealed", name)
		}
	}

	n := pk.N
	hidden := hiddenAttrs(pk, request.RevealedAttrs)

	rA, err := randomBits(largeRA)
	if err != nil {
		return nil, err
	}

	// A' = A · S^rA; the signature relation then holds for
	// v' = v - e·rA against A'.
	aPrime := new(big.Int).Exp(pk.S, rA, n)
	aPrime.Mod(aPrime.Mul(aPrime, signature.A), n)

	vr := new(big.Int).Mul(signature.E, rA)
	vr.Sub(signature.V, vr)

	eTilde, err := randomBits(largeETilde)
	if err != nil {
		return nil, err
	}

	vTilde, err := randomBits(largeVTilde)
	if err != nil {
		return nil, err
	}

	mTilde := make(map[string]*big.Int, len(hidden))

	t := new(big.Int).Exp(aPrime, eTilde, n)
	t.Mod(t.Mul(t, new(big.Int).Exp(pk.S, vTilde, n)), n)

	for _, name := range hidden {
		if _, ok := values.Value(name); !ok {
			return nil, errors.Errorf("primary proof: no value for hidden attribute %q", name)
		}

		mTilde[name], err = randomBits(largeMTilde)
		if err != nil {
			return nil, err
		}

		base, ok := pk.R[name]
		if !ok {
			return nil, errors.Errorf("primary proof: public key has no base for attribute %q", name)
		}

		t.Mod(t.Mul(t, new(big.Int).Exp(base, mTilde[name], n)), n)
	}

	return &primaryEqProofInit{
		aPrime:   aPrime,
		t:        t,
		e:        signature.E,
		vr:       vr,
		eTilde:   eTilde,
		vTilde:   vTilde,
		mTilde:   mTilde,
		hidden:   hidden,
		values:   values,
		revealed: request.RevealedAttrs,
	}, nil
}

// finalize answers the challenge with the response scalars and the disclosed
// values.
func (in *primaryEqProofInit) finalize(challenge *big.Int) (*PrimaryEqualProof, error) {
	eHat := new(big.Int).Mul(challenge, in.e)
	eHat.Add(eHat, in.eTilde)

	vHat := new(big.Int).Mul(challenge, in.vr)
	vHat.Add(vHat, in.vTilde)

	mHat := make(map[string]*big.Int, len(in.hidden))

	for _, name := range in.hidden {
		value, _ := in.values.Value(name)

		h := new(big.Int).Mul(challenge, value)
		mHat[name] = h.Add(h, in.mTilde[name])
	}

	revealed := make(map[string]*big.Int, len(in.revealed))

	for _, name := range in.revealed {
		value, ok := in.values.Value(name)
		if !ok {
			return nil, errors.Errorf("primary proof: no value for revealed attribute %q", name)
		}

		revealed[name] = new(big.Int).Set(value)
	}

	return &PrimaryEqualProof{
		APrime:        in.aPrime,
		EHat:          eHat,
		VHat:          vHat,
		MHat:          mHat,
		RevealedAttrs: revealed,
	}, nil
}

// recomputePrimaryEqualT reconstructs the prover's commitment from the
// responses: T' = Q^-c · A'^ê · S^v̂ · Π R_i^m̂_i with
// Q = Z / Π_revealed R_j^m_j.
func recomputePrimaryEqualT(proof *PrimaryEqualProof, pk *CredentialPrimaryPublicKey,
	request *SubProofRequest, challenge *big.Int) (*big.Int, error) {
	if proof == nil || proof.APrime == nil || proof.EHat == nil || proof.VHat == nil {
		return nil, errors.Wrap(ErrInvalidPrimaryProof, "missing proof component")
	}

	n := pk.N

	revealedProduct := big.NewInt(1)

	for _, name := range request.RevealedAttrs {
		value, ok := proof.RevealedAttrs[name]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidPrimaryProof, "no revealed value for attribute %q", name)
		}

		base, ok := pk.R[name]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidPrimaryProof, "public key has no base for attribute %q", name)
		}

		revealedProduct.Mod(revealedProduct.Mul(revealedProduct, new(big.Int).Exp(base, value, n)), n)
	}

	q := new(big.Int).Mod(new(big.Int).Mul(pk.Z, modInverse(revealedProduct, n)), n)

	t := modExp(q, new(big.Int).Neg(challenge), n)
	t.Mod(t.Mul(t, modExp(proof.APrime, proof.EHat, n)), n)
	t.Mod(t.Mul(t, modExp(pk.S, proof.VHat, n)), n)

	for _, name := range hiddenAttrs(pk, request.RevealedAttrs) {
		mHat, ok := proof.MHat[name]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidPrimaryProof, "no response for hidden attribute %q", name)
		}

		t.Mod(t.Mul(t, modExp(pk.R[name], mHat, n)), n)
	}

	return t, nil
}
