/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"math/big"

	"github.com/pkg/errors"
)

// gePredicateProofInit holds the first-message state of one inequality proof.
// The predicate attr >= threshold is proven by exhibiting a four-squares
// decomposition of delta = attr - threshold inside commitments
// T_i = Z^(u_i) · S^(r_i).
type gePredicateProofInit struct {
	predicate Predicate

	u     map[string]*big.Int
	r     map[string]*big.Int
	t     map[string]*big.Int
	alpha *big.Int

	uTilde     map[string]*big.Int
	rTilde     map[string]*big.Int
	alphaTilde *big.Int
	mTilde     *big.Int

	m *big.Int

	tau [][]byte
}

// newGEPredicateProofInit decomposes delta into four squares, commits to the
// decomposition and produces the tau commitments for the challenge. mTilde
// must be the same blinding the equality proof uses for the attribute, which
// ties the predicate to the signed value.
func newGEPredicateProofInit(pk *CredentialPrimaryPublicKey, predicate Predicate,
	m, mTilde *big.Int) (*gePredicateProofInit, error) {
	n := pk.N

	delta := new(big.Int).Sub(m, big.NewInt(predicate.threshold()))
	if delta.Sign() < 0 {
		return nil, errors.Errorf("predicate proof: attribute %q does not satisfy %s %d",
			predicate.AttrName, predicate.PType, predicate.Value)
	}

	squares, err := fourSquares(delta)
	if err != nil {
		return nil, errors.Wrap(err, "predicate proof")
	}

	in := &gePredicateProofInit{
		predicate: predicate,
		u:         make(map[string]*big.Int, 4),
		r:         make(map[string]*big.Int, 5),
		t:         make(map[string]*big.Int, 5),
		uTilde:    make(map[string]*big.Int, 4),
		rTilde:    make(map[string]*big.Int, 5),
		mTilde:    mTilde,
		m:         m,
	}

	for i, key := range geProofIndices {
		in.u[key] = squares[i]

		if in.r[key], err = randomBits(largeRPredicate); err != nil {
			return nil, err
		}
	}

	if in.r[geProofDelta], err = randomBits(largeRPredicate); err != nil {
		return nil, err
	}

	// T_i = Z^(u_i) · S^(r_i), T_DELTA = Z^delta · S^(r_DELTA).
	commit := func(exp, blind *big.Int) *big.Int {
		t := new(big.Int).Exp(pk.Z, exp, n)

		return t.Mod(t.Mul(t, new(big.Int).Exp(pk.S, blind, n)), n)
	}

	for _, key := range geProofIndices {
		in.t[key] = commit(in.u[key], in.r[key])
	}

	in.t[geProofDelta] = commit(delta, in.r[geProofDelta])

	// alpha = r_DELTA - sum(u_i · r_i) closes the relation
	// T_DELTA = prod(T_i^(u_i)) · S^alpha.
	in.alpha = new(big.Int).Set(in.r[geProofDelta])

	for _, key := range geProofIndices {
		in.alpha.Sub(in.alpha, new(big.Int).Mul(in.u[key], in.r[key]))
	}

	for _, key := range geProofIndices {
		if in.uTilde[key], err = randomBits(largeUTilde); err != nil {
			return nil, err
		}

		if in.rTilde[key], err = randomBits(largeRTilde); err != nil {
			return nil, err
		}
	}

	if in.rTilde[geProofDelta], err = randomBits(largeRTilde); err != nil {
		return nil, err
	}

	if in.alphaTilde, err = randomBits(largeAlphaTilde); err != nil {
		return nil, err
	}

	tauBar := make([][]byte, 0, 6)

	for _, key := range geProofIndices {
		tauBar = append(tauBar, commit(in.uTilde[key], in.rTilde[key]).Bytes())
	}

	tauBar = append(tauBar, commit(mTilde, in.rTilde[geProofDelta]).Bytes())

	tBar := new(big.Int).Exp(pk.S, in.alphaTilde, n)

	for _, key := range geProofIndices {
		tBar.Mod(tBar.Mul(tBar, new(big.Int).Exp(in.t[key], in.uTilde[key], n)), n)
	}

	in.tau = append(tauBar, tBar.Bytes())

	return in, nil
}

// cValues returns the ordered commitment values T_1..T_4, T_DELTA folded
// into the challenge after A'.
func (in *gePredicateProofInit) cValues() [][]byte {
	out := make([][]byte, 0, 5)

	for _, key := range geProofIndices {
		out = append(out, in.t[key].Bytes())
	}

	return append(out, in.t[geProofDelta].Bytes())
}

// tauValues returns the ordered tau commitments folded into the challenge
// after the equality proof's T.
func (in *gePredicateProofInit) tauValues() [][]byte {
	return in.tau
}

// finalize answers the challenge.
func (in *gePredicateProofInit) finalize(challenge *big.Int) *PrimaryPredicateGEProof {
	resp := func(tilde, secret *big.Int) *big.Int {
		r := new(big.Int).Mul(challenge, secret)

		return r.Add(r, tilde)
	}

	proof := &PrimaryPredicateGEProof{
		T:         make(map[string]*big.Int, 5),
		UHat:      make(map[string]*big.Int, 4),
		RHat:      make(map[string]*big.Int, 5),
		AlphaHat:  resp(in.alphaTilde, in.alpha),
		MHat:      resp(in.mTilde, in.m),
		Predicate: in.predicate,
	}

	for _, key := range geProofIndices {
		proof.T[key] = in.t[key]
		proof.UHat[key] = resp(in.uTilde[key], in.u[key])
		proof.RHat[key] = resp(in.rTilde[key], in.r[key])
	}

	proof.T[geProofDelta] = in.t[geProofDelta]
	proof.RHat[geProofDelta] = resp(in.rTilde[geProofDelta], in.r[geProofDelta])

	return proof
}

// recomputeGEPredicate reconstructs the prover's tau commitments from the
// responses. The threshold is taken from the verifier's own request, not the
// proof, so a tampered predicate cannot slip through. mHat must be the
// equality proof's response for the predicate attribute; the proof's own copy
// is never used, which keeps the predicate tied to the signed value. Returns
// the tau values followed by the c values, in fold order.
func recomputeGEPredicate(proof *PrimaryPredicateGEProof, pk *CredentialPrimaryPublicKey,
	predicate Predicate, mHat, challenge *big.Int) (tauValues, cValues [][]byte, err error) {
	if proof == nil || proof.AlphaHat == nil {
		return nil, nil, errors.Wrap(ErrInvalidPrimaryProof, "missing predicate proof component")
	}

	for _, key := range append(append([]string{}, geProofIndices...), geProofDelta) {
		if proof.T[key] == nil || proof.RHat[key] == nil {
			return nil, nil, errors.Wrapf(ErrInvalidPrimaryProof, "missing predicate proof value %q", key)
		}
	}

	for _, key := range geProofIndices {
		if proof.UHat[key] == nil {
			return nil, nil, errors.Wrapf(ErrInvalidPrimaryProof, "missing predicate proof value %q", key)
		}
	}

	n := pk.N
	negC := new(big.Int).Neg(challenge)

	// tauBar_i' = T_i^-c · Z^(uHat_i) · S^(rHat_i).
	recommit := func(base, exp, blind *big.Int) *big.Int {
		t := modExp(base, negC, n)
		t.Mod(t.Mul(t, modExp(pk.Z, exp, n)), n)

		return t.Mod(t.Mul(t, modExp(pk.S, blind, n)), n)
	}

	tauValues = make([][]byte, 0, 6)

	for _, key := range geProofIndices {
		tauValues = append(tauValues, recommit(proof.T[key], proof.UHat[key], proof.RHat[key]).Bytes())
	}

	// tauBarDelta' = (T_DELTA · Z^threshold)^-c · Z^(mHat) · S^(rHat_DELTA).
	shifted := new(big.Int).Exp(pk.Z, big.NewInt(predicate.threshold()), n)
	shifted.Mod(shifted.Mul(shifted, proof.T[geProofDelta]), n)

	tauValues = append(tauValues, recommit(shifted, mHat, proof.RHat[geProofDelta]).Bytes())

	// tauBar' = T_DELTA^-c · prod(T_i^(uHat_i)) · S^(alphaHat).
	tBar := modExp(proof.T[geProofDelta], negC, n)

	for _, key := range geProofIndices {
		tBar.Mod(tBar.Mul(tBar, modExp(proof.T[key], proof.UHat[key], n)), n)
	}

	tBar.Mod(tBar.Mul(tBar, modExp(pk.S, proof.AlphaHat, n)), n)

	tauValues = append(tauValues, tBar.Bytes())

	cValues = make([][]byte, 0, 5)

	for _, key := range geProofIndices {
		cValues = append(cValues, proof.T[key].Bytes())
	}

	cValues = append(cValues, proof.T[geProofDelta].Bytes())

	return tauValues, cValues, nil
}
