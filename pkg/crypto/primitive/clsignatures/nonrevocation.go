/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	bls12381 "github.com/kilic/bls12-381"
	"github.com/pkg/errors"
)

// RevocationKeyPublic is the public revocation key paired with a revocation
// registry; it is the revocation component of the issuer's credential key.
type RevocationKeyPublic = CredentialRevocationPublicKey

// RevocationRegistry is the public accumulator state of one revocation
// registry. The accumulator is V = g1^(Π (γ+idx)) over all currently valid
// revocation indices; issuing and revoking credentials update it.
type RevocationRegistry struct {
	Accum *bls12381.PointG1
}

// Witness is the holder's accumulator membership witness for one revocation
// index: W = V^(1/(γ+idx)).
type Witness struct {
	W   *bls12381.PointG1
	Idx uint32
}

func pairing(p *bls12381.PointG1, q *bls12381.PointG2) *bls12381.E {
	eng := bls12381.NewEngine()
	eng.AddPair(p, q)

	return eng.Result()
}

// nonRevocationBases computes the three GT bases of the membership relation
// X = B1^idx · B2^t · B3^s for a given blinded witness E:
// B1 = e(E, g̃), B2 = e(H, pk̃)^-1, B3 = e(H, g̃)^-1.
func nonRevocationBases(e *bls12381.PointG1,
	revPub *CredentialRevocationPublicKey) (b1, b2, b3 *bls12381.E) {
	g2 := bls12381.NewG2()
	gt := bls12381.NewGT()

	b1 = pairing(e, g2.One())

	b2 = gt.New()
	gt.Inverse(b2, pairing(revPub.H, revPub.PKTilde))

	b3 = gt.New()
	gt.Inverse(b3, pairing(revPub.H, g2.One()))

	return b1, b2, b3
}

// nonRevocationStatement computes X = e(V, g̃) · e(E, pk̃)^-1, the public
// value both sides of the protocol prove the relation against.
func nonRevocationStatement(e *bls12381.PointG1, revPub *CredentialRevocationPublicKey,
	reg *RevocationRegistry) *bls12381.E {
	g2 := bls12381.NewG2()
	gt := bls12381.NewGT()

	x := gt.New()
	gt.Inverse(x, pairing(e, revPub.PKTilde))
	gt.Mul(x, x, pairing(reg.Accum, g2.One()))

	return x
}

// nonRevocProofInit holds the first-message state of a non-revocation proof.
type nonRevocProofInit struct {
	e       *bls12381.PointG1
	tCommit *bls12381.E

	idx, t, s                *bls12381.Fr
	idxTilde, tTilde, sTilde *bls12381.Fr
}

// newNonRevocProofInit blinds the witness and commits to the membership
// relation exponents.
func newNonRevocProofInit(witness *Witness, revPub *CredentialRevocationPublicKey,
	reg *RevocationRegistry) (*nonRevocProofInit, error) {
	if witness == nil || witness.W == nil {
		return nil, errors.New("non-revocation proof: nil witness")
	}

	if revPub == nil || reg == nil || reg.Accum == nil {
		return nil, errors.New("non-revocation proof: missing revocation parameters")
	}

	g1 := bls12381.NewG1()
	gt := bls12381.NewGT()

	idx := frFromUint32(witness.Idx)
	t := createRandFr()

	s := bls12381.NewFr()
	s.Mul(t, idx)

	// E = W · H^t
	e := g1.New()
	g1.MulScalar(e, revPub.H, frToRepr(t))
	g1.Add(e, e, witness.W)

	b1, b2, b3 := nonRevocationBases(e, revPub)

	idxTilde := createRandFr()
	tTilde := createRandFr()
	sTilde := createRandFr()

	tCommit := gt.New()
	tmp := gt.New()
	gt.Exp(tCommit, b1, frToBig(idxTilde))
	gt.Exp(tmp, b2, frToBig(tTilde))
	gt.Mul(tCommit, tCommit, tmp)
	gt.Exp(tmp, b3, frToBig(sTilde))
	gt.Mul(tCommit, tCommit, tmp)

	return &nonRevocProofInit{
		e:        e,
		tCommit:  tCommit,
		idx:      idx,
		t:        t,
		s:        s,
		idxTilde: idxTilde,
		tTilde:   tTilde,
		sTilde:   sTilde,
	}, nil
}

// contributions returns the init's ordered challenge contributions: the
// tau value first, then the commitment value.
func (in *nonRevocProofInit) contributions() [][]byte {
	g1 := bls12381.NewG1()
	gt := bls12381.NewGT()

	return [][]byte{gt.ToBytes(in.tCommit), g1.ToUncompressed(in.e)}
}

// finalize answers the challenge, producing the wire proof.
func (in *nonRevocProofInit) finalize(challenge *bls12381.Fr) *NonRevocationProof {
	resp := func(tilde, secret *bls12381.Fr) *bls12381.Fr {
		r := bls12381.NewFr()
		r.Mul(challenge, secret)
		r.Add(r, tilde)

		return r
	}

	return &NonRevocationProof{
		E:      in.e,
		IdxHat: resp(in.idxTilde, in.idx),
		THat:   resp(in.tTilde, in.t),
		SHat:   resp(in.sTilde, in.s),
	}
}

// recomputeNonRevocation recomputes the proof's challenge contributions on
// the verifier side: T' = X^-c · B1^îdx · B2^t̂ · B3^ŝ, followed by E.
func recomputeNonRevocation(proof *NonRevocationProof, revPub *CredentialRevocationPublicKey,
	reg *RevocationRegistry, challenge *bls12381.Fr) ([][]byte, error) {
	if proof == nil || proof.E == nil || proof.IdxHat == nil || proof.THat == nil || proof.SHat == nil {
		return nil, errors.Wrap(ErrInvalidNonRevocationProof, "missing proof component")
	}

	if revPub == nil || revPub.H == nil || revPub.PKTilde == nil || reg == nil || reg.Accum == nil {
		return nil, errors.Wrap(ErrInvalidNonRevocationProof, "missing revocation parameters")
	}

	g1 := bls12381.NewG1()
	gt := bls12381.NewGT()

	b1, b2, b3 := nonRevocationBases(proof.E, revPub)
	x := nonRevocationStatement(proof.E, revPub, reg)

	xInv := gt.New()
	gt.Inverse(xInv, x)

	tPrime := gt.New()
	tmp := gt.New()
	gt.Exp(tPrime, xInv, frToBig(challenge))
	gt.Exp(tmp, b1, frToBig(proof.IdxHat))
	gt.Mul(tPrime, tPrime, tmp)
	gt.Exp(tmp, b2, frToBig(proof.THat))
	gt.Mul(tPrime, tPrime, tmp)
	gt.Exp(tmp, b3, frToBig(proof.SHat))
	gt.Mul(tPrime, tPrime, tmp)

	return [][]byte{gt.ToBytes(tPrime), g1.ToUncompressed(proof.E)}, nil
}
