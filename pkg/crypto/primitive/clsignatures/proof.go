/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"math/big"

	bls12381 "github.com/kilic/bls12-381"
)

// CredentialSignature is a CL signature over one credential's attribute
// values: A^e · S^v · Π R_i^(m_i) = Z (mod n).
type CredentialSignature struct {
	A *big.Int
	E *big.Int
	V *big.Int
}

// Proof is the holder-produced presentation artifact: one sub-proof per
// presented credential, in the order the holder folded them into the
// aggregated challenge.
type Proof struct {
	SubProofs           []*SubProof
	AggregatedChallenge *big.Int
}

// SubProof is the portion of a presentation proof corresponding to one
// credential: the primary signature-possession proof and, when the
// credential is revocable, the accumulator-membership proof.
type SubProof struct {
	Primary       *PrimaryProof
	NonRevocation *NonRevocationProof
}

// PrimaryProof proves possession of a valid CL signature over disclosed and
// hidden attributes, plus one inequality proof per requested predicate.
type PrimaryProof struct {
	EqProof  *PrimaryEqualProof
	GEProofs []*PrimaryPredicateGEProof
}

// PrimaryEqualProof is the Schnorr-style proof of the signature relation.
// MHat carries one response per hidden attribute; RevealedAttrs carries the
// encoded values disclosed in the clear.
type PrimaryEqualProof struct {
	APrime        *big.Int
	EHat          *big.Int
	VHat          *big.Int
	MHat          map[string]*big.Int
	RevealedAttrs map[string]*big.Int
}

// PrimaryPredicateGEProof proves attr - threshold >= 0 via a four-squares
// decomposition. T holds the commitments T_1..T_4 and T_DELTA; UHat and RHat
// the corresponding responses; MHat the response tied to the attribute.
type PrimaryPredicateGEProof struct {
	T         map[string]*big.Int
	UHat      map[string]*big.Int
	RHat      map[string]*big.Int
	AlphaHat  *big.Int
	MHat      *big.Int
	Predicate Predicate
}

// Keys of the T/UHat/RHat maps of a PrimaryPredicateGEProof.
var geProofIndices = []string{"1", "2", "3", "4"}

const geProofDelta = "DELTA"

// NonRevocationProof proves that the holder's accumulator witness is valid
// against the registry value the proof was built for. E blinds the witness;
// the three responses answer for the revocation index, the blinding factor
// and their product.
type NonRevocationProof struct {
	E      *bls12381.PointG1
	IdxHat *bls12381.Fr
	THat   *bls12381.Fr
	SHat   *bls12381.Fr
}
