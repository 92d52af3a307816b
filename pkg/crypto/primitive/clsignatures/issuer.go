/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"math/big"

	bls12381 "github.com/kilic/bls12-381"
	"github.com/pkg/errors"
)

// SignCredential produces a CL signature over the issuer-known attribute
// values and the holder's blinded secrets commitment. The holder completes
// the signature with ProcessCredentialSignature before it can be used.
func SignCredential(pub *CredentialPublicKey, priv *CredentialPrivateKey,
	blinded *BlindedCredentialSecrets, values *CredentialValues) (*CredentialSignature, error) {
	if pub == nil || pub.Primary == nil || priv == nil {
		return nil, errors.New("sign credential: nil key")
	}

	if blinded == nil || blinded.U == nil {
		return nil, errors.New("sign credential: nil blinded secrets")
	}

	if values == nil {
		return nil, errors.New("sign credential: nil values")
	}

	pk := pub.Primary
	n := pk.N
	ord := priv.groupOrder()

	e, err := signatureExponent(ord)
	if err != nil {
		return nil, err
	}

	v, err := randomBits(largeVPrimePrime)
	if err != nil {
		return nil, err
	}

	// the top bit keeps v'' in a fixed-width range
	v.SetBit(v, largeVPrimePrime-1, 1)

	// Q = Z / (U · S^v'' · prod R_i^(m_i)) over the issuer-known values; the
	// holder's hidden values are already inside U.
	denom := new(big.Int).Exp(pk.S, v, n)
	denom.Mod(denom.Mul(denom, blinded.U), n)

	for _, name := range values.Attrs() {
		if values.IsHidden(name) {
			continue
		}

		base, ok := pk.R[name]
		if !ok {
			return nil, errors.Wrapf(ErrAttributeNotFoundInSchema, "sign credential: %q", name)
		}

		value, _ := values.Value(name)
		denom.Mod(denom.Mul(denom, new(big.Int).Exp(base, value, n)), n)
	}

	q := new(big.Int).Mod(new(big.Int).Mul(pk.Z, modInverse(denom, n)), n)

	eInv := new(big.Int).ModInverse(e, ord)
	a := new(big.Int).Exp(q, eInv, n)

	return &CredentialSignature{A: a, E: e, V: v}, nil
}

// signatureExponent samples the signature prime e, coprime to the group
// order so that e is invertible.
func signatureExponent(ord *big.Int) (*big.Int, error) {
	start := new(big.Int).Lsh(bigOne, largeEStart)
	width := new(big.Int).Lsh(bigOne, largeEEndRange)

	gcd := new(big.Int)

	for {
		e, err := randomPrimeInRange(start, width)
		if err != nil {
			return nil, err
		}

		if gcd.GCD(nil, nil, e, ord).Cmp(bigOne) == 0 {
			return e, nil
		}
	}
}

// NewRevocationRegistry creates an empty revocation registry: the
// accumulator over no registered indices is the G1 generator.
func NewRevocationRegistry() *RevocationRegistry {
	g1 := bls12381.NewG1()

	accum := g1.New()
	accum.Set(g1.One())

	return &RevocationRegistry{Accum: accum}
}

// revocationFactor returns γ + idx, the accumulator factor of one index.
func revocationFactor(priv *CredentialPrivateKey, idx uint32) (*bls12381.Fr, error) {
	if priv == nil || priv.Gamma == nil {
		return nil, errors.Wrap(ErrRevocationParamsMismatch, "key has no revocation component")
	}

	factor := bls12381.NewFr()
	factor.Add(priv.Gamma, frFromUint32(idx))

	if factor.IsZero() {
		return nil, errors.Wrap(ErrRevocationParamsMismatch, "degenerate revocation index")
	}

	return factor, nil
}

// RegisterCredential adds a revocation index to the registry accumulator:
// V' = V^(γ+idx).
func RegisterCredential(reg *RevocationRegistry, priv *CredentialPrivateKey, idx uint32) error {
	factor, err := revocationFactor(priv, idx)
	if err != nil {
		return err
	}

	g1 := bls12381.NewG1()
	g1.MulScalar(reg.Accum, reg.Accum, frToRepr(factor))

	return nil
}

// RevokeCredential removes a revocation index from the registry accumulator:
// V' = V^(1/(γ+idx)). Witnesses held against the old accumulator value stop
// verifying for the revoked index.
func RevokeCredential(reg *RevocationRegistry, priv *CredentialPrivateKey, idx uint32) error {
	factor, err := revocationFactor(priv, idx)
	if err != nil {
		return err
	}

	inv := bls12381.NewFr()
	inv.Inverse(factor)

	g1 := bls12381.NewG1()
	g1.MulScalar(reg.Accum, reg.Accum, frToRepr(inv))

	return nil
}

// ComputeWitness issues the membership witness W = V^(1/(γ+idx)) for a
// registered index against the registry's current accumulator value.
func ComputeWitness(reg *RevocationRegistry, priv *CredentialPrivateKey, idx uint32) (*Witness, error) {
	factor, err := revocationFactor(priv, idx)
	if err != nil {
		return nil, err
	}

	inv := bls12381.NewFr()
	inv.Inverse(factor)

	g1 := bls12381.NewG1()

	w := g1.New()
	g1.MulScalar(w, reg.Accum, frToRepr(inv))

	return &Witness{W: w, Idx: idx}, nil
}
