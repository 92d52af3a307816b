/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"crypto/rand"
	"math/big"

	bls12381 "github.com/kilic/bls12-381"
	"github.com/pkg/errors"
)

// CredentialPrimaryPublicKey is the strong-RSA part of an issuer key: a
// modulus n, a quadratic-residue base S, the signature base Z and one base R
// per signed attribute (schema and non-schema alike).
type CredentialPrimaryPublicKey struct {
	N *big.Int
	S *big.Int
	Z *big.Int
	R map[string]*big.Int
}

// attrNames returns the names of all attributes the key can sign.
func (pk *CredentialPrimaryPublicKey) attrNames() []string {
	names := make([]string, 0, len(pk.R))
	for name := range pk.R {
		names = append(names, name)
	}

	return names
}

// CredentialRevocationPublicKey is the pairing-based revocation component of
// an issuer key: a blinding base H in G1 and the registry key PKTilde = g̃^γ
// in G2.
type CredentialRevocationPublicKey struct {
	H       *bls12381.PointG1
	PKTilde *bls12381.PointG2
}

// CredentialPublicKey is an issuer's public verification key: the primary
// part plus an optional revocation part.
type CredentialPublicKey struct {
	Primary    *CredentialPrimaryPublicKey
	Revocation *CredentialRevocationPublicKey
}

// CredentialPrivateKey is the issuer's signing key. Gamma is nil when the
// credential definition carries no revocation support.
type CredentialPrivateKey struct {
	P     *big.Int
	Q     *big.Int
	Gamma *bls12381.Fr
}

// groupOrder returns the order of the quadratic-residue subgroup mod n.
func (sk *CredentialPrivateKey) groupOrder() *big.Int {
	pSub := new(big.Int).Sub(sk.P, bigOne)
	qSub := new(big.Int).Sub(sk.Q, bigOne)

	ord := new(big.Int).Mul(pSub, qSub)

	return ord.Rsh(ord, 2)
}

// GenerateCredentialDef generates an issuer key pair able to sign every
// attribute of the schema and non-schema sets. With withRevocation set, the
// key additionally carries the accumulator component for non-revocation
// proofs.
func GenerateCredentialDef(schema *CredentialSchema, nonSchema *NonCredentialSchema,
	withRevocation bool) (*CredentialPublicKey, *CredentialPrivateKey, error) {
	if schema == nil || nonSchema == nil {
		return nil, nil, errors.New("generate credential definition: nil schema")
	}

	attrs := make([]string, 0, len(schema.AttrNames)+len(nonSchema.AttrNames))
	attrs = append(attrs, schema.AttrNames...)
	attrs = append(attrs, nonSchema.AttrNames...)

	if len(attrs) == 0 {
		return nil, nil, errors.New("generate credential definition: no attributes to sign")
	}

	p, err := rand.Prime(rand.Reader, largePrime)
	if err != nil {
		return nil, nil, errors.Wrap(err, "generate credential definition")
	}

	q, err := rand.Prime(rand.Reader, largePrime)
	if err != nil {
		return nil, nil, errors.Wrap(err, "generate credential definition")
	}

	n := new(big.Int).Mul(p, q)

	// S generates (a large subgroup of) the quadratic residues mod n.
	s, err := randomQR(n)
	if err != nil {
		return nil, nil, err
	}

	ord := (&CredentialPrivateKey{P: p, Q: q}).groupOrder()

	z, err := randomPower(s, ord, n)
	if err != nil {
		return nil, nil, err
	}

	r := make(map[string]*big.Int, len(attrs))

	for _, attr := range attrs {
		if _, ok := r[attr]; ok {
			return nil, nil, errors.Errorf("generate credential definition: duplicate attribute %q", attr)
		}

		r[attr], err = randomPower(s, ord, n)
		if err != nil {
			return nil, nil, err
		}
	}

	pub := &CredentialPublicKey{
		Primary: &CredentialPrimaryPublicKey{N: n, S: s, Z: z, R: r},
	}
	priv := &CredentialPrivateKey{P: p, Q: q}

	if withRevocation {
		gamma := createRandFr()

		g1 := bls12381.NewG1()
		g2 := bls12381.NewG2()

		h := g1.New()
		g1.MulScalar(h, g1.One(), frToRepr(createRandFr()))

		pkTilde := g2.New()
		g2.MulScalar(pkTilde, g2.One(), frToRepr(gamma))

		pub.Revocation = &CredentialRevocationPublicKey{H: h, PKTilde: pkTilde}
		priv.Gamma = gamma
	}

	return pub, priv, nil
}

// randomQR samples a random quadratic residue mod n.
func randomQR(n *big.Int) (*big.Int, error) {
	x, err := rand.Int(rand.Reader, n)
	if err != nil {
		return nil, errors.Wrap(err, "sample quadratic residue")
	}

	return x.Mod(x.Mul(x, x), n), nil
}

// randomPower returns s^x mod n for random x in [2, ord).
func randomPower(s, ord, n *big.Int) (*big.Int, error) {
	x, err := rand.Int(rand.Reader, ord)
	if err != nil {
		return nil, errors.Wrap(err, "sample group exponent")
	}

	if x.Cmp(bigTwo) < 0 {
		x.Add(x, bigTwo)
	}

	return new(big.Int).Exp(s, x, n), nil
}
