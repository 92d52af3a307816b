/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
)

// randomBits returns a uniformly random integer in [0, 2^bits).
func randomBits(bits int) (*big.Int, error) {
	max := new(big.Int).Lsh(bigOne, uint(bits))

	r, err := rand.Int(rand.Reader, max)
	if err != nil {
		return nil, errors.Wrap(err, "sample random integer")
	}

	return r, nil
}

// randomInRange returns a uniformly random integer in [start, start+width).
func randomInRange(start, width *big.Int) (*big.Int, error) {
	r, err := rand.Int(rand.Reader, width)
	if err != nil {
		return nil, errors.Wrap(err, "sample random integer")
	}

	return r.Add(r, start), nil
}

// randomPrimeInRange returns a random probable prime in [start, start+width).
func randomPrimeInRange(start, width *big.Int) (*big.Int, error) {
	for {
		r, err := randomInRange(start, width)
		if err != nil {
			return nil, err
		}

		// force odd, primes in this range are odd
		r.SetBit(r, 0, 1)

		if r.ProbablyPrime(20) {
			return r, nil
		}
	}
}

// modExp computes base^exp mod n, accepting negative exponents by inverting
// the base. The bases used by this scheme are all units mod n.
func modExp(base, exp, n *big.Int) *big.Int {
	if exp.Sign() >= 0 {
		return new(big.Int).Exp(base, exp, n)
	}

	inv := new(big.Int).ModInverse(base, n)

	return inv.Exp(inv, new(big.Int).Neg(exp), n)
}

// modInverse returns base^-1 mod n.
func modInverse(base, n *big.Int) *big.Int {
	return new(big.Int).ModInverse(base, n)
}

// encodeToInt maps an arbitrary byte string to a 256-bit integer, the
// canonical attribute-value encoding of the scheme.
func encodeToInt(data []byte) *big.Int {
	digest := blake2b.Sum256(data)

	return new(big.Int).SetBytes(digest[:])
}

// isPerfectSquare reports whether v is a perfect square, returning its root.
func isPerfectSquare(v *big.Int) (*big.Int, bool) {
	if v.Sign() < 0 {
		return nil, false
	}

	root := new(big.Int).Sqrt(v)
	sq := new(big.Int).Mul(root, root)

	return root, sq.Cmp(v) == 0
}

// fourSquares decomposes delta into u1^2+u2^2+u3^2+u4^2 (Lagrange). The
// search walks candidate roots downwards from floor(sqrt(rest)); predicate
// deltas are bounded, so this terminates quickly.
func fourSquares(delta *big.Int) ([4]*big.Int, error) {
	var out [4]*big.Int

	if delta.Sign() < 0 {
		return out, errors.New("four squares: negative delta")
	}

	if delta.BitLen() > maxPredicateDeltaBits {
		return out, errors.Errorf("four squares: delta too large (%d bits)", delta.BitLen())
	}

	u1 := new(big.Int).Sqrt(delta)
	for ; u1.Sign() >= 0; u1.Sub(u1, bigOne) {
		r1 := new(big.Int).Mul(u1, u1)
		r1.Sub(delta, r1)

		u2 := new(big.Int).Sqrt(r1)
		for ; u2.Sign() >= 0; u2.Sub(u2, bigOne) {
			r2 := new(big.Int).Mul(u2, u2)
			r2.Sub(r1, r2)

			u3 := new(big.Int).Sqrt(r2)
			for ; u3.Sign() >= 0; u3.Sub(u3, bigOne) {
				r3 := new(big.Int).Mul(u3, u3)
				r3.Sub(r2, r3)

				if u4, ok := isPerfectSquare(r3); ok {
					out[0] = new(big.Int).Set(u1)
					out[1] = new(big.Int).Set(u2)
					out[2] = new(big.Int).Set(u3)
					out[3] = u4

					return out, nil
				}
			}
		}
	}

	// unreachable by Lagrange's theorem
	return out, errors.New("four squares: no decomposition found")
}
