/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFourSquares(t *testing.T) {
	for _, delta := range []int64{0, 1, 2, 3, 7, 12, 23, 50, 99, 1000, 65535, 123456} {
		squares, err := fourSquares(big.NewInt(delta))
		require.NoError(t, err, "delta %d", delta)

		sum := new(big.Int)
		for _, u := range squares {
			sum.Add(sum, new(big.Int).Mul(u, u))
		}

		require.Equal(t, delta, sum.Int64(), "delta %d", delta)
	}
}

func TestFourSquaresNegativeDelta(t *testing.T) {
	_, err := fourSquares(big.NewInt(-5))
	require.Error(t, err)
}

func TestFourSquaresDeltaTooLarge(t *testing.T) {
	_, err := fourSquares(new(big.Int).Lsh(bigOne, maxPredicateDeltaBits+1))
	require.Error(t, err)
}

func TestModExpNegativeExponent(t *testing.T) {
	n := big.NewInt(101 * 103)
	base := big.NewInt(7)

	inv := modExp(base, big.NewInt(-3), n)
	direct := new(big.Int).Exp(base, big.NewInt(3), n)

	product := new(big.Int).Mod(new(big.Int).Mul(inv, direct), n)
	require.Equal(t, int64(1), product.Int64())
}

func TestModExpPositiveExponentMatchesExp(t *testing.T) {
	n := big.NewInt(101 * 103)

	require.Equal(t, new(big.Int).Exp(big.NewInt(7), big.NewInt(20), n),
		modExp(big.NewInt(7), big.NewInt(20), n))
}

func TestEncodeToInt(t *testing.T) {
	a := encodeToInt([]byte("alice"))
	b := encodeToInt([]byte("alice"))
	c := encodeToInt([]byte("bob"))

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.LessOrEqual(t, a.BitLen(), largeAttr)
}

func TestRandomPrimeInRange(t *testing.T) {
	start := new(big.Int).Lsh(bigOne, 16)
	width := new(big.Int).Lsh(bigOne, 8)

	p, err := randomPrimeInRange(start, width)
	require.NoError(t, err)

	require.True(t, p.ProbablyPrime(20))
	require.True(t, p.Cmp(start) >= 0)
	require.True(t, p.Cmp(new(big.Int).Add(start, width)) < 0)
}

func TestRandomBitsWithinRange(t *testing.T) {
	for i := 0; i < 16; i++ {
		r, err := randomBits(80)
		require.NoError(t, err)
		require.LessOrEqual(t, r.BitLen(), 80)
	}
}
