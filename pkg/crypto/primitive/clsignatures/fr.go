/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"

	bls12381 "github.com/kilic/bls12-381"
	"golang.org/x/crypto/blake2b"
)

func parseFr(data []byte) *bls12381.Fr {
	return bls12381.NewFr().FromBytes(data)
}

func f2192() *bls12381.Fr {
	return &bls12381.Fr{0, 0, 0, 1}
}

// frFromOKM maps an arbitrary byte string to a field element, splitting a
// 48-byte BLAKE2b digest into two reduced halves.
func frFromOKM(message []byte) *bls12381.Fr {
	const (
		eightBytes = 8
		okmMiddle  = 24
	)

	// We pass a null key so error is impossible here.
	h, _ := blake2b.New384(nil) //nolint:errcheck

	// blake2b.digest() does not return an error.
	_, _ = h.Write(message)
	okm := h.Sum(nil)
	emptyEightBytes := make([]byte, eightBytes)

	elm := bls12381.NewFr().FromBytes(append(emptyEightBytes, okm[:okmMiddle]...))
	elm.Mul(elm, f2192())

	fr := bls12381.NewFr().FromBytes(append(emptyEightBytes, okm[okmMiddle:]...))
	elm.Add(elm, fr)

	return elm
}

func frToRepr(fr *bls12381.Fr) *bls12381.Fr {
	frRepr := bls12381.NewFr()
	frRepr.Mul(fr, &bls12381.Fr{1})

	return frRepr
}

func frFromUint32(v uint32) *bls12381.Fr {
	data := make([]byte, frCompressedSize)
	binary.BigEndian.PutUint32(data[frCompressedSize-4:], v)

	return parseFr(data)
}

func frToBig(fr *bls12381.Fr) *big.Int {
	return new(big.Int).SetBytes(frToRepr(fr).ToBytes())
}

func createRandFr() *bls12381.Fr {
	fr, _ := bls12381.NewFr().Rand(rand.Reader) //nolint:errcheck

	return frToRepr(fr)
}

const frCompressedSize = 32
