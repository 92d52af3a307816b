/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"math/big"

	"github.com/pkg/errors"
)

// Nonce is a single-use verifier challenge value. A nonce must never be
// reused across verifications against the same key material.
type Nonce struct {
	value *big.Int
}

// NewNonce samples a fresh 80-bit nonce.
func NewNonce() (*Nonce, error) {
	v, err := randomBits(largeNonce)
	if err != nil {
		return nil, errors.Wrap(err, "new nonce")
	}

	return &Nonce{value: v}, nil
}

// NonceFromValue restores a nonce from its integer value.
func NonceFromValue(value *big.Int) (*Nonce, error) {
	if value == nil || value.Sign() < 0 {
		return nil, errors.New("nonce value must be a non-negative integer")
	}

	return &Nonce{value: new(big.Int).Set(value)}, nil
}

// Value returns the nonce's integer value.
func (n *Nonce) Value() *big.Int {
	return new(big.Int).Set(n.value)
}

// Bytes returns the canonical fixed-width encoding folded into the challenge.
func (n *Nonce) Bytes() []byte {
	width := largeNonce / 8
	if n.value.BitLen() > largeNonce {
		width = (n.value.BitLen() + 7) / 8
	}

	return n.value.FillBytes(make([]byte, width))
}
