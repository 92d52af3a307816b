/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

// Bit lengths of the integers used by the primary (strong-RSA) part of the
// scheme. The profile follows the Idemix/CL parameter set: attribute values
// are 256-bit encodings, the signature exponent e is a 596-bit prime and v is
// a 2724-bit randomizer. Blinding factors leave an 80-bit statistical hiding
// margin over the largest value they mask.
const (
	// Size of p and q; the modulus n = p*q is twice this.
	largePrime = 1024

	// Encoded attribute values and the master secret.
	largeAttr         = 256
	largeMasterSecret = 256

	// Signature components.
	largeEStart      = 596
	largeEEndRange   = 119
	largeVPrimePrime = 2724

	// Blinded-secrets commitment randomizer (holder side of issuance).
	largeVPrime = 1088

	// Randomizer used to blind A into A' at presentation time.
	largeRA = 2128

	// Blinding factors of the equality proof.
	largeETilde = 940
	largeVTilde = 3060
	largeMTilde = 593

	// Predicate (inequality) proof values and blinding factors.
	largeRPredicate = 2128
	largeUTilde     = 592
	largeRTilde     = 2464
	largeAlphaTilde = 2787

	// Challenge scalar and nonce sizes.
	challengeLen = 32
	largeNonce   = 80

	// Predicate deltas above this size cannot be decomposed in reasonable
	// time and are rejected at proof construction.
	maxPredicateDeltaBits = 32
)
