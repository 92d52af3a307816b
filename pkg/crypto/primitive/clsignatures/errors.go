/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"github.com/pkg/errors"
)

// Sentinel errors returned by the verification engine. Callers match them
// with errors.Is; wrapped variants carry call-site context.
var (
	// ErrMalformedCommitment is returned by the challenge accumulator when a
	// commitment byte string is empty or otherwise unusable.
	ErrMalformedCommitment = errors.New("malformed commitment")

	// ErrAttributeNotFoundInSchema is returned when a sub-proof request
	// references an attribute name the credential schema does not declare.
	ErrAttributeNotFoundInSchema = errors.New("attribute not found in schema")

	// ErrRevocationParamsMismatch is returned when only one of the revocation
	// public key and revocation registry is supplied.
	ErrRevocationParamsMismatch = errors.New("revocation key and registry must be provided together")

	// ErrProofStructureMismatch is returned when the shape of a proof does not
	// match the registered sub-proof requests.
	ErrProofStructureMismatch = errors.New("proof structure does not match registered sub-proof requests")

	// ErrVerifierAlreadyConsumed is returned on any use of a proof verifier
	// after its Verify call.
	ErrVerifierAlreadyConsumed = errors.New("proof verifier already consumed")

	// ErrInvalidPrimaryProof is returned when a primary sub-proof is missing
	// required components and its contribution cannot be recomputed.
	ErrInvalidPrimaryProof = errors.New("invalid primary proof")

	// ErrInvalidNonRevocationProof is returned when a non-revocation sub-proof
	// is missing required components and its contribution cannot be recomputed.
	ErrInvalidNonRevocationProof = errors.New("invalid non-revocation proof")
)
