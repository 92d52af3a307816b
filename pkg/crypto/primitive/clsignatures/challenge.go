/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"math/big"

	"github.com/gtank/merlin"
	"github.com/pkg/errors"
)

const (
	transcriptLabel = "anoncreds-cl-presentation"

	commitmentLabel = "commitment"
	nonceLabel      = "nonce"
	challengeLabel  = "challenge"
)

// ChallengeAccumulator folds an ordered list of commitments into a single
// Fiat-Shamir challenge scalar. Prover and verifier drive it identically:
// equal ordered inputs and nonce always produce an equal challenge.
type ChallengeAccumulator struct {
	transcript *merlin.Transcript
}

// NewChallengeAccumulator creates a domain-separated, empty accumulator.
func NewChallengeAccumulator() *ChallengeAccumulator {
	return &ChallengeAccumulator{transcript: merlin.NewTranscript(transcriptLabel)}
}

// Add appends one commitment to the transcript. Ordering is significant.
func (ca *ChallengeAccumulator) Add(commitment []byte) error {
	if len(commitment) == 0 {
		return errors.Wrap(ErrMalformedCommitment, "challenge accumulator")
	}

	ca.transcript.AppendMessage([]byte(commitmentLabel), commitment)

	return nil
}

// AddAll appends an ordered batch of commitments.
func (ca *ChallengeAccumulator) AddAll(commitments [][]byte) error {
	for _, c := range commitments {
		if err := ca.Add(c); err != nil {
			return err
		}
	}

	return nil
}

// Finalize folds the nonce and extracts the 256-bit challenge scalar.
func (ca *ChallengeAccumulator) Finalize(nonce *Nonce) (*big.Int, error) {
	if nonce == nil {
		return nil, errors.Wrap(ErrMalformedCommitment, "challenge accumulator: nil nonce")
	}

	ca.transcript.AppendMessage([]byte(nonceLabel), nonce.Bytes())

	out := ca.transcript.ExtractBytes([]byte(challengeLabel), challengeLen)

	return new(big.Int).SetBytes(out), nil
}
