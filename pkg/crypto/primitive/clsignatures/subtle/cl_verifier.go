/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package subtle

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/anoncreds-clsignatures-go/pkg/crypto/primitive/clsignatures"
)

// CLVerifier checks presentation proofs over JSON-encoded artifacts. It
// wraps one single-use ProofVerifier: after Verify the instance is consumed,
// whatever the outcome.
type CLVerifier struct {
	verifier *clsignatures.ProofVerifier
}

// NewCLVerifier creates a new instance of CLVerifier.
func NewCLVerifier() *CLVerifier {
	return &CLVerifier{verifier: clsignatures.NewProofVerifier()}
}

// NewNonce samples a verification nonce and returns its JSON encoding.
func NewNonce() ([]byte, error) {
	nonce, err := clsignatures.NewNonce()
	if err != nil {
		return nil, err
	}

	return json.Marshal(nonce)
}

// AddSubProofRequest registers one credential's verification context.
// revocationPubKey and revocationRegistry may both be nil for a
// non-revocable credential.
func (v *CLVerifier) AddSubProofRequest(keyID string, subProofRequest, schema, pubKey,
	revocationPubKey, revocationRegistry []byte) error {
	logger.Debugf("registering sub-proof request for key %q", keyID)

	request := &clsignatures.SubProofRequest{}
	if err := json.Unmarshal(subProofRequest, request); err != nil {
		return fmt.Errorf("cl_verifier: invalid sub-proof request json: %w", err)
	}

	clSchema := &clsignatures.CredentialSchema{}
	if err := json.Unmarshal(schema, clSchema); err != nil {
		return fmt.Errorf("cl_verifier: invalid schema json: %w", err)
	}

	clPubKey := &clsignatures.CredentialPublicKey{}
	if err := json.Unmarshal(pubKey, clPubKey); err != nil {
		return fmt.Errorf("cl_verifier: invalid cred def public key json: %w", err)
	}

	var revPub *clsignatures.RevocationKeyPublic

	var revReg *clsignatures.RevocationRegistry

	if revocationPubKey != nil {
		revPub = &clsignatures.RevocationKeyPublic{}
		if err := json.Unmarshal(revocationPubKey, revPub); err != nil {
			return fmt.Errorf("cl_verifier: invalid revocation public key json: %w", err)
		}
	}

	if revocationRegistry != nil {
		revReg = &clsignatures.RevocationRegistry{}
		if err := json.Unmarshal(revocationRegistry, revReg); err != nil {
			return fmt.Errorf("cl_verifier: invalid revocation registry json: %w", err)
		}
	}

	return v.verifier.AddSubProofRequest(keyID, request, clSchema, clPubKey, revPub, revReg)
}

// Verify checks the proof against the registered sub-proof requests and the
// nonce. The wrapped verifier is consumed
// returns:
//
//	validity of the proof as bool
//	error in case of structural errors
func (v *CLVerifier) Verify(proof, nonce []byte) (bool, error) {
	logger.Debugf("verifying presentation proof")

	clProof := &clsignatures.Proof{}
	if err := json.Unmarshal(proof, clProof); err != nil {
		return false, fmt.Errorf("cl_verifier: invalid proof json: %w", err)
	}

	clNonce := &clsignatures.Nonce{}
	if err := json.Unmarshal(nonce, clNonce); err != nil {
		return false, fmt.Errorf("cl_verifier: invalid nonce json: %w", err)
	}

	return v.verifier.Verify(clProof, clNonce)
}
