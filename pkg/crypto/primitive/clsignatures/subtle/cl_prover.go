/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package subtle

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/anoncreds-clsignatures-go/pkg/crypto/primitive/clsignatures"
	"github.com/hyperledger/anoncreds-clsignatures-go/pkg/internal/clutil"
)

// CLProver is the holder-side service: it blinds the master secret into
// credential requests, completes issued signatures and builds presentation
// proofs, all over JSON-encoded artifacts.
type CLProver struct {
	masterSecret *clsignatures.MasterSecret
}

// NewMasterSecret samples a master secret and returns its JSON encoding.
func NewMasterSecret() ([]byte, error) {
	ms, err := clsignatures.NewMasterSecret()
	if err != nil {
		return nil, err
	}

	return json.Marshal(ms)
}

// NewCLProver creates a new instance of CLProver with the provided master
// secret.
func NewCLProver(masterSecret []byte) (*CLProver, error) {
	ms := &clsignatures.MasterSecret{}
	if err := json.Unmarshal(masterSecret, ms); err != nil {
		return nil, fmt.Errorf("cl_prover: invalid master secret json: %w", err)
	}

	return &CLProver{masterSecret: ms}, nil
}

// CredentialRequest is the holder-retained state of one issuance exchange:
// the blinded secrets to send to the issuer plus the private factors needed
// to complete the returned signature.
type CredentialRequest struct {
	BlindedSecrets []byte

	pubKey  *clsignatures.CredentialPublicKey
	values  *clsignatures.CredentialValues
	factors *clsignatures.CredentialSecretsBlindingFactors
}

// RequestCredential blinds the master secret against the issuer's public
// key and encodes the attribute values for issuance.
func (p *CLProver) RequestCredential(pubKey []byte,
	values map[string]interface{}) (*CredentialRequest, error) {
	logger.Debugf("requesting credential over %d values", len(values))

	clPubKey := &clsignatures.CredentialPublicKey{}
	if err := json.Unmarshal(pubKey, clPubKey); err != nil {
		return nil, fmt.Errorf("cl_prover: invalid cred def public key json: %w", err)
	}

	credValues, err := clutil.BuildValues(values, p.masterSecret.Value())
	if err != nil {
		return nil, err
	}

	blinded, factors, err := clsignatures.BlindCredentialSecrets(clPubKey, credValues)
	if err != nil {
		return nil, err
	}

	blindedJSON, err := json.Marshal(blinded)
	if err != nil {
		return nil, err
	}

	return &CredentialRequest{
		BlindedSecrets: blindedJSON,
		pubKey:         clPubKey,
		values:         credValues,
		factors:        factors,
	}, nil
}

// ProcessCredentialSignature completes the issuer's signature with the
// request's blinding factors and verifies it against the values
// returns:
//
//	completed signature in []byte
//	error in case of errors
func (p *CLProver) ProcessCredentialSignature(request *CredentialRequest,
	signature []byte) ([]byte, error) {
	if request == nil {
		return nil, fmt.Errorf("cl_prover: nil credential request")
	}

	clSignature := &clsignatures.CredentialSignature{}
	if err := json.Unmarshal(signature, clSignature); err != nil {
		return nil, fmt.Errorf("cl_prover: invalid credential signature json: %w", err)
	}

	err := clsignatures.ProcessCredentialSignature(clSignature, request.factors, request.pubKey, request.values)
	if err != nil {
		return nil, err
	}

	return json.Marshal(clSignature)
}

// PresentationCredential bundles the JSON-encoded material of one credential
// for a presentation. RevReg and Witness must both be set for a revocable
// credential and both absent otherwise.
type PresentationCredential struct {
	SubProofRequest json.RawMessage        `json:"sub_proof_request"`
	Schema          json.RawMessage        `json:"credential_schema"`
	Signature       json.RawMessage        `json:"credential_signature"`
	Values          map[string]interface{} `json:"credential_values"`
	PubKey          json.RawMessage        `json:"credential_pub_key"`
	RevReg          json.RawMessage        `json:"rev_reg,omitempty"`
	Witness         json.RawMessage        `json:"witness,omitempty"`
}

// CreateProof builds the presentation proof over the given credentials, in
// order, against the verifier's nonce
// returns:
//
//	proof in []byte
//	error in case of errors
func (p *CLProver) CreateProof(nonce []byte, creds ...PresentationCredential) ([]byte, error) {
	logger.Debugf("creating proof over %d credentials", len(creds))

	clNonce := &clsignatures.Nonce{}
	if err := json.Unmarshal(nonce, clNonce); err != nil {
		return nil, fmt.Errorf("cl_prover: invalid nonce json: %w", err)
	}

	builder := clsignatures.NewProofBuilder()

	for i, cred := range creds {
		request := &clsignatures.SubProofRequest{}
		if err := json.Unmarshal(cred.SubProofRequest, request); err != nil {
			return nil, fmt.Errorf("cl_prover: credential %d: invalid sub-proof request json: %w", i, err)
		}

		schema := &clsignatures.CredentialSchema{}
		if err := json.Unmarshal(cred.Schema, schema); err != nil {
			return nil, fmt.Errorf("cl_prover: credential %d: invalid schema json: %w", i, err)
		}

		signature := &clsignatures.CredentialSignature{}
		if err := json.Unmarshal(cred.Signature, signature); err != nil {
			return nil, fmt.Errorf("cl_prover: credential %d: invalid signature json: %w", i, err)
		}

		pubKey := &clsignatures.CredentialPublicKey{}
		if err := json.Unmarshal(cred.PubKey, pubKey); err != nil {
			return nil, fmt.Errorf("cl_prover: credential %d: invalid cred def public key json: %w", i, err)
		}

		values, err := clutil.BuildValues(cred.Values, p.masterSecret.Value())
		if err != nil {
			return nil, err
		}

		nonSchemaBuilder := clsignatures.NewNonCredentialSchemaBuilder()
		if err := nonSchemaBuilder.AddAttr(clutil.MasterSecretAttr); err != nil {
			return nil, err
		}

		nonSchema, err := nonSchemaBuilder.Finalize()
		if err != nil {
			return nil, err
		}

		var revReg *clsignatures.RevocationRegistry

		var witness *clsignatures.Witness

		if cred.RevReg != nil {
			revReg = &clsignatures.RevocationRegistry{}
			if err := json.Unmarshal(cred.RevReg, revReg); err != nil {
				return nil, fmt.Errorf("cl_prover: credential %d: invalid revocation registry json: %w", i, err)
			}
		}

		if cred.Witness != nil {
			witness = &clsignatures.Witness{}
			if err := json.Unmarshal(cred.Witness, witness); err != nil {
				return nil, fmt.Errorf("cl_prover: credential %d: invalid witness json: %w", i, err)
			}
		}

		err = builder.AddSubProofRequest(request, schema, nonSchema, signature, values, pubKey, revReg, witness)
		if err != nil {
			return nil, err
		}
	}

	proof, err := builder.Finalize(clNonce)
	if err != nil {
		return nil, err
	}

	return json.Marshal(proof)
}
