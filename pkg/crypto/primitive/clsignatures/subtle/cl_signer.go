/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package subtle

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/anoncreds-clsignatures-go/pkg/crypto/primitive/clsignatures"
	"github.com/hyperledger/anoncreds-clsignatures-go/pkg/internal/clutil"
)

var logger = log.New("anoncreds-clsignatures/subtle")

// CLSigner is the issuer-side service: it signs attribute values against a
// holder's blinded secrets and manages revocation registries, all over
// JSON-encoded artifacts.
type CLSigner struct {
	pubKey  *clsignatures.CredentialPublicKey
	privKey *clsignatures.CredentialPrivateKey
	attrs   []string
}

// NewCredentialDef generates a credential definition for the given
// attributes and returns the JSON-encoded key pair.
func NewCredentialDef(attrs []string, withRevocation bool) ([]byte, []byte, error) {
	schema, nonSchema, err := clutil.BuildSchema(attrs)
	if err != nil {
		return nil, nil, fmt.Errorf("cl_signer: build schema: %w", err)
	}

	pub, priv, err := clsignatures.GenerateCredentialDef(schema, nonSchema, withRevocation)
	if err != nil {
		return nil, nil, fmt.Errorf("cl_signer: generate credential definition: %w", err)
	}

	pubJSON, err := json.Marshal(pub)
	if err != nil {
		return nil, nil, err
	}

	privJSON, err := json.Marshal(priv)
	if err != nil {
		return nil, nil, err
	}

	return pubJSON, privJSON, nil
}

// NewCLSigner creates a new instance of CLSigner with the provided key pair.
func NewCLSigner(privKey, pubKey []byte, attrs []string) (*CLSigner, error) {
	clPubKey := &clsignatures.CredentialPublicKey{}
	if err := json.Unmarshal(pubKey, clPubKey); err != nil {
		return nil, fmt.Errorf("cl_signer: invalid cred def public key json: %w", err)
	}

	clPrivKey := &clsignatures.CredentialPrivateKey{}
	if err := json.Unmarshal(privKey, clPrivKey); err != nil {
		return nil, fmt.Errorf("cl_signer: invalid cred def private key json: %w", err)
	}

	return &CLSigner{
		pubKey:  clPubKey,
		privKey: clPrivKey,
		attrs:   attrs,
	}, nil
}

// GetPublicKey returns the signer's JSON-encoded credential public key.
func (s *CLSigner) GetPublicKey() ([]byte, error) {
	return json.Marshal(s.pubKey)
}

// Sign will generate a credential signature for the provided values and the
// holder's blinded secrets
// returns:
//
//	signature in []byte
//	error in case of errors
func (s *CLSigner) Sign(values map[string]interface{}, blindedSecrets []byte) ([]byte, error) {
	logger.Debugf("signing credential over %d values", len(values))

	credValues, err := clutil.BuildValues(values, nil)
	if err != nil {
		return nil, err
	}

	secrets := &clsignatures.BlindedCredentialSecrets{}
	if err := json.Unmarshal(blindedSecrets, secrets); err != nil {
		return nil, fmt.Errorf("cl_signer: invalid blinded secrets json: %w", err)
	}

	signature, err := clsignatures.SignCredential(s.pubKey, s.privKey, secrets, credValues)
	if err != nil {
		return nil, err
	}

	return json.Marshal(signature)
}

// NewRevocationRegistry creates an empty JSON-encoded revocation registry.
func (s *CLSigner) NewRevocationRegistry() ([]byte, error) {
	if s.pubKey.Revocation == nil {
		return nil, fmt.Errorf("cl_signer: credential definition has no revocation support")
	}

	return json.Marshal(clsignatures.NewRevocationRegistry())
}

// RegisterCredential adds a revocation index to the registry and returns the
// updated registry state.
func (s *CLSigner) RegisterCredential(registry []byte, idx uint32) ([]byte, error) {
	logger.Debugf("registering revocation index %d", idx)

	reg := &clsignatures.RevocationRegistry{}
	if err := json.Unmarshal(registry, reg); err != nil {
		return nil, fmt.Errorf("cl_signer: invalid revocation registry json: %w", err)
	}

	if err := clsignatures.RegisterCredential(reg, s.privKey, idx); err != nil {
		return nil, err
	}

	return json.Marshal(reg)
}

// RevokeCredential removes a revocation index from the registry and returns
// the updated registry state. Witnesses issued for the revoked index stop
// verifying against the new state.
func (s *CLSigner) RevokeCredential(registry []byte, idx uint32) ([]byte, error) {
	logger.Debugf("revoking revocation index %d", idx)

	reg := &clsignatures.RevocationRegistry{}
	if err := json.Unmarshal(registry, reg); err != nil {
		return nil, fmt.Errorf("cl_signer: invalid revocation registry json: %w", err)
	}

	if err := clsignatures.RevokeCredential(reg, s.privKey, idx); err != nil {
		return nil, err
	}

	return json.Marshal(reg)
}

// ComputeWitness issues the JSON-encoded membership witness for a registered
// index against the registry's current state.
func (s *CLSigner) ComputeWitness(registry []byte, idx uint32) ([]byte, error) {
	reg := &clsignatures.RevocationRegistry{}
	if err := json.Unmarshal(registry, reg); err != nil {
		return nil, fmt.Errorf("cl_signer: invalid revocation registry json: %w", err)
	}

	witness, err := clsignatures.ComputeWitness(reg, s.privKey, idx)
	if err != nil {
		return nil, err
	}

	return json.Marshal(witness)
}
