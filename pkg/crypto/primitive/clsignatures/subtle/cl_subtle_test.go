/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package subtle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/anoncreds-clsignatures-go/pkg/crypto/primitive/clsignatures"
	"github.com/hyperledger/anoncreds-clsignatures-go/pkg/internal/clutil"
)

func newSubProofRequestJSON(t *testing.T) []byte {
	t.Helper()

	builder := clsignatures.NewSubProofRequestBuilder()
	require.NoError(t, builder.AddRevealedAttr("name"))
	require.NoError(t, builder.AddPredicate("age", clsignatures.PredicateGE, 18))

	request, err := builder.Finalize()
	require.NoError(t, err)

	data, err := json.Marshal(request)
	require.NoError(t, err)

	return data
}

func newSchemaJSON(t *testing.T) []byte {
	t.Helper()

	schema, _, err := clutil.BuildSchema([]string{"name", "age"})
	require.NoError(t, err)

	data, err := json.Marshal(schema)
	require.NoError(t, err)

	return data
}

func TestSubtleLifecycle(t *testing.T) {
	pubKey, privKey, err := NewCredentialDef([]string{"name", "age"}, false)
	require.NoError(t, err)

	signer, err := NewCLSigner(privKey, pubKey, []string{"name", "age"})
	require.NoError(t, err)

	masterSecret, err := NewMasterSecret()
	require.NoError(t, err)

	prover, err := NewCLProver(masterSecret)
	require.NoError(t, err)

	values := map[string]interface{}{"name": "alice", "age": 25}

	request, err := prover.RequestCredential(pubKey, values)
	require.NoError(t, err)
	require.NotEmpty(t, request.BlindedSecrets)

	signature, err := signer.Sign(values, request.BlindedSecrets)
	require.NoError(t, err)
	require.NotEmpty(t, signature)

	completed, err := prover.ProcessCredentialSignature(request, signature)
	require.NoError(t, err)

	subProofRequest := newSubProofRequestJSON(t)
	schema := newSchemaJSON(t)

	nonce, err := NewNonce()
	require.NoError(t, err)

	proof, err := prover.CreateProof(nonce, PresentationCredential{
		SubProofRequest: subProofRequest,
		Schema:          schema,
		Signature:       completed,
		Values:          values,
		PubKey:          pubKey,
	})
	require.NoError(t, err)

	verifier := NewCLVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", subProofRequest, schema, pubKey, nil, nil))

	valid, err := verifier.Verify(proof, nonce)
	require.NoError(t, err)
	require.True(t, valid)

	// the wrapped verifier is single-use
	_, err = verifier.Verify(proof, nonce)
	require.ErrorIs(t, err, clsignatures.ErrVerifierAlreadyConsumed)
}

func TestSubtleRevocationLifecycle(t *testing.T) {
	pubKey, privKey, err := NewCredentialDef([]string{"name", "age"}, true)
	require.NoError(t, err)

	signer, err := NewCLSigner(privKey, pubKey, []string{"name", "age"})
	require.NoError(t, err)

	masterSecret, err := NewMasterSecret()
	require.NoError(t, err)

	prover, err := NewCLProver(masterSecret)
	require.NoError(t, err)

	values := map[string]interface{}{"name": "alice", "age": 25}

	request, err := prover.RequestCredential(pubKey, values)
	require.NoError(t, err)

	signature, err := signer.Sign(values, request.BlindedSecrets)
	require.NoError(t, err)

	completed, err := prover.ProcessCredentialSignature(request, signature)
	require.NoError(t, err)

	registry, err := signer.NewRevocationRegistry()
	require.NoError(t, err)

	registry, err = signer.RegisterCredential(registry, 1)
	require.NoError(t, err)

	witness, err := signer.ComputeWitness(registry, 1)
	require.NoError(t, err)

	subProofRequest := newSubProofRequestJSON(t)
	schema := newSchemaJSON(t)

	nonce, err := NewNonce()
	require.NoError(t, err)

	proof, err := prover.CreateProof(nonce, PresentationCredential{
		SubProofRequest: subProofRequest,
		Schema:          schema,
		Signature:       completed,
		Values:          values,
		PubKey:          pubKey,
		RevReg:          registry,
		Witness:         witness,
	})
	require.NoError(t, err)

	clPubKey := &clsignatures.CredentialPublicKey{}
	require.NoError(t, json.Unmarshal(pubKey, clPubKey))

	revPubKey, err := json.Marshal(clPubKey.Revocation)
	require.NoError(t, err)

	verifier := NewCLVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", subProofRequest, schema, pubKey, revPubKey, registry))

	valid, err := verifier.Verify(proof, nonce)
	require.NoError(t, err)
	require.True(t, valid)

	// after revocation the same proof fails against the updated registry
	revoked, err := signer.RevokeCredential(registry, 1)
	require.NoError(t, err)

	afterRevocation := NewCLVerifier()
	require.NoError(t, afterRevocation.AddSubProofRequest("issuer-1", subProofRequest, schema, pubKey, revPubKey, revoked))

	valid, err = afterRevocation.Verify(proof, nonce)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestNewCLSignerInvalidKeys(t *testing.T) {
	_, err := NewCLSigner([]byte("not json"), []byte("not json"), nil)
	require.Error(t, err)
}

func TestCLVerifierInvalidInputs(t *testing.T) {
	verifier := NewCLVerifier()

	err := verifier.AddSubProofRequest("issuer-1", []byte("not json"), nil, nil, nil, nil)
	require.Error(t, err)

	_, err = verifier.Verify([]byte("not json"), []byte("not json"))
	require.Error(t, err)
}
