/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures_test

import (
	"encoding/json"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/anoncreds-clsignatures-go/pkg/crypto/primitive/clsignatures"
	"github.com/hyperledger/anoncreds-clsignatures-go/pkg/internal/clutil"
)

// credFixture is a fully issued credential: definition, values signed for
// the holder and, when revocable, the registry state and witness.
type credFixture struct {
	schema    *clsignatures.CredentialSchema
	nonSchema *clsignatures.NonCredentialSchema
	pub       *clsignatures.CredentialPublicKey
	priv      *clsignatures.CredentialPrivateKey
	values    *clsignatures.CredentialValues
	signature *clsignatures.CredentialSignature
	registry  *clsignatures.RevocationRegistry
	witness   *clsignatures.Witness
}

func issueCredential(t *testing.T, withRevocation bool) *credFixture {
	t.Helper()

	schema, nonSchema, err := clutil.BuildSchema([]string{"name", "age"})
	require.NoError(t, err)

	pub, priv, err := clsignatures.GenerateCredentialDef(schema, nonSchema, withRevocation)
	require.NoError(t, err)

	ms, err := clsignatures.NewMasterSecret()
	require.NoError(t, err)

	values, err := clutil.BuildValues(map[string]interface{}{
		"name": "alice",
		"age":  25,
	}, ms.Value())
	require.NoError(t, err)

	blinded, factors, err := clsignatures.BlindCredentialSecrets(pub, values)
	require.NoError(t, err)

	signature, err := clsignatures.SignCredential(pub, priv, blinded, values)
	require.NoError(t, err)

	require.NoError(t, clsignatures.ProcessCredentialSignature(signature, factors, pub, values))

	fixture := &credFixture{
		schema:    schema,
		nonSchema: nonSchema,
		pub:       pub,
		priv:      priv,
		values:    values,
		signature: signature,
	}

	if withRevocation {
		fixture.registry = clsignatures.NewRevocationRegistry()
		require.NoError(t, clsignatures.RegisterCredential(fixture.registry, priv, 1))

		fixture.witness, err = clsignatures.ComputeWitness(fixture.registry, priv, 1)
		require.NoError(t, err)
	}

	return fixture
}

// Credential definitions are expensive (two 1024-bit primes each), so the
// non-revocable fixtures are shared across tests. Tests never mutate them.
var (
	fixtureOnce sync.Once
	fixtureOne  *credFixture
	fixtureTwo  *credFixture
)

func sharedFixtures(t *testing.T) (*credFixture, *credFixture) {
	t.Helper()

	fixtureOnce.Do(func() {
		fixtureOne = issueCredential(t, false)
		fixtureTwo = issueCredential(t, false)
	})

	return fixtureOne, fixtureTwo
}

func basicRequest(t *testing.T) *clsignatures.SubProofRequest {
	t.Helper()

	builder := clsignatures.NewSubProofRequestBuilder()
	require.NoError(t, builder.AddRevealedAttr("name"))
	require.NoError(t, builder.AddPredicate("age", clsignatures.PredicateGE, 18))

	request, err := builder.Finalize()
	require.NoError(t, err)

	return request
}

func buildProof(t *testing.T, fixture *credFixture, request *clsignatures.SubProofRequest,
	nonce *clsignatures.Nonce) *clsignatures.Proof {
	t.Helper()

	builder := clsignatures.NewProofBuilder()
	err := builder.AddSubProofRequest(request, fixture.schema, fixture.nonSchema,
		fixture.signature, fixture.values, fixture.pub, fixture.registry, fixture.witness)
	require.NoError(t, err)

	proof, err := builder.Finalize(nonce)
	require.NoError(t, err)

	return proof
}

func TestVerifyCompleteness(t *testing.T) {
	fixture, _ := sharedFixtures(t)
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)

	nameValue, ok := fixture.values.Value("name")
	require.True(t, ok)
	require.Equal(t, nameValue, proof.SubProofs[0].Primary.EqProof.RevealedAttrs["name"])

	verifier := clsignatures.NewProofVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", request, fixture.schema, fixture.pub, nil, nil))

	valid, err := verifier.Verify(proof, nonce)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestVerifyWrongNonce(t *testing.T) {
	fixture, _ := sharedFixtures(t)
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)

	otherNonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	verifier := clsignatures.NewProofVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", request, fixture.schema, fixture.pub, nil, nil))

	valid, err := verifier.Verify(proof, otherNonce)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestVerifyTamperedRevealedValue(t *testing.T) {
	fixture, _ := sharedFixtures(t)
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)
	proof.SubProofs[0].Primary.EqProof.RevealedAttrs["name"] = big.NewInt(42)

	verifier := clsignatures.NewProofVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", request, fixture.schema, fixture.pub, nil, nil))

	valid, err := verifier.Verify(proof, nonce)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestVerifyWrongIssuerKey(t *testing.T) {
	fixture, other := sharedFixtures(t)
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)

	verifier := clsignatures.NewProofVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-2", request, other.schema, other.pub, nil, nil))

	valid, err := verifier.Verify(proof, nonce)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestVerifyOrderSensitivity(t *testing.T) {
	one, two := sharedFixtures(t)
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	builder := clsignatures.NewProofBuilder()
	require.NoError(t, builder.AddSubProofRequest(request, one.schema, one.nonSchema,
		one.signature, one.values, one.pub, nil, nil))
	require.NoError(t, builder.AddSubProofRequest(request, two.schema, two.nonSchema,
		two.signature, two.values, two.pub, nil, nil))

	proof, err := builder.Finalize(nonce)
	require.NoError(t, err)

	straight := clsignatures.NewProofVerifier()
	require.NoError(t, straight.AddSubProofRequest("issuer-1", request, one.schema, one.pub, nil, nil))
	require.NoError(t, straight.AddSubProofRequest("issuer-2", request, two.schema, two.pub, nil, nil))

	valid, err := straight.Verify(proof, nonce)
	require.NoError(t, err)
	require.True(t, valid)

	reversed := clsignatures.NewProofVerifier()
	require.NoError(t, reversed.AddSubProofRequest("issuer-2", request, two.schema, two.pub, nil, nil))
	require.NoError(t, reversed.AddSubProofRequest("issuer-1", request, one.schema, one.pub, nil, nil))

	valid, err = reversed.Verify(proof, nonce)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestVerifyDeterminism(t *testing.T) {
	fixture, _ := sharedFixtures(t)
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)

	for i := 0; i < 2; i++ {
		verifier := clsignatures.NewProofVerifier()
		require.NoError(t, verifier.AddSubProofRequest("issuer-1", request, fixture.schema, fixture.pub, nil, nil))

		valid, err := verifier.Verify(proof, nonce)
		require.NoError(t, err)
		require.True(t, valid)
	}
}

func TestVerifierSingleUse(t *testing.T) {
	fixture, _ := sharedFixtures(t)
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)

	verifier := clsignatures.NewProofVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", request, fixture.schema, fixture.pub, nil, nil))

	valid, err := verifier.Verify(proof, nonce)
	require.NoError(t, err)
	require.True(t, valid)

	_, err = verifier.Verify(proof, nonce)
	require.ErrorIs(t, err, clsignatures.ErrVerifierAlreadyConsumed)

	err = verifier.AddSubProofRequest("issuer-1", request, fixture.schema, fixture.pub, nil, nil)
	require.ErrorIs(t, err, clsignatures.ErrVerifierAlreadyConsumed)
}

func TestVerifierConsumedOnStructuralError(t *testing.T) {
	fixture, _ := sharedFixtures(t)
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)

	verifier := clsignatures.NewProofVerifier()

	_, err = verifier.Verify(proof, nonce)
	require.ErrorIs(t, err, clsignatures.ErrProofStructureMismatch)

	_, err = verifier.Verify(proof, nonce)
	require.ErrorIs(t, err, clsignatures.ErrVerifierAlreadyConsumed)
}

func TestVerifyNilPredicateProofEntry(t *testing.T) {
	fixture, _ := sharedFixtures(t)
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)

	// a null entry in the predicate proof list passes the count check and
	// must surface as a structural error
	proof.SubProofs[0].Primary.GEProofs[0] = nil

	verifier := clsignatures.NewProofVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", request, fixture.schema, fixture.pub, nil, nil))

	_, err = verifier.Verify(proof, nonce)
	require.ErrorIs(t, err, clsignatures.ErrProofStructureMismatch)
}

func TestAddSubProofRequestSchemaMismatch(t *testing.T) {
	fixture, _ := sharedFixtures(t)

	builder := clsignatures.NewSubProofRequestBuilder()
	require.NoError(t, builder.AddRevealedAttr("height"))

	badRequest, err := builder.Finalize()
	require.NoError(t, err)

	verifier := clsignatures.NewProofVerifier()
	err = verifier.AddSubProofRequest("issuer-1", badRequest, fixture.schema, fixture.pub, nil, nil)
	require.ErrorIs(t, err, clsignatures.ErrAttributeNotFoundInSchema)

	// the failed registration must not have appended an entry
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", request, fixture.schema, fixture.pub, nil, nil))

	valid, err := verifier.Verify(proof, nonce)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestAddSubProofRequestRevocationParamsMismatch(t *testing.T) {
	fixture, _ := sharedFixtures(t)
	request := basicRequest(t)

	verifier := clsignatures.NewProofVerifier()
	err := verifier.AddSubProofRequest("issuer-1", request, fixture.schema, fixture.pub,
		nil, clsignatures.NewRevocationRegistry())
	require.ErrorIs(t, err, clsignatures.ErrRevocationParamsMismatch)
}

func TestAddSubProofRequestEmptyKeyID(t *testing.T) {
	fixture, _ := sharedFixtures(t)
	request := basicRequest(t)

	verifier := clsignatures.NewProofVerifier()
	err := verifier.AddSubProofRequest("", request, fixture.schema, fixture.pub, nil, nil)
	require.Error(t, err)
}

func TestVerifyEmptyPresentation(t *testing.T) {
	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof, err := clsignatures.NewProofBuilder().Finalize(nonce)
	require.NoError(t, err)

	valid, err := clsignatures.NewProofVerifier().Verify(proof, nonce)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestVerifyPredicateGT(t *testing.T) {
	fixture, _ := sharedFixtures(t)

	builder := clsignatures.NewSubProofRequestBuilder()
	require.NoError(t, builder.AddPredicate("age", clsignatures.PredicateGT, 24))

	request, err := builder.Finalize()
	require.NoError(t, err)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)

	verifier := clsignatures.NewProofVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", request, fixture.schema, fixture.pub, nil, nil))

	valid, err := verifier.Verify(proof, nonce)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestProvePredicateNotSatisfied(t *testing.T) {
	fixture, _ := sharedFixtures(t)

	builder := clsignatures.NewSubProofRequestBuilder()
	require.NoError(t, builder.AddPredicate("age", clsignatures.PredicateGE, 30))

	request, err := builder.Finalize()
	require.NoError(t, err)

	proofBuilder := clsignatures.NewProofBuilder()
	err = proofBuilder.AddSubProofRequest(request, fixture.schema, fixture.nonSchema,
		fixture.signature, fixture.values, fixture.pub, nil, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not satisfy")
}

func TestVerifyRevocation(t *testing.T) {
	fixture := issueCredential(t, true)
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)

	verifier := clsignatures.NewProofVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", request, fixture.schema,
		fixture.pub, fixture.pub.Revocation, fixture.registry))

	valid, err := verifier.Verify(proof, nonce)
	require.NoError(t, err)
	require.True(t, valid)

	// revoke the credential's index; the same proof must stop verifying
	// against the updated registry state
	require.NoError(t, clsignatures.RevokeCredential(fixture.registry, fixture.priv, 1))

	afterRevocation := clsignatures.NewProofVerifier()
	require.NoError(t, afterRevocation.AddSubProofRequest("issuer-1", request, fixture.schema,
		fixture.pub, fixture.pub.Revocation, fixture.registry))

	valid, err = afterRevocation.Verify(proof, nonce)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestVerifyRevocationStructureMismatch(t *testing.T) {
	fixture, _ := sharedFixtures(t)
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)

	revocable := issueCredential(t, true)

	verifier := clsignatures.NewProofVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", request, fixture.schema,
		fixture.pub, revocable.pub.Revocation, revocable.registry))

	_, err = verifier.Verify(proof, nonce)
	require.ErrorIs(t, err, clsignatures.ErrProofStructureMismatch)
}

func TestProofJSONRoundTrip(t *testing.T) {
	fixture, _ := sharedFixtures(t)
	request := basicRequest(t)

	nonce, err := clsignatures.NewNonce()
	require.NoError(t, err)

	proof := buildProof(t, fixture, request, nonce)

	data, err := json.Marshal(proof)
	require.NoError(t, err)

	restored := &clsignatures.Proof{}
	require.NoError(t, json.Unmarshal(data, restored))

	verifier := clsignatures.NewProofVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", request, fixture.schema, fixture.pub, nil, nil))

	valid, err := verifier.Verify(restored, nonce)
	require.NoError(t, err)
	require.True(t, valid)
}
