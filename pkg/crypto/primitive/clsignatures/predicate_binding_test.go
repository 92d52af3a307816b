/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// A predicate proof answering with its own response value, instead of the
// equality proof's response for the attribute, is not bound to the signed
// value and must not verify, even when the challenge transcript is folded
// in canonical order.
func TestVerifyRejectsUnboundPredicateResponse(t *testing.T) {
	schemaBuilder := NewCredentialSchemaBuilder()
	require.NoError(t, schemaBuilder.AddAttr("name"))
	require.NoError(t, schemaBuilder.AddAttr("age"))

	schema, err := schemaBuilder.Finalize()
	require.NoError(t, err)

	nonSchemaBuilder := NewNonCredentialSchemaBuilder()
	require.NoError(t, nonSchemaBuilder.AddAttr("master_secret"))

	nonSchema, err := nonSchemaBuilder.Finalize()
	require.NoError(t, err)

	pub, priv, err := GenerateCredentialDef(schema, nonSchema, false)
	require.NoError(t, err)

	ms, err := NewMasterSecret()
	require.NoError(t, err)

	valuesBuilder := NewCredentialValuesBuilder()
	require.NoError(t, valuesBuilder.AddKnown("name", big.NewInt(101)))
	require.NoError(t, valuesBuilder.AddKnown("age", big.NewInt(5)))
	require.NoError(t, valuesBuilder.AddHidden("master_secret", ms.Value()))

	values, err := valuesBuilder.Finalize()
	require.NoError(t, err)

	blinded, factors, err := BlindCredentialSecrets(pub, values)
	require.NoError(t, err)

	signature, err := SignCredential(pub, priv, blinded, values)
	require.NoError(t, err)
	require.NoError(t, ProcessCredentialSignature(signature, factors, pub, values))

	requestBuilder := NewSubProofRequestBuilder()
	require.NoError(t, requestBuilder.AddRevealedAttr("name"))
	require.NoError(t, requestBuilder.AddPredicate("age", PredicateGE, 18))

	request, err := requestBuilder.Finalize()
	require.NoError(t, err)

	// honest construction refuses the unsatisfied predicate outright
	builder := NewProofBuilder()
	err = builder.AddSubProofRequest(request, schema, nonSchema, signature, values, pub, nil, nil)
	require.ErrorContains(t, err, "does not satisfy")

	// assemble a proof by hand: an honest equality proof over age=5 next to
	// a predicate proof answering for a fabricated satisfying value with its
	// own blinding, folded in canonical order so the transcript closes
	eq, err := newPrimaryEqProofInit(pub.Primary, signature, values, request)
	require.NoError(t, err)

	freshTilde, err := randomBits(largeMTilde)
	require.NoError(t, err)

	ge, err := newGEPredicateProofInit(pub.Primary, request.Predicates[0], big.NewInt(20), freshTilde)
	require.NoError(t, err)

	init := &subProofInit{eq: eq, ge: []*gePredicateProofInit{ge}}

	accum := NewChallengeAccumulator()
	require.NoError(t, accum.AddAll(init.contributions()))

	nonce, err := NewNonce()
	require.NoError(t, err)

	challenge, err := accum.Finalize(nonce)
	require.NoError(t, err)

	eqProof, err := eq.finalize(challenge)
	require.NoError(t, err)

	proof := &Proof{
		SubProofs: []*SubProof{{Primary: &PrimaryProof{
			EqProof:  eqProof,
			GEProofs: []*PrimaryPredicateGEProof{ge.finalize(challenge)},
		}}},
		AggregatedChallenge: challenge,
	}

	verifier := NewProofVerifier()
	require.NoError(t, verifier.AddSubProofRequest("issuer-1", request, schema, pub, nil, nil))

	valid, err := verifier.Verify(proof, nonce)
	require.NoError(t, err)
	require.False(t, valid)
}
