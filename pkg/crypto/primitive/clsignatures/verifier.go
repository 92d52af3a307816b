/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package clsignatures implements CL (Camenisch-Lysyanskaya) anonymous
// credentials: issuance over blinded holder secrets, presentation proofs
// with selective disclosure and integer predicates, accumulator-based
// revocation, and Fiat-Shamir verification of combined presentations.
package clsignatures

import (
	"github.com/pkg/errors"
)

// verifierEntry is one registered sub-proof request with the key material it
// is verified against.
type verifierEntry struct {
	keyID   string
	request *SubProofRequest
	schema  *CredentialSchema
	pubKey  *CredentialPublicKey
	revPub  *RevocationKeyPublic
	revReg  *RevocationRegistry
}

// ProofVerifier checks a presentation proof against an ordered list of
// sub-proof requests. Registration order must match the order the holder
// built the proof in; the aggregated challenge binds it.
//
// A verifier is single-use: its Verify call consumes it whatever the
// outcome, and a consumed verifier rejects all further use.
type ProofVerifier struct {
	entries  []*verifierEntry
	consumed bool
}

// NewProofVerifier creates an empty proof verifier.
func NewProofVerifier() *ProofVerifier {
	return &ProofVerifier{}
}

// AddSubProofRequest registers the expectations for the next credential in
// the presentation: what must be revealed, which predicates must hold and
// the issuer key (plus revocation registry state) to verify against. keyID
// correlates errors with a credential and is not cryptographically bound;
// duplicates are allowed, one issuer can back several credentials in a
// presentation.
//
// The schema is the verifier's own trust policy for the credential type;
// requests referencing attributes outside it are rejected here, before any
// proof is seen.
func (v *ProofVerifier) AddSubProofRequest(keyID string, request *SubProofRequest,
	schema *CredentialSchema, pubKey *CredentialPublicKey,
	revPub *RevocationKeyPublic, revReg *RevocationRegistry) error {
	if v.consumed {
		return errors.Wrap(ErrVerifierAlreadyConsumed, "add sub-proof request")
	}

	if keyID == "" {
		return errors.New("add sub-proof request: empty key id")
	}

	if request == nil || schema == nil || pubKey == nil || pubKey.Primary == nil {
		return errors.Errorf("add sub-proof request %q: nil input", keyID)
	}

	for _, name := range request.referencedAttrs() {
		if !schema.ContainsAttr(name) {
			return errors.Wrapf(ErrAttributeNotFoundInSchema, "add sub-proof request %q: %q", keyID, name)
		}

		if _, ok := pubKey.Primary.R[name]; !ok {
			return errors.Wrapf(ErrAttributeNotFoundInSchema,
				"add sub-proof request %q: key has no base for %q", keyID, name)
		}
	}

	if (revPub == nil) != (revReg == nil) {
		return errors.Wrapf(ErrRevocationParamsMismatch, "add sub-proof request %q", keyID)
	}

	v.entries = append(v.entries, &verifierEntry{
		keyID:   keyID,
		request: request,
		schema:  schema,
		pubKey:  pubKey,
		revPub:  revPub,
		revReg:  revReg,
	})

	return nil
}

// Verify recomputes the aggregated challenge from the proof's responses and
// the nonce, and reports whether it matches the challenge the proof carries.
// A false return with a nil error is an ordinary cryptographic rejection;
// errors report structural mismatches between proof and registered requests.
//
// The verifier is consumed on entry, including on error paths.
func (v *ProofVerifier) Verify(proof *Proof, nonce *Nonce) (bool, error) {
	if v.consumed {
		return false, errors.Wrap(ErrVerifierAlreadyConsumed, "verify")
	}

	v.consumed = true

	if proof == nil || nonce == nil {
		return false, errors.Wrap(ErrProofStructureMismatch, "verify: nil proof or nonce")
	}

	if len(proof.SubProofs) != len(v.entries) {
		return false, errors.Wrapf(ErrProofStructureMismatch,
			"verify: %d sub-proofs against %d registered requests", len(proof.SubProofs), len(v.entries))
	}

	challenge := proof.AggregatedChallenge
	if challenge == nil || challenge.Sign() < 0 || challenge.BitLen() > challengeLen*8 {
		return false, errors.Wrap(ErrProofStructureMismatch, "verify: aggregated challenge out of range")
	}

	frChallenge := frFromOKM(challenge.FillBytes(make([]byte, challengeLen)))

	accum := NewChallengeAccumulator()

	for i, entry := range v.entries {
		sub := proof.SubProofs[i]

		if sub == nil || sub.Primary == nil || sub.Primary.EqProof == nil {
			return false, errors.Wrapf(ErrProofStructureMismatch,
				"verify: sub-proof %d (%s) has no primary proof", i, entry.keyID)
		}

		if len(sub.Primary.GEProofs) != len(entry.request.Predicates) {
			return false, errors.Wrapf(ErrProofStructureMismatch,
				"verify: sub-proof %d (%s) has %d predicate proofs against %d requested",
				i, entry.keyID, len(sub.Primary.GEProofs), len(entry.request.Predicates))
		}

		if (entry.revReg != nil) != (sub.NonRevocation != nil) {
			return false, errors.Wrapf(ErrProofStructureMismatch,
				"verify: sub-proof %d (%s) revocation state does not match the request", i, entry.keyID)
		}

		tEq, err := recomputePrimaryEqualT(sub.Primary.EqProof, entry.pubKey.Primary, entry.request, challenge)
		if err != nil {
			return false, err
		}

		if err := accum.Add(tEq.Bytes()); err != nil {
			return false, err
		}

		// tau and c values per predicate, keyed to the verifier's own
		// predicates rather than the ones the proof claims.
		cValues := make([][]byte, 0, len(entry.request.Predicates)*5)

		for j, predicate := range entry.request.Predicates {
			geProof := sub.Primary.GEProofs[j]

			if geProof == nil {
				return false, errors.Wrapf(ErrProofStructureMismatch,
					"verify: sub-proof %d predicate %d is missing", i, j)
			}

			if geProof.Predicate != predicate {
				return false, errors.Wrapf(ErrProofStructureMismatch,
					"verify: sub-proof %d predicate %d does not match the request", i, j)
			}

			// the predicate attribute must be answered by the equality
			// proof's response; an independent response is not bound to the
			// signed value.
			mHat, ok := sub.Primary.EqProof.MHat[predicate.AttrName]
			if !ok {
				return false, errors.Wrapf(ErrProofStructureMismatch,
					"verify: sub-proof %d has no response for predicate attribute %q", i, predicate.AttrName)
			}

			tau, c, err := recomputeGEPredicate(geProof, entry.pubKey.Primary, predicate, mHat, challenge)
			if err != nil {
				return false, err
			}

			if err := accum.AddAll(tau); err != nil {
				return false, err
			}

			cValues = append(cValues, c...)
		}

		if err := accum.Add(sub.Primary.EqProof.APrime.Bytes()); err != nil {
			return false, err
		}

		if err := accum.AddAll(cValues); err != nil {
			return false, err
		}

		if sub.NonRevocation != nil {
			contributions, err := recomputeNonRevocation(sub.NonRevocation, entry.revPub, entry.revReg, frChallenge)
			if err != nil {
				return false, err
			}

			if err := accum.AddAll(contributions); err != nil {
				return false, err
			}
		}
	}

	recomputed, err := accum.Finalize(nonce)
	if err != nil {
		return false, err
	}

	return recomputed.Cmp(challenge) == 0, nil
}
