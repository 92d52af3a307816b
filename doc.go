/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package anoncreds provides a pure-Go implementation of the CL
// (Camenisch-Lysyanskaya) anonymous credential scheme: credential
// definition and issuance, holder-side blinding and proof construction,
// and multi-credential presentation verification with selective
// disclosure, integer predicates and accumulator-based revocation.
//
// # Packages for end developer usage
//
// pkg/crypto/primitive/clsignatures: The core engine. Issuers generate
// credential definitions and sign values, holders build presentation
// proofs with a ProofBuilder, and relying parties check them with a
// single-use ProofVerifier.
// Reference: https://pkg.go.dev/github.com/hyperledger/anoncreds-clsignatures-go/pkg/crypto/primitive/clsignatures
//
// pkg/crypto/primitive/clsignatures/subtle: JSON-boundary services
// (CLSigner, CLProver, CLVerifier) over the same engine, for callers
// exchanging opaque serialized artifacts.
// Reference: https://pkg.go.dev/github.com/hyperledger/anoncreds-clsignatures-go/pkg/crypto/primitive/clsignatures/subtle
package anoncreds
