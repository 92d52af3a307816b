/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"sort"

	"github.com/pkg/errors"
)

// PredicateType identifies the comparison a predicate proves about a hidden
// attribute value.
type PredicateType string

// Supported predicate types. LE/LT are not supported, matching the original
// CL inequality protocol which proves lower bounds only.
const (
	PredicateGE PredicateType = "GE"
	PredicateGT PredicateType = "GT"
)

// Predicate asserts that a named hidden attribute satisfies a comparison
// against a public integer bound without revealing the value.
type Predicate struct {
	AttrName string        `json:"attr_name"`
	PType    PredicateType `json:"p_type"`
	Value    int64         `json:"value"`
}

// threshold returns the lower bound the delta is computed against: the
// attribute must satisfy attr - threshold >= 0.
func (p *Predicate) threshold() int64 {
	if p.PType == PredicateGT {
		return p.Value + 1
	}

	return p.Value
}

// SubProofRequest specifies, for one credential, which attributes must be
// revealed in the clear and which must only be proven to satisfy a
// predicate. Immutable once built.
type SubProofRequest struct {
	RevealedAttrs []string    `json:"revealed_attrs"`
	Predicates    []Predicate `json:"predicates"`
}

// SubProofRequestBuilder accumulates disclosure and predicate requests.
type SubProofRequestBuilder struct {
	revealed   map[string]struct{}
	predicates []Predicate
}

// NewSubProofRequestBuilder creates an empty sub-proof request builder.
func NewSubProofRequestBuilder() *SubProofRequestBuilder {
	return &SubProofRequestBuilder{revealed: make(map[string]struct{})}
}

// AddRevealedAttr requests disclosure of the named attribute.
func (b *SubProofRequestBuilder) AddRevealedAttr(name string) error {
	if name == "" {
		return errors.New("attribute name must not be empty")
	}

	b.revealed[name] = struct{}{}

	return nil
}

// AddPredicate requests a predicate proof over the named attribute.
func (b *SubProofRequestBuilder) AddPredicate(name string, pType PredicateType, value int64) error {
	if name == "" {
		return errors.New("attribute name must not be empty")
	}

	if pType != PredicateGE && pType != PredicateGT {
		return errors.Errorf("unsupported predicate type %q", pType)
	}

	b.predicates = append(b.predicates, Predicate{AttrName: name, PType: pType, Value: value})

	return nil
}

// Finalize produces the immutable sub-proof request.
func (b *SubProofRequestBuilder) Finalize() (*SubProofRequest, error) {
	revealed := make([]string, 0, len(b.revealed))
	for name := range b.revealed {
		revealed = append(revealed, name)
	}

	sort.Strings(revealed)

	predicates := make([]Predicate, len(b.predicates))
	copy(predicates, b.predicates)

	return &SubProofRequest{RevealedAttrs: revealed, Predicates: predicates}, nil
}

// referencedAttrs returns every attribute name the request mentions.
func (r *SubProofRequest) referencedAttrs() []string {
	names := make([]string, 0, len(r.RevealedAttrs)+len(r.Predicates))
	names = append(names, r.RevealedAttrs...)

	for _, p := range r.Predicates {
		names = append(names, p.AttrName)
	}

	return names
}
