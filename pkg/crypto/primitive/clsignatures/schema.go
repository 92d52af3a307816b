/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"math/big"
	"sort"

	"github.com/pkg/errors"
)

// CredentialSchema is the ordered set of attribute names a credential binds.
// It is immutable once built; the relying party's trust policy supplies it.
type CredentialSchema struct {
	AttrNames []string `json:"attr_names"`
}

// ContainsAttr reports whether the schema declares the given attribute name.
func (s *CredentialSchema) ContainsAttr(name string) bool {
	i := sort.SearchStrings(s.AttrNames, name)

	return i < len(s.AttrNames) && s.AttrNames[i] == name
}

// CredentialSchemaBuilder accumulates attribute names for a CredentialSchema.
type CredentialSchemaBuilder struct {
	attrs map[string]struct{}
}

// NewCredentialSchemaBuilder creates an empty schema builder.
func NewCredentialSchemaBuilder() *CredentialSchemaBuilder {
	return &CredentialSchemaBuilder{attrs: make(map[string]struct{})}
}

// AddAttr adds one attribute name to the schema under construction.
func (b *CredentialSchemaBuilder) AddAttr(name string) error {
	if name == "" {
		return errors.New("attribute name must not be empty")
	}

	b.attrs[name] = struct{}{}

	return nil
}

// Finalize produces the immutable schema with sorted attribute names.
func (b *CredentialSchemaBuilder) Finalize() (*CredentialSchema, error) {
	names := make([]string, 0, len(b.attrs))
	for name := range b.attrs {
		names = append(names, name)
	}

	sort.Strings(names)

	return &CredentialSchema{AttrNames: names}, nil
}

// NonCredentialSchema lists the holder-contributed attributes signed into a
// credential but absent from the issuer's schema, typically the master
// secret.
type NonCredentialSchema struct {
	AttrNames []string `json:"attr_names"`
}

// ContainsAttr reports whether the non-schema set declares the name.
func (s *NonCredentialSchema) ContainsAttr(name string) bool {
	i := sort.SearchStrings(s.AttrNames, name)

	return i < len(s.AttrNames) && s.AttrNames[i] == name
}

// NonCredentialSchemaBuilder accumulates names for a NonCredentialSchema.
type NonCredentialSchemaBuilder struct {
	attrs map[string]struct{}
}

// NewNonCredentialSchemaBuilder creates an empty non-schema builder.
func NewNonCredentialSchemaBuilder() *NonCredentialSchemaBuilder {
	return &NonCredentialSchemaBuilder{attrs: make(map[string]struct{})}
}

// AddAttr adds one attribute name.
func (b *NonCredentialSchemaBuilder) AddAttr(name string) error {
	if name == "" {
		return errors.New("attribute name must not be empty")
	}

	b.attrs[name] = struct{}{}

	return nil
}

// Finalize produces the immutable non-schema set.
func (b *NonCredentialSchemaBuilder) Finalize() (*NonCredentialSchema, error) {
	names := make([]string, 0, len(b.attrs))
	for name := range b.attrs {
		names = append(names, name)
	}

	sort.Strings(names)

	return &NonCredentialSchema{AttrNames: names}, nil
}

type credentialValueKind int

const (
	valueKnown credentialValueKind = iota
	valueHidden
)

type credentialValue struct {
	kind  credentialValueKind
	value *big.Int
}

// CredentialValues holds the encoded attribute values of one credential.
// Known values are visible to the issuer at signing time; hidden values are
// committed by the holder and never revealed (the master secret).
type CredentialValues struct {
	values map[string]credentialValue
}

// Attrs returns the sorted names of all attributes carrying values.
func (cv *CredentialValues) Attrs() []string {
	names := make([]string, 0, len(cv.values))
	for name := range cv.values {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Value returns the encoded value of the named attribute.
func (cv *CredentialValues) Value(name string) (*big.Int, bool) {
	v, ok := cv.values[name]
	if !ok {
		return nil, false
	}

	return v.value, true
}

// IsHidden reports whether the named attribute is holder-contributed.
func (cv *CredentialValues) IsHidden(name string) bool {
	v, ok := cv.values[name]

	return ok && v.kind == valueHidden
}

// CredentialValuesBuilder accumulates encoded attribute values.
type CredentialValuesBuilder struct {
	values map[string]credentialValue
}

// NewCredentialValuesBuilder creates an empty values builder.
func NewCredentialValuesBuilder() *CredentialValuesBuilder {
	return &CredentialValuesBuilder{values: make(map[string]credentialValue)}
}

// AddKnown adds an issuer-visible attribute value.
func (b *CredentialValuesBuilder) AddKnown(name string, value *big.Int) error {
	return b.add(name, value, valueKnown)
}

// AddHidden adds a holder-committed attribute value.
func (b *CredentialValuesBuilder) AddHidden(name string, value *big.Int) error {
	return b.add(name, value, valueHidden)
}

func (b *CredentialValuesBuilder) add(name string, value *big.Int, kind credentialValueKind) error {
	if name == "" {
		return errors.New("attribute name must not be empty")
	}

	if value == nil || value.Sign() < 0 {
		return errors.Errorf("value of attribute %q must be a non-negative integer", name)
	}

	b.values[name] = credentialValue{kind: kind, value: new(big.Int).Set(value)}

	return nil
}

// Finalize produces the immutable values container.
func (b *CredentialValuesBuilder) Finalize() (*CredentialValues, error) {
	values := make(map[string]credentialValue, len(b.values))
	for name, v := range b.values {
		values[name] = v
	}

	return &CredentialValues{values: values}, nil
}
