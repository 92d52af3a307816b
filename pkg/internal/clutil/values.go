/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clutil

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/hyperledger/anoncreds-clsignatures-go/pkg/crypto/primitive/clsignatures"
)

// MasterSecretAttr is the reserved non-schema attribute name carrying the
// holder's master secret in every credential.
const MasterSecretAttr = "master_secret"

// BuildSchema builds the schema and non-schema pair for a credential
// definition: the given attributes plus the reserved master secret slot.
func BuildSchema(attrs []string) (*clsignatures.CredentialSchema, *clsignatures.NonCredentialSchema, error) {
	schemaBuilder := clsignatures.NewCredentialSchemaBuilder()

	for _, attr := range attrs {
		if err := schemaBuilder.AddAttr(attr); err != nil {
			return nil, nil, err
		}
	}

	schema, err := schemaBuilder.Finalize()
	if err != nil {
		return nil, nil, err
	}

	nonSchemaBuilder := clsignatures.NewNonCredentialSchemaBuilder()

	if err := nonSchemaBuilder.AddAttr(MasterSecretAttr); err != nil {
		return nil, nil, err
	}

	nonSchema, err := nonSchemaBuilder.Finalize()
	if err != nil {
		return nil, nil, err
	}

	return schema, nonSchema, nil
}

// BuildValues encodes raw attribute values into credential values, adding
// the master secret as a hidden value when given.
func BuildValues(values map[string]interface{},
	masterSecret *big.Int) (*clsignatures.CredentialValues, error) {
	valuesBuilder := clsignatures.NewCredentialValuesBuilder()

	if masterSecret != nil {
		if err := valuesBuilder.AddHidden(MasterSecretAttr, masterSecret); err != nil {
			return nil, err
		}
	}

	for k, v := range values {
		if err := valuesBuilder.AddKnown(k, EncodeValue(v)); err != nil {
			return nil, err
		}
	}

	return valuesBuilder.Finalize()
}

// EncodeValue maps a raw attribute value to its 256-bit integer encoding.
// Integer values (and strings holding decimal integers) encode as
// themselves, so they stay usable in predicate proofs; everything else is
// hashed.
func EncodeValue(v interface{}) *big.Int {
	switch value := v.(type) {
	case int:
		return big.NewInt(int64(value))
	case int32:
		return big.NewInt(int64(value))
	case int64:
		return big.NewInt(value)
	case uint32:
		return new(big.Int).SetUint64(uint64(value))
	case uint64:
		return new(big.Int).SetUint64(value)
	case string:
		if i, ok := new(big.Int).SetString(value, 10); ok && i.Sign() >= 0 {
			return i
		}

		return hashToInt([]byte(value))
	case []byte:
		return hashToInt(value)
	default:
		return hashToInt([]byte(fmt.Sprintf("%v", v)))
	}
}

func hashToInt(data []byte) *big.Int {
	digest := blake2b.Sum256(data)

	return new(big.Int).SetBytes(digest[:])
}
