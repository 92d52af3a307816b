/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clutil

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeValue(t *testing.T) {
	require.Equal(t, int64(25), EncodeValue(25).Int64())
	require.Equal(t, int64(25), EncodeValue(int64(25)).Int64())
	require.Equal(t, int64(25), EncodeValue("25").Int64())

	hashed := EncodeValue("alice")
	require.Equal(t, hashed, EncodeValue("alice"))
	require.NotEqual(t, hashed, EncodeValue("bob"))
	require.LessOrEqual(t, hashed.BitLen(), 256)

	// negative decimal strings are not usable in predicates, they hash
	require.NotEqual(t, big.NewInt(-5), EncodeValue("-5"))
}

func TestBuildSchema(t *testing.T) {
	schema, nonSchema, err := BuildSchema([]string{"name", "age"})
	require.NoError(t, err)

	require.True(t, schema.ContainsAttr("name"))
	require.True(t, schema.ContainsAttr("age"))
	require.False(t, schema.ContainsAttr(MasterSecretAttr))

	require.True(t, nonSchema.ContainsAttr(MasterSecretAttr))
}

func TestBuildValues(t *testing.T) {
	ms := big.NewInt(123456789)

	values, err := BuildValues(map[string]interface{}{"name": "alice", "age": 25}, ms)
	require.NoError(t, err)

	require.True(t, values.IsHidden(MasterSecretAttr))
	require.False(t, values.IsHidden("name"))

	age, ok := values.Value("age")
	require.True(t, ok)
	require.Equal(t, int64(25), age.Int64())

	msValue, ok := values.Value(MasterSecretAttr)
	require.True(t, ok)
	require.Equal(t, ms, msValue)
}
