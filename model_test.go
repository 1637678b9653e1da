// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package protoscan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarTypeByName(t *testing.T) {
	st, ok := ScalarTypeByName("int32")
	require.True(t, ok)
	require.Equal(t, Int32, st)

	_, ok = ScalarTypeByName("Foo")
	require.False(t, ok)
}

func TestFieldTypeString(t *testing.T) {
	m := MapFieldType(ScalarFieldType(String), ScalarFieldType(Int32))
	require.Equal(t, "map<string, int32>", m.String())

	require.Equal(t, "my.pkg.Thing", MessageOrEnumFieldType("my.pkg.Thing").String())
}

func TestIsValidMapKey(t *testing.T) {
	require.True(t, ScalarFieldType(Int64).IsValidMapKey())
	require.True(t, ScalarFieldType(Bool).IsValidMapKey())
	require.False(t, ScalarFieldType(Float).IsValidMapKey())
	require.False(t, ScalarFieldType(Bytes).IsValidMapKey())
	require.False(t, MessageOrEnumFieldType("Foo").IsValidMapKey())
}

func TestRuleAndSyntaxStrings(t *testing.T) {
	require.Equal(t, "proto2", Proto2.String())
	require.Equal(t, "proto3", Proto3.String())
	require.Equal(t, "optional", Optional.String())
	require.Equal(t, "repeated", Repeated.String())
	require.Equal(t, "required", Required.String())
}
