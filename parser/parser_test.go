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

package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/protoschema/protoscan"
	"github.com/protoschema/protoscan/reporter"
)

func mustParse(t *testing.T, src string) *protoscan.FileDescriptor {
	t.Helper()
	fd, err := ParseBytes("test.proto", []byte(src))
	require.NoError(t, err)
	return fd
}

func TestMinimalProto3(t *testing.T) {
	fd := mustParse(t, `syntax = "proto3"; message Foo { int32 a = 1; }`)
	require.Equal(t, protoscan.Proto3, fd.Syntax)
	require.Len(t, fd.Messages, 1)
	msg := fd.Messages[0]
	require.Equal(t, "Foo", msg.Name)
	require.Len(t, msg.Fields, 1)
	want := &protoscan.Field{
		Name:   "a",
		Rule:   protoscan.Optional,
		Type:   protoscan.ScalarFieldType(protoscan.Int32),
		Number: 1,
	}
	if diff := cmp.Diff(want, msg.Fields[0], cmp.AllowUnexported(protoscan.FieldType{})); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}
}

func TestProto2RequiredWithDefault(t *testing.T) {
	fd := mustParse(t, `message M { required string s = 2 [default = "hi"]; }`)
	require.Equal(t, protoscan.Proto2, fd.Syntax)
	f := fd.Messages[0].Fields[0]
	require.Equal(t, protoscan.Required, f.Rule)
	require.Equal(t, protoscan.ScalarFieldType(protoscan.String), f.Type)
	require.NotNil(t, f.Default)
	require.Equal(t, "hi", *f.Default)
}

func TestMapField(t *testing.T) {
	fd := mustParse(t, `message M { map<string, int32> m = 7; }`)
	f := fd.Messages[0].Fields[0]
	require.Equal(t, protoscan.Repeated, f.Rule)
	require.Equal(t, protoscan.KindMap, f.Type.Kind())
	key, val := f.Type.MapKeyValue()
	require.Equal(t, protoscan.ScalarFieldType(protoscan.String), key)
	require.Equal(t, protoscan.ScalarFieldType(protoscan.Int32), val)
	require.EqualValues(t, 7, f.Number)
}

func TestEnumWithNegativeValue(t *testing.T) {
	fd := mustParse(t, `enum E { A = 0; B = -1; }`)
	require.Len(t, fd.Enums, 1)
	values := fd.Enums[0].Values
	require.Len(t, values, 2)
	require.Equal(t, "A", values[0].Name)
	require.EqualValues(t, 0, values[0].Number)
	require.Equal(t, "B", values[1].Name)
	require.EqualValues(t, -1, values[1].Number)
}

func TestReservedRangesAndNames(t *testing.T) {
	fd := mustParse(t, `message M { reserved 2, 15, 9 to 11; reserved "foo", "bar"; }`)
	msg := fd.Messages[0]
	require.Equal(t, []protoscan.FieldNumberRange{{From: 2, To: 2}, {From: 15, To: 15}, {From: 9, To: 11}}, msg.ReservedNums)
	require.Equal(t, []string{"foo", "bar"}, msg.ReservedNames)
}

func TestDefaultSyntaxIsProto2(t *testing.T) {
	fd := mustParse(t, `message M {}`)
	require.Equal(t, protoscan.Proto2, fd.Syntax)
}

func TestOneofForbidsRuleAndMap(t *testing.T) {
	_, err := ParseBytes("t.proto", []byte(`syntax = "proto3"; message M { oneof o { optional int32 a = 1; } }`))
	requireKind(t, err, reporter.DuplicateDeclaration)

	_, err = ParseBytes("t.proto", []byte(`syntax = "proto3"; message M { oneof o { map<string,int32> a = 1; } }`))
	require.Error(t, err)
}

func TestProto3DisallowsRequired(t *testing.T) {
	_, err := ParseBytes("t.proto", []byte(`syntax = "proto3"; message M { required int32 a = 1; }`))
	require.Error(t, err)
}

func TestProto2BareFieldRequiresRule(t *testing.T) {
	_, err := ParseBytes("t.proto", []byte(`message M { int32 a = 1; }`))
	require.Error(t, err)
	requireKind(t, err, reporter.UnexpectedToken)
}

func TestSyntaxMustBeFirstStatement(t *testing.T) {
	_, err := ParseBytes("t.proto", []byte(`message M {} syntax = "proto3";`))
	require.Error(t, err)
	requireKind(t, err, reporter.InvalidSyntaxDeclaration)
}

func TestInvalidSyntaxValue(t *testing.T) {
	_, err := ParseBytes("t.proto", []byte(`syntax = "proto4";`))
	require.Error(t, err)
	requireKind(t, err, reporter.InvalidSyntaxDeclaration)
}

func TestDuplicatePackage(t *testing.T) {
	_, err := ParseBytes("t.proto", []byte(`package a; package b;`))
	require.Error(t, err)
	requireKind(t, err, reporter.DuplicateDeclaration)
}

func TestGroupField(t *testing.T) {
	fd := mustParse(t, `message M { optional group Result = 1 { optional int32 a = 1; } }`)
	f := fd.Messages[0].Fields[0]
	require.Equal(t, "result", f.Name)
	require.Equal(t, protoscan.KindGroup, f.Type.Kind())
	require.Len(t, f.Type.GroupFields(), 1)
	require.Equal(t, "a", f.Type.GroupFields()[0].Name)
}

func TestExtendProducesFileLevelExtensions(t *testing.T) {
	fd := mustParse(t, `
		message Base {}
		extend Base {
			optional int32 bar = 100;
		}
	`)
	require.Len(t, fd.Extensions, 1)
	require.Equal(t, "Base", fd.Extensions[0].Extendee)
	require.Equal(t, "bar", fd.Extensions[0].Field.Name)
}

func TestServiceIsSkipped(t *testing.T) {
	fd := mustParse(t, `
		message M {}
		service S {
			rpc Do (M) returns (M);
		}
	`)
	require.Len(t, fd.Messages, 1)
}

func TestImportsPublicAndWeak(t *testing.T) {
	fd := mustParse(t, `
		import "a.proto";
		import public "b.proto";
		import weak "c.proto";
	`)
	require.Equal(t, []string{"a.proto", "b.proto", "c.proto"}, fd.ImportPaths)
}

func TestCustomOptionAggregateIsConsumed(t *testing.T) {
	fd := mustParse(t, `
		message M {
			optional int32 a = 1 [(custom.opt) = { name: "x" nested: { y: 1 } }];
		}
	`)
	require.Len(t, fd.Messages[0].Fields, 1)
}

func TestTrailingGarbageIsAnError(t *testing.T) {
	_, err := ParseBytes("t.proto", []byte(`message M {} }`))
	require.Error(t, err)
}

func TestExtensionRangesSurfaced(t *testing.T) {
	fd := mustParse(t, `message M { extensions 100 to max; }`)
	require.Equal(t, []protoscan.FieldNumberRange{{From: 100, To: protoscan.MaxRangeBound}}, fd.Messages[0].ExtensionRanges)
}
