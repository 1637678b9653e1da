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

// Package protoscan parses the Protocol Buffers interface definition
// language into a plain, tree-shaped descriptor of a single .proto file.
// It does not validate cross-file references, interpret options, or emit
// binary descriptors; it turns source text into the structure a later
// stage (codegen, linking, reflection) would consume.
package protoscan

import "math"

// Syntax is the protobuf dialect declared (or implied) by a file.
type Syntax int

const (
	// Proto2 is the default syntax when a file has no syntax statement.
	Proto2 Syntax = iota
	Proto3
)

func (s Syntax) String() string {
	if s == Proto3 {
		return "proto3"
	}
	return "proto2"
}

// Rule is a field's cardinality.
type Rule int

const (
	// Optional fields may be absent or present at most once.
	Optional Rule = iota
	// Repeated fields may occur any number of times; order is preserved.
	Repeated
	// Required fields must be present. Proto3 disallows this rule.
	Required
)

func (r Rule) String() string {
	switch r {
	case Repeated:
		return "repeated"
	case Required:
		return "required"
	default:
		return "optional"
	}
}

// ScalarType enumerates the protobuf scalar field types.
type ScalarType int

const (
	Int32 ScalarType = iota
	Int64
	Uint32
	Uint64
	Sint32
	Sint64
	Bool
	Fixed32
	Fixed64
	Sfixed32
	Sfixed64
	Float
	Double
	String
	Bytes
)

var scalarNames = map[ScalarType]string{
	Int32: "int32", Int64: "int64", Uint32: "uint32", Uint64: "uint64",
	Sint32: "sint32", Sint64: "sint64", Bool: "bool",
	Fixed32: "fixed32", Fixed64: "fixed64", Sfixed32: "sfixed32", Sfixed64: "sfixed64",
	Float: "float", Double: "double", String: "string", Bytes: "bytes",
}

func (s ScalarType) String() string {
	if n, ok := scalarNames[s]; ok {
		return n
	}
	return "unknown"
}

// scalarKeywords maps the reserved type-name keywords to their ScalarType,
// the inverse of scalarNames. Built once at init instead of hand-duplicated
// so the two can't drift.
var scalarKeywords = func() map[string]ScalarType {
	m := make(map[string]ScalarType, len(scalarNames))
	for t, n := range scalarNames {
		m[n] = t
	}
	return m
}()

// ScalarTypeByName reports the ScalarType a type-name keyword denotes, such
// as "int32" or "bytes". It returns false for any name that is not a scalar
// keyword (a message or enum reference, for instance).
func ScalarTypeByName(name string) (ScalarType, bool) {
	t, ok := scalarKeywords[name]
	return t, ok
}

// FieldType is a tagged union over every shape a field's type can take:
// a scalar, an unresolved message-or-enum name, a map, or a group.
//
// Exactly one of the accessors below describes a given FieldType; Kind
// reports which.
type FieldType struct {
	kind fieldTypeKind

	scalar ScalarType
	name   string          // MessageOrEnum
	mapKV  [2]*FieldType   // Map: [key, value]
	group  []*Field        // Group: inline fields
}

type fieldTypeKind int

const (
	KindScalar fieldTypeKind = iota
	KindMessageOrEnum
	KindMap
	KindGroup
)

// Kind reports which variant this FieldType holds.
func (t FieldType) Kind() fieldTypeKind { return t.kind }

// ScalarType returns the scalar type; only meaningful when Kind() == KindScalar.
func (t FieldType) ScalarType() ScalarType { return t.scalar }

// TypeName returns the referenced name; only meaningful when Kind() == KindMessageOrEnum.
func (t FieldType) TypeName() string { return t.name }

// MapKeyValue returns the key and value types of a map field; only
// meaningful when Kind() == KindMap.
func (t FieldType) MapKeyValue() (key, value FieldType) { return *t.mapKV[0], *t.mapKV[1] }

// GroupFields returns the inline fields of a (deprecated) group; only
// meaningful when Kind() == KindGroup.
func (t FieldType) GroupFields() []*Field { return t.group }

func ScalarFieldType(s ScalarType) FieldType { return FieldType{kind: KindScalar, scalar: s} }

func MessageOrEnumFieldType(name string) FieldType { return FieldType{kind: KindMessageOrEnum, name: name} }

func MapFieldType(key, value FieldType) FieldType {
	return FieldType{kind: KindMap, mapKV: [2]*FieldType{&key, &value}}
}

func GroupFieldType(fields []*Field) FieldType { return FieldType{kind: KindGroup, group: fields} }

// IsValidMapKey reports whether t may be used as a map key type: one of the
// integer, bool, or string scalars.
func (t FieldType) IsValidMapKey() bool {
	if t.kind != KindScalar {
		return false
	}
	switch t.scalar {
	case Int32, Int64, Uint32, Uint64, Sint32, Sint64, Fixed32, Fixed64, Sfixed32, Sfixed64, Bool, String:
		return true
	default:
		return false
	}
}

func (t FieldType) String() string {
	switch t.kind {
	case KindScalar:
		return t.scalar.String()
	case KindMessageOrEnum:
		return t.name
	case KindMap:
		k, v := t.MapKeyValue()
		return "map<" + k.String() + ", " + v.String() + ">"
	case KindGroup:
		return "group"
	default:
		return "invalid"
	}
}

// Field is a single, named, tag-numbered member of a message, oneof, or
// extend block.
type Field struct {
	Name       string
	Rule       Rule
	Type       FieldType
	Number     int32
	Default    *string // uninterpreted text of `[default = ...]`; proto2 only
	Packed     *bool
	Deprecated bool
}

// MaxFieldNumber is the largest tag number a field may carry. The core
// preserves whatever literal value was written; it does not reject numbers
// outside this range or inside the reserved 19000-19999 band, per spec.
const MaxFieldNumber = 536870911

// FieldNumberRange is a closed interval [From, To], used by `reserved` and
// (when surfaced) `extensions` declarations. A bare number n is represented
// as {From: n, To: n}.
type FieldNumberRange struct {
	From int32
	To   int32
}

// MaxRangeBound is what the `max` keyword means as a range's upper bound.
const MaxRangeBound = math.MaxInt32

// Message is a named record type: fields, oneofs, reserved ranges and
// names, nested messages/enums, and the field-number ranges it opens up
// for extension via `extend`. A nested `extend` block does not appear
// here; its fields are hoisted to FileDescriptor.Extensions instead.
type Message struct {
	Name            string
	Fields          []*Field
	OneOfs          []*OneOf
	ReservedNums    []FieldNumberRange
	ReservedNames   []string
	Messages        []*Message
	Enums           []*Enumeration
	ExtensionRanges []FieldNumberRange
}

// EnumValue is one symbolic constant of an Enumeration.
type EnumValue struct {
	Name   string
	Number int32
}

// Enumeration is a named, ordered set of integer-valued constants.
type Enumeration struct {
	Name   string
	Values []*EnumValue
}

// OneOf is a set of fields of which at most one may be set. Fields inside
// a oneof never carry an explicit rule keyword; their effective rule is
// always Optional, and none of them may be a map field.
type OneOf struct {
	Name   string
	Fields []*Field
}

// Extension is one field added to a previously declared message from
// outside its definition. A single `extend Foo { ... }` block with several
// fields expands to one Extension per field.
type Extension struct {
	Extendee string
	Field    *Field
}

// FileDescriptor is the root of the parsed syntax tree for one .proto file:
// everything else is owned by it, directly or transitively, and nothing
// points back up the tree.
type FileDescriptor struct {
	ImportPaths []string
	Package     string
	Syntax      Syntax
	Messages    []*Message
	Enums       []*Enumeration
	Extensions  []*Extension
}
