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

import "github.com/protoschema/protoscan/ast"

// tokenKind classifies a lexed token. The grammar only ever looks one
// token ahead, so the lexer and parser communicate through this small,
// flat enum rather than a hierarchy of AST node types.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokIntLit
	tokFloatLit
	tokStringLit
	tokRune // single-character punctuation: { } [ ] ( ) ; , = < > . : - +
)

// token is one lexical unit plus the source position it started at.
type token struct {
	kind tokenKind
	pos  ast.Position

	ident string // tokIdent
	rn    rune   // tokRune

	// Numeric/string literal payloads. intVal holds the literal's
	// magnitude; the parser applies a leading '-' itself, since the
	// lexer never merges a minus sign into a number (spec 4.1).
	intVal   uint64
	floatVal float64
	strVal   string
	raw      string // original text, for diagnostics
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of file"
	case tokIdent:
		return "identifier " + t.ident
	case tokIntLit:
		return "integer literal " + t.raw
	case tokFloatLit:
		return "float literal " + t.raw
	case tokStringLit:
		return "string literal"
	case tokRune:
		return "'" + string(t.rn) + "'"
	default:
		return "token"
	}
}
