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

// Package reporter carries parse errors out of the lexer and parser and
// attaches the source position that caused them. Unlike the compiler this
// module is descended from, there is no error-recovery mode: the grammar
// has no productions for synchronizing after a bad token, so the first
// reported error always aborts the parse.
package reporter

import (
	"fmt"

	"github.com/protoschema/protoscan/ast"
)

// Kind classifies why a parse failed, per the error taxonomy the core
// commits to.
type Kind int

const (
	_ Kind = iota
	UnexpectedToken
	UnexpectedEndOfInput
	InvalidSyntaxDeclaration
	DuplicateDeclaration
	InvalidEscape
	InvalidNumber
	InvalidMapKey
	UnterminatedComment
	UnterminatedString
)

func (k Kind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case UnexpectedEndOfInput:
		return "unexpected end of input"
	case InvalidSyntaxDeclaration:
		return "invalid syntax declaration"
	case DuplicateDeclaration:
		return "duplicate declaration"
	case InvalidEscape:
		return "invalid escape sequence"
	case InvalidNumber:
		return "invalid number"
	case InvalidMapKey:
		return "invalid map key type"
	case UnterminatedComment:
		return "unterminated comment"
	case UnterminatedString:
		return "unterminated string literal"
	default:
		return "parse error"
	}
}

// ErrorWithPos is an error about a proto source file that carries the
// location that caused it.
type ErrorWithPos interface {
	error
	// Position returns the source position that caused the underlying error.
	Position() ast.Position
	// ErrorKind categorizes the error for programmatic handling.
	ErrorKind() Kind
	// Unwrap returns the underlying error.
	Unwrap() error
}

// Error creates a new ErrorWithPos of the given kind, positioned at pos.
func Error(pos ast.Position, kind Kind, msg string) ErrorWithPos {
	return &errorWithPos{pos: pos, kind: kind, underlying: fmt.Errorf("%s", msg)}
}

// Errorf is like Error but builds the message with fmt.Errorf semantics.
func Errorf(pos ast.Position, kind Kind, format string, args ...interface{}) ErrorWithPos {
	return &errorWithPos{pos: pos, kind: kind, underlying: fmt.Errorf(format, args...)}
}

type errorWithPos struct {
	pos        ast.Position
	kind       Kind
	underlying error
}

func (e *errorWithPos) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.pos, e.kind, e.underlying)
}

func (e *errorWithPos) Position() ast.Position { return e.pos }
func (e *errorWithPos) ErrorKind() Kind         { return e.kind }
func (e *errorWithPos) Unwrap() error           { return e.underlying }

var _ ErrorWithPos = (*errorWithPos)(nil)

// Handler collects the first error reported during a parse. The core never
// attempts recovery, so once an error is handled, every subsequent call to
// HandleError is a no-op that returns the original error; callers use this
// to unwind out of a deeply recursive grammar production with a single
// check at the top-level entry point.
type Handler struct {
	err ErrorWithPos
}

// NewHandler creates an empty Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// HandleError records err as the handler's error if one is not already
// recorded, and always returns the first error recorded (possibly err
// itself). The grammar treats a non-nil return as "stop parsing now".
func (h *Handler) HandleError(err ErrorWithPos) error {
	if h.err == nil {
		h.err = err
	}
	return h.err
}

// Error returns the first error reported to this handler, or nil if none
// was reported.
func (h *Handler) Error() error {
	if h.err == nil {
		return nil
	}
	return h.err
}
