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

	"github.com/stretchr/testify/require"

	"github.com/protoschema/protoscan/reporter"
)

func lexAll(t *testing.T, src string) []token {
	t.Helper()
	l := newLexer("test.proto", []byte(src))
	var toks []token
	for {
		tok, err := l.next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks
		}
	}
}

func TestLexerIdentifiersAndPunctuation(t *testing.T) {
	toks := lexAll(t, "message Foo { int32 a = 1; }")
	require.Equal(t, tokIdent, toks[0].kind)
	require.Equal(t, "message", toks[0].ident)
	require.Equal(t, tokRune, toks[2].kind)
	require.Equal(t, '{', toks[2].rn)
}

func TestLexerSkipsComments(t *testing.T) {
	toks := lexAll(t, "// line comment\nident /* block\ncomment */ other")
	require.Equal(t, "ident", toks[0].ident)
	require.Equal(t, "other", toks[1].ident)
}

func TestLexerUnterminatedBlockComment(t *testing.T) {
	l := newLexer("test.proto", []byte("/* never closes"))
	_, err := l.next()
	require.Error(t, err)
	requireKind(t, err, reporter.UnterminatedComment)
}

func TestLexerNumbers(t *testing.T) {
	toks := lexAll(t, "123 0x1F 017 3.14 1e10 .5")
	require.Equal(t, tokIntLit, toks[0].kind)
	require.EqualValues(t, 123, toks[0].intVal)

	require.Equal(t, tokIntLit, toks[1].kind)
	require.EqualValues(t, 31, toks[1].intVal)

	require.Equal(t, tokIntLit, toks[2].kind)
	require.EqualValues(t, 15, toks[2].intVal)

	require.Equal(t, tokFloatLit, toks[3].kind)
	require.InDelta(t, 3.14, toks[3].floatVal, 0.0001)

	require.Equal(t, tokFloatLit, toks[4].kind)
	require.InDelta(t, 1e10, toks[4].floatVal, 1)

	// ".5" is not a valid protobuf float (no leading-dot form): the dot is
	// its own punctuation token, followed by an integer literal "5".
	require.Equal(t, tokRune, toks[5].kind)
	require.Equal(t, '.', toks[5].rn)
	require.Equal(t, tokIntLit, toks[6].kind)
	require.EqualValues(t, 5, toks[6].intVal)
}

func TestLexerStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\tb\x41\101B\n"`)
	require.Equal(t, tokStringLit, toks[0].kind)
	require.Equal(t, "a\tbAAB\n", toks[0].strVal)
}

func TestLexerInvalidEscape(t *testing.T) {
	l := newLexer("test.proto", []byte(`"\q"`))
	_, err := l.next()
	require.Error(t, err)
	requireKind(t, err, reporter.InvalidEscape)
}

func TestLexerUnterminatedString(t *testing.T) {
	l := newLexer("test.proto", []byte(`"no closing quote`))
	_, err := l.next()
	require.Error(t, err)
	requireKind(t, err, reporter.UnterminatedString)
}

func requireKind(t *testing.T, err error, want reporter.Kind) {
	t.Helper()
	ewp, ok := err.(reporter.ErrorWithPos)
	require.True(t, ok, "expected an ErrorWithPos, got %T", err)
	require.Equal(t, want, ewp.ErrorKind())
}
