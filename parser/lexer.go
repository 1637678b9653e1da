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
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/protoschema/protoscan/ast"
	"github.com/protoschema/protoscan/reporter"
)

// punctuation is every single-character token the grammar recognizes on
// its own, outside of identifiers, numbers, and strings.
const punctuation = "{}[]();,=<>.:-+"

// lexer turns UTF-8 bytes into a stream of tokens, tracking the current
// (line, column) as it goes. It has no notion of grammar; that lives
// entirely in parser.go, which calls peek/next for one-token lookahead.
type lexer struct {
	data   []byte
	offset int
	cursor *ast.Cursor
}

func newLexer(filename string, data []byte) *lexer {
	return &lexer{
		data:   data,
		cursor: ast.NewCursor(filename),
	}
}

func (l *lexer) pos() ast.Position { return l.cursor.Position() }

// readRune consumes and returns the next rune, advancing the cursor. It
// returns size 0 at end of input.
func (l *lexer) readRune() (rune, int) {
	if l.offset >= len(l.data) {
		return 0, 0
	}
	r, sz := utf8.DecodeRune(l.data[l.offset:])
	l.offset += sz
	l.cursor.Advance(r, sz)
	return r, sz
}

// peekRune looks at the next rune without consuming it.
func (l *lexer) peekRune() (rune, int) {
	if l.offset >= len(l.data) {
		return 0, 0
	}
	r, sz := utf8.DecodeRune(l.data[l.offset:])
	return r, sz
}

// peekRuneAt looks ahead n runes without consuming anything, returning 0
// if input is exhausted first.
func (l *lexer) peekRuneAt(n int) rune {
	off := l.offset
	var r rune
	for i := 0; i <= n; i++ {
		if off >= len(l.data) {
			return 0
		}
		var sz int
		r, sz = utf8.DecodeRune(l.data[off:])
		off += sz
	}
	return r
}

func isLetter(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// skipWhitespaceAndComments consumes runs of whitespace, "//" line
// comments, and "/* */" block comments until a significant rune is found
// or input is exhausted.
func (l *lexer) skipWhitespaceAndComments() error {
	for {
		r, sz := l.peekRune()
		if sz == 0 {
			return nil
		}
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\f' || r == '\v':
			l.readRune()
			continue
		case r == '/' && l.peekRuneAt(1) == '/':
			l.readRune()
			l.readRune()
			for {
				r, sz := l.peekRune()
				if sz == 0 || r == '\n' {
					break
				}
				l.readRune()
			}
			continue
		case r == '/' && l.peekRuneAt(1) == '*':
			start := l.pos()
			l.readRune()
			l.readRune()
			closed := false
			for {
				r, sz := l.readRune()
				if sz == 0 {
					return reporter.Error(start, reporter.UnterminatedComment, "block comment never terminates, unexpected end of input")
				}
				if r == '*' {
					if nr, nsz := l.peekRune(); nsz != 0 && nr == '/' {
						l.readRune()
						closed = true
						break
					}
				}
			}
			if !closed {
				return reporter.Error(start, reporter.UnterminatedComment, "block comment never terminates")
			}
			continue
		default:
			return nil
		}
	}
}

// next scans and returns the next token.
func (l *lexer) next() (token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token{}, err
	}

	start := l.pos()
	r, sz := l.peekRune()
	if sz == 0 {
		return token{kind: tokEOF, pos: start}, nil
	}

	switch {
	case isLetter(r):
		return l.lexIdentifier(start)
	case isDigit(r):
		return l.lexNumber(start)
	case r == '"' || r == '\'':
		return l.lexString(start)
	case strings.ContainsRune(punctuation, r):
		l.readRune()
		return token{kind: tokRune, pos: start, rn: r}, nil
	default:
		l.readRune()
		return token{}, reporter.Errorf(start, reporter.UnexpectedToken, "unexpected character %q", r)
	}
}

func (l *lexer) lexIdentifier(start ast.Position) (token, error) {
	var sb strings.Builder
	for {
		r, sz := l.peekRune()
		if sz == 0 || !(isLetter(r) || isDigit(r)) {
			break
		}
		sb.WriteRune(r)
		l.readRune()
	}
	return token{kind: tokIdent, pos: start, ident: sb.String()}, nil
}

// lexNumber scans an integer or floating-point literal. Protobuf integer
// literals are decimal (no leading zero, unless the literal is exactly
// "0"), octal (leading 0), or hex (0x/0X); floats are
// [0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?. A leading '-' is never part of the
// token; the parser consumes it separately where a signed value is
// expected.
func (l *lexer) lexNumber(start ast.Position) (token, error) {
	var sb strings.Builder

	first, _ := l.readRune()
	sb.WriteRune(first)

	if first == '0' {
		if r, _ := l.peekRune(); r == 'x' || r == 'X' {
			sb.WriteRune(r)
			l.readRune()
			for {
				r, sz := l.peekRune()
				if sz == 0 || !isHexDigit(r) {
					break
				}
				sb.WriteRune(r)
				l.readRune()
			}
			raw := sb.String()
			v, err := strconv.ParseUint(raw[2:], 16, 64)
			if err != nil {
				return token{}, reporter.Errorf(start, reporter.InvalidNumber, "invalid hexadecimal literal %q", raw)
			}
			return token{kind: tokIntLit, pos: start, intVal: v, raw: raw}, nil
		}
	}

	isFloat := false
	for {
		r, sz := l.peekRune()
		if sz == 0 {
			break
		}
		switch {
		case isDigit(r):
			sb.WriteRune(r)
			l.readRune()
		case r == '.' && !isFloat:
			// Only consume the dot as part of the number if a digit
			// follows; otherwise it's the field-access/statement-end
			// punctuation and must be lexed as its own token.
			if nr := l.peekRuneAt(1); isDigit(nr) {
				isFloat = true
				sb.WriteRune(r)
				l.readRune()
			} else {
				goto done
			}
		case (r == 'e' || r == 'E') && sb.Len() > 0:
			isFloat = true
			sb.WriteRune(r)
			l.readRune()
			if nr, _ := l.peekRune(); nr == '+' || nr == '-' {
				sb.WriteRune(nr)
				l.readRune()
			}
		default:
			goto done
		}
	}
done:
	raw := sb.String()

	if isFloat {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return token{}, reporter.Errorf(start, reporter.InvalidNumber, "invalid floating-point literal %q", raw)
		}
		return token{kind: tokFloatLit, pos: start, floatVal: f, raw: raw}, nil
	}

	base := 10
	if len(raw) > 1 && raw[0] == '0' {
		base = 8
	}
	v, err := strconv.ParseUint(raw, base, 64)
	if err != nil {
		kind := "integer"
		if base == 8 {
			kind = "octal integer"
		}
		return token{}, reporter.Errorf(start, reporter.InvalidNumber, "invalid %s literal %q", kind, raw)
	}
	return token{kind: tokIntLit, pos: start, intVal: v, raw: raw}, nil
}

// lexString scans a single-quoted or double-quoted string literal,
// including C-style escapes. It does not merge adjacent literals; the
// parser's constant production concatenates them (spec 4.1).
func (l *lexer) lexString(start ast.Position) (token, error) {
	quote, _ := l.readRune()
	var buf strings.Builder
	for {
		r, sz := l.readRune()
		if sz == 0 {
			return token{}, reporter.Error(start, reporter.UnterminatedString, "unterminated string literal")
		}
		if r == '\n' {
			return token{}, reporter.Error(start, reporter.UnterminatedString, "encountered end of line before end of string literal")
		}
		if r == quote {
			break
		}
		if r != '\\' {
			buf.WriteRune(r)
			continue
		}
		if err := l.lexEscape(start, &buf); err != nil {
			return token{}, err
		}
	}
	return token{kind: tokStringLit, pos: start, strVal: buf.String()}, nil
}

func (l *lexer) lexEscape(start ast.Position, buf *strings.Builder) error {
	r, sz := l.readRune()
	if sz == 0 {
		return reporter.Error(start, reporter.UnterminatedString, "unterminated escape sequence")
	}
	switch r {
	case 'a':
		buf.WriteByte('\a')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'v':
		buf.WriteByte('\v')
	case '\\', '\'', '"', '?':
		buf.WriteRune(r)
	case 'x', 'X':
		hex := l.readWhile(isHexDigit, 2)
		if hex == "" {
			return reporter.Error(start, reporter.InvalidEscape, "invalid hex escape: missing digits after \\x")
		}
		v, _ := strconv.ParseUint(hex, 16, 32)
		buf.WriteByte(byte(v))
	case 'u':
		return l.lexUnicodeEscape(start, buf, 4)
	case 'U':
		return l.lexUnicodeEscape(start, buf, 8)
	default:
		if r >= '0' && r <= '7' {
			octal := string(r) + l.readWhile(isOctalDigit, 2)
			v, err := strconv.ParseUint(octal, 8, 32)
			if err != nil || v > 0xff {
				return reporter.Errorf(start, reporter.InvalidEscape, "octal escape out of range: \\%s", octal)
			}
			buf.WriteByte(byte(v))
			return nil
		}
		return reporter.Errorf(start, reporter.InvalidEscape, "invalid escape sequence: \\%c", r)
	}
	return nil
}

func isOctalDigit(r rune) bool { return r >= '0' && r <= '7' }

// readWhile consumes up to max runes satisfying pred and returns them.
func (l *lexer) readWhile(pred func(rune) bool, max int) string {
	var sb strings.Builder
	for i := 0; i < max; i++ {
		r, sz := l.peekRune()
		if sz == 0 || !pred(r) {
			break
		}
		sb.WriteRune(r)
		l.readRune()
	}
	return sb.String()
}

func (l *lexer) lexUnicodeEscape(start ast.Position, buf *strings.Builder, digits int) error {
	hex := l.readWhile(isHexDigit, digits)
	if len(hex) != digits {
		return reporter.Errorf(start, reporter.InvalidEscape, "invalid unicode escape: expected %d hex digits", digits)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v > 0x10ffff {
		return reporter.Errorf(start, reporter.InvalidEscape, "unicode escape out of range: \\u%s", hex)
	}
	buf.WriteRune(rune(v))
	return nil
}
