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
	"strings"
)

// constantKind classifies the value grammar production described in spec
// 4.2: a constant is a signed number, a bool, a string, a bare identifier
// (an enum constant reference), or a brace-delimited aggregate.
type constantKind int

const (
	constInt constantKind = iota
	constFloat
	constBool
	constString
	constIdent
	constAggregate
)

// constantValue is the result of parsing one "constant" production. text
// holds a textual form of the value suitable for storing as a field's
// uninterpreted default: strings are decoded and concatenated, while
// numbers keep their source spelling (with any leading '-').
type constantValue struct {
	kind    constantKind
	text    string
	boolVal bool
}

// parseConstant parses one value of the "constant" production: a signed
// int or float, a bool literal, a (possibly concatenated) string literal,
// a bare identifier, or a brace-delimited aggregate used by custom
// options. Aggregates are parsed recursively so that nested braces are
// matched by the grammar rather than by naive counting.
func (p *Parser) parseConstant() (constantValue, error) {
	if p.atRune('-') {
		if err := p.advance(); err != nil {
			return constantValue{}, err
		}
		return p.parseSignedMagnitude(true)
	}
	if p.atRune('+') {
		if err := p.advance(); err != nil {
			return constantValue{}, err
		}
		return p.parseSignedMagnitude(false)
	}

	switch p.tok.kind {
	case tokIntLit:
		raw := p.tok.raw
		if err := p.advance(); err != nil {
			return constantValue{}, err
		}
		return constantValue{kind: constInt, text: raw}, nil
	case tokFloatLit:
		raw := p.tok.raw
		if err := p.advance(); err != nil {
			return constantValue{}, err
		}
		return constantValue{kind: constFloat, text: raw}, nil
	case tokStringLit:
		s, err := p.parseConcatenatedString()
		if err != nil {
			return constantValue{}, err
		}
		return constantValue{kind: constString, text: s}, nil
	case tokIdent:
		return p.parseIdentConstant()
	case tokRune:
		if p.tok.rn == '{' {
			return p.parseAggregate()
		}
	}
	return constantValue{}, p.unexpected("constant value")
}

// parseSignedMagnitude parses the int/float/inf that follows a unary sign
// already consumed by the caller.
func (p *Parser) parseSignedMagnitude(negative bool) (constantValue, error) {
	sign := ""
	if negative {
		sign = "-"
	}
	switch p.tok.kind {
	case tokIntLit:
		raw := p.tok.raw
		if err := p.advance(); err != nil {
			return constantValue{}, err
		}
		return constantValue{kind: constInt, text: sign + raw}, nil
	case tokFloatLit:
		raw := p.tok.raw
		if err := p.advance(); err != nil {
			return constantValue{}, err
		}
		return constantValue{kind: constFloat, text: sign + raw}, nil
	case tokIdent:
		if p.tok.ident == "inf" || p.tok.ident == "infinity" || p.tok.ident == "nan" {
			ident := p.tok.ident
			if err := p.advance(); err != nil {
				return constantValue{}, err
			}
			return constantValue{kind: constFloat, text: sign + ident}, nil
		}
	}
	return constantValue{}, p.unexpected("number after sign")
}

func (p *Parser) parseIdentConstant() (constantValue, error) {
	switch p.tok.ident {
	case "true":
		if err := p.advance(); err != nil {
			return constantValue{}, err
		}
		return constantValue{kind: constBool, boolVal: true, text: "true"}, nil
	case "false":
		if err := p.advance(); err != nil {
			return constantValue{}, err
		}
		return constantValue{kind: constBool, boolVal: false, text: "false"}, nil
	case "inf", "infinity", "nan":
		ident := p.tok.ident
		if err := p.advance(); err != nil {
			return constantValue{}, err
		}
		return constantValue{kind: constFloat, text: ident}, nil
	}
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return constantValue{}, err
	}
	return constantValue{kind: constIdent, text: name}, nil
}

// parseConcatenatedString reads one or more directly adjacent string
// literals and concatenates their decoded contents, per spec 4.1.
func (p *Parser) parseConcatenatedString() (string, error) {
	var sb strings.Builder
	for p.tok.kind == tokStringLit {
		sb.WriteString(p.tok.strVal)
		if err := p.advance(); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// parseAggregate parses a brace-delimited "{ name: value, ... }" custom
// option value. The core discards its contents; this only needs to
// consume the production correctly so the surrounding grammar can resume.
func (p *Parser) parseAggregate() (constantValue, error) {
	if err := p.expectRune('{'); err != nil {
		return constantValue{}, err
	}
	for !p.atRune('}') {
		if p.tok.kind == tokEOF {
			return constantValue{}, p.unexpected("'}'")
		}
		if err := p.parseAggregateFieldName(); err != nil {
			return constantValue{}, err
		}
		if p.atRune(':') {
			if err := p.advance(); err != nil {
				return constantValue{}, err
			}
			if _, err := p.parseConstant(); err != nil {
				return constantValue{}, err
			}
		} else if p.atRune('{') || p.atRune('[') {
			if _, err := p.parseAggregate(); err != nil {
				return constantValue{}, err
			}
		}
		if p.atRune(',') || p.atRune(';') {
			if err := p.advance(); err != nil {
				return constantValue{}, err
			}
		}
	}
	if err := p.expectRune('}'); err != nil {
		return constantValue{}, err
	}
	return constantValue{kind: constAggregate, text: "<aggregate>"}, nil
}

// parseAggregateFieldName accepts either a bare identifier or a
// bracketed extension name ("[foo.bar.Baz]"), per the text-format
// aggregate syntax used by custom options.
func (p *Parser) parseAggregateFieldName() error {
	if p.atRune('[') {
		if err := p.advance(); err != nil {
			return err
		}
		if _, err := p.parseQualifiedIdent(); err != nil {
			return err
		}
		return p.expectRune(']')
	}
	_, err := p.expectIdentAny()
	return err
}
