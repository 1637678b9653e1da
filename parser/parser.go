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

// Package parser is a hand-written recursive-descent parser for the
// Protocol Buffers interface definition language, with one token of
// lookahead (two, for the single "map<" ambiguity). It has no generated
// grammar and no separate concrete syntax tree: each production builds
// the descriptor model in github.com/protoschema/protoscan directly as
// it recognizes it, and there is no error-recovery mode -- the first
// error returned from Parse is the only one reported.
package parser

import (
	"io"
	"math"
	"strings"

	"github.com/protoschema/protoscan"
	"github.com/protoschema/protoscan/reporter"
)

// ParseError is the error type returned by Parse when source text cannot
// be recognized. It always carries a source position and a taxonomy kind;
// use errors.As to recover it.
type ParseError = reporter.ErrorWithPos

// Parser holds the mutable state of one recursive-descent parse: the
// lexer producing tokens, the current token, and at most one token of
// extra lookahead for the "map<" special case.
type Parser struct {
	lex      *lexer
	tok      token
	la       *token
	filename string
}

// Parse reads a single .proto file from r and parses it into a
// FileDescriptor. It stops at the first malformed construct; see
// ParseError for how that failure is reported.
func Parse(filename string, r io.Reader) (*protoscan.FileDescriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(filename, data)
}

// ParseBytes is Parse without the io.Reader indirection, for callers that
// already have the source in memory (the walker package, tests).
func ParseBytes(filename string, data []byte) (*protoscan.FileDescriptor, error) {
	p := &Parser{lex: newLexer(filename, data), filename: filename}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseFile()
}

// --- token plumbing ---------------------------------------------------

func (p *Parser) advance() error {
	if p.la != nil {
		p.tok = *p.la
		p.la = nil
		return nil
	}
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

// peek2 returns the token after the current one without consuming it,
// caching the result. The grammar needs this only to decide whether a
// leading "map" identifier starts a map type or is an ordinary type name.
func (p *Parser) peek2() (token, error) {
	if p.la == nil {
		t, err := p.lex.next()
		if err != nil {
			return token{}, err
		}
		p.la = &t
	}
	return *p.la, nil
}

func (p *Parser) atRune(r rune) bool    { return p.tok.kind == tokRune && p.tok.rn == r }
func (p *Parser) atIdent(s string) bool { return p.tok.kind == tokIdent && p.tok.ident == s }

func (p *Parser) unexpected(want string) error {
	if p.tok.kind == tokEOF {
		return reporter.Errorf(p.tok.pos, reporter.UnexpectedEndOfInput,
			"unexpected end of input, expected %s", want)
	}
	return reporter.Errorf(p.tok.pos, reporter.UnexpectedToken,
		"unexpected %s, expected %s", p.tok, want)
}

func (p *Parser) expectRune(r rune) error {
	if !p.atRune(r) {
		return p.unexpected("'" + string(r) + "'")
	}
	return p.advance()
}

func (p *Parser) expectIdentAny() (string, error) {
	if p.tok.kind != tokIdent {
		return "", p.unexpected("identifier")
	}
	s := p.tok.ident
	return s, p.advance()
}

// parseQualifiedIdent reads a (possibly dotted, possibly leading-dot)
// identifier path: ident ('.' ident)*, with an optional leading '.' for
// fully-qualified references.
func (p *Parser) parseQualifiedIdent() (string, error) {
	var sb strings.Builder
	if p.atRune('.') {
		sb.WriteByte('.')
		if err := p.advance(); err != nil {
			return "", err
		}
	}
	name, err := p.expectIdentAny()
	if err != nil {
		return "", err
	}
	sb.WriteString(name)
	for p.atRune('.') {
		if err := p.advance(); err != nil {
			return "", err
		}
		seg, err := p.expectIdentAny()
		if err != nil {
			return "", err
		}
		sb.WriteByte('.')
		sb.WriteString(seg)
	}
	return sb.String(), nil
}

// --- file-level grammar (spec 4.3) ------------------------------------

func (p *Parser) parseFile() (*protoscan.FileDescriptor, error) {
	fd := &protoscan.FileDescriptor{Syntax: protoscan.Proto2}
	var extensions []*protoscan.Extension
	sawPackage := false
	anyStatement := false

	for p.tok.kind != tokEOF {
		switch {
		case p.atRune(';'):
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue

		case p.atIdent("syntax"):
			if anyStatement {
				return nil, reporter.Error(p.tok.pos, reporter.InvalidSyntaxDeclaration,
					"syntax declaration must be the first statement in the file")
			}
			syn, err := p.parseSyntaxDecl()
			if err != nil {
				return nil, err
			}
			fd.Syntax = syn

		case p.atIdent("import"):
			path, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			fd.ImportPaths = append(fd.ImportPaths, path)

		case p.atIdent("package"):
			if sawPackage {
				return nil, reporter.Error(p.tok.pos, reporter.DuplicateDeclaration,
					"a file may declare at most one package")
			}
			pkg, err := p.parsePackage()
			if err != nil {
				return nil, err
			}
			fd.Package = pkg
			sawPackage = true

		case p.atIdent("option"):
			if err := p.parseOptionStatement(); err != nil {
				return nil, err
			}

		case p.atIdent("message"):
			msg, err := p.parseMessage(fd.Syntax, &extensions)
			if err != nil {
				return nil, err
			}
			fd.Messages = append(fd.Messages, msg)

		case p.atIdent("enum"):
			en, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			fd.Enums = append(fd.Enums, en)

		case p.atIdent("extend"):
			if err := p.parseExtend(fd.Syntax, &extensions); err != nil {
				return nil, err
			}

		case p.atIdent("service"):
			if err := p.parseServiceSkip(); err != nil {
				return nil, err
			}

		default:
			return nil, p.unexpected("a top-level declaration")
		}
		anyStatement = true
	}

	fd.Extensions = extensions
	return fd, nil
}

func (p *Parser) parseSyntaxDecl() (protoscan.Syntax, error) {
	if err := p.advance(); err != nil { // consume "syntax"
		return 0, err
	}
	if err := p.expectRune('='); err != nil {
		return 0, err
	}
	if p.tok.kind != tokStringLit {
		return 0, reporter.Error(p.tok.pos, reporter.InvalidSyntaxDeclaration,
			"syntax value must be a string literal")
	}
	val := p.tok.strVal
	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return 0, err
	}
	if err := p.expectRune(';'); err != nil {
		return 0, err
	}
	switch val {
	case "proto2":
		return protoscan.Proto2, nil
	case "proto3":
		return protoscan.Proto3, nil
	default:
		return 0, reporter.Errorf(pos, reporter.InvalidSyntaxDeclaration,
			"unrecognized syntax %q, expected \"proto2\" or \"proto3\"", val)
	}
}

func (p *Parser) parseImport() (string, error) {
	if err := p.advance(); err != nil { // consume "import"
		return "", err
	}
	if p.atIdent("public") || p.atIdent("weak") {
		if err := p.advance(); err != nil {
			return "", err
		}
	}
	if p.tok.kind != tokStringLit {
		return "", p.unexpected("import path string")
	}
	path := p.tok.strVal
	if err := p.advance(); err != nil {
		return "", err
	}
	return path, p.expectRune(';')
}

func (p *Parser) parsePackage() (string, error) {
	if err := p.advance(); err != nil { // consume "package"
		return "", err
	}
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return "", err
	}
	return name, p.expectRune(';')
}

// parseOptionName reads a dotted option name, where any segment may be a
// parenthesized extension reference: "(foo.Bar).baz".
func (p *Parser) parseOptionName() (string, error) {
	var sb strings.Builder
	for {
		if p.atRune('(') {
			if err := p.advance(); err != nil {
				return "", err
			}
			name, err := p.parseQualifiedIdent()
			if err != nil {
				return "", err
			}
			if err := p.expectRune(')'); err != nil {
				return "", err
			}
			sb.WriteByte('(')
			sb.WriteString(name)
			sb.WriteByte(')')
		} else {
			name, err := p.expectIdentAny()
			if err != nil {
				return "", err
			}
			sb.WriteString(name)
		}
		if p.atRune('.') {
			if err := p.advance(); err != nil {
				return "", err
			}
			sb.WriteByte('.')
			continue
		}
		break
	}
	return sb.String(), nil
}

func (p *Parser) parseOptionEntry() (string, constantValue, error) {
	name, err := p.parseOptionName()
	if err != nil {
		return "", constantValue{}, err
	}
	if err := p.expectRune('='); err != nil {
		return "", constantValue{}, err
	}
	val, err := p.parseConstant()
	return name, val, err
}

// parseOptionStatement parses a standalone "option name = value;" at
// file, message, or enum scope. The value is discarded.
func (p *Parser) parseOptionStatement() error {
	if err := p.advance(); err != nil { // consume "option"
		return err
	}
	if _, _, err := p.parseOptionEntry(); err != nil {
		return err
	}
	return p.expectRune(';')
}

// --- message grammar (spec 4.4) ----------------------------------------

func (p *Parser) parseMessage(syntax protoscan.Syntax, extensions *[]*protoscan.Extension) (*protoscan.Message, error) {
	if err := p.advance(); err != nil { // consume "message"
		return nil, err
	}
	name, err := p.expectIdentAny()
	if err != nil {
		return nil, err
	}
	if err := p.expectRune('{'); err != nil {
		return nil, err
	}

	msg := &protoscan.Message{Name: name}
	for !p.atRune('}') {
		if p.tok.kind == tokEOF {
			return nil, p.unexpected("'}'")
		}
		switch {
		case p.atRune(';'):
			if err := p.advance(); err != nil {
				return nil, err
			}

		case p.atIdent("message"):
			nested, err := p.parseMessage(syntax, extensions)
			if err != nil {
				return nil, err
			}
			msg.Messages = append(msg.Messages, nested)

		case p.atIdent("enum"):
			nested, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			msg.Enums = append(msg.Enums, nested)

		case p.atIdent("oneof"):
			oneof, err := p.parseOneOf(syntax)
			if err != nil {
				return nil, err
			}
			msg.OneOfs = append(msg.OneOfs, oneof)

		case p.atIdent("reserved"):
			if err := p.parseReserved(msg); err != nil {
				return nil, err
			}

		case p.atIdent("extensions"):
			if err := p.parseExtensionRanges(msg); err != nil {
				return nil, err
			}

		case p.atIdent("extend"):
			if err := p.parseExtend(syntax, extensions); err != nil {
				return nil, err
			}

		case p.atIdent("option"):
			if err := p.parseOptionStatement(); err != nil {
				return nil, err
			}

		default:
			field, err := p.parseField(syntax, false)
			if err != nil {
				return nil, err
			}
			msg.Fields = append(msg.Fields, field)
		}
	}
	return msg, p.expectRune('}')
}

func (p *Parser) parseReserved(msg *protoscan.Message) error {
	if err := p.advance(); err != nil { // consume "reserved"
		return err
	}
	if p.tok.kind == tokStringLit {
		names, err := p.parseStringList()
		if err != nil {
			return err
		}
		msg.ReservedNames = append(msg.ReservedNames, names...)
		return p.expectRune(';')
	}
	ranges, err := p.parseIntRangeList()
	if err != nil {
		return err
	}
	msg.ReservedNums = append(msg.ReservedNums, ranges...)
	return p.expectRune(';')
}

func (p *Parser) parseExtensionRanges(msg *protoscan.Message) error {
	if err := p.advance(); err != nil { // consume "extensions"
		return err
	}
	ranges, err := p.parseIntRangeList()
	if err != nil {
		return err
	}
	msg.ExtensionRanges = append(msg.ExtensionRanges, ranges...)
	if p.atRune('[') {
		if err := p.advance(); err != nil {
			return err
		}
		for {
			if _, _, err := p.parseOptionEntry(); err != nil {
				return err
			}
			if p.atRune(',') {
				if err := p.advance(); err != nil {
					return err
				}
				continue
			}
			break
		}
		if err := p.expectRune(']'); err != nil {
			return err
		}
	}
	return p.expectRune(';')
}

func (p *Parser) parseStringList() ([]string, error) {
	var out []string
	for {
		s, err := p.parseConcatenatedString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		if p.atRune(',') {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return out, nil
}

func (p *Parser) parseIntRangeList() ([]protoscan.FieldNumberRange, error) {
	var out []protoscan.FieldNumberRange
	for {
		from, err := p.parseRangeBound()
		if err != nil {
			return nil, err
		}
		to := from
		if p.atIdent("to") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			to, err = p.parseRangeBound()
			if err != nil {
				return nil, err
			}
		}
		out = append(out, protoscan.FieldNumberRange{From: from, To: to})
		if p.atRune(',') {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return out, nil
}

func (p *Parser) parseRangeBound() (int32, error) {
	if p.atIdent("max") {
		if err := p.advance(); err != nil {
			return 0, err
		}
		return protoscan.MaxRangeBound, nil
	}
	if p.tok.kind != tokIntLit {
		return 0, p.unexpected("integer or 'max'")
	}
	v := p.tok.intVal
	pos := p.tok.pos
	if v > math.MaxInt32 {
		return 0, reporter.Errorf(pos, reporter.InvalidNumber, "range bound %d exceeds 32 bits", v)
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	return int32(v), nil
}

// --- oneof grammar -------------------------------------------------------

func (p *Parser) parseOneOf(syntax protoscan.Syntax) (*protoscan.OneOf, error) {
	if err := p.advance(); err != nil { // consume "oneof"
		return nil, err
	}
	name, err := p.expectIdentAny()
	if err != nil {
		return nil, err
	}
	if err := p.expectRune('{'); err != nil {
		return nil, err
	}
	oneof := &protoscan.OneOf{Name: name}
	for !p.atRune('}') {
		if p.tok.kind == tokEOF {
			return nil, p.unexpected("'}'")
		}
		switch {
		case p.atRune(';'):
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.atIdent("option"):
			if err := p.parseOptionStatement(); err != nil {
				return nil, err
			}
		default:
			field, err := p.parseField(syntax, true)
			if err != nil {
				return nil, err
			}
			if field.Type.Kind() == protoscan.KindMap {
				return nil, reporter.Error(p.tok.pos, reporter.UnexpectedToken,
					"map fields are not allowed inside a oneof")
			}
			oneof.Fields = append(oneof.Fields, field)
		}
	}
	return oneof, p.expectRune('}')
}

// --- field grammar ---------------------------------------------------

// parseField parses one field, group, or map-field declaration,
// including its optional "[...]" option list and trailing ';'.
func (p *Parser) parseField(syntax protoscan.Syntax, insideOneof bool) (*protoscan.Field, error) {
	rule := protoscan.Optional

	if p.atIdent("optional") || p.atIdent("repeated") || p.atIdent("required") {
		if insideOneof {
			return nil, reporter.Error(p.tok.pos, reporter.DuplicateDeclaration,
				"fields inside a oneof may not carry a rule keyword")
		}
		switch p.tok.ident {
		case "optional":
			rule = protoscan.Optional
		case "repeated":
			rule = protoscan.Repeated
		case "required":
			if syntax == protoscan.Proto3 {
				return nil, reporter.Error(p.tok.pos, reporter.UnexpectedToken,
					"proto3 does not allow the 'required' rule")
			}
			rule = protoscan.Required
		}
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.atIdent("group") {
			return p.parseGroupField(syntax, rule)
		}
	} else if !insideOneof && syntax == protoscan.Proto2 {
		isMap, err := p.atMapKeyword()
		if err != nil {
			return nil, err
		}
		if !isMap {
			return nil, reporter.Error(p.tok.pos, reporter.UnexpectedToken,
				"proto2 fields require an explicit 'optional', 'repeated', or 'required' rule")
		}
	}

	ft, err := p.parseFieldType()
	if err != nil {
		return nil, err
	}
	if ft.Kind() == protoscan.KindMap {
		rule = protoscan.Repeated
	}

	name, err := p.expectIdentAny()
	if err != nil {
		return nil, err
	}
	if err := p.expectRune('='); err != nil {
		return nil, err
	}
	number, err := p.parseFieldNumber()
	if err != nil {
		return nil, err
	}

	field := &protoscan.Field{Name: name, Rule: rule, Type: ft, Number: number}
	if p.atRune('[') {
		if err := p.parseFieldOptions(field); err != nil {
			return nil, err
		}
	}
	return field, p.expectRune(';')
}

// atMapKeyword reports whether the current token is the "map" keyword
// used as a map-type introducer, which requires peeking one token past
// it for '<'. A field may also simply be named or typed "map" in other
// contexts, so this is the one place the grammar needs two tokens of
// lookahead.
func (p *Parser) atMapKeyword() (bool, error) {
	if !p.atIdent("map") {
		return false, nil
	}
	next, err := p.peek2()
	if err != nil {
		return false, err
	}
	return next.kind == tokRune && next.rn == '<', nil
}

func (p *Parser) parseFieldType() (protoscan.FieldType, error) {
	isMap, err := p.atMapKeyword()
	if err != nil {
		return protoscan.FieldType{}, err
	}
	if isMap {
		return p.parseMapType()
	}

	if p.tok.kind == tokIdent {
		if st, ok := protoscan.ScalarTypeByName(p.tok.ident); ok {
			if err := p.advance(); err != nil {
				return protoscan.FieldType{}, err
			}
			return protoscan.ScalarFieldType(st), nil
		}
	} else if !p.atRune('.') {
		return protoscan.FieldType{}, p.unexpected("field type")
	}
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return protoscan.FieldType{}, err
	}
	return protoscan.MessageOrEnumFieldType(name), nil
}

func (p *Parser) parseMapType() (protoscan.FieldType, error) {
	if err := p.advance(); err != nil { // consume "map"
		return protoscan.FieldType{}, err
	}
	if err := p.expectRune('<'); err != nil {
		return protoscan.FieldType{}, err
	}
	keyPos := p.tok.pos
	key, err := p.parseFieldType()
	if err != nil {
		return protoscan.FieldType{}, err
	}
	if !key.IsValidMapKey() {
		return protoscan.FieldType{}, reporter.Errorf(keyPos, reporter.InvalidMapKey,
			"%s is not a valid map key type", key)
	}
	if err := p.expectRune(','); err != nil {
		return protoscan.FieldType{}, err
	}
	value, err := p.parseFieldType()
	if err != nil {
		return protoscan.FieldType{}, err
	}
	if err := p.expectRune('>'); err != nil {
		return protoscan.FieldType{}, err
	}
	return protoscan.MapFieldType(key, value), nil
}

func (p *Parser) parseFieldNumber() (int32, error) {
	if p.tok.kind != tokIntLit {
		return 0, p.unexpected("field number")
	}
	v := p.tok.intVal
	pos := p.tok.pos
	if v > math.MaxInt32 {
		return 0, reporter.Errorf(pos, reporter.InvalidNumber, "field number %d exceeds 32 bits", v)
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	return int32(v), nil
}

func (p *Parser) parseSignedInt32() (int32, error) {
	neg := false
	if p.atRune('-') {
		neg = true
		if err := p.advance(); err != nil {
			return 0, err
		}
	}
	if p.tok.kind != tokIntLit {
		return 0, p.unexpected("integer")
	}
	v := p.tok.intVal
	pos := p.tok.pos
	limit := uint64(math.MaxInt32)
	if neg {
		limit++
	}
	if v > limit {
		return 0, reporter.Errorf(pos, reporter.InvalidNumber, "value %d exceeds 32 bits", v)
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	val := int32(v)
	if neg {
		val = -val
	}
	return val, nil
}

// parseFieldOptions parses a field's trailing "[name = value, ...]" list,
// recognizing "default", "packed", and "deprecated" and discarding the
// rest, per spec 4.4.
func (p *Parser) parseFieldOptions(field *protoscan.Field) error {
	if err := p.expectRune('['); err != nil {
		return err
	}
	for {
		name, val, err := p.parseOptionEntry()
		if err != nil {
			return err
		}
		switch name {
		case "default":
			text := val.text
			field.Default = &text
		case "packed":
			if val.kind == constBool {
				b := val.boolVal
				field.Packed = &b
			}
		case "deprecated":
			if val.kind == constBool && val.boolVal {
				field.Deprecated = true
			}
		}
		if p.atRune(',') {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		break
	}
	return p.expectRune(']')
}

// parseGroupField parses the deprecated proto2 "group" field form. The
// group's body surfaces only as its field list (protoscan.GroupFieldType);
// any nested message/enum declared inside it is parsed to keep the
// grammar correct but is not retained, matching the tagged union's
// Group(inline_fields) shape.
func (p *Parser) parseGroupField(syntax protoscan.Syntax, rule protoscan.Rule) (*protoscan.Field, error) {
	if err := p.advance(); err != nil { // consume "group"
		return nil, err
	}
	groupName, err := p.expectIdentAny()
	if err != nil {
		return nil, err
	}
	if err := p.expectRune('='); err != nil {
		return nil, err
	}
	number, err := p.parseFieldNumber()
	if err != nil {
		return nil, err
	}
	if err := p.expectRune('{'); err != nil {
		return nil, err
	}
	var fields []*protoscan.Field
	for !p.atRune('}') {
		if p.tok.kind == tokEOF {
			return nil, p.unexpected("'}'")
		}
		switch {
		case p.atRune(';'):
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.atIdent("message"):
			var discard []*protoscan.Extension
			if _, err := p.parseMessage(syntax, &discard); err != nil {
				return nil, err
			}
		case p.atIdent("enum"):
			if _, err := p.parseEnum(); err != nil {
				return nil, err
			}
		case p.atIdent("option"):
			if err := p.parseOptionStatement(); err != nil {
				return nil, err
			}
		default:
			f, err := p.parseField(syntax, false)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
	}
	if err := p.expectRune('}'); err != nil {
		return nil, err
	}
	fieldName := groupName
	if len(fieldName) > 0 {
		fieldName = strings.ToLower(fieldName[:1]) + fieldName[1:]
	}
	return &protoscan.Field{
		Name:   fieldName,
		Rule:   rule,
		Type:   protoscan.GroupFieldType(fields),
		Number: number,
	}, nil
}

// --- enum grammar (spec 4.5) -------------------------------------------

func (p *Parser) parseEnum() (*protoscan.Enumeration, error) {
	if err := p.advance(); err != nil { // consume "enum"
		return nil, err
	}
	name, err := p.expectIdentAny()
	if err != nil {
		return nil, err
	}
	if err := p.expectRune('{'); err != nil {
		return nil, err
	}
	en := &protoscan.Enumeration{Name: name}
	for !p.atRune('}') {
		if p.tok.kind == tokEOF {
			return nil, p.unexpected("'}'")
		}
		switch {
		case p.atRune(';'):
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.atIdent("option"):
			if err := p.parseOptionStatement(); err != nil {
				return nil, err
			}
		case p.atIdent("reserved"):
			if err := p.parseEnumReserved(); err != nil {
				return nil, err
			}
		default:
			value, err := p.parseEnumValue()
			if err != nil {
				return nil, err
			}
			en.Values = append(en.Values, value)
		}
	}
	return en, p.expectRune('}')
}

func (p *Parser) parseEnumValue() (*protoscan.EnumValue, error) {
	name, err := p.expectIdentAny()
	if err != nil {
		return nil, err
	}
	if err := p.expectRune('='); err != nil {
		return nil, err
	}
	number, err := p.parseSignedInt32()
	if err != nil {
		return nil, err
	}
	if p.atRune('[') {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for {
			if _, _, err := p.parseOptionEntry(); err != nil {
				return nil, err
			}
			if p.atRune(',') {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
		if err := p.expectRune(']'); err != nil {
			return nil, err
		}
	}
	return &protoscan.EnumValue{Name: name, Number: number}, p.expectRune(';')
}

// parseEnumReserved discards an enum's "reserved" statement: the core
// model has no slot for reserved enum numbers/names, only messages do.
func (p *Parser) parseEnumReserved() error {
	if err := p.advance(); err != nil { // consume "reserved"
		return err
	}
	if p.tok.kind == tokStringLit {
		if _, err := p.parseStringList(); err != nil {
			return err
		}
		return p.expectRune(';')
	}
	if _, err := p.parseIntRangeList(); err != nil {
		return err
	}
	return p.expectRune(';')
}

// --- extend grammar ----------------------------------------------------

// parseExtend parses an "extend Extendee { field* }" block, appending one
// Extension per field to extensions, per spec 4.4.
func (p *Parser) parseExtend(syntax protoscan.Syntax, extensions *[]*protoscan.Extension) error {
	if err := p.advance(); err != nil { // consume "extend"
		return err
	}
	extendee, err := p.parseQualifiedIdent()
	if err != nil {
		return err
	}
	if err := p.expectRune('{'); err != nil {
		return err
	}
	for !p.atRune('}') {
		if p.tok.kind == tokEOF {
			return p.unexpected("'}'")
		}
		if p.atRune(';') {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		field, err := p.parseField(syntax, false)
		if err != nil {
			return err
		}
		*extensions = append(*extensions, &protoscan.Extension{Extendee: extendee, Field: field})
	}
	return p.expectRune('}')
}

// --- service (skipped entirely, per spec Non-goals) ---------------------

// parseServiceSkip consumes a "service Name { ... }" block without
// interpreting it, matching balanced braces. It relies on the lexer
// already treating string and comment contents atomically, so braces
// inside either never confuse the count.
func (p *Parser) parseServiceSkip() error {
	if err := p.advance(); err != nil { // consume "service"
		return err
	}
	if _, err := p.expectIdentAny(); err != nil {
		return err
	}
	if err := p.expectRune('{'); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		if p.tok.kind == tokEOF {
			return p.unexpected("'}'")
		}
		if p.atRune('{') {
			depth++
		} else if p.atRune('}') {
			depth--
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}
