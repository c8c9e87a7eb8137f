// Copyright 2026 The Choixe Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package directive

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/choixe-lang/choixe/errors"
	"github.com/choixe-lang/choixe/token"
	"github.com/choixe-lang/choixe/value"
)

// identRe matches a single dotted identifier:
// [A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// simpleIdentRe matches a single (non-dotted) keyword-argument name.
var simpleIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse parses the raw argument text of a call-form directive (the text
// between the matching parentheses) into a Call, per the grammar:
//
//	args := elem ("," elem)* | empty
//	elem := kwname "=" value | value
//	value := number | quoted-string | bool | null | dotted-id
//
// name is the directive name, stored as the returned Call's Name and used
// in error messages; pos locates the owning token for error reporting.
func Parse(name, argText string, pos token.Position) (*Call, error) {
	call := &Call{Name: name, Kwargs: map[string]Argument{}}

	elems, err := splitTopLevel(argText, pos)
	if err != nil {
		return nil, err
	}
	seenKwarg := false
	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			return nil, errors.Newf(errors.BadArgumentSyntax, pos,
				"directive %q: empty argument", name)
		}
		kw, valueText, isKwarg := splitKwarg(elem)
		if isKwarg {
			seenKwarg = true
			if _, dup := call.Kwargs[kw]; dup {
				return nil, errors.Newf(errors.BadArgumentSyntax, pos,
					"directive %q: duplicate keyword argument %q", name, kw)
			}
			arg, err := parseValue(valueText, pos)
			if err != nil {
				return nil, err
			}
			call.Kwargs[kw] = arg
			call.KwargOrder = append(call.KwargOrder, kw)
			continue
		}
		if seenKwarg {
			return nil, errors.Newf(errors.BadArgumentSyntax, pos,
				"directive %q: positional argument follows keyword argument", name)
		}
		arg, err := parseValue(valueText, pos)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}

// splitTopLevel splits argText on commas that are not inside a quoted
// string, returning no elements for an all-whitespace or empty argText.
func splitTopLevel(argText string, pos token.Position) ([]string, error) {
	argText = strings.TrimSpace(argText)
	if argText == "" {
		return nil, nil
	}
	var elems []string
	var cur strings.Builder
	var quote byte
	inQuote := false
	for i := 0; i < len(argText); i++ {
		c := argText[i]
		switch {
		case inQuote:
			cur.WriteByte(c)
			if c == '\\' && i+1 < len(argText) {
				i++
				cur.WriteByte(argText[i])
				continue
			}
			if c == quote {
				inQuote = false
			}
		case c == '\'' || c == '"':
			inQuote = true
			quote = c
			cur.WriteByte(c)
		case c == ',':
			elems = append(elems, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuote {
		return nil, errors.Newf(errors.BadArgumentSyntax, pos,
			"unterminated quoted string in argument list")
	}
	elems = append(elems, cur.String())
	return elems, nil
}

// splitKwarg reports whether elem has the shape `kwname=value` with kwname
// a bare (non-dotted) identifier appearing before any quote.
func splitKwarg(elem string) (kw, rest string, ok bool) {
	for i := 0; i < len(elem); i++ {
		c := elem[i]
		if c == '\'' || c == '"' {
			break
		}
		if c == '=' {
			name := strings.TrimSpace(elem[:i])
			if simpleIdentRe.MatchString(name) {
				return name, strings.TrimSpace(elem[i+1:]), true
			}
			break
		}
	}
	return "", elem, false
}

func parseValue(text string, pos token.Position) (Argument, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Argument{}, errors.Newf(errors.BadArgumentSyntax, pos, "empty value")
	}

	if text[0] == '\'' || text[0] == '"' {
		s, err := unquote(text, pos)
		if err != nil {
			return Argument{}, err
		}
		return Argument{Kind: ArgLiteral, Literal: value.StringV(s)}, nil
	}

	if strings.EqualFold(text, "null") {
		return Argument{Kind: ArgLiteral, Literal: value.NullV()}, nil
	}
	if strings.EqualFold(text, "true") {
		return Argument{Kind: ArgLiteral, Literal: value.BoolV(true)}, nil
	}
	if strings.EqualFold(text, "false") {
		return Argument{Kind: ArgLiteral, Literal: value.BoolV(false)}, nil
	}

	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Argument{Kind: ArgLiteral, Literal: value.IntV(i)}, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return Argument{Kind: ArgLiteral, Literal: value.FloatV(f)}, nil
	}

	if identRe.MatchString(text) {
		return Argument{Kind: ArgIdent, Ident: text}, nil
	}

	return Argument{}, errors.Newf(errors.BadIdentifier, pos,
		"%q is neither a literal nor a valid dotted identifier", text)
}

// unquote strips the surrounding quote characters from text and resolves
// the recognized escape sequences: \n \t \\ \' \".
func unquote(text string, pos token.Position) (string, error) {
	if len(text) < 2 || text[len(text)-1] != text[0] {
		return "", errors.Newf(errors.BadArgumentSyntax, pos, "malformed quoted string %q", text)
	}
	quote := text[0]
	body := text[1 : len(text)-1]
	var out strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			out.WriteByte(c)
			continue
		}
		if i+1 >= len(body) {
			return "", errors.Newf(errors.BadArgumentSyntax, pos, "dangling escape in %q", text)
		}
		i++
		switch body[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case '\\':
			out.WriteByte('\\')
		case '\'':
			out.WriteByte('\'')
		case '"':
			out.WriteByte('"')
		default:
			if body[i] == quote {
				out.WriteByte(quote)
				continue
			}
			return "", errors.Newf(errors.BadArgumentSyntax, pos, "unknown escape sequence \\%c", body[i])
		}
	}
	return out.String(), nil
}
