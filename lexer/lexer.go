// Copyright 2018 The CUE Authors
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

// Package lexer tokenizes a directive-bearing string into a sequence of
// Plain and Directive tokens.
// It is a single-pass byte scanner in the style of cue/scanner, trimmed
// down: there is no line/column tracking (a Choixe string has no notion of
// lines) and no comment handling, since directive-bearing strings carry no
// comment syntax.
package lexer

import (
	"github.com/choixe-lang/choixe/errors"
	"github.com/choixe-lang/choixe/token"
)

// Kind distinguishes the two token shapes a scan produces.
type Kind int

const (
	Plain Kind = iota
	Directive
)

// Token is one element of a lexed directive-bearing string.
type Token struct {
	Kind Kind
	// Text holds the plain text for a Plain token, or the directive name
	// for a Directive token.
	Text string
	// ArgText holds the raw text between the matching parentheses of a
	// call-form directive ("$name(...)"). It is absent (ArgHasParens ==
	// false) for the compact form ("$name").
	ArgText      string
	ArgHasParens bool
	// Offset is the byte offset of this token within the scanned string.
	Offset int
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// Scan tokenizes s. path is the dotted access path of s within the tree
// being compiled, used only to annotate errors with a token.Position.
func Scan(s string, path string) ([]Token, error) {
	var toks []Token
	var plain []byte
	plainStart := 0

	flushPlain := func(end int) {
		if len(plain) > 0 {
			toks = append(toks, Token{Kind: Plain, Text: string(plain), Offset: plainStart})
			plain = nil
		}
		_ = end
	}

	i := 0
	n := len(s)
	for i < n {
		if s[i] != '$' {
			if len(plain) == 0 {
				plainStart = i
			}
			plain = append(plain, s[i])
			i++
			continue
		}

		// s[i] == '$'. Look for an identifier immediately following it.
		j := i + 1
		if j >= n || !isIdentStart(s[j]) {
			// A lone '$' not followed by an identifier is plain text.
			if len(plain) == 0 {
				plainStart = i
			}
			plain = append(plain, s[i])
			i++
			continue
		}
		nameStart := j
		for j < n && isIdentPart(s[j]) {
			j++
		}
		name := s[nameStart:j]

		flushPlain(i)

		tok := Token{Kind: Directive, Text: name, Offset: i}
		if j < n && s[j] == '(' {
			argStart := j + 1
			k := argStart
			for k < n && s[k] != ')' {
				if s[k] == '(' {
					return nil, errors.Newf(errors.UnsupportedNesting,
						token.Position{Path: path, Source: s, Offset: k},
						"directive %q: nested parentheses are not supported", name)
				}
				k++
			}
			if k >= n {
				return nil, errors.Newf(errors.UnterminatedCall,
					token.Position{Path: path, Source: s, Offset: i},
					"directive %q: unterminated call, missing ')'", name)
			}
			tok.ArgText = s[argStart:k]
			tok.ArgHasParens = true
			j = k + 1
		}
		toks = append(toks, tok)
		i = j
	}
	flushPlain(n)

	if len(toks) == 0 {
		// An empty string is a single empty Plain token (the compiler turns
		// it into LitNode("")).
		toks = append(toks, Token{Kind: Plain, Text: "", Offset: 0})
	}
	return toks, nil
}
