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

// Package token describes source positions used to annotate errors raised
// while lexing, parsing, compiling, or processing a Choixe tree.
//
// Unlike a conventional compiler, Choixe has no single source file: its
// input is a data tree whose leaves are directive-bearing strings. A
// Position therefore locates an error two ways at once: the dotted access
// path from the tree root to the offending node, and, when the error
// originates while scanning a single string, the byte offset within that
// string.
package token

import "fmt"

// Position describes where, within a Choixe tree, a token, directive call,
// or AST node originated.
type Position struct {
	Path   string // dotted access path from the tree root, e.g. "a.b.2.c"
	Source string // the directive-bearing string being scanned, if any
	Offset int     // byte offset into Source; meaningless if Source == ""
}

// NoPos is the zero Position, for errors that do not correspond to a
// concrete tree location.
var NoPos = Position{}

// IsValid reports whether pos carries a tree path.
func (pos Position) IsValid() bool {
	return pos.Path != ""
}

// String renders pos for human consumption, e.g. "a.b.c" or "a.b.c@12".
func (pos Position) String() string {
	if !pos.IsValid() {
		return "-"
	}
	if pos.Source == "" {
		return pos.Path
	}
	return fmt.Sprintf("%s@%d", pos.Path, pos.Offset)
}

// WithOffset returns a copy of pos pointing at a different offset within
// the same Source.
func (pos Position) WithOffset(offset int) Position {
	pos.Offset = offset
	return pos
}
