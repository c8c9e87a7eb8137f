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

package value

import "strconv"

// Lookup resolves a dotted path ("a.b.2.c") against root, addressing Map
// entries by key and Seq entries by decimal index. A missing intermediate
// node yields (zero, false), never an error: absence is the normal outcome
// of a failed lookup and it is the caller's job (variable resolution, loop
// iterable resolution, ...) to decide whether that is fatal.
func Lookup(root Tree, dotted string) (Tree, bool) {
	cur := root
	for _, part := range SplitPath(dotted) {
		switch cur.kind {
		case Map:
			v, ok := cur.Get(part)
			if !ok {
				return Tree{}, false
			}
			cur = v
		case Seq:
			idx, err := strconv.Atoi(part)
			if err != nil {
				return Tree{}, false
			}
			v, ok := cur.At(idx)
			if !ok {
				return Tree{}, false
			}
			cur = v
		default:
			return Tree{}, false
		}
	}
	return cur, true
}

// SplitPath splits a dotted identifier into its components. It never
// returns an empty component for a well-formed path: the lexer and
// directive parser already reject anything that doesn't match the
// dotted-identifier grammar before a path reaches here.
func SplitPath(dotted string) []string {
	if dotted == "" {
		return nil
	}
	parts := make([]string, 0, 4)
	start := 0
	for i := 0; i < len(dotted); i++ {
		if dotted[i] == '.' {
			parts = append(parts, dotted[start:i])
			start = i + 1
		}
	}
	parts = append(parts, dotted[start:])
	return parts
}

// JoinPath is the inverse of SplitPath, used to rebuild the sub-path of an
// $item reference after its loop id has been split off.
func JoinPath(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += "." + p
	}
	return out
}
