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

// Package value implements RawTree: the recursive union of primitives,
// ordered sequences, and ordered key->value maps that both the raw input to
// the compiler and the output of the processor are made of.
//
// A Tree is the Choixe analogue of cue/ast's StructLit/ListLit/BasicLit
// triple (cue/ast/ast.go), except it holds runtime values rather than
// syntax: a Tree is produced by a DocumentLoader or by evaluating an AST,
// never parsed from source text directly.
package value

import (
	"strconv"
)

// Kind identifies which alternative of the RawTree union a Tree holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Seq
	Map
	// Opaque holds the result of a $call/$model invocation: a value produced
	// by a SymbolResolver's callable, embedded as-is. Markup writers are
	// expected to reject Opaque leaves.
	Opaque
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Seq:
		return "seq"
	case Map:
		return "map"
	case Opaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Entry is one key->value pair of a Map-kind Tree. Entries are held in a
// slice, not a Go map, so that insertion order survives compile and eval.
type Entry struct {
	Key   string
	Value Tree
}

// Tree is an immutable RawTree value. The zero Tree is Null.
type Tree struct {
	kind    Kind
	boolV   bool
	intV    int64
	floatV  float64
	strV    string
	seqV    []Tree
	entries []Entry
	opaqueV interface{}
}

func NullV() Tree                  { return Tree{kind: Null} }
func BoolV(b bool) Tree            { return Tree{kind: Bool, boolV: b} }
func IntV(i int64) Tree            { return Tree{kind: Int, intV: i} }
func FloatV(f float64) Tree        { return Tree{kind: Float, floatV: f} }
func StringV(s string) Tree        { return Tree{kind: String, strV: s} }
func SeqV(items ...Tree) Tree      { return Tree{kind: Seq, seqV: items} }
func OpaqueV(v interface{}) Tree   { return Tree{kind: Opaque, opaqueV: v} }

// MapV builds a Map-kind Tree from entries, in the given order.
func MapV(entries ...Entry) Tree { return Tree{kind: Map, entries: entries} }

func (t Tree) Kind() Kind { return t.kind }

func (t Tree) AsBool() (bool, bool)       { return t.boolV, t.kind == Bool }
func (t Tree) AsInt() (int64, bool)       { return t.intV, t.kind == Int }
func (t Tree) AsFloat() (float64, bool)   { return t.floatV, t.kind == Float }
func (t Tree) AsString() (string, bool)   { return t.strV, t.kind == String }
func (t Tree) AsSeq() ([]Tree, bool)      { return t.seqV, t.kind == Seq }
func (t Tree) AsEntries() ([]Entry, bool) { return t.entries, t.kind == Map }
func (t Tree) AsOpaque() (interface{}, bool) { return t.opaqueV, t.kind == Opaque }

// Get looks up key within a Map-kind Tree, returning (value, true) if
// present and (zero, false) otherwise.
func (t Tree) Get(key string) (Tree, bool) {
	if t.kind != Map {
		return Tree{}, false
	}
	for _, e := range t.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Tree{}, false
}

// At returns the i'th element of a Seq-kind Tree.
func (t Tree) At(i int) (Tree, bool) {
	if t.kind != Seq || i < 0 || i >= len(t.seqV) {
		return Tree{}, false
	}
	return t.seqV[i], true
}

// Len reports the number of entries or items for Map/Seq Trees, or 0
// otherwise.
func (t Tree) Len() int {
	switch t.kind {
	case Map:
		return len(t.entries)
	case Seq:
		return len(t.seqV)
	default:
		return 0
	}
}

// WithEntry returns a copy of t (which must be Map-kind, or Null — treated
// as an empty map) with key set to value, appended if new or overwritten
// in place if it already exists. This is how a loop body in map mode lets
// a later iteration overwrite an earlier one's equal key.
func (t Tree) WithEntry(key string, value Tree) Tree {
	if t.kind != Map && t.kind != Null {
		return t
	}
	entries := make([]Entry, len(t.entries))
	copy(entries, t.entries)
	for i, e := range entries {
		if e.Key == key {
			entries[i].Value = value
			return Tree{kind: Map, entries: entries}
		}
	}
	entries = append(entries, Entry{Key: key, Value: value})
	return Tree{kind: Map, entries: entries}
}

// WithAppend returns a copy of t (Seq-kind, or Null treated as empty) with
// item appended.
func (t Tree) WithAppend(item Tree) Tree {
	if t.kind != Seq && t.kind != Null {
		return t
	}
	items := make([]Tree, len(t.seqV)+1)
	copy(items, t.seqV)
	items[len(t.seqV)] = item
	return Tree{kind: Seq, seqV: items}
}

// Text coerces a scalar Tree to its canonical textual form, used wherever a
// value needs to appear as a bundle fragment or an evaluated map key:
// booleans as true/false, integers without decimals, floats in the
// shortest round-trippable form, null as the literal string "null".
func (t Tree) Text() string {
	switch t.kind {
	case Null:
		return "null"
	case Bool:
		if t.boolV {
			return "true"
		}
		return "false"
	case Int:
		return strconv.FormatInt(t.intV, 10)
	case Float:
		return strconv.FormatFloat(t.floatV, 'g', -1, 64)
	case String:
		return t.strV
	default:
		// Seq, Map, and Opaque have no canonical scalar text; they
		// coerce to the empty string.
		return ""
	}
}

// Equal reports deep equality, used by tests comparing trees.
func Equal(a, b Tree) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.boolV == b.boolV
	case Int:
		return a.intV == b.intV
	case Float:
		return a.floatV == b.floatV
	case String:
		return a.strV == b.strV
	case Seq:
		if len(a.seqV) != len(b.seqV) {
			return false
		}
		for i := range a.seqV {
			if !Equal(a.seqV[i], b.seqV[i]) {
				return false
			}
		}
		return true
	case Map:
		if len(a.entries) != len(b.entries) {
			return false
		}
		for i := range a.entries {
			if a.entries[i].Key != b.entries[i].Key || !Equal(a.entries[i].Value, b.entries[i].Value) {
				return false
			}
		}
		return true
	case Opaque:
		return false // opaque payloads are never equal; language-specific
	default:
		return false
	}
}
