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

// Package ast declares the types used to represent a compiled Choixe tree.
// It plays the role that cue/ast.go plays for CUE source: a single Node
// interface plus one concrete type per syntactic form, built by the
// compile package and walked by the process and inspect packages.
package ast

import (
	"github.com/choixe-lang/choixe/token"
	"github.com/choixe-lang/choixe/value"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
}

// BodyMode fixes, at compile time, how a bundle or for-loop body combines
// its parts/iterations: a loop body's kind never changes between
// iterations.
type BodyMode int

const (
	ModeString BodyMode = iota
	ModeSeq
	ModeMap
)

// LitNode is a primitive value resolved entirely at compile time: a
// non-string scalar, or a string token with no directive inside it.
type LitNode struct {
	Position token.Position
	Value    value.Tree
}

func (n *LitNode) Pos() token.Position { return n.Position }

// MapEntry is one (key, value) pair of a MapNode. The key is itself an AST
// node, not a bare string, because a map key may contain a directive.
type MapEntry struct {
	Key   Node
	Value Node
}

// MapNode is an ordered key->value AST map; entry order mirrors the
// insertion order of the RawTree it was compiled from.
type MapNode struct {
	Position token.Position
	Entries  []MapEntry
}

func (n *MapNode) Pos() token.Position { return n.Position }

// SeqNode is an ordered sequence of AST items.
type SeqNode struct {
	Position token.Position
	Items    []Node
}

func (n *SeqNode) Pos() token.Position { return n.Position }

// BundleNode is emitted when a string contains at least one directive
// interleaved with plain text; it evaluates by concatenating the text
// form of each part, mirroring cue/ast.Interpolation.
type BundleNode struct {
	Position token.Position
	Parts    []Node
}

func (n *BundleNode) Pos() token.Position { return n.Position }

// VarNode resolves a dotted identifier against the evaluation context, with
// an optional compile-time-parsed default and an optional environment
// fallback.
type VarNode struct {
	Position token.Position
	ID       string
	Default  Node // nil if no default was given
	Env      bool
}

func (n *VarNode) Pos() token.Position { return n.Position }

// ImportNode resolves path (itself an AST, since it may be a bundle or
// var) to a string and loads + compiles + evaluates the tree found there.
type ImportNode struct {
	Position token.Position
	Path     Node
}

func (n *ImportNode) Pos() token.Position { return n.Position }

// SweepNode is a branching node: each option is evaluated independently and
// the node's alternatives are the concatenation of each option's own
// alternative list.
type SweepNode struct {
	Position token.Position
	Options  []Node
}

func (n *SweepNode) Pos() token.Position { return n.Position }

// CallNode invokes a dynamically resolved symbol with keyword arguments,
// embedding the (opaque) result as-is.
type CallNode struct {
	Position token.Position
	Symbol   Node
	Args     *MapNode
}

func (n *CallNode) Pos() token.Position { return n.Position }

// ModelNode is like CallNode but additionally requires the resolved symbol
// to be a structured-data-class constructor.
type ModelNode struct {
	Position token.Position
	Symbol   Node
	Args     *MapNode
}

func (n *ModelNode) Pos() token.Position { return n.Position }

// ForNode expands Body once per element of the iterable named by Iterable,
// combining the results according to Mode (inferred from Body's kind at
// compile time).
type ForNode struct {
	Position token.Position
	Iterable string
	// LoopID is the loop's identifier: either user-supplied, or, if
	// AutoID, a compiler-minted stable token unique to this ForNode for
	// the lifetime of the compiled AST.
	LoopID string
	AutoID bool
	Body   Node
	Mode   BodyMode
}

func (n *ForNode) Pos() token.Position { return n.Position }

// ItemNode resolves to the current item of a loop frame. Ref is empty to
// mean "the innermost frame, whole item"; otherwise its first dotted
// component names a loop id and any remaining components descend into
// that frame's current item.
type ItemNode struct {
	Position token.Position
	Ref      string
}

func (n *ItemNode) Pos() token.Position { return n.Position }

// IndexNode resolves to the current integer index of a loop frame. Ref is
// empty to mean "the innermost frame"; otherwise it names a loop id.
type IndexNode struct {
	Position token.Position
	Ref      string
}

func (n *IndexNode) Pos() token.Position { return n.Position }
