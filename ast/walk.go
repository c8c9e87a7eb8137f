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

package ast

// Walk traverses an AST in depth-first order: it calls before(node) for
// node and, if before returns true (or is nil), recurses into node's
// children in the order they would be evaluated, then calls after(node).
// Both callbacks may be nil. Mirrors cue/ast.Walk; the inspect package is
// built directly on top of it, the way many cue analyses are built on
// cue/ast.Walk.
func Walk(node Node, before func(Node) bool, after func(Node)) {
	if node == nil {
		return
	}
	if before != nil && !before(node) {
		return
	}

	switch n := node.(type) {
	case *LitNode:
		// no children
	case *MapNode:
		for _, e := range n.Entries {
			Walk(e.Key, before, after)
			Walk(e.Value, before, after)
		}
	case *SeqNode:
		for _, it := range n.Items {
			Walk(it, before, after)
		}
	case *BundleNode:
		for _, p := range n.Parts {
			Walk(p, before, after)
		}
	case *VarNode:
		if n.Default != nil {
			Walk(n.Default, before, after)
		}
	case *ImportNode:
		Walk(n.Path, before, after)
	case *SweepNode:
		for _, o := range n.Options {
			Walk(o, before, after)
		}
	case *CallNode:
		Walk(n.Symbol, before, after)
		Walk(n.Args, before, after)
	case *ModelNode:
		Walk(n.Symbol, before, after)
		Walk(n.Args, before, after)
	case *ForNode:
		Walk(n.Body, before, after)
	case *ItemNode:
		// no children
	case *IndexNode:
		// no children
	}

	if after != nil {
		after(node)
	}
}
