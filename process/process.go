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

// Package process implements the Choixe processor: a recursive evaluator
// over a compiled AST that either resolves to a single RawTree (Process,
// the "non-branching" entry point, where a SweepNode degrades to its
// first option) or to the full cartesian product of branching
// resolutions (ProcessAll).
//
// A Processor holds the per-evaluation state a recursive walk needs: an
// import stack for cycle detection and a loop stack of active $for frames.
// Both start and end empty for a successful evaluation; neither is safe to
// share across concurrent calls to Process/ProcessAll, so New returns a
// fresh Processor for each evaluation.
package process

import (
	"github.com/choixe-lang/choixe/ast"
	"github.com/choixe-lang/choixe/external"
	"github.com/choixe-lang/choixe/value"
)

// Options carries a Processor's external collaborators and the directory
// $import paths starting at the root of evaluation are resolved against.
type Options struct {
	Loader   external.DocumentLoader
	Resolver external.SymbolResolver
	BaseDir  string
}

// Processor evaluates one compiled AST against one context. Create a new
// Processor per evaluation; do not reuse one across concurrent calls.
type Processor struct {
	loader   external.DocumentLoader
	resolver external.SymbolResolver
	baseDir  string

	importStack []string
	loopStack   []*frame
}

// frame is one active $for loop frame: the items being iterated, the
// current index, and the loop id $item/$index reference it by.
type frame struct {
	id    string
	items []value.Tree
	index int
}

// New creates a Processor ready to evaluate a single AST.
func New(opts Options) *Processor {
	return &Processor{loader: opts.Loader, resolver: opts.Resolver, baseDir: opts.BaseDir}
}

// Process evaluates node against ctx in non-branching mode: every SweepNode
// degrades to its first option.
func Process(node ast.Node, ctx value.Tree, opts Options) (value.Tree, error) {
	p := New(opts)
	return p.evalOne(node, ctx)
}

// ProcessAll evaluates node against ctx in branching mode, returning every
// resolution: the last sweep encountered depth-first, left-to-right,
// varies fastest.
func ProcessAll(node ast.Node, ctx value.Tree, opts Options) ([]value.Tree, error) {
	p := New(opts)
	return p.evalAll(node, ctx)
}
