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

// Package inspect implements a static visitor over a compiled AST that
// collects the variables, environment keys, imports, and dynamic symbols a
// tree references, without evaluating anything with side effects. It is
// built directly on top of ast.Walk, the way a cue/ast-based linter would
// be.
package inspect

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/choixe-lang/choixe/ast"
	"github.com/choixe-lang/choixe/compile"
	"github.com/choixe-lang/choixe/external"
	"github.com/choixe-lang/choixe/value"
)

// Options lets Inspect follow statically resolvable $import paths into the
// files they name. Loader is optional: with a nil Loader, import paths are
// still recorded in Result.Imports, but their contents are not walked.
type Options struct {
	Loader  external.DocumentLoader
	BaseDir string
}

// Result is what a static walk of a tree reports.
type Result struct {
	// Variables mirrors the shape of every VarNode(env=false) reference
	// found: a Map tree whose dotted paths match the referenced ids, each
	// holding the node's literal default (or Null if it has none or the
	// default isn't a compile-time literal).
	Variables value.Tree
	// Environ is the same shape as Variables, for VarNode(env=true).
	Environ value.Tree
	// Imports holds the absolute (or as-written, if relative resolution
	// needs a baseDir the inspector doesn't have) paths of every
	// statically resolvable ImportNode, plus the literal text "<dynamic>"
	// entries are never added for — dynamic import paths are recorded in
	// DynamicImports instead.
	Imports []string
	// DynamicImports counts ImportNodes whose path could not be resolved
	// without a context (e.g. path is itself a VarNode).
	DynamicImports int
	// Symbols holds every literal $call/$model symbol name found.
	Symbols []string
	// Processed reports whether the walk visited at least one directive
	// node at all (a tree of pure data has Processed == false).
	Processed bool
}

// Inspect walks root and returns what it statically finds, following any
// statically resolvable $import into its target file when opts.Loader is
// set.
func Inspect(root ast.Node, opts Options) Result {
	v := &visitor{
		variables: value.MapV(),
		environ:   value.MapV(),
		imports:   map[string]bool{},
		symbols:   map[string]bool{},
		loader:    opts.Loader,
		baseDir:   opts.BaseDir,
		seen:      map[string]bool{},
	}
	ast.Walk(root, v.before, nil)
	return Result{
		Variables:      v.variables,
		Environ:        v.environ,
		Imports:        sortedKeys(v.imports),
		DynamicImports: v.dynamicImports,
		Symbols:        sortedKeys(v.symbols),
		Processed:      v.processed,
	}
}

type visitor struct {
	variables      value.Tree
	environ        value.Tree
	imports        map[string]bool
	dynamicImports int
	symbols        map[string]bool
	processed      bool

	loader  external.DocumentLoader
	baseDir string
	seen    map[string]bool // absolute paths already walked, cycle guard
}

// absPath resolves path against the current baseDir (or the working
// directory when baseDir is empty).
func (v *visitor) absPath(path string) string {
	abs := path
	if !filepath.IsAbs(abs) {
		dir := v.baseDir
		if dir == "" {
			dir, _ = os.Getwd()
		}
		abs = filepath.Join(dir, path)
	}
	return filepath.Clean(abs)
}

// followImport loads, compiles, and walks the file at abs in place,
// folding its findings into v. Load/compile failures and repeat visits
// are swallowed: a static walk never fails the way processing does, it
// just reports less.
func (v *visitor) followImport(abs string) {
	if v.loader == nil {
		return
	}
	if v.seen[abs] {
		return
	}
	v.seen[abs] = true

	tree, err := v.loader.Load(abs)
	if err != nil {
		return
	}
	node, err := compile.Compile(tree, compile.Options{BaseDir: filepath.Dir(abs)})
	if err != nil {
		return
	}

	savedBaseDir := v.baseDir
	v.baseDir = filepath.Dir(abs)
	ast.Walk(node, v.before, nil)
	v.baseDir = savedBaseDir
}

func (v *visitor) before(n ast.Node) bool {
	switch t := n.(type) {
	case *ast.VarNode:
		v.processed = true
		def := value.NullV()
		if lit, ok := t.Default.(*ast.LitNode); ok {
			def = lit.Value
		}
		if t.Env {
			v.environ = setPath(v.environ, value.SplitPath(t.ID), def)
		} else {
			v.variables = setPath(v.variables, value.SplitPath(t.ID), def)
		}

	case *ast.ImportNode:
		v.processed = true
		if path, ok := literalString(t.Path); ok {
			abs := v.absPath(path)
			v.imports[abs] = true
			v.followImport(abs)
		} else {
			v.dynamicImports++
			return false // path is dynamic; nothing further to resolve here
		}

	case *ast.CallNode:
		v.processed = true
		if sym, ok := literalString(t.Symbol); ok {
			v.symbols[sym] = true
		}

	case *ast.ModelNode:
		v.processed = true
		if sym, ok := literalString(t.Symbol); ok {
			v.symbols[sym] = true
		}

	case *ast.ForNode:
		v.processed = true
		v.variables = setPath(v.variables, value.SplitPath(t.Iterable), value.SeqV())

	case *ast.SweepNode:
		v.processed = true

	case *ast.BundleNode:
		v.processed = true

	case *ast.ItemNode, *ast.IndexNode:
		v.processed = true
	}
	return true
}

// literalString reports whether n is a compile-time-constant string: a
// plain LitNode, or a BundleNode whose every part is itself such a node.
func literalString(n ast.Node) (string, bool) {
	switch t := n.(type) {
	case *ast.LitNode:
		s, ok := t.Value.AsString()
		return s, ok
	case *ast.BundleNode:
		var s string
		for _, part := range t.Parts {
			ps, ok := literalString(part)
			if !ok {
				return "", false
			}
			s += ps
		}
		return s, true
	default:
		return "", false
	}
}

// setPath inserts v at dotted path parts within root (a Map tree),
// creating intermediate maps as needed and leaving an existing leaf
// untouched if it is already a non-Null value (the first reference to a
// variable wins; later references only add information at new paths).
func setPath(root value.Tree, parts []string, v value.Tree) value.Tree {
	if len(parts) == 0 {
		return root
	}
	head, rest := parts[0], parts[1:]
	if len(rest) == 0 {
		if existing, ok := root.Get(head); ok && existing.Kind() != value.Null {
			return root
		}
		return root.WithEntry(head, v)
	}
	child, ok := root.Get(head)
	if !ok || child.Kind() != value.Map {
		child = value.MapV()
	}
	return root.WithEntry(head, setPath(child, rest, v))
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
