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

package process

import (
	"fmt"

	"github.com/choixe-lang/choixe/ast"
	"github.com/choixe-lang/choixe/errors"
	"github.com/choixe-lang/choixe/token"
	"github.com/choixe-lang/choixe/value"
)

// evalOne resolves node to a single RawTree, taking the first option of
// every SweepNode it encounters.
func (p *Processor) evalOne(node ast.Node, ctx value.Tree) (value.Tree, error) {
	switch n := node.(type) {
	case *ast.LitNode:
		return n.Value, nil

	case *ast.MapNode:
		return p.evalMapOne(n, ctx)

	case *ast.SeqNode:
		items := make([]value.Tree, len(n.Items))
		for i, it := range n.Items {
			v, err := p.evalOne(it, ctx)
			if err != nil {
				return value.Tree{}, err
			}
			items[i] = v
		}
		return value.SeqV(items...), nil

	case *ast.BundleNode:
		var s string
		for _, part := range n.Parts {
			v, err := p.evalOne(part, ctx)
			if err != nil {
				return value.Tree{}, err
			}
			s += v.Text()
		}
		return value.StringV(s), nil

	case *ast.VarNode:
		return p.evalVarOne(n, ctx)

	case *ast.ImportNode:
		return p.evalImportOne(n, ctx)

	case *ast.SweepNode:
		if len(n.Options) == 0 {
			return value.Tree{}, errors.Newf(errors.BadArgumentSchema, n.Pos(), "sweep: no options")
		}
		return p.evalOne(n.Options[0], ctx)

	case *ast.CallNode:
		return p.evalCallOne(n.Symbol, n.Args, n.Pos(), false, ctx)

	case *ast.ModelNode:
		return p.evalCallOne(n.Symbol, n.Args, n.Pos(), true, ctx)

	case *ast.ForNode:
		return p.evalForOne(n, ctx)

	case *ast.ItemNode:
		return p.resolveItem(n.Ref, n.Pos())

	case *ast.IndexNode:
		return p.resolveIndex(n.Ref, n.Pos())

	default:
		return value.Tree{}, fmt.Errorf("process: unhandled node type %T", node)
	}
}

func (p *Processor) evalMapOne(n *ast.MapNode, ctx value.Tree) (value.Tree, error) {
	entries := make([]value.Entry, 0, len(n.Entries))
	for _, e := range n.Entries {
		keyV, err := p.evalOne(e.Key, ctx)
		if err != nil {
			return value.Tree{}, err
		}
		key := keyV.Text()
		for _, existing := range entries {
			if existing.Key == key {
				return value.Tree{}, errors.Newf(errors.DuplicateKey, n.Pos(),
					"duplicate map key %q after evaluation", key)
			}
		}
		valV, err := p.evalOne(e.Value, ctx)
		if err != nil {
			return value.Tree{}, err
		}
		entries = append(entries, value.Entry{Key: key, Value: valV})
	}
	return value.MapV(entries...), nil
}

func (p *Processor) evalVarOne(n *ast.VarNode, ctx value.Tree) (value.Tree, error) {
	v, ok, err := p.resolveVar(n, ctx, func(def ast.Node) (value.Tree, error) {
		return p.evalOne(def, ctx)
	})
	if err != nil {
		return value.Tree{}, err
	}
	if !ok {
		return value.Tree{}, errors.Newf(errors.UnresolvedVariable, n.Pos(), "unresolved variable %q", n.ID)
	}
	return v, nil
}

func (p *Processor) evalImportOne(n *ast.ImportNode, ctx value.Tree) (value.Tree, error) {
	pathV, err := p.evalOne(n.Path, ctx)
	if err != nil {
		return value.Tree{}, err
	}
	path, ok := pathV.AsString()
	if !ok {
		return value.Tree{}, errors.Newf(errors.TypeMismatch, n.Pos(), "import: path must evaluate to a string")
	}
	compiled, newBaseDir, abs, err := p.loadAndCompile(path, n.Pos())
	if err != nil {
		return value.Tree{}, err
	}
	savedBaseDir := p.baseDir
	p.baseDir = newBaseDir
	p.importStack = append(p.importStack, abs)
	defer func() {
		p.baseDir = savedBaseDir
		p.importStack = p.importStack[:len(p.importStack)-1]
	}()
	return p.evalOne(compiled, ctx)
}

func (p *Processor) evalCallOne(symbol ast.Node, args *ast.MapNode, pos token.Position, isModel bool, ctx value.Tree) (value.Tree, error) {
	symV, err := p.evalOne(symbol, ctx)
	if err != nil {
		return value.Tree{}, err
	}
	sym, ok := symV.AsString()
	if !ok {
		return value.Tree{}, errors.Newf(errors.TypeMismatch, pos, "call: symbol must evaluate to a string")
	}
	argsV, err := p.evalOne(args, ctx)
	if err != nil {
		return value.Tree{}, err
	}
	return p.invoke(sym, argsV, isModel, pos)
}

func (p *Processor) evalForOne(n *ast.ForNode, ctx value.Tree) (value.Tree, error) {
	items, err := p.resolveIterable(n, ctx)
	if err != nil {
		return value.Tree{}, err
	}
	if len(items) == 0 {
		return identity(n.Mode), nil
	}

	f := &frame{id: n.LoopID, items: items}
	p.loopStack = append(p.loopStack, f)
	defer p.popFrame()

	acc := identity(n.Mode)
	for i := range items {
		f.index = i
		v, err := p.evalOne(n.Body, ctx)
		if err != nil {
			return value.Tree{}, err
		}
		acc, err = combineBody(n.Mode, acc, v)
		if err != nil {
			return value.Tree{}, err
		}
	}
	return acc, nil
}

func (p *Processor) popFrame() {
	p.loopStack = p.loopStack[:len(p.loopStack)-1]
}

func identity(mode ast.BodyMode) value.Tree {
	switch mode {
	case ast.ModeMap:
		return value.MapV()
	case ast.ModeSeq:
		return value.SeqV()
	default:
		return value.StringV("")
	}
}

func combineBody(mode ast.BodyMode, acc, next value.Tree) (value.Tree, error) {
	switch mode {
	case ast.ModeMap:
		entries, _ := next.AsEntries()
		for _, e := range entries {
			acc = acc.WithEntry(e.Key, e.Value)
		}
		return acc, nil
	case ast.ModeSeq:
		items, _ := next.AsSeq()
		for _, it := range items {
			acc = acc.WithAppend(it)
		}
		return acc, nil
	default:
		s, _ := acc.AsString()
		return value.StringV(s + next.Text()), nil
	}
}
