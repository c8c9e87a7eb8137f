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

// evalAll resolves node to the full list of its branching alternatives.
// Composite nodes combine their children's alternative lists by cartesian
// product, left to right, so that the last child (depth-first) varies
// fastest.
func (p *Processor) evalAll(node ast.Node, ctx value.Tree) ([]value.Tree, error) {
	switch n := node.(type) {
	case *ast.LitNode:
		return []value.Tree{n.Value}, nil

	case *ast.MapNode:
		return p.evalMapAll(n, ctx)

	case *ast.SeqNode:
		acc := []value.Tree{value.SeqV()}
		for _, item := range n.Items {
			alts, err := p.evalAll(item, ctx)
			if err != nil {
				return nil, err
			}
			acc, err = combineLists(acc, alts, func(a, b value.Tree) (value.Tree, error) {
				return a.WithAppend(b), nil
			})
			if err != nil {
				return nil, err
			}
		}
		return acc, nil

	case *ast.BundleNode:
		acc := []value.Tree{value.StringV("")}
		for _, part := range n.Parts {
			alts, err := p.evalAll(part, ctx)
			if err != nil {
				return nil, err
			}
			acc, err = combineLists(acc, alts, func(a, b value.Tree) (value.Tree, error) {
				s, _ := a.AsString()
				return value.StringV(s + b.Text()), nil
			})
			if err != nil {
				return nil, err
			}
		}
		return acc, nil

	case *ast.VarNode:
		return p.evalVarAll(n, ctx)

	case *ast.ImportNode:
		return p.evalImportAll(n, ctx)

	case *ast.SweepNode:
		var all []value.Tree
		for _, opt := range n.Options {
			alts, err := p.evalAll(opt, ctx)
			if err != nil {
				return nil, err
			}
			all = append(all, alts...)
		}
		if len(all) == 0 {
			return nil, errors.Newf(errors.BadArgumentSchema, n.Pos(), "sweep: no options")
		}
		return all, nil

	case *ast.CallNode:
		return p.evalCallAll(n.Symbol, n.Args, n.Pos(), false, ctx)

	case *ast.ModelNode:
		return p.evalCallAll(n.Symbol, n.Args, n.Pos(), true, ctx)

	case *ast.ForNode:
		return p.evalForAll(n, ctx)

	case *ast.ItemNode:
		v, err := p.resolveItem(n.Ref, n.Pos())
		if err != nil {
			return nil, err
		}
		return []value.Tree{v}, nil

	case *ast.IndexNode:
		v, err := p.resolveIndex(n.Ref, n.Pos())
		if err != nil {
			return nil, err
		}
		return []value.Tree{v}, nil

	default:
		return nil, fmt.Errorf("process: unhandled node type %T", node)
	}
}

// combineLists is the cartesian-product fold used by every composite node:
// outer (acc) is everything combined so far, inner (next) is the next
// child's alternative list. Looping acc on the outside and next on the
// inside makes next vary fastest, which is what makes a later sibling's
// sweep vary faster than an earlier one's.
func combineLists(acc, next []value.Tree, combine func(a, b value.Tree) (value.Tree, error)) ([]value.Tree, error) {
	out := make([]value.Tree, 0, len(acc)*len(next))
	for _, a := range acc {
		for _, b := range next {
			v, err := combine(a, b)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func (p *Processor) evalMapAll(n *ast.MapNode, ctx value.Tree) ([]value.Tree, error) {
	acc := []value.Tree{value.MapV()}
	for _, e := range n.Entries {
		keyAlts, err := p.evalAll(e.Key, ctx)
		if err != nil {
			return nil, err
		}
		valAlts, err := p.evalAll(e.Value, ctx)
		if err != nil {
			return nil, err
		}

		type entryAlt struct {
			key string
			val value.Tree
		}
		entryAlts := make([]entryAlt, 0, len(keyAlts)*len(valAlts))
		for _, k := range keyAlts {
			keyStr := k.Text()
			for _, v := range valAlts {
				entryAlts = append(entryAlts, entryAlt{keyStr, v})
			}
		}

		next := make([]value.Tree, 0, len(acc)*len(entryAlts))
		for _, a := range acc {
			for _, ea := range entryAlts {
				if _, exists := a.Get(ea.key); exists {
					return nil, errors.Newf(errors.DuplicateKey, n.Pos(),
						"duplicate map key %q after evaluation", ea.key)
				}
				next = append(next, a.WithEntry(ea.key, ea.val))
			}
		}
		acc = next
	}
	return acc, nil
}

func (p *Processor) evalVarAll(n *ast.VarNode, ctx value.Tree) ([]value.Tree, error) {
	var defaultAlts []value.Tree
	var defaultErr error
	v, ok, err := p.resolveVar(n, ctx, func(def ast.Node) (value.Tree, error) {
		defaultAlts, defaultErr = p.evalAll(def, ctx)
		if defaultErr != nil {
			return value.Tree{}, defaultErr
		}
		if len(defaultAlts) == 0 {
			return value.Tree{}, nil
		}
		return defaultAlts[0], nil
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Newf(errors.UnresolvedVariable, n.Pos(), "unresolved variable %q", n.ID)
	}
	if defaultAlts != nil {
		return defaultAlts, nil
	}
	return []value.Tree{v}, nil
}

func (p *Processor) evalImportAll(n *ast.ImportNode, ctx value.Tree) ([]value.Tree, error) {
	pathAlts, err := p.evalAll(n.Path, ctx)
	if err != nil {
		return nil, err
	}
	var all []value.Tree
	for _, pathV := range pathAlts {
		path, ok := pathV.AsString()
		if !ok {
			return nil, errors.Newf(errors.TypeMismatch, n.Pos(), "import: path must evaluate to a string")
		}
		compiled, newBaseDir, abs, err := p.loadAndCompile(path, n.Pos())
		if err != nil {
			return nil, err
		}
		savedBaseDir := p.baseDir
		p.baseDir = newBaseDir
		p.importStack = append(p.importStack, abs)
		alts, err := p.evalAll(compiled, ctx)
		p.baseDir = savedBaseDir
		p.importStack = p.importStack[:len(p.importStack)-1]
		if err != nil {
			return nil, err
		}
		all = append(all, alts...)
	}
	return all, nil
}

func (p *Processor) evalCallAll(symbol ast.Node, args *ast.MapNode, pos token.Position, isModel bool, ctx value.Tree) ([]value.Tree, error) {
	symAlts, err := p.evalAll(symbol, ctx)
	if err != nil {
		return nil, err
	}
	argAlts, err := p.evalAll(args, ctx)
	if err != nil {
		return nil, err
	}
	out := make([]value.Tree, 0, len(symAlts)*len(argAlts))
	for _, symV := range symAlts {
		sym, ok := symV.AsString()
		if !ok {
			return nil, errors.Newf(errors.TypeMismatch, pos, "call: symbol must evaluate to a string")
		}
		for _, argsV := range argAlts {
			result, err := p.invoke(sym, argsV, isModel, pos)
			if err != nil {
				return nil, err
			}
			out = append(out, result)
		}
	}
	return out, nil
}

func (p *Processor) evalForAll(n *ast.ForNode, ctx value.Tree) ([]value.Tree, error) {
	items, err := p.resolveIterable(n, ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []value.Tree{identity(n.Mode)}, nil
	}

	f := &frame{id: n.LoopID, items: items}
	p.loopStack = append(p.loopStack, f)
	defer p.popFrame()

	acc := []value.Tree{identity(n.Mode)}
	for i := range items {
		f.index = i
		bodyAlts, err := p.evalAll(n.Body, ctx)
		if err != nil {
			return nil, err
		}
		acc, err = combineLists(acc, bodyAlts, func(a, b value.Tree) (value.Tree, error) {
			return combineBody(n.Mode, a, b)
		})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
