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
	"os"
	"path/filepath"

	"github.com/choixe-lang/choixe/ast"
	"github.com/choixe-lang/choixe/compile"
	"github.com/choixe-lang/choixe/errors"
	"github.com/choixe-lang/choixe/token"
	"github.com/choixe-lang/choixe/value"
)

// resolveVar looks n up in ctx, then (if n.Env is set) the environment,
// then falls back to n.Default. It stops short of the final "fail with
// UnresolvedVariable" step, which the caller (evalOne/evalAll) performs
// since only it knows whether a missing default should itself be allowed
// to branch. evalDefault evaluates n.Default in whichever mode the caller
// is using.
func (p *Processor) resolveVar(n *ast.VarNode, ctx value.Tree, evalDefault func(ast.Node) (value.Tree, error)) (value.Tree, bool, error) {
	if v, ok := value.Lookup(ctx, n.ID); ok {
		return v, true, nil
	}
	if n.Env {
		if s, ok := os.LookupEnv(n.ID); ok {
			return value.StringV(s), true, nil
		}
	}
	if n.Default != nil {
		v, err := evalDefault(n.Default)
		if err != nil {
			return value.Tree{}, false, err
		}
		return v, true, nil
	}
	return value.Tree{}, false, nil
}

// loadAndCompile resolves path relative to the Processor's current
// baseDir, detects import cycles against paths currently being evaluated,
// loads the document, and compiles it with a baseDir rooted at the
// imported file's own directory. It returns the resolved absolute path
// alongside the compiled node so the caller can push it onto importStack
// for the duration of evaluating the returned node: cycle detection only
// works if the path stays on the stack across evaluation, not just
// compilation, since compile.Compile never recurses into imports itself.
func (p *Processor) loadAndCompile(path string, pos token.Position) (ast.Node, string, string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		dir := p.baseDir
		if dir == "" {
			var err error
			dir, err = os.Getwd()
			if err != nil {
				return nil, "", "", errors.Newf(errors.ImportNotFound, pos, "import %q: %v", path, err)
			}
		}
		abs = filepath.Join(dir, path)
	}
	abs = filepath.Clean(abs)

	for _, seen := range p.importStack {
		if seen == abs {
			return nil, "", "", errors.Newf(errors.ImportCycle, pos, "import cycle detected at %q", abs)
		}
	}

	if p.loader == nil {
		return nil, "", "", errors.Newf(errors.ImportNotFound, pos, "import %q: no DocumentLoader configured", path)
	}
	tree, err := p.loader.Load(abs)
	if err != nil {
		return nil, "", "", errors.Newf(errors.ImportNotFound, pos, "import %q: %v", abs, err)
	}

	newBaseDir := filepath.Dir(abs)
	node, err := compile.Compile(tree, compile.Options{BaseDir: newBaseDir})
	if err != nil {
		return nil, "", "", err
	}
	return node, newBaseDir, abs, nil
}

// invoke resolves symbol to a Callable and calls it with args, as both
// CallNode and ModelNode evaluation need.
func (p *Processor) invoke(symbol string, args value.Tree, isModel bool, pos token.Position) (value.Tree, error) {
	if p.resolver == nil {
		return value.Tree{}, errors.Newf(errors.SymbolResolutionFailed, pos, "call %q: no SymbolResolver configured", symbol)
	}
	callable, err := p.resolver.Resolve(symbol)
	if err != nil {
		return value.Tree{}, errors.Newf(errors.SymbolResolutionFailed, pos, "resolving %q: %v", symbol, err)
	}
	if isModel && !callable.IsModel() {
		return value.Tree{}, errors.Newf(errors.NotAModel, pos, "%q is not a structured-data-class constructor", symbol)
	}
	argMap := map[string]value.Tree{}
	if entries, ok := args.AsEntries(); ok {
		for _, e := range entries {
			argMap[e.Key] = e.Value
		}
	}
	result, err := callable.Call(argMap)
	if err != nil {
		return value.Tree{}, errors.Newf(errors.CallFailed, pos, "calling %q: %v", symbol, err)
	}
	return result, nil
}

// resolveIterable looks n.Iterable up in ctx, failing with TypeMismatch if
// the id is absent or not a sequence.
func (p *Processor) resolveIterable(n *ast.ForNode, ctx value.Tree) ([]value.Tree, error) {
	v, ok := value.Lookup(ctx, n.Iterable)
	if !ok {
		return nil, errors.Newf(errors.TypeMismatch, n.Pos(), "$for: %q is not bound in the context", n.Iterable)
	}
	items, ok := v.AsSeq()
	if !ok {
		return nil, errors.Newf(errors.TypeMismatch, n.Pos(), "$for: %q is not a sequence", n.Iterable)
	}
	return items, nil
}

// findFrame locates a loop frame by id, innermost match first. An empty
// ref means "the innermost frame".
func (p *Processor) findFrame(ref string) (*frame, bool) {
	if len(p.loopStack) == 0 {
		return nil, false
	}
	if ref == "" {
		return p.loopStack[len(p.loopStack)-1], true
	}
	for i := len(p.loopStack) - 1; i >= 0; i-- {
		if p.loopStack[i].id == ref {
			return p.loopStack[i], true
		}
	}
	return nil, false
}

func (p *Processor) resolveItem(ref string, pos token.Position) (value.Tree, error) {
	loopID, subPath := splitRef(ref)
	f, ok := p.findFrame(loopID)
	if !ok {
		return value.Tree{}, errors.Newf(errors.UnknownLoopRef, pos, "$item: unknown loop reference %q", ref)
	}
	item := f.items[f.index]
	if subPath == "" {
		return item, nil
	}
	v, ok := value.Lookup(item, subPath)
	if !ok {
		return value.Tree{}, errors.Newf(errors.UnknownLoopRef, pos, "$item: %q has no path %q", ref, subPath)
	}
	return v, nil
}

func (p *Processor) resolveIndex(ref string, pos token.Position) (value.Tree, error) {
	f, ok := p.findFrame(ref)
	if !ok {
		return value.Tree{}, errors.Newf(errors.UnknownLoopRef, pos, "$index: unknown loop reference %q", ref)
	}
	return value.IntV(int64(f.index)), nil
}

// splitRef splits an ItemNode ref ("x.sub.path") into the loop id
// component and the remaining dotted sub-path: if the first component
// matches a known loop id, the rest (if any) descends into that loop's
// current item. A bare ref with no dot is entirely the loop id and
// resolves to the whole current item.
func splitRef(ref string) (loopID, subPath string) {
	if ref == "" {
		return "", ""
	}
	parts := value.SplitPath(ref)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], value.JoinPath(parts[1:]...)
}
