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

// Package external declares the two narrow contracts the processor depends
// on but does not implement: a DocumentLoader that resolves an $import
// path to a tree, and a SymbolResolver that resolves a $call or $model
// symbol string to an invocable Callable. Markup codecs, merge helpers,
// and file-system conveniences live outside this module entirely;
// concrete implementations of these two interfaces (e.g. package loader)
// are the only place such collaborators attach.
package external

import "github.com/choixe-lang/choixe/value"

// DocumentLoader loads a named, absolute path into a RawTree.
type DocumentLoader interface {
	Load(absolutePath string) (value.Tree, error)
}

// Callable is a resolved, invocable symbol. args are the $call/$model
// keyword arguments, already evaluated to RawTree values.
type Callable interface {
	Call(args map[string]value.Tree) (value.Tree, error)
	// IsModel reports whether this symbol satisfies the structured-data-
	// class constructor contract $model requires: a from-mapping
	// constructor, as opposed to a plain callable.
	IsModel() bool
}

// SymbolResolver resolves a textual symbol — in file-path form
// ("file.ext:name") or dotted module-path form ("pkg.sub.name") — to a
// Callable.
type SymbolResolver interface {
	Resolve(symbol string) (Callable, error)
}

// CallableFunc adapts a plain function to the Callable interface, for
// SymbolResolver implementations backed by a registration table rather
// than genuine dynamic loading: a map from name to callable suffices when
// there is no runtime module loader to hook into.
type CallableFunc struct {
	Fn      func(args map[string]value.Tree) (value.Tree, error)
	Model bool
}

func (f CallableFunc) Call(args map[string]value.Tree) (value.Tree, error) { return f.Fn(args) }
func (f CallableFunc) IsModel() bool                                      { return f.Model }

// MapResolver is a SymbolResolver backed by a static map, the simplest
// possible implementation of the registration-table idea above.
type MapResolver map[string]Callable

func (m MapResolver) Resolve(symbol string) (Callable, error) {
	c, ok := m[symbol]
	if !ok {
		return nil, &ResolveError{Symbol: symbol}
	}
	return c, nil
}

// ResolveError reports that a SymbolResolver had no entry for a symbol.
type ResolveError struct{ Symbol string }

func (e *ResolveError) Error() string { return "unresolved symbol: " + e.Symbol }

// LoadError reports that a DocumentLoader could not load a path.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }
