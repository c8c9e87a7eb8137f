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

package inspect

import (
	"testing"
	"time"

	"github.com/choixe-lang/choixe/compile"
	"github.com/choixe-lang/choixe/value"
)

// fakeLoader resolves a fixed set of in-memory trees by absolute path, so
// import-following can be tested without touching the filesystem.
type fakeLoader map[string]value.Tree

func (f fakeLoader) Load(path string) (value.Tree, error) {
	t, ok := f[path]
	if !ok {
		return value.Tree{}, errNotFound{path}
	}
	return t, nil
}

type errNotFound struct{ path string }

func (e errNotFound) Error() string { return "not found: " + e.path }

func TestInspectPureDataIsNotProcessed(t *testing.T) {
	tree := value.MapV(value.Entry{Key: "a", Value: value.IntV(1)})
	node, err := compile.Compile(tree, compile.Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := Inspect(node, Options{})
	if got.Processed {
		t.Error("a tree with no directives should not be Processed")
	}
}

func TestInspectRecordsVariableDefault(t *testing.T) {
	tree := value.MapV(value.Entry{Key: "a", Value: value.StringV(`$var(x.y, default="z")`)})
	node, err := compile.Compile(tree, compile.Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := Inspect(node, Options{})
	if !got.Processed {
		t.Error("Processed should be true")
	}
	v, ok := value.Lookup(got.Variables, "x.y")
	if !ok {
		t.Fatal("Variables should contain x.y")
	}
	if s, _ := v.AsString(); s != "z" {
		t.Errorf("default recorded = %q, want z", s)
	}
}

func TestInspectRecordsEnvSeparatelyFromVariables(t *testing.T) {
	tree := value.StringV(`$var(HOME, env=true)`)
	node, err := compile.Compile(tree, compile.Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := Inspect(node, Options{})
	if _, ok := value.Lookup(got.Environ, "HOME"); !ok {
		t.Error("Environ should contain HOME")
	}
	if _, ok := value.Lookup(got.Variables, "HOME"); ok {
		t.Error("Variables should not contain an env-sourced reference")
	}
}

func TestInspectRecordsLiteralSymbols(t *testing.T) {
	tree := value.MapV(
		value.Entry{Key: "$call", Value: value.StringV("pkg.fn")},
	)
	node, err := compile.Compile(tree, compile.Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := Inspect(node, Options{})
	if len(got.Symbols) != 1 || got.Symbols[0] != "pkg.fn" {
		t.Errorf("Symbols = %v, want [pkg.fn]", got.Symbols)
	}
}

func TestInspectForNodeRecordsIterableAsVariable(t *testing.T) {
	tree := value.MapV(
		value.Entry{Key: "$for(rows, r)", Value: value.StringV("$item(r)")},
	)
	node, err := compile.Compile(tree, compile.Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := Inspect(node, Options{})
	v, ok := value.Lookup(got.Variables, "rows")
	if !ok {
		t.Fatal("Variables should contain rows")
	}
	if v.Kind() != value.Seq {
		t.Errorf("rows placeholder kind = %v, want Seq", v.Kind())
	}
}

func TestInspectStaticImportIsRecordedAndFollowed(t *testing.T) {
	inner := value.MapV(value.Entry{Key: "b", Value: value.StringV("$var(inner.var)")})
	loader := fakeLoader{"/root/other.yaml": inner}

	tree := value.StringV(`$import("other.yaml")`)
	node, err := compile.Compile(tree, compile.Options{BaseDir: "/root"})
	if err != nil {
		t.Fatal(err)
	}
	got := Inspect(node, Options{Loader: loader, BaseDir: "/root"})

	if len(got.Imports) != 1 || got.Imports[0] != "/root/other.yaml" {
		t.Errorf("Imports = %v, want [/root/other.yaml]", got.Imports)
	}
	if got.DynamicImports != 0 {
		t.Errorf("DynamicImports = %d, want 0", got.DynamicImports)
	}
	if _, ok := value.Lookup(got.Variables, "inner.var"); !ok {
		t.Error("Inspect should recurse into the imported file and record its variables")
	}
}

func TestInspectDynamicImportIsCountedNotFollowed(t *testing.T) {
	tree := value.MapV(
		value.Entry{Key: "$directive", Value: value.StringV("import")},
		value.Entry{Key: "$args", Value: value.SeqV(value.StringV("$var(which)"))},
	)
	node, err := compile.Compile(tree, compile.Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := Inspect(node, Options{})
	if got.DynamicImports != 1 {
		t.Errorf("DynamicImports = %d, want 1", got.DynamicImports)
	}
	if len(got.Imports) != 0 {
		t.Errorf("Imports = %v, want empty", got.Imports)
	}
}

func TestInspectImportCycleDoesNotLoopForever(t *testing.T) {
	a := value.StringV(`$import("b.yaml")`)
	b := value.StringV(`$import("a.yaml")`)
	loader := fakeLoader{
		"/root/a.yaml": a,
		"/root/b.yaml": b,
	}
	node, err := compile.Compile(b, compile.Options{BaseDir: "/root"})
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan Result, 1)
	go func() {
		done <- Inspect(node, Options{Loader: loader, BaseDir: "/root"})
	}()
	select {
	case got := <-done:
		if len(got.Imports) == 0 {
			t.Error("expected at least one recorded import before the cycle was caught")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Inspect did not return: import cycle was not caught")
	}
}
