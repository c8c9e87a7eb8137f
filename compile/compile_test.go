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

package compile

import (
	"testing"

	"github.com/choixe-lang/choixe/ast"
	"github.com/choixe-lang/choixe/errors"
	"github.com/choixe-lang/choixe/value"
)

func TestCompileLiteral(t *testing.T) {
	n, err := Compile(value.IntV(42), Options{})
	if err != nil {
		t.Fatal(err)
	}
	lit, ok := n.(*ast.LitNode)
	if !ok {
		t.Fatalf("got %T, want *ast.LitNode", n)
	}
	if i, _ := lit.Value.AsInt(); i != 42 {
		t.Errorf("value = %d, want 42", i)
	}
}

func TestCompilePlainString(t *testing.T) {
	n, err := Compile(value.StringV("hello"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	lit, ok := n.(*ast.LitNode)
	if !ok {
		t.Fatalf("got %T, want *ast.LitNode", n)
	}
	if s, _ := lit.Value.AsString(); s != "hello" {
		t.Errorf("value = %q, want hello", s)
	}
}

func TestCompileCompactVar(t *testing.T) {
	n, err := Compile(value.StringV("$var(a.b)"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	v, ok := n.(*ast.VarNode)
	if !ok {
		t.Fatalf("got %T, want *ast.VarNode", n)
	}
	if v.ID != "a.b" || v.Default != nil || v.Env {
		t.Errorf("got %+v", v)
	}
}

func TestCompileVarWithDefaultAndEnv(t *testing.T) {
	n, err := Compile(value.StringV(`$var(HOME, default="/tmp", env=true)`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	v := n.(*ast.VarNode)
	if v.ID != "HOME" || !v.Env {
		t.Fatalf("got %+v", v)
	}
	def, ok := v.Default.(*ast.LitNode)
	if !ok {
		t.Fatal("Default should be a LitNode")
	}
	if s, _ := def.Value.AsString(); s != "/tmp" {
		t.Errorf("default = %q", s)
	}
}

func TestCompileBundleOfDirectiveAndPlain(t *testing.T) {
	n, err := Compile(value.StringV(`prefix-$var(x)-suffix`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, ok := n.(*ast.BundleNode)
	if !ok {
		t.Fatalf("got %T, want *ast.BundleNode", n)
	}
	if len(b.Parts) != 3 {
		t.Fatalf("got %d parts, want 3: %+v", len(b.Parts), b.Parts)
	}
}

func TestCompileItemCompactForm(t *testing.T) {
	n, err := Compile(value.StringV("$item"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	it, ok := n.(*ast.ItemNode)
	if !ok || it.Ref != "" {
		t.Fatalf("got %+v", n)
	}
}

func TestCompileVarCompactFormRejected(t *testing.T) {
	_, err := Compile(value.StringV("$var"), Options{})
	if err == nil {
		t.Fatal("expected an error: var has no compact form")
	}
	e := err.(errors.Error)
	if e.Kind() != errors.BadDirectiveForm {
		t.Errorf("kind = %v, want BadDirectiveForm", e.Kind())
	}
}

func TestCompileMapWithDirectiveKey(t *testing.T) {
	tree := value.MapV(
		value.Entry{Key: "name", Value: value.StringV("$var(who)")},
		value.Entry{Key: "count", Value: value.IntV(3)},
	)
	n, err := Compile(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	m, ok := n.(*ast.MapNode)
	if !ok || len(m.Entries) != 2 {
		t.Fatalf("got %T %+v", n, n)
	}
	if _, ok := m.Entries[0].Value.(*ast.VarNode); !ok {
		t.Errorf("entry 0 value = %T, want *ast.VarNode", m.Entries[0].Value)
	}
}

func TestCompileSeq(t *testing.T) {
	tree := value.SeqV(value.IntV(1), value.StringV("$item"))
	n, err := Compile(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	s, ok := n.(*ast.SeqNode)
	if !ok || len(s.Items) != 2 {
		t.Fatalf("got %T", n)
	}
}

func TestCompileExtendedFormVar(t *testing.T) {
	tree := value.MapV(
		value.Entry{Key: "$directive", Value: value.StringV("var")},
		value.Entry{Key: "$args", Value: value.SeqV(value.StringV("a.b"))},
	)
	n, err := Compile(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	v, ok := n.(*ast.VarNode)
	if !ok || v.ID != "a.b" {
		t.Fatalf("got %+v", n)
	}
}

func TestCompileSpecialFormCall(t *testing.T) {
	tree := value.MapV(
		value.Entry{Key: "$call", Value: value.StringV("mymodule.myfunc")},
		value.Entry{Key: "$args", Value: value.MapV(value.Entry{Key: "x", Value: value.IntV(1)})},
	)
	n, err := Compile(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	c, ok := n.(*ast.CallNode)
	if !ok {
		t.Fatalf("got %T, want *ast.CallNode", n)
	}
	sym, ok := c.Symbol.(*ast.LitNode)
	if !ok {
		t.Fatal("Symbol should be a literal")
	}
	if s, _ := sym.Value.AsString(); s != "mymodule.myfunc" {
		t.Errorf("symbol = %q", s)
	}
	if len(c.Args.Entries) != 1 {
		t.Errorf("args entries = %d, want 1", len(c.Args.Entries))
	}
}

func TestCompileSpecialFormMixedKeysRejected(t *testing.T) {
	tree := value.MapV(
		value.Entry{Key: "$call", Value: value.StringV("f")},
		value.Entry{Key: "other", Value: value.IntV(1)},
	)
	_, err := Compile(tree, Options{})
	if err == nil {
		t.Fatal("expected an error")
	}
	e := err.(errors.Error)
	if e.Kind() != errors.MixedSpecialKeys {
		t.Errorf("kind = %v, want MixedSpecialKeys", e.Kind())
	}
}

func TestCompileForNode(t *testing.T) {
	tree := value.MapV(
		value.Entry{Key: "$for(things, t)", Value: value.StringV("$item(t)")},
	)
	n, err := Compile(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	f, ok := n.(*ast.ForNode)
	if !ok {
		t.Fatalf("got %T, want *ast.ForNode", n)
	}
	if f.Iterable != "things" || f.LoopID != "t" || f.AutoID {
		t.Errorf("got %+v", f)
	}
	if f.Mode != ast.ModeString {
		t.Errorf("Mode = %v, want ModeString", f.Mode)
	}
}

func TestCompileForNodeAutoID(t *testing.T) {
	tree := value.MapV(
		value.Entry{Key: "$for(things)", Value: value.MapV(value.Entry{Key: "k", Value: value.IntV(1)})},
	)
	n, err := Compile(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	f := n.(*ast.ForNode)
	if !f.AutoID || f.LoopID == "" {
		t.Errorf("expected an auto-generated loop id, got %+v", f)
	}
	if f.Mode != ast.ModeMap {
		t.Errorf("Mode = %v, want ModeMap", f.Mode)
	}
}

func TestCompileImportLiteralPath(t *testing.T) {
	n, err := Compile(value.StringV(`$import("other.yaml")`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	imp, ok := n.(*ast.ImportNode)
	if !ok {
		t.Fatalf("got %T, want *ast.ImportNode", n)
	}
	lit := imp.Path.(*ast.LitNode)
	if s, _ := lit.Value.AsString(); s != "other.yaml" {
		t.Errorf("path = %q", s)
	}
}

func TestCompileSweepOptions(t *testing.T) {
	n, err := Compile(value.StringV(`$sweep(a, b, 3)`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	s, ok := n.(*ast.SweepNode)
	if !ok || len(s.Options) != 3 {
		t.Fatalf("got %+v", n)
	}
}
