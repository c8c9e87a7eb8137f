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
	"testing"

	"github.com/choixe-lang/choixe/compile"
	"github.com/choixe-lang/choixe/value"
)

// TestLocalSweepIsContainedToItsOwner verifies that a sweep nested inside
// one sequence item only multiplies that item's own alternatives, leaving a
// sibling item untouched.
func TestLocalSweepIsContainedToItsOwner(t *testing.T) {
	tree := value.SeqV(
		value.StringV("$sweep(1, 2)"),
		value.StringV("fixed"),
	)
	node, err := compile.Compile(tree, compile.Options{})
	if err != nil {
		t.Fatal(err)
	}
	alts, err := ProcessAll(node, value.MapV(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(alts) != 2 {
		t.Fatalf("got %d alternatives, want 2", len(alts))
	}
	for i, want := range []string{"1", "2"} {
		v, _ := alts[i].At(0)
		if v.Text() != want {
			t.Errorf("alt %d item 0 = %q, want %q", i, v.Text(), want)
		}
		fixed, _ := alts[i].At(1)
		if fixed.Text() != "fixed" {
			t.Errorf("alt %d item 1 = %q, want fixed", i, fixed.Text())
		}
	}
}

// TestForLoopMergeWithItemAndIndex mirrors a $for over a map body whose
// entries reference $item and $index, verifying entries accumulate via
// WithEntry across iterations.
func TestForLoopMergeWithItemAndIndex(t *testing.T) {
	tree := value.MapV(
		value.Entry{Key: "$for(rows, r)", Value: value.MapV(
			value.Entry{Key: "$item(r.k)", Value: value.StringV("$index")},
		)},
	)
	node, err := compile.Compile(tree, compile.Options{})
	if err != nil {
		t.Fatal(err)
	}
	ctx := value.MapV(
		value.Entry{Key: "rows", Value: value.SeqV(
			value.MapV(value.Entry{Key: "k", Value: value.StringV("first")}),
			value.MapV(value.Entry{Key: "k", Value: value.StringV("second")}),
		)},
	)
	got, err := Process(node, ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 2 {
		t.Fatalf("got %d entries, want 2: %+v", got.Len(), got)
	}
	v0, ok := got.Get("first")
	if !ok {
		t.Fatal("missing key 'first'")
	}
	if i, ok := v0.AsInt(); !ok || i != 0 {
		t.Errorf("first = %+v, want int 0", v0)
	}
	v1, _ := got.Get("second")
	if i, ok := v1.AsInt(); !ok || i != 1 {
		t.Errorf("second = %+v, want int 1", v1)
	}
}

func TestProcessAllForLoopBranches(t *testing.T) {
	tree := value.MapV(
		value.Entry{Key: "$for(items)", Value: value.StringV("$sweep(x, y)")},
	)
	node, err := compile.Compile(tree, compile.Options{})
	if err != nil {
		t.Fatal(err)
	}
	ctx := value.MapV(value.Entry{Key: "items", Value: value.SeqV(value.IntV(1), value.IntV(2))})
	alts, err := ProcessAll(node, ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// Two iterations, each independently choosing x or y: 2*2 = 4
	// concatenations.
	if len(alts) != 4 {
		t.Fatalf("got %d alternatives, want 4", len(alts))
	}
	seen := map[string]bool{}
	for _, a := range alts {
		seen[a.Text()] = true
	}
	for _, want := range []string{"xx", "xy", "yx", "yy"} {
		if !seen[want] {
			t.Errorf("missing combination %q among %v", want, seen)
		}
	}
}

func TestProcessAllNoSweepHasOneAlternative(t *testing.T) {
	tree := value.MapV(
		value.Entry{Key: "a", Value: value.IntV(1)},
		value.Entry{Key: "b", Value: value.StringV("plain")},
	)
	node, err := compile.Compile(tree, compile.Options{})
	if err != nil {
		t.Fatal(err)
	}
	alts, err := ProcessAll(node, value.MapV(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(alts) != 1 {
		t.Fatalf("got %d alternatives, want 1", len(alts))
	}
}
