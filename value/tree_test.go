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

package value

import "testing"

func TestText(t *testing.T) {
	cases := []struct {
		name string
		v    Tree
		want string
	}{
		{"null", NullV(), "null"},
		{"true", BoolV(true), "true"},
		{"false", BoolV(false), "false"},
		{"int", IntV(42), "42"},
		{"negative int", IntV(-7), "-7"},
		{"float", FloatV(1.5), "1.5"},
		{"float integral", FloatV(2), "2"},
		{"string", StringV("hi"), "hi"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Text(); got != c.want {
				t.Errorf("Text() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestWithEntryAppendsAndOverwrites(t *testing.T) {
	m := MapV(Entry{Key: "a", Value: IntV(1)})
	m2 := m.WithEntry("b", IntV(2))
	if m2.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m2.Len())
	}
	m3 := m2.WithEntry("a", IntV(99))
	v, ok := m3.Get("a")
	if !ok {
		t.Fatal("Get(a) missing")
	}
	i, _ := v.AsInt()
	if i != 99 {
		t.Errorf("a = %d, want 99", i)
	}
	if m3.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (overwrite must not grow)", m3.Len())
	}
	// original untouched
	if _, ok := m.Get("b"); ok {
		t.Error("original map mutated by WithEntry")
	}
}

func TestWithAppend(t *testing.T) {
	s := SeqV(IntV(1))
	s2 := s.WithAppend(IntV(2))
	if s2.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s2.Len())
	}
	if s.Len() != 1 {
		t.Error("original seq mutated by WithAppend")
	}
}

func TestEqual(t *testing.T) {
	a := MapV(Entry{Key: "x", Value: SeqV(IntV(1), IntV(2))})
	b := MapV(Entry{Key: "x", Value: SeqV(IntV(1), IntV(2))})
	c := MapV(Entry{Key: "x", Value: SeqV(IntV(1), IntV(3))})
	if !Equal(a, b) {
		t.Error("a and b should be equal")
	}
	if Equal(a, c) {
		t.Error("a and c should differ")
	}
	if Equal(OpaqueV(1), OpaqueV(1)) {
		t.Error("Opaque values are never equal")
	}
}

func TestGetAt(t *testing.T) {
	m := MapV(Entry{Key: "k", Value: StringV("v")})
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) should fail")
	}
	s := SeqV(StringV("a"), StringV("b"))
	if _, ok := s.At(5); ok {
		t.Error("At(5) should fail out of range")
	}
	v, ok := s.At(1)
	if !ok {
		t.Fatal("At(1) should succeed")
	}
	if str, _ := v.AsString(); str != "b" {
		t.Errorf("At(1) = %q, want b", str)
	}
}
