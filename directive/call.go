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

// Package directive turns the raw argument text of a lexed Directive token
// into a structured Call{name, args, kwargs}, enforcing each directive's
// positional/keyword schema.
package directive

import "github.com/choixe-lang/choixe/value"

// ArgKind distinguishes the two argument shapes a directive call accepts:
// a literal scalar, or a dotted identifier to be resolved at eval time.
type ArgKind int

const (
	ArgLiteral ArgKind = iota
	ArgIdent
)

// Argument is one parsed, unvalidated directive argument.
type Argument struct {
	Kind    ArgKind
	Literal value.Tree // valid when Kind == ArgLiteral
	Ident   string     // valid when Kind == ArgIdent; a dotted identifier
}

// Call is a parsed directive invocation: a name plus its positional and
// keyword arguments, still raw (schema validation happens separately via
// Validate so that the parser itself stays schema-agnostic, matching how
// cue/parser separates lexical form from later semantic checks).
type Call struct {
	Name   string
	Args   []Argument
	Kwargs map[string]Argument
	// KwargOrder preserves the order keyword arguments were written in,
	// for deterministic error messages; it carries no semantic weight.
	KwargOrder []string
}
