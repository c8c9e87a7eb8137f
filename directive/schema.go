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

package directive

import (
	"fmt"

	"github.com/choixe-lang/choixe/errors"
	"github.com/choixe-lang/choixe/token"
)

// Arity describes how many positional arguments a directive accepts.
type Arity struct {
	Min      int
	Max      int  // -1 means unbounded (e.g. sweep's variadic options)
	Variadic bool // true for directives like sweep whose positionals are homogeneous
}

// KwargSchema describes one allowed keyword argument.
type KwargSchema struct {
	Required bool
}

// Schema is the per-directive argument contract: how many positional
// arguments it takes and which keyword arguments it accepts.
type Schema struct {
	Arity  Arity
	Kwargs map[string]KwargSchema
	// CompactAllowed permits the "$name" form with no parentheses at all.
	// Only item and index accept this.
	CompactAllowed bool
}

// Schemas is the directive table for every call-form directive. call,
// model, and for are not listed: they only ever appear in the special map
// form and are validated by the compiler directly, not by this
// raw-argument parser.
var Schemas = map[string]Schema{
	"var": {
		Arity:  Arity{Min: 1, Max: 1},
		Kwargs: map[string]KwargSchema{"default": {}, "env": {}},
	},
	"import": {
		Arity: Arity{Min: 1, Max: 1},
	},
	"sweep": {
		Arity: Arity{Min: 1, Max: -1, Variadic: true},
	},
	"item": {
		Arity:          Arity{Min: 0, Max: 1},
		CompactAllowed: true,
	},
	"index": {
		Arity:          Arity{Min: 0, Max: 1},
		CompactAllowed: true,
	},
}

// Validate enforces a Call's arity and keyword names against its Schema.
// Arity and keyword-name checks happen here, after raw parsing; an
// unknown kwarg always fails.
func Validate(call *Call, pos token.Position) error {
	schema, ok := Schemas[call.Name]
	if !ok {
		return errors.Newf(errors.UnknownDirective, pos, "unknown directive %q", call.Name)
	}

	n := len(call.Args)
	if n < schema.Arity.Min || (schema.Arity.Max >= 0 && n > schema.Arity.Max) {
		return errors.Newf(errors.BadArgumentSchema, pos,
			"directive %q: expected %s, got %d positional argument(s)",
			call.Name, arityText(schema.Arity), n)
	}

	for _, kw := range call.KwargOrder {
		if _, ok := schema.Kwargs[kw]; !ok {
			return errors.Newf(errors.BadArgumentSchema, pos,
				"directive %q: unknown keyword argument %q", call.Name, kw)
		}
	}
	for kw := range call.Kwargs {
		if _, ok := schema.Kwargs[kw]; !ok {
			return errors.Newf(errors.BadArgumentSchema, pos,
				"directive %q: unknown keyword argument %q", call.Name, kw)
		}
	}
	return nil
}

func arityText(a Arity) string {
	switch {
	case a.Variadic:
		return fmt.Sprintf("at least %d argument(s)", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("exactly %d argument(s)", a.Min)
	default:
		return fmt.Sprintf("between %d and %d argument(s)", a.Min, a.Max)
	}
}
