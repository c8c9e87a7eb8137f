// Copyright 2018 The CUE Authors
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

// Package errors defines the error types shared by every Choixe package:
// the lexer, the directive parser, the tree-to-AST compiler, the processor,
// and the inspector. All of them report errors through the Error interface
// defined here so that a caller can always recover a source Position and a
// dotted access Path regardless of which stage raised the error.
package errors

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/choixe-lang/choixe/token"
)

// Kind identifies which failure category an Error belongs to.
type Kind string

const (
	// Compile-time kinds.
	UnsupportedNesting  Kind = "UnsupportedNesting"
	UnterminatedCall    Kind = "UnterminatedCall"
	BadIdentifier       Kind = "BadIdentifier"
	BadArgumentSyntax   Kind = "BadArgumentSyntax"
	UnknownDirective    Kind = "UnknownDirective"
	BadDirectiveForm    Kind = "BadDirectiveForm"
	BadArgumentSchema   Kind = "BadArgumentSchema"
	MixedSpecialKeys    Kind = "MixedSpecialKeys"

	// Runtime kinds.
	UnresolvedVariable    Kind = "UnresolvedVariable"
	UnresolvedEnvVariable Kind = "UnresolvedEnvVariable"
	TypeMismatch          Kind = "TypeMismatch"
	ImportCycle           Kind = "ImportCycle"
	ImportNotFound        Kind = "ImportNotFound"
	SymbolResolutionFailed Kind = "SymbolResolutionFailed"
	CallFailed            Kind = "CallFailed"
	NotAModel             Kind = "NotAModel"
	UnknownLoopRef        Kind = "UnknownLoopRef"
	EmptyIterable         Kind = "EmptyIterable"
	DuplicateKey          Kind = "DuplicateKey"
)

// Message implements the error interface as well as Msg, to allow the
// format string and its arguments to be recovered separately from the
// rendered text (mirrors cue/errors.Message).
type Message struct {
	format string
	args   []interface{}
}

// NewMessagef creates a Message for human consumption.
func NewMessagef(format string, args ...interface{}) Message {
	return Message{format: format, args: args}
}

func (m *Message) Msg() (string, []interface{}) { return m.format, m.args }

func (m *Message) Error() string { return fmt.Sprintf(m.format, m.args...) }

// Error is the common interface satisfied by every Choixe error.
type Error interface {
	error
	Kind() Kind
	Position() token.Position
	Path() []string
	Msg() (string, []interface{})
}

// posError is the concrete Error implementation produced by Newf/Wrapf.
type posError struct {
	Message
	kind Kind
	pos  token.Position
	path []string
}

var _ Error = (*posError)(nil)

func (e *posError) Kind() Kind              { return e.kind }
func (e *posError) Position() token.Position { return e.pos }
func (e *posError) Path() []string          { return e.path }

func (e *posError) Error() string {
	msg := e.Message.Error()
	if e.pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.pos, msg)
	}
	return msg
}

// Newf creates an Error of the given kind at the given position.
func Newf(kind Kind, pos token.Position, format string, args ...interface{}) Error {
	return &posError{
		Message: NewMessagef(format, args...),
		kind:    kind,
		pos:     pos,
		path:    splitPath(pos.Path),
	}
}

// Wrapf is like Newf but keeps err reachable through Unwrap, matching the
// wrap-don't-discard discipline of cue/errors.Wrap.
func Wrapf(err error, kind Kind, pos token.Position, format string, args ...interface{}) Error {
	e := Newf(kind, pos, format, args...).(*posError)
	return &wrapped{e, err}
}

type wrapped struct {
	*posError
	cause error
}

func (e *wrapped) Unwrap() error { return e.cause }

func (e *wrapped) Error() string {
	if e.cause == nil {
		return e.posError.Error()
	}
	return fmt.Sprintf("%s: %s", e.posError.Error(), e.cause)
}

func splitPath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, ".")
}

// List accumulates Errors so that several can be reported together
// (mirrors cue/errors.list / errors.Errors). compile does not use it: it
// returns the first error it finds.
type List []Error

func (l *List) AddNewf(kind Kind, pos token.Position, format string, args ...interface{}) {
	*l = append(*l, Newf(kind, pos, format, args...))
}

func (l *List) Add(err Error) { *l = append(*l, err) }

// Err returns l as an error, or nil if l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", msgs[0], len(msgs)-1)
}

// Sort orders a List by Position.Path for deterministic, reproducible
// diagnostics output.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Position().Path < l[j].Position().Path
	})
}

// Print writes every error in err (a single Error or a List) to w, one per
// line, in the style of cue/errors.Print.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	if l, ok := err.(List); ok {
		for _, e := range l {
			fmt.Fprintln(w, e.Error())
		}
		return
	}
	fmt.Fprintln(w, err.Error())
}

// As reports whether err, or an error it wraps, is an Error of kind k.
func As(err error, k Kind) (Error, bool) {
	for err != nil {
		if e, ok := err.(Error); ok && e.Kind() == k {
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return nil, false
}
