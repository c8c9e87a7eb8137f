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

// Package compile implements the tree-to-AST compiler: it walks a
// value.Tree (a RawTree) and produces the ast.Node it denotes, recognizing
// the compact/call directive forms (via lexer+directive), the extended
// form ({$directive, $args, $kwargs}), and the special form ({$call,
// $model, $for(...)}).
package compile

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/choixe-lang/choixe/ast"
	"github.com/choixe-lang/choixe/directive"
	"github.com/choixe-lang/choixe/errors"
	"github.com/choixe-lang/choixe/lexer"
	"github.com/choixe-lang/choixe/token"
	"github.com/choixe-lang/choixe/value"
)

// Options configures a single Compile invocation.
type Options struct {
	// BaseDir is the directory of the file the tree came from. It does not
	// affect the produced AST: ImportNodes carry no directory, and $import
	// paths are resolved at evaluation time against process.Options.BaseDir
	// (or, inside an imported file, that file's own directory).
	BaseDir string
}

// Compile compiles tree into an AST.
func Compile(tree value.Tree, opts Options) (ast.Node, error) {
	c := &compiler{baseDir: opts.BaseDir}
	return c.compileNode(tree, "")
}

type compiler struct {
	baseDir string
}

func (c *compiler) pos(path string) token.Position {
	return token.Position{Path: path}
}

func (c *compiler) compileNode(tree value.Tree, path string) (ast.Node, error) {
	switch tree.Kind() {
	case value.String:
		s, _ := tree.AsString()
		return c.compileString(s, path)
	case value.Map:
		return c.compileMap(tree, path)
	case value.Seq:
		return c.compileSeq(tree, path)
	default:
		return &ast.LitNode{Position: c.pos(path), Value: tree}, nil
	}
}

func (c *compiler) compileString(s, path string) (ast.Node, error) {
	toks, err := lexer.Scan(s, path)
	if err != nil {
		return nil, err
	}
	if len(toks) == 1 && toks[0].Kind == lexer.Plain {
		return &ast.LitNode{Position: c.pos(path), Value: value.StringV(toks[0].Text)}, nil
	}
	parts := make([]ast.Node, len(toks))
	for i, t := range toks {
		n, err := c.compileToken(t, path)
		if err != nil {
			return nil, err
		}
		parts[i] = n
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return &ast.BundleNode{Position: c.pos(path), Parts: parts}, nil
}

func (c *compiler) compileToken(t lexer.Token, path string) (ast.Node, error) {
	if t.Kind == lexer.Plain {
		return &ast.LitNode{Position: c.pos(path), Value: value.StringV(t.Text)}, nil
	}
	pos := token.Position{Path: path, Source: t.Text, Offset: t.Offset}
	schema, ok := directive.Schemas[t.Text]
	if !ok {
		return nil, errors.Newf(errors.UnknownDirective, pos, "unknown directive %q", t.Text)
	}
	if !t.ArgHasParens {
		if !schema.CompactAllowed {
			return nil, errors.Newf(errors.BadDirectiveForm, pos,
				"directive %q requires parentheses", t.Text)
		}
		return c.buildCallForm(&directive.Call{Name: t.Text, Kwargs: map[string]directive.Argument{}}, pos)
	}
	call, err := directive.Parse(t.Text, t.ArgText, pos)
	if err != nil {
		return nil, err
	}
	if err := directive.Validate(call, pos); err != nil {
		return nil, err
	}
	return c.buildCallForm(call, pos)
}

// buildCallForm dispatches a parsed, schema-validated Call (produced from
// either the compact or the call directive form) to its AST constructor.
func (c *compiler) buildCallForm(call *directive.Call, pos token.Position) (ast.Node, error) {
	switch call.Name {
	case "var":
		id, err := mustIdent(call.Args[0], pos, "var")
		if err != nil {
			return nil, err
		}
		var def ast.Node
		if lit, ok := call.Kwargs["default"]; ok {
			if lit.Kind != directive.ArgLiteral {
				return nil, errors.Newf(errors.BadArgumentSchema, pos, "var: default must be a literal")
			}
			def = &ast.LitNode{Position: pos, Value: lit.Literal}
		}
		env := false
		if e, ok := call.Kwargs["env"]; ok {
			b, isBool := e.Literal.AsBool()
			if e.Kind != directive.ArgLiteral || !isBool {
				return nil, errors.Newf(errors.BadArgumentSchema, pos, "var: env must be a boolean literal")
			}
			env = b
		}
		return &ast.VarNode{Position: pos, ID: id, Default: def, Env: env}, nil

	case "import":
		if call.Args[0].Kind != directive.ArgLiteral {
			return nil, errors.Newf(errors.BadArgumentSchema, pos, "import: path must be a literal string")
		}
		s, ok := call.Args[0].Literal.AsString()
		if !ok {
			return nil, errors.Newf(errors.TypeMismatch, pos, "import: path must be a string literal")
		}
		return &ast.ImportNode{Position: pos, Path: &ast.LitNode{Position: pos, Value: value.StringV(s)}}, nil

	case "sweep":
		opts := make([]ast.Node, len(call.Args))
		for i, a := range call.Args {
			opts[i] = argToNode(a, pos)
		}
		return &ast.SweepNode{Position: pos, Options: opts}, nil

	case "item":
		ref := ""
		if len(call.Args) == 1 {
			r, err := mustIdent(call.Args[0], pos, "item")
			if err != nil {
				return nil, err
			}
			ref = r
		}
		return &ast.ItemNode{Position: pos, Ref: ref}, nil

	case "index":
		ref := ""
		if len(call.Args) == 1 {
			r, err := mustIdent(call.Args[0], pos, "index")
			if err != nil {
				return nil, err
			}
			ref = r
		}
		return &ast.IndexNode{Position: pos, Ref: ref}, nil

	default:
		return nil, errors.Newf(errors.UnknownDirective, pos, "unknown directive %q", call.Name)
	}
}

func mustIdent(a directive.Argument, pos token.Position, directiveName string) (string, error) {
	if a.Kind != directive.ArgIdent {
		return "", errors.Newf(errors.BadArgumentSchema, pos,
			"%s: expected a dotted identifier argument", directiveName)
	}
	return a.Ident, nil
}

func argToNode(a directive.Argument, pos token.Position) ast.Node {
	if a.Kind == directive.ArgLiteral {
		return &ast.LitNode{Position: pos, Value: a.Literal}
	}
	// An Ident argument to $sweep is a plain identifier-shaped string
	// option (the argument grammar has no expression form): treat its
	// text as a literal string value, the same as an unquoted bareword.
	return &ast.LitNode{Position: pos, Value: value.StringV(a.Ident)}
}

var forKeyRe = regexp.MustCompile(`^\$for\(\s*([A-Za-z_][A-Za-z0-9_.]*)\s*(?:,\s*([A-Za-z_][A-Za-z0-9_]*)\s*)?\)$`)

func (c *compiler) compileMap(tree value.Tree, path string) (ast.Node, error) {
	entries, _ := tree.AsEntries()

	if isExtendedForm(entries) {
		return c.compileExtendedForm(entries, path)
	}

	if specialKey, ok := findSpecialKey(entries); ok {
		return c.compileSpecialForm(entries, specialKey, path)
	}

	out := make([]ast.MapEntry, 0, len(entries))
	for _, e := range entries {
		keyPath := childPath(path, e.Key)
		keyNode, err := c.compileString(e.Key, keyPath)
		if err != nil {
			return nil, err
		}
		valNode, err := c.compileNode(e.Value, keyPath)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.MapEntry{Key: keyNode, Value: valNode})
	}
	return &ast.MapNode{Position: c.pos(path), Entries: out}, nil
}

// childPath appends key to a dotted path, without leaving a leading dot
// when parent is the (empty) tree root.
func childPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func (c *compiler) compileSeq(tree value.Tree, path string) (ast.Node, error) {
	items, _ := tree.AsSeq()
	out := make([]ast.Node, len(items))
	for i, it := range items {
		n, err := c.compileNode(it, childPath(path, fmt.Sprintf("%d", i)))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return &ast.SeqNode{Position: c.pos(path), Items: out}, nil
}

func isExtendedForm(entries []value.Entry) bool {
	var hasDirective bool
	for _, e := range entries {
		switch e.Key {
		case "$directive", "$args", "$kwargs":
		default:
			return false
		}
		if e.Key == "$directive" {
			hasDirective = true
		}
	}
	return hasDirective
}

func findSpecialKey(entries []value.Entry) (string, bool) {
	count := 0
	var key string
	for _, e := range entries {
		if e.Key == "$call" || e.Key == "$model" || forKeyRe.MatchString(e.Key) {
			count++
			key = e.Key
		}
	}
	if count == 0 {
		return "", false
	}
	return key, true
}

// compileExtendedForm builds a directive AST node from {$directive, $args,
// $kwargs}, compiling $args/$kwargs sub-trees as full AST. This is the
// only place directive arguments may be arbitrarily nested.
func (c *compiler) compileExtendedForm(entries []value.Entry, path string) (ast.Node, error) {
	var nameTree, argsTree, kwargsTree value.Tree
	haveArgs, haveKwargs := false, false
	for _, e := range entries {
		switch e.Key {
		case "$directive":
			nameTree = e.Value
		case "$args":
			argsTree, haveArgs = e.Value, true
		case "$kwargs":
			kwargsTree, haveKwargs = e.Value, true
		}
	}
	name, ok := nameTree.AsString()
	if !ok {
		return nil, errors.Newf(errors.BadDirectiveForm, c.pos(path), "$directive must be a string")
	}
	pos := c.pos(path)

	var argNodes []ast.Node
	if haveArgs {
		items, ok := argsTree.AsSeq()
		if !ok {
			return nil, errors.Newf(errors.BadDirectiveForm, pos, "$args must be a sequence")
		}
		argNodes = make([]ast.Node, len(items))
		for i, it := range items {
			n, err := c.compileNode(it, fmt.Sprintf("%s.$args.%d", path, i))
			if err != nil {
				return nil, err
			}
			argNodes[i] = n
		}
	}
	kwargNodes := map[string]ast.Node{}
	if haveKwargs {
		kwEntries, ok := kwargsTree.AsEntries()
		if !ok {
			return nil, errors.Newf(errors.BadDirectiveForm, pos, "$kwargs must be a map")
		}
		for _, e := range kwEntries {
			n, err := c.compileNode(e.Value, fmt.Sprintf("%s.$kwargs.%s", path, e.Key))
			if err != nil {
				return nil, err
			}
			kwargNodes[e.Key] = n
		}
	}

	switch name {
	case "var":
		if len(argNodes) != 1 {
			return nil, errors.Newf(errors.BadArgumentSchema, pos, "var: expected exactly 1 positional argument")
		}
		id, err := nodeAsLiteralString(argNodes[0], pos, "var: id")
		if err != nil {
			return nil, err
		}
		var env bool
		if e, ok := kwargNodes["env"]; ok {
			lit, isLit := e.(*ast.LitNode)
			if !isLit {
				return nil, errors.Newf(errors.BadArgumentSchema, pos, "var: env must be a boolean literal")
			}
			b, isBool := lit.Value.AsBool()
			if !isBool {
				return nil, errors.Newf(errors.BadArgumentSchema, pos, "var: env must be a boolean literal")
			}
			env = b
		}
		return &ast.VarNode{Position: pos, ID: id, Default: kwargNodes["default"], Env: env}, nil

	case "import":
		if len(argNodes) != 1 {
			return nil, errors.Newf(errors.BadArgumentSchema, pos, "import: expected exactly 1 positional argument")
		}
		return &ast.ImportNode{Position: pos, Path: argNodes[0]}, nil

	case "sweep":
		if len(argNodes) < 1 {
			return nil, errors.Newf(errors.BadArgumentSchema, pos, "sweep: expected at least 1 option")
		}
		return &ast.SweepNode{Position: pos, Options: argNodes}, nil

	case "item":
		ref := ""
		if len(argNodes) == 1 {
			r, err := nodeAsLiteralString(argNodes[0], pos, "item: ref")
			if err != nil {
				return nil, err
			}
			ref = r
		}
		return &ast.ItemNode{Position: pos, Ref: ref}, nil

	case "index":
		ref := ""
		if len(argNodes) == 1 {
			r, err := nodeAsLiteralString(argNodes[0], pos, "index: ref")
			if err != nil {
				return nil, err
			}
			ref = r
		}
		return &ast.IndexNode{Position: pos, Ref: ref}, nil

	default:
		return nil, errors.Newf(errors.UnknownDirective, pos, "unknown directive %q", name)
	}
}

func nodeAsLiteralString(n ast.Node, pos token.Position, what string) (string, error) {
	lit, ok := n.(*ast.LitNode)
	if !ok {
		return "", errors.Newf(errors.BadArgumentSchema, pos, "%s must be a literal (statically known)", what)
	}
	s, ok := lit.Value.AsString()
	if !ok {
		return "", errors.Newf(errors.TypeMismatch, pos, "%s must be a string", what)
	}
	return s, nil
}

// compileSpecialForm builds $call/$model/$for(...) nodes. Exactly one
// special key is permitted per map; other keys are rejected.
func (c *compiler) compileSpecialForm(entries []value.Entry, specialKey, path string) (ast.Node, error) {
	pos := c.pos(path)
	var extra []string
	for _, e := range entries {
		if e.Key != specialKey && e.Key != "$args" {
			extra = append(extra, e.Key)
		}
	}
	if len(extra) > 0 {
		return nil, errors.Newf(errors.MixedSpecialKeys, pos,
			"map with special key %q must not have other keys, found %v", specialKey, extra)
	}

	switch {
	case specialKey == "$call" || specialKey == "$model":
		symTree, _ := get(entries, specialKey)
		symNode, err := c.compileNode(symTree, childPath(path, specialKey))
		if err != nil {
			return nil, err
		}
		argsTree, hasArgs := get(entries, "$args")
		var argsNode *ast.MapNode
		if hasArgs {
			n, err := c.compileNode(argsTree, childPath(path, "$args"))
			if err != nil {
				return nil, err
			}
			m, ok := n.(*ast.MapNode)
			if !ok {
				return nil, errors.Newf(errors.BadDirectiveForm, pos, "$args must be a map")
			}
			argsNode = m
		} else {
			argsNode = &ast.MapNode{Position: pos}
		}
		if specialKey == "$call" {
			return &ast.CallNode{Position: pos, Symbol: symNode, Args: argsNode}, nil
		}
		return &ast.ModelNode{Position: pos, Symbol: symNode, Args: argsNode}, nil

	default: // $for(ITER[, ID])
		m := forKeyRe.FindStringSubmatch(specialKey)
		iterable := m[1]
		loopID := m[2]
		autoID := loopID == ""
		if autoID {
			loopID = uuid.New().String()
		}
		bodyTree, _ := get(entries, specialKey)
		bodyPath := childPath(path, specialKey)
		bodyNode, err := c.compileNode(bodyTree, bodyPath)
		if err != nil {
			return nil, err
		}
		mode, err := bodyMode(bodyTree, bodyNode)
		if err != nil {
			return nil, err
		}
		return &ast.ForNode{
			Position: pos,
			Iterable: iterable,
			LoopID:   loopID,
			AutoID:   autoID,
			Body:     bodyNode,
			Mode:     mode,
		}, nil
	}
}

func bodyMode(rawBody value.Tree, bodyNode ast.Node) (ast.BodyMode, error) {
	switch rawBody.Kind() {
	case value.Map:
		return ast.ModeMap, nil
	case value.Seq:
		return ast.ModeSeq, nil
	case value.String:
		return ast.ModeString, nil
	default:
		// A non-string scalar body (e.g. 42) combines as text, like a
		// one-part string bundle. A string body, including a
		// directive-only one such as "$item(x)", takes the String case.
		if _, ok := bodyNode.(*ast.BundleNode); ok {
			return ast.ModeString, nil
		}
		return ast.ModeString, nil
	}
}

func get(entries []value.Entry, key string) (value.Tree, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return value.Tree{}, false
}
