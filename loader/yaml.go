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

// Package loader provides a reference external.DocumentLoader backed by
// YAML files, the way most of this ecosystem's config-driven tools read
// their input: a thin adapter from gopkg.in/yaml.v3's Node tree to
// value.Tree, kept here rather than in package value so that value stays
// free of any particular markup's dependency.
package loader

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/choixe-lang/choixe/value"
)

// YAMLLoader loads a RawTree from a YAML file on disk. The zero value is
// ready to use.
type YAMLLoader struct{}

func (YAMLLoader) Load(absolutePath string) (value.Tree, error) {
	b, err := os.ReadFile(absolutePath)
	if err != nil {
		return value.Tree{}, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return value.Tree{}, fmt.Errorf("%s: %w", absolutePath, err)
	}
	if len(doc.Content) == 0 {
		return value.NullV(), nil
	}
	return nodeToTree(doc.Content[0])
}

func nodeToTree(n *yaml.Node) (value.Tree, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.NullV(), nil
		}
		return nodeToTree(n.Content[0])

	case yaml.AliasNode:
		return nodeToTree(n.Alias)

	case yaml.ScalarNode:
		return scalarToTree(n)

	case yaml.SequenceNode:
		items := make([]value.Tree, len(n.Content))
		for i, c := range n.Content {
			v, err := nodeToTree(c)
			if err != nil {
				return value.Tree{}, err
			}
			items[i] = v
		}
		return value.SeqV(items...), nil

	case yaml.MappingNode:
		entries := make([]value.Entry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return value.Tree{}, fmt.Errorf("line %d: non-scalar map key unsupported", keyNode.Line)
			}
			val, err := nodeToTree(valNode)
			if err != nil {
				return value.Tree{}, err
			}
			entries = append(entries, value.Entry{Key: keyNode.Value, Value: val})
		}
		return value.MapV(entries...), nil

	default:
		return value.Tree{}, fmt.Errorf("line %d: unsupported YAML node kind %v", n.Line, n.Kind)
	}
}

func scalarToTree(n *yaml.Node) (value.Tree, error) {
	switch n.Tag {
	case "!!null":
		return value.NullV(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Tree{}, err
		}
		return value.BoolV(b), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return value.Tree{}, err
		}
		return value.IntV(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return value.Tree{}, err
		}
		return value.FloatV(f), nil
	default:
		return value.StringV(n.Value), nil
	}
}

// Dump encodes t back to YAML text, preserving Map key insertion order.
// Opaque-kind leaves have no YAML representation and are rejected.
func Dump(t value.Tree) ([]byte, error) {
	n, err := treeToNode(t)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(n)
}

func treeToNode(t value.Tree) (*yaml.Node, error) {
	switch t.Kind() {
	case value.Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case value.Bool:
		b, _ := t.AsBool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}, nil
	case value.Int:
		i, _ := t.AsInt()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(i, 10)}, nil
	case value.Float:
		f, _ := t.AsFloat()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(f, 'g', -1, 64)}, nil
	case value.String:
		s, _ := t.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}, nil
	case value.Seq:
		items, _ := t.AsSeq()
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, it := range items {
			child, err := treeToNode(it)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case value.Map:
		entries, _ := t.AsEntries()
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range entries {
			child, err := treeToNode(e.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}, child)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("cannot encode %s value to YAML", t.Kind())
	}
}
