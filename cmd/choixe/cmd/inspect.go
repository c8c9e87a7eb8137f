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

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/choixe-lang/choixe/compile"
	"github.com/choixe-lang/choixe/errors"
	"github.com/choixe-lang/choixe/inspect"
	"github.com/choixe-lang/choixe/loader"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file.yaml>",
		Short: "print the variables, imports, and symbols a tree statically references",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runInspect(c, args[0])
		},
	}
	return cmd
}

func runInspect(c *cobra.Command, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	l := loader.YAMLLoader{}
	tree, err := l.Load(abs)
	if err != nil {
		return err
	}
	node, err := compile.Compile(tree, compile.Options{BaseDir: filepath.Dir(abs)})
	if err != nil {
		errors.Print(c.ErrOrStderr(), err)
		return fmt.Errorf("compile failed")
	}

	result := inspect.Inspect(node, inspect.Options{Loader: l, BaseDir: filepath.Dir(abs)})

	out := c.OutOrStdout()
	fmt.Fprintf(out, "processed: %v\n", result.Processed)
	variables, _ := loader.Dump(result.Variables)
	fmt.Fprintf(out, "variables:\n%s", indent(variables))
	environ, _ := loader.Dump(result.Environ)
	fmt.Fprintf(out, "environ:\n%s", indent(environ))
	fmt.Fprintf(out, "imports: %v\n", result.Imports)
	if result.DynamicImports > 0 {
		fmt.Fprintf(out, "dynamic imports: %d\n", result.DynamicImports)
	}
	fmt.Fprintf(out, "symbols: %v\n", result.Symbols)
	return nil
}

func indent(b []byte) string {
	s := strings.TrimRight(string(b), "\n")
	return "  " + strings.ReplaceAll(s, "\n", "\n  ") + "\n"
}
