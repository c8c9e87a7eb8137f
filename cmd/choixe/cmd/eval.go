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

	"github.com/spf13/cobra"

	"github.com/choixe-lang/choixe/compile"
	"github.com/choixe-lang/choixe/errors"
	"github.com/choixe-lang/choixe/external"
	"github.com/choixe-lang/choixe/loader"
	"github.com/choixe-lang/choixe/process"
	"github.com/choixe-lang/choixe/value"
)

func newEvalCmd() *cobra.Command {
	var contextPath string
	var all bool

	cmd := &cobra.Command{
		Use:   "eval <file.yaml>",
		Short: "compile and process a Choixe tree, printing the result as YAML",
		Long: `eval compiles file.yaml, processes it against an optional context
(--context), and prints the result.

With --all, every sweep alternative is printed as a separate YAML document,
separated by "---", in place of the first-option (--all=false) default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runEval(c, args[0], contextPath, all)
		},
	}
	cmd.Flags().StringVar(&contextPath, "context", "", "YAML file providing the evaluation context")
	cmd.Flags().BoolVar(&all, "all", false, "print every branching alternative instead of just the first")
	return cmd
}

func runEval(c *cobra.Command, path, contextPath string, all bool) error {
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

	ctx := value.NullV()
	if contextPath != "" {
		ctxAbs, err := filepath.Abs(contextPath)
		if err != nil {
			return err
		}
		ctx, err = l.Load(ctxAbs)
		if err != nil {
			return err
		}
	}

	opts := process.Options{
		Loader:   l,
		Resolver: external.MapResolver{},
		BaseDir:  filepath.Dir(abs),
	}

	if !all {
		result, err := process.Process(node, ctx, opts)
		if err != nil {
			errors.Print(c.ErrOrStderr(), err)
			return fmt.Errorf("process failed")
		}
		return dumpOne(c, result)
	}

	results, err := process.ProcessAll(node, ctx, opts)
	if err != nil {
		errors.Print(c.ErrOrStderr(), err)
		return fmt.Errorf("process failed")
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(c.OutOrStdout(), "---")
		}
		if err := dumpOne(c, r); err != nil {
			return err
		}
	}
	return nil
}

func dumpOne(c *cobra.Command, t value.Tree) error {
	b, err := loader.Dump(t)
	if err != nil {
		return err
	}
	_, err = c.OutOrStdout().Write(b)
	return err
}
