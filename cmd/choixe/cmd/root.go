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

// Package cmd wires up the choixe command-line tool's subcommands, in the
// same cobra-root-plus-addCommand shape cmd/cue/cmd uses for cue.
package cmd

import (
	"github.com/spf13/cobra"
)

// Root builds the top-level choixe command.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "choixe",
		Short:         "compile, evaluate, and inspect Choixe configuration trees",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newEvalCmd())
	root.AddCommand(newInspectCmd())
	return root
}
