// Copyright 2025 walteh LLC
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

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
	"github.com/walteh/patchrc/pkg/patch"
)

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var (
		sel         selection
		bestEffort  bool
		dryRun      bool
		showDiff    bool
		backup      bool
		savePartial bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply patch plans to their target documents",
		Long: `Apply runs every selected plan against its target document.
For each plan it will:
1. Load the target once
2. Check the plan's preconditions
3. Apply every edit in order, each against the latest buffer
4. Save the result at most once and record it in the lock file

A strict plan that hits a missing or ambiguous match leaves its target untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}
			plans, err := sel.resolve(cfg)
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				noPlans(console, cfg)
				return nil
			}

			st, err := o.Store(cfg, backup)
			if err != nil {
				return err
			}
			j, err := o.Journal(ctx, cfg)
			if err != nil {
				return err
			}

			var override *patch.Policy
			if bestEffort {
				p := patch.PolicyBestEffort
				override = &p
			}

			runner, err := operation.New(operation.Options{
				Store:          st,
				Journal:        j,
				Console:        console,
				Engine:         engine(ctx),
				DryRun:         dryRun,
				SaveOnPartial:  savePartial,
				PolicyOverride: override,
			})
			if err != nil {
				return opts.ConfigError(err)
			}

			header := fmt.Sprintf("applying %d plan(s)", len(plans))
			if dryRun {
				header += " (dry run)"
			}
			console.Header(header)

			results, err := runner.ApplyAll(ctx, plans)
			if err != nil {
				return opts.ConfigError(err)
			}

			if dryRun {
				changed := 0
				for _, res := range results {
					if res.Changed() {
						changed++
					}
				}
				console.Infof("dry run: %d of %d target document(s) would change", changed, len(results))
			}

			return finish(console, results, showDiff || dryRun, "apply")
		},
	}

	cmd.Flags().StringArrayVarP(&sel.plans, "plan", "p", nil, "plan name to apply (repeatable, default all)")
	cmd.Flags().StringVarP(&sel.glob, "match", "m", "", "only apply plans whose target matches this glob")
	cmd.Flags().BoolVar(&bestEffort, "best-effort", false, "run every plan with the best-effort policy")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "evaluate without saving")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a diff of every change")
	cmd.Flags().BoolVar(&backup, "backup", false, "write <file>.bak before overwriting")
	cmd.Flags().BoolVar(&savePartial, "save-partial", true, "save the buffer of a failed best-effort plan")

	return cmd
}
