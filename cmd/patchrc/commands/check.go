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
)

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var (
		sel         selection
		showDiff    bool
		jobs        int
		savePartial bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report what apply would do without writing anything",
		Long: `Check evaluates every selected plan against its current target document
and reports each edit's outcome. Nothing is saved and the lock file is not touched.
Plans for different targets are checked concurrently.`,
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

			st, err := o.Store(cfg, false)
			if err != nil {
				return err
			}

			runner, err := operation.New(operation.Options{
				Store:         st,
				Console:       console,
				Engine:        engine(ctx),
				DryRun:        true,
				SaveOnPartial: savePartial,
				Concurrency:   jobs,
			})
			if err != nil {
				return opts.ConfigError(err)
			}

			console.Header(fmt.Sprintf("checking %d plan(s)", len(plans)))

			results, err := runner.Check(ctx, plans)
			if err != nil {
				return opts.ConfigError(err)
			}

			return finish(console, results, showDiff, "check")
		},
	}

	cmd.Flags().StringArrayVarP(&sel.plans, "plan", "p", nil, "plan name to check (repeatable, default all)")
	cmd.Flags().StringVarP(&sel.glob, "match", "m", "", "only check plans whose target matches this glob")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a diff of every change")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "targets to check at once (0 means no limit)")
	cmd.Flags().BoolVar(&savePartial, "save-partial", true, "treat failed best-effort plans as saved when simulating later plans on the same target")

	return cmd
}
