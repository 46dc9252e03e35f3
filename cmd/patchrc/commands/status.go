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
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/journal"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
)

// NewStatusCmd creates the status command
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which plans are applied, pending, drifted or stale",
		Long: `Status compares every selected plan's target document with the lock file.
It will report each plan as:
- applied: the document is what the last recorded run produced
- pending: never applied, or the document is back at its original content
- drifted: applied, but the document has changed since
- stale:   applied with an older version of the plan`,
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

			st, err := o.Store(cfg, false)
			if err != nil {
				return err
			}
			j, err := o.Journal(ctx, cfg)
			if err != nil {
				return err
			}

			runner, err := operation.New(operation.Options{Store: st, Journal: j, Console: console})
			if err != nil {
				return opts.ConfigError(err)
			}

			states, err := runner.Status(ctx, plans)
			if err != nil {
				return opts.ConfigError(err)
			}

			return renderStatus(o, states)
		},
	}

	cmd.Flags().StringArrayVarP(&sel.plans, "plan", "p", nil, "plan name to report (repeatable, default all)")
	cmd.Flags().StringVarP(&sel.glob, "match", "m", "", "only report plans whose target matches this glob")

	return cmd
}

func renderStatus(o *opts.RootOpts, states []operation.PlanState) error {
	data := pterm.TableData{{"Plan", "Target", "State", "Last applied"}}
	for _, s := range states {
		data = append(data, []string{s.Plan, s.Target, stateText(s), lastApplied(s)})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return opts.ConfigError(err)
	}
	_, err = fmt.Fprintln(o.OutWriter(), table)
	return err
}

func stateText(s operation.PlanState) string {
	if s.Missing {
		return pterm.Red("missing")
	}
	switch s.State {
	case journal.StateApplied:
		return pterm.Green(s.State.String())
	case journal.StateDrifted, journal.StateStale:
		return pterm.Yellow(s.State.String())
	default:
		return pterm.Cyan(s.State.String())
	}
}

func lastApplied(s operation.PlanState) string {
	if s.Entry == nil {
		return "-"
	}
	id := s.Entry.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s (%s)", s.Entry.RecordedAt.Local().Format(time.DateTime), id)
}
