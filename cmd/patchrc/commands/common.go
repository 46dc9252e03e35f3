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
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
	"github.com/walteh/patchrc/pkg/patch"
)

// selection holds the flags that choose which plans a command runs
type selection struct {
	plans []string
	glob  string
}

func (s *selection) resolve(cfg *config.Config) ([]*patch.Plan, error) {
	plans, err := cfg.Select(s.plans, s.glob)
	if err != nil {
		return nil, opts.ConfigError(err)
	}
	return plans, nil
}

func engine(ctx context.Context) *patch.Engine {
	return patch.NewEngine(patch.WithLogger(*zerolog.Ctx(ctx)))
}

// finish prints diffs when asked and turns the results into the command's error
func finish(console *log.Logger, results []*operation.Result, showDiff bool, verb string) error {
	if showDiff {
		for _, res := range results {
			if res.Diff != "" {
				console.LogNewline()
				console.LogDiff(res.Diff)
			}
		}
	}

	failed := 0
	for _, res := range results {
		if !res.Report.Success() {
			failed++
		}
	}

	console.LogNewline()
	if failed > 0 {
		console.Errorf("%d of %d plan(s) failed to %s", failed, len(results), verb)
		return opts.Failed("%d plan(s) failed", failed)
	}
	console.Successf("%d plan(s) %s", len(results), pastTense(verb))
	return nil
}

// noPlans warns that the selection flags matched nothing in cfg
func noPlans(console *log.Logger, cfg *config.Config) {
	console.Warningf("no plans matched the selection (%d defined in %s)", len(cfg.Plans), cfg.Location())
}

func pastTense(verb string) string {
	switch verb {
	case "apply":
		return "applied"
	case "check":
		return "checked"
	default:
		return verb
	}
}
