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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/patch"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔍 Check evaluates plans without saving anything. Each target is loaded once and
// its plans run in order against a simulated buffer: a plan that Apply would save
// hands its result to the next plan on the same target. Distinct targets are
// evaluated concurrently. Results come back in plans order.
func (r *Runner) Check(ctx context.Context, plans []*patch.Plan) ([]*Result, error) {
	logger := zerolog.Ctx(ctx)

	groups := groupByTarget(plans)
	logger.Debug().Int("plans", len(plans)).Int("targets", len(groups)).Msg("checking plans")

	results := make([]*Result, len(plans))

	g, gctx := errgroup.WithContext(ctx)
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}

	for _, group := range groups {
		g.Go(func() error {
			target := plans[group[0]].Target()
			doc, err := r.store.Load(gctx, target)
			if err != nil {
				return errors.Errorf("loading %s: %w", target, err)
			}

			text := doc.Text
			for _, idx := range group {
				if err := gctx.Err(); err != nil {
					return err
				}
				res := r.evaluate(gctx, plans[idx], text)
				if res.wouldSave {
					text, _ = res.After()
				}
				results[idx] = res
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("checking plans: %w", err)
	}

	for _, res := range results {
		r.logResult(ctx, res, true)
	}

	return results, nil
}

// groupByTarget returns plan indexes grouped by target, in first-seen order.
func groupByTarget(plans []*patch.Plan) [][]int {
	index := make(map[string]int)
	var groups [][]int
	for i, p := range plans {
		g, ok := index[p.Target()]
		if !ok {
			g = len(groups)
			index[p.Target()] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}
