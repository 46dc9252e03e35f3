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
	"github.com/walteh/patchrc/pkg/journal"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains configuration for the runner
type Options struct {
	// Store loads and saves target documents
	Store store.Store
	// Journal records saved runs; nil disables recording and Status
	Journal *journal.Journal
	// Console prints per-operation lines; nil prints nothing
	Console *log.Logger
	// Engine applies plans; nil uses a default engine
	Engine *patch.Engine
	// DryRun evaluates plans without saving or recording
	DryRun bool
	// SaveOnPartial saves the buffer of a failed best-effort run
	SaveOnPartial bool
	// PolicyOverride replaces every plan's own policy when set
	PolicyOverride *patch.Policy
	// Concurrency bounds how many targets Check evaluates at once; 0 means no limit
	Concurrency int
}

// 🎯 Runner drives plans through load, apply, save and journal
type Runner struct {
	store         store.Store
	journal       *journal.Journal
	console       *log.Logger
	engine        *patch.Engine
	dryRun        bool
	saveOnPartial bool
	override      *patch.Policy
	concurrency   int
}

// 🏭 New creates a new runner with the given options
func New(opts Options) (*Runner, error) {
	if opts.Store == nil {
		return nil, errors.Errorf("store is required")
	}

	r := &Runner{
		store:         opts.Store,
		journal:       opts.Journal,
		console:       opts.Console,
		engine:        opts.Engine,
		dryRun:        opts.DryRun,
		saveOnPartial: opts.SaveOnPartial,
		override:      opts.PolicyOverride,
		concurrency:   opts.Concurrency,
	}
	if r.console == nil {
		r.console = log.Discard()
	}
	if r.engine == nil {
		r.engine = patch.NewEngine()
	}
	return r, nil
}

// 📋 Result is the outcome of running one plan
type Result struct {
	Plan   *patch.Plan
	Report *patch.Report
	// Before is the document text the plan was applied to
	Before string
	// Saved reports whether the resulting buffer was written back
	Saved bool
	// Diff is a line diff of the change, or "" when nothing changed
	Diff string

	wouldSave bool
}

// After returns the resulting buffer, if the report has one.
func (r *Result) After() (string, bool) {
	return r.Report.Document()
}

// Changed reports whether the run produced a different buffer.
func (r *Result) Changed() bool {
	return r.Report.Changed(r.Before)
}

func (r *Runner) policyFor(plan *patch.Plan) patch.Policy {
	if r.override != nil {
		return *r.override
	}
	return plan.Policy()
}

// evaluate applies plan to text without touching the store.
func (r *Runner) evaluate(ctx context.Context, plan *patch.Plan, text string) *Result {
	policy := r.policyFor(plan)
	report := r.engine.Apply(text, plan, policy)

	res := &Result{
		Plan:   plan,
		Report: report,
		Before: text,
	}

	after, ok := report.Document()
	if ok && after != text {
		res.Diff = patch.Diff(plan.Target(), text, after)
		res.wouldSave = report.Success() || r.saveOnPartial
	}

	zerolog.Ctx(ctx).Debug().
		Str("plan", plan.Name()).
		Str("target", plan.Target()).
		Str("policy", policy.String()).
		Bool("success", report.Success()).
		Bool("changed", res.Changed()).
		Msg("plan evaluated")

	return res
}

func (r *Runner) logResult(ctx context.Context, res *Result, dryRun bool) {
	r.console.StartPlan(ctx, log.PlanRun{
		Name:   res.Plan.Name(),
		Target: res.Plan.Target(),
		Policy: res.Report.Policy().String(),
		DryRun: dryRun,
	})
	r.console.LogReport(ctx, res.Report)
	r.console.EndPlan(ctx, res.Report, res.Saved)
}

// ✏️ Apply loads plan's target once, applies the plan, saves at most once and
// records the saved run in the journal.
//
// A strict run is saved only when it succeeds. A failed best-effort run is saved only
// with SaveOnPartial. Nothing is saved when the buffer is unchanged or in dry-run mode.
// Missing or ambiguous matches are reported in the Result, never as an error; errors
// come from the store or the journal.
func (r *Runner) Apply(ctx context.Context, plan *patch.Plan) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("plan", plan.Name()).Str("target", plan.Target()).Msg("applying plan")

	doc, err := r.store.Load(ctx, plan.Target())
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", plan.Target(), err)
	}

	res := r.evaluate(ctx, plan, doc.Text)

	if res.wouldSave && !r.dryRun {
		after, _ := res.After()
		if err := r.store.Save(ctx, plan.Target(), after); err != nil {
			return nil, errors.Errorf("saving %s: %w", plan.Target(), err)
		}
		res.Saved = true

		if r.journal != nil {
			if err := r.journal.Record(ctx, journal.NewEntry(plan, res.Report, doc.Text, after)); err != nil {
				return nil, errors.Errorf("recording %s: %w", plan.Name(), err)
			}
		}
	}

	r.logResult(ctx, res, r.dryRun)
	return res, nil
}

// ApplyAll applies plans in order, each as its own load, apply and save cycle.
// It stops at the first store or journal error and returns the results so far.
func (r *Runner) ApplyAll(ctx context.Context, plans []*patch.Plan) ([]*Result, error) {
	results := make([]*Result, 0, len(plans))
	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			return results, errors.Errorf("applying plans: %w", err)
		}
		res, err := r.Apply(ctx, plan)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// AllSucceeded reports whether every result's report succeeded.
func AllSucceeded(results []*Result) bool {
	for _, res := range results {
		if !res.Report.Success() {
			return false
		}
	}
	return true
}
