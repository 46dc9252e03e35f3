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

package patch

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/match"
)

// ⚙️ Engine applies plans to document buffers. It holds no state between runs and
// is safe to share.
type Engine struct {
	logger zerolog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sends per-operation debug events to logger.
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply runs plan against doc under policy and returns the report. It never returns
// an error: missing or ambiguous matches are statuses in the report.
//
// Under PolicyStrict the first failing operation stops the run; the report then has no
// document and every later operation is StatusNotRun. Under PolicyBestEffort failures
// are recorded and the run continues; the report always carries the resulting buffer,
// which is doc itself when a precondition stops the run.
func (e *Engine) Apply(doc string, plan *Plan, policy Policy) *Report {
	report := &Report{
		plan:    plan.Name(),
		policy:  policy,
		results: make([]OperationResult, plan.Len()),
	}
	for i, op := range plan.operations {
		report.results[i] = OperationResult{
			Index:    i,
			Status:   StatusNotRun,
			Expected: op.expect,
			Optional: op.optional,
			Label:    op.Label(),
		}
	}

	for _, cond := range plan.preconditions {
		ok, err := cond.Eval(doc)
		if err != nil || !ok {
			e.logger.Debug().Err(err).Str("plan", plan.Name()).Str("precondition", cond.String()).Msg("precondition not met")
			report.failedCheck = cond.String()
			if policy == PolicyBestEffort {
				report.document = doc
				report.hasDocument = true
			}
			return report
		}
	}

	buffer := doc
	aborted := false
	for i, op := range plan.operations {
		res := match.Locate(buffer, op.pattern)
		status := classify(op, res.Count)

		report.results[i].Status = status
		report.results[i].MatchCount = res.Count

		e.logger.Debug().
			Str("plan", plan.Name()).
			Int("index", i).
			Str("pattern", op.pattern.String()).
			Int("matches", res.Count).
			Int("expected", op.expect).
			Str("status", status.String()).
			Msg("operation evaluated")

		if status == StatusApplied {
			buffer = substitute(buffer, op, res)
			continue
		}

		if status.Failed() && policy == PolicyStrict {
			aborted = true
			break
		}
	}

	report.success = !aborted
	for _, r := range report.results {
		if r.Status.Failed() {
			report.success = false
		}
	}

	if policy == PolicyBestEffort || report.success {
		report.document = buffer
		report.hasDocument = true
	}

	return report
}

func classify(op Operation, count int) Status {
	switch {
	case count == op.expect:
		return StatusApplied
	case count == 0 && op.optional:
		return StatusSkipped
	case count > op.expect:
		return StatusAmbiguous
	default:
		return StatusNotFound
	}
}

// substitute replaces every located span with the operation's replacement. Spans are
// non-overlapping and ordered, so a single left-to-right pass rebuilds the buffer.
func substitute(buffer string, op Operation, res match.Result) string {
	var b strings.Builder
	b.Grow(len(buffer))

	last := 0
	for _, span := range res.Spans {
		b.WriteString(buffer[last:span.Start])
		b.WriteString(op.pattern.Expand(buffer, span, op.replacement))
		last = span.End
	}
	b.WriteString(buffer[last:])

	return b.String()
}
