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
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📊 Status is the outcome of one operation in a run.
type Status int

const (
	StatusNotRun    Status = iota // never executed (strict abort or failed precondition)
	StatusApplied                 // matched the expected number of times and was replaced
	StatusSkipped                 // optional and matched nothing
	StatusNotFound                // matched fewer times than expected
	StatusAmbiguous               // matched more times than expected
)

// String returns the status name shown to users.
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusSkipped:
		return "skipped"
	case StatusNotFound:
		return "not-found"
	case StatusAmbiguous:
		return "ambiguous"
	default:
		return "not-run"
	}
}

// Failed reports whether the status counts against overall success.
func (s Status) Failed() bool {
	return s == StatusNotFound || s == StatusAmbiguous
}

// 🛡️ Policy selects how the engine reacts to an operation that does not match as expected.
type Policy int

const (
	// PolicyStrict aborts on the first failure and discards every edit.
	PolicyStrict Policy = iota
	// PolicyBestEffort records the failure, keeps the buffer and moves on.
	PolicyBestEffort
)

func (p Policy) String() string {
	switch p {
	case PolicyBestEffort:
		return "best-effort"
	default:
		return "strict"
	}
}

// ParsePolicy parses a policy name. The empty string means strict.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "best-effort", "best_effort", "besteffort":
		return PolicyBestEffort, nil
	default:
		return PolicyStrict, errors.Errorf("unknown policy %q (want strict or best-effort)", s)
	}
}

// OperationResult is the recorded outcome of one operation.
type OperationResult struct {
	Index      int
	Status     Status
	MatchCount int
	Expected   int
	Optional   bool
	Label      string
}

func (r OperationResult) String() string {
	return fmt.Sprintf("#%d %s (%d/%d matches) %s", r.Index, r.Status, r.MatchCount, r.Expected, r.Label)
}

// 📋 Report is the read-only outcome of one engine run.
type Report struct {
	plan        string
	policy      Policy
	results     []OperationResult
	document    string
	hasDocument bool
	success     bool
	failedCheck string
}

// PlanName is the name of the plan that produced the report.
func (r *Report) PlanName() string { return r.plan }

// Policy is the policy the run used.
func (r *Report) Policy() Policy { return r.policy }

// Len is the number of operations in the plan.
func (r *Report) Len() int { return len(r.results) }

// Result returns the outcome of operation i.
func (r *Report) Result(i int) OperationResult { return r.results[i] }

// Results returns a copy of every operation outcome, in plan order.
func (r *Report) Results() []OperationResult {
	return append([]OperationResult(nil), r.results...)
}

// Success reports whether every operation applied or was skipped (strict), or every
// non-optional operation applied (best-effort).
func (r *Report) Success() bool { return r.success }

// Document returns the resulting buffer. ok is false when a strict run failed.
func (r *Report) Document() (doc string, ok bool) { return r.document, r.hasDocument }

// FailedPrecondition returns the expression that stopped the run, if any.
func (r *Report) FailedPrecondition() string { return r.failedCheck }

// Changed reports whether the resulting buffer differs from original.
func (r *Report) Changed(original string) bool {
	return r.hasDocument && r.document != original
}

// Counts tallies the operations by status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int, 5)
	for _, res := range r.results {
		counts[res.Status]++
	}
	return counts
}

// Failures returns the outcomes that count against success.
func (r *Report) Failures() []OperationResult {
	var out []OperationResult
	for _, res := range r.results {
		if res.Status.Failed() {
			out = append(out, res)
		}
	}
	return out
}

// Summary is a one-line description of the run.
func (r *Report) Summary() string {
	c := r.Counts()
	outcome := "ok"
	if !r.success {
		outcome = "failed"
	}
	return fmt.Sprintf("%s: %s (%s) applied=%d skipped=%d not-found=%d ambiguous=%d not-run=%d",
		r.plan, outcome, r.policy,
		c[StatusApplied], c[StatusSkipped], c[StatusNotFound], c[StatusAmbiguous], c[StatusNotRun])
}
