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

package journal

import (
	"github.com/walteh/patchrc/pkg/patch"
)

// 🔍 State describes how a document relates to the journal's record of a plan.
type State int

const (
	StatePending State = iota // never recorded, or the document is back at its pre-image
	StateApplied              // the document is exactly what the recorded run produced
	StateDrifted              // recorded, but the document changed since
	StateStale                // recorded with a different version of the plan
)

func (s State) String() string {
	switch s {
	case StateApplied:
		return "applied"
	case StateDrifted:
		return "drifted"
	case StateStale:
		return "stale"
	default:
		return "pending"
	}
}

// State classifies the document text currently stored at plan's target. Several
// plans can share a target; a document that still matches the most recent run
// recorded for the target counts as applied for every plan recorded on it.
func (j *Journal) State(plan *patch.Plan, current string) State {
	e, ok := j.Lookup(plan.Name(), plan.Target())
	if !ok {
		return StatePending
	}
	if e.Fingerprint != plan.Fingerprint() {
		return StateStale
	}

	hash := patch.HashText(current)
	if latest, ok := j.latest(plan.Target()); ok && latest.AfterHash == hash {
		return StateApplied
	}
	switch hash {
	case e.AfterHash:
		return StateApplied
	case e.BeforeHash:
		return StatePending
	default:
		return StateDrifted
	}
}

// latest returns the most recently recorded entry for target.
func (j *Journal) latest(target string) (Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var (
		out   Entry
		found bool
	)
	for _, e := range j.data.Entries {
		if e.Target != target {
			continue
		}
		if !found || !e.RecordedAt.Before(out.RecordedAt) {
			out = e
			found = true
		}
	}
	return out, found
}
