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
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// 📊 PlanState is the journal's view of one plan
type PlanState struct {
	Plan   string
	Target string
	State  journal.State
	// Missing is set when the target document does not exist
	Missing bool
	// Entry is the last recorded run, if any
	Entry *journal.Entry
}

// 🔍 Status reports the journal state of every plan against its current target
// document. It is a read-only operation.
func (r *Runner) Status(ctx context.Context, plans []*patch.Plan) ([]PlanState, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("plans", len(plans)).Msg("checking status")

	if r.journal == nil {
		return nil, errors.Errorf("status requires a journal")
	}

	states := make([]PlanState, 0, len(plans))
	for _, plan := range plans {
		ps := PlanState{
			Plan:   plan.Name(),
			Target: plan.Target(),
			State:  journal.StatePending,
		}
		if e, ok := r.journal.Lookup(plan.Name(), plan.Target()); ok {
			ps.Entry = &e
		}

		doc, err := r.store.Load(ctx, plan.Target())
		switch {
		case errors.Is(err, store.ErrNotFound):
			ps.Missing = true
		case err != nil:
			return nil, errors.Errorf("loading %s: %w", plan.Target(), err)
		default:
			ps.State = r.journal.State(plan, doc.Text)
		}

		logger.Debug().
			Str("plan", ps.Plan).
			Str("state", ps.State.String()).
			Bool("missing", ps.Missing).
			Msg("plan state")

		states = append(states, ps)
	}

	return states, nil
}
