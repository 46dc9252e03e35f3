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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/patch"
)

func testPlan(t *testing.T, replacement string) *patch.Plan {
	t.Helper()
	op, err := patch.Replace("foo", replacement)
	require.NoError(t, err)
	plan, err := patch.NewPlan("rename", "doc.txt", []patch.Operation{op})
	require.NoError(t, err)
	return plan
}

func TestJournal_RecordAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultFileName)

	j, err := Open(ctx, path)
	require.NoError(t, err)
	assert.Empty(t, j.Entries(), "new journal should be empty")

	plan := testPlan(t, "bar")
	report := patch.NewEngine().Apply("foo", plan, patch.PolicyStrict)
	require.NoError(t, j.Record(ctx, NewEntry(plan, report, "foo", "bar")))

	_, err = os.Stat(path)
	require.NoError(t, err, "journal should be written")

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	entry, ok := reopened.Lookup("rename", "doc.txt")
	require.True(t, ok)
	assert.Equal(t, plan.Fingerprint(), entry.Fingerprint)
	assert.Equal(t, patch.HashText("bar"), entry.AfterHash)
	assert.Equal(t, 1, entry.Applied)
	assert.Equal(t, "strict", entry.Policy)
	assert.NotEmpty(t, entry.RunID)

	// recording again replaces rather than appends
	require.NoError(t, reopened.Record(ctx, NewEntry(plan, report, "foo", "bar")))
	assert.Len(t, reopened.Entries(), 1)
}

func TestJournal_State(t *testing.T) {
	ctx := context.Background()
	j, err := Open(ctx, "")
	require.NoError(t, err)

	plan := testPlan(t, "bar")
	assert.Equal(t, StatePending, j.State(plan, "foo"), "unrecorded plan is pending")

	report := patch.NewEngine().Apply("foo", plan, patch.PolicyStrict)
	require.NoError(t, j.Record(ctx, NewEntry(plan, report, "foo", "bar")))

	tests := []struct {
		name    string
		plan    *patch.Plan
		current string
		want    State
	}{
		{name: "applied", plan: plan, current: "bar", want: StateApplied},
		{name: "reverted", plan: plan, current: "foo", want: StatePending},
		{name: "drifted", plan: plan, current: "bar and more", want: StateDrifted},
		{name: "stale_plan", plan: testPlan(t, "baz"), current: "bar", want: StateStale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, j.State(tt.plan, tt.current))
		})
	}
}

func TestJournal_StateChainedPlans(t *testing.T) {
	ctx := context.Background()
	j, err := Open(ctx, "")
	require.NoError(t, err)

	first := testPlan(t, "bar")
	op, err := patch.Replace("bar", "baz")
	require.NoError(t, err)
	second, err := patch.NewPlan("again", "doc.txt", []patch.Operation{op})
	require.NoError(t, err)

	e1 := NewEntry(first, patch.NewEngine().Apply("foo", first, patch.PolicyStrict), "foo", "bar")
	e2 := NewEntry(second, patch.NewEngine().Apply("bar", second, patch.PolicyStrict), "bar", "baz")
	e2.RecordedAt = e1.RecordedAt.Add(time.Second)
	require.NoError(t, j.Record(ctx, e1))
	require.NoError(t, j.Record(ctx, e2))

	assert.Equal(t, StateApplied, j.State(first, "baz"), "a later plan on the same target does not make earlier ones drift")
	assert.Equal(t, StateApplied, j.State(second, "baz"))
	assert.Equal(t, StateApplied, j.State(first, "bar"))
	assert.Equal(t, StatePending, j.State(second, "bar"))
	assert.Equal(t, StateDrifted, j.State(first, "baz!"))
}

func TestOpen_RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"unknown":true}`), 0o644))

	_, err := Open(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing journal")
}

func TestOpen_RejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99,"entries":[]}`), 0o644))

	_, err := Open(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newest supported")
}
