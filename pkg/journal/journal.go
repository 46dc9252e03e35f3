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
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// DefaultFileName is the journal written next to a plan file.
const DefaultFileName = ".patchrc.lock"

const fileVersion = 1

// 📒 Entry records the last saved run of one plan against one target.
type Entry struct {
	RunID       string    `json:"run_id"`
	Plan        string    `json:"plan"`
	Target      string    `json:"target"`
	Fingerprint string    `json:"fingerprint"`
	Policy      string    `json:"policy"`
	BeforeHash  string    `json:"before_hash"`
	AfterHash   string    `json:"after_hash"`
	Applied     int       `json:"applied"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// NewEntry describes a saved run of plan that turned before into after.
func NewEntry(plan *patch.Plan, report *patch.Report, before string, after string) Entry {
	counts := report.Counts()
	return Entry{
		RunID:       uuid.NewString(),
		Plan:        plan.Name(),
		Target:      plan.Target(),
		Fingerprint: plan.Fingerprint(),
		Policy:      report.Policy().String(),
		BeforeHash:  patch.HashText(before),
		AfterHash:   patch.HashText(after),
		Applied:     counts[patch.StatusApplied],
		Skipped:     counts[patch.StatusSkipped],
		Failed:      counts[patch.StatusNotFound] + counts[patch.StatusAmbiguous],
		RecordedAt:  time.Now().UTC(),
	}
}

// file is the on-disk layout.
type file struct {
	Version     int       `json:"version"`
	LastUpdated time.Time `json:"last_updated"`
	Entries     []Entry   `json:"entries"`
}

// Journal is a lock file of applied plans. A Journal opened with an empty path
// lives only in memory.
type Journal struct {
	path string
	mu   sync.Mutex
	data file
}

// Open reads the journal at path. A missing file yields an empty journal.
func Open(ctx context.Context, path string) (*Journal, error) {
	j := &Journal{path: path, data: file{Version: fileVersion}}
	if path == "" {
		return j, nil
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("opening journal")

	doc, err := j.fileStore().Load(ctx, filepath.Base(path))
	if errors.Is(err, store.ErrNotFound) {
		return j, nil
	}
	if err != nil {
		return nil, errors.Errorf("reading journal: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader([]byte(doc.Text)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&j.data); err != nil {
		return nil, errors.Errorf("parsing journal %s: %w", path, err)
	}
	if j.data.Version > fileVersion {
		return nil, errors.Errorf("journal %s has version %d, newest supported is %d", path, j.data.Version, fileVersion)
	}

	return j, nil
}

// Path is where the journal is persisted, or "" for an in-memory journal.
func (j *Journal) Path() string { return j.path }

func (j *Journal) fileStore() *store.FileStore {
	return store.NewFileStore(filepath.Dir(j.path))
}

// Lookup returns the entry for plan name and target.
func (j *Journal) Lookup(plan string, target string) (Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, e := range j.data.Entries {
		if e.Plan == plan && e.Target == target {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns every entry sorted by target then plan.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := append([]Entry(nil), j.data.Entries...)
	sort.Slice(out, func(a, b int) bool {
		if out[a].Target != out[b].Target {
			return out[a].Target < out[b].Target
		}
		return out[a].Plan < out[b].Plan
	})
	return out
}

// Record replaces the entry for e's plan and target and persists the journal.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	replaced := false
	for i, existing := range j.data.Entries {
		if existing.Plan == e.Plan && existing.Target == e.Target {
			j.data.Entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		j.data.Entries = append(j.data.Entries, e)
	}
	j.data.LastUpdated = e.RecordedAt

	zerolog.Ctx(ctx).Debug().
		Str("plan", e.Plan).
		Str("target", e.Target).
		Str("run_id", e.RunID).
		Msg("recording journal entry")

	return j.flush(ctx)
}

func (j *Journal) flush(ctx context.Context) error {
	if j.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(j.data, "", "  ")
	if err != nil {
		return errors.Errorf("encoding journal: %w", err)
	}

	if err := j.fileStore().Save(ctx, filepath.Base(j.path), string(data)+"\n"); err != nil {
		return errors.Errorf("writing journal: %w", err)
	}
	return nil
}
