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

package store

import (
	"context"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// MemoryStore keeps documents in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string]string
	writes map[string]int
}

// NewMemoryStore creates a store seeded with docs (identity -> text).
func NewMemoryStore(docs map[string]string) *MemoryStore {
	m := &MemoryStore{
		docs:   make(map[string]string, len(docs)),
		writes: make(map[string]int),
	}
	for id, text := range docs {
		m.docs[id] = text
	}
	return m
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	text, ok := m.docs[id]
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrNotFound, id)
	}
	return &Document{ID: id, Text: text}, nil
}

func (m *MemoryStore) Save(ctx context.Context, id string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[id] = text
	m.writes[id]++
	return nil
}

// Get returns the current text for id.
func (m *MemoryStore) Get(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.docs[id]
	return text, ok
}

// Writes returns how many times id has been saved.
func (m *MemoryStore) Writes(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes[id]
}
