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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestFileStore(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
		run   func(t *testing.T, s *FileStore, dir string)
	}{
		{
			name: "load_relative",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "app", "(tabs)"), 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "app", "(tabs)", "pipeline.tsx"), []byte("<View/>"), 0o644))
			},
			run: func(t *testing.T, s *FileStore, dir string) {
				doc, err := s.Load(context.Background(), "app/(tabs)/pipeline.tsx")
				require.NoError(t, err)
				assert.Equal(t, "<View/>", doc.Text)
				assert.Equal(t, "app/(tabs)/pipeline.tsx", doc.ID)
			},
		},
		{
			name: "load_file_url",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("abs"), 0o644))
			},
			run: func(t *testing.T, s *FileStore, dir string) {
				doc, err := s.Load(context.Background(), "file://"+filepath.ToSlash(filepath.Join(dir, "a.txt")))
				require.NoError(t, err)
				assert.Equal(t, "abs", doc.Text)
			},
		},
		{
			name: "load_missing",
			run: func(t *testing.T, s *FileStore, dir string) {
				_, err := s.Load(context.Background(), "missing.txt")
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNotFound), "should be ErrNotFound")
			},
		},
		{
			name: "load_directory",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
			},
			run: func(t *testing.T, s *FileStore, dir string) {
				_, err := s.Load(context.Background(), "sub")
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrLoad), "should be ErrLoad")
			},
		},
		{
			name: "save_preserves_mode",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "run.sh"), []byte("old"), 0o755))
			},
			run: func(t *testing.T, s *FileStore, dir string) {
				require.NoError(t, s.Save(context.Background(), "run.sh", "new"))
				content, err := os.ReadFile(filepath.Join(dir, "run.sh"))
				require.NoError(t, err)
				assert.Equal(t, "new", string(content))

				info, err := os.Stat(filepath.Join(dir, "run.sh"))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

				entries, err := os.ReadDir(dir)
				require.NoError(t, err)
				assert.Len(t, entries, 1, "temp file should be gone")
			},
		},
		{
			name: "save_creates_parents",
			run: func(t *testing.T, s *FileStore, dir string) {
				require.NoError(t, s.Save(context.Background(), "deep/nested/x.txt", "x"))
				content, err := os.ReadFile(filepath.Join(dir, "deep", "nested", "x.txt"))
				require.NoError(t, err)
				assert.Equal(t, "x", string(content))
			},
		},
		{
			name: "save_into_file_parent_fails",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "blocker"), []byte("x"), 0o644))
			},
			run: func(t *testing.T, s *FileStore, dir string) {
				err := s.Save(context.Background(), "blocker/x.txt", "x")
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrWrite), "should be ErrWrite")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, dir)
			}
			tt.run(t, NewFileStore(dir), dir)
		})
	}
}

func TestFileStore_Backup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("before"), 0o644))

	s := NewFileStore(dir, WithBackup(true))
	require.NoError(t, s.Save(context.Background(), "doc.txt", "after"))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "before", string(backup))

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "after", string(current))
}

func TestAFSStore(t *testing.T) {
	dir := t.TempDir()
	url := "file://" + filepath.ToSlash(filepath.Join(dir, "doc.txt"))
	ctx := context.Background()
	s := NewAFSStore()

	_, err := s.Load(ctx, url)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.Save(ctx, url, "hello"))

	doc, err := s.Load(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Text)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(map[string]string{"a": "1"})

	doc, err := m.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", doc.Text)

	_, err = m.Load(ctx, "b")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, m.Save(ctx, "a", "2"))
	got, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "2", got)
	assert.Equal(t, 1, m.Writes("a"))
	assert.Equal(t, 0, m.Writes("b"))
}

func TestRouter(t *testing.T) {
	ctx := context.Background()
	file := NewMemoryStore(map[string]string{"local.txt": "local", "file:///abs.txt": "abs"})
	gh := NewMemoryStore(map[string]string{"github://o/r/x.txt": "remote"})
	other := NewMemoryStore(map[string]string{"mem://localhost/x.txt": "mem"})

	r := &Router{File: file, GitHub: gh, Fallback: other}

	for id, want := range map[string]string{
		"local.txt":             "local",
		"file:///abs.txt":       "abs",
		"github://o/r/x.txt":    "remote",
		"mem://localhost/x.txt": "mem",
	} {
		doc, err := r.Load(ctx, id)
		require.NoError(t, err, "loading %s", id)
		assert.Equal(t, want, doc.Text, "loading %s", id)
	}

	require.NoError(t, r.Save(ctx, "local.txt", "changed"))
	assert.Equal(t, 1, file.Writes("local.txt"))

	noGitHub := &Router{File: file}
	_, err := noGitHub.Load(ctx, "github://o/r/x.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoad))
	err = noGitHub.Save(ctx, "s3://bucket/x.txt", "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWrite))
}

func TestScheme(t *testing.T) {
	assert.Equal(t, "", Scheme("app/(tabs)/pipeline.tsx"))
	assert.Equal(t, "", Scheme("/abs/path"))
	assert.Equal(t, "file", Scheme("file:///abs/path"))
	assert.Equal(t, "github", Scheme("GitHub://o/r/p"))
	assert.Equal(t, "", Scheme("://nope"))
}
