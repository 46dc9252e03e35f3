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
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ FileStore reads and writes documents on the local file system. Relative
// identities resolve against the base directory; file:// prefixes are accepted.
type FileStore struct {
	baseDir string
	backup  bool
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithBackup keeps a copy of the previous content at <path>.bak before each save.
func WithBackup(enabled bool) FileStoreOption {
	return func(s *FileStore) { s.backup = enabled }
}

// NewFileStore creates a file store rooted at baseDir.
func NewFileStore(baseDir string, opts ...FileStoreOption) *FileStore {
	s := &FileStore{baseDir: filepath.Clean(baseDir)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file system path an identity resolves to.
func (s *FileStore) Path(id string) string {
	p := filepath.FromSlash(trimScheme(id))
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(s.baseDir, p)
}

func (s *FileStore) Load(ctx context.Context, id string) (*Document, error) {
	path := s.Path(id)
	zerolog.Ctx(ctx).Debug().Str("id", id).Str("path", path).Msg("loading document")

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, errors.Errorf("%w: %s: %s", ErrLoad, id, err.Error())
	}
	if info.IsDir() {
		return nil, errors.Errorf("%w: %s is a directory", ErrLoad, id)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %s", ErrLoad, id, err.Error())
	}

	return &Document{ID: id, Text: string(content)}, nil
}

func (s *FileStore) Save(ctx context.Context, id string, text string) error {
	path := s.Path(id)
	zerolog.Ctx(ctx).Debug().Str("id", id).Str("path", path).Int("bytes", len(text)).Msg("saving document")

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
		if s.backup {
			if err := copyFile(path, path+".bak", mode); err != nil {
				return errors.Errorf("%w: %s: creating backup: %s", ErrWrite, id, err.Error())
			}
		}
	}

	if err := writeFileAtomic(path, []byte(text), mode); err != nil {
		return errors.Errorf("%w: %s: %s", ErrWrite, id, err.Error())
	}
	return nil
}

// writeFileAtomic writes to a temp file in the target directory and renames it over path.
func writeFileAtomic(path string, content []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

func copyFile(src, dst string, mode fs.FileMode) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file: %w", err)
	}

	return nil
}
