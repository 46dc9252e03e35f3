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
	"strings"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"gitlab.com/tozd/go/errors"
)

// ☁️ AFSStore loads and saves documents through viant/afs, so any URL scheme afs
// understands (file://, mem://, s3://, gs://, ...) can hold a target document.
type AFSStore struct {
	fs   afs.Service
	mode os.FileMode
}

// NewAFSStore creates a store backed by a fresh afs service.
func NewAFSStore() *AFSStore {
	return &AFSStore{fs: afs.New(), mode: 0o644}
}

func (s *AFSStore) Load(ctx context.Context, id string) (*Document, error) {
	zerolog.Ctx(ctx).Debug().Str("url", id).Msg("loading document via afs")

	exists, err := s.fs.Exists(ctx, id)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %s", ErrLoad, id, err.Error())
	}
	if !exists {
		return nil, errors.Errorf("%w: %s", ErrNotFound, id)
	}

	data, err := s.fs.DownloadWithURL(ctx, id)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %s", ErrLoad, id, err.Error())
	}

	return &Document{ID: id, Text: string(data)}, nil
}

func (s *AFSStore) Save(ctx context.Context, id string, text string) error {
	zerolog.Ctx(ctx).Debug().Str("url", id).Int("bytes", len(text)).Msg("saving document via afs")

	if err := s.fs.Upload(ctx, id, s.mode, strings.NewReader(text)); err != nil {
		return errors.Errorf("%w: %s: %s", ErrWrite, id, err.Error())
	}
	return nil
}
