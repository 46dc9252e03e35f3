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
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound is returned by Load when the identity does not resolve to a document.
	ErrNotFound = errors.Base("document not found")
	// ErrLoad is returned by Load for any other read failure.
	ErrLoad = errors.Base("loading document")
	// ErrWrite is returned by Save on any persistence failure.
	ErrWrite = errors.Base("writing document")
)

// 📄 Document is a loaded text buffer and the identity it was loaded from.
type Document struct {
	ID   string
	Text string
}

// 💾 Store loads and persists documents by identity.
type Store interface {
	// Load reads the whole document. It fails with ErrNotFound or ErrLoad.
	Load(ctx context.Context, id string) (*Document, error)
	// Save replaces the document's content. It fails with ErrWrite.
	Save(ctx context.Context, id string, text string) error
}

// Scheme returns the URL scheme of an identity, or "" for plain paths.
func Scheme(id string) string {
	i := strings.Index(id, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(id[:i])
}

func trimScheme(id string) string {
	if i := strings.Index(id, "://"); i > 0 {
		return id[i+3:]
	}
	return id
}
