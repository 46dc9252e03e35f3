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
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🐙 GitHubStore reads documents from GitHub repositories. Identities look like
//
//	github://owner/repo/path/to/file.tsx@ref
//
// where @ref is optional and defaults to the repository's default branch. The store
// is read-only: Save always fails with ErrWrite.
type GitHubStore struct {
	client *github.Client
}

// GitHubOption configures a GitHubStore.
type GitHubOption func(*GitHubStore) error

// WithToken authenticates requests.
func WithToken(token string) GitHubOption {
	return func(s *GitHubStore) error {
		if token != "" {
			s.client = s.client.WithAuthToken(token)
		}
		return nil
	}
}

// WithBaseURL points the client at another API endpoint (GitHub Enterprise, tests).
func WithBaseURL(base string) GitHubOption {
	return func(s *GitHubStore) error {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return errors.Errorf("parsing base url: %w", err)
		}
		s.client.BaseURL = u
		return nil
	}
}

// NewGitHubStore creates a store. httpClient may be nil.
func NewGitHubStore(httpClient *http.Client, opts ...GitHubOption) (*GitHubStore, error) {
	s := &GitHubStore{client: github.NewClient(httpClient)}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewGitHubStoreFromEnv uses GITHUB_TOKEN and, when set, GITHUB_API_URL.
func NewGitHubStoreFromEnv() (*GitHubStore, error) {
	opts := []GitHubOption{WithToken(os.Getenv("GITHUB_TOKEN"))}
	if base := os.Getenv("GITHUB_API_URL"); base != "" {
		opts = append(opts, WithBaseURL(base))
	}
	return NewGitHubStore(nil, opts...)
}

// GitHubRef is a parsed github:// identity.
type GitHubRef struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
}

// ParseGitHubID parses github://owner/repo/path[@ref].
func ParseGitHubID(id string) (GitHubRef, error) {
	if Scheme(id) != "github" {
		return GitHubRef{}, errors.Errorf("not a github identity: %s", id)
	}
	rest := trimScheme(id)

	var ref string
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest, ref = rest[:i], rest[i+1:]
	}

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return GitHubRef{}, errors.Errorf("invalid github identity %q (want github://owner/repo/path[@ref])", id)
	}

	return GitHubRef{Owner: parts[0], Repo: parts[1], Path: parts[2], Ref: ref}, nil
}

func (s *GitHubStore) Load(ctx context.Context, id string) (*Document, error) {
	ref, err := ParseGitHubID(id)
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrLoad, err.Error())
	}

	zerolog.Ctx(ctx).Debug().
		Str("owner", ref.Owner).
		Str("repo", ref.Repo).
		Str("path", ref.Path).
		Str("ref", ref.Ref).
		Msg("loading document from github")

	var opts *github.RepositoryContentGetOptions
	if ref.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref.Ref}
	}

	file, _, resp, err := s.client.Repositories.GetContents(ctx, ref.Owner, ref.Repo, ref.Path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, errors.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, errors.Errorf("%w: %s: %s", ErrLoad, id, err.Error())
	}
	if file == nil {
		return nil, errors.Errorf("%w: %s is a directory", ErrLoad, id)
	}

	text, err := file.GetContent()
	if err != nil {
		return nil, errors.Errorf("%w: %s: decoding content: %s", ErrLoad, id, err.Error())
	}

	return &Document{ID: id, Text: text}, nil
}

func (s *GitHubStore) Save(ctx context.Context, id string, text string) error {
	return errors.Errorf("%w: %s: github store is read-only", ErrWrite, id)
}
