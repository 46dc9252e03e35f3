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

	"gitlab.com/tozd/go/errors"
)

// 🔀 Router sends each identity to a store chosen by its URL scheme: plain paths and
// file:// go to the file store, github:// to the GitHub store, anything else to the
// fallback (normally an AFSStore). A nil store disables its schemes.
type Router struct {
	File     Store
	GitHub   Store
	Fallback Store
}

func (r *Router) route(id string) (Store, error) {
	var s Store
	switch Scheme(id) {
	case "", "file":
		s = r.File
	case "github":
		s = r.GitHub
	default:
		s = r.Fallback
	}
	if s == nil {
		return nil, errors.Errorf("no store configured for %q", id)
	}
	return s, nil
}

func (r *Router) Load(ctx context.Context, id string) (*Document, error) {
	s, err := r.route(id)
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrLoad, err.Error())
	}
	return s.Load(ctx, id)
}

func (r *Router) Save(ctx context.Context, id string, text string) error {
	s, err := r.route(id)
	if err != nil {
		return errors.Errorf("%w: %s", ErrWrite, err.Error())
	}
	return s.Save(ctx, id, text)
}
