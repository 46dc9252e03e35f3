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

package config

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
)

// 🔌 Parser decodes one plan file format.
type Parser interface {
	// Parse decodes data; filename is used for diagnostics and relative paths.
	Parse(ctx context.Context, data []byte, filename string) (*Config, error)

	// CanParse reports whether this parser handles the file's extension.
	CanParse(filename string) bool
}

var (
	parsersMu sync.RWMutex
	parsers   []Parser
)

// Register adds a parser. Later registrations take precedence.
func Register(p Parser) {
	parsersMu.Lock()
	defer parsersMu.Unlock()
	parsers = append([]Parser{p}, parsers...)
}

// GetParser returns the parser for filename, or nil.
func GetParser(filename string) Parser {
	parsersMu.RLock()
	defer parsersMu.RUnlock()
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
