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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name     string
		info     VersionInfo
		wantOut  []string
		notInOut []string
	}{
		{
			name: "git_build",
			info: VersionInfo{
				Version:   "v0.3.0",
				GoVersion: "go1.23.5",
				Platform:  "linux/amd64",
				VCS:       "git",
				Revision:  "1a2b3c4d5e6f7a8b9c0d",
				Time:      "2025-01-02T03:04:05Z",
			},
			wantOut: []string{
				"Version:   v0.3.0",
				"Source:    git 1a2b3c4d5e6f",
				"Built:     2025-01-02T03:04:05Z",
				"Platform:  linux/amd64",
			},
			notInOut: []string{"7a8b9c0d", "modified"},
		},
		{
			name: "dirty_tree",
			info: VersionInfo{Version: "dev", VCS: "git", Revision: "abc123", Modified: true},
			wantOut: []string{
				"Source:    git abc123 (modified)",
			},
		},
		{
			name: "no_vcs_stamps",
			info: VersionInfo{Version: "dev", GoVersion: "go1.23.5"},
			wantOut: []string{
				"Source:    unknown",
				"Built:     unknown",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatVersion(&tt.info)
			assert.Contains(t, out, "patchrc version info")
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.notInOut {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}
