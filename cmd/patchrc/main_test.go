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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/journal"
)

const screen = `<View style={styles.activityList}>
  <Text>Recent Activity</Text>
</View>
`

const plans = `
plans:
  - name: rename-title
    target: screen.tsx
    operations:
      - find: Recent Activity
        replace: Activity Timeline
  - name: broken
    target: screen.tsx
    operations:
      - find: Recent Activity
        replace: Activity Timeline
      - find: DOES NOT EXIST
        replace: nothing
`

type run struct {
	out  string
	err  error
	code int
}

func execute(t *testing.T, dir string, args ...string) run {
	t.Helper()
	out := &bytes.Buffer{}
	o := &opts.RootOpts{Out: out, ErrOut: &bytes.Buffer{}}
	cmd := newRootCmd(o)
	cmd.SetArgs(append([]string{"--no-color", "--config", filepath.Join(dir, ".patchrc.yaml")}, args...))
	err := cmd.Execute()
	return run{out: out.String(), err: err, code: opts.ExitCode(err)}
}

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".patchrc.yaml"), []byte(plans), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "screen.tsx"), []byte(screen), 0o644))
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  []string
		validate func(t *testing.T, dir string)
	}{
		{
			name:     "apply_one_plan",
			args:     []string{"apply", "--plan", "rename-title"},
			wantCode: opts.ExitOK,
			wantOut:  []string{"[patching screen.tsx]", "✓ [0] literal", "1 plan(s) applied"},
			validate: func(t *testing.T, dir string) {
				assert.Contains(t, readFile(t, filepath.Join(dir, "screen.tsx")), "Activity Timeline")
				assert.FileExists(t, filepath.Join(dir, journal.DefaultFileName))
			},
		},
		{
			name:     "apply_strict_failure_leaves_file",
			args:     []string{"apply", "--plan", "broken"},
			wantCode: opts.ExitFailed,
			wantOut:  []string{"not-found", "1 of 1 plan(s) failed to apply"},
			validate: func(t *testing.T, dir string) {
				assert.Equal(t, screen, readFile(t, filepath.Join(dir, "screen.tsx")))
				assert.NoFileExists(t, filepath.Join(dir, journal.DefaultFileName))
			},
		},
		{
			name:     "apply_best_effort_saves_partial",
			args:     []string{"apply", "--plan", "broken", "--best-effort", "--backup"},
			wantCode: opts.ExitFailed,
			wantOut:  []string{"best-effort", "not-found"},
			validate: func(t *testing.T, dir string) {
				assert.Contains(t, readFile(t, filepath.Join(dir, "screen.tsx")), "Activity Timeline")
				assert.Equal(t, screen, readFile(t, filepath.Join(dir, "screen.tsx.bak")))
			},
		},
		{
			name:     "apply_dry_run",
			args:     []string{"apply", "--plan", "rename-title", "--dry-run"},
			wantCode: opts.ExitOK,
			wantOut: []string{
				"[checking screen.tsx]",
				"+  <Text>Activity Timeline</Text>",
				"-  <Text>Recent Activity</Text>",
				"dry run: 1 of 1 target document(s) would change",
			},
			validate: func(t *testing.T, dir string) {
				assert.Equal(t, screen, readFile(t, filepath.Join(dir, "screen.tsx")))
			},
		},
		{
			name:     "check_all",
			args:     []string{"check"},
			wantCode: opts.ExitFailed,
			wantOut:  []string{"checking 2 plan(s)", "1 of 2 plan(s) failed to check"},
			validate: func(t *testing.T, dir string) {
				assert.Equal(t, screen, readFile(t, filepath.Join(dir, "screen.tsx")))
			},
		},
		{
			name:     "check_by_glob",
			args:     []string{"check", "--match", "**/*.tsx", "--plan", "rename-title"},
			wantCode: opts.ExitOK,
			wantOut:  []string{"1 plan(s) checked"},
		},
		{
			name:     "no_match",
			args:     []string{"check", "--match", "src/**"},
			wantCode: opts.ExitOK,
			wantOut:  []string{"no plans matched the selection (2 defined in"},
		},
		{
			name:     "unknown_plan",
			args:     []string{"apply", "--plan", "nope"},
			wantCode: opts.ExitConfig,
		},
		{
			name:     "status_pending",
			args:     []string{"status"},
			wantCode: opts.ExitOK,
			wantOut:  []string{"rename-title", "pending"},
		},
		{
			name:     "version",
			args:     []string{"version"},
			wantCode: opts.ExitOK,
			wantOut:  []string{"patchrc version info"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setup(t)
			got := execute(t, dir, tt.args...)

			assert.Equal(t, tt.wantCode, got.code, "exit code (err: %v)\n%s", got.err, got.out)
			for _, want := range tt.wantOut {
				assert.Contains(t, got.out, want)
			}
			if tt.validate != nil {
				tt.validate(t, dir)
			}
		})
	}
}

func TestApplyThenStatus(t *testing.T) {
	dir := setup(t)

	got := execute(t, dir, "apply", "--plan", "rename-title")
	require.Equal(t, opts.ExitOK, got.code, got.out)

	got = execute(t, dir, "status", "--plan", "rename-title")
	require.Equal(t, opts.ExitOK, got.code, got.out)
	assert.Contains(t, got.out, "applied")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "screen.tsx"), []byte(screen+"// edited\n"), 0o644))
	got = execute(t, dir, "status", "--plan", "rename-title")
	require.Equal(t, opts.ExitOK, got.code, got.out)
	assert.Contains(t, got.out, "drifted")
}

func TestMissingConfig(t *testing.T) {
	got := execute(t, t.TempDir(), "apply")
	assert.Equal(t, opts.ExitConfig, got.code)
	require.Error(t, got.err)
	assert.Contains(t, got.err.Error(), "reading plan file")
}

func TestExampleActivityPlans(t *testing.T) {
	apply := func(t *testing.T, configName string) string {
		dir := filepath.Join(t.TempDir(), "activity")
		require.NoError(t, os.CopyFS(dir, os.DirFS(filepath.Join("..", "..", "examples", "activity"))))

		out := &bytes.Buffer{}
		cmd := newRootCmd(&opts.RootOpts{Out: out, ErrOut: &bytes.Buffer{}})
		cmd.SetArgs([]string{"--no-color", "--config", filepath.Join(dir, configName), "apply"})
		err := cmd.Execute()
		require.Equal(t, opts.ExitOK, opts.ExitCode(err), "err: %v\n%s", err, out.String())

		result := readFile(t, filepath.Join(dir, "app", "(tabs)", "pipeline.tsx"))

		out.Reset()
		cmd = newRootCmd(&opts.RootOpts{Out: out, ErrOut: &bytes.Buffer{}})
		cmd.SetArgs([]string{"--no-color", "--config", filepath.Join(dir, configName), "status"})
		require.NoError(t, cmd.Execute())
		assert.NotContains(t, out.String(), "pending")
		assert.NotContains(t, out.String(), "drifted")

		out.Reset()
		cmd = newRootCmd(&opts.RootOpts{Out: out, ErrOut: &bytes.Buffer{}})
		cmd.SetArgs([]string{"--no-color", "--config", filepath.Join(dir, configName), "apply"})
		err = cmd.Execute()
		assert.Equal(t, opts.ExitFailed, opts.ExitCode(err), "re-applying is detected, not repeated")
		assert.Contains(t, out.String(), "precondition failed")
		assert.Equal(t, result, readFile(t, filepath.Join(dir, "app", "(tabs)", "pipeline.tsx")), "a failed re-run writes nothing")

		return result
	}

	fromYAML := apply(t, ".patchrc.yaml")
	fromHCL := apply(t, "patchrc.hcl")

	assert.Equal(t, fromYAML, fromHCL, "both plan formats produce the same document")
	for _, want := range []string{
		"import { ScrollView, View, Text, StyleSheet } from 'react-native';",
		"<Text style={styles.sectionTitle}>Activity Timeline</Text>",
		"contentContainerStyle={styles.activityList}>",
		"            </ScrollView>\n          </View>\n        );",
		"  activityFilterTabs: {",
		"  activityScrollContainer: {\n    flex: 1,\n    maxHeight: 400,\n  },",
	} {
		assert.Contains(t, fromYAML, want)
	}
}
