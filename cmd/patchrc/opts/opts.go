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

package opts

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/journal"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Root       string
	Debug      bool
	NoColor    bool

	Out    io.Writer
	ErrOut io.Writer
}

// Logger builds the structured logger for a run
func (o *RootOpts) Logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: o.errOut(), NoColor: o.NoColor}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Setup applies color settings and returns ctx carrying the structured logger
// and the console
func (o *RootOpts) Setup(ctx context.Context) context.Context {
	if o.NoColor {
		color.NoColor = true
		pterm.DisableColor()
	}
	logger := o.Logger()
	ctx = logger.WithContext(ctx)
	return log.NewContext(ctx, log.New(o.out(), logger))
}

// LoadConfig loads the plan file
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, ConfigError(err)
	}
	return cfg, nil
}

// BaseDir is where relative targets resolve: --root, or the plan file's directory
func (o *RootOpts) BaseDir(cfg *config.Config) string {
	if o.Root != "" {
		return o.Root
	}
	return cfg.Dir()
}

// Store routes targets to the file system, GitHub or any afs URL
func (o *RootOpts) Store(cfg *config.Config, backup bool) (store.Store, error) {
	gh, err := store.NewGitHubStoreFromEnv()
	if err != nil {
		return nil, ConfigError(errors.Errorf("creating github store: %w", err))
	}
	return &store.Router{
		File:     store.NewFileStore(o.BaseDir(cfg), store.WithBackup(backup)),
		GitHub:   gh,
		Fallback: store.NewAFSStore(),
	}, nil
}

// Journal opens the lock file next to the plan file
func (o *RootOpts) Journal(ctx context.Context, cfg *config.Config) (*journal.Journal, error) {
	j, err := journal.Open(ctx, filepath.Join(cfg.Dir(), journal.DefaultFileName))
	if err != nil {
		return nil, ConfigError(err)
	}
	return j, nil
}

func (o *RootOpts) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func (o *RootOpts) errOut() io.Writer {
	if o.ErrOut == nil {
		return os.Stderr
	}
	return o.ErrOut
}

// OutWriter is where command output goes
func (o *RootOpts) OutWriter() io.Writer { return o.out() }
