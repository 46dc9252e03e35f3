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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/patch"
)

// 🎨 Display configuration
const (
	opIndent    = 4  // spaces to indent operation lines
	labelWidth  = 40 // width for the operation label
	statusWidth = 11 // width for status text
)

// 🎯 PlanRun describes the plan a block of operation lines belongs to
type PlanRun struct {
	Name   string // Plan name
	Target string // Target document identity
	Policy string // strict or best-effort
	DryRun bool   // Whether nothing will be written
}

// 🎯 Logger prints human readable run output and mirrors it to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	current *PlanRun
	lines   int
}

// 🏭 New creates a new logger writing lines to console and events to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// Discard is a logger that prints nothing.
func Discard() *Logger {
	return New(io.Discard, zerolog.Nop())
}

type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a discarding logger when none is set
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return Discard()
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func statusStyle(s patch.Status) (rune, color.Attribute) {
	switch s {
	case patch.StatusApplied:
		return '✓', color.FgGreen
	case patch.StatusSkipped:
		return '•', color.FgCyan
	case patch.StatusNotFound:
		return '✗', color.FgRed
	case patch.StatusAmbiguous:
		return '≠', color.FgYellow
	default:
		return '-', color.Faint
	}
}

// 📝 formatOperation formats one operation result for display
func (l *Logger) formatOperation(r patch.OperationResult) string {
	symbol, symbolColor := statusStyle(r.Status)

	var detail string
	switch r.Status {
	case patch.StatusNotRun:
		detail = ""
	case patch.StatusSkipped:
		detail = "optional, no match"
	default:
		detail = fmt.Sprintf("matches %d/%d", r.MatchCount, r.Expected)
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", opIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", labelWidth, fmt.Sprintf("[%d] %s", r.Index, r.Label)),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", statusWidth, r.Status)),
		detail)
	return strings.TrimRight(line, " ")
}

// 📝 StartPlan prints the header for a plan run
func (l *Logger) StartPlan(ctx context.Context, run PlanRun) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &run
	l.lines = 0

	mode := "patching"
	if run.DryRun {
		mode = "checking"
	}
	fmt.Fprintf(l.console, "[%s %s]\n", mode, color.New(color.FgCyan).Sprint(run.Target))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(run.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(run.Policy))

	l.zlog.Info().
		Str("plan", run.Name).
		Str("target", run.Target).
		Str("policy", run.Policy).
		Bool("dry_run", run.DryRun).
		Msg("starting plan")
}

// 📝 LogOperation prints one operation result
func (l *Logger) LogOperation(ctx context.Context, r patch.OperationResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines++
	fmt.Fprintln(l.console, l.formatOperation(r))

	event := l.zlog.Info()
	if r.Status.Failed() {
		event = l.zlog.Warn()
	}
	event.
		Int("index", r.Index).
		Str("operation", r.Label).
		Str("status", r.Status.String()).
		Int("matches", r.MatchCount).
		Int("expected", r.Expected).
		Bool("optional", r.Optional).
		Msg("operation")
}

// 📝 LogReport prints every operation line of a report
func (l *Logger) LogReport(ctx context.Context, report *patch.Report) {
	for _, r := range report.Results() {
		l.LogOperation(ctx, r)
	}
}

// 📝 EndPlan prints the outcome of the current plan run
func (l *Logger) EndPlan(ctx context.Context, report *patch.Report, saved bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}

	if cond := report.FailedPrecondition(); cond != "" {
		fmt.Fprintf(l.console, "%*s%s precondition failed: %s\n", opIndent, "",
			color.New(color.FgRed).Sprint("✗"), cond)
	}

	outcome := color.New(color.FgGreen).Sprint("ok")
	if !report.Success() {
		outcome = color.New(color.FgRed).Sprint("failed")
	}
	suffix := ""
	if saved {
		suffix = color.New(color.Faint).Sprint(" (saved)")
	}
	fmt.Fprintf(l.console, "%*s%s%s\n", opIndent, "", outcome, suffix)

	counts := report.Counts()
	l.zlog.Info().
		Str("plan", l.current.Name).
		Bool("success", report.Success()).
		Bool("saved", saved).
		Int("operations", l.lines).
		Int("applied", counts[patch.StatusApplied]).
		Int("failed", counts[patch.StatusNotFound]+counts[patch.StatusAmbiguous]).
		Msg("plan complete")

	l.current = nil
	l.lines = 0
}

// 📝 LogDiff prints a unified diff with added and removed lines colored
func (l *Logger) LogDiff(diff string) {
	if diff == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprintln(l.console, color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprintln(l.console, color.New(color.FgCyan).Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(l.console, color.New(color.FgGreen).Sprint(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(l.console, color.New(color.FgRed).Sprint(line))
		default:
			fmt.Fprintln(l.console, line)
		}
	}
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("patchrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
