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
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	typeWidth   = 15 // Width for file type
	statusWidth = 15 // Width for status text
)

// 🎯 Relocation represents one relocated (or planned, or failed) file for logging
type Relocation struct {
	Source      string // Original path
	Destination string // Final or planned path, empty on failure
	FileType    string // File type the file was filed as
	Status      string // Status text
	Failed      bool   // Whether the relocation failed
	DryRun      bool   // Whether the relocation was only planned
}

// 📦 Batch represents a group of files relocated with the same classification
type Batch struct {
	Specialization string
	ExamPart       string
	Year           string
	Period         string
	Files          int
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog        zerolog.Logger
	console     io.Writer
	mu          sync.Mutex
	current     *Batch
	relocations []Relocation
}

// 🏭 New creates a new logger writing human output to console and mirroring
// every line to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatRelocation formats a relocation for display
func (l *Logger) formatRelocation(op Relocation) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.Failed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.DryRun:
		symbol = '•'
		symbolColor = color.FgCyan
	default:
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, filepath.Base(op.Source)),
		color.New(color.FgBlue).Sprint(fmt.Sprintf("%-*s", typeWidth, op.FileType)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))

	if op.Destination != "" {
		line += color.New(color.Faint).Sprint("→ " + op.Destination)
	}
	return line
}

// 📝 LogRelocation logs a relocation
func (l *Logger) LogRelocation(ctx context.Context, op Relocation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to batch
	l.relocations = append(l.relocations, op)

	// Format and print
	fmt.Fprintln(l.console, l.formatRelocation(op))

	// Log to zerolog
	ev := l.zlog.Info()
	if op.Failed {
		ev = l.zlog.Warn()
	}
	ev.Str("source", op.Source).
		Str("destination", op.Destination).
		Str("file_type", op.FileType).
		Str("status", op.Status).
		Bool("dry_run", op.DryRun).
		Msg("relocation")
}

// 📝 StartBatch starts a new batch of relocations
func (l *Logger) StartBatch(ctx context.Context, b Batch) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &b
	l.relocations = nil

	// Print batch header
	fmt.Fprintf(l.console, "[relocating %s]\n",
		color.New(color.FgCyan).Sprint(plural(b.Files, "file")))

	fmt.Fprintf(l.console, "%s %s %s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(b.Specialization),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(b.ExamPart),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(b.Year+" "+b.Period))

	// Log to zerolog
	l.zlog.Info().
		Str("specialization", b.Specialization).
		Str("exam_part", b.ExamPart).
		Str("year", b.Year).
		Str("period", b.Period).
		Int("files", b.Files).
		Msg("starting batch")
}

// 📝 EndBatch ends the current batch and returns how many relocations
// succeeded and failed
func (l *Logger) EndBatch(ctx context.Context) (moved, failed int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return 0, 0
	}

	for _, op := range l.relocations {
		if op.Failed {
			failed++
		} else {
			moved++
		}
	}

	// Log summary
	l.zlog.Info().
		Int("files", l.current.Files).
		Int("moved", moved).
		Int("failed", failed).
		Msg("batch complete")

	l.current = nil
	l.relocations = nil
	return moved, failed
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
	name := color.New(color.Bold, color.FgCyan).Sprint("examsort")
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

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
