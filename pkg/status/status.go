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

package status

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/examsort/pkg/log"
	"github.com/walteh/examsort/pkg/operation"
)

// 📄 Outcome is the recorded result of one finished task
type Outcome struct {
	TaskID      string
	Source      string
	Destination string
	Err         error
}

// 📊 Summary counts the outcomes seen by a reporter
type Summary struct {
	Moved    int
	Failed   int
	Rejected int
}

// String returns a one line summary
func (s Summary) String() string {
	return fmt.Sprintf("%d moved, %d failed, %d rejected", s.Moved, s.Failed, s.Rejected)
}

// Option configures a Reporter
type Option func(*Reporter)

// WithProgressBar renders progress with a pterm progress bar on the console writer
func WithProgressBar(enabled bool) Option {
	return func(r *Reporter) {
		r.showBar = enabled
	}
}

// WithVerbose prints every runner log line, not only outcomes
func WithVerbose(verbose bool) Option {
	return func(r *Reporter) {
		r.verbose = verbose
	}
}

// WithFormatter replaces the default formatter
func WithFormatter(f Formatter) Option {
	return func(r *Reporter) {
		r.formatter = f
	}
}

// 📈 Reporter renders runner events for a terminal and records outcomes.
// It implements operation.Listener.
type Reporter struct {
	console   io.Writer
	logger    *log.Logger
	zlog      zerolog.Logger
	formatter Formatter
	showBar   bool
	verbose   bool

	mu       sync.Mutex
	bar      *pterm.ProgressbarPrinter
	barTask  string
	outcomes []Outcome
	summary  Summary
}

var _ operation.Listener = (*Reporter)(nil)

// 🏭 New creates a reporter printing to console through the console logger
// carried by ctx. Diagnostics go to the zerolog logger carried by ctx.
func New(ctx context.Context, console io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		console:   console,
		logger:    log.FromContext(ctx),
		zlog:      *zerolog.Ctx(ctx),
		formatter: NewDefaultFormatter(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandleEvent implements operation.Listener
func (r *Reporter) HandleEvent(ev operation.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.zlog.Debug().Object("event", ev).Msg("reporter event")

	switch ev.Kind {
	case operation.EventLog:
		if !r.verbose {
			return
		}
		if strings.HasPrefix(ev.Message, "Error processing file:") {
			r.logger.Error(ev.Message)
		} else {
			r.logger.Info(ev.Message)
		}

	case operation.EventProgress:
		r.progress(ev)

	case operation.EventBusy:
		r.summary.Rejected++
		r.logger.Warningf("%s (%s)", ev.Message, filepath.Base(ev.Request.SourcePath))

	case operation.EventDone:
		r.done(ev)
	}
}

func (r *Reporter) progress(ev operation.Event) {
	if !r.showBar {
		if r.verbose {
			r.logger.Info(r.formatter.FormatProgress(ev.Request.SourcePath, ev.Progress))
		}
		return
	}

	if r.bar == nil || r.barTask != ev.TaskID {
		r.stopBar()
		bar, err := pterm.DefaultProgressbar.
			WithTotal(100).
			WithWriter(r.console).
			WithTitle(filepath.Base(ev.Request.SourcePath)).
			WithRemoveWhenDone(true).
			WithShowElapsedTime(false).
			Start()
		if err != nil {
			r.zlog.Warn().Err(err).Msg("starting progress bar")
			r.showBar = false
			return
		}
		r.bar = bar
		r.barTask = ev.TaskID
	}

	if delta := ev.Progress - r.bar.Current; delta > 0 {
		r.bar.Add(delta)
	}
}

func (r *Reporter) stopBar() {
	if r.bar == nil {
		return
	}
	if _, err := r.bar.Stop(); err != nil {
		r.zlog.Warn().Err(err).Msg("stopping progress bar")
	}
	r.bar = nil
	r.barTask = ""
}

func (r *Reporter) done(ev operation.Event) {
	if r.barTask == ev.TaskID {
		r.stopBar()
	}

	r.outcomes = append(r.outcomes, Outcome{
		TaskID:      ev.TaskID,
		Source:      ev.Request.SourcePath,
		Destination: ev.Result,
		Err:         ev.Err,
	})

	if ev.Err != nil {
		r.summary.Failed++
	} else {
		r.summary.Moved++
	}

	r.logger.LogRelocation(context.Background(), log.Relocation{
		Source:      ev.Request.SourcePath,
		Destination: ev.Result,
		FileType:    ev.Request.FileType,
		Status:      StatusText(ev.Err),
		Failed:      ev.Err != nil,
	})

	if ev.Err != nil && !r.verbose {
		fmt.Fprintln(r.console, r.formatter.FormatError(ev.Err))
	}
}

// Outcomes returns the outcomes recorded so far, in completion order
func (r *Reporter) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Summary returns the counts recorded so far
func (r *Reporter) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// 🏁 Finish stops any progress bar still running and prints the summary
func (r *Reporter) Finish() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopBar()

	if r.summary.Failed > 0 {
		r.logger.Warningf("relocation finished: %s", r.summary)
	} else {
		r.logger.Successf("relocation finished: %s", r.summary)
	}
	return r.summary
}
