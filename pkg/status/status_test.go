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
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/examsort/pkg/log"
	"github.com/walteh/examsort/pkg/operation"
	"github.com/walteh/examsort/pkg/relocate"
	"gitlab.com/tozd/go/errors"
)

func TestStatusText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "success", err: nil, want: "moved"},
		{
			name: "destination_exists",
			err:  &relocate.MoveError{Source: "/a", Destination: "/b", Err: relocate.ErrDestinationExists},
			want: "exists",
		},
		{name: "not_found", err: &relocate.NotFoundError{Path: "/a", Err: os.ErrNotExist}, want: "not found"},
		{name: "mkdir", err: &relocate.DirectoryCreationError{Path: "/a", Err: os.ErrPermission}, want: "mkdir failed"},
		{name: "move", err: &relocate.MoveError{Source: "/a", Destination: "/b", Err: os.ErrPermission}, want: "move failed"},
		{name: "wrapped_not_found", err: errors.Errorf("outer: %w", &relocate.NotFoundError{Path: "/a"}), want: "not found"},
		{name: "other", err: errors.New("boom"), want: "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusText(tt.err))
		})
	}
}

func TestFormatProgress(t *testing.T) {
	f := NewDefaultFormatter()

	tests := []struct {
		name    string
		percent int
		want    string
	}{
		{name: "start", percent: 0, want: "⏳ exam.pdf: 0%"},
		{name: "half", percent: 50, want: "⏳ exam.pdf: 50%"},
		{name: "complete", percent: 100, want: "✅ exam.pdf: 100%"},
		{name: "clamped_high", percent: 140, want: "✅ exam.pdf: 100%"},
		{name: "clamped_low", percent: -3, want: "⏳ exam.pdf: 0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatProgress("/in/exam.pdf", tt.percent))
		})
	}
}

func TestFormatError(t *testing.T) {
	f := NewDefaultFormatter()
	assert.Empty(t, f.FormatError(nil))
	assert.Equal(t, "❌ Error: boom", f.FormatError(errors.New("boom")))
}

func TestReporter(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	req := relocate.Request{SourcePath: "/in/exam.pdf", FileType: "Löser"}

	tests := []struct {
		name        string
		verbose     bool
		events      []operation.Event
		wantSummary Summary
		wantLines   []string
		wantAbsent  []string
	}{
		{
			name: "success_quiet",
			events: []operation.Event{
				{Kind: operation.EventLog, TaskID: "t1", Request: req, Message: "Started processing file: /in/exam.pdf"},
				{Kind: operation.EventProgress, TaskID: "t1", Request: req, Progress: 100},
				{Kind: operation.EventDone, TaskID: "t1", Request: req, Result: "/in/2025/WISO/AP1/Löser_20250601120000.pdf"},
			},
			wantSummary: Summary{Moved: 1},
			wantLines:   []string{"✓ exam.pdf", "moved", "→ /in/2025/WISO/AP1/Löser_20250601120000.pdf"},
			wantAbsent:  []string{"Started processing file", "100%"},
		},
		{
			name:    "success_verbose",
			verbose: true,
			events: []operation.Event{
				{Kind: operation.EventLog, TaskID: "t1", Request: req, Message: "Started processing file: /in/exam.pdf"},
				{Kind: operation.EventProgress, TaskID: "t1", Request: req, Progress: 100},
				{Kind: operation.EventDone, TaskID: "t1", Request: req, Result: "/out/x.pdf"},
			},
			wantSummary: Summary{Moved: 1},
			wantLines:   []string{"ℹ️  Started processing file: /in/exam.pdf", "✅ exam.pdf: 100%", "✓ exam.pdf"},
		},
		{
			name: "failure_quiet",
			events: []operation.Event{
				{Kind: operation.EventLog, TaskID: "t1", Request: req, Message: "Error processing file: nope"},
				{Kind: operation.EventDone, TaskID: "t1", Request: req, Err: &relocate.NotFoundError{Path: "/in/exam.pdf", Err: os.ErrNotExist}},
			},
			wantSummary: Summary{Failed: 1},
			wantLines:   []string{"✗ exam.pdf", "not found", "❌ Error: "},
			wantAbsent:  []string{"Error processing file"},
		},
		{
			name:    "failure_verbose",
			verbose: true,
			events: []operation.Event{
				{Kind: operation.EventLog, TaskID: "t1", Request: req, Message: "Error processing file: nope"},
				{Kind: operation.EventDone, TaskID: "t1", Request: req, Err: errors.New("nope")},
			},
			wantSummary: Summary{Failed: 1},
			wantLines:   []string{"❌ Error processing file: nope", "✗ exam.pdf"},
			wantAbsent:  []string{"❌ Error: nope"},
		},
		{
			name: "busy",
			events: []operation.Event{
				{Kind: operation.EventBusy, TaskID: "t1", Request: relocate.Request{SourcePath: "/in/other.pdf"}, Message: operation.MessageBusy},
			},
			wantSummary: Summary{Rejected: 1},
			wantLines:   []string{"⚠️  Another process is already running. (other.pdf)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			ctx = log.NewContext(ctx, log.New(buf, zerolog.Nop()))

			reporter := New(ctx, buf, WithVerbose(tt.verbose))
			for _, ev := range tt.events {
				reporter.HandleEvent(ev)
			}

			out := buf.String()
			for _, want := range tt.wantLines {
				assert.Contains(t, out, want)
			}
			for _, absent := range tt.wantAbsent {
				assert.NotContains(t, out, absent)
			}
			assert.Equal(t, tt.wantSummary, reporter.Summary())
		})
	}
}

func TestReporterOutcomes(t *testing.T) {
	ctx := log.NewContext(context.Background(), log.New(io.Discard, zerolog.Nop()))
	reporter := New(ctx, io.Discard)
	boom := errors.New("boom")

	reporter.HandleEvent(operation.Event{Kind: operation.EventDone, TaskID: "a", Request: relocate.Request{SourcePath: "/in/a.pdf"}, Result: "/out/a.pdf"})
	reporter.HandleEvent(operation.Event{Kind: operation.EventDone, TaskID: "b", Request: relocate.Request{SourcePath: "/in/b.pdf"}, Err: boom})

	outcomes := reporter.Outcomes()
	require.Len(t, outcomes, 2)
	assert.Equal(t, Outcome{TaskID: "a", Source: "/in/a.pdf", Destination: "/out/a.pdf"}, outcomes[0])
	assert.Equal(t, "b", outcomes[1].TaskID)
	assert.ErrorIs(t, outcomes[1].Err, boom)

	summary := reporter.Finish()
	assert.Equal(t, Summary{Moved: 1, Failed: 1}, summary)
	assert.Equal(t, "1 moved, 1 failed, 0 rejected", summary.String())
}

func TestReporterWithRunner(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/exam.pdf", []byte("exam"), 0o644))
	rel := relocate.New(relocate.WithFs(fs), relocate.WithClock(clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))))

	buf := &bytes.Buffer{}
	ctx = log.NewContext(ctx, log.New(buf, zerolog.Nop()))
	reporter := New(ctx, io.Discard, WithProgressBar(true))
	runner := operation.NewRunner(rel, operation.WithListener(reporter))

	task, err := runner.Submit(ctx, relocate.Request{
		SourcePath:     "/in/exam.pdf",
		Specialization: "WISO",
		ExamPart:       "AP1",
		FileType:       "Löser",
		Year:           "2025",
		Period:         "Winter",
	})
	require.NoError(t, err)

	dst, err := task.Result()
	require.NoError(t, err)
	require.NoError(t, runner.Wait(ctx))

	// the done event reaches listeners after Result returns
	require.Eventually(t, func() bool {
		return reporter.Summary().Moved == 1
	}, 5*time.Second, 5*time.Millisecond)

	summary := reporter.Finish()
	assert.Equal(t, Summary{Moved: 1}, summary)
	assert.True(t, strings.Contains(buf.String(), dst), "row should name the destination")
}
