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

package operation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/walteh/examsort/pkg/relocate"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/semaphore"
)

// MessageBusy is the log line produced when a submission is rejected
const MessageBusy = "Another process is already running."

// ErrBusy is returned by Submit while another relocation is in flight
var ErrBusy = errors.New("another relocation is already running")

// 🚦 State is the lifecycle state of a runner
type State int

const (
	StateIdle State = iota
	StateRunning
)

// String returns a string representation of State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// 🔧 Relocator performs a single relocation, reporting steps to obs
type Relocator interface {
	Relocate(ctx context.Context, req relocate.Request, obs relocate.Observer) (string, error)
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithListener registers a listener at construction time
func WithListener(l Listener) RunnerOption {
	return func(r *Runner) {
		r.listeners = append(r.listeners, l)
	}
}

// WithProgressMode selects discrete or ramped progress, discrete by default
func WithProgressMode(mode ProgressMode) RunnerOption {
	return func(r *Runner) {
		r.mode = mode
	}
}

// WithRampInterval sets the pause between ramp values; zero means no pause
func WithRampInterval(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.interval = d
	}
}

// WithClock sets the clock used for ramp pauses
func WithClock(clock clockwork.Clock) RunnerOption {
	return func(r *Runner) {
		r.clock = clock
	}
}

// 🏃 Runner executes one relocation at a time off the caller's goroutine and
// narrates it through events. A submission while busy is rejected, not queued.
type Runner struct {
	relocator Relocator
	mode      ProgressMode
	interval  time.Duration
	clock     clockwork.Clock
	sem       *semaphore.Weighted

	mu        sync.Mutex
	state     State
	current   *Task
	listeners []Listener
}

// 🏗️ NewRunner creates an idle runner around relocator
func NewRunner(relocator Relocator, opts ...RunnerOption) *Runner {
	r := &Runner{
		relocator: relocator,
		mode:      ProgressSteps,
		clock:     clockwork.NewRealClock(),
		sem:       semaphore.NewWeighted(1),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddListener registers l for all future events
func (r *Runner) AddListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// State returns whether a relocation is in flight
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// 📥 Submit starts relocating req in the background. While another task is
// running it emits an EventBusy and returns ErrBusy instead. Failures of the
// relocation itself never surface here; they arrive as events and through
// Task.Result.
func (r *Runner) Submit(ctx context.Context, req relocate.Request) (*Task, error) {
	logger := zerolog.Ctx(ctx)

	r.mu.Lock()
	if !r.sem.TryAcquire(1) {
		busy := Event{Kind: EventBusy, Request: req, Message: MessageBusy}
		if r.current != nil {
			busy.TaskID = r.current.id
		}
		r.mu.Unlock()

		logger.Warn().Str("source", req.SourcePath).Str("running", busy.TaskID).Msg("rejected submission while busy")
		r.notify(busy)
		return nil, ErrBusy
	}
	task := newTask(req)
	r.state = StateRunning
	r.current = task
	r.mu.Unlock()

	logger.Debug().Str("task", task.id).Object("request", req).Msg("starting relocation")

	// the task outlives the caller's context, there is no cancellation
	go r.run(context.WithoutCancel(ctx), task)

	return task, nil
}

// ⏳ Wait blocks until the runner is idle or ctx is done
func (r *Runner) Wait(ctx context.Context) error {
	r.mu.Lock()
	task := r.current
	r.mu.Unlock()

	if task == nil {
		return nil
	}

	select {
	case <-task.Done():
		return nil
	case <-ctx.Done():
		return errors.Errorf("waiting for task %s: %w", task.id, ctx.Err())
	}
}

// 🔄 run executes the task on the worker goroutine
func (r *Runner) run(ctx context.Context, task *Task) {
	logger := zerolog.Ctx(ctx).With().Str("task", task.id).Logger()
	ctx = logger.WithContext(ctx)

	tracker := newProgressTracker(r, task)

	r.emit(ctx, task, Event{Kind: EventLog, Message: fmt.Sprintf("Started processing file: %s", task.request.SourcePath)})
	tracker.begin(ctx)

	dst, err := r.relocate(ctx, task.request, tracker)
	if err != nil {
		logger.Error().Err(err).Msg("relocation failed")
		r.emit(ctx, task, Event{Kind: EventLog, Message: fmt.Sprintf("Error processing file: %v", err)})
	} else {
		r.emit(ctx, task, Event{Kind: EventLog, Message: fmt.Sprintf("File renamed and moved to: %s", dst)})
	}

	tracker.advance(ctx, 100)
	r.complete(ctx, task, dst, err)
}

// relocate calls the relocator, turning a panic into an error
func (r *Runner) relocate(ctx context.Context, req relocate.Request, obs relocate.Observer) (dst string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("relocation panicked: %v", p)
		}
	}()
	return r.relocator.Relocate(ctx, req, obs)
}

// ✅ complete returns the runner to idle, closes the task and delivers the
// done event. The runner accepts new work before listeners see the event.
func (r *Runner) complete(ctx context.Context, task *Task, dst string, err error) {
	done := Event{Kind: EventDone, TaskID: task.id, Request: task.request, Result: dst, Err: err}
	zerolog.Ctx(ctx).Debug().Object("event", done).Msg("relocation finished")

	r.mu.Lock()
	r.state = StateIdle
	r.current = nil
	r.sem.Release(1)
	r.mu.Unlock()

	if !task.push(done) {
		zerolog.Ctx(ctx).Debug().Str("task", task.id).Msg("task stream full, done event not queued")
	}
	task.finish(dst, err)
	r.notify(done)
}

// 📣 emit sends ev to the task stream and every listener
func (r *Runner) emit(ctx context.Context, task *Task, ev Event) {
	ev.TaskID = task.id
	ev.Request = task.request
	logger := zerolog.Ctx(ctx)
	logger.Trace().Object("event", ev).Msg("runner event")
	if !task.push(ev) {
		logger.Trace().Str("task", task.id).Msg("task stream full, event dropped")
	}
	r.notify(ev)
}

func (r *Runner) notify(ev Event) {
	r.mu.Lock()
	listeners := make([]Listener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		l.HandleEvent(ev)
	}
}
