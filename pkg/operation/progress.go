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
	"strings"

	"github.com/walteh/examsort/pkg/relocate"
	"gitlab.com/tozd/go/errors"
)

// 📊 ProgressMode controls how progress checkpoints are reported
type ProgressMode string

const (
	// ProgressSteps reports one checkpoint per finished step: 25, 50, 75, 100
	ProgressSteps ProgressMode = "steps"
	// ProgressRamp reports every integer from 0 to 100
	ProgressRamp ProgressMode = "ramp"
)

// ParseProgressMode converts a configuration value into a ProgressMode
func ParseProgressMode(s string) (ProgressMode, error) {
	switch ProgressMode(strings.ToLower(strings.TrimSpace(s))) {
	case ProgressSteps, "":
		return ProgressSteps, nil
	case ProgressRamp:
		return ProgressRamp, nil
	default:
		return "", errors.Errorf("unknown progress mode %q", s)
	}
}

// progressTracker turns relocation steps into log and progress events.
// Reported values never decrease.
type progressTracker struct {
	runner *Runner
	task   *Task
	last   int
}

var _ relocate.Observer = (*progressTracker)(nil)

func newProgressTracker(r *Runner, task *Task) *progressTracker {
	return &progressTracker{runner: r, task: task}
}

// begin emits the opening checkpoint of a ramp
func (p *progressTracker) begin(ctx context.Context) {
	if p.runner.mode == ProgressRamp {
		p.emit(ctx, 0)
	}
}

func (p *progressTracker) StepStarted(ctx context.Context, step relocate.Step) {
	p.runner.emit(ctx, p.task, Event{
		Kind:    EventLog,
		Message: fmt.Sprintf("Step %d: %s...", int(step), step),
	})
}

func (p *progressTracker) StepFinished(ctx context.Context, step relocate.Step) {
	p.advance(ctx, int(step)*100/relocate.StepCount)
}

// advance moves progress forward to target, ramping through every value in
// between when configured to
func (p *progressTracker) advance(ctx context.Context, target int) {
	if target > 100 {
		target = 100
	}
	if target <= p.last {
		return
	}

	if p.runner.mode != ProgressRamp {
		p.emit(ctx, target)
		return
	}

	for v := p.last + 1; v <= target; v++ {
		if p.runner.interval > 0 {
			p.runner.clock.Sleep(p.runner.interval)
		}
		p.emit(ctx, v)
	}
}

func (p *progressTracker) emit(ctx context.Context, value int) {
	p.last = value
	p.runner.emit(ctx, p.task, Event{Kind: EventProgress, Progress: value})
}
