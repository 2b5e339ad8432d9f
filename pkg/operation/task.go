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
	"github.com/google/uuid"
	"github.com/walteh/examsort/pkg/relocate"
)

// eventBuffer holds every event a task of the built-in relocator produces
// (a full ramp of 101 progress values, six log lines and the done event).
// Events past it are dropped from the task stream, never from listeners.
const eventBuffer = 128

// 🎫 Task is the handle of one submitted relocation
type Task struct {
	id      string
	request relocate.Request
	events  chan Event
	done    chan struct{}

	// written once by the worker before done is closed
	result string
	err    error
}

func newTask(req relocate.Request) *Task {
	return &Task{
		id:      uuid.NewString(),
		request: req,
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
	}
}

// ID returns the unique id of the task
func (t *Task) ID() string { return t.id }

// Events returns the task's own event stream. It is closed after the done
// event. An undrained stream keeps the first eventBuffer events.
func (t *Task) Events() <-chan Event { return t.events }

// Done is closed once the task has finished, successfully or not
func (t *Task) Done() <-chan struct{} { return t.done }

// Result waits for the task and returns the destination path or the failure
func (t *Task) Result() (string, error) {
	<-t.done
	return t.result, t.err
}

// push queues ev on the task stream without blocking the worker
func (t *Task) push(ev Event) bool {
	select {
	case t.events <- ev:
		return true
	default:
		return false
	}
}

func (t *Task) finish(result string, err error) {
	t.result = result
	t.err = err
	close(t.events)
	close(t.done)
}
