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
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/examsort/pkg/relocate"
)

// 📨 EventKind distinguishes the notifications a runner produces
type EventKind int

const (
	EventLog      EventKind = iota // human-readable log line
	EventProgress                  // progress checkpoint, 0..100
	EventBusy                      // a submission was rejected
	EventDone                      // terminal notification of a task
)

// String returns a string representation of EventKind
func (k EventKind) String() string {
	switch k {
	case EventLog:
		return "log"
	case EventProgress:
		return "progress"
	case EventBusy:
		return "busy"
	case EventDone:
		return "done"
	default:
		return "unknown"
	}
}

// 📨 Event is a one-way notification from the worker to its listeners
type Event struct {
	Kind     EventKind
	TaskID   string
	Request  relocate.Request // the task's request; for EventBusy the rejected one
	Message  string           // EventLog, EventBusy
	Progress int              // EventProgress
	Result   string           // EventDone: destination path on success
	Err      error            // EventDone: failure, nil on success
}

// String returns a short description of the event
func (e Event) String() string {
	switch e.Kind {
	case EventProgress:
		return fmt.Sprintf("progress %d%%", e.Progress)
	case EventDone:
		if e.Err != nil {
			return fmt.Sprintf("done: %v", e.Err)
		}
		return fmt.Sprintf("done: %s", e.Result)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler
func (e Event) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("kind", e.Kind.String()).Str("task", e.TaskID).Str("source", e.Request.SourcePath)
	switch e.Kind {
	case EventProgress:
		ev.Int("progress", e.Progress)
	case EventDone:
		ev.Str("result", e.Result).AnErr("error", e.Err)
	default:
		ev.Str("message", e.Message)
	}
}

// 👂 Listener receives runner events. Events of one task arrive in the order
// they were produced, on the goroutine that produced them.
type Listener interface {
	HandleEvent(ev Event)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(ev Event)

// HandleEvent calls f(ev)
func (f ListenerFunc) HandleEvent(ev Event) {
	f(ev)
}
