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

package relocate

import (
	"context"

	"github.com/rs/zerolog"
)

// 📄 Request describes one file and the attributes it is filed under.
// The classification fields are opaque: empty or unexpected values are
// accepted and end up in the path as they are.
type Request struct {
	SourcePath     string `json:"source_path"`
	Specialization string `json:"specialization"`
	ExamPart       string `json:"exam_part"`
	FileType       string `json:"file_type"`
	Year           string `json:"year"`
	Period         string `json:"period"`
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler
func (r Request) MarshalZerologObject(e *zerolog.Event) {
	e.Str("source", r.SourcePath).
		Str("specialization", r.Specialization).
		Str("exam_part", r.ExamPart).
		Str("file_type", r.FileType).
		Str("year", r.Year).
		Str("period", r.Period)
}

// 🪜 Step identifies one stage of a relocation
type Step int

const (
	StepPrepare Step = iota + 1
	StepFilename
	StepDirectory
	StepMove
)

// StepCount is the number of steps a successful relocation passes through
const StepCount = int(StepMove)

// String returns the human label of the step
func (s Step) String() string {
	switch s {
	case StepPrepare:
		return "Preparation"
	case StepFilename:
		return "Generating new filename"
	case StepDirectory:
		return "Creating destination directory"
	case StepMove:
		return "Moving and renaming the file"
	default:
		return "unknown"
	}
}

// 👀 Observer is notified around each step of a relocation.
// Calls happen on the goroutine running the relocation, in step order.
// StepFinished is not called for the step that failed.
type Observer interface {
	StepStarted(ctx context.Context, step Step)
	StepFinished(ctx context.Context, step Step)
}

type nopObserver struct{}

func (nopObserver) StepStarted(context.Context, Step)  {}
func (nopObserver) StepFinished(context.Context, Step) {}

// 🗺️ Plan is the computed outcome of a relocation before anything is touched
type Plan struct {
	Source      string `json:"source"`
	Filename    string `json:"filename"`
	Directory   string `json:"directory"`
	Destination string `json:"destination"`
}
