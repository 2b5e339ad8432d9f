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

package config

import (
	"slices"
	"strconv"
	"time"

	"github.com/walteh/examsort/pkg/relocate"
)

// 📅 YearOptions lists the selectable years around now, oldest first
func (cfg *Config) YearOptions(now time.Time) []string {
	current := now.Year()
	out := make([]string, 0, cfg.Years.Past+cfg.Years.Future+1)
	for y := current - cfg.Years.Past; y <= current+cfg.Years.Future; y++ {
		out = append(out, strconv.Itoa(y))
	}
	return out
}

// DefaultYear is the preselected year, the current one
func (cfg *Config) DefaultYear(now time.Time) string {
	return strconv.Itoa(now.Year())
}

// 📄 DefaultRequest returns a request preselecting the first option of every
// list and the current year. The source path is left empty.
func (cfg *Config) DefaultRequest(now time.Time) relocate.Request {
	return relocate.Request{
		Specialization: first(cfg.Specializations),
		ExamPart:       first(cfg.ExamParts),
		FileType:       first(cfg.FileTypes),
		Year:           cfg.DefaultYear(now),
		Period:         first(cfg.Periods),
	}
}

// ⚠️ Unlisted names the fields of req whose values are not among the
// configured options. Such requests are still valid.
func (cfg *Config) Unlisted(req relocate.Request, now time.Time) []string {
	var out []string
	check := func(name, value string, options []string) {
		if !slices.Contains(options, value) {
			out = append(out, name)
		}
	}
	check("specialization", req.Specialization, cfg.Specializations)
	check("exam_part", req.ExamPart, cfg.ExamParts)
	check("file_type", req.FileType, cfg.FileTypes)
	check("year", req.Year, cfg.YearOptions(now))
	check("period", req.Period, cfg.Periods)
	return out
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
