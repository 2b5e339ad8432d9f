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
	"path/filepath"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// TimestampPattern renders wall time as a fixed-width YYYYmmddHHMMSS string
const TimestampPattern = "%Y%m%d%H%M%S"

var timestampFormatter = mustFormatter(TimestampPattern)

func mustFormatter(pattern string) *strftime.Strftime {
	f, err := strftime.New(pattern)
	if err != nil {
		panic(err)
	}
	return f
}

// ⏱️ Timestamp formats t the way it appears in relocated filenames.
// No sub-second precision and no zone marker; t is used in its own location.
func Timestamp(t time.Time) string {
	return timestampFormatter.FormatString(t)
}

// 🏷️ Filename synthesizes `{fileType}_{timestamp}{ext}` where ext is the
// lower-cased extension of source. A source without an extension yields a
// name without one.
func Filename(fileType, source string, t time.Time) string {
	return fileType + "_" + Timestamp(t) + Extension(source)
}

// Extension returns the lower-cased extension of path including its dot.
// Leading dots of the base name do not start an extension, so ".profile"
// has none.
func Extension(path string) string {
	base := strings.TrimLeft(filepath.Base(path), ".")
	return strings.ToLower(filepath.Ext(base))
}

// 📂 Directory joins base with year, specialization and exam part, in that order
func Directory(base string, req Request) string {
	return filepath.Join(base, req.Year, req.Specialization, req.ExamPart)
}
