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
	"github.com/walteh/examsort/pkg/relocate"
	"gitlab.com/tozd/go/errors"
)

// 🎯 StatusText returns the short status shown next to a relocated file
func StatusText(err error) string {
	if err == nil {
		return "moved"
	}

	var notFound *relocate.NotFoundError
	var mkdir *relocate.DirectoryCreationError
	var move *relocate.MoveError
	switch {
	case errors.Is(err, relocate.ErrDestinationExists):
		return "exists"
	case errors.As(err, &notFound):
		return "not found"
	case errors.As(err, &mkdir):
		return "mkdir failed"
	case errors.As(err, &move):
		return "move failed"
	default:
		return "failed"
	}
}
