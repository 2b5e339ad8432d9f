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

package opts

import (
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/walteh/examsort/pkg/config"
	"github.com/walteh/examsort/pkg/relocate"
)

// RootOpts contains shared options used by all commands.
// It is filled in before any command runs; the console logger travels on
// the command context (see log.NewContext).
type RootOpts struct {
	Config *config.Config
	Fs     afero.Fs
	Clock  clockwork.Clock
	Debug  bool
}

// Relocator returns a relocator bound to the configured filesystem and clock
func (o *RootOpts) Relocator() *relocate.Relocator {
	return relocate.New(relocate.WithFs(o.Fs), relocate.WithClock(o.Clock))
}

// Options returns the loaded configuration, or the defaults before loading
func (o *RootOpts) Options() *config.Config {
	if o == nil || o.Config == nil {
		return config.Default()
	}
	return o.Config
}
