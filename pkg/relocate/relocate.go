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
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// DirPerm is the mode used for created destination directories
const DirPerm os.FileMode = 0o755

// 🚚 Relocator performs relocations against a filesystem and a clock
type Relocator struct {
	fs    afero.Fs
	clock clockwork.Clock
}

// Option configures a Relocator
type Option func(*Relocator)

// WithFs sets the filesystem, the host filesystem by default
func WithFs(fs afero.Fs) Option {
	return func(r *Relocator) {
		r.fs = fs
	}
}

// WithClock sets the clock used for filename timestamps
func WithClock(clock clockwork.Clock) Option {
	return func(r *Relocator) {
		r.clock = clock
	}
}

// 🏭 New creates a relocator working on the host filesystem and wall clock
func New(opts ...Option) *Relocator {
	r := &Relocator{
		fs:    afero.NewOsFs(),
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// 🏃 Relocate runs the four steps for req and returns the absolute path of
// the relocated file. obs may be nil.
func (r *Relocator) Relocate(ctx context.Context, req Request, obs Observer) (string, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	logger := zerolog.Ctx(ctx)
	logger.Debug().Object("request", req).Msg("relocating file")

	// Step 1: the source must exist
	obs.StepStarted(ctx, StepPrepare)
	src, err := r.checkSource(req.SourcePath)
	if err != nil {
		return "", err
	}
	obs.StepFinished(ctx, StepPrepare)

	// Step 2: new name from type and time
	obs.StepStarted(ctx, StepFilename)
	name := Filename(req.FileType, src, r.clock.Now())
	obs.StepFinished(ctx, StepFilename)

	// Step 3: destination tree
	obs.StepStarted(ctx, StepDirectory)
	dir := Directory(filepath.Dir(src), req)
	if err := r.EnsureDirectory(dir); err != nil {
		return "", err
	}
	obs.StepFinished(ctx, StepDirectory)

	// Step 4: move
	obs.StepStarted(ctx, StepMove)
	dst := filepath.Join(dir, name)
	if err := r.move(ctx, src, dst); err != nil {
		return "", err
	}
	obs.StepFinished(ctx, StepMove)

	logger.Debug().Str("source", src).Str("destination", dst).Msg("file relocated")
	return dst, nil
}

// 🗺️ BuildPlan computes where req would be relocated without touching the filesystem
func (r *Relocator) BuildPlan(ctx context.Context, req Request) (*Plan, error) {
	src, err := r.checkSource(req.SourcePath)
	if err != nil {
		return nil, err
	}

	name := Filename(req.FileType, src, r.clock.Now())
	dir := Directory(filepath.Dir(src), req)

	zerolog.Ctx(ctx).Debug().Str("source", src).Str("directory", dir).Str("filename", name).Msg("planned relocation")

	return &Plan{
		Source:      src,
		Filename:    name,
		Directory:   dir,
		Destination: filepath.Join(dir, name),
	}, nil
}

// 📁 EnsureDirectory creates path and its parents. An existing directory is not an error.
func (r *Relocator) EnsureDirectory(path string) error {
	if err := r.fs.MkdirAll(path, DirPerm); err != nil {
		return &DirectoryCreationError{Path: path, Err: err}
	}
	return nil
}

// 🔍 checkSource resolves path and verifies it names a regular file
func (r *Relocator) checkSource(path string) (string, error) {
	if path == "" {
		return "", &NotFoundError{Path: path, Err: errors.New("empty path")}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &NotFoundError{Path: path, Err: err}
	}

	info, err := r.fs.Stat(abs)
	if err != nil {
		return "", &NotFoundError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return "", &NotFoundError{Path: path, Err: errors.New("not a regular file")}
	}

	return abs, nil
}
