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
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🚚 move renames src to dst, copying when the rename crosses a device.
// dst is reserved with an exclusive create first, so a file that already
// exists is never replaced. A writer that opens the reserved name without
// O_EXCL before the rename lands can still be overwritten.
func (r *Relocator) move(ctx context.Context, src, dst string) error {
	logger := zerolog.Ctx(ctx)

	if err := r.reserve(dst); err != nil {
		return &MoveError{Source: src, Destination: dst, Err: err}
	}

	err := r.fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		r.release(ctx, dst)
		return &MoveError{Source: src, Destination: dst, Err: err}
	}

	logger.Debug().Str("source", src).Str("destination", dst).Msg("rename crossed a device boundary, copying")
	if err := r.copyAcross(src, dst); err != nil {
		r.release(ctx, dst)
		return &MoveError{Source: src, Destination: dst, Err: err}
	}
	return nil
}

// reserve creates an empty placeholder at dst, failing if dst exists
func (r *Relocator) reserve(dst string) error {
	f, err := r.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrDestinationExists
		}
		return errors.Errorf("reserving destination: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = r.fs.Remove(dst)
		return errors.Errorf("reserving destination: %w", err)
	}
	return nil
}

// release removes the placeholder left by reserve after a failed move
func (r *Relocator) release(ctx context.Context, dst string) {
	info, err := r.fs.Stat(dst)
	if err != nil || info.Size() != 0 {
		return
	}
	if err := r.fs.Remove(dst); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("destination", dst).Msg("removing reserved destination")
	}
}

// 📋 copyAcross copies src into a hidden temp file next to dst, renames the
// temp file into place and removes src. On any failure neither the temp file
// nor dst is left behind and src is untouched.
func (r *Relocator) copyAcross(src, dst string) (err error) {
	in, err := r.fs.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Errorf("reading source info: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".partial-"+uuid.NewString())
	out, err := r.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = r.fs.Remove(tmp)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying file content: %w", err)
	}
	if err = out.Sync(); err != nil {
		out.Close()
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err = out.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}

	if err = r.fs.Rename(tmp, dst); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}

	// the source handle must be released before removal on some platforms
	in.Close()
	if err = r.fs.Remove(src); err != nil {
		if rmErr := r.fs.Remove(dst); rmErr != nil {
			return errors.Errorf("removing source: %w (and removing copy: %v)", err, rmErr)
		}
		return errors.Errorf("removing source: %w", err)
	}

	return nil
}
