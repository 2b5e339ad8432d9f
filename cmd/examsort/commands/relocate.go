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

package commands

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/examsort/cmd/examsort/opts"
	"github.com/walteh/examsort/pkg/log"
	"github.com/walteh/examsort/pkg/operation"
	"github.com/walteh/examsort/pkg/relocate"
	"github.com/walteh/examsort/pkg/status"
	"gitlab.com/tozd/go/errors"
)

type relocateFlags struct {
	specialization string
	examPart       string
	fileType       string
	year           string
	period         string
	dryRun         bool
	verbose        bool
	progressBar    bool
}

// NewRelocateCmd creates the relocate command
func NewRelocateCmd(o *opts.RootOpts) *cobra.Command {
	var f relocateFlags

	cmd := &cobra.Command{
		Use:   "relocate FILE|GLOB...",
		Short: "Rename exam files and file them into the year/specialization/exam part tree",
		Long: `Relocate renames each file to <file type>_<timestamp><ext> and moves it into
<dir of file>/<year>/<specialization>/<exam part>/, creating directories as needed.
It will:
1. Expand glob patterns (** is supported)
2. Relocate one file at a time, reporting progress
3. Wait for the next second when a new name is already taken
4. Print a summary and fail if any file could not be relocated`,
		Example: `  examsort relocate ~/Downloads/*.pdf --specialization Systemintegration --exam-part AP1 --file-type Aufgabenblatt
  examsort relocate 'scans/**/*.pdf' --year 2024 --period Winter --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "relocate").Logger().WithContext(cmd.Context())

			req := f.request(cmd, o)
			return runRelocate(ctx, cmd, o, f, req, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.specialization, "specialization", "", "specialization (default: first configured)")
	flags.StringVar(&f.examPart, "exam-part", "", "exam part (default: first configured)")
	flags.StringVar(&f.fileType, "file-type", "", "file type used as filename prefix (default: first configured)")
	flags.StringVar(&f.year, "year", "", "exam year (default: current year)")
	flags.StringVar(&f.period, "period", "", "exam period (default: first configured)")
	flags.BoolVar(&f.dryRun, "dry-run", false, "only print where files would go")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "print every step of each relocation")
	flags.BoolVar(&f.progressBar, "progress", true, "show a progress bar")

	complete := func(list func() []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return list(), cobra.ShellCompDirectiveNoFileComp
		}
	}
	_ = cmd.RegisterFlagCompletionFunc("specialization", complete(func() []string { return o.Options().Specializations }))
	_ = cmd.RegisterFlagCompletionFunc("exam-part", complete(func() []string { return o.Options().ExamParts }))
	_ = cmd.RegisterFlagCompletionFunc("file-type", complete(func() []string { return o.Options().FileTypes }))
	_ = cmd.RegisterFlagCompletionFunc("period", complete(func() []string { return o.Options().Periods }))
	_ = cmd.RegisterFlagCompletionFunc("year", complete(func() []string { return o.Options().YearOptions(o.Clock.Now()) }))

	return cmd
}

// request builds the classification from flags, falling back to the
// configured defaults for flags that were not given
func (f relocateFlags) request(cmd *cobra.Command, o *opts.RootOpts) relocate.Request {
	req := o.Options().DefaultRequest(o.Clock.Now())
	set := func(name, value string, dst *string) {
		if cmd.Flags().Changed(name) {
			*dst = value
		}
	}
	set("specialization", f.specialization, &req.Specialization)
	set("exam-part", f.examPart, &req.ExamPart)
	set("file-type", f.fileType, &req.FileType)
	set("year", f.year, &req.Year)
	set("period", f.period, &req.Period)
	return req
}

func runRelocate(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts, f relocateFlags, req relocate.Request, args []string) error {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)

	files, err := expandArgs(ctx, o.Fs, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.Errorf("no files matched %s", strings.Join(args, ", "))
	}

	for _, field := range o.Options().Unlisted(req, o.Clock.Now()) {
		console.Warningf("%s is not one of the configured options, using it anyway", field)
	}

	logger.Debug().Object("request", req).Int("files", len(files)).Bool("dry_run", f.dryRun).Msg("relocating files")

	if f.dryRun {
		console.Header("planning relocation (dry run)")
	} else {
		console.Header("relocating exam files")
	}
	console.StartBatch(ctx, log.Batch{
		Specialization: req.Specialization,
		ExamPart:       req.ExamPart,
		Year:           req.Year,
		Period:         req.Period,
		Files:          len(files),
	})

	rel := o.Relocator()

	if f.dryRun {
		for _, file := range files {
			r := req
			r.SourcePath = file
			plan, err := rel.BuildPlan(ctx, r)
			if err != nil {
				console.LogRelocation(ctx, log.Relocation{Source: file, FileType: r.FileType, Status: status.StatusText(err), Failed: true, DryRun: true})
				continue
			}
			console.LogRelocation(ctx, log.Relocation{Source: file, Destination: plan.Destination, FileType: r.FileType, Status: "planned", DryRun: true})
		}
		planned, failed := console.EndBatch(ctx)
		console.LogNewline()
		console.Infof("dry run: %d planned, %d cannot be relocated, nothing was moved", planned, failed)
		if failed > 0 {
			return errors.Errorf("%d of %d files cannot be relocated", failed, len(files))
		}
		return nil
	}

	reporter := status.New(ctx, cmd.OutOrStdout(),
		status.WithProgressBar(f.progressBar && !f.verbose),
		status.WithVerbose(f.verbose),
	)

	runnerOpts := append(o.Options().RunnerOptions(),
		operation.WithClock(o.Clock),
		operation.WithListener(reporter),
	)
	runner := operation.NewRunner(rel, runnerOpts...)

	// signalled after the reporter has handled a task's done event
	handled := make(chan struct{}, 1)
	runner.AddListener(operation.ListenerFunc(func(ev operation.Event) {
		if ev.Kind == operation.EventDone {
			handled <- struct{}{}
		}
	}))

	for _, file := range files {
		r := req
		r.SourcePath = file

		if err := awaitFreeName(ctx, o, rel, r); err != nil {
			return err
		}

		// one file at a time: submit, then wait until it has been reported
		if _, err := runner.Submit(ctx, r); err != nil {
			return errors.Errorf("submitting %s: %w", file, err)
		}
		select {
		case <-handled:
		case <-ctx.Done():
			return errors.Errorf("waiting for %s: %w", file, ctx.Err())
		}
	}

	console.LogNewline()
	summary := reporter.Finish()
	console.EndBatch(ctx)

	if summary.Failed > 0 {
		return errors.Errorf("%d of %d files could not be relocated", summary.Failed, len(files))
	}
	return nil
}

// awaitFreeName waits for the next second of the clock while the name req
// would get is already taken. Names only carry whole seconds, so files of one
// folder relocated in the same second would otherwise collide.
func awaitFreeName(ctx context.Context, o *opts.RootOpts, rel *relocate.Relocator, req relocate.Request) error {
	for {
		plan, err := rel.BuildPlan(ctx, req)
		if err != nil {
			// reported by the relocation itself
			return nil
		}

		taken, err := afero.Exists(o.Fs, plan.Destination)
		if err != nil {
			return errors.Errorf("checking %s: %w", plan.Destination, err)
		}
		if !taken {
			return nil
		}

		now := o.Clock.Now()
		wait := now.Truncate(time.Second).Add(time.Second).Sub(now)
		zerolog.Ctx(ctx).Debug().Str("destination", plan.Destination).Dur("wait", wait).Msg("name taken, waiting for the next second")

		select {
		case <-o.Clock.After(wait):
		case <-ctx.Done():
			return errors.Errorf("waiting for a free name for %s: %w", req.SourcePath, ctx.Err())
		}
	}
}

// expandArgs resolves glob patterns against fs; plain paths are kept as they
// are so that missing files are reported by the relocation itself
func expandArgs(ctx context.Context, fs afero.Fs, args []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	var out []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			out = append(out, filepath.Clean(arg))
			continue
		}

		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, errors.Errorf("resolving %s: %w", arg, err)
		}

		base, pattern := doublestar.SplitPattern(filepath.ToSlash(abs))
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid glob pattern %q", arg)
		}

		fsys := afero.NewIOFS(afero.NewBasePathFs(fs, filepath.FromSlash(base)))
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %s: %w", arg, err)
		}

		logger.Debug().Str("pattern", arg).Int("matches", len(matches)).Msg("expanded glob")
		for _, m := range matches {
			out = append(out, filepath.Join(filepath.FromSlash(base), filepath.FromSlash(m)))
		}
	}

	slices.Sort(out)
	return slices.Compact(out), nil
}
