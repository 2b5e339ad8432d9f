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

package main

import (
	"context"
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/examsort/cmd/examsort/commands"
	"github.com/walteh/examsort/cmd/examsort/opts"
	"github.com/walteh/examsort/pkg/config"
	"github.com/walteh/examsort/pkg/log"
	"gitlab.com/tozd/go/errors"
)

type rootFlags struct {
	configFile string
	debug      bool
}

// newRootCmd creates the root command with all subcommands attached.
// Shared options are filled in by PersistentPreRunE, once flags are parsed.
func newRootCmd() *cobra.Command {
	var flags rootFlags
	o := &opts.RootOpts{
		Fs:    afero.NewOsFs(),
		Clock: clockwork.NewRealClock(),
	}

	cmd := &cobra.Command{
		Use:   "examsort",
		Short: "A tool for renaming and filing exam documents",
		Long: `examsort renames exam documents after their file type and the current time
and files them into a year/specialization/exam part directory tree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), cmd.ErrOrStderr(), flags.debug)

			ctx, err := initRootOpts(ctx, cmd, o, flags)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	addRootFlags(cmd, &flags)

	cmd.AddCommand(
		commands.NewRelocateCmd(o),
		commands.NewOptionsCmd(o),
		newVersionCmd(o),
	)

	return cmd
}

// initRootOpts loads the configuration and attaches the console logger to ctx
func initRootOpts(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts, flags rootFlags) (context.Context, error) {
	cfg, err := loadConfig(ctx, o.Fs, flags.configFile, cmd.Flags().Changed("config"))
	if err != nil {
		return ctx, err
	}

	o.Config = cfg
	o.Debug = flags.debug
	return log.NewContext(ctx, log.New(cmd.OutOrStdout(), *zerolog.Ctx(ctx))), nil
}

// loadConfig loads path; a missing default config file falls back to the defaults
func loadConfig(ctx context.Context, fs afero.Fs, path string, explicit bool) (*config.Config, error) {
	logger := zerolog.Ctx(ctx)

	if !explicit {
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return nil, errors.Errorf("checking config file: %w", err)
		}
		if !exists {
			logger.Debug().Str("path", path).Msg("no config file, using defaults")
			return config.Default(), nil
		}
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", config.DefaultPath, "config file path (.yaml, .yml, .hcl or .json)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

// setupLogging attaches a zerolog logger writing to w to ctx
func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, NoColor: w != os.Stderr}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}
