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
	"encoding/json"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/examsort/cmd/examsort/opts"
	"github.com/walteh/examsort/pkg/config"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// NewOptionsCmd creates the options command
func NewOptionsCmd(o *opts.RootOpts) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show the configured classification options",
		Long: `Options prints the specializations, exam parts, file types, periods and
years offered for classification, along with the defaults used when a
relocate flag is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.Options()
			w := cmd.OutOrStdout()

			switch format {
			case "table":
				return renderOptionsTable(w, o, cfg)
			case "yaml":
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(cfg); err != nil {
					return errors.Errorf("encoding YAML: %w", err)
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(cfg); err != nil {
					return errors.Errorf("encoding JSON: %w", err)
				}
				return nil
			default:
				return errors.Errorf("unknown format %q, want table, yaml or json", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, yaml or json")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "yaml", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func renderOptionsTable(w io.Writer, o *opts.RootOpts, cfg *config.Config) error {
	now := o.Clock.Now()
	def := cfg.DefaultRequest(now)

	data := pterm.TableData{
		{"Option", "Values", "Default"},
		{"Specialization", strings.Join(cfg.Specializations, ", "), def.Specialization},
		{"Exam part", strings.Join(cfg.ExamParts, ", "), def.ExamPart},
		{"File type", strings.Join(cfg.FileTypes, ", "), def.FileType},
		{"Period", strings.Join(cfg.Periods, ", "), def.Period},
		{"Year", strings.Join(cfg.YearOptions(now), ", "), def.Year},
		{"Progress", "steps, ramp", string(cfg.ProgressMode())},
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render(); err != nil {
		return errors.Errorf("rendering options: %w", err)
	}
	return nil
}
