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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/examsort/pkg/operation"
	"github.com/walteh/examsort/pkg/relocate"
)

var june2025 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "empty_yaml_yields_defaults",
			filename: "examsort.yaml",
			config:   "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name:     "yaml_overlays_defaults",
			filename: "examsort.yml",
			config: `
version: "3.0"
specializations:
  - Systemintegration
years:
  past: 0
progress:
  mode: ramp
  interval: 10ms
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "3.0", cfg.Version)
				assert.Equal(t, []string{"Systemintegration"}, cfg.Specializations, "list should be replaced")
				assert.Equal(t, []string{"AP1", "AP2"}, cfg.ExamParts, "unset list should keep default")
				assert.Equal(t, 0, cfg.Years.Past)
				assert.Equal(t, 5, cfg.Years.Future)
				assert.Equal(t, operation.ProgressRamp, cfg.ProgressMode())
				d, err := cfg.IntervalDuration()
				require.NoError(t, err)
				assert.Equal(t, 10*time.Millisecond, d)
			},
		},
		{
			name:        "yaml_unknown_field",
			filename:    "examsort.yaml",
			config:      "destination: /tmp\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "yaml_empty_list_rejected",
			filename:    "examsort.yaml",
			config:      "periods: []\n",
			wantErr:     true,
			errContains: "periods must not be empty",
		},
		{
			name:     "json_overlays_defaults",
			filename: "examsort.json",
			config:   `{"file_types": ["Löser"], "progress": {"mode": "steps"}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"Löser"}, cfg.FileTypes)
				assert.Equal(t, DefaultVersion, cfg.Version)
				assert.Equal(t, operation.ProgressSteps, cfg.ProgressMode())
			},
		},
		{
			name:        "json_unknown_field",
			filename:    "examsort.json",
			config:      `{"repo": "x"}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:     "hcl_overlays_defaults",
			filename: "examsort.hcl",
			config: `
version = "2.2"
periods = ["Winter"]

years {
  future = 2
}

progress {
  mode = "ramp"
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "2.2", cfg.Version)
				assert.Equal(t, []string{"Winter"}, cfg.Periods)
				assert.Equal(t, 5, cfg.Years.Past)
				assert.Equal(t, 2, cfg.Years.Future)
				assert.Equal(t, operation.ProgressRamp, cfg.ProgressMode())
				assert.Equal(t, "50ms", cfg.Progress.Interval)
			},
		},
		{
			name:        "hcl_unknown_attribute",
			filename:    "examsort.hcl",
			config:      `destination = "/tmp"`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "bad_progress_mode",
			filename:    "examsort.yaml",
			config:      "progress:\n  mode: bounce\n",
			wantErr:     true,
			errContains: "progress.mode",
		},
		{
			name:        "bad_interval",
			filename:    "examsort.yaml",
			config:      "progress:\n  interval: soon\n",
			wantErr:     true,
			errContains: "progress.interval",
		},
		{
			name:        "negative_years",
			filename:    "examsort.yaml",
			config:      "years:\n  past: -1\n",
			wantErr:     true,
			errContains: "must not be negative",
		},
		{
			name:        "unsupported_extension",
			filename:    "examsort.toml",
			config:      "",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.New(zerolog.NewTestWriter(t))
			ctx := logger.WithContext(context.Background())

			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0o644))

			cfg, err := Load(ctx, path)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHCLCurrentYear(t *testing.T) {
	p := &HCLParser{Now: func() time.Time { return june2025 }}

	cfg, err := p.Parse(context.Background(), []byte(`
years {
  past = current_year - 2020
}
`))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Years.Past)
	assert.Equal(t, "2020", cfg.YearOptions(june2025)[0])
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{name: "yaml", filename: "/etc/examsort.yaml", want: &YAMLParser{}},
		{name: "yml_upper", filename: "CONFIG.YML", want: &YAMLParser{}},
		{name: "json", filename: "x.json", want: &JSONParser{}},
		{name: "hcl", filename: "x.hcl", want: &HCLParser{}},
		{name: "none", filename: "x.ini", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestYearOptions(t *testing.T) {
	cfg := Default()
	years := cfg.YearOptions(june2025)

	require.Len(t, years, 11)
	assert.Equal(t, "2020", years[0])
	assert.Equal(t, "2030", years[10])
	assert.Equal(t, "2025", cfg.DefaultYear(june2025))
	assert.Contains(t, years, cfg.DefaultYear(june2025))
}

func TestDefaultRequest(t *testing.T) {
	req := Default().DefaultRequest(june2025)

	assert.Equal(t, relocate.Request{
		Specialization: "Anwendungsentwicklung",
		ExamPart:       "AP1",
		FileType:       "Löser",
		Year:           "2025",
		Period:         "Sommer",
	}, req)
}

func TestUnlisted(t *testing.T) {
	cfg := Default()

	req := cfg.DefaultRequest(june2025)
	assert.Empty(t, cfg.Unlisted(req, june2025))

	req.Specialization = "Kochen"
	req.Year = "1999"
	assert.Equal(t, []string{"specialization", "year"}, cfg.Unlisted(req, june2025))
}

func TestRunnerOptions(t *testing.T) {
	cfg := Default()
	cfg.Progress.Mode = "ramp"
	cfg.Progress.Interval = "0s"
	require.NoError(t, cfg.Validate())

	runner := operation.NewRunner(nil, cfg.RunnerOptions()...)
	assert.Equal(t, operation.StateIdle, runner.State())
}
