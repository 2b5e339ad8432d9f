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
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/examsort/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// DefaultVersion is the application version reported when none is configured
const DefaultVersion = "2.1"

// DefaultPath is the configuration file looked up when none is given
const DefaultPath = "examsort.yaml"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes, on top of the defaults
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	name := strings.ToLower(strings.TrimSpace(filepath.Base(filename)))
	for _, p := range parsers {
		if p.CanParse(name) {
			return p
		}
	}
	return nil
}

// 📅 Years is the window of selectable years around the current one
type Years struct {
	Past   int `json:"past" yaml:"past"`
	Future int `json:"future" yaml:"future"`
}

// 📊 Progress selects how runner progress is reported
type Progress struct {
	Mode     string `json:"mode" yaml:"mode"`         // steps or ramp
	Interval string `json:"interval" yaml:"interval"` // pause between ramp values, e.g. 50ms
}

// 📚 Config holds the option lists offered for classification and the
// runner's progress settings
type Config struct {
	Version         string   `json:"version" yaml:"version"`
	Specializations []string `json:"specializations" yaml:"specializations"`
	ExamParts       []string `json:"exam_parts" yaml:"exam_parts"`
	FileTypes       []string `json:"file_types" yaml:"file_types"`
	Periods         []string `json:"periods" yaml:"periods"`
	Years           Years    `json:"years" yaml:"years"`
	Progress        Progress `json:"progress" yaml:"progress"`
}

// 🏭 Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Version: DefaultVersion,
		Specializations: []string{
			"Anwendungsentwicklung",
			"Systemintegration",
			"Digitale Vernetzung",
			"Daten- und Prozessanalyse",
			"WISO",
		},
		ExamParts: []string{"AP1", "AP2"},
		FileTypes: []string{"Löser", "Aufgabenblatt", "Belegsatz"},
		Periods:   []string{"Sommer", "Winter"},
		Years:     Years{Past: 5, Future: 5},
		Progress: Progress{
			Mode:     string(operation.ProgressSteps),
			Interval: "50ms",
		},
	}
}

// 🎯 Load loads the configuration from a file. Values present in the file
// replace the defaults, everything else keeps its default.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("version", cfg.Version).Str("progress", cfg.Progress.Mode).Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in missing scalar defaults
func (cfg *Config) Validate() error {
	// Set defaults
	if strings.TrimSpace(cfg.Version) == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Progress.Mode == "" {
		cfg.Progress.Mode = string(operation.ProgressSteps)
	}

	// Check required lists
	lists := []struct {
		name   string
		values []string
	}{
		{"specializations", cfg.Specializations},
		{"exam_parts", cfg.ExamParts},
		{"file_types", cfg.FileTypes},
		{"periods", cfg.Periods},
	}
	for _, l := range lists {
		if len(l.values) == 0 {
			return errors.Errorf("%s must not be empty", l.name)
		}
		for i, v := range l.values {
			if strings.TrimSpace(v) == "" {
				return errors.Errorf("%s[%d] is blank", l.name, i)
			}
		}
	}

	if cfg.Years.Past < 0 || cfg.Years.Future < 0 {
		return errors.Errorf("years.past and years.future must not be negative")
	}

	mode, err := operation.ParseProgressMode(cfg.Progress.Mode)
	if err != nil {
		return errors.Errorf("progress.mode: %w", err)
	}
	cfg.Progress.Mode = string(mode)

	if _, err := cfg.IntervalDuration(); err != nil {
		return err
	}

	return nil
}

// ProgressMode returns the configured progress mode
func (cfg *Config) ProgressMode() operation.ProgressMode {
	mode, err := operation.ParseProgressMode(cfg.Progress.Mode)
	if err != nil {
		return operation.ProgressSteps
	}
	return mode
}

// ⏱️ IntervalDuration parses the ramp interval; an empty interval is zero
func (cfg *Config) IntervalDuration() (time.Duration, error) {
	if strings.TrimSpace(cfg.Progress.Interval) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(cfg.Progress.Interval))
	if err != nil {
		return 0, errors.Errorf("progress.interval: %w", err)
	}
	if d < 0 {
		return 0, errors.Errorf("progress.interval must not be negative")
	}
	return d, nil
}

// 🔧 RunnerOptions translates the progress settings into runner options
func (cfg *Config) RunnerOptions() []operation.RunnerOption {
	interval, err := cfg.IntervalDuration()
	if err != nil {
		interval = 0
	}
	return []operation.RunnerOption{
		operation.WithProgressMode(cfg.ProgressMode()),
		operation.WithRampInterval(interval),
	}
}
