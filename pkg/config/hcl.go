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
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
// Expressions may refer to current_year.
type HCLParser struct {
	// Now overrides the clock behind current_year
	Now func() time.Time
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "examsort.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"current_year": cty.NumberIntVal(int64(now().Year())),
		},
	}

	// Define HCL schema; unset fields keep their defaults
	type hclConfig struct {
		Version         string   `hcl:"version,optional"`
		Specializations []string `hcl:"specializations,optional"`
		ExamParts       []string `hcl:"exam_parts,optional"`
		FileTypes       []string `hcl:"file_types,optional"`
		Periods         []string `hcl:"periods,optional"`
		Years           *struct {
			Past   *int `hcl:"past,optional"`
			Future *int `hcl:"future,optional"`
		} `hcl:"years,block"`
		Progress *struct {
			Mode     string `hcl:"mode,optional"`
			Interval string `hcl:"interval,optional"`
		} `hcl:"progress,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Overlay onto defaults
	cfg := Default()
	if hclCfg.Version != "" {
		cfg.Version = hclCfg.Version
	}
	if hclCfg.Specializations != nil {
		cfg.Specializations = hclCfg.Specializations
	}
	if hclCfg.ExamParts != nil {
		cfg.ExamParts = hclCfg.ExamParts
	}
	if hclCfg.FileTypes != nil {
		cfg.FileTypes = hclCfg.FileTypes
	}
	if hclCfg.Periods != nil {
		cfg.Periods = hclCfg.Periods
	}
	if hclCfg.Years != nil {
		if hclCfg.Years.Past != nil {
			cfg.Years.Past = *hclCfg.Years.Past
		}
		if hclCfg.Years.Future != nil {
			cfg.Years.Future = *hclCfg.Years.Future
		}
	}
	if hclCfg.Progress != nil {
		if hclCfg.Progress.Mode != "" {
			cfg.Progress.Mode = hclCfg.Progress.Mode
		}
		if hclCfg.Progress.Interval != "" {
			cfg.Progress.Interval = hclCfg.Progress.Interval
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
