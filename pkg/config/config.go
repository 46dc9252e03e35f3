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

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/match"
	"github.com/walteh/patchrc/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config is a plan file: one or more named plans.
type Config struct {
	Plans []PlanConfig `json:"plans" yaml:"plans" hcl:"plan,block"`

	location string
}

// 📦 PlanConfig describes one plan against one target document.
type PlanConfig struct {
	Name       string            `json:"name" yaml:"name" hcl:"name,label"`
	Target     string            `json:"target" yaml:"target" hcl:"target"`
	Policy     string            `json:"policy,omitempty" yaml:"policy,omitempty" hcl:"policy,optional"`
	Requires   []string          `json:"requires,omitempty" yaml:"requires,omitempty" hcl:"requires,optional"`
	Operations []OperationConfig `json:"operations" yaml:"operations" hcl:"edit,block"`
}

// ✏️ OperationConfig is one edit. Exactly one of Find or Regex is set, and at most one
// of Replace or ReplaceFile.
type OperationConfig struct {
	Find        string `json:"find,omitempty" yaml:"find,omitempty" hcl:"find,optional"`
	Regex       string `json:"regex,omitempty" yaml:"regex,omitempty" hcl:"regex,optional"`
	Flags       string `json:"flags,omitempty" yaml:"flags,omitempty" hcl:"flags,optional"`
	Replace     string `json:"replace" yaml:"replace" hcl:"replace,optional"`
	ReplaceFile string `json:"replace_file,omitempty" yaml:"replace_file,omitempty" hcl:"replace_file,optional"`
	Expect      int    `json:"expect,omitempty" yaml:"expect,omitempty" hcl:"expect,optional"`
	Optional    bool   `json:"optional,omitempty" yaml:"optional,omitempty" hcl:"optional,optional"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" hcl:"description,optional"`
}

// Load reads, parses and validates a plan file. The parser is chosen by extension.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading plan file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading plan file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file %q (want .yaml, .yml, .hcl or .json)", path)
	}

	cfg, err := p.Parse(ctx, data, path)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", path, err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}

	logger.Debug().Int("plans", len(cfg.Plans)).Msg("plan file loaded")
	return cfg, nil
}

// Location is the path the config was loaded from.
func (c *Config) Location() string { return c.location }

// Dir is the directory relative paths in the config resolve against.
func (c *Config) Dir() string {
	if c.location == "" {
		return "."
	}
	return filepath.Dir(c.location)
}

// Validate checks the config by building every plan.
func (c *Config) Validate() error {
	_, err := c.Build()
	return err
}

// Build turns every PlanConfig into a patch.Plan. Regex patterns and preconditions are
// compiled here, so a bad expression fails before any document is loaded.
func (c *Config) Build() ([]*patch.Plan, error) {
	if len(c.Plans) == 0 {
		return nil, errors.Errorf("no plans defined")
	}

	seen := make(map[string]bool, len(c.Plans))
	plans := make([]*patch.Plan, 0, len(c.Plans))
	for i, pc := range c.Plans {
		if pc.Name == "" {
			return nil, errors.Errorf("plan %d: name is required", i)
		}
		if seen[pc.Name] {
			return nil, errors.Errorf("plan %q: duplicate name", pc.Name)
		}
		seen[pc.Name] = true

		plan, err := c.buildPlan(pc)
		if err != nil {
			return nil, errors.Errorf("plan %q: %w", pc.Name, err)
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

func (c *Config) buildPlan(pc PlanConfig) (*patch.Plan, error) {
	if strings.TrimSpace(pc.Target) == "" {
		return nil, errors.Errorf("target is required")
	}
	if len(pc.Operations) == 0 {
		return nil, errors.Errorf("at least one operation is required")
	}

	policy, err := patch.ParsePolicy(pc.Policy)
	if err != nil {
		return nil, err
	}

	conds := make([]patch.Precondition, 0, len(pc.Requires))
	for _, src := range pc.Requires {
		cond, err := patch.NewPrecondition(src)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}

	ops := make([]patch.Operation, 0, len(pc.Operations))
	for i, oc := range pc.Operations {
		op, err := c.buildOperation(oc)
		if err != nil {
			return nil, errors.Errorf("operation %d: %w", i, err)
		}
		ops = append(ops, op)
	}

	return patch.NewPlan(pc.Name, pc.Target, ops, patch.WithPolicy(policy), patch.WithPreconditions(conds...))
}

func (c *Config) buildOperation(oc OperationConfig) (patch.Operation, error) {
	var (
		pattern match.Pattern
		err     error
	)
	switch {
	case oc.Find != "" && oc.Regex != "":
		return patch.Operation{}, errors.Errorf("find and regex are mutually exclusive")
	case oc.Find != "":
		if oc.Flags != "" {
			return patch.Operation{}, errors.Errorf("flags only apply to regex operations")
		}
		pattern, err = match.Literal(oc.Find)
	case oc.Regex != "":
		pattern, err = match.Regex(oc.Regex, oc.Flags)
	default:
		return patch.Operation{}, errors.Errorf("one of find or regex is required")
	}
	if err != nil {
		return patch.Operation{}, err
	}

	replacement := oc.Replace
	if oc.ReplaceFile != "" {
		if oc.Replace != "" {
			return patch.Operation{}, errors.Errorf("replace and replace_file are mutually exclusive")
		}
		data, err := os.ReadFile(c.resolve(oc.ReplaceFile))
		if err != nil {
			return patch.Operation{}, errors.Errorf("reading replace_file: %w", err)
		}
		replacement = string(data)
	}

	opts := []patch.OperationOption{
		patch.WithOptional(oc.Optional),
		patch.WithDescription(oc.Description),
	}
	if oc.Expect != 0 {
		opts = append(opts, patch.WithExpect(oc.Expect))
	}

	return patch.NewOperation(pattern, replacement, opts...)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Select builds the plans whose name is in names (all plans when names is empty) and
// whose target matches the doublestar glob (all targets when glob is empty).
// Plans keep their file order.
func (c *Config) Select(names []string, glob string) ([]*patch.Plan, error) {
	plans, err := c.Build()
	if err != nil {
		return nil, err
	}

	if glob != "" && !doublestar.ValidatePattern(glob) {
		return nil, errors.Errorf("invalid target glob %q", glob)
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = false
	}

	var out []*patch.Plan
	for _, p := range plans {
		if len(names) > 0 {
			if _, ok := wanted[p.Name()]; !ok {
				continue
			}
			wanted[p.Name()] = true
		}
		if glob != "" {
			ok, err := doublestar.Match(glob, p.Target())
			if err != nil {
				return nil, errors.Errorf("matching target glob: %w", err)
			}
			if !ok {
				continue
			}
		}
		out = append(out, p)
	}

	for n, found := range wanted {
		if !found {
			return nil, errors.Errorf("unknown plan %q", n)
		}
	}

	return out, nil
}
