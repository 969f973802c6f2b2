package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrDuplicateName is returned when two datasets or two algorithms share a name.
var ErrDuplicateName = errors.New("duplicate name")

// EvalConfig describes which datasets and which algorithm outputs take part
// in an evaluation, and where their inputs and outputs live on disk.
//
// Layout:
//
//	{input_dir}/{dataset_dir}/{dataset.name}/{dataset.trueEdges}
//	{output_dir}/{dataset_dir}/{dataset.name}/{algorithm.name}/rankedEdges.csv
type EvalConfig struct {
	Input  InputSettings  `koanf:"input_settings"`
	Output OutputSettings `koanf:"output_settings"`
}

// InputSettings locates the reference networks and lists what to evaluate
type InputSettings struct {
	InputDir   string      `koanf:"input_dir" validate:"required"`
	DatasetDir string      `koanf:"dataset_dir"`
	Datasets   []Dataset   `koanf:"datasets" validate:"required,min=1,dive"`
	Algorithms []Algorithm `koanf:"algorithms" validate:"required,min=1,dive"`
}

// OutputSettings locates the algorithm outputs; Borda tables are written next to them
type OutputSettings struct {
	OutputDir    string `koanf:"output_dir" validate:"required"`
	OutputPrefix string `koanf:"output_prefix"`
}

// Dataset is a named group of inputs sharing one reference network
type Dataset struct {
	Name      string `koanf:"name" validate:"required,excludesall=/\\"`
	TrueEdges string `koanf:"trueEdges" validate:"required"`
}

// Algorithm names an inference method whose ranked edges are aggregated
type Algorithm struct {
	Name   string                 `koanf:"name" validate:"required,excludesall=/\\"`
	Params map[string]interface{} `koanf:"params"`
}

// ShouldRun reports whether the algorithm is enabled. Evaluation configs
// write the flag either as a bool or as a list of bools ([True]); a missing
// flag means enabled.
func (a Algorithm) ShouldRun() bool {
	v, ok := a.Params["should_run"]
	if !ok {
		return true
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	case []interface{}:
		for _, item := range t {
			if b, ok := item.(bool); ok && b {
				return true
			}
			if s, ok := item.(string); ok && strings.EqualFold(s, "true") {
				return true
			}
		}
		return false
	}
	return true
}

// DataDir is the directory holding one sub-directory per dataset of inputs
func (c *EvalConfig) DataDir() string {
	return filepath.Join(c.Input.InputDir, c.Input.DatasetDir)
}

// OutputDataDir is the directory holding one sub-directory per dataset of
// algorithm outputs. It mirrors DataDir below the output root.
func (c *EvalConfig) OutputDataDir() string {
	return filepath.Join(c.Output.OutputDir, c.Input.DatasetDir)
}

// InputDirFor returns the input directory of a dataset
func (c *EvalConfig) InputDirFor(ds Dataset) string {
	return filepath.Join(c.DataDir(), ds.Name)
}

// OutputDirFor returns the output directory of a dataset
func (c *EvalConfig) OutputDirFor(ds Dataset) string {
	return filepath.Join(c.OutputDataDir(), ds.Name)
}

// TrueEdgesPath returns the reference network file of a dataset
func (c *EvalConfig) TrueEdgesPath(ds Dataset) string {
	return filepath.Join(c.InputDirFor(ds), ds.TrueEdges)
}

// RankedEdgesPath returns the ranked edges file an algorithm wrote for a dataset
func (c *EvalConfig) RankedEdgesPath(ds Dataset, algorithm string) string {
	return filepath.Join(c.OutputDirFor(ds), algorithm, "rankedEdges.csv")
}

// EnabledAlgorithms returns the algorithms whose should_run flag is set, in config order
func (c *EvalConfig) EnabledAlgorithms() []Algorithm {
	out := make([]Algorithm, 0, len(c.Input.Algorithms))
	for _, a := range c.Input.Algorithms {
		if a.ShouldRun() {
			out = append(out, a)
		}
	}
	return out
}

// Validate checks struct constraints and name uniqueness
func (c *EvalConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid evaluation config: %w", err)
	}

	seen := make(map[string]bool, len(c.Input.Datasets))
	for _, ds := range c.Input.Datasets {
		if seen[ds.Name] {
			return fmt.Errorf("dataset %q: %w", ds.Name, ErrDuplicateName)
		}
		seen[ds.Name] = true
	}

	seen = make(map[string]bool, len(c.Input.Algorithms))
	for _, a := range c.Input.Algorithms {
		if seen[a.Name] {
			return fmt.Errorf("algorithm %q: %w", a.Name, ErrDuplicateName)
		}
		seen[a.Name] = true
	}
	return nil
}

// LoadEval reads and validates an evaluation config from a YAML file
func LoadEval(path string) (*EvalConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load evaluation config %s: %w", path, err)
	}

	var cfg EvalConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal evaluation config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
