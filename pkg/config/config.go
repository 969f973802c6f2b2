package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// SettingsFile is the optional TOML file read from the working directory
const SettingsFile = "borda.toml"

// EnvPrefix prefixes environment overrides (e.g. BORDA_JOBS=4)
const EnvPrefix = "BORDA_"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the settings of one borda invocation
type Config struct {
	EvalConfig     string   `koanf:"config" validate:"required"`
	Selected       []string `koanf:"selected" validate:"dive,required"`
	Method         string   `koanf:"method" validate:"oneof=average min max first"`
	Jobs           int      `koanf:"jobs" validate:"min=1,max=64"`
	IncludeWeights bool     `koanf:"include-weights"`
	Report         bool     `koanf:"report"`
	Progress       bool     `koanf:"progress"`
	Watch          bool     `koanf:"watch"`
	JSONLogs       bool     `koanf:"json-logs"`
	Verbosity      string   `koanf:"verbosity"`
	VerboseCnt     int      `koanf:"verbose"`
}

// Defaults returns the lowest-priority configuration layer
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"config":          "config.yaml",
		"selected":        []string{},
		"method":          "average",
		"jobs":            1,
		"include-weights": false,
		"report":          true,
		"progress":        true,
		"watch":           false,
		"json-logs":       false,
		"verbosity":       "",
		"verbose":         0,
	}
}

// RegisterFlags declares the command line flags understood by Load
func RegisterFlags(f *pflag.FlagSet) {
	f.StringP("config", "c", "config.yaml", "Path to the evaluation config (YAML)")
	f.StringSliceP("selected", "s", nil, "Algorithms used for the sBorda/smBorda scores (default: all)")
	f.StringP("method", "m", "average", "Tie handling when ranking: average, min, max or first")
	f.IntP("jobs", "j", 1, "Number of datasets aggregated concurrently")
	f.Bool("include-weights", false, "Also write per-algorithm normalized weights to the Borda table")
	f.Bool("report", true, "Write a coverage manifest next to each Borda table")
	f.Bool("progress", true, "Show progress bars on stderr")
	f.BoolP("watch", "w", false, "Re-aggregate when ranked edge files change")
	f.Bool("json-logs", false, "Emit logs as JSON")
	f.String("verbosity", "", "Log level: trace, debug, info, warn or error")
	f.CountP("verbose", "v", "Increase log verbosity (repeatable)")
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	return LoadFrom(SettingsFile, f)
}

// LoadFrom is Load with an explicit settings file path
func LoadFrom(settingsPath string, f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Settings file (optional)
	if settingsPath != "" {
		if exists(settingsPath) {
			if err := k.Load(file.Provider(settingsPath), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", settingsPath, err)
			}
		}
	}

	// 3. Environment Variables
	// BORDA_INCLUDE_WEIGHTS=true -> include-weights, BORDA_SELECTED=a,b -> [a b]
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_", "-")
		if key == "selected" {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Selected = splitList(strings.Join(cfg.Selected, ","))

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &cfg, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
