// Package config loads tracelens configuration from a TOML file,
// applying defaults for anything unset and collecting warnings for
// unknown keys.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Analysis AnalysisConfig
	Output   OutputConfig
}

// AnalysisConfig holds the pipeline thresholds.
type AnalysisConfig struct {
	MinDurationMS float64   `toml:"min_duration_ms"`
	TopFiles      int       `toml:"top_files"`
	TopLocations  int       `toml:"top_locations"`
	Percentiles   []float64 `toml:"percentiles"`
}

// OutputConfig holds report-export options.
type OutputConfig struct {
	Pretty bool   `toml:"pretty"`
	Color  string `toml:"color"` // auto|on|off
}

// LoadResult pairs a loaded Config with non-fatal warnings.
type LoadResult struct {
	Config   Config
	Warnings []string
}

func DefaultConfig() Config {
	return Config{
		Analysis: AnalysisConfig{
			MinDurationMS: 0,
			TopFiles:      10,
			TopLocations:  10,
			Percentiles:   []float64{50, 90, 95, 99},
		},
		Output: OutputConfig{
			Pretty: false,
			Color:  "auto",
		},
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tracelens", "config.toml")
}

// Load reads the config from its default location. A missing file is not
// an error; defaults are returned.
func Load() (*LoadResult, error) {
	return LoadFrom(defaultConfigPath())
}

// LoadFrom reads the config from path. A missing file yields defaults.
func LoadFrom(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			return &LoadResult{Config: cfg}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromString(string(data))
}

type tomlFile struct {
	Analysis *AnalysisConfig `toml:"analysis"`
	Output   *OutputConfig   `toml:"output"`
}

// LoadFromString parses TOML config data. Only keys present in the file
// override defaults, so a partial config leaves the rest untouched.
func LoadFromString(data string) (*LoadResult, error) {
	cfg := DefaultConfig()
	result := &LoadResult{Config: cfg}

	if data == "" {
		return result, nil
	}

	var raw map[string]any
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	knownTopLevel := map[string]bool{
		"analysis": true,
		"output":   true,
	}
	for key := range raw {
		if !knownTopLevel[key] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("unknown config key: %q", key))
		}
	}

	var tf tomlFile
	if _, err := toml.Decode(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	mergeFromRaw(&result.Config, &tf, raw)

	if err := validate(&result.Config); err != nil {
		return nil, err
	}

	return result, nil
}

func mergeFromRaw(cfg *Config, tf *tomlFile, raw map[string]any) {
	if tf.Analysis != nil {
		if section, ok := rawSection(raw, "analysis"); ok {
			if _, exists := section["min_duration_ms"]; exists {
				cfg.Analysis.MinDurationMS = tf.Analysis.MinDurationMS
			}
			if _, exists := section["top_files"]; exists {
				cfg.Analysis.TopFiles = tf.Analysis.TopFiles
			}
			if _, exists := section["top_locations"]; exists {
				cfg.Analysis.TopLocations = tf.Analysis.TopLocations
			}
			if _, exists := section["percentiles"]; exists {
				cfg.Analysis.Percentiles = tf.Analysis.Percentiles
			}
		}
	}
	if tf.Output != nil {
		if section, ok := rawSection(raw, "output"); ok {
			if _, exists := section["pretty"]; exists {
				cfg.Output.Pretty = tf.Output.Pretty
			}
			if _, exists := section["color"]; exists {
				cfg.Output.Color = tf.Output.Color
			}
		}
	}
}

func rawSection(raw map[string]any, key string) (map[string]any, bool) {
	v, ok := raw[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Analysis.MinDurationMS < 0 {
		errs = append(errs, fmt.Sprintf("min_duration_ms must not be negative, got %f", cfg.Analysis.MinDurationMS))
	}
	if cfg.Analysis.TopFiles < 1 {
		errs = append(errs, fmt.Sprintf("top_files must be positive, got %d", cfg.Analysis.TopFiles))
	}
	if cfg.Analysis.TopLocations < 1 {
		errs = append(errs, fmt.Sprintf("top_locations must be positive, got %d", cfg.Analysis.TopLocations))
	}
	for _, p := range cfg.Analysis.Percentiles {
		if p < 0 || p > 100 {
			errs = append(errs, fmt.Sprintf("percentiles must be 0-100, got %f", p))
		}
	}

	switch cfg.Output.Color {
	case "auto", "on", "off":
	default:
		errs = append(errs, fmt.Sprintf("output color must be auto, on or off, got %q", cfg.Output.Color))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation error: %s", strings.Join(errs, "; "))
	}
	return nil
}
