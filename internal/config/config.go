// Package config defines the extraction pipeline's config knobs (§6)
// and loads them from an optional YAML file, layered under CLI-flag
// overrides applied by the caller.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every caller-tunable knob of the pipeline.
type Config struct {
	MinConfidence   float64 `yaml:"min_confidence"`
	MinCoverage     float64 `yaml:"min_coverage"`
	AllowLowQuality bool    `yaml:"allow_low_quality"`
	ProbeTimeoutMs  int     `yaml:"probe_timeout_ms"`
	InstalledOnly   bool    `yaml:"installed_only"`
	Jobs            int     `yaml:"jobs"`
	CacheEnabled    bool    `yaml:"cache_enabled"`
	CacheDir        string  `yaml:"cache_dir"`
	AllowRecursion  bool    `yaml:"allow_recursion"`
	UnionProbes     bool    `yaml:"union_probes"`
}

// Default returns the spec-mandated defaults from §6.
func Default() Config {
	return Config{
		MinConfidence:   0.0,
		MinCoverage:     0.0,
		AllowLowQuality: false,
		ProbeTimeoutMs:  3000,
		InstalledOnly:   false,
		Jobs:            0, // 0 means "hardware parallelism", resolved by the pipeline.
		CacheEnabled:    true,
		AllowRecursion:  false,
		UnionProbes:     false,
	}
}

// Load reads a YAML config file and overlays it onto Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
