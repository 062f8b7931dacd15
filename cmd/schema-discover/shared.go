package main

import (
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/command-schema/discover/internal/cache"
	"github.com/command-schema/discover/internal/config"
	"github.com/command-schema/discover/internal/obs"
	"github.com/command-schema/discover/internal/pipeline"
	"github.com/command-schema/discover/internal/quality"
)

func buildLogger() (*zap.Logger, error) {
	return obs.New(flagPretty, flagDebug)
}

// configFlags holds the config-knob flags of the extract subcommand.
type configFlags struct {
	minConfidence   float64
	minCoverage     float64
	allowLowQuality bool
	probeTimeoutMs  int
	installedOnly   bool
	jobs            int
	cacheEnabled    bool
	cacheDir        string
	configFile      string
	allowRecursion  bool
	unionProbes     bool
}

// toConfig layers the flag values onto the loaded config file. cache is
// a pflag.FlagSet bool default, so it's only allowed to override
// cfg.CacheEnabled when the user actually passed --cache; otherwise a
// config file's cache_enabled: false would be clobbered back to true
// by the flag's own default.
func (f *configFlags) toConfig(cacheChanged bool) (config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return cfg, err
	}
	if f.minConfidence != 0 {
		cfg.MinConfidence = f.minConfidence
	}
	if f.minCoverage != 0 {
		cfg.MinCoverage = f.minCoverage
	}
	if f.allowLowQuality {
		cfg.AllowLowQuality = true
	}
	if f.probeTimeoutMs != 0 {
		cfg.ProbeTimeoutMs = f.probeTimeoutMs
	}
	if f.installedOnly {
		cfg.InstalledOnly = true
	}
	if f.jobs != 0 {
		cfg.Jobs = f.jobs
	}
	if f.cacheDir != "" {
		cfg.CacheDir = f.cacheDir
	}
	if cacheChanged {
		cfg.CacheEnabled = f.cacheEnabled
	}
	if f.allowRecursion {
		cfg.AllowRecursion = true
	}
	if f.unionProbes {
		cfg.UnionProbes = true
	}
	return cfg, nil
}

func buildExtractor(cfg config.Config, logger *zap.Logger) (*pipeline.Extractor, error) {
	policy := quality.DefaultPolicy()
	policy.MinConfidence = cfg.MinConfidence
	policy.MinCoverage = cfg.MinCoverage
	policy.AllowLowQuality = cfg.AllowLowQuality

	var diskCache *cache.Cache
	if cfg.CacheEnabled {
		dir := cfg.CacheDir
		if dir == "" {
			dir = cache.DefaultDir()
		}
		c, err := cache.New(dir)
		if err != nil {
			return nil, err
		}
		diskCache = c
	}

	return pipeline.New(pipeline.Options{
		Policy:                policy,
		ProbeTimeout:          time.Duration(cfg.ProbeTimeoutMs) * time.Millisecond,
		Cache:                 diskCache,
		CacheEnabled:          cfg.CacheEnabled,
		AllowRecursion:        cfg.AllowRecursion,
		UnionSuccessiveProbes: cfg.UnionProbes,
		Jobs:                  cfg.Jobs,
		Logger:                logger,
	}), nil
}

func registerConfigFlags(fs *pflag.FlagSet, f *configFlags) {
	fs.Float64Var(&f.minConfidence, "min-confidence", 0, "Reject schemas below this confidence (0 keeps the config file's value)")
	fs.Float64Var(&f.minCoverage, "min-coverage", 0, "Reject schemas below this coverage (0 keeps the config file's value)")
	fs.BoolVar(&f.allowLowQuality, "allow-low-quality", false, "Admit tier \"low\" schemas")
	fs.IntVar(&f.probeTimeoutMs, "probe-timeout-ms", 0, "Per-probe timeout in milliseconds (0 keeps the config file's value)")
	fs.BoolVar(&f.installedOnly, "installed-only", false, "Skip commands not found on PATH")
	fs.IntVar(&f.jobs, "jobs", 0, "Worker count (0 means hardware parallelism)")
	fs.BoolVar(&f.cacheEnabled, "cache", true, "Consult and populate the fingerprint cache")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "Override the default XDG cache location")
	fs.StringVar(&f.configFile, "config", "", "Optional YAML config file")
	fs.BoolVar(&f.allowRecursion, "allow-recursion", false, "Recursively probe each discovered subcommand's own --help")
	fs.BoolVar(&f.unionProbes, "union-probes", false, "Probe both the man page and --help independently and Union-merge their positional args")
}
