package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFlags_ToConfig_FlagsOverrideDefaults(t *testing.T) {
	f := &configFlags{
		minConfidence:  0.9,
		minCoverage:    0.5,
		probeTimeoutMs: 5000,
		jobs:           4,
	}
	cfg, err := f.toConfig(false)
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.MinConfidence)
	assert.Equal(t, 0.5, cfg.MinCoverage)
	assert.Equal(t, 5000, cfg.ProbeTimeoutMs)
	assert.Equal(t, 4, cfg.Jobs)
}

func TestConfigFlags_ToConfig_CacheOnlyOverriddenWhenChanged(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("cache_enabled: false\n"), 0o644))

	f := &configFlags{configFile: configPath, cacheEnabled: true}

	cfg, err := f.toConfig(false)
	require.NoError(t, err)
	assert.False(t, cfg.CacheEnabled, "config file's cache_enabled should survive when --cache wasn't passed")

	cfg, err = f.toConfig(true)
	require.NoError(t, err)
	assert.True(t, cfg.CacheEnabled, "explicit --cache should override the config file")
}

func TestConfigFlags_ToConfig_ZeroValuedFlagsDontClobberConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("min_confidence: 0.75\njobs: 8\n"), 0o644))

	f := &configFlags{configFile: configPath}
	cfg, err := f.toConfig(false)
	require.NoError(t, err)
	assert.Equal(t, 0.75, cfg.MinConfidence)
	assert.Equal(t, 8, cfg.Jobs)
}

func TestConfigFlags_ToConfig_MissingConfigFileErrors(t *testing.T) {
	f := &configFlags{configFile: "/nonexistent/config.yaml"}
	_, err := f.toConfig(false)
	assert.Error(t, err)
}
