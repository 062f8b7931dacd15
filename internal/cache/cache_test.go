package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/command-schema/discover/internal/schema"
)

func TestCache_PutThenGet(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	require.NoError(t, err)

	exe := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))

	key, err := BuildKey("tool", exe, "help", "1.0.0", 0.5, 0.3, false)
	require.NoError(t, err)

	entry := Entry{
		Key:    key,
		Schema: schema.NewCommandSchema("tool", schema.SourceHelpCommand),
		Report: *schema.NewExtractionReport("tool"),
	}
	require.NoError(t, c.Put(entry))

	got, hit, err := c.Get(key)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "tool", got.Schema.Command)
}

func TestCache_GetMissReturnsNoError(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	require.NoError(t, err)

	got, hit, err := c.Get(Key{Command: "missing"})
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, got)
}

func TestCache_GetCorruptFileIsTreatedAsMiss(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	require.NoError(t, err)

	key := Key{Command: "tool"}
	require.NoError(t, os.WriteFile(c.entryPath(key), []byte("not json"), 0o644))

	got, hit, err := c.Get(key)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, got)
}

func TestBuildKey_DifferentThresholdsProduceDifferentHashes(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(exe, []byte("x"), 0o755))

	k1, err := BuildKey("tool", exe, "help", "", 0.5, 0.3, false)
	require.NoError(t, err)
	k2, err := BuildKey("tool", exe, "help", "", 0.6, 0.3, false)
	require.NoError(t, err)

	assert.NotEqual(t, k1.hash(), k2.hash())
}

func TestDefaultDir_RespectsXDGCacheHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")
	assert.Equal(t, "/tmp/xdg-test/command-schema-discover", DefaultDir())
}
