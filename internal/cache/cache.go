// Package cache implements the Fingerprint Cache stage (§4.8): a
// file-based memoizer keyed by executable identity and extraction
// policy, with readers-writer discipline (readers never block readers).
package cache

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"

	gojson "github.com/goccy/go-json"

	"github.com/command-schema/discover/internal/schema"
)

// Key identifies one cache entry. Confidence/coverage thresholds are
// stored as integer basis points (0-10000) rather than floats so the
// key hashes deterministically, per §4.8.
type Key struct {
	Command              string
	ExecutablePath       string
	FingerprintSizeBytes int64
	FingerprintMtimeSecs int64
	ProbeMode            string
	NormalizedVersion    string
	MinConfidenceBp      int
	MinCoverageBp        int
	AllowLowQuality      bool
}

func (k Key) hash() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d|%d|%s|%s|%d|%d|%t",
		k.Command, k.ExecutablePath, k.FingerprintSizeBytes, k.FingerprintMtimeSecs,
		k.ProbeMode, k.NormalizedVersion, k.MinConfidenceBp, k.MinCoverageBp, k.AllowLowQuality)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Entry is the cached value: the extracted schema and report, plus the
// version string detected when the entry was written.
type Entry struct {
	Key               Key                      `json:"key"`
	Schema            schema.CommandSchema     `json:"schema"`
	Report            schema.ExtractionReport  `json:"report"`
	DetectedVersion   string                   `json:"detected_version,omitempty"`
	CachedAt          string                   `json:"cached_at"`
}

// Cache is a directory of one JSON file per entry, named by the key's
// hash. A mutex serializes writes; reads take no lock beyond the OS's
// own file-read atomicity, so readers never block each other.
type Cache struct {
	dir string
	mu  sync.Mutex
}

// DefaultDir resolves the cache directory from XDG_CACHE_HOME, falling
// back to $HOME/.cache, under a fixed subdirectory.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "command-schema-discover")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "command-schema-discover")
	}
	return filepath.Join(home, ".cache", "command-schema-discover")
}

// New returns a Cache rooted at dir, creating it if necessary.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) entryPath(key Key) string {
	return filepath.Join(c.dir, key.hash()+".json")
}

// Get looks up an entry by key. A miss (file absent) or a corrupt file
// both return (nil, false, nil): callers fall through to the full
// pipeline on any miss, and cache corruption is never a fatal error.
func (c *Cache) Get(key Key) (*Entry, bool, error) {
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, nil
	}
	var entry Entry
	if err := gojson.Unmarshal(data, &entry); err != nil {
		return nil, false, nil
	}
	if entry.Key != key {
		return nil, false, nil
	}
	return &entry, true, nil
}

// Put writes an entry, overwriting any existing file for the same key.
func (c *Cache) Put(entry Entry) error {
	data, err := gojson.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tmp := c.entryPath(entry.Key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("cache: write entry: %w", err)
	}
	if err := os.Rename(tmp, c.entryPath(entry.Key)); err != nil {
		return fmt.Errorf("cache: commit entry: %w", err)
	}
	return nil
}

// BuildKey resolves an executable's fingerprint (size+mtime) and
// constructs the cache key for it.
func BuildKey(command, executablePath, probeMode, normalizedVersion string, minConfidence, minCoverage float64, allowLowQuality bool) (Key, error) {
	info, err := os.Stat(executablePath)
	if err != nil {
		return Key{}, fmt.Errorf("cache: stat executable: %w", err)
	}
	return Key{
		Command:              command,
		ExecutablePath:       executablePath,
		FingerprintSizeBytes: info.Size(),
		FingerprintMtimeSecs: info.ModTime().Unix(),
		ProbeMode:            probeMode,
		NormalizedVersion:    normalizedVersion,
		MinConfidenceBp:      int(minConfidence * 10000),
		MinCoverageBp:        int(minCoverage * 10000),
		AllowLowQuality:      allowLowQuality,
	}, nil
}
