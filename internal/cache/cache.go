package cache

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pawelks/receipt-resolver/internal/common"
	"github.com/pawelks/receipt-resolver/internal/entity"
)

// Cache is the persistent line→ProductMatch map. Keys are normalized full
// line text; entries never expire — they persist until the cache file is
// cleared by hand. Safe for concurrent use by multiple resolve calls.
type Cache struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	path    string
	entries map[string]entity.ProductMatch
}

// Load opens the cache file at path. A missing or unreadable file degrades to
// an empty cache with a logged warning, never an error.
func Load(path string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		logger:  logger,
		path:    path,
		entries: make(map[string]entity.ProductMatch),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cache.load.failed", "path", path, "error", err)
		}
		return c
	}
	if err := json.Unmarshal(raw, &c.entries); err != nil {
		logger.Warn("cache.load.malformed", "path", path, "error", err)
		c.entries = make(map[string]entity.ProductMatch)
		return c
	}
	logger.Info("cache.load.ok", "path", path, "entries", len(c.entries))
	return c
}

// NormalizeKey is the cache key contract: trimmed, uppercased full line text.
func NormalizeKey(line string) string {
	return strings.ToUpper(strings.TrimSpace(line))
}

// Lookup performs an exact-key lookup for a receipt line. This tier is exact
// by contract; approximate matching belongs to the fuzzy tier.
func (c *Cache) Lookup(line string) (entity.ProductMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.entries[NormalizeKey(line)]
	return m, ok
}

// Update upserts the entry for a line. Last writer wins.
func (c *Cache) Update(line string, match entity.ProductMatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[NormalizeKey(line)] = match
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot returns a copy of all entries, keyed by normalized line text.
func (c *Cache) Snapshot() map[string]entity.ProductMatch {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]entity.ProductMatch, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Persist serializes the full map to disk. The write goes to a temporary file
// in the same directory followed by a rename, so a crash mid-write never
// corrupts the existing cache file. Safe to call repeatedly.
func (c *Cache) Persist() error {
	start := time.Now()

	c.mu.RLock()
	data, err := json.MarshalIndent(c.entries, "", "  ")
	entries := len(c.entries)
	c.mu.RUnlock()
	if err != nil {
		return common.WrapError(err, "marshal cache")
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return common.WrapError(err, "create cache directory")
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return common.WrapError(err, "create temp cache file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return common.WrapError(err, "write temp cache file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return common.WrapError(err, "close temp cache file")
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return common.WrapError(err, "replace cache file")
	}

	c.logger.Info("cache.persist.ok",
		"path", c.path,
		"entries", entries,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
