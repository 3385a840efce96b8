// Package cache implements a content-addressed file cache for fetched web
// pages. Each URL maps to one flat file named by the SHA-256 digest of the
// URL string; entries persist until explicitly cleared.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/c360studio/wikioutline/weburl"
)

// Fetcher retrieves the body for a URL on a cache miss.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Cache resolves URLs to response bodies through a flat file directory.
// Concurrent misses for the same URL may fetch and write redundantly; the
// writers produce byte-identical files, so no locking is used.
type Cache struct {
	dir     string
	fetcher Fetcher
	logger  *slog.Logger
}

// New creates a Cache rooted at dir, creating the directory if needed.
func New(dir string, fetcher Fetcher, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Cache{dir: dir, fetcher: fetcher, logger: logger}, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string { return c.dir }

// path returns the cache file path for a URL.
func (c *Cache) path(url string) string {
	return filepath.Join(c.dir, weburl.CacheKey(url))
}

// Resolve returns the body for a URL, reading a previously stored entry
// when one exists and fetching (then storing) otherwise. Cached entries are
// returned verbatim with no staleness checks.
func (c *Cache) Resolve(ctx context.Context, url string) ([]byte, error) {
	path := c.path(url)

	if body, err := os.ReadFile(path); err == nil {
		c.logger.Debug("cache hit", "url", url)
		hits.Inc()
		return body, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}

	c.logger.Debug("cache miss", "url", url)
	misses.Inc()

	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return nil, fmt.Errorf("write cache entry: %w", err)
	}

	return body, nil
}

// Clear removes the cache entry for a single URL. Missing entries are not
// an error.
func (c *Cache) Clear(url string) error {
	err := os.Remove(c.path(url))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear cache entry: %w", err)
	}
	if err == nil {
		c.logger.Info("cleared cache entry", "url", url)
	}
	return nil
}

// ClearAll removes every file in the cache directory.
func (c *Cache) ClearAll() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clear cache: %w", err)
		}
		removed++
	}

	c.logger.Info("cleared cache", "entries", removed)
	return nil
}

// Stats describes the current on-disk state of the cache.
type Stats struct {
	Entries int
	Bytes   int64
}

// Stats scans the cache directory and returns entry count and total size.
func (c *Cache) Stats() (Stats, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return Stats{}, fmt.Errorf("read cache directory: %w", err)
	}

	var stats Stats
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // entry removed between ReadDir and Info
		}
		stats.Entries++
		stats.Bytes += info.Size()
	}
	return stats, nil
}
