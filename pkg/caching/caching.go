// Package caching keeps fetched HTML on disk so repeated direct crawls of
// the same site within the TTL skip the network.
package caching

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
)

// PageCache is a file-per-URL cache with a fixed TTL.
type PageCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewPageCache creates dir if needed.
func NewPageCache(dir string, ttl time.Duration) (*PageCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &PageCache{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (c *PageCache) path(rawURL string) string {
	return filepath.Join(c.dir, common.ContentHash([]byte(common.CanonicalKey(rawURL)))+".html")
}

// Get returns the cached body for rawURL when present and younger than the
// TTL.
func (c *PageCache) Get(rawURL string) ([]byte, bool) {
	p := c.path(rawURL)

	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	if c.now().Sub(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores body for rawURL, replacing any older entry.
func (c *PageCache) Set(rawURL string, body []byte) error {
	tmp, err := os.CreateTemp(c.dir, "page-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(rawURL)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
