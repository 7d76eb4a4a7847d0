package thunderstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Cache keeps the last-fetched package list on disk so imports can be
// replayed without a network call.
type Cache struct {
	Path string
}

// NewCache returns a cache backed by the given file path.
func NewCache(path string) *Cache {
	return &Cache{Path: path}
}

// Save writes the raw feed document verbatim, creating the parent directory
// if needed.
func (c *Cache) Save(raw []byte) error {
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory '%s': %w", dir, err)
	}

	if err := os.WriteFile(c.Path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write cache file '%s': %w", c.Path, err)
	}
	return nil
}

// Load reads and decodes the cached package list.
func (c *Cache) Load() ([]PackageListing, error) {
	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file '%s': %w", c.Path, err)
	}

	var listings []PackageListing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode cache file '%s': %w", c.Path, err)
	}
	return listings, nil
}
