package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadURLCache reads the journal's persisted negative-URL cache, mapping
// article URLs to the screening reason that rejected them. A missing or
// unreadable cache yields an empty map.
func (a *Archive) LoadURLCache(slug string) map[string]string {
	cache := map[string]string{}
	raw, err := os.ReadFile(a.urlCachePath(slug))
	if err != nil {
		return cache
	}
	if err := json.Unmarshal(raw, &cache); err != nil {
		return map[string]string{}
	}
	return cache
}

// SaveURLCache persists the journal's negative-URL cache for future runs.
func (a *Archive) SaveURLCache(slug string, cache map[string]string) error {
	if err := os.MkdirAll(a.baseDir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal url cache: %w", err)
	}
	if err := os.WriteFile(a.urlCachePath(slug), payload, 0o644); err != nil {
		return fmt.Errorf("write url cache: %w", err)
	}
	return nil
}

func (a *Archive) urlCachePath(slug string) string {
	return filepath.Join(a.baseDir, slug+"_url_cache.json")
}
