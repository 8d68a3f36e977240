package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdidvp/gltf-validator/internal/domain"
)

// Store is a file-based implementation of domain.ReportCache. Each entry is
// one JSON file named by its cache key.
type Store struct{}

// New creates a new file-based cache store.
func New() *Store {
	return &Store{}
}

// Load reads a cached report from disk. Returns (nil, nil) if no entry exists.
func (s *Store) Load(projectPath, key string) (*domain.CachedReport, error) {
	data, err := os.ReadFile(entryPath(projectPath, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no cache is not an error
		}
		return nil, err
	}

	var entry domain.CachedReport
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return &entry, nil
}

// Save writes a cache entry to disk, creating directories as needed.
func (s *Store) Save(projectPath string, entry *domain.CachedReport) error {
	if entry.Key == "" {
		return fmt.Errorf("cache entry has no key")
	}
	if err := os.MkdirAll(cacheDir(projectPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	// Write then rename so concurrent readers never see a partial entry.
	tmp, err := os.CreateTemp(cacheDir(projectPath), ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), entryPath(projectPath, entry.Key))
}

// Invalidate removes every cache entry for the given project path.
func (s *Store) Invalidate(projectPath string) error {
	if err := os.RemoveAll(cacheDir(projectPath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func cacheDir(projectPath string) string {
	return filepath.Join(projectPath, ".gltf-validator", "cache")
}

func entryPath(projectPath, key string) string {
	return filepath.Join(cacheDir(projectPath), filepath.Base(key)+".json")
}
