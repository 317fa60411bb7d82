// Package cache persists the prepare-stage answers to a JSON file in the
// repository root so the migrate stage can pick them up.
package cache

import (
	"encoding/json"
	"os"

	"gitlab.com/tozd/go/errors"

	"github.com/nsbno/vydev-migrate/pkg/migration"
)

// JSONCache stores migration.Config as pretty-printed JSON.
type JSONCache struct {
	path string
}

// New returns a cache at path. Pass "" to use the default location in the
// working directory.
func New(path string) *JSONCache {
	if path == "" {
		path = migration.CacheFileName
	}
	return &JSONCache{path: path}
}

func (c *JSONCache) Save(cfg migration.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Errorf("encoding config cache: %w", err)
	}
	if err := os.WriteFile(c.path, append(data, '\n'), 0o644); err != nil {
		return errors.Errorf("saving config cache: %w", err)
	}
	return nil
}

// Load returns the cached config, or nil when none has been saved yet.
func (c *JSONCache) Load() (*migration.Config, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("loading config cache: %w", err)
	}

	var cfg migration.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Errorf("config cache is corrupted: %w; run 'rm %s' to clear it", err, c.path)
	}
	return &cfg, nil
}

func (c *JSONCache) Clear() error {
	err := os.Remove(c.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Errorf("clearing config cache: %w", err)
	}
	return nil
}
