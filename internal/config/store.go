package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/tidwall/jsonc"
)

// Store reads and writes the notification config file.
type Store struct {
	path string
	log  *slog.Logger
}

// NewStore creates a store for the config file at path. A nil logger
// falls back to slog.Default().
func NewStore(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{path: path, log: log}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string { return s.path }

// Load reads the config from disk. A missing file yields the defaults.
// Malformed JSON or wrong-typed fields degrade to defaults field by
// field and never produce an error. Legacy documents using the named
// profiles shape are migrated to the flat shape and written back
// immediately.
func (s *Store) Load() (Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("reading config: %w", err)
	}

	var raw any
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		s.log.Warn("config file is not valid JSON, using defaults", "path", s.path, "error", err)
		return Default(), nil
	}

	if flat, migrated := s.migrateProfiles(raw); migrated {
		cfg := Sanitize(flat)
		if err := s.Save(cfg); err != nil {
			s.log.Warn("persisting migrated config failed", "error", err)
		}
		return cfg, nil
	}

	return Sanitize(raw), nil
}

// Save writes the config as indented JSON, creating the parent
// directory if needed.
func (s *Store) Save(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	out = append(out, '\n')
	if err := os.WriteFile(s.path, out, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// migrateProfiles detects the legacy {profiles, currentProfile} shape
// and returns the selected profile's body. All other profiles are
// discarded; their names are logged so the loss is visible.
func (s *Store) migrateProfiles(raw any) (any, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	profiles, ok := obj["profiles"].(map[string]any)
	if !ok {
		return nil, false
	}

	current, _ := obj["currentProfile"].(string)
	selected, found := profiles[current]

	var discarded []string
	for name := range profiles {
		if name != current {
			discarded = append(discarded, name)
		}
	}
	sort.Strings(discarded)
	if len(discarded) > 0 {
		s.log.Warn("migrating legacy profiles config, unselected profiles discarded",
			"kept", current, "discarded", discarded)
	}

	if !found {
		return map[string]any{}, true
	}
	return selected, true
}
