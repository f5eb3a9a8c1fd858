// Package config handles configuration loading and helper home resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// FileName is the per-home config file name.
const FileName = "config.yaml"

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// StorageConfig selects where contacts and notes are persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" | "sqlite"
}

// BirthdaysConfig tunes the upcoming-birthday listing.
type BirthdaysConfig struct {
	DefaultDays int `yaml:"default_days"`
}

// HelperConfig is the root per-home configuration.
type HelperConfig struct {
	Storage   StorageConfig   `yaml:"storage"`
	Birthdays BirthdaysConfig `yaml:"birthdays"`
}

// Default returns a HelperConfig populated with sensible defaults.
func Default() *HelperConfig {
	return &HelperConfig{
		Storage:   StorageConfig{Backend: BackendFile},
		Birthdays: BirthdaysConfig{DefaultDays: 7},
	}
}

// Load reads a per-home config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*HelperConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so we can apply only the keys that are present.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if st, ok := raw["storage"].(map[string]any); ok {
		if v, ok := st["backend"].(string); ok && v != "" {
			cfg.Storage.Backend = v
		}
	}

	if b, ok := raw["birthdays"].(map[string]any); ok {
		if v, ok := b["default_days"].(int); ok && v >= 0 {
			cfg.Birthdays.DefaultDays = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown backends.
func (c *HelperConfig) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("config: unknown storage backend %q (want %q or %q)", c.Storage.Backend, BackendFile, BackendSQLite)
	}
}

// Starter is the commented config.yaml written by `helper config init`.
const Starter = `# helper configuration

storage:
  # file: contacts.yaml + notes.yaml, sqlite: helper.db
  backend: file

birthdays:
  # used by "birth" when --days is not given
  default_days: 7
`

// ---------------------------------------------------------------------------
// Helper home resolution
// ---------------------------------------------------------------------------

const homeKey = "helper_home"

// globalConfigPath returns the path to the global helper config file.
// This file stores only helper_home.
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "helper", "config.yaml"), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveHome returns the helper home path and the source of the resolution.
// Priority: HELPER_HOME env → persisted global config → ~/.helper
// source is one of "env", "config", or "default".
func ResolveHome() (path, source string) {
	if env := os.Getenv("HELPER_HOME"); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedHome(); ok {
		return persisted, "config"
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".helper"), "default"
}

// GetHome returns the resolved helper home path.
func GetHome() string {
	path, _ := ResolveHome()
	return path
}

// GetPersistedHome reads helper_home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedHome() (string, bool, error) {
	raw, err := readGlobal()
	if err != nil || raw == nil {
		return "", false, err
	}

	val, _ := raw[homeKey].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedHome normalizes path and persists it in the global config.
// Returns the normalized path.
func SetPersistedHome(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}

	// Other keys in the global file are preserved.
	raw, _ := readGlobal()
	if raw == nil {
		raw = make(map[string]any)
	}
	raw[homeKey] = normalized

	out, err := yaml.Marshal(raw)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, out, 0o600); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedHome removes helper_home from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedHome() (bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return false, err
	}

	raw, err := readGlobal()
	if err != nil || raw == nil {
		return false, err
	}
	if _, ok := raw[homeKey]; !ok {
		return false, nil
	}
	delete(raw, homeKey)

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(cfgPath, out, 0o600)
}

// readGlobal returns the global config as a map, or nil when the file is
// missing or unparsable.
func readGlobal() (map[string]any, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil
	}
	return raw, nil
}
