// Package config handles configuration loading and catalog file resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the catalog file used when nothing else is configured.
const DefaultFile = "library.json"

// EnvFile names the environment variable overriding the catalog path.
const EnvFile = "LIBRARY_FILE"

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

// Config is the library configuration passed explicitly to the catalog and
// service constructors.
type Config struct {
	// File is the path of the JSON catalog file.
	File string `yaml:"file"`
	// Index is the path of the SQLite search mirror. Empty means derived
	// from File (see IndexPath).
	Index string    `yaml:"index"`
	Log   LogConfig `yaml:"log"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		File: DefaultFile,
		Log:  LogConfig{Level: "info"},
	}
}

// IndexPath returns the SQLite mirror path, defaulting to File with its
// extension replaced by ".db".
func (c *Config) IndexPath() string {
	if c.Index != "" {
		return c.Index
	}
	return strings.TrimSuffix(c.File, filepath.Ext(c.File)) + ".db"
}

// Load reads a config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing or empty keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so only the keys that are present apply.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config.Load %s: %w", path, err)
	}

	if v, ok := raw["file"].(string); ok && strings.TrimSpace(v) != "" {
		cfg.File = strings.TrimSpace(v)
	}
	if v, ok := raw["index"].(string); ok {
		cfg.Index = strings.TrimSpace(v)
	}
	if lg, ok := raw["log"].(map[string]any); ok {
		if v, ok := lg["level"].(string); ok && v != "" {
			cfg.Log.Level = v
		}
	}

	return cfg, nil
}

// ---------------------------------------------------------------------------
// Catalog file resolution
// ---------------------------------------------------------------------------

// GlobalConfigPath returns the path of the per-user config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "library", "config.yaml"), nil
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

// ResolveFile returns the catalog path and the source it was resolved from.
// Priority: LIBRARY_FILE env → persisted global config → DefaultFile.
// source is one of "env", "config", or "default".
func ResolveFile() (path, source string) {
	if env := strings.TrimSpace(os.Getenv(EnvFile)); env != "" {
		if p, err := normalizePath(env); err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedFile(); ok {
		return persisted, "config"
	}

	return DefaultFile, "default"
}

// Resolve builds the effective Config. A non-empty flagFile wins over every
// other source; the global config file supplies the remaining keys.
func Resolve(flagFile string) (cfg *Config, source string, err error) {
	cfgPath, err := GlobalConfigPath()
	if err != nil {
		cfg = Default()
	} else if cfg, err = Load(cfgPath); err != nil {
		return nil, "", err
	}

	if flagFile != "" {
		cfg.File = flagFile
		return cfg, "flag", nil
	}
	cfg.File, source = ResolveFile()
	return cfg, source, nil
}

// GetPersistedFile reads the catalog path from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedFile() (string, bool, error) {
	cfgPath, err := GlobalConfigPath()
	if err != nil {
		return "", false, err
	}

	raw, err := readRaw(cfgPath)
	if err != nil || raw == nil {
		return "", false, err
	}

	val, _ := raw["file"].(string)
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

// SetPersistedFile normalizes path and persists it in the global config,
// preserving any other keys. Returns the normalized path.
func SetPersistedFile(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	cfgPath, err := GlobalConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}

	raw, _ := readRaw(cfgPath)
	if raw == nil {
		raw = make(map[string]any)
	}
	raw["file"] = normalized

	if err := writeRaw(cfgPath, raw); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedFile removes the catalog path from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedFile() (bool, error) {
	cfgPath, err := GlobalConfigPath()
	if err != nil {
		return false, err
	}

	raw, err := readRaw(cfgPath)
	if err != nil || raw == nil {
		return false, err
	}
	if _, ok := raw["file"]; !ok {
		return false, nil
	}
	delete(raw, "file")

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}
	return true, writeRaw(cfgPath, raw)
}

// readRaw returns the YAML mapping stored at path, or nil when the file is
// absent or unparsable.
func readRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil //nolint:nilerr // a broken global config behaves like an absent one
	}
	return raw, nil
}

func writeRaw(path string, raw map[string]any) error {
	out, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}
