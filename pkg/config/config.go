// Package config loads and persists chatctl settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the settings chatctl reads at startup. All fields are
// optional in the file; zero values fall back to built-in defaults.
type Config struct {
	BaseURL   string `toml:"base_url,omitempty"`
	APIKey    string `toml:"api_key,omitempty"`
	Model     string `toml:"model,omitempty"`
	HistoryDB string `toml:"history_db,omitempty"`
	Debug     bool   `toml:"debug,omitempty"`
}

// DefaultPath returns the conventional config location, ~/.chatctl/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".chatctl", "config.toml"), nil
}

// DefaultHistoryPath returns the conventional history database location,
// ~/.chatctl/history.db.
func DefaultHistoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".chatctl", "history.db"), nil
}

// Load reads the config at path. A missing file is not an error: the
// returned config simply carries defaults. The OPENAI_API_KEY environment
// variable, when set, overrides the file's api_key.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	return &cfg, nil
}

// ResolveHistoryPath returns the configured history database path, or the
// default location when the config does not set one.
func (c *Config) ResolveHistoryPath() (string, error) {
	if c.HistoryDB != "" {
		return c.HistoryDB, nil
	}
	return DefaultHistoryPath()
}

// Save writes the config to path, creating the parent directory if needed.
// The file is written with owner-only permissions since it may hold an API key.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open config for writing: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
