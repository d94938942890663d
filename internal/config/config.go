// Package config provides configuration management for siminfod.
//
// Config file locations (priority order):
//  1. $SIMINFOD_CONFIG
//  2. ./siminfod.yaml
//  3. ~/.config/siminfod/config.yaml
//  4. /etc/siminfod/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration
type Config struct {
	Listen   string         `yaml:"listen"`
	Database DatabaseConfig `yaml:"database"`
	Slots    []string       `yaml:"slots"`
}

// DatabaseConfig locates the on-disk identity cache
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// FindConfigPath returns the first config file that exists, or ""
func FindConfigPath() string {
	if env := os.Getenv("SIMINFOD_CONFIG"); env != "" {
		return env
	}

	candidates := []string{"./siminfod.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "siminfod", "config.yaml"))
	}
	candidates = append(candidates, "/etc/siminfod/config.yaml")

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Listen:   ":8091",
		Database: DatabaseConfig{Path: "./siminfod.db"},
		Slots:    []string{"ril_0"},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8091"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./siminfod.db"
	}
	if len(c.Slots) == 0 {
		c.Slots = []string{"ril_0"}
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	return fmt.Sprintf("Listen: %s, Database: %s, Slots: %v",
		c.Listen, c.Database.Path, c.Slots)
}
