// Package config provides configuration for the voicedesk data service.
//
// Values load in three layers: built-in defaults, then an optional YAML
// file, then VOICEDESK_* environment overrides.
//
// Config file locations (priority order):
//  1. $VOICEDESK_CONFIG
//  2. ./voicedesk.yaml
//  3. ~/.config/voicedesk/config.yaml
//  4. /etc/voicedesk/config.yaml
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces environment overrides, e.g. VOICEDESK_LOG_LEVEL.
const envPrefix = "voicedesk"

// Load finds and loads the config file, or returns defaults if none
// found. Environment overrides apply in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		if err := envconfig.Process(envPrefix, cfg); err != nil {
			return nil, "", fmt.Errorf("env overrides: %w", err)
		}
		cfg.applyDefaults()
		return cfg, "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, path, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, path, nil
}

// Save writes config to the specified path.
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendEmbedded
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./voicedesk.db"
	}
	if c.Remote.BaseURL == "" {
		c.Remote.BaseURL = "http://localhost:8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate rejects configurations the process cannot run with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendEmbedded, BackendRemote:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Backend == BackendRemote && c.Remote.BaseURL == "" {
		return fmt.Errorf("remote backend requires remote.base_url")
	}
	return nil
}
