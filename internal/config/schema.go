package config

import "time"

// Backend selects which store adapter the process runs on.
const (
	BackendEmbedded = "embedded"
	BackendRemote   = "remote"
)

// Config is the root configuration.
type Config struct {
	Backend  string         `yaml:"backend" envconfig:"BACKEND"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Remote   RemoteConfig   `yaml:"remote"`
	Seed     SeedConfig     `yaml:"seed"`
	Log      LogConfig      `yaml:"log"`
}

// SeedConfig controls the default-aggregate seed file.
type SeedConfig struct {
	// Path is the YAML seed file; empty disables seeding.
	Path string `yaml:"path"`
	// Watch re-applies the seed when the file changes.
	Watch bool `yaml:"watch" envconfig:"WATCH"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr" envconfig:"ADDR"`
}

// DatabaseConfig controls the embedded backend.
type DatabaseConfig struct {
	// Path is the binary image file the in-memory engine flushes to.
	Path string `yaml:"path"`
	// FlushDebounce is the quiet period between a write and the flush.
	FlushDebounce time.Duration `yaml:"flush_debounce" envconfig:"FLUSH_DEBOUNCE"`
}

// RemoteConfig controls the remote backend.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// LogConfig controls logging output.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `yaml:"level" envconfig:"LEVEL"`
}
