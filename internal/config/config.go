// Package config handles configuration loading and validation for todo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the public mock API the client talks to out of the box.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com/todos"

// Cache backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// IDPolicy decides which identifier a newly created todo gets locally.
type IDPolicy string

const (
	// IDPolicyClient assigns a millisecond timestamp and ignores the id the
	// remote returned. This matches the historical behavior of the app.
	IDPolicyClient IDPolicy = "client"
	// IDPolicyServer adopts the id returned by the create call.
	IDPolicyServer IDPolicy = "server"
)

// Config holds the application configuration.
type Config struct {
	Remote  RemoteConfig `yaml:"remote"`
	Cache   CacheConfig  `yaml:"cache"`
	IDs     IDPolicy     `yaml:"ids"`
	TUI     TUIConfig    `yaml:"tui"`
	DataDir string       `yaml:"-"` // set by caller, not from config file
}

// RemoteConfig configures the REST collection endpoint.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"` // per request deadline
	Limit   int           `yaml:"limit"`   // records kept from the first fetch
}

// CacheConfig configures the local blob store.
type CacheConfig struct {
	Backend string `yaml:"backend"` // file | sqlite
	Path    string `yaml:"path"`    // defaults to a file inside DataDir
}

// TUIConfig holds interactive display settings.
type TUIConfig struct {
	Theme     string        `yaml:"theme"`      // classic | neon | mono
	BannerTTL time.Duration `yaml:"banner_ttl"` // how long the error banner stays
	FadeDelay time.Duration `yaml:"fade_delay"` // fade in/out duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Remote: RemoteConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 10 * time.Second,
			Limit:   10,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
		},
		IDs: IDPolicyClient,
		TUI: TUIConfig{
			Theme:     "classic",
			BannerTTL: 3 * time.Second,
			FadeDelay: 300 * time.Millisecond,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Remote.BaseURL == "" {
		c.Remote.BaseURL = defaults.Remote.BaseURL
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = defaults.Remote.Timeout
	}
	if c.Remote.Limit == 0 {
		c.Remote.Limit = defaults.Remote.Limit
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = defaults.Cache.Backend
	}
	if c.Cache.Path == "" && c.DataDir != "" {
		name := "todos.json"
		if c.Cache.Backend == BackendSQLite {
			name = "todos.db"
		}
		c.Cache.Path = filepath.Join(c.DataDir, name)
	}
	if c.IDs == "" {
		c.IDs = defaults.IDs
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.BannerTTL == 0 {
		c.TUI.BannerTTL = defaults.TUI.BannerTTL
	}
	if c.TUI.FadeDelay == 0 {
		c.TUI.FadeDelay = defaults.TUI.FadeDelay
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Remote.BaseURL == "" {
		return fmt.Errorf("remote.base_url cannot be empty")
	}

	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout cannot be negative")
	}

	if c.Remote.Limit < 1 {
		return fmt.Errorf("remote.limit must be at least 1")
	}

	switch c.Cache.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Cache.Backend)
	}

	switch c.IDs {
	case IDPolicyClient, IDPolicyServer:
	default:
		return fmt.Errorf("ids must be %q or %q, got %q", IDPolicyClient, IDPolicyServer, c.IDs)
	}

	switch c.TUI.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("tui.theme must be classic, neon or mono, got %q", c.TUI.Theme)
	}

	return nil
}
