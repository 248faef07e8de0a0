package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Config holds the client configuration
type Config struct {
	APIURL      string `yaml:"api_url"`
	DataDir     string `yaml:"data_dir"`
	Storage     string `yaml:"storage"`
	PostCount   int    `yaml:"post_count"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	Platform    string `yaml:"platform"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig(paths DataPaths) *Config {
	cfg := &Config{}
	applyDefaults(cfg, paths)
	return cfg
}

// LoadConfig reads a YAML config file, applies defaults and environment
// overrides, and validates the result. A missing file is not an error.
func LoadConfig(path string, paths DataPaths) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		LogDebug("No config file at %s, using defaults", path)
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	applyDefaults(cfg, paths)
	applyEnvironmentOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Save writes the config as YAML
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Timeout returns the default request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// DefaultPlatform returns the configured platform
func (c *Config) DefaultPlatform() Platform {
	p, err := ParsePlatform(c.Platform)
	if err != nil {
		return DefaultPlatform
	}
	return p
}

func applyDefaults(cfg *Config, paths DataPaths) {
	if cfg.APIURL == "" {
		cfg.APIURL = "http://localhost:8000"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = paths.DataDir
	}
	if cfg.Storage == "" {
		cfg.Storage = StorageJSON
	}
	if cfg.PostCount == 0 {
		cfg.PostCount = 10
	}
	if cfg.TimeoutSecs == 0 {
		cfg.TimeoutSecs = 60
	}
	if cfg.Platform == "" {
		cfg.Platform = string(DefaultPlatform)
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	if v := os.Getenv("DOOMLEARN_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("DOOMLEARN_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DOOMLEARN_STORAGE"); v != "" {
		cfg.Storage = v
	}
}

// Validate checks the configuration for obvious mistakes
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url must be an http(s) URL, got %q", c.APIURL)
	}
	switch strings.ToLower(c.Storage) {
	case StorageJSON, StorageSQLite:
		c.Storage = strings.ToLower(c.Storage)
	default:
		return fmt.Errorf("storage must be %q or %q, got %q", StorageJSON, StorageSQLite, c.Storage)
	}
	if c.PostCount < 1 || c.PostCount > 50 {
		return fmt.Errorf("post_count must be between 1 and 50, got %d", c.PostCount)
	}
	if c.TimeoutSecs < 0 {
		return fmt.Errorf("timeout_secs must not be negative, got %d", c.TimeoutSecs)
	}
	if _, err := ParsePlatform(c.Platform); err != nil {
		return err
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	return nil
}

// OpenPersister opens the configured storage backend under the data dir
func OpenPersister(cfg *Config) (Persister, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, &StorageError{Path: cfg.DataDir, Op: "open", Err: err}
	}
	switch cfg.Storage {
	case StorageSQLite:
		return NewSQLiteStore(cfg.DataDir)
	default:
		return NewFileStore(cfg.DataDir), nil
	}
}
