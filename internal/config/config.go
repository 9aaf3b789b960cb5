// Package config loads the meeting-mcp configuration.
//
// Values are resolved in this order, later sources winning:
//  1. built-in defaults
//  2. ~/.meeting-mcp/config.yaml (or $MEETING_MCP_CONFIG_DIR/config.yaml)
//  3. environment variables
//
// Command flags are applied by the caller on top of the loaded value.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultAPIURL       = "https://api.meetingbaas.com"
	DefaultViewerURL    = "https://meetingbaas.com/viewer"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultRecentStore  = "sqlite"
	DefaultKeyPrefix    = "meeting-mcp:"
	DefaultInitialChunk = 1200
	DefaultConfigDir    = ".meeting-mcp"
	DefaultConfigFile   = "config.yaml"
	DefaultRecentDBFile = "recent.db"
)

// Environment variables.
const (
	EnvConfigDir   = "MEETING_MCP_CONFIG_DIR"
	EnvAPIKey      = "MEETING_BAAS_API_KEY"
	EnvAPIURL      = "MEETING_BAAS_API_URL"
	EnvViewerURL   = "MEETING_BAAS_VIEWER_URL"
	EnvRecentStore = "MEETING_MCP_RECENT_STORE"
	EnvRecentDB    = "MEETING_MCP_RECENT_DB"
	EnvRedisURL    = "MEETING_MCP_REDIS_URL"
	EnvHTTPTimeout = "MEETING_MCP_HTTP_TIMEOUT"
)

// RecentStoreConfig selects the recent-bots backend.
type RecentStoreConfig struct {
	// Type is sqlite, redis or none.
	Type      string `yaml:"type"`
	Path      string `yaml:"path,omitempty"`
	RedisURL  string `yaml:"redis_url,omitempty"`
	KeyPrefix string `yaml:"key_prefix,omitempty"`
}

// AnalysisConfig tunes the key moment extraction defaults.
type AnalysisConfig struct {
	// InitialChunkSize is the default coarse window in seconds, before the
	// granularity divides it.
	InitialChunkSize int `yaml:"initial_chunk_size"`
}

// Config is the resolved configuration.
type Config struct {
	// APIKey is the lowest-priority credential, used when no session,
	// environment or keyring key exists.
	APIKey      string            `yaml:"api_key,omitempty"`
	APIURL      string            `yaml:"api_url"`
	ViewerURL   string            `yaml:"viewer_url"`
	HTTPTimeout time.Duration     `yaml:"-"`
	RecentStore RecentStoreConfig `yaml:"recent_store"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		APIURL:      DefaultAPIURL,
		ViewerURL:   DefaultViewerURL,
		HTTPTimeout: DefaultHTTPTimeout,
		RecentStore: RecentStoreConfig{
			Type:      DefaultRecentStore,
			KeyPrefix: DefaultKeyPrefix,
		},
		Analysis: AnalysisConfig{InitialChunkSize: DefaultInitialChunk},
	}
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir), nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// Load reads the default file, if it exists, and applies the environment.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit file path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

type configFile struct {
	Config      `yaml:",inline"`
	HTTPTimeout string `yaml:"http_timeout"`
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	file := configFile{Config: *cfg}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	*cfg = file.Config

	if file.HTTPTimeout != "" {
		d, err := time.ParseDuration(file.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("invalid http_timeout %q: %w", file.HTTPTimeout, err)
		}
		cfg.HTTPTimeout = d
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvViewerURL); v != "" {
		cfg.ViewerURL = v
	}
	if v := os.Getenv(EnvRecentStore); v != "" {
		cfg.RecentStore.Type = strings.ToLower(v)
	}
	if v := os.Getenv(EnvRecentDB); v != "" {
		cfg.RecentStore.Path = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.RecentStore.RedisURL = v
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHTTPTimeout, err)
		}
		cfg.HTTPTimeout = d
	}
	return nil
}

// parseTimeout accepts a Go duration or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func (c *Config) applyDefaults() {
	if c.RecentStore.Type == "" {
		c.RecentStore.Type = DefaultRecentStore
	}
	if c.RecentStore.KeyPrefix == "" {
		c.RecentStore.KeyPrefix = DefaultKeyPrefix
	}
	if c.RecentStore.Path == "" {
		if dir, err := Dir(); err == nil {
			c.RecentStore.Path = filepath.Join(dir, DefaultRecentDBFile)
		}
	}
	c.RecentStore.Path = expandPath(c.RecentStore.Path)
	if c.Analysis.InitialChunkSize <= 0 {
		c.Analysis.InitialChunkSize = DefaultInitialChunk
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api_url is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	switch c.RecentStore.Type {
	case "sqlite", "none":
	case "redis":
		if c.RecentStore.RedisURL == "" {
			return errors.New("recent_store.redis_url is required when recent_store.type is redis")
		}
	default:
		return fmt.Errorf("recent_store.type must be sqlite, redis or none, got %q", c.RecentStore.Type)
	}
	return nil
}

// Save writes cfg to path with 0600 permissions.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	file := configFile{Config: *cfg, HTTPTimeout: cfg.HTTPTimeout.String()}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
