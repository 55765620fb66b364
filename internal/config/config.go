// ABOUTME: Workout log configuration management with backend selection.
// ABOUTME: Handles the config file, environment overrides, and the storage backend factory.

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/gymlog/internal/storage"
)

// Supported storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendKV       = "kv"
)

const (
	defaultHTTPAddress = ":5555"
	defaultLogLevel    = "info"
)

// Config stores gymlog configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "postgres" or "kv".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts gymlog.db here, the KV backend uses the kv/ folder.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/gymlog.
	DataDir string `json:"data_dir,omitempty"`

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `json:"database_url,omitempty"`

	HTTPAddress string `json:"http_address,omitempty"`
	LogLevel    string `json:"log_level,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

func (c *Config) GetHTTPAddress() string {
	if c.HTTPAddress == "" {
		return defaultHTTPAddress
	}
	return c.HTTPAddress
}

func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return c.LogLevel
}

// ApplyEnv overrides file settings with non-empty GYMLOG_* environment variables.
func (c *Config) ApplyEnv() {
	c.Backend = getEnv("GYMLOG_BACKEND", c.Backend)
	c.DataDir = getEnv("GYMLOG_DATA_DIR", c.DataDir)
	c.DatabaseURL = getEnv("GYMLOG_DATABASE_URL", c.DatabaseURL)
	c.HTTPAddress = getEnv("GYMLOG_HTTP_ADDRESS", c.HTTPAddress)
	c.LogLevel = getEnv("GYMLOG_LOG_LEVEL", c.LogLevel)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(ctx context.Context) (storage.Repository, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, "gymlog.db"))
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return nil, errors.New("postgres backend requires database_url")
		}
		return storage.OpenPostgres(ctx, c.DatabaseURL)
	case BackendKV:
		return storage.OpenKV(filepath.Join(dataDir, "kv"))
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "gymlog", "config.json")
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
