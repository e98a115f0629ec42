package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all shannon configuration.
type Config struct {
	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Run history (SQLite)
	History HistoryConfig `yaml:"history"`

	// Batch evaluation
	Batch BatchConfig `yaml:"batch"`

	// File watch mode
	Watch WatchConfig `yaml:"watch"`
}

// HistoryConfig configures the run history store.
type HistoryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// BatchConfig configures `shannon batch`.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// WatchConfig configures `shannon watch`.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

const (
	// DirName is the per-workspace directory holding config and history.
	DirName = ".shannon"

	defaultDebounce = 200 * time.Millisecond
)

// DefaultPath returns the config file location for a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, DirName, "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "console",
			Categories: map[string]bool{"cli": true},
		},
		History: HistoryConfig{
			Enabled:      false,
			DatabasePath: filepath.Join(DirName, "history.db"),
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Watch: WatchConfig{
			Debounce: defaultDebounce.String(),
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("SHANNON_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}

	if v := os.Getenv("SHANNON_HISTORY"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.History.Enabled = enabled
		}
	}
	if path := os.Getenv("SHANNON_DB"); path != "" {
		c.History.DatabasePath = path
	}

	// Invalid values are left for Validate to report.
	if v := os.Getenv("SHANNON_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Batch.Workers = n
		} else {
			c.Batch.Workers = -1
		}
	}
}

// GetDebounce returns the watch debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return defaultDebounce
	}
	return d
}

// ValidLevels lists the accepted logging levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// ValidFormats lists the accepted logging encodings.
var ValidFormats = []string{"console", "json"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %q (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if !contains(ValidFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %q (valid: %v)", c.Logging.Format, ValidFormats)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch workers must be positive, got %d", c.Batch.Workers)
	}
	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch debounce %q: %w", c.Watch.Debounce, err)
	} else if d < 0 {
		return fmt.Errorf("watch debounce must not be negative, got %s", d)
	}
	if c.History.Enabled && c.History.DatabasePath == "" {
		return fmt.Errorf("history enabled but database_path is empty")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
