package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected Level=warn, got %s", cfg.Logging.Level)
	}
	if enabled, ok := cfg.Logging.Categories["cli"]; !ok || !enabled {
		t.Errorf("expected categories {cli: true}, got %v", cfg.Logging.Categories)
	}
	if !cfg.Logging.IsCategoryEnabled("store") {
		t.Error("unlisted categories should stay enabled by default")
	}
	if cfg.History.Enabled {
		t.Error("expected history disabled by default")
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", cfg.Batch.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath("/work")
	want := filepath.Join("/work", ".shannon", "config.yaml")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	// Ensure no env vars interfere
	t.Setenv("SHANNON_LOG_LEVEL", "")
	t.Setenv("SHANNON_HISTORY", "")
	t.Setenv("SHANNON_DB", "")
	t.Setenv("SHANNON_WORKERS", "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.History.Enabled = true
	cfg.History.DatabasePath = "runs.db"
	cfg.Watch.Debounce = "1s"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", loaded.Logging.Level)
	}
	if !loaded.History.Enabled || loaded.History.DatabasePath != "runs.db" {
		t.Errorf("history not round-tripped: %+v", loaded.History)
	}
	if loaded.GetDebounce() != time.Second {
		t.Errorf("expected 1s debounce, got %s", loaded.GetDebounce())
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("SHANNON_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("batch:\n  workers: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Batch.Workers != 9 {
		t.Errorf("expected Workers=9, got %d", cfg.Batch.Workers)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("expected default Format=console, got %s", cfg.Logging.Format)
	}
	if !cfg.Logging.IsCategoryEnabled("cli") {
		t.Error("expected default cli category to survive a partial file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "soon" }},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = "-1s" }},
		{"history without path", func(c *Config) {
			c.History.Enabled = true
			c.History.DatabasePath = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetDebounce_FallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Watch.Debounce = "not-a-duration"
	if got := cfg.GetDebounce(); got != 200*time.Millisecond {
		t.Errorf("expected fallback 200ms, got %s", got)
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	if !lc.IsCategoryEnabled("store") {
		t.Error("all categories should be enabled without a filter")
	}

	lc.Categories = map[string]bool{"store": false, "cli": true}
	if lc.IsCategoryEnabled("store") {
		t.Error("store should be disabled")
	}
	if !lc.IsCategoryEnabled("cli") {
		t.Error("cli should be enabled")
	}
	if !lc.IsCategoryEnabled("watch") {
		t.Error("unlisted categories should be enabled")
	}
}
