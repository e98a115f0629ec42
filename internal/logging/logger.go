// Package logging provides config-driven categorized logging for shannon.
// All output goes to stderr so stdout stays reserved for results.
package logging

import (
	"fmt"
	"sync"

	"shannon/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryCLI    Category = "cli"    // Command dispatch, I/O
	CategoryConfig Category = "config" // Config loading
	CategoryStore  Category = "store"  // History store
	CategoryBatch  Category = "batch"  // Batch evaluation
	CategoryWatch  Category = "watch"  // File watch mode
)

var (
	mu   sync.RWMutex
	base = zap.NewNop()
	cfg  config.LoggingConfig
)

// New builds a zap logger from the logging config. verbose forces debug level.
func New(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	if lc.Format != "json" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Sampling = nil
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build()
}

// Initialize builds the process-wide logger and category filter.
// Should be called once at startup.
func Initialize(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	logger, err := New(lc, verbose)
	if err != nil {
		return nil, err
	}
	Set(logger, lc)
	return logger, nil
}

// Set replaces the process-wide logger and category filter.
func Set(logger *zap.Logger, lc config.LoggingConfig) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	base = logger
	cfg = lc
}

// Get returns a logger named after the category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if !cfg.IsCategoryEnabled(string(category)) {
		return zap.NewNop()
	}
	return base.Named(string(category))
}

// Sync flushes the process-wide logger.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}
