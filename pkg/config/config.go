// Package config loads process configuration from environment variables.
package config

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds CLI and collaborator configuration. The decision core
// itself takes no configuration; everything here drives the outer
// surfaces (logging, persistence, data directory).
type Config struct {
	LogLevel    string
	StoreDriver string
	StoreDSN    string
	DataDir     string
}

// Load reads the VERDICT_* environment variables, with safe defaults.
func Load() *Config {
	logLevel := os.Getenv("VERDICT_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	driver := os.Getenv("VERDICT_STORE_DRIVER")
	if driver == "" {
		driver = "file"
	}

	dataDir := os.Getenv("VERDICT_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	return &Config{
		LogLevel:    logLevel,
		StoreDriver: driver,
		StoreDSN:    os.Getenv("VERDICT_STORE_DSN"),
		DataDir:     dataDir,
	}
}

// SlogLevel maps the configured level name onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
