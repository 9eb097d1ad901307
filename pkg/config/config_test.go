package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adjudilane/verdict/pkg/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VERDICT_LOG_LEVEL", "")
	t.Setenv("VERDICT_STORE_DRIVER", "")
	t.Setenv("VERDICT_STORE_DSN", "")
	t.Setenv("VERDICT_DATA_DIR", "")

	cfg := config.Load()
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "file", cfg.StoreDriver)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Empty(t, cfg.StoreDSN)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("VERDICT_LOG_LEVEL", "debug")
	t.Setenv("VERDICT_STORE_DRIVER", "postgres")
	t.Setenv("VERDICT_STORE_DSN", "postgres://verdict@localhost:5432/verdict?sslmode=disable")
	t.Setenv("VERDICT_DATA_DIR", "/var/lib/verdict")

	cfg := config.Load()
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "/var/lib/verdict", cfg.DataDir)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestSlogLevelMapping(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"INFO":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for name, want := range cases {
		cfg := &config.Config{LogLevel: name}
		assert.Equal(t, want, cfg.SlogLevel(), name)
	}
}
