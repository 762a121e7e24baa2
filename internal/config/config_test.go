package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads values from yaml", func(t *testing.T) {
		// Given: a config file with every field set
		path := writeConfig(t, `
log-level: debug
http-port: "8080"
socket-port: "8081"
session:
  ttl: 30m
  cleanup-interval: 1m
`)

		// When: the config is loaded
		conf, err := Load(path)

		// Then: the values are taken from the file
		require.NoError(t, err)
		assert.Equal(t, &Config{
			LogLevel:   "debug",
			HTTPPort:   "8080",
			SocketPort: "8081",
			Session: Session{
				TTL:             30 * time.Minute,
				CleanupInterval: time.Minute,
			},
		}, conf)
	})

	t.Run("Falls back to defaults", func(t *testing.T) {
		path := writeConfig(t, "log-level: info\n")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "9091", conf.SocketPort)
		assert.Equal(t, 24*time.Hour, conf.Session.TTL)
		assert.Equal(t, 10*time.Minute, conf.Session.CleanupInterval)
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "7070")
		path := writeConfig(t, "http-port: \"8080\"\n")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yml")) })
	})
}

func TestLoadEnv(t *testing.T) {
	// Given: no config file, only environment
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SESSION_TTL", "1h")

	// When
	conf, err := LoadEnv()

	// Then
	require.NoError(t, err)
	assert.Equal(t, "warn", conf.LogLevel)
	assert.Equal(t, time.Hour, conf.Session.TTL)
	assert.Equal(t, 10*time.Minute, conf.Session.CleanupInterval)
}

func TestConfig_Level(t *testing.T) {
	tests := []struct {
		logLevel string
		expected slog.Level
	}{
		{logLevel: "debug", expected: slog.LevelDebug},
		{logLevel: "INFO", expected: slog.LevelInfo},
		{logLevel: "warn", expected: slog.LevelWarn},
		{logLevel: "error", expected: slog.LevelError},
		{logLevel: "verbose", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			conf := &Config{LogLevel: tt.logLevel}

			assert.Equal(t, tt.expected, conf.Level())
		})
	}
}
