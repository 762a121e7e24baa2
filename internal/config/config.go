package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Session    Session `yaml:"session"`
}

type Session struct {
	TTL             time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	CleanupInterval time.Duration `yaml:"cleanup-interval" env:"SESSION_CLEANUP_INTERVAL" env-default:"10m"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// LoadEnv - builds the config from environment variables and defaults only.
func LoadEnv() (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to read config from env: %w", err)
	}

	return config, nil
}

// Level - unknown values fall back to info.
func (that *Config) Level() slog.Level {
	switch strings.ToLower(that.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
