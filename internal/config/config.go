package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is read when CONFIG_PATH is not set.
const DefaultPath = "config.yml"

type Config struct {
	HTTPAddr  string    `yaml:"http-addr" env:"HTTP_ADDR" env-default:":8080"`
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Redis     Redis     `yaml:"redis"`
	SQLite    SQLite    `yaml:"sqlite"`
	Settings  Settings  `yaml:"settings"`
	Auth      Auth      `yaml:"auth"`
	Telemetry Telemetry `yaml:"telemetry"`
	Bot       Bot       `yaml:"bot"`
}

type Redis struct {
	Addr       string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"24h"`
}

type SQLite struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"tictactoe.db"`
}

type Settings struct {
	// Backend is "redis" or "sqlite".
	Backend string `yaml:"backend" env:"SETTINGS_BACKEND" env-default:"redis"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwt-secret" env:"JWT_SECRET" env-default:"change-me"`
	TokenTTL  time.Duration `yaml:"token-ttl" env:"JWT_TTL" env-default:"72h"`
}

type Telemetry struct {
	Enabled      bool   `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	Endpoint     string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"otel-collector:4317"`
	StdoutTraces bool   `yaml:"stdout-traces" env:"OTEL_STDOUT_TRACES" env-default:"false"`
}

type Bot struct {
	ThinkTime  time.Duration `yaml:"think-time" env:"BOT_THINK_TIME" env-default:"600ms"`
	Difficulty string        `yaml:"difficulty" env:"BOT_DIFFICULTY" env-default:"hard"`
}

// Load reads the YAML file at path if it exists, then applies environment overrides.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, config)
	} else if errors.Is(statErr, os.ErrNotExist) {
		err = cleanenv.ReadEnv(config)
	} else {
		err = statErr
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if config.Settings.Backend != "redis" && config.Settings.Backend != "sqlite" {
		return nil, fmt.Errorf("unknown settings backend %q", config.Settings.Backend)
	}
	return config, nil
}

// MustLoad loads the config from CONFIG_PATH, or DefaultPath, and panics on failure.
func MustLoad() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}

	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}
