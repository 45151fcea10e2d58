// Package config loads the configuration shared by theater-web and
// theater-api.
//
// The YAML file path comes from (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A .env file in the working directory, when present, is loaded into the
// process environment first, so any env:"..." override can live there
// during development.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure. Every field maps to a YAML
// key and can be overridden by its env variable.
type Config struct {
	// Env selects the log format: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the SQLite file of the reference backend. theater-web
	// ignores it.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"storage/theater.db"`

	HTTPServer `yaml:"http_server"`
	Backend    Backend `yaml:"backend"`
	Filter     Filter  `yaml:"filter"`
	Session    Session `yaml:"session"`
}

// HTTPServer holds the listener settings.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`

	Timeout     time.Duration `yaml:"timeout" env:"HTTP_SERVER_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Backend is where theater-web sends its data requests.
type Backend struct {
	BaseURL string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://localhost:8080"`
	Timeout time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"5s"`
}

// Filter tunes the live table filters.
type Filter struct {
	// TokenTTL is how long an idle view token keeps its sequence number.
	TokenTTL time.Duration `yaml:"token_ttl" env:"FILTER_TOKEN_TTL" env-default:"10m"`
}

// Session signs the cookie carrying one-shot notices.
type Session struct {
	// Key is the HMAC key of the notice cookie. When empty theater-web
	// generates a random key at startup.
	Key string `yaml:"key" env:"SESSION_KEY"`
}

// Load reads the file at path, applying env overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	// env-required only fires when the variable is absent, not when blank.
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("config: %s: http_server.address is empty", path)
	}
	return &cfg, nil
}

// MustLoad resolves the config path, loads it and exits on any failure.
// Functions prefixed with "Must" may terminate the process; if this
// returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}
	return cfg
}
