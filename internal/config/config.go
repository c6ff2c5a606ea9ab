// Package config loads application configuration from the environment.
//
// Configuration is explicit: main loads a Config once and passes it into
// constructors. Nothing in the rest of the codebase reads os.Getenv.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the vault server.
//
// SecretKey signs both the session token and the flash cookie; it must be
// long random data (e.g. `openssl rand -hex 32`).
type Config struct {
	Addr              string        `env:"ADDR" envDefault:":8080"`
	DBPath            string        `env:"DB_PATH" envDefault:"data/vault.db"`
	UploadDir         string        `env:"UPLOAD_DIR" envDefault:"data/uploads"`
	SecretKey         string        `env:"SECRET_KEY"`
	MaxUploadBytes    int64         `env:"MAX_UPLOAD_BYTES" envDefault:"16777216"` // 16 MiB
	AllowedExtensions []string      `env:"ALLOWED_EXTENSIONS" envSeparator:"," envDefault:"png,jpg,jpeg,gif"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"1h"`
}

// Load reads the environment (and a .env file when present) into a Config.
func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: loading .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SecretKey == "" {
		return errors.New("config: SECRET_KEY is required")
	}
	if len(c.SecretKey) < 16 {
		return errors.New("config: SECRET_KEY must be at least 16 characters")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("config: MAX_UPLOAD_BYTES must be positive")
	}
	if len(c.AllowedExtensions) == 0 {
		return errors.New("config: ALLOWED_EXTENSIONS must not be empty")
	}
	for i, ext := range c.AllowedExtensions {
		c.AllowedExtensions[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}
	return nil
}
