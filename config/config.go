/*
Package config provides YAML-based configuration with environment variable
expansion.

PURPOSE:
  One Config struct for the whole service, loadable from a YAML file whose
  values may reference environment variables (${VAR} syntax). A missing
  file falls back to defaults so the binary runs with zero setup.

EXAMPLE (config.yaml):
  port: 8080
  db_path: ${MOODCAL_DB:-moods.db}
  log_level: info
  cors_origins:
    - http://localhost:5173
  cache_dir: ""     # set to enable the local single-slot mood caches
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config holds the service configuration.
type Config struct {
	Port        int      `yaml:"port"`
	DBPath      string   `yaml:"db_path"`
	LogLevel    string   `yaml:"log_level"`
	CORSOrigins []string `yaml:"cors_origins"`

	// CacheDir enables the local single-slot mood caches when non-empty:
	// each user's controller keeps a slot file under this directory.
	CacheDir string `yaml:"cache_dir"`
}

// Default returns the zero-setup configuration.
func Default() Config {
	return Config{
		Port:     8080,
		DBPath:   "moods.db",
		LogLevel: "info",
		CORSOrigins: []string{
			"http://localhost:5173",
			"http://localhost:8080",
		},
	}
}

// Validate checks the configuration for obvious misconfiguration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.DBPath, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// Load reads configuration from a YAML file with environment variable
// expansion, falling back to Default() when the file does not exist.
func Load(filename string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
