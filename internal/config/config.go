// Package config loads modelgen settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/syssam/modelgen/dialect"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "modelgen.yaml"

// Config holds all configuration for modelgen.
// Environment variables always override YAML values.
type Config struct {
	// Generation settings
	Destination string `yaml:"destination" env:"MODELGEN_DESTINATION" env-default:"Models"`
	Author      string `yaml:"author" env:"MODELGEN_AUTHOR" env-default:""` // Defaults to the current user if empty
	Header      string `yaml:"header" env:"MODELGEN_HEADER" env-default:""`
	Storage     string `yaml:"storage" env:"MODELGEN_STORAGE" env-default:"postgres"`
	Workers     int    `yaml:"workers" env:"MODELGEN_WORKERS" env-default:"0"`

	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" env:"MODELGEN_LOG_LEVEL" env-default:"error"`
	Format string `yaml:"format" env:"MODELGEN_LOG_FORMAT" env-default:"console"`
}

// ServerConfig holds the compile service settings.
type ServerConfig struct {
	Addr string `yaml:"addr" env:"MODELGEN_SERVER_ADDR" env-default:":8080"`
	// MaxBodyBytes bounds the size of a compile request.
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"MODELGEN_SERVER_MAX_BODY_BYTES" env-default:"1048576"`
}

// DatabaseConfig holds the database read by the inspect command.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"MODELGEN_DB_DRIVER" env-default:"postgres"`
	DSN    string `yaml:"-" env:"MODELGEN_DB_DSN"` // Secret - not in YAML
	Schema string `yaml:"schema" env:"MODELGEN_DB_SCHEMA" env-default:""`
}

// Load reads configuration from path with environment variable overrides.
// A missing file is not an error when path is DefaultFile; defaults and the
// environment are used instead.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	cfg := &Config{}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultFile:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values that cannot be expressed by tag defaults.
func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be console or json, got %q", c.Log.Format))
	}
	if !dialect.Supported(c.Database.Driver) {
		errs = append(errs, fmt.Errorf("database driver %q is not supported", c.Database.Driver))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server max_body_bytes must be positive"))
	}
	return errors.Join(errs...)
}

// Usage returns the environment variables understood by Load.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
