package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/caarlos0/env/v11"
)

const (
	AdapterPGX    = "pgx"
	AdapterSQL    = "sql"
	AdapterSQLX   = "sqlx"
	AdapterSQLite = "sqlite"
)

var adapters = []string{AdapterPGX, AdapterSQL, AdapterSQLX, AdapterSQLite}

var (
	ErrMissingDSN          = errors.New("database DSN is required")
	ErrUnknownAdapter      = errors.New("unknown database adapter")
	ErrInvalidMaxOpenConns = errors.New("max open connections must be positive")
	ErrInvalidLogLevel     = errors.New("invalid log level")
)

// Config holds the settings of the assertdb command.
type Config struct {
	DSN          string `env:"ASSERTDB_DSN"`
	Adapter      string `env:"ASSERTDB_ADAPTER"        envDefault:"pgx"`
	MaxOpenConns int    `env:"ASSERTDB_MAX_OPEN_CONNS" envDefault:"4"`
	LogLevel     string `env:"ASSERTDB_LOG_LEVEL"      envDefault:"info"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadWithOptions(env.Options{})
}

// LoadWithOptions reads the configuration with explicit env options, e.g. a fixed Environment in tests.
func LoadWithOptions(options env.Options) (Config, error) {
	var cfg Config

	if err := env.ParseWithOptions(&cfg, options); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration can open a database.
func (c Config) Validate() error {
	var errs []error

	if c.DSN == "" {
		errs = append(errs, ErrMissingDSN)
	}

	if !slices.Contains(adapters, c.Adapter) {
		errs = append(errs, fmt.Errorf("%w: %q, expected one of %v", ErrUnknownAdapter, c.Adapter, adapters))
	}

	if c.MaxOpenConns <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidMaxOpenConns, c.MaxOpenConns))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}

	return level, nil
}
