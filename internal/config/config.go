// Package config reads branchsim settings from the environment. Command-line
// flags default to these values.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the environment configuration.
type Config struct {
	// DB is the journal database path; empty disables persistence.
	DB string `env:"BRANCHSIM_DB"`

	// Seed seeds random playouts. Batch runs use Seed, Seed+1, ...
	Seed int64 `env:"BRANCHSIM_SEED" envDefault:"1"`

	// MaxSteps is the resolution quota per playout.
	MaxSteps int `env:"BRANCHSIM_MAX_STEPS" envDefault:"5000"`

	// MaxTurns is the battle turn limit.
	MaxTurns int `env:"BRANCHSIM_MAX_TURNS" envDefault:"100"`

	// Workers bounds concurrent playouts in batch runs.
	Workers int `env:"BRANCHSIM_WORKERS" envDefault:"4"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"BRANCHSIM_LOG_LEVEL" envDefault:"warn"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the environment configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns the configuration with an empty environment.
func Defaults() Config {
	var cfg Config
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	if c.MaxSteps < 1 {
		return fmt.Errorf("BRANCHSIM_MAX_STEPS must be positive, got %d", c.MaxSteps)
	}
	if c.MaxTurns < 1 {
		return fmt.Errorf("BRANCHSIM_MAX_TURNS must be positive, got %d", c.MaxTurns)
	}
	if c.Workers < 1 {
		return fmt.Errorf("BRANCHSIM_WORKERS must be positive, got %d", c.Workers)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("BRANCHSIM_LOG_LEVEL: %w", err)
	}
	return nil
}

// Level returns the configured slog level. Invalid values fall back to warn;
// Validate reports them.
func (c Config) Level() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return l
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
