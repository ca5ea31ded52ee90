package config

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Config{
		Seed:     1,
		MaxSteps: 5000,
		MaxTurns: 100,
		Workers:  4,
		LogLevel: "warn",
	}, cfg)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BRANCHSIM_DB", "/tmp/j.db")
	t.Setenv("BRANCHSIM_SEED", "99")
	t.Setenv("BRANCHSIM_MAX_STEPS", "10")
	t.Setenv("BRANCHSIM_MAX_TURNS", "3")
	t.Setenv("BRANCHSIM_WORKERS", "8")
	t.Setenv("BRANCHSIM_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/j.db", cfg.DB)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 10, cfg.MaxSteps)
	assert.Equal(t, 3, cfg.MaxTurns)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("BRANCHSIM_SEED", "not-an-int")

	_, err := Load()
	require.Error(t, err)
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"zero steps", map[string]string{"BRANCHSIM_MAX_STEPS": "0"}, "BRANCHSIM_MAX_STEPS"},
		{"negative turns", map[string]string{"BRANCHSIM_MAX_TURNS": "-1"}, "BRANCHSIM_MAX_TURNS"},
		{"no workers", map[string]string{"BRANCHSIM_WORKERS": "0"}, "BRANCHSIM_WORKERS"},
		{"bad level", map[string]string{"BRANCHSIM_LOG_LEVEL": "loud"}, `unknown log level "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLevelFallback(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "nope"}.Level())
	assert.Equal(t, slog.LevelError, Config{LogLevel: "error"}.Level())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "Info"}.Level())
}

func TestDefaultsIgnoreEnv(t *testing.T) {
	t.Setenv("BRANCHSIM_SEED", "not-a-number")

	cfg := Defaults()
	assert.Equal(t, int64(1), cfg.Seed)
	assert.Equal(t, 4, cfg.Workers)
	assert.NoError(t, cfg.Validate())
}
