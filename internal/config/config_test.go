package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "VOTES_PATH", "ROSTER_PATH", "MAX_UPLOAD_BYTES", "LOAD_RETRY_MAX_ELAPSED", "PAGE_TITLE", "ENVIRONMENT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "votos.json", cfg.VotesPath)
	assert.Empty(t, cfg.RosterPath)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
	assert.Equal(t, 2*time.Second, cfg.LoadRetryMaxElapsed)
	assert.Equal(t, DefaultPageTitle, cfg.PageTitle)
	assert.Equal(t, ":8501", cfg.Addr())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("VOTES_PATH", "/data/curso2.json")
	t.Setenv("ROSTER_PATH", "/data/curso2.yaml")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("LOAD_RETRY_MAX_ELAPSED", "0s")
	t.Setenv("PAGE_TITLE", "Curso 2")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/data/curso2.json", cfg.VotesPath)
	assert.Equal(t, "/data/curso2.yaml", cfg.RosterPath)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Zero(t, cfg.LoadRetryMaxElapsed)
	assert.Equal(t, "Curso 2", cfg.PageTitle)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port not a number", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"negative upload cap", "MAX_UPLOAD_BYTES", "-1"},
		{"bad duration", "LOAD_RETRY_MAX_ELAPSED", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
