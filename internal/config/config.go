package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port                int
	VotesPath           string
	RosterPath          string
	MaxUploadBytes      int64
	LoadRetryMaxElapsed time.Duration
	PageTitle           string
	Environment         string
	LogLevel            string
}

const (
	DefaultPort           = 8501
	DefaultVotesPath      = "votos.json"
	DefaultMaxUploadBytes = 5 << 20
	DefaultLoadRetry      = 2 * time.Second
	DefaultPageTitle      = "Resultados Votación - Curso 1"
)

// FromEnv reads the dashboard configuration from the environment. Call
// godotenv.Load first if a .env file should be honoured.
func FromEnv() (Config, error) {
	cfg := Config{
		VotesPath:   envOr("VOTES_PATH", DefaultVotesPath),
		RosterPath:  os.Getenv("ROSTER_PATH"),
		PageTitle:   envOr("PAGE_TITLE", DefaultPageTitle),
		Environment: os.Getenv("ENVIRONMENT"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}

	port, err := strconv.Atoi(envOr("PORT", strconv.Itoa(DefaultPort)))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	maxUpload, err := strconv.ParseInt(envOr("MAX_UPLOAD_BYTES", strconv.Itoa(DefaultMaxUploadBytes)), 10, 64)
	if err != nil || maxUpload <= 0 {
		return Config{}, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q", os.Getenv("MAX_UPLOAD_BYTES"))
	}
	cfg.MaxUploadBytes = maxUpload

	retry, err := time.ParseDuration(envOr("LOAD_RETRY_MAX_ELAPSED", DefaultLoadRetry.String()))
	if err != nil || retry < 0 {
		return Config{}, fmt.Errorf("invalid LOAD_RETRY_MAX_ELAPSED %q", os.Getenv("LOAD_RETRY_MAX_ELAPSED"))
	}
	cfg.LoadRetryMaxElapsed = retry

	return cfg, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
