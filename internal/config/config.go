package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment. EnvLabel and Port are
// display-only: the presentation layer shows them, the engine never looks.
type Config struct {
	EnvLabel      string
	Port          int
	OpponentDelay time.Duration
	SessionTTL    time.Duration
	OTLPEndpoint  string
}

const (
	defaultPort          = 8080
	defaultOpponentDelay = 600 * time.Millisecond
	defaultSessionTTL    = 30 * time.Minute
	defaultOTLPEndpoint  = "otel-collector:4317"
)

// Load reads configuration from the environment, consulting a local .env
// file first when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	return &Config{
		EnvLabel:      getEnv("APP_ENV_LABEL", "development"),
		Port:          getInt("PORT", defaultPort),
		OpponentDelay: getDuration("OPPONENT_DELAY", defaultOpponentDelay),
		SessionTTL:    getDuration("SESSION_TTL", defaultSessionTTL),
		OTLPEndpoint:  getEnv("OTLP_ENDPOINT", defaultOTLPEndpoint),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
}
