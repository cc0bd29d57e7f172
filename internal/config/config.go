package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// defaultRelayURL is the forwarding worker the browser frontend talks to.
const defaultRelayURL = "https://qwen-forward-2.linhongjie625.workers.dev"

type Config struct {
	HTTPAddr     string
	LogLevel     slog.Level
	RelayURL     string
	RelayAPIKey  string
	RelayTimeout time.Duration
}

func Load() (Config, error) {
	c := Config{
		HTTPAddr:     envOr("HTTP_ADDR", ":8080"),
		RelayURL:     envOr("RELAY_URL", defaultRelayURL),
		RelayAPIKey:  os.Getenv("RELAY_API_KEY"),
		RelayTimeout: 90 * time.Second,
	}

	if v := os.Getenv("RELAY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RELAY_TIMEOUT %q: %w", v, err)
		}
		c.RelayTimeout = d
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
