package config

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// RedisURL is the connection string for session storage and the
	// fragment queue.
	RedisURL string

	// DataDir holds static resources, character sheet files today.
	DataDir string

	// NarratorURL is the upstream narrative service to poke when a
	// queued fragment finishes processing. Empty disables
	// continuation notifications.
	NarratorURL string

	// AutoResolve rolls detected skill checks immediately instead of
	// returning open prompts.
	AutoResolve bool

	// BracketNotation additionally recognizes [ROLL: d20 ...]
	// markers in fragments.
	BracketNotation bool
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		NarratorURL:     getEnv("NARRATOR_URL", ""),
		AutoResolve:     parseBool(getEnv("AUTO_RESOLVE", "true")),
		BracketNotation: parseBool(getEnv("BRACKET_NOTATION", "false")),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
