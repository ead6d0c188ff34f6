package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/multicode/codegraph/internal/logging"
)

// Config holds all codegraph CLI configuration.
// Priority: env vars > settings.json > defaults.
type Config struct {
	DBPath   string `json:"db_path"`
	LogLevel string `json:"log_level"`
	Language string `json:"language"`
}

func defaultConfig() Config {
	return Config{
		DBPath:   filepath.Join(codegraphDir(), "history.db"),
		LogLevel: "info",
		Language: "cpp",
	}
}

func codegraphDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codegraph"
	}
	return filepath.Join(home, ".codegraph")
}

func settingsPath() string {
	return filepath.Join(codegraphDir(), "settings.json")
}

func loadConfig() Config {
	cfg := defaultConfig()

	// Layer 2: settings.json (ignore if missing).
	if data, err := os.ReadFile(settingsPath()); err == nil {
		_ = json.Unmarshal(data, &cfg)
	}

	// Layer 3: env vars override.
	if v := os.Getenv("CODEGRAPH_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CODEGRAPH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CODEGRAPH_LANGUAGE"); v != "" {
		cfg.Language = v
	}

	return cfg
}

// newLogger builds the CLI logger: a stderr text handler wrapped in the
// correlation handler so graph/node/run IDs from context show up as attrs.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(logging.NewCorrelationHandler(inner))
}
