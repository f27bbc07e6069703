package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read on startup.
const (
	EnvQuotesDir = "TYPERACER_QUOTES_DIR"
	EnvDBPath    = "TYPERACER_DB_PATH"
	EnvPlain     = "TYPERACER_PLAIN"
	EnvLogLevel  = "TYPERACER_LOG_LEVEL"
)

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables on the [game] section.
func ApplyEnv(cfg FileConfig) (FileConfig, error) {
	if v := getEnv(EnvQuotesDir); v != "" {
		cfg.Game.QuotesDir = &v
	}
	if v := getEnv(EnvDBPath); v != "" {
		cfg.Game.DBPath = &v
	}
	if v := getEnv(EnvPlain); v != "" {
		plain, err := strconv.ParseBool(v)
		if err != nil {
			return FileConfig{}, fmt.Errorf("invalid %s value %q: %w", EnvPlain, v, err)
		}
		cfg.Game.Plain = &plain
	}
	return cfg, nil
}

// LogLevel returns the configured log level name, or fallback.
func LogLevel(fallback string) string {
	if v := getEnv(EnvLogLevel); v != "" {
		return v
	}
	return fallback
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
