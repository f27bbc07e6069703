// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typeracer/internal/tier"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game  GameConfig  `toml:"game"`
	Tiers TiersConfig `toml:"tiers"`
}

// GameConfig maps game settings.
type GameConfig struct {
	QuotesDir *string `toml:"quotes-dir"`
	DBPath    *string `toml:"db-path"`
	Plain     *bool   `toml:"plain"`
}

// TiersConfig maps tier thresholds. Unset values keep their defaults.
type TiersConfig struct {
	PristineWPM       *float64 `toml:"pristine-wpm"`
	PristineMaxErrors *int     `toml:"pristine-max-errors"`
	ExceptionalWPM    *float64 `toml:"exceptional-wpm"`
	AdequateWPM       *float64 `toml:"adequate-wpm"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Thresholds applies the [tiers] section over the defaults and validates it.
func (c TiersConfig) Thresholds() (tier.Thresholds, error) {
	t := tier.DefaultThresholds()
	if c.PristineWPM != nil {
		t.PristineWPM = *c.PristineWPM
	}
	if c.PristineMaxErrors != nil {
		t.PristineMaxErrors = *c.PristineMaxErrors
	}
	if c.ExceptionalWPM != nil {
		t.ExceptionalWPM = *c.ExceptionalWPM
	}
	if c.AdequateWPM != nil {
		t.AdequateWPM = *c.AdequateWPM
	}
	if err := ValidateThresholds(t); err != nil {
		return tier.Thresholds{}, err
	}
	return t, nil
}

// ValidateThresholds rejects negative cut-offs and an inverted cascade.
func ValidateThresholds(t tier.Thresholds) error {
	if t.PristineWPM < 0 || t.ExceptionalWPM < 0 || t.AdequateWPM < 0 {
		return fmt.Errorf("tier wpm thresholds must be >= 0")
	}
	if t.PristineMaxErrors < tier.NoErrorLimit {
		return fmt.Errorf("pristine-max-errors must be >= %d", tier.NoErrorLimit)
	}
	if t.ExceptionalWPM < t.AdequateWPM {
		return fmt.Errorf("exceptional-wpm must be >= adequate-wpm")
	}
	return nil
}

// Template returns the commented config file written by the config command.
func Template() string {
	d := tier.DefaultThresholds()
	return fmt.Sprintf(`# typeracer configuration
# Uncomment a value to enable it.
# CLI flags override environment variables, which override this file.

[game]
# quotes-dir = %q   # Directory of quote_*.txt files
# db-path = %q      # SQLite stats database
# plain = false     # Line-mode play without the full-screen UI

[tiers]
# pristine-wpm = %.0f          # Minimum wpm for PRISTINE
# pristine-max-errors = %d     # Maximum errors for PRISTINE (-1 = no limit)
# exceptional-wpm = %.0f       # Minimum wpm for EXCEPTIONAL
# adequate-wpm = %.0f          # Minimum wpm for ADEQUATE
`,
		DefaultQuotesDir(),
		DefaultDBPath(),
		d.PristineWPM,
		d.PristineMaxErrors,
		d.ExceptionalWPM,
		d.AdequateWPM,
	)
}
