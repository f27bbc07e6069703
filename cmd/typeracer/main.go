// Package main provides the CLI entrypoint for typeracer.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typeracer/internal/config"
	"github.com/verte-zerg/typeracer/internal/logging"
	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/store"
)

var (
	playQuotesDir string
	playDBPath    string
	playPlain     bool

	statsWindow int
	statsRecent int
	statsUI     bool

	quoteBook   string
	quoteAuthor string
	quoteForce  bool
)

const (
	defaultTrendWindow = 5
	defaultRecentRows  = 10
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:              "typeracer",
		Short:            "Terminal quote typing game",
		SilenceUsage:     true,
		SilenceErrors:    false,
		RunE:             runPlayCmd,
		PersistentPreRun: loadDotEnv,
	}
	rootCmd.PersistentFlags().StringVar(&playQuotesDir, "quotes-dir", config.DefaultQuotesDir(), "directory of quote files")
	rootCmd.PersistentFlags().StringVar(&playDBPath, "db", config.DefaultDBPath(), "stats database path")
	rootCmd.Flags().BoolVar(&playPlain, "plain", false, "line-mode play without the full-screen UI")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newQuotesCmd())

	return rootCmd
}

// loadDotEnv fills the environment from .env before any command runs.
func loadDotEnv(_ *cobra.Command, _ []string) {
	if err := config.LoadDotEnv(); err != nil {
		logErrf("failed to load .env: %v\n", err)
	}
}

// loadConfig merges flags, environment and the config file, in that order of precedence.
func loadConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg, err = config.ApplyEnv(fileCfg)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "quotes-dir", &playQuotesDir, fileCfg.Game.QuotesDir)
	applyStringConfig(cmd, "db", &playDBPath, fileCfg.Game.DBPath)
	applyBoolConfig(cmd, "plain", &playPlain, fileCfg.Game.Plain)

	thresholds, err := fileCfg.Tiers.Thresholds()
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid [tiers] config: %w", err)
	}
	cfg := model.Config{
		QuotesDir: playQuotesDir,
		DBPath:    playDBPath,
		Plain:     playPlain,
		Tiers:     thresholds,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.QuotesDir) == "" {
		return fmt.Errorf("--quotes-dir must not be empty")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return fmt.Errorf("--db must not be empty")
	}
	return nil
}

// newLogger builds the process logger. While a game runs the terminal is
// owned by the UI, so logs go to a file.
func newLogger(toFile bool) (zerolog.Logger, func()) {
	level, err := logging.ParseLevel(config.LogLevel(""))
	if err != nil {
		logErrf("%v; using %s\n", err, level)
	}
	if !toFile {
		return logging.New(os.Stderr, level, true), func() {}
	}
	f, err := logging.OpenFile(config.DefaultLogPath())
	if err != nil {
		logErrf("failed to open log file, logging disabled: %v\n", err)
		return zerolog.Nop(), func() {}
	}
	logger := logging.New(f, level, false)
	// The log file is shared by every run; tag lines with a short run id.
	if runID, err := gonanoid.New(10); err == nil {
		logger = logger.With().Str("run", runID).Logger()
	}
	return logger, func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}
}

func openStore(path string, logger zerolog.Logger) (*store.Store, error) {
	st, err := store.Open(path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if st == nil {
		return
	}
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
