package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typeracer/internal/quotes"
	"github.com/verte-zerg/typeracer/internal/stats"
	"github.com/verte-zerg/typeracer/internal/statsui"
)

const listPreviewRunes = 60

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show historical stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsWindow, "window", defaultTrendWindow, "moving average window for the trend line")
	cmd.Flags().IntVar(&statsRecent, "recent", defaultRecentRows, "number of recent rounds to list (0 to hide)")
	cmd.Flags().BoolVar(&statsUI, "ui", false, "browse stats in the full-screen UI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	if statsRecent < 0 {
		return fmt.Errorf("--recent must be >= 0")
	}
	logger, closeLog := newLogger(false)
	defer closeLog()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if statsUI {
		program := tea.NewProgram(statsui.NewModel(st, statsWindow), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	records, err := st.ReadAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, records, statsWindow); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if statsRecent > 0 {
		if err := stats.RenderRecent(out, records, statsRecent); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newQuotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Manage quote files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List quote files",
		Args:  cobra.NoArgs,
		RunE:  runQuotesListCmd,
	})
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a quote",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuotesAddCmd,
	}
	add.Flags().StringVar(&quoteBook, "book", "", "book title")
	add.Flags().StringVar(&quoteAuthor, "author", "", "author name")
	add.Flags().BoolVar(&quoteForce, "force", false, "add even when a similar quote exists")
	cmd.AddCommand(add)
	return cmd
}

func runQuotesListCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := quotes.NewDir(cfg.QuotesDir, nil)
	files, err := dir.Files()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%d quotes in %s\n", len(files), dir.Path()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, path := range files {
		q, err := quotes.Load(path)
		if err != nil {
			logErrf("skipping %s: %v\n", path, err)
			continue
		}
		line := preview(q.Text)
		if q.Metadata != "" {
			line += "  (" + q.Metadata + ")"
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runQuotesAddCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := quotes.NewDir(cfg.QuotesDir, nil)
	text := strings.Join(args, " ")
	if !quoteForce {
		existing, found, err := dir.FindSimilar(text)
		if err != nil {
			return fmt.Errorf("failed to check for duplicates: %w", err)
		}
		if found {
			return fmt.Errorf("a similar quote already exists in %s (use --force to add anyway)", existing)
		}
	}
	path, err := dir.Save(text, quoteBook, quoteAuthor)
	if err != nil {
		return fmt.Errorf("failed to add quote: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= listPreviewRunes {
		return text
	}
	return string(runes[:listPreviewRunes-1]) + "…"
}
