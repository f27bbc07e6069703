package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typeracer/internal/controller"
	"github.com/verte-zerg/typeracer/internal/keyinput"
	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/quotes"
	"github.com/verte-zerg/typeracer/internal/session"
	"github.com/verte-zerg/typeracer/internal/stats"
	"github.com/verte-zerg/typeracer/internal/tier"
	"github.com/verte-zerg/typeracer/internal/tui"
)

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	logger, closeLog := newLogger(true)
	defer closeLog()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.Info().
		Str("quotes_dir", cfg.QuotesDir).
		Str("db_path", cfg.DBPath).
		Bool("plain", cfg.Plain).
		Msg("configuration loaded")

	dir := quotes.NewDir(cfg.QuotesDir, nil)
	files, err := dir.Files()
	if err != nil && !errors.Is(err, quotes.ErrNoQuotes) {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no quotes in %s; add one with: typeracer quotes add \"text\"", cfg.QuotesDir)
	}

	// A missing stats database does not stop the game.
	st, err := openStore(cfg.DBPath, logger)
	if err != nil {
		logger.Error().Err(err).Msg("playing without stats")
		logErrf("%v; playing without stats\n", err)
	}
	defer closeStore(st)

	var appender controller.RecordAppender
	var history stats.RecordReader
	if st != nil {
		appender = st
		history = st
	}
	classifier := tier.NewClassifier(cfg.Tiers)

	if cfg.Plain {
		return runPlain(cmd.Context(), dir, appender, history, classifier, logger)
	}
	ctrl := controller.New(dir, appender, classifier, controller.Options{Logger: logger})
	program := tea.NewProgram(tui.NewModel(ctrl, history, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// runPlain plays rounds in line mode, reading raw keys from stdin.
func runPlain(ctx context.Context, dir *quotes.Dir, appender controller.RecordAppender, history stats.RecordReader, classifier *tier.Classifier, logger zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer func() {
			if rerr := term.Restore(fd, oldState); rerr != nil {
				// Best-effort terminal restore.
				_ = rerr
			}
		}()
	}

	out := tui.NewPlain(os.Stdout)
	keys := keyinput.NewReader(os.Stdin)
	ctrl := controller.New(dir, appender, classifier, controller.Options{
		Logger: logger,
		OnChange: func(s *session.Session) {
			if s.State() == session.Idle {
				out.Quote(s.Quote())
			}
			out.Progress(s)
		},
	})

	var hist model.HistoricalStats
	hasHist := false
	if history != nil {
		if h, err := stats.FromStore(ctx, history); err == nil {
			hist, hasHist = h, true
		} else if !errors.Is(err, stats.ErrNoData) {
			logger.Warn().Err(err).Msg("failed to load historical stats")
		}
	}
	out.Welcome(hist, hasHist)

	if err := playPlainRounds(ctx, ctrl, keys, out); err != nil {
		return err
	}
	if len(ctrl.Rounds()) > 0 {
		out.RunSummary(ctrl.RunSummary())
	}
	return out.Err()
}

func playPlainRounds(ctx context.Context, ctrl *controller.Controller, keys *keyinput.Reader, out *tui.Plain) error {
	for {
		summary, err := ctrl.PlayRound(ctx, keys)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, controller.ErrRecordNotSaved):
			out.Result(summary)
			out.Notice("stats not saved")
		case err != nil:
			return err
		default:
			out.Result(summary)
		}
		if keys.Interrupted() {
			return nil
		}
		out.Prompt()
		ev, err := keys.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ev.Kind == controller.EventAbort || (ev.Kind == controller.EventRune && ev.Rune == 'q') {
			return nil
		}
	}
}
