// Package store handles SQLite persistence of finished rounds.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/tier"

	_ "modernc.org/sqlite" // SQLite driver.
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store is an append-only log of session records.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// One writer; also keeps pragmas bound to the single connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, logger: logger}
	if err := store.setPragmas(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on setup failure.
			_ = cerr
		}
		return nil, err
	}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	logger.Debug().Str("path", path).Msg("stats store opened")
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) setPragmas() error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"journal_mode", "WAL"},
		{"synchronous", "NORMAL"},
		{"busy_timeout", "5000"},
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("failed to set PRAGMA %s: %w", p.name, err)
		}
	}
	return nil
}

func (s *Store) migrate() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{logger: s.logger})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Append stores one record. Missing id and timestamp are filled in.
func (s *Store) Append(ctx context.Context, rec model.SessionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	local := rec.Timestamp.Local()
	completed := 0
	if rec.Completed {
		completed = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (id, timestamp, date, time, wpm, accuracy, errors, duration_seconds, tier, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Timestamp.Format(time.RFC3339Nano),
		local.Format("2006-01-02"),
		local.Format("15:04:05"),
		rec.WPM,
		rec.Accuracy,
		rec.ErrorCount,
		roundTo(rec.DurationSeconds, 2),
		string(rec.Tier),
		completed,
	)
	if err != nil {
		return fmt.Errorf("failed to append round %s: %w", rec.ID, err)
	}
	s.logger.Debug().Str("id", rec.ID).Float64("wpm", rec.WPM).Str("tier", string(rec.Tier)).Msg("round appended")
	return nil
}

// ReadAll returns every record in insertion order.
func (s *Store) ReadAll(ctx context.Context) ([]model.SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, wpm, accuracy, errors, duration_seconds, tier, completed
		 FROM rounds
		 ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var ts, tierName string
		var completed int
		if err := rows.Scan(&rec.ID, &ts, &rec.WPM, &rec.Accuracy, &rec.ErrorCount, &rec.DurationSeconds, &tierName, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp %q: %w", ts, err)
		}
		rec.Timestamp = parsed
		rec.Tier = tier.ID(tierName)
		rec.Completed = completed != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rounds: %w", err)
	}
	return records, nil
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

type gooseLogger struct {
	logger zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug().Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error().Msgf(format, v...)
}
