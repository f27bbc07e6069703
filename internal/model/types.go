// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/typeracer/internal/tier"
)

// FixedAccuracy is recorded for every round: only exact completions finish.
const FixedAccuracy = 100.0

// RecentWindow is the number of trailing rounds in the recent average.
const RecentWindow = 5

// Config defines game settings after flags, env and file are merged.
type Config struct {
	QuotesDir string
	DBPath    string
	Plain     bool
	Tiers     tier.Thresholds
}

// Quote is a target text with an optional attribution line.
type Quote struct {
	Text     string
	Metadata string
	// Source is the file the quote was read from, if any.
	Source string
}

// RoundSummary is produced once per finished or aborted round.
type RoundSummary struct {
	ID              string
	WPM             float64
	DurationSeconds float64
	ErrorCount      int
	Tier            tier.ID
	CompletedFully  bool
	Quote           Quote
	EndedAt         time.Time
}

// SessionRecord is the persisted form of a round.
type SessionRecord struct {
	ID              string
	Timestamp       time.Time
	WPM             float64
	Accuracy        float64
	ErrorCount      int
	DurationSeconds float64
	Tier            tier.ID
	Completed       bool
}

// RecordFromSummary converts a round summary into its persisted form.
func RecordFromSummary(s RoundSummary) SessionRecord {
	return SessionRecord{
		ID:              s.ID,
		Timestamp:       s.EndedAt,
		WPM:             s.WPM,
		Accuracy:        FixedAccuracy,
		ErrorCount:      s.ErrorCount,
		DurationSeconds: s.DurationSeconds,
		Tier:            s.Tier,
		Completed:       s.CompletedFully,
	}
}

// HistoricalStats aggregates the whole record log.
type HistoricalStats struct {
	TotalRounds      int
	AverageWPM       float64
	RecentAverageWPM float64
	BestWPM          float64
	TierCounts       map[tier.ID]int
}

// RunSummary aggregates the rounds played in the current process.
type RunSummary struct {
	Rounds     int
	AverageWPM float64
	BestWPM    float64
	TierCounts map[tier.ID]int
}
