// Package stats contains historical statistics and reporting.
package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/session"
	"github.com/verte-zerg/typeracer/internal/tier"
)

const sparkChars = " .:-=+*#%@"

// ErrNoData is returned when there are no records to aggregate.
var ErrNoData = errors.New("no rounds recorded")

// RecordReader reads the full record log.
type RecordReader interface {
	ReadAll(ctx context.Context) ([]model.SessionRecord, error)
}

// Compute aggregates records. Aborted rounds count like completed ones.
func Compute(records []model.SessionRecord) (model.HistoricalStats, error) {
	if len(records) == 0 {
		return model.HistoricalStats{}, ErrNoData
	}
	wpms := make([]float64, len(records))
	counts := make(map[tier.ID]int)
	for i, rec := range records {
		wpms[i] = rec.WPM
		counts[rec.Tier]++
	}
	recent := wpms
	if len(recent) > model.RecentWindow {
		recent = recent[len(recent)-model.RecentWindow:]
	}
	return model.HistoricalStats{
		TotalRounds:      len(records),
		AverageWPM:       session.Round1(mean(wpms)),
		RecentAverageWPM: session.Round1(mean(recent)),
		BestWPM:          session.Round1(maxOf(wpms)),
		TierCounts:       counts,
	}, nil
}

// FromStore reads the log and aggregates it.
func FromStore(ctx context.Context, r RecordReader) (model.HistoricalStats, error) {
	records, err := r.ReadAll(ctx)
	if err != nil {
		return model.HistoricalStats{}, fmt.Errorf("failed to read records: %w", err)
	}
	return Compute(records)
}

// Summarize aggregates rounds played in the current run.
func Summarize(rounds []model.RoundSummary) model.RunSummary {
	out := model.RunSummary{TierCounts: map[tier.ID]int{}}
	if len(rounds) == 0 {
		return out
	}
	wpms := make([]float64, len(rounds))
	for i, r := range rounds {
		wpms[i] = r.WPM
		out.TierCounts[r.Tier]++
	}
	out.Rounds = len(rounds)
	out.AverageWPM = session.Round1(mean(wpms))
	out.BestWPM = session.Round1(maxOf(wpms))
	return out
}

// TierBreakdown formats tier counts as "◆ 2 · ★ 1", best tier first.
// Tiers not listed in only are skipped when only is non-empty.
func TierBreakdown(counts map[tier.ID]int, only ...tier.ID) string {
	allowed := map[tier.ID]bool{}
	for _, id := range only {
		allowed[id] = true
	}
	parts := make([]string, 0, len(counts))
	for _, id := range tier.Order() {
		if len(allowed) > 0 && !allowed[id] {
			continue
		}
		if n := counts[id]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", tier.Info(id).Symbol, n))
		}
	}
	return strings.Join(parts, " · ")
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the historical report.
func RenderSummary(w io.Writer, records []model.SessionRecord, window int) error {
	hist, err := Compute(records)
	if errors.Is(err, ErrNoData) {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	if err != nil {
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d", hist.TotalRounds),
		fmt.Sprintf("Avg WPM: %.1f", hist.AverageWPM),
		fmt.Sprintf("Recent WPM (last %d): %.1f", model.RecentWindow, hist.RecentAverageWPM),
		fmt.Sprintf("Best WPM: %.1f", hist.BestWPM),
		"",
		"Tiers",
	}
	headers := []string{"Tier", "Symbol", "Rounds"}
	rows := make([][]string, 0, len(tier.Order()))
	for _, id := range tier.Order() {
		meta := tier.Info(id)
		rows = append(rows, []string{meta.Name, meta.Symbol, fmt.Sprintf("%d", hist.TierCounts[id])})
	}
	lines = append(lines, formatTable(headers, rows, map[int]bool{2: true})...)

	wpms := make([]float64, len(records))
	for i, rec := range records {
		wpms[i] = rec.WPM
	}
	lines = append(lines, "", fmt.Sprintf("WPM trend (window %d)", window), Sparkline(MovingAverage(wpms, window)), "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderRecent prints the last n records as a table.
func RenderRecent(w io.Writer, records []model.SessionRecord, n int) error {
	if len(records) == 0 {
		return nil
	}
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	if _, err := fmt.Fprintln(w, "Recent Rounds"); err != nil {
		return err
	}
	headers := []string{"Date", "Time", "WPM", "Errors", "Seconds", "Tier", "Finished"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		local := rec.Timestamp.Local()
		finished := "yes"
		if !rec.Completed {
			finished = "aborted"
		}
		rows = append(rows, []string{
			local.Format("2006-01-02"),
			local.Format("15:04:05"),
			fmt.Sprintf("%.1f", rec.WPM),
			fmt.Sprintf("%d", rec.ErrorCount),
			fmt.Sprintf("%.1f", rec.DurationSeconds),
			tier.Info(rec.Tier).Name,
			finished,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func maxOf(values []float64) float64 {
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	return best
}
