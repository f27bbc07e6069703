package tui

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/stats"
	"github.com/verte-zerg/typeracer/internal/tier"
)

// renderWelcome shows historical stats before the first round.
func renderWelcome(hist model.HistoricalStats, hasHist bool) string {
	lines := []string{titleStyle.Render("typeracer"), ""}
	if !hasHist {
		lines = append(lines, "no rounds recorded yet")
		return strings.Join(lines, "\n")
	}
	lines = append(lines,
		fmt.Sprintf("avg %.1f wpm · best %.1f wpm · recent %.1f wpm", hist.AverageWPM, hist.BestWPM, hist.RecentAverageWPM),
	)
	if rare := stats.TierBreakdown(hist.TierCounts, tier.Pristine, tier.Exceptional); rare != "" {
		lines = append(lines, rare)
	}
	lines = append(lines, footerStyle.Render(fmt.Sprintf("%d rounds completed", hist.TotalRounds)))
	return strings.Join(lines, "\n")
}

// renderResult shows the outcome of one round.
func renderResult(s model.RoundSummary) string {
	meta := tier.Info(s.Tier)
	badge := meta.Symbol
	if meta.Rare {
		badge = strings.Repeat(meta.Symbol, 3)
	}
	style := tierStyle(s.Tier)
	lines := []string{
		style.Render(badge + " " + meta.Name + " " + badge),
		metaStyle.Render(meta.Description),
		"",
		fmt.Sprintf("%.1f wpm · %.1fs", s.WPM, s.DurationSeconds),
	}
	if s.ErrorCount > 0 {
		lines = append(lines, incorrectStyle.Render(fmt.Sprintf("%d corrected", s.ErrorCount)))
	}
	if !s.CompletedFully {
		lines = append(lines, footerStyle.Render("skipped"))
	}
	if s.Quote.Metadata != "" {
		lines = append(lines, "", metaStyle.Render(s.Quote.Metadata))
	}
	return strings.Join(lines, "\n")
}

// renderRunSummary shows the totals of the rounds played in this run.
func renderRunSummary(run model.RunSummary) string {
	lines := []string{
		titleStyle.Render("session summary"),
		"",
		fmt.Sprintf("%d rounds · avg %.1f wpm · best %.1f wpm", run.Rounds, run.AverageWPM, run.BestWPM),
	}
	if breakdown := stats.TierBreakdown(run.TierCounts); breakdown != "" {
		lines = append(lines, breakdown)
	}
	return strings.Join(lines, "\n")
}
