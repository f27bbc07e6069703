package stats

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/store"
	"github.com/verte-zerg/typeracer/internal/tier"
)

func records(wpms ...float64) []model.SessionRecord {
	c := tier.NewClassifier(tier.DefaultThresholds())
	out := make([]model.SessionRecord, len(wpms))
	for i, wpm := range wpms {
		out[i] = model.SessionRecord{
			Timestamp: time.Unix(int64(i)*60, 0),
			WPM:       wpm,
			Accuracy:  model.FixedAccuracy,
			Tier:      c.Classify(wpm, 0),
			Completed: true,
		}
	}
	return out
}

func TestComputeEmptyReturnsNoData(t *testing.T) {
	if _, err := Compute(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestComputeAggregates(t *testing.T) {
	hist, err := Compute(records(50, 60, 95, 70, 80, 85, 40))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if hist.TotalRounds != 7 {
		t.Fatalf("expected 7 rounds, got %d", hist.TotalRounds)
	}
	if hist.BestWPM != 95 {
		t.Fatalf("expected best 95, got %v", hist.BestWPM)
	}
	// (50+60+95+70+80+85+40)/7 = 68.57...
	if hist.AverageWPM != 68.6 {
		t.Fatalf("expected avg 68.6, got %v", hist.AverageWPM)
	}
	// last five: 95 70 80 85 40 -> 74
	if hist.RecentAverageWPM != 74 {
		t.Fatalf("expected recent avg 74, got %v", hist.RecentAverageWPM)
	}
	want := map[tier.ID]int{tier.Disaster: 3, tier.Pristine: 1, tier.Adequate: 1, tier.Exceptional: 2}
	for id, n := range want {
		if hist.TierCounts[id] != n {
			t.Fatalf("expected %d %s rounds, got %d", n, id, hist.TierCounts[id])
		}
	}
}

func TestComputeRecentWithFewRecords(t *testing.T) {
	hist, err := Compute(records(30, 40))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if hist.RecentAverageWPM != 35 || hist.AverageWPM != 35 {
		t.Fatalf("expected both averages 35, got %v and %v", hist.AverageWPM, hist.RecentAverageWPM)
	}
}

func TestComputeCountsAbortedRounds(t *testing.T) {
	recs := records(20, 100)
	recs[1].Completed = false
	hist, err := Compute(recs)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if hist.BestWPM != 100 {
		t.Fatalf("aborted rounds should count toward best, got %v", hist.BestWPM)
	}
}

func TestFromStoreRoundTrip(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "typeracer.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()

	if _, err := FromStore(ctx, st); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData on empty store, got %v", err)
	}

	wpms := []float64{61.2, 88.8, 73.4, 90.1}
	for _, rec := range records(wpms...) {
		if err := st.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	hist, err := FromStore(ctx, st)
	if err != nil {
		t.Fatalf("from store: %v", err)
	}
	if hist.TotalRounds != len(wpms) {
		t.Fatalf("expected %d rounds, got %d", len(wpms), hist.TotalRounds)
	}
	if hist.BestWPM != 90.1 {
		t.Fatalf("expected best 90.1, got %v", hist.BestWPM)
	}
}

type failingReader struct{}

func (failingReader) ReadAll(context.Context) ([]model.SessionRecord, error) {
	return nil, errors.New("disk on fire")
}

func TestFromStoreReportsReadError(t *testing.T) {
	_, err := FromStore(context.Background(), failingReader{})
	if err == nil || errors.Is(err, ErrNoData) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	rounds := []model.RoundSummary{
		{WPM: 91, Tier: tier.Pristine},
		{WPM: 45.5, Tier: tier.Disaster},
		{WPM: 72, Tier: tier.Adequate},
	}
	sum := Summarize(rounds)
	if sum.Rounds != 3 || sum.BestWPM != 91 || sum.AverageWPM != 69.5 {
		t.Fatalf("unexpected run summary: %+v", sum)
	}
	if sum.TierCounts[tier.Pristine] != 1 || sum.TierCounts[tier.Disaster] != 1 {
		t.Fatalf("unexpected tier counts: %+v", sum.TierCounts)
	}
	if empty := Summarize(nil); empty.Rounds != 0 || empty.TierCounts == nil {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}

func TestTierBreakdown(t *testing.T) {
	counts := map[tier.ID]int{tier.Disaster: 4, tier.Pristine: 2, tier.Exceptional: 0}
	if got := TierBreakdown(counts); got != "◆ 2 · ▼ 4" {
		t.Fatalf("unexpected breakdown: %q", got)
	}
	if got := TierBreakdown(counts, tier.Pristine, tier.Exceptional); got != "◆ 2" {
		t.Fatalf("unexpected filtered breakdown: %q", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); len(got) != 3 {
		t.Fatalf("expected flat sparkline of length 3, got %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil, 5); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !strings.Contains(buf.String(), "No rounds found.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}

	buf.Reset()
	if err := RenderSummary(&buf, records(50, 95, 72), 2); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, needle := range []string{"Rounds: 3", "Best WPM: 95.0", "PRISTINE", "WPM trend (window 2)"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("summary missing %q:\n%s", needle, out)
		}
	}
}

func TestRenderRecentLimits(t *testing.T) {
	var buf bytes.Buffer
	recs := records(10, 20, 30)
	recs[2].Completed = false
	if err := RenderRecent(&buf, recs, 2); err != nil {
		t.Fatalf("render recent: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "10.0") {
		t.Fatalf("expected oldest round to be cut:\n%s", out)
	}
	if !strings.Contains(out, "aborted") {
		t.Fatalf("expected aborted marker:\n%s", out)
	}
}
