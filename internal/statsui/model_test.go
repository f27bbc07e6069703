package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/tier"
)

type fakeReader struct {
	records []model.SessionRecord
	err     error
}

func (r *fakeReader) ReadAll(context.Context) ([]model.SessionRecord, error) {
	return r.records, r.err
}

func sampleRecords() []model.SessionRecord {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	return []model.SessionRecord{
		{Timestamp: base, WPM: 60, Tier: tier.Disaster, Completed: true},
		{Timestamp: base.Add(time.Hour), WPM: 92.5, Tier: tier.Pristine, Completed: true},
		{Timestamp: base.Add(2 * time.Hour), WPM: 30, Tier: tier.Disaster},
	}
}

func TestRoundRowsNewestFirst(t *testing.T) {
	rows := roundRows(sampleRecords())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][1] != "11:00:00" || rows[0][6] != "aborted" {
		t.Fatalf("expected newest aborted round first, got %v", rows[0])
	}
	if rows[1][5] != "◆ PRISTINE" || rows[1][2] != "92.5" {
		t.Fatalf("unexpected pristine row: %v", rows[1])
	}
}

func TestOverviewShowsCards(t *testing.T) {
	out := renderOverview(sampleRecords(), 2, 200)
	for _, want := range []string{"Rounds", "Avg WPM", "60.8", "Best WPM", "92.5", "WPM trend (window 2)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestOverviewEmpty(t *testing.T) {
	if out := renderOverview(nil, 5, 80); out != "No rounds found." {
		t.Fatalf("unexpected empty overview: %q", out)
	}
}

func TestModelTabsAndQuit(t *testing.T) {
	m := NewModel(&fakeReader{records: sampleRecords()}, 5)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.View() == "" {
		t.Fatalf("expected a view once sized")
	}
	if lines := strings.Split(m.View(), "\n"); len(lines) != 30 {
		t.Fatalf("expected view to fill 30 lines, got %d", len(lines))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.activeTab != tabRounds {
		t.Fatalf("expected rounds tab")
	}
	if !strings.Contains(m.View(), "PRISTINE") {
		t.Fatalf("expected rounds table in view")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestModelShowsReadError(t *testing.T) {
	m := NewModel(&fakeReader{err: errors.New("locked")}, 5)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "locked") {
		t.Fatalf("expected error in view")
	}
}
