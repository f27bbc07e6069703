package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/typeracer/internal/controller"
	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/tier"
)

func press(t *testing.T, m *Model, msg tea.KeyMsg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestWelcomeShowsHistory(t *testing.T) {
	reader := &fakeReader{records: []model.SessionRecord{
		{WPM: 50, Tier: tier.Disaster},
		{WPM: 95, Tier: tier.Pristine},
	}}
	m := NewModel(newTestController(model.Quote{Text: "hi"}, reader), reader, zerolog.Nop())
	view := m.View()
	if !containsAll(view, []string{"avg 72.5 wpm", "best 95.0 wpm", "2 rounds completed", "◆ 1"}) {
		t.Fatalf("unexpected welcome view: %s", view)
	}
}

func TestWelcomeWithoutHistory(t *testing.T) {
	m := NewModel(newTestController(model.Quote{Text: "hi"}, nil), &fakeReader{}, zerolog.Nop())
	if !strings.Contains(m.View(), "no rounds recorded yet") {
		t.Fatalf("expected empty history message")
	}
}

func TestFullRunFlow(t *testing.T) {
	reader := &fakeReader{}
	ctrl := newTestController(model.Quote{Text: "hi", Metadata: "Book · Author"}, reader)
	m := NewModel(ctrl, reader, zerolog.Nop())

	if cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Fatalf("expected tick command when a round starts")
	}
	if m.screen != screenTyping {
		t.Fatalf("expected typing screen, got %d", m.screen)
	}
	if !strings.Contains(m.View(), "Book · Author") {
		t.Fatalf("expected quote metadata while typing")
	}

	press(t, m, runes("hx"))
	press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	press(t, m, runes("i"))
	if m.screen != screenResult {
		t.Fatalf("expected result screen, got %d", m.screen)
	}
	if !m.last.CompletedFully || m.last.ErrorCount != 1 {
		t.Fatalf("unexpected summary: %+v", m.last)
	}
	if !containsAll(m.View(), []string{"DISASTER", "1 corrected", "wpm"}) {
		t.Fatalf("unexpected result view: %s", m.View())
	}
	if !m.hasHist || m.hist.TotalRounds != 1 {
		t.Fatalf("expected history refreshed after the round, got %+v", m.hist)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, m, runes("h"))
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if m.screen != screenResult || m.last.CompletedFully {
		t.Fatalf("expected skipped round result")
	}
	if !strings.Contains(m.View(), "skipped") {
		t.Fatalf("expected skipped marker")
	}
	if len(reader.records) != 2 || reader.records[1].Completed {
		t.Fatalf("expected skipped round to be recorded, got %+v", reader.records)
	}

	press(t, m, runes("q"))
	if m.screen != screenSummary {
		t.Fatalf("expected summary screen, got %d", m.screen)
	}
	if !containsAll(m.View(), []string{"2 rounds", "▼ 2"}) {
		t.Fatalf("unexpected summary view: %s", m.View())
	}
	if cmd := press(t, m, runes("x")); !isQuit(cmd) {
		t.Fatalf("expected quit after summary")
	}
}

func TestCtrlCWhileTypingEndsRun(t *testing.T) {
	m := NewModel(newTestController(model.Quote{Text: "hello"}, nil), nil, zerolog.Nop())
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, m, runes("he"))
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.screen != screenSummary {
		t.Fatalf("expected summary screen, got %d", m.screen)
	}
	rounds := m.ctrl.Rounds()
	if len(rounds) != 1 || rounds[0].CompletedFully {
		t.Fatalf("expected one aborted round, got %+v", rounds)
	}
}

func TestQuitWithoutRounds(t *testing.T) {
	m := NewModel(newTestController(model.Quote{Text: "hello"}, nil), nil, zerolog.Nop())
	if cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc}); !isQuit(cmd) {
		t.Fatalf("expected immediate quit")
	}
}

func TestStartFailureShowsNotice(t *testing.T) {
	ctrl := controller.New(fakeProvider{err: errNoQuotes}, nil, nil, controller.Options{Logger: zerolog.Nop()})
	m := NewModel(ctrl, nil, zerolog.Nop())
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenWelcome {
		t.Fatalf("expected to stay on welcome screen")
	}
	if !strings.Contains(m.View(), "no quotes") {
		t.Fatalf("expected error notice, got %s", m.View())
	}
}

func TestStoreFailureShowsNotice(t *testing.T) {
	store := &fakeReader{err: errNoQuotes}
	m := NewModel(newTestController(model.Quote{Text: "a"}, store), nil, zerolog.Nop())
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, m, runes("a"))
	if m.screen != screenResult {
		t.Fatalf("expected result even when saving fails")
	}
	if !strings.Contains(m.View(), "stats not saved") {
		t.Fatalf("expected save warning")
	}
}

func TestTickOnlyWhileTyping(t *testing.T) {
	m := NewModel(newTestController(model.Quote{Text: "hello"}, nil), nil, zerolog.Nop())
	if _, cmd := m.Update(tickMsg(time.Now())); cmd != nil {
		t.Fatalf("expected no tick on welcome screen")
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if _, cmd := m.Update(tickMsg(time.Now())); cmd == nil {
		t.Fatalf("expected tick to continue while typing")
	}
}

func TestViewFitsWindow(t *testing.T) {
	m := NewModel(newTestController(model.Quote{Text: "hello world"}, nil), nil, zerolog.Nop())
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
}
