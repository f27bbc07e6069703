// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/typeracer/internal/controller"
	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/session"
	"github.com/verte-zerg/typeracer/internal/stats"
)

const liveRefresh = 500 * time.Millisecond

type screen int

const (
	screenWelcome screen = iota
	screenTyping
	screenResult
	screenSummary
)

type tickMsg time.Time

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctrl    *controller.Controller
	history stats.RecordReader
	logger  zerolog.Logger
	keys    keyMap
	help    help.Model

	width  int
	height int

	screen  screen
	hist    model.HistoricalStats
	hasHist bool
	last    model.RoundSummary
	hasLast bool
	notice  string
}

// NewModel constructs a typing TUI model. history may be nil when no
// stats store is available.
func NewModel(ctrl *controller.Controller, history stats.RecordReader, logger zerolog.Logger) *Model {
	m := &Model{
		ctrl:    ctrl,
		history: history,
		logger:  logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	m.loadHistory()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if m.screen != screenTyping {
			return m, nil
		}
		return m, tick()
	case tea.KeyMsg:
		switch m.screen {
		case screenTyping:
			return m.updateTyping(msg)
		case screenSummary:
			return m, tea.Quit
		default:
			return m.updateIdle(msg)
		}
	default:
		return m, nil
	}
}

func (m *Model) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.endRun()
	case key.Matches(msg, m.keys.Start):
		return m.startRound()
	default:
		return m, nil
	}
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.End):
		if _, err := m.ctrl.Apply(controller.AbortEvent()); err != nil {
			m.logger.Error().Err(err).Msg("failed to abort round")
		}
		m.finishRound()
		return m.endRun()
	case key.Matches(msg, m.keys.Skip):
		return m.apply(controller.AbortEvent())
	case key.Matches(msg, m.keys.Backspace):
		return m.apply(controller.BackspaceEvent())
	}
	switch msg.Type {
	case tea.KeySpace:
		return m.apply(controller.RuneEvent(' '))
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if next, cmd := m.apply(controller.RuneEvent(r)); m.screen != screenTyping {
				return next, cmd
			}
		}
	}
	return m, nil
}

func (m *Model) apply(ev controller.Event) (tea.Model, tea.Cmd) {
	done, err := m.ctrl.Apply(ev)
	if err != nil {
		m.logger.Error().Err(err).Str("event", ev.Kind.String()).Msg("failed to apply key")
		return m, nil
	}
	if done {
		m.finishRound()
	}
	return m, nil
}

func (m *Model) startRound() (tea.Model, tea.Cmd) {
	if _, err := m.ctrl.Begin(context.Background()); err != nil {
		m.logger.Error().Err(err).Msg("failed to start round")
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	m.screen = screenTyping
	return m, tick()
}

func (m *Model) finishRound() {
	summary, err := m.ctrl.Finish(context.Background())
	if err != nil && !errors.Is(err, controller.ErrRecordNotSaved) {
		m.logger.Error().Err(err).Msg("failed to finish round")
		m.notice = err.Error()
		m.screen = screenWelcome
		return
	}
	m.notice = ""
	if err != nil {
		m.notice = "stats not saved"
	}
	m.last = summary
	m.hasLast = true
	m.screen = screenResult
	m.loadHistory()
}

func (m *Model) endRun() (tea.Model, tea.Cmd) {
	if len(m.ctrl.Rounds()) == 0 {
		return m, tea.Quit
	}
	m.screen = screenSummary
	return m, nil
}

func (m *Model) loadHistory() {
	if m.history == nil {
		return
	}
	hist, err := stats.FromStore(context.Background(), m.history)
	if err != nil {
		if !errors.Is(err, stats.ErrNoData) {
			m.logger.Warn().Err(err).Msg("failed to load historical stats")
		}
		return
	}
	m.hist = hist
	m.hasHist = true
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	var keys bindings
	switch m.screen {
	case screenTyping:
		content = m.renderTyping()
		keys = bindings{m.keys.Skip, m.keys.End}
	case screenResult:
		content = renderResult(m.last)
		keys = bindings{m.keys.Start, m.keys.Quit}
	case screenSummary:
		content = renderRunSummary(m.ctrl.RunSummary())
	default:
		content = renderWelcome(m.hist, m.hasHist)
		keys = bindings{m.keys.Start, m.keys.Quit}
	}
	if m.notice != "" {
		content += "\n\n" + warnStyle.Render(m.notice)
	}

	footer := m.renderFooter()
	if len(keys) > 0 {
		helpLine := m.help.View(keys)
		if footer == "" {
			footer = helpLine
		} else {
			footer = footer + "  " + helpLine
		}
	}
	if m.width == 0 || m.height == 0 {
		if footer == "" {
			return content
		}
		return content + "\n\n" + footer
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderTyping() string {
	s := m.ctrl.Current()
	if s == nil {
		return ""
	}
	cells := s.Cells()
	cursorIndex := -1
	if !s.AtTargetLength() {
		cursorIndex = len(s.Typed())
	}
	styled := buildStyledRunes(cells, cursorIndex)

	contentWidth := int(float64(m.width) * 0.70)
	if m.width == 0 {
		contentWidth = 0
	} else if contentWidth < 1 {
		contentWidth = 1
	}
	text := wrapStyledRunes(styled, contentWidth)
	if contentWidth > 0 {
		text = lipgloss.NewStyle().Width(contentWidth).Render(text)
	}
	lines := []string{text}
	if meta := s.Quote().Metadata; meta != "" {
		lines = append(lines, "", metaStyle.Render(meta))
	}
	return strings.Join(lines, "\n")
}

// renderFooter shows live progress while typing and the last result otherwise.
func (m *Model) renderFooter() string {
	var segments []string
	if s := m.ctrl.Current(); s != nil && m.screen == screenTyping {
		segments = append(segments, liveSegments(s)...)
	}
	if m.hasLast && m.screen != screenSummary {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM", m.last.WPM))
	}
	if m.hasHist && m.screen != screenSummary {
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM · best %.1f", m.hist.AverageWPM, m.hist.BestWPM))
	}
	if len(segments) == 0 {
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func liveSegments(s *session.Session) []string {
	target := len(s.Target())
	progress := 0
	if target > 0 {
		typed := len(s.Typed())
		if typed > target {
			typed = target
		}
		progress = int(float64(typed) / float64(target) * 100)
	}
	return []string{
		fmt.Sprintf("Progress %d%%", progress),
		fmt.Sprintf("%.1f WPM", s.WPM()),
		fmt.Sprintf("%d errors", s.ErrorCount()),
	}
}

func tick() tea.Cmd {
	return tea.Tick(liveRefresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
