// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/stats"
	"github.com/verte-zerg/typeracer/internal/tier"
)

const (
	tabOverview = iota
	tabRounds
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	reader  stats.RecordReader
	window  int
	records []model.SessionRecord
	errMsg  string

	tabs      []string
	activeTab int
	overview  viewport.Model
	rounds    table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model over the record log.
func NewModel(reader stats.RecordReader, window int) *Model {
	if window < 1 {
		window = 1
	}
	m := &Model{
		reader:   reader,
		window:   window,
		tabs:     []string{"Overview", "Rounds"},
		overview: viewport.New(0, 0),
		rounds:   buildRoundsTable(nil, 80, 10),
	}
	m.refresh()
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
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "right", "l", "tab":
			m.moveTab()
			return m, tea.ClearScreen
		case "r":
			m.refresh()
			return m, nil
		case "g", "home":
			if m.activeTab == tabRounds {
				m.rounds.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabRounds {
				m.rounds.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabRounds {
			m.rounds, cmd = m.rounds.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	return strings.Join([]string{header, body, m.renderFooter()}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	bodyHeight = m.height - headerHeight - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.rounds.SetWidth(m.width)
	m.rounds.SetHeight(maxInt(1, bodyHeight-1))
	m.renderContents()
}

func (m *Model) moveTab() {
	m.activeTab = (m.activeTab + 1) % len(m.tabs)
	if m.activeTab == tabRounds {
		m.rounds.Focus()
	} else {
		m.rounds.Blur()
	}
}

func (m *Model) refresh() {
	records, err := m.reader.ReadAll(context.Background())
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.records = records
	m.rounds.SetRows(roundRows(records))
	m.renderContents()
}

func (m *Model) renderContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.records, m.window, width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	if m.errMsg != "" {
		return errorStyle.Render("Failed to load stats: " + m.errMsg)
	}
	if m.activeTab == tabRounds {
		if len(m.records) == 0 {
			return "No rounds found."
		}
		return tableMutedStyle.Render(m.rounds.View())
	}
	return m.overview.View()
}

func (m *Model) renderFooter() string {
	return headerStyle.Render("Nav: tab/left/right  Scroll: up/down/pgup/pgdn  Reload: r  Quit: q")
}

func renderOverview(records []model.SessionRecord, window, width int) string {
	hist, err := stats.Compute(records)
	if errors.Is(err, stats.ErrNoData) {
		return "No rounds found."
	}
	cards := []string{
		metricCard("Rounds", fmt.Sprintf("%d", hist.TotalRounds)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", hist.AverageWPM)),
		metricCard(fmt.Sprintf("Last %d", model.RecentWindow), fmt.Sprintf("%.1f", hist.RecentAverageWPM)),
		metricCard("Best WPM", fmt.Sprintf("%.1f", hist.BestWPM)),
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if lipgloss.Width(row) > width {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, records, window); err != nil {
		return fmt.Sprintf("Failed to render summary: %v", err)
	}
	return row + "\n\n" + strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildRoundsTable(records []model.SessionRecord, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Time", Width: 8},
		{Title: "WPM", Width: 6},
		{Title: "Errors", Width: 6},
		{Title: "Seconds", Width: 7},
		{Title: "Tier", Width: 14},
		{Title: "Finished", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(roundRows(records)),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(roundsTableStyles())
	return t
}

// roundRows lists records newest first.
func roundRows(records []model.SessionRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		local := rec.Timestamp.Local()
		finished := "yes"
		if !rec.Completed {
			finished = "aborted"
		}
		meta := tier.Info(rec.Tier)
		rows = append(rows, table.Row{
			local.Format("2006-01-02"),
			local.Format("15:04:05"),
			fmt.Sprintf("%.1f", rec.WPM),
			fmt.Sprintf("%d", rec.ErrorCount),
			fmt.Sprintf("%.1f", rec.DurationSeconds),
			meta.Symbol + " " + meta.Name,
			finished,
		})
	}
	return rows
}

func roundsTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// fitLines pads or cuts s to exactly height lines.
func fitLines(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = truncateLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
