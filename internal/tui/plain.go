package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/session"
)

const plainTail = 40

// Plain renders rounds as line output for terminals where the full-screen
// UI is unwanted. Write errors are kept and reported by Err.
type Plain struct {
	w   io.Writer
	err error
}

// NewPlain returns a renderer writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w}
}

// Err returns the first write error.
func (p *Plain) Err() error {
	return p.err
}

// Welcome prints historical stats.
func (p *Plain) Welcome(hist model.HistoricalStats, hasHist bool) {
	p.printf("%s\r\n\r\n", crlf(renderWelcome(hist, hasHist)))
}

// Quote prints the target before typing starts.
func (p *Plain) Quote(q model.Quote) {
	p.printf("%s\r\n", q.Text)
	if q.Metadata != "" {
		p.printf("%s\r\n", metaStyle.Render(q.Metadata))
	}
	p.printf("\r\n")
}

// Progress redraws the status line for s.
func (p *Plain) Progress(s *session.Session) {
	cells := s.Cells()
	typed := 0
	for _, c := range cells {
		if c.HasTyped {
			typed++
		}
	}
	start := typed - plainTail
	if start < 0 {
		start = 0
	}
	styled := buildStyledRunes(cells[start:typed], -1)
	status := footerStyle.Render(strings.Join(liveSegments(s), " · "))
	p.printf("\r\x1b[K%s  %s", status, renderStyledRunes(styled))
}

// Result prints the outcome of a round.
func (p *Plain) Result(s model.RoundSummary) {
	p.printf("\r\n\r\n%s\r\n\r\n", crlf(renderResult(s)))
}

// RunSummary prints the totals of the run.
func (p *Plain) RunSummary(run model.RunSummary) {
	p.printf("%s\r\n", crlf(renderRunSummary(run)))
}

// Notice prints a highlighted message.
func (p *Plain) Notice(msg string) {
	p.printf("%s\r\n", warnStyle.Render(msg))
}

// Prompt asks whether to continue.
func (p *Plain) Prompt() {
	p.printf("%s\r\n", lipgloss.NewStyle().Faint(true).Render("space: next quote · q: quit"))
}

func (p *Plain) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	if _, err := fmt.Fprintf(p.w, format, args...); err != nil {
		p.err = fmt.Errorf("failed to write output: %w", err)
	}
}

// crlf converts line breaks for a terminal in raw mode.
func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}
