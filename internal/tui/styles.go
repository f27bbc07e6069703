package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typeracer/internal/tier"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	overflowStyle    = incorrectStyle.Copy().Strikethrough(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	metaStyle        = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#8C8C8C"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8C547"))
)

func tierStyle(id tier.ID) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tier.Info(id).Color))
}
