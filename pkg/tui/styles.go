package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Palette adapts to light and dark terminals
var (
	accent = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#B39DFF"}
	subtle = lipgloss.AdaptiveColor{Light: "#7A7A7A", Dark: "#8C8C8C"}
	alert  = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	found  = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#7DDC9B"}
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(1, 0, 0, 2)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	fromStyle   = lipgloss.NewStyle().Foreground(subtle)
	bodyStyle   = lipgloss.NewStyle().PaddingLeft(2)
	reportStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(found).
			Padding(0, 1)
	alertStyle  = lipgloss.NewStyle().Foreground(alert)
	footerStyle = lipgloss.NewStyle().Foreground(subtle).PaddingLeft(2)
)

// candidateStyles highlights the selected row of the disambiguation table
func candidateStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(subtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("#FFFFFF")).Background(accent)
	return s
}
