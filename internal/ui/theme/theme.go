// Package theme holds the lipgloss styles used by command output.
package theme

import (
	"charm.land/lipgloss/v2"
)

var (
	Indigo = lipgloss.Color("#6366F1")
	Cyan   = lipgloss.Color("#06B6D4")
	Amber  = lipgloss.Color("#F59E0B")
	Green  = lipgloss.Color("#10B981")
	Red    = lipgloss.Color("#EF4444")
	Ink    = lipgloss.Color("#E2E8F0")
	Muted  = lipgloss.Color("#64748B")
	Rule   = lipgloss.Color("#475569")
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
	Subtitle = lipgloss.NewStyle().Foreground(Muted)
	Body     = lipgloss.NewStyle().Foreground(Ink)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Rule).
		Padding(0, 1)
)

// Item states. Due is used for counts of items waiting for review.
var (
	New      = lipgloss.NewStyle().Foreground(Muted)
	Learning = lipgloss.NewStyle().Foreground(Cyan)
	Weak     = lipgloss.NewStyle().Foreground(Red).Bold(true)
	Mastered = lipgloss.NewStyle().Foreground(Green).Bold(true)
	Due      = lipgloss.NewStyle().Foreground(Amber).Bold(true)
)

var (
	BarFilled = lipgloss.NewStyle().Background(Cyan)
	BarEmpty  = lipgloss.NewStyle().Background(Rule)
)
