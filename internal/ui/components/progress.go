package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cramkit/internal/ui/theme"
)

const (
	minBarCells  = 4
	percentCells = 7 // "  100%"
)

// ProgressBar draws a percentage as a horizontal bar. Percent is on a
// 0-100 scale; scores above 100 fill the bar and print their real value.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

// Filled returns how many of cells are filled.
func (p ProgressBar) Filled(cells int) int {
	return max(0, min(int(float64(cells)*p.Percent/100), cells))
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var label string
	if p.Label != "" {
		label = theme.Body.Render(p.Label) + "  "
	}

	reserved := lipgloss.Width(label)
	if p.ShowPercent {
		reserved += percentCells
	}
	cells := max(p.Width-reserved, minBarCells)
	n := p.Filled(cells)

	var b strings.Builder
	b.WriteString(label)
	b.WriteString(theme.BarFilled.Render(strings.Repeat(" ", n)))
	b.WriteString(theme.BarEmpty.Render(strings.Repeat(" ", cells-n)))
	if p.ShowPercent {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %.0f%%", p.Percent)))
	}
	return b.String()
}
