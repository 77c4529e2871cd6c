package components

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/cramkit/internal/mastery"
	"github.com/abhisek/cramkit/internal/session"
	"github.com/abhisek/cramkit/internal/ui/theme"
)

// StateStyle returns the style used to print a mastery state.
func StateStyle(s mastery.MasteryState) lipgloss.Style {
	switch s {
	case mastery.StateMastered:
		return theme.Mastered
	case mastery.StateWeak:
		return theme.Weak
	case mastery.StateLearning:
		return theme.Learning
	default:
		return theme.New
	}
}

var stateOrder = []mastery.MasteryState{
	mastery.StateNew, mastery.StateLearning, mastery.StateWeak, mastery.StateMastered,
}

// Dashboard renders the stats screen.
func Dashboard(d *mastery.Dashboard, width int) string {
	var sections []string

	sections = append(sections,
		theme.Title.Render("Readiness"),
		NewProgressBar("readiness", d.Readiness, true, width).View(),
		NewProgressBar("accuracy ", d.OverallAccuracy, true, width).View(),
		"",
	)

	counts := fmt.Sprintf("%d items  %d attempted  %d mastered  %s",
		d.TotalItems, d.Attempted, d.Mastered, theme.Due.Render(fmt.Sprintf("%d due", d.Due)))
	sections = append(sections, theme.Body.Render(counts))

	states := make([]string, 0, len(stateOrder))
	for _, s := range stateOrder {
		states = append(states, StateStyle(s).Render(fmt.Sprintf("%s %d", s, d.States[s])))
	}
	sections = append(sections, strings.Join(states, "  "), "")

	if len(d.Topics) > 0 {
		sections = append(sections, theme.Title.Render("Topics"), TopicTable(d.Topics), "")
	}

	sections = append(sections, theme.Title.Render("Sessions"),
		theme.Body.Render(fmt.Sprintf("%d sessions, %s studied", d.Sessions, d.StudyTime.Round(time.Minute))))
	for _, s := range d.Recent {
		sum := session.BuildSummary(&s)
		sections = append(sections, theme.Subtitle.Render(
			fmt.Sprintf("  %s  %-6s %d/%d", s.StartedAt.Local().Format("2006-01-02 15:04"), sum.Mode, sum.Correct, sum.Attempted)))
	}

	return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// TopicTable renders per-topic statistics as a table.
func TopicTable(topics []mastery.TopicStat) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Rule)).
		Headers("CATEGORY", "TOPIC", "ITEMS", "TRIED", "MASTERED", "ACCURACY")
	for _, ts := range topics {
		t.Row(ts.Category, ts.Topic,
			fmt.Sprint(ts.Total), fmt.Sprint(ts.Attempted), fmt.Sprint(ts.Mastered),
			fmt.Sprintf("%.0f%%", ts.Accuracy()))
	}
	return t.String()
}

// SessionSummary renders the result of an ended session.
func SessionSummary(s *session.Summary) string {
	style := theme.Weak
	if s.Accuracy >= 50 {
		style = theme.Mastered
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("Session "+s.ID),
		theme.Body.Render(fmt.Sprintf("%s mode, %s", s.Mode, s.Duration.Round(time.Second))),
		style.Render(fmt.Sprintf("%d/%d correct (%.0f%%)", s.Correct, s.Attempted, s.Accuracy)),
	)
}
