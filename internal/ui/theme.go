package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"planner/internal/duedate"
	"planner/internal/engine"
)

var (
	cRed    = lipgloss.Color("196")
	cYellow = lipgloss.Color("220")
	cGreen  = lipgloss.Color("42")
	cCyan   = lipgloss.Color("51")
	cMuted  = lipgloss.Color("244")
)

var (
	Title    = lipgloss.NewStyle().Bold(true)
	Subtitle = lipgloss.NewStyle().Bold(true)
	Dim      = lipgloss.NewStyle().Foreground(cMuted)
	Category = lipgloss.NewStyle().Foreground(cCyan)
	Bad      = lipgloss.NewStyle().Bold(true).Foreground(cRed)

	urgencyStyles = map[duedate.Urgency]lipgloss.Style{
		duedate.Overdue:  lipgloss.NewStyle().Foreground(cRed),
		duedate.DueToday: lipgloss.NewStyle().Foreground(cYellow),
		duedate.Upcoming: lipgloss.NewStyle().Foreground(cGreen),
	}
)

func urgencyStyle(u duedate.Urgency) lipgloss.Style {
	if s, ok := urgencyStyles[u]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// TaskLine renders one task: checkbox, title, #category and due date. Title
// and due date carry the urgency color.
func TaskLine(it engine.Item) string {
	box := "[ ] "
	if it.Done {
		box = "[x] "
	}
	style := urgencyStyle(it.Urgency)
	var b strings.Builder
	b.WriteString(style.Render(box + it.Title))
	if it.Category != "" {
		b.WriteString(" ")
		b.WriteString(Category.Render("#" + it.Category))
	}
	if it.Due != "" {
		b.WriteString(style.Render(fmt.Sprintf(" (due %s)", it.Due)))
	}
	return b.String()
}

// ProgressBar draws "[###---] P%" filling width cells.
func ProgressBar(percent, width int) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + fmt.Sprintf("] %d%%", percent)
}
