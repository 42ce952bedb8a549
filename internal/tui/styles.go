package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/teemow/motionmcp/internal/motion"
)

var (
	primaryColor = lipgloss.Color("#7C3AED")
	mutedColor   = lipgloss.Color("#6B7280")
	errorColor   = lipgloss.Color("#EF4444")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)

// Motion's own priority colors.
var priorityColors = map[motion.Priority]lipgloss.Color{
	motion.PriorityASAP:   lipgloss.Color("#FF0000"),
	motion.PriorityHigh:   lipgloss.Color("#FF6B00"),
	motion.PriorityMedium: lipgloss.Color("#FFA500"),
	motion.PriorityLow:    lipgloss.Color("#008000"),
}

// PriorityColor returns the display color of p, or the muted color for an
// unknown priority.
func PriorityColor(p motion.Priority) lipgloss.Color {
	if c, ok := priorityColors[p]; ok {
		return c
	}
	return mutedColor
}

func renderPriority(p motion.Priority) string {
	if p == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(PriorityColor(p)).Bold(true).Render("● " + string(p))
}
