package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/cusrr/internal/statuslist"
)

const minBarWidth = 5

// ProgressBar renders a bar followed by the progress text, e.g.
// "██████░░░░ 60% complete · 3/5".
func ProgressBar(p statuslist.Progress, width int) string {
	if width < minBarWidth {
		width = minBarWidth
	}
	filled := 0
	if p.Total > 0 {
		filled = p.Done * width / p.Total
	}
	if filled > width {
		filled = width
	}
	bar := current.Success.Render(strings.Repeat("█", filled)) +
		current.Muted.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s", bar, p.String())
}

// Panel frames lines in a box using the current theme.
func Panel(lines []string) string {
	border := lipgloss.NewStyle().
		Border(current.Border).
		BorderForeground(current.BorderColor).
		Padding(0, 1)
	return border.Render(strings.Join(lines, "\n"))
}
