// Package components renders reusable pieces of terminal output.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathbuddy/internal/ui/theme"
)

// Steps renders "label [####----] n/total" for a quiz in progress.
type Steps struct {
	Label   string
	Current int
	Total   int
	Width   int // cells for the bar itself
}

// View renders the progress line.
func (s Steps) View() string {
	width := s.Width
	if width < 4 {
		width = 4
	}

	filled := 0
	if s.Total > 0 {
		filled = width * s.Current / s.Total
	}
	filled = max(0, min(filled, width))

	var b strings.Builder
	if s.Label != "" {
		b.WriteString(theme.Body.Render(s.Label))
		b.WriteString("  ")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", width-filled)))
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %d/%d", s.Current, s.Total)))
	return b.String()
}

// LevelBar renders a level between 1 and max as filled stars.
func LevelBar(level, maxLevel int) string {
	level = max(0, min(level, maxLevel))
	return lipgloss.NewStyle().Foreground(theme.Accent).Render(strings.Repeat("★", level)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("☆", maxLevel-level))
}
