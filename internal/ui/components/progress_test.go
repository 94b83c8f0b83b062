package components

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestSteps_View(t *testing.T) {
	out := Steps{Label: "Quiz", Current: 3, Total: 12, Width: 8}.View()
	if !strings.Contains(out, "Quiz") || !strings.Contains(out, "3/12") {
		t.Errorf("View() = %q, want label and 3/12", out)
	}
	if n := strings.Count(out, "█"); n != 2 {
		t.Errorf("filled = %d, want 2", n)
	}
	if n := strings.Count(out, "░"); n != 6 {
		t.Errorf("empty = %d, want 6", n)
	}
}

func TestSteps_Clamps(t *testing.T) {
	tests := []struct {
		name  string
		steps Steps
		glyph string
		want  int
	}{
		{"past total with min width", Steps{Current: 20, Total: 10, Width: 1}, "█", 4},
		{"zero total", Steps{Current: 0, Total: 0, Width: 5}, "░", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if n := strings.Count(tt.steps.View(), tt.glyph); n != tt.want {
				t.Errorf("count(%s) = %d, want %d", tt.glyph, n, tt.want)
			}
		})
	}
}

func TestLevelBar(t *testing.T) {
	out := LevelBar(3, 5)
	if n := strings.Count(out, "★"); n != 3 {
		t.Errorf("filled stars = %d, want 3", n)
	}
	if n := strings.Count(out, "☆"); n != 2 {
		t.Errorf("empty stars = %d, want 2", n)
	}
	if w := lipgloss.Width(out); w != 5 {
		t.Errorf("width = %d, want 5", w)
	}
	if n := strings.Count(LevelBar(9, 5), "★"); n != 5 {
		t.Errorf("clamped stars = %d, want 5", n)
	}
}
