package chat

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathbuddy/internal/tutor"
	"github.com/abhisek/mathbuddy/internal/ui/theme"
)

func (m *Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *Model) render() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("MathBuddy tutor"))
	b.WriteString("\n")
	b.WriteString(theme.Card.Render(theme.Body.Render(m.problem.Question)))
	b.WriteString("\n\n")

	for _, e := range m.history {
		writeEntry(&b, e.Role, e.Content)
	}
	if m.pending != "" {
		writeEntry(&b, tutor.RoleUser, m.pending)
		if m.streaming || m.reply != "" {
			writeEntry(&b, tutor.RoleAssistant, m.reply)
		}
	}

	if m.notice != "" {
		b.WriteString(theme.Hint.Render(m.notice))
		b.WriteString("\n")
	}
	if m.solved {
		b.WriteString(theme.Correct.Render("✓ You got it!"))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(theme.Incorrect.Render("Something went wrong: " + m.err.Error()))
		b.WriteString("\n")
	}
	if m.ended {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d messages left · Enter send · Esc quit", m.quota.Remaining())))
	b.WriteString("\n")
	return b.String()
}

func writeEntry(b *strings.Builder, role tutor.Role, content string) {
	if role == tutor.RoleUser {
		b.WriteString(theme.Student.Render("You: "))
	} else {
		b.WriteString(theme.Tutor.Render("Tutor: "))
	}
	b.WriteString(theme.Body.Render(content))
	b.WriteString("\n")
}
