package quiz

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathbuddy/internal/diagnostic"
	"github.com/abhisek/mathbuddy/internal/questionbank"
	"github.com/abhisek/mathbuddy/internal/ui/components"
	"github.com/abhisek/mathbuddy/internal/ui/theme"
)

func (m *Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *Model) render() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("MathBuddy diagnostic"))
	b.WriteString("\n")
	if m.sessionID != "" {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Grade %d, %d questions across %d topics",
			m.session.Grade, m.session.Total, len(m.session.Domains))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.phase {
	case phaseLoading:
		b.WriteString(theme.Hint.Render("One moment..."))
	case phaseQuestion, phaseGrading, phaseFeedback:
		m.renderQuestion(&b)
	case phaseDone:
		m.renderResult(&b)
	case phaseFailed:
		b.WriteString(theme.Incorrect.Render("Something went wrong: " + m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render(m.keyHints()))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderQuestion(b *strings.Builder) {
	q := m.question
	b.WriteString(components.Steps{Label: "Answered", Current: q.Index, Total: q.Total, Width: 20}.View())
	b.WriteString("\n")
	b.WriteString(theme.Domain.Render(questionbank.DomainDisplayName(q.Domain)))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(q.Prompt))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())

	if m.phase != phaseFeedback {
		return
	}
	b.WriteString("\n\n")
	if m.last.IsCorrect {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("Not quite.") + " " +
			theme.Hint.Render("The answer was "+m.last.CorrectAnswer+"."))
	}
}

func (m *Model) renderResult(b *strings.Builder) {
	if m.stopped {
		b.WriteString(theme.Hint.Render("Stopped early. Scored what you answered."))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Title.Render("Results"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 48))
	b.WriteString("\n")
	for _, r := range m.result.Results {
		fmt.Fprintf(b, "%-16s  %2d/%-2d  %s\n",
			questionbank.DomainDisplayName(r.Domain), r.Correct, r.Total,
			components.LevelBar(r.Level, diagnostic.MaxLevel))
	}
	b.WriteString(strings.Repeat("─", 48))
	b.WriteString("\n")
	fmt.Fprintf(b, "%-16s  %5s  %s", "Overall", "",
		components.LevelBar(m.result.OverallLevel, diagnostic.MaxLevel))
}

func (m *Model) keyHints() string {
	switch m.phase {
	case phaseQuestion:
		return "Enter submit · Esc finish now · Ctrl+C quit"
	case phaseFeedback:
		return "Any key to continue"
	case phaseDone, phaseFailed:
		return "Any key to exit"
	}
	return "Ctrl+C quit"
}
