package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathbuddy/internal/llm"
)

const tutorSystemPrompt = `You are a patient, encouraging math tutor for children. You help the student find the answer on their own by asking guiding questions.`

func buildSystemPrompt(turn Turn) string {
	var b strings.Builder

	b.WriteString(tutorSystemPrompt)
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Problem: %s\n", turn.Problem.Question))
	b.WriteString(fmt.Sprintf("Expected answer (confidential, never say it): %s\n", turn.Problem.Answer))
	if turn.Grade > 0 {
		b.WriteString(fmt.Sprintf("Student grade: %d\n", turn.Grade))
	}

	given := HintsGivenSoFar(len(turn.History))
	if len(turn.Problem.Hints) > 0 {
		b.WriteString(fmt.Sprintf("\nHints given so far: %d of %d\n", min(given, len(turn.Problem.Hints)), len(turn.Problem.Hints)))
		b.WriteString("Hints, in the order they may be revealed:\n")
		for i, h := range turn.Problem.Hints {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, h))
		}
	} else {
		b.WriteString(fmt.Sprintf("\nHints given so far: %d\n", given))
	}

	if len(turn.Problem.Strategies) > 0 {
		b.WriteString("\nUseful strategies:\n")
		for _, s := range turn.Problem.Strategies {
			b.WriteString(fmt.Sprintf("- %s\n", s))
		}
	}

	if len(turn.Targets) > 0 {
		b.WriteString("\nThe student is currently working toward:\n")
		for _, t := range turn.Targets {
			b.WriteString(fmt.Sprintf("- %s\n", t))
		}
		b.WriteString("Phrase your questions so they practice these goals.\n")
	}

	b.WriteString(`
Instructions:
1. Never reveal the answer directly, even if the student asks for it.
2. Respond in at most 3 short sentences.
3. Encourage step-by-step reasoning: ask one guiding question at a time.
4. Reveal at most one new hint per reply, and only when the hints given so far allow it.
5. If the student states the correct answer, praise the reasoning and stop asking questions.
6. Use simple, kid-friendly words and plain ASCII math.`)

	return b.String()
}

// buildMessages forwards the history followed by the new user message.
func buildMessages(turn Turn) []llm.Message {
	msgs := make([]llm.Message, 0, len(turn.History)+1)
	for _, e := range turn.History {
		role := llm.RoleUser
		if e.Role == RoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: e.Content})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: turn.UserMessage})
}
