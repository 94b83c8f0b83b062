package tutor

import (
	"errors"
	"strings"
	"testing"
)

func TestHintsGivenSoFar(t *testing.T) {
	tests := []struct {
		historyLen int
		want       int
	}{
		{-1, 0},
		{0, 0},
		{3, 0},
		{4, 1},
		{7, 1},
		{8, 2},
		{9, 2},
		{12, 3},
	}
	for _, tt := range tests {
		if got := HintsGivenSoFar(tt.historyLen); got != tt.want {
			t.Errorf("HintsGivenSoFar(%d) = %d, want %d", tt.historyLen, got, tt.want)
		}
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	turn := testTurn("help")
	prompt := buildSystemPrompt(turn)

	for _, want := range []string{
		turn.Problem.Question,
		"Expected answer (confidential, never say it): 42",
		"Student grade: 3",
		"Hints given so far: 0 of 2",
		"2. Try adding the tens first.",
		"- Break numbers into tens and ones",
		"- two-digit addition",
		"at most 3 short sentences",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildSystemPrompt_OptionalSections(t *testing.T) {
	prompt := buildSystemPrompt(Turn{
		UserMessage: "help",
		Problem:     Problem{Question: "5 + 5", Answer: "10"},
		History:     make([]Entry, 4),
	})

	if !strings.Contains(prompt, "Hints given so far: 1\n") {
		t.Errorf("hint count without total missing:\n%s", prompt)
	}
	for _, absent := range []string{"Student grade", "Useful strategies", "working toward"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("prompt has empty section %q", absent)
		}
	}
}

func TestBuildSystemPrompt_HintCountCapped(t *testing.T) {
	turn := testTurn("help")
	turn.History = make([]Entry, 20)
	if prompt := buildSystemPrompt(turn); !strings.Contains(prompt, "Hints given so far: 2 of 2") {
		t.Errorf("hint count not capped:\n%s", prompt)
	}
}

func TestBuildMessages(t *testing.T) {
	msgs := buildMessages(Turn{
		UserMessage: "now?",
		History: []Entry{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
		},
	})
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	for i, want := range []string{"hi", "hello", "now?"} {
		if msgs[i].Content != want {
			t.Errorf("msgs[%d] = %q, want %q", i, msgs[i].Content, want)
		}
	}
}

func TestQuota(t *testing.T) {
	q := NewQuota(0)
	for i := 0; i < DefaultMessageLimit; i++ {
		if err := q.Use(); err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
	}
	if !q.Exhausted() || q.Remaining() != 0 {
		t.Fatalf("after %d turns: exhausted=%v remaining=%d", DefaultMessageLimit, q.Exhausted(), q.Remaining())
	}
	if err := q.Use(); !errors.Is(err, ErrQuotaExhausted) {
		t.Errorf("Use() past limit = %v, want ErrQuotaExhausted", err)
	}
	if q.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", q.Remaining())
	}
}
