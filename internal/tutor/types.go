// Package tutor drives one guided-questioning chat turn: it builds the
// upstream prompt from client-held state, streams the model reply through
// the SSE adapter and decides whether the student has reached the answer.
package tutor

import (
	"fmt"
	"strings"
)

// Role identifies the author of a history entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Problem is the exercise the student is working on.
type Problem struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Hints      []string `json:"hints,omitempty"`
	Strategies []string `json:"strategies,omitempty"`
}

// Entry is one prior message of the conversation.
type Entry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Turn is the complete, immutable input of one tutoring call. The client
// owns the conversation and sends all of it every time.
type Turn struct {
	UserMessage string   `json:"message"`
	Problem     Problem  `json:"problem"`
	History     []Entry  `json:"history,omitempty"`
	Grade       int      `json:"grade,omitempty"`
	Targets     []string `json:"targets,omitempty"`
}

// Validate reports missing fields as ErrInvalidInput.
func (t Turn) Validate() error {
	if strings.TrimSpace(t.UserMessage) == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if strings.TrimSpace(t.Problem.Question) == "" {
		return fmt.Errorf("%w: problem question is required", ErrInvalidInput)
	}
	if strings.TrimSpace(t.Problem.Answer) == "" {
		return fmt.Errorf("%w: problem answer is required", ErrInvalidInput)
	}
	for i, e := range t.History {
		if e.Role != RoleUser && e.Role != RoleAssistant {
			return fmt.Errorf("%w: history[%d] has unknown role %q", ErrInvalidInput, i, e.Role)
		}
	}
	if t.Grade < 0 {
		return fmt.Errorf("%w: grade must not be negative", ErrInvalidInput)
	}
	return nil
}

// HintsGivenSoFar returns how many hints the tutor may have revealed after
// historyLen messages: one more for every two user/assistant exchanges.
func HintsGivenSoFar(historyLen int) int {
	if historyLen <= 0 {
		return 0
	}
	return historyLen / 4
}
