package diagnostic

import "errors"

var (
	// ErrInvalidInput is returned for malformed client input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a session does not exist or has been
	// finalized.
	ErrNotFound = errors.New("session not found")

	// ErrSessionComplete is returned when answering a session that has
	// already reached its question cap.
	ErrSessionComplete = errors.New("session already complete")

	// ErrQuestionMismatch is returned when an answer targets a question
	// other than the one currently pending.
	ErrQuestionMismatch = errors.New("question is not the current question")

	// ErrNoQuestions is returned when the bank has no questions for any
	// grade.
	ErrNoQuestions = errors.New("question bank is empty")
)
