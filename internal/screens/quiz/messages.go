package quiz

import "github.com/abhisek/mathbuddy/internal/diagnostic"

// startedMsg is sent once the session has been created.
type startedMsg struct {
	Start *diagnostic.StartResult
	Err   error
}

// answeredMsg is sent when an answer has been graded.
type answeredMsg struct {
	Result *diagnostic.AnswerResult
	Err    error
}

// completedMsg is sent when the session has been scored.
type completedMsg struct {
	Result *diagnostic.Result
	Err    error
}
