package diagnostic

import (
	"context"

	"github.com/abhisek/mathbuddy/internal/questionbank"
	"github.com/abhisek/mathbuddy/internal/store"
)

// Answer is one graded submission, as handed to a Recorder.
type Answer struct {
	SessionID      string
	StudentID      string
	Question       questionbank.Question
	Submitted      string
	Correct        bool
	ElapsedSeconds float64
}

// Recorder persists graded answers and finished results.
type Recorder interface {
	RecordAnswer(ctx context.Context, a Answer) error
	RecordResult(ctx context.Context, r *Result) error
}

// StoreRecorder writes answers to the event log and results to the result
// table. Either repo may be nil.
type StoreRecorder struct {
	Results store.ResultRepo
	Events  store.EventRepo
}

func (r StoreRecorder) RecordAnswer(ctx context.Context, a Answer) error {
	if r.Events == nil {
		return nil
	}
	return r.Events.AppendDiagnosticAnswer(ctx, store.DiagnosticAnswerEventData{
		SessionID:      a.SessionID,
		StudentID:      a.StudentID,
		QuestionID:     a.Question.ID,
		Domain:         string(a.Question.Domain),
		Answer:         a.Submitted,
		Correct:        a.Correct,
		ElapsedSeconds: a.ElapsedSeconds,
	})
}

func (r StoreRecorder) RecordResult(ctx context.Context, res *Result) error {
	if r.Results == nil {
		return nil
	}
	_, err := r.Results.SaveDiagnosticResult(ctx, ToStoreResult(res))
	return err
}

// ToStoreResult converts a result into its persisted form.
func ToStoreResult(res *Result) store.DiagnosticResult {
	domains := make([]store.DomainLevel, len(res.Results))
	for i, d := range res.Results {
		domains[i] = store.DomainLevel{
			Domain:             string(d.Domain),
			Correct:            d.Correct,
			Total:              d.Total,
			Accuracy:           d.Accuracy,
			AverageTimeSeconds: d.AverageTimeSeconds,
			Level:              d.Level,
		}
	}
	return store.DiagnosticResult{
		SessionID:    res.SessionID,
		StudentID:    res.StudentID,
		Grade:        res.Grade,
		OverallLevel: res.OverallLevel,
		Domains:      domains,
		StartedAt:    res.StartedAt,
		CompletedAt:  res.CompletedAt,
	}
}
