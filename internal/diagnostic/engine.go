package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathbuddy/internal/evaluator"
	"github.com/abhisek/mathbuddy/internal/logger"
	"github.com/abhisek/mathbuddy/internal/questionbank"
)

// Engine runs diagnostic sessions. It keeps no state of its own beyond the
// session store and is safe for concurrent use across sessions. Answers to
// a single session are expected to arrive sequentially.
type Engine struct {
	bank     questionbank.Provider
	store    SessionStore
	recorder Recorder
	log      *logger.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// WithRecorder persists answers and results through r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// NewEngine creates an Engine over bank and store.
func NewEngine(bank questionbank.Provider, store SessionStore, opts ...Option) *Engine {
	e := &Engine{
		bank:  bank,
		store: store,
		log:   logger.NewNop(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartResult is returned by Start.
type StartResult struct {
	Session  View          `json:"session"`
	Question *QuestionView `json:"question"`
}

// Start creates a session for studentID at grade, moves it into the test
// stage and returns the first question. Grades above the bank range are
// clamped to the highest grade.
func (e *Engine) Start(ctx context.Context, studentID string, grade int) (*StartResult, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id is required", ErrInvalidInput)
	}
	if grade < questionbank.MinGrade {
		return nil, fmt.Errorf("%w: grade must be at least %d", ErrInvalidInput, questionbank.MinGrade)
	}
	grade = clampGrade(grade)

	plan := buildPlan(e.bank, grade)
	if len(plan) == 0 {
		return nil, ErrNoQuestions
	}

	s := &Session{
		ID:        e.newID(),
		StudentID: studentID,
		Grade:     grade,
		Stage:     StageIntro,
		Plan:      plan,
		Asked:     make(map[questionbank.Domain]int),
		Correct:   make(map[questionbank.Domain]int),
		Timings:   make(map[questionbank.Domain][]float64),
		StartedAt: e.now(),
	}

	if err := e.transition(s, StageTest); err != nil {
		return nil, err
	}
	s.Current = s.nextQuestion()

	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	e.log.Info("diagnostic started",
		"session_id", s.ID,
		"student_id", s.StudentID,
		"grade", s.Grade,
		"domains", len(s.Plan),
	)

	return &StartResult{Session: s.view(), Question: s.currentView()}, nil
}

// Submission is one answer to the pending question.
type Submission struct {
	SessionID      string
	QuestionID     string
	Answer         string
	ElapsedSeconds float64
}

// AnswerResult is returned by SubmitAnswer.
type AnswerResult struct {
	SessionID     string              `json:"sessionId"`
	QuestionID    string              `json:"questionId"`
	Domain        questionbank.Domain `json:"domain"`
	IsCorrect     bool                `json:"isCorrect"`
	CorrectAnswer string              `json:"correctAnswer"`
	Next          *QuestionView       `json:"nextQuestion,omitempty"`
	Completed     bool                `json:"completed"`
	Answered      int                 `json:"answered"`
	Total         int                 `json:"total"`
}

// SubmitAnswer grades the answer to the current question and advances the
// session. Once every domain has used its quota, or the plan runs out of
// questions, the session moves to the complete stage.
func (e *Engine) SubmitAnswer(ctx context.Context, sub Submission) (*AnswerResult, error) {
	answer := strings.TrimSpace(sub.Answer)
	if answer == "" {
		return nil, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}
	if sub.ElapsedSeconds < 0 {
		return nil, fmt.Errorf("%w: elapsed time cannot be negative", ErrInvalidInput)
	}

	s, err := e.load(ctx, sub.SessionID)
	if err != nil {
		return nil, err
	}

	switch s.Stage {
	case StageTest:
	case StageComplete:
		return nil, ErrSessionComplete
	case StageIntro:
		return nil, fmt.Errorf("%w: session has not started", ErrInvalidInput)
	default:
		return nil, fmt.Errorf("unknown stage %s", s.Stage)
	}

	q := s.Current
	if q == nil {
		return nil, ErrSessionComplete
	}
	if sub.QuestionID != q.ID {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrQuestionMismatch, q.ID, sub.QuestionID)
	}

	correct := evaluator.CheckDiagnostic(answer, q.Answer)
	s.Asked[q.Domain]++
	if correct {
		s.Correct[q.Domain]++
	}
	s.Timings[q.Domain] = append(s.Timings[q.Domain], sub.ElapsedSeconds)
	s.Answered++

	s.QuestionIndex++

	next := s.nextQuestion()
	s.Current = next
	completed := s.Answered >= s.TotalQuestions() || next == nil
	if completed {
		s.Current = nil
		if err := e.transition(s, StageComplete); err != nil {
			return nil, err
		}
	}

	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if e.recorder != nil {
		rec := Answer{
			SessionID:      s.ID,
			StudentID:      s.StudentID,
			Question:       *q,
			Submitted:      answer,
			Correct:        correct,
			ElapsedSeconds: sub.ElapsedSeconds,
		}
		if err := e.recorder.RecordAnswer(ctx, rec); err != nil {
			e.log.Warn("failed to record diagnostic answer", "session_id", s.ID, "error", err)
		}
	}

	e.log.Debug("diagnostic answer",
		"session_id", s.ID,
		"question_id", q.ID,
		"domain", q.Domain,
		"correct", correct,
		"answered", s.Answered,
		"completed", completed,
	)

	return &AnswerResult{
		SessionID:     s.ID,
		QuestionID:    q.ID,
		Domain:        q.Domain,
		IsCorrect:     correct,
		CorrectAnswer: q.Answer,
		Next:          s.currentView(),
		Completed:     completed,
		Answered:      s.Answered,
		Total:         s.TotalQuestions(),
	}, nil
}

// Complete finalizes a session, hands the result to the recorder and
// returns it. The session is removed from the store; a second call returns
// ErrNotFound.
func (e *Engine) Complete(ctx context.Context, sessionID string) (*Result, error) {
	s, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.Stage != StageComplete {
		s.Current = nil
		if err := e.transition(s, StageComplete); err != nil {
			return nil, err
		}
	}

	results := Summarize(s)
	levels := make(map[questionbank.Domain]int, len(results))
	perDomain := make([]int, 0, len(results))
	for _, r := range results {
		levels[r.Domain] = r.Level
		perDomain = append(perDomain, r.Level)
	}

	res := &Result{
		SessionID:         s.ID,
		StudentID:         s.StudentID,
		Grade:             s.Grade,
		Results:           results,
		RecommendedLevels: levels,
		OverallLevel:      OverallLevel(perDomain),
		StartedAt:         s.StartedAt,
		CompletedAt:       e.now(),
	}

	// The session survives a failed save so that completion can be retried.
	if e.recorder != nil {
		if err := e.recorder.RecordResult(ctx, res); err != nil {
			return nil, err
		}
	}

	if err := e.store.Delete(ctx, s.ID); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}

	e.log.Info("diagnostic completed",
		"session_id", s.ID,
		"student_id", s.StudentID,
		"answered", s.Answered,
		"overall_level", res.OverallLevel,
	)
	return res, nil
}

// Get returns a read-only view of a session.
func (e *Engine) Get(ctx context.Context, sessionID string) (View, error) {
	s, err := e.load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return s.view(), nil
}

func (e *Engine) load(ctx context.Context, id string) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	s, err := e.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s.Asked == nil {
		s.Asked = make(map[questionbank.Domain]int)
	}
	if s.Correct == nil {
		s.Correct = make(map[questionbank.Domain]int)
	}
	if s.Timings == nil {
		s.Timings = make(map[questionbank.Domain][]float64)
	}
	return s, nil
}

// transition moves s to the given stage. Stages only move forward.
func (e *Engine) transition(s *Session, to Stage) error {
	switch to {
	case StageTest:
		if s.Stage != StageIntro {
			return fmt.Errorf("cannot move from %s to %s", s.Stage, to)
		}
	case StageComplete:
		if s.Stage == StageComplete {
			return fmt.Errorf("cannot move from %s to %s", s.Stage, to)
		}
	default:
		return fmt.Errorf("cannot move from %s to %s", s.Stage, to)
	}
	s.Stage = to
	return nil
}
