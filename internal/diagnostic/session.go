package diagnostic

import (
	"fmt"
	"time"

	"github.com/abhisek/mathbuddy/internal/questionbank"
)

// Stage is the lifecycle stage of a diagnostic session.
type Stage int

const (
	StageIntro    Stage = iota // Created, no questions served yet
	StageTest                  // Serving questions
	StageComplete              // Terminal
)

func (s Stage) String() string {
	switch s {
	case StageIntro:
		return "intro"
	case StageTest:
		return "test"
	case StageComplete:
		return "complete"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// QuestionsPerDomain is the per-domain question quota.
const QuestionsPerDomain = 3

// DomainQueue is the FIFO of questions still to be served for one domain.
type DomainQueue struct {
	Domain    questionbank.Domain     `json:"domain"`
	Questions []questionbank.Question `json:"questions"`
}

// Session is the state of one student's diagnostic run. Sessions are
// serialized by session stores, so every field is exported.
type Session struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	Grade     int    `json:"grade"`
	Stage     Stage  `json:"stage"`

	// Plan holds one queue per domain in bank order. Queues are drained
	// front to back and one domain is exhausted before the next starts.
	Plan []DomainQueue `json:"plan"`

	Asked   map[questionbank.Domain]int       `json:"asked"`
	Correct map[questionbank.Domain]int       `json:"correct"`
	Timings map[questionbank.Domain][]float64 `json:"timings"`

	// Current is the question awaiting an answer, nil once the plan is
	// exhausted.
	Current *questionbank.Question `json:"current,omitempty"`

	// QuestionIndex is the zero-based index of Current and equals the number
	// of answered questions. It never decreases.
	QuestionIndex int `json:"questionIndex"`
	Answered      int `json:"answered"`

	StartedAt time.Time `json:"startedAt"`
}

// Domains returns the planned domains in order.
func (s *Session) Domains() []questionbank.Domain {
	ds := make([]questionbank.Domain, 0, len(s.Plan))
	for _, q := range s.Plan {
		ds = append(ds, q.Domain)
	}
	return ds
}

// TotalQuestions is the hard cap on questions for the session.
func (s *Session) TotalQuestions() int {
	return len(s.Plan) * QuestionsPerDomain
}

// nextQuestion pops the next question from the plan, skipping domains that
// are drained or have reached their quota. Returns nil when nothing is left.
func (s *Session) nextQuestion() *questionbank.Question {
	for i := range s.Plan {
		dq := &s.Plan[i]
		if s.Asked[dq.Domain] >= QuestionsPerDomain {
			dq.Questions = nil
			continue
		}
		if len(dq.Questions) == 0 {
			continue
		}
		q := dq.Questions[0]
		dq.Questions = dq.Questions[1:]
		return &q
	}
	return nil
}

// View is a read-only snapshot of a session for status endpoints.
type View struct {
	SessionID     string                `json:"sessionId"`
	StudentID     string                `json:"studentId"`
	Grade         int                   `json:"grade"`
	Stage         string                `json:"stage"`
	Domains       []questionbank.Domain `json:"domains"`
	Current       *QuestionView         `json:"currentQuestion,omitempty"`
	QuestionIndex int                   `json:"questionIndex"`
	Answered      int                   `json:"answered"`
	Total         int                   `json:"total"`
	StartedAt     time.Time             `json:"startedAt"`
}

// QuestionView is a question as shown to the student, without its answer.
type QuestionView struct {
	ID     string              `json:"id"`
	Domain questionbank.Domain `json:"domain"`
	Prompt string              `json:"prompt"`
	Index  int                 `json:"index"`
	Total  int                 `json:"total"`
}

func (s *Session) view() View {
	return View{
		SessionID:     s.ID,
		StudentID:     s.StudentID,
		Grade:         s.Grade,
		Stage:         s.Stage.String(),
		Domains:       s.Domains(),
		Current:       s.currentView(),
		QuestionIndex: s.QuestionIndex,
		Answered:      s.Answered,
		Total:         s.TotalQuestions(),
		StartedAt:     s.StartedAt,
	}
}

func (s *Session) currentView() *QuestionView {
	if s.Current == nil {
		return nil
	}
	return &QuestionView{
		ID:     s.Current.ID,
		Domain: s.Current.Domain,
		Prompt: s.Current.Prompt,
		Index:  s.QuestionIndex,
		Total:  s.TotalQuestions(),
	}
}
