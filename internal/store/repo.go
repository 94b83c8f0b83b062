package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// DomainLevel is the stored outcome of one domain in a diagnostic.
type DomainLevel struct {
	Domain             string  `json:"domain"`
	Correct            int     `json:"correct"`
	Total              int     `json:"total"`
	Accuracy           float64 `json:"accuracy"`
	AverageTimeSeconds float64 `json:"averageTimeSeconds"`
	Level              int     `json:"level"`
}

// DiagnosticResult is a completed diagnostic as persisted.
type DiagnosticResult struct {
	ID           int64
	SessionID    string
	StudentID    string
	Grade        int
	OverallLevel int
	Domains      []DomainLevel
	StartedAt    time.Time
	CompletedAt  time.Time
}

// ResultRepo stores completed diagnostic results.
type ResultRepo interface {
	// SaveDiagnosticResult stores a result and returns its row id. Saving a
	// second result for the same session fails.
	SaveDiagnosticResult(ctx context.Context, r DiagnosticResult) (int64, error)

	// ListDiagnosticResults returns a student's results, newest first.
	// limit <= 0 returns all of them.
	ListDiagnosticResults(ctx context.Context, studentID string, limit int) ([]DiagnosticResult, error)

	// LatestDiagnosticResult returns the newest result, or nil if none exist.
	LatestDiagnosticResult(ctx context.Context, studentID string) (*DiagnosticResult, error)
}

// DiagnosticAnswerEventData captures one graded diagnostic answer.
type DiagnosticAnswerEventData struct {
	SessionID      string
	StudentID      string
	QuestionID     string
	Domain         string
	Answer         string
	Correct        bool
	ElapsedSeconds float64
}

// DiagnosticAnswerEvent is a stored diagnostic answer.
type DiagnosticAnswerEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	DiagnosticAnswerEventData
}

// LLMRequestEventData captures the data for a single LLM stream.
type LLMRequestEventData struct {
	Provider      string
	Model         string
	Purpose       string
	LatencyMs     int64
	BytesStreamed int64
	InputTokens   int
	OutputTokens  int
	Success       bool
	ErrorMessage  string
	RequestBody   string
	ResponseBody  string
}

// LLMRequestEvent is a stored LLM stream record.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM streams for one purpose.
type LLMUsage struct {
	Purpose       string
	Calls         int
	Failures      int
	AvgLatencyMs  float64
	BytesStreamed int64
	InputTokens   int64
	OutputTokens  int64
}

// LLMModelUsage aggregates LLM streams for one provider and model.
type LLMModelUsage struct {
	Provider     string
	Model        string
	Calls        int
	InputTokens  int64
	OutputTokens int64
}

// EventRepo provides append and query access to domain events. All events
// share one global sequence so they can be ordered across tables.
type EventRepo interface {
	// AppendDiagnosticAnswer records a graded diagnostic answer.
	AppendDiagnosticAnswer(ctx context.Context, data DiagnosticAnswerEventData) error

	// DiagnosticAnswers returns the answers of a session in order.
	DiagnosticAnswers(ctx context.Context, sessionID string) ([]DiagnosticAnswerEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates LLM events grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates LLM token usage grouped by provider and model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
