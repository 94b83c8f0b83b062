package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Table names.
const (
	tableDiagnosticResults = "diagnostic_results"
	tableDiagnosticAnswers = "diagnostic_answer_events"
	tableLLMRequests       = "llm_request_events"
)

// schema is applied on every Open. Statements must be idempotent.
// Timestamps are stored as unix milliseconds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS diagnostic_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL UNIQUE,
		student_id TEXT NOT NULL,
		grade INTEGER NOT NULL,
		overall_level INTEGER NOT NULL,
		domains TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		completed_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS diagnostic_results_student
		ON diagnostic_results (student_id, completed_at)`,

	`CREATE TABLE IF NOT EXISTS diagnostic_answer_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		student_id TEXT NOT NULL,
		question_id TEXT NOT NULL,
		domain TEXT NOT NULL,
		answer TEXT NOT NULL,
		correct INTEGER NOT NULL,
		elapsed_seconds REAL NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS diagnostic_answer_events_session
		ON diagnostic_answer_events (session_id, sequence)`,

	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		latency_ms INTEGER NOT NULL,
		bytes_streamed INTEGER NOT NULL DEFAULT 0,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS llm_request_events_purpose
		ON llm_request_events (purpose)`,
	`CREATE INDEX IF NOT EXISTS llm_request_events_model
		ON llm_request_events (provider, model)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
