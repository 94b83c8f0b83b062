package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendDiagnosticAnswer(ctx context.Context, data DiagnosticAnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableDiagnosticAnswers).
		Columns("sequence", "timestamp", "session_id", "student_id", "question_id",
			"domain", "answer", "correct", "elapsed_seconds").
		Values(seqNum, nowMillis(), data.SessionID, data.StudentID, data.QuestionID,
			data.Domain, data.Answer, boolInt(data.Correct), data.ElapsedSeconds).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save diagnostic answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) DiagnosticAnswers(ctx context.Context, sessionID string) ([]DiagnosticAnswerEvent, error) {
	query, args := builder().Select("id", "sequence", "timestamp", "session_id", "student_id",
		"question_id", "domain", "answer", "correct", "elapsed_seconds").
		From(entsql.Table(tableDiagnosticAnswers)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query diagnostic answers: %w", err)
	}
	defer rows.Close()

	var out []DiagnosticAnswerEvent
	for rows.Next() {
		var (
			e       DiagnosticAnswerEvent
			ts      int64
			correct int
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.StudentID,
			&e.QuestionID, &e.Domain, &e.Answer, &correct, &e.ElapsedSeconds); err != nil {
			return nil, fmt.Errorf("scan diagnostic answer: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		e.Correct = correct != 0
		out = append(out, e)
	}
	return out, rows.Err()
}
