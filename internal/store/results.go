package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// resultRepo implements ResultRepo.
type resultRepo struct {
	db *sql.DB
}

var resultColumns = []string{
	"id", "session_id", "student_id", "grade", "overall_level",
	"domains", "started_at", "completed_at",
}

// SaveDiagnosticResult inserts res. A result already stored for the same
// session is kept and its id returned, so a retried completion succeeds.
func (r *resultRepo) SaveDiagnosticResult(ctx context.Context, res DiagnosticResult) (int64, error) {
	domains, err := json.Marshal(res.Domains)
	if err != nil {
		return 0, fmt.Errorf("marshal domain levels: %w", err)
	}

	query, args := builder().Insert(tableDiagnosticResults).
		Columns("session_id", "student_id", "grade", "overall_level", "domains", "started_at", "completed_at").
		Values(res.SessionID, res.StudentID, res.Grade, res.OverallLevel, string(domains),
			res.StartedAt.UnixMilli(), res.CompletedAt.UnixMilli()).
		OnConflict(entsql.ConflictColumns("session_id"), entsql.DoNothing()).
		Query()

	out, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("save diagnostic result: %w", err)
	}
	if n, err := out.RowsAffected(); err == nil && n == 0 {
		return r.resultID(ctx, res.SessionID)
	}
	id, err := out.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("diagnostic result id: %w", err)
	}
	return id, nil
}

func (r *resultRepo) resultID(ctx context.Context, sessionID string) (int64, error) {
	query, args := builder().Select("id").
		From(entsql.Table(tableDiagnosticResults)).
		Where(entsql.EQ("session_id", sessionID)).
		Query()

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("diagnostic result id: %w", err)
	}
	return id, nil
}

func (r *resultRepo) ListDiagnosticResults(ctx context.Context, studentID string, limit int) ([]DiagnosticResult, error) {
	sel := builder().Select(resultColumns...).
		From(entsql.Table(tableDiagnosticResults)).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy(entsql.Desc("completed_at"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query diagnostic results: %w", err)
	}
	defer rows.Close()

	var out []DiagnosticResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *resultRepo) LatestDiagnosticResult(ctx context.Context, studentID string) (*DiagnosticResult, error) {
	results, err := r.ListDiagnosticResults(ctx, studentID, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

func scanResult(rows *sql.Rows) (DiagnosticResult, error) {
	var (
		res                    DiagnosticResult
		domains                string
		startedAt, completedAt int64
	)
	if err := rows.Scan(&res.ID, &res.SessionID, &res.StudentID, &res.Grade, &res.OverallLevel,
		&domains, &startedAt, &completedAt); err != nil {
		return res, fmt.Errorf("scan diagnostic result: %w", err)
	}
	if err := json.Unmarshal([]byte(domains), &res.Domains); err != nil {
		return res, fmt.Errorf("unmarshal domain levels: %w", err)
	}
	res.StartedAt = time.UnixMilli(startedAt).UTC()
	res.CompletedAt = time.UnixMilli(completedAt).UTC()
	return res, nil
}
