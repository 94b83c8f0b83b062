package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableDiagnosticResults, tableDiagnosticAnswers, tableLLMRequests, "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
	}

	// Migration is idempotent.
	if err := migrate(context.Background(), db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestDiagnosticResultSaveAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	latest, err := repo.LatestDiagnosticResult(ctx, "kid")
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if latest != nil {
		t.Fatal("expected nil result when none exist")
	}

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.SaveDiagnosticResult(ctx, DiagnosticResult{
			SessionID:    fmt.Sprintf("s%d", i),
			StudentID:    "kid",
			Grade:        3,
			OverallLevel: i + 2,
			Domains: []DomainLevel{
				{Domain: "addition", Correct: 3, Total: 3, Accuracy: 1, AverageTimeSeconds: 4.5, Level: 5},
				{Domain: "division", Correct: 1, Total: 3, Accuracy: 1.0 / 3, Level: 2},
			},
			StartedAt:   base.Add(time.Duration(i) * time.Hour),
			CompletedAt: base.Add(time.Duration(i)*time.Hour + 10*time.Minute),
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if _, err := repo.SaveDiagnosticResult(ctx, DiagnosticResult{SessionID: "other", StudentID: "someone-else"}); err != nil {
		t.Fatalf("save other: %v", err)
	}

	results, err := repo.ListDiagnosticResults(ctx, "kid", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].SessionID != "s2" {
		t.Errorf("newest session = %q, want s2", results[0].SessionID)
	}
	if got := results[0].Domains; len(got) != 2 || got[0].Domain != "addition" || got[0].AverageTimeSeconds != 4.5 {
		t.Errorf("domains = %+v", got)
	}
	if !results[2].StartedAt.Equal(base) {
		t.Errorf("started_at = %v, want %v", results[2].StartedAt, base)
	}

	limited, err := repo.ListDiagnosticResults(ctx, "kid", 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}

	latest, err = repo.LatestDiagnosticResult(ctx, "kid")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.OverallLevel != 4 {
		t.Errorf("latest = %+v, want overall level 4", latest)
	}
}

func TestDiagnosticResultDuplicateSession(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	r := DiagnosticResult{SessionID: "dup", StudentID: "kid", Grade: 2, OverallLevel: 1}
	first, err := repo.SaveDiagnosticResult(ctx, r)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := repo.SaveDiagnosticResult(ctx, DiagnosticResult{SessionID: "other", StudentID: "kid"}); err != nil {
		t.Fatalf("other save: %v", err)
	}

	r.OverallLevel = 5
	second, err := repo.SaveDiagnosticResult(ctx, r)
	if err != nil {
		t.Fatalf("second save of the same session: %v", err)
	}
	if second != first {
		t.Errorf("second save id = %d, want the stored id %d", second, first)
	}

	results, err := repo.ListDiagnosticResults(ctx, "kid", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	for _, res := range results {
		if res.SessionID == "dup" && res.OverallLevel != 1 {
			t.Errorf("stored result overwritten: %+v", res)
		}
	}
}

func TestDiagnosticAnswers(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	answers := []DiagnosticAnswerEventData{
		{SessionID: "s1", StudentID: "kid", QuestionID: "q1", Domain: "addition", Answer: "7", Correct: true, ElapsedSeconds: 3.5},
		{SessionID: "s2", StudentID: "kid2", QuestionID: "q1", Domain: "addition", Answer: "8"},
		{SessionID: "s1", StudentID: "kid", QuestionID: "q2", Domain: "addition", Answer: "9", ElapsedSeconds: 6},
	}
	for i, a := range answers {
		if err := repo.AppendDiagnosticAnswer(ctx, a); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := repo.DiagnosticAnswers(ctx, "s1")
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].QuestionID != "q1" || !got[0].Correct || got[0].ElapsedSeconds != 3.5 {
		t.Errorf("first answer = %+v", got[0])
	}
	if got[1].QuestionID != "q2" || got[1].Correct {
		t.Errorf("second answer = %+v", got[1])
	}
	if got[0].Sequence >= got[1].Sequence {
		t.Errorf("sequences not increasing: %d, %d", got[0].Sequence, got[1].Sequence)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "tutor", LatencyMs: 100, BytesStreamed: 500, InputTokens: 90, OutputTokens: 30, Success: true, RequestBody: "[user]\nhi"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "tutor", LatencyMs: 300, Success: false, ErrorMessage: "boom"},
		{Provider: "gateway", Model: "local", Purpose: "hint", LatencyMs: 50, BytesStreamed: 20, Success: true},
	}
	for i, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	if all[0].Purpose != "hint" {
		t.Errorf("newest purpose = %q, want hint", all[0].Purpose)
	}

	tutor, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "tutor", Limit: 1})
	if err != nil {
		t.Fatalf("query tutor: %v", err)
	}
	if len(tutor) != 1 || tutor[0].ErrorMessage != "boom" || tutor[0].Success {
		t.Errorf("tutor events = %+v", tutor)
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: all[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 {
		t.Errorf("len(after) = %d, want 1", len(after))
	}

	e, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || e.RequestBody != "[user]\nhi" || !e.Success || e.BytesStreamed != 500 || e.InputTokens != 90 || e.OutputTokens != 30 {
		t.Errorf("event = %+v", e)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("len(usage) = %d, want 2", len(usage))
	}
	u := usage[1] // ordered by purpose: hint, tutor
	if u.Purpose != "tutor" || u.Calls != 2 || u.Failures != 1 || u.AvgLatencyMs != 200 || u.BytesStreamed != 500 {
		t.Errorf("tutor usage = %+v", u)
	}
	if u.InputTokens != 90 || u.OutputTokens != 30 {
		t.Errorf("tutor tokens = %d/%d, want 90/30", u.InputTokens, u.OutputTokens)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("len(byModel) = %d, want 2", len(byModel))
	}
	// Ordered by provider: gateway, openai.
	if m := byModel[1]; m.Provider != "openai" || m.Model != "gpt-4o-mini" || m.Calls != 2 || m.InputTokens != 90 || m.OutputTokens != 30 {
		t.Errorf("openai usage = %+v", m)
	}
	if m := byModel[0]; m.Provider != "gateway" || m.InputTokens != 0 {
		t.Errorf("gateway usage = %+v", m)
	}
}
