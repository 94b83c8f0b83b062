package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/mathbuddy/internal/questionbank"
	"github.com/abhisek/mathbuddy/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPrintBank(t *testing.T) {
	var out bytes.Buffer
	printBank(&out, questionbank.Default(), 3, true)

	got := out.String()
	for _, want := range []string{"g34-add-1", "[623]", "questions in"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	printBank(&out, questionbank.MustNew(nil), 3, false)
	if got := out.String(); got != "No questions for grade 3.\n" {
		t.Errorf("empty bank output = %q", got)
	}
}

func TestPrintAllQuestions(t *testing.T) {
	bank := questionbank.Default()
	var out bytes.Buffer
	printAllQuestions(&out, bank.All(), false)

	got := out.String()
	if !strings.Contains(got, "Grades") {
		t.Errorf("missing Grades column:\n%s", got)
	}
	if strings.Contains(got, "[623]") {
		t.Error("answers shown without --answers")
	}
	want := fmt.Sprintf("%d questions in", len(bank.All()))
	if !strings.Contains(got, want) {
		t.Errorf("output missing %q", want)
	}

	out.Reset()
	printAllQuestions(&out, nil, false)
	if got := out.String(); got != "The question bank is empty.\n" {
		t.Errorf("empty output = %q", got)
	}
}

func TestPrintResults(t *testing.T) {
	var out bytes.Buffer
	printResults(&out, nil)
	if got := out.String(); got != "No diagnostic results found.\n" {
		t.Errorf("empty output = %q", got)
	}

	out.Reset()
	printResults(&out, []store.DiagnosticResult{{
		SessionID:    "s-1",
		Grade:        4,
		OverallLevel: 3,
		Domains: []store.DomainLevel{
			{Domain: "addition", Correct: 2, Total: 3, Accuracy: 2.0 / 3, AverageTimeSeconds: 4.5, Level: 4},
		},
		CompletedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}})
	got := out.String()
	for _, want := range []string{"grade 4  overall level 3  (session s-1)", "addition", "67%"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintLatestResult(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	repo := st.ResultRepo()

	latest, err := repo.LatestDiagnosticResult(ctx, "kid-1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	var out bytes.Buffer
	printLatestResult(&out, latest)
	if got := out.String(); got != "No diagnostic results found.\n" {
		t.Errorf("no results output = %q", got)
	}

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"s-old", "s-new"} {
		_, err := repo.SaveDiagnosticResult(ctx, store.DiagnosticResult{
			SessionID:    id,
			StudentID:    "kid-1",
			Grade:        3,
			OverallLevel: 2 + i,
			StartedAt:    base.Add(time.Duration(i) * time.Hour),
			CompletedAt:  base.Add(time.Duration(i)*time.Hour + 10*time.Minute),
		})
		if err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	latest, err = repo.LatestDiagnosticResult(ctx, "kid-1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	out.Reset()
	printLatestResult(&out, latest)
	got := out.String()
	if !strings.Contains(got, "(session s-new)") {
		t.Errorf("latest not shown:\n%s", got)
	}
	if strings.Contains(got, "s-old") {
		t.Errorf("older result shown:\n%s", got)
	}
}

func TestPrintLLMStats(t *testing.T) {
	var out bytes.Buffer
	printLLMStats(&out, nil, nil)
	if got := out.String(); got != "No LLM usage recorded yet.\n" {
		t.Errorf("empty output = %q", got)
	}

	out.Reset()
	printLLMStats(&out,
		[]store.LLMUsage{{Purpose: "tutor", Calls: 3, Failures: 1, BytesStreamed: 900, InputTokens: 1_000_000, OutputTokens: 1_000_000, AvgLatencyMs: 250}},
		[]store.LLMModelUsage{
			{Provider: "openai", Model: "gpt-4o-mini", Calls: 2, InputTokens: 1_000_000, OutputTokens: 1_000_000},
			{Provider: "gateway", Model: "tutor-small", Calls: 1},
		},
	)
	got := out.String()
	for _, want := range []string{
		"Usage by Purpose",
		"Estimated Cost (USD)",
		"$0.75",
		"TOTAL (partial)",
		"Pricing unavailable for: tutor-small",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintLLMStats_AllPriced(t *testing.T) {
	var out bytes.Buffer
	printLLMStats(&out,
		[]store.LLMUsage{{Purpose: "tutor", Calls: 1}},
		[]store.LLMModelUsage{{Provider: "openai", Model: "gpt-4o-mini", Calls: 1, InputTokens: 100, OutputTokens: 10}},
	)
	got := out.String()
	if strings.Contains(got, "partial") || strings.Contains(got, "Pricing unavailable") {
		t.Errorf("fully priced table marked partial:\n%s", got)
	}
	if !strings.Contains(got, "$0.0000") {
		t.Errorf("small cost not shown with four decimals:\n%s", got)
	}
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		usd  float64
		want string
	}{
		{0, "$0.0000"},
		{0.0042, "$0.0042"},
		{0.75, "$0.75"},
		{12.5, "$12.50"},
	}
	for _, tt := range tests {
		if got := formatCost(tt.usd); got != tt.want {
			t.Errorf("formatCost(%v) = %q, want %q", tt.usd, got, tt.want)
		}
	}
}
