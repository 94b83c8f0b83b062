package diagnostic

import (
	"slices"
	"testing"

	"github.com/abhisek/mathbuddy/internal/questionbank"
)

func q(id string, d questionbank.Domain, lo, hi, order int) questionbank.Question {
	return questionbank.Question{ID: id, Domain: d, GradeMin: lo, GradeMax: hi, Order: order, Prompt: "p", Answer: "1"}
}

func TestNearestGrades(t *testing.T) {
	tests := []struct {
		grade int
		want  []int
	}{
		{4, []int{3, 5, 2, 6, 1, 7, 8}},
		{1, []int{2, 3, 4, 5, 6, 7, 8}},
		{8, []int{7, 6, 5, 4, 3, 2, 1}},
	}
	for _, tt := range tests {
		if got := nearestGrades(tt.grade); !slices.Equal(got, tt.want) {
			t.Errorf("nearestGrades(%d) = %v, want %v", tt.grade, got, tt.want)
		}
	}
}

func TestBuildPlan_GradeWithoutDomainsFallsBack(t *testing.T) {
	bank := questionbank.MustNew([]questionbank.Question{
		q("a1", questionbank.DomainAddition, 2, 2, 1),
		q("a2", questionbank.DomainAddition, 2, 2, 2),
		q("a3", questionbank.DomainAddition, 2, 2, 3),
		q("f1", questionbank.DomainFractions, 6, 6, 1),
		q("f2", questionbank.DomainFractions, 6, 6, 2),
		q("f3", questionbank.DomainFractions, 6, 6, 3),
	})

	tests := []struct {
		name  string
		grade int
		want  questionbank.Domain
	}{
		{"nearer below", 3, questionbank.DomainAddition},
		{"equidistant prefers below", 4, questionbank.DomainAddition},
		{"nearer above", 5, questionbank.DomainFractions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := buildPlan(bank, tt.grade)
			if len(plan) != 1 {
				t.Fatalf("plan has %d domains, want 1", len(plan))
			}
			if plan[0].Domain != tt.want {
				t.Errorf("domain = %s, want %s", plan[0].Domain, tt.want)
			}
		})
	}
}

func TestBuildPlan_ShortDomainBorrowsFromNearestGrade(t *testing.T) {
	bank := questionbank.MustNew([]questionbank.Question{
		q("m5-1", questionbank.DomainMultiplication, 5, 5, 1),
		q("m6-1", questionbank.DomainMultiplication, 6, 6, 1),
		q("m6-2", questionbank.DomainMultiplication, 6, 6, 2),
		q("m6-3", questionbank.DomainMultiplication, 6, 6, 3),
		q("m4-1", questionbank.DomainMultiplication, 4, 4, 1),
		q("m4-2", questionbank.DomainMultiplication, 4, 4, 2),
	})

	plan := buildPlan(bank, 5)
	if len(plan) != 1 {
		t.Fatalf("plan has %d domains, want 1", len(plan))
	}
	var ids []string
	for _, qq := range plan[0].Questions {
		ids = append(ids, qq.ID)
	}
	if want := []string{"m6-1", "m6-2", "m6-3"}; !slices.Equal(ids, want) {
		t.Errorf("questions = %v, want %v", ids, want)
	}
}

func TestBuildPlan_KeepsShortDomainWhenNoFallback(t *testing.T) {
	bank := questionbank.MustNew([]questionbank.Question{
		q("g1", questionbank.DomainGeometry, 7, 7, 2),
		q("g2", questionbank.DomainGeometry, 7, 7, 1),
	})
	plan := buildPlan(bank, 7)
	if len(plan) != 1 || len(plan[0].Questions) != 2 {
		t.Fatalf("plan = %+v, want one domain with 2 questions", plan)
	}
	if got := plan[0].Questions[0].ID; got != "g2" {
		t.Errorf("first question = %s, want g2", got)
	}
}

func TestBuildPlan_CapsAtQuota(t *testing.T) {
	plan := buildPlan(questionbank.Default(), 3)
	if len(plan) != 4 {
		t.Fatalf("plan has %d domains, want 4", len(plan))
	}
	for _, dq := range plan {
		if len(dq.Questions) != QuestionsPerDomain {
			t.Errorf("%s has %d questions, want %d", dq.Domain, len(dq.Questions), QuestionsPerDomain)
		}
	}
}
