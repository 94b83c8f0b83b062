package questionbank

import (
	"fmt"
	"slices"
	"sort"
)

// Bank is an in-memory Provider with precomputed per-grade indices.
type Bank struct {
	questions []Question
	byGrade   map[int][]Question
	domains   map[int][]Domain
}

var _ Provider = (*Bank)(nil)

// New builds a Bank from questions. It returns an error for duplicate IDs,
// unknown domains or inverted grade ranges.
func New(questions []Question) (*Bank, error) {
	if err := validate(questions); err != nil {
		return nil, err
	}

	b := &Bank{
		questions: slices.Clone(questions),
		byGrade:   make(map[int][]Question),
		domains:   make(map[int][]Domain),
	}

	rank := make(map[Domain]int)
	for i, d := range AllDomains() {
		rank[d] = i
	}

	for grade := MinGrade; grade <= MaxGrade; grade++ {
		var qs []Question
		for _, q := range b.questions {
			if q.CoversGrade(grade) {
				qs = append(qs, q)
			}
		}
		sort.SliceStable(qs, func(i, j int) bool {
			if qs[i].Domain != qs[j].Domain {
				return rank[qs[i].Domain] < rank[qs[j].Domain]
			}
			return qs[i].Order < qs[j].Order
		})
		b.byGrade[grade] = qs

		var ds []Domain
		for _, q := range qs {
			if len(ds) == 0 || ds[len(ds)-1] != q.Domain {
				ds = append(ds, q.Domain)
			}
		}
		b.domains[grade] = ds
	}
	return b, nil
}

// MustNew is like New but panics on error. Used for the built-in seed.
func MustNew(questions []Question) *Bank {
	b, err := New(questions)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Bank) QuestionsForGrade(grade int) []Question {
	return slices.Clone(b.byGrade[grade])
}

func (b *Bank) DomainsForGrade(grade int) []Domain {
	return slices.Clone(b.domains[grade])
}

// All returns every question in load order.
func (b *Bank) All() []Question {
	return slices.Clone(b.questions)
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.questions)
}

func validate(questions []Question) error {
	known := make(map[Domain]bool)
	for _, d := range AllDomains() {
		known[d] = true
	}

	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("question with prompt %q has no id", q.Prompt)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true

		if !known[q.Domain] {
			return fmt.Errorf("question %q: unknown domain %q", q.ID, q.Domain)
		}
		if q.GradeMin < MinGrade || q.GradeMax > MaxGrade || q.GradeMin > q.GradeMax {
			return fmt.Errorf("question %q: invalid grade range [%d,%d]", q.ID, q.GradeMin, q.GradeMax)
		}
		if q.Prompt == "" || q.Answer == "" {
			return fmt.Errorf("question %q: prompt and answer are required", q.ID)
		}
	}
	return nil
}
