package diagnostic

import (
	"sort"

	"github.com/abhisek/mathbuddy/internal/questionbank"
)

// buildPlan builds one queue of up to QuestionsPerDomain questions for each
// domain of grade. A grade without domains borrows the nearest grade that
// has some, and a domain short of questions borrows them from the nearest
// grade that has a full set.
func buildPlan(p questionbank.Provider, grade int) []DomainQueue {
	planGrade := grade
	domains := p.DomainsForGrade(grade)
	if len(domains) == 0 {
		for _, g := range nearestGrades(grade) {
			if ds := p.DomainsForGrade(g); len(ds) > 0 {
				planGrade, domains = g, ds
				break
			}
		}
	}

	plan := make([]DomainQueue, 0, len(domains))
	for _, d := range domains {
		qs := domainQuestions(p, planGrade, d)
		if len(qs) < QuestionsPerDomain {
			for _, g := range nearestGrades(planGrade) {
				if alt := domainQuestions(p, g, d); len(alt) >= QuestionsPerDomain {
					qs = alt
					break
				}
			}
		}
		if len(qs) == 0 {
			continue
		}
		if len(qs) > QuestionsPerDomain {
			qs = qs[:QuestionsPerDomain]
		}
		plan = append(plan, DomainQueue{Domain: d, Questions: qs})
	}
	return plan
}

func domainQuestions(p questionbank.Provider, grade int, d questionbank.Domain) []questionbank.Question {
	var qs []questionbank.Question
	for _, q := range p.QuestionsForGrade(grade) {
		if q.Domain == d {
			qs = append(qs, q)
		}
	}
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	return qs
}

// nearestGrades lists the other grades by distance from grade, the lower
// grade first at each distance.
func nearestGrades(grade int) []int {
	var out []int
	for dist := 1; dist <= questionbank.MaxGrade-questionbank.MinGrade; dist++ {
		if g := grade - dist; g >= questionbank.MinGrade {
			out = append(out, g)
		}
		if g := grade + dist; g <= questionbank.MaxGrade {
			out = append(out, g)
		}
	}
	return out
}

func clampGrade(grade int) int {
	return max(questionbank.MinGrade, min(grade, questionbank.MaxGrade))
}
