package diagnostic

import (
	"time"

	"github.com/abhisek/mathbuddy/internal/questionbank"
)

// Level bounds.
const (
	MinLevel = 1
	MaxLevel = 5
)

// DomainResult is the outcome of one domain in a completed diagnostic.
type DomainResult struct {
	Domain             questionbank.Domain `json:"domain"`
	Correct            int                 `json:"correct"`
	Total              int                 `json:"total"`
	Accuracy           float64             `json:"accuracy"`
	AverageTimeSeconds float64             `json:"averageTimeSeconds"`
	Level              int                 `json:"level"`
}

// Result is the payload returned when a session is completed.
type Result struct {
	SessionID         string                      `json:"sessionId"`
	StudentID         string                      `json:"studentId"`
	Grade             int                         `json:"grade"`
	Results           []DomainResult              `json:"results"`
	RecommendedLevels map[questionbank.Domain]int `json:"recommendedLevels"`
	OverallLevel      int                         `json:"overallLevel"`
	StartedAt         time.Time                   `json:"startedAt"`
	CompletedAt       time.Time                   `json:"completedAt"`
}

// LevelFor maps an accuracy of correct/total to a level: up to 20% is 1,
// up to 40% is 2, up to 60% is 3, up to 80% is 4, anything above is 5.
// A domain with no answers gets the minimum level.
func LevelFor(correct, total int) int {
	if total <= 0 || correct <= 0 {
		return MinLevel
	}
	correct = min(correct, total)
	// ceil(5 * correct / total) in integers.
	level := (correct*MaxLevel + total - 1) / total
	return max(MinLevel, min(level, MaxLevel))
}

// OverallLevel is the mean of levels rounded half up, never below MinLevel.
func OverallLevel(levels []int) int {
	if len(levels) == 0 {
		return MinLevel
	}
	sum := 0
	for _, l := range levels {
		sum += l
	}
	n := len(levels)
	return max(MinLevel, (sum*2+n)/(2*n))
}

// Summarize computes per-domain results for every domain that was asked at
// least one question, in plan order.
func Summarize(s *Session) []DomainResult {
	var out []DomainResult
	for _, d := range s.Domains() {
		total := s.Asked[d]
		if total == 0 {
			continue
		}
		correct := s.Correct[d]
		r := DomainResult{
			Domain:   d,
			Correct:  correct,
			Total:    total,
			Accuracy: float64(correct) / float64(total),
			Level:    LevelFor(correct, total),
		}
		if ts := s.Timings[d]; len(ts) > 0 {
			var sum float64
			for _, t := range ts {
				sum += t
			}
			r.AverageTimeSeconds = sum / float64(len(ts))
		}
		out = append(out, r)
	}
	return out
}
