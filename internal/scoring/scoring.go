// Package scoring turns an answer record into per-category and overall
// maturity percentages.
package scoring

import (
	"github.com/abhisek/maturity/internal/questions"
)

// MaxWeight is the weight ceiling used to compute each category's
// maximum attainable score (count * MaxWeight).
const MaxWeight = questions.MaxWeight

// Result holds the computed percentages. Every category is present,
// including ones with no answers.
type Result struct {
	Categories map[questions.Category]int `json:"categoryPercentages"`
	Overall    int                        `json:"overallPercentage"`
}

// Score computes percentages for answers (question id -> option index)
// against qs. Answers that reference unknown questions or option indices
// are ignored. Percentages for a partial answer record only reflect the
// answered questions.
func Score(answers map[int]int, qs []questions.Question) Result {
	counts := make(map[questions.Category]int, 4)
	sums := make(map[questions.Category]int, 4)
	byID := make(map[int]questions.Question, len(qs))

	for _, q := range qs {
		counts[q.Category]++
		byID[q.ID] = q
	}

	for id, idx := range answers {
		q, ok := byID[id]
		if !ok || idx < 0 || idx >= len(q.Options) {
			continue
		}
		sums[q.Category] += q.Options[idx].Weight
	}

	res := Result{Categories: make(map[questions.Category]int, 4)}
	total := 0
	for _, c := range questions.AllCategories() {
		pct := Percent(sums[c], counts[c]*MaxWeight)
		res.Categories[c] = pct
		total += pct
	}
	res.Overall = roundDiv(total, len(questions.AllCategories()))
	return res
}

// Percent returns round(score / max * 100) with round-half-up, clamped
// to [0, 100]. A zero max yields 0.
func Percent(score, max int) int {
	if max <= 0 {
		return 0
	}
	return clamp(roundDiv(score*100, max))
}

// Overall returns the rounded mean of the given category percentages.
func Overall(categories map[questions.Category]int) int {
	total := 0
	for _, c := range questions.AllCategories() {
		total += categories[c]
	}
	return roundDiv(total, len(questions.AllCategories()))
}

// roundDiv computes round(n / d) with halves rounded up, for n >= 0 and d > 0.
// Integer arithmetic avoids float drift at exact .5 boundaries.
func roundDiv(n, d int) int {
	if n < 0 {
		return 0
	}
	return (2*n + d) / (2 * d)
}

func clamp(pct int) int {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// Clamp bounds an externally supplied percentage to [0, 100].
func Clamp(pct int) int {
	return clamp(pct)
}
