// Package persona maps an overall maturity percentage to a static
// descriptive profile.
package persona

import (
	"slices"

	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/scoring"
)

// Tier orders personas from least to most mature.
type Tier int

const (
	TierNovice Tier = iota
	TierDeveloping
	TierEstablished
	TierExpert
	TierLeader
)

func (t Tier) String() string {
	switch t {
	case TierNovice:
		return "novice"
	case TierDeveloping:
		return "beginner"
	case TierEstablished:
		return "intermediate"
	case TierExpert:
		return "advanced"
	case TierLeader:
		return "expert"
	default:
		return "unknown"
	}
}

// Recommendation is a next step tagged with the category it improves.
type Recommendation struct {
	Category    questions.Category `json:"category"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
}

// Persona is the profile shown on the results page.
type Persona struct {
	Tier            Tier             `json:"tier"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Recommendations []Recommendation `json:"recommendations"`
}

// band is the exclusive upper bound of each tier except the last,
// which is inclusive of 100.
var bands = []struct {
	below int
	tier  Tier
}{
	{20, TierNovice},
	{40, TierDeveloping},
	{60, TierEstablished},
	{80, TierExpert},
}

// TierFor returns the tier for an overall percentage. Out-of-range
// inputs are clamped to [0, 100].
func TierFor(overall int) Tier {
	overall = scoring.Clamp(overall)
	for _, b := range bands {
		if overall < b.below {
			return b.tier
		}
	}
	return TierLeader
}

// Range returns the inclusive overall percentage range of t.
func (t Tier) Range() (lo, hi int) {
	lo = 0
	for _, b := range bands {
		if b.tier == t {
			return lo, b.below - 1
		}
		lo = b.below
	}
	return lo, 100
}

// Resolve returns the persona for an overall percentage.
func Resolve(overall int) Persona {
	p := personas[TierFor(overall)]
	p.Recommendations = slices.Clone(p.Recommendations)
	return p
}

// All returns every persona in tier order.
func All() []Persona {
	out := make([]Persona, 0, len(personas))
	for t := TierNovice; t <= TierLeader; t++ {
		p := personas[t]
		p.Recommendations = slices.Clone(p.Recommendations)
		out = append(out, p)
	}
	return out
}

// CategoryInsight returns the narrative line for a category at the
// given percentage.
func CategoryInsight(c questions.Category, pct int) string {
	return categoryInsights[c][scoring.LevelFor(pct)]
}
