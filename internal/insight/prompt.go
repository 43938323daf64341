package insight

import (
	"fmt"
	"strings"

	"github.com/abhisek/maturity/internal/persona"
	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/scoring"
)

const systemPrompt = `You are an experimentation program advisor reviewing the results of a
self-assessment. Categories: process (how tests are designed and run), strategy (how
experiments tie to goals), insight (how results are analysed and shared), culture (how the
organisation treats data and failure). Be direct and specific, avoid generic praise, and never
restate the raw numbers as a list.`

func buildPrompt(r scoring.Result) string {
	var b strings.Builder
	p := persona.Resolve(r.Overall)
	fmt.Fprintf(&b, "Overall maturity: %d%% (%s).\n", r.Overall, p.Title)
	b.WriteString("Category scores:\n")
	for _, c := range questions.AllCategories() {
		pct := r.Categories[c]
		fmt.Fprintf(&b, "- %s: %d%% (%s)\n", c, pct, scoring.LevelFor(pct))
	}
	b.WriteString("\nWrite a headline, a short summary, and the categories to focus on next.")
	return b.String()
}
