package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/abhisek/maturity/internal/persona"
	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/scoring"
)

//go:embed report.html.tmpl
var reportTemplateSrc string

var reportTemplate = template.Must(template.New("report").Parse(reportTemplateSrc))

// Title is the heading of every report.
const Title = "Experimentation Maturity Assessment"

type templateCategory struct {
	Name    string
	Percent int
	Level   scoring.Level
	Insight string
}

type templateData struct {
	Title           string
	Date            string
	HasIdentity     bool
	Name            string
	Company         string
	Email           string
	Persona         persona.Persona
	Overall         int
	Categories      []templateCategory
	Recommendations []persona.Recommendation
}

// RenderHTML renders the printable report page for b. The bundle is
// sanitized first; html/template escapes all user-provided text.
func RenderHTML(b Bundle) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	b = b.Sanitized()

	generated := b.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	p := b.Persona()
	data := templateData{
		Title:           Title,
		Date:            generated.Format("January 2, 2006"),
		Persona:         p,
		Overall:         b.Scores.Overall,
		Recommendations: p.Recommendations,
	}
	if b.User != nil || b.Email != "" {
		data.HasIdentity = true
		data.Email = orNotProvided(b.Email)
		data.Name, data.Company = orNotProvided(""), orNotProvided("")
		if b.User != nil {
			data.Name = orNotProvided(b.User.Name)
			data.Company = orNotProvided(b.User.Company)
		}
	}
	for _, c := range questions.AllCategories() {
		pct := b.Scores.Categories[c]
		data.Categories = append(data.Categories, templateCategory{
			Name:    c.DisplayName(),
			Percent: pct,
			Level:   scoring.LevelFor(pct),
			Insight: persona.CategoryInsight(c, pct),
		})
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report template: %w", err)
	}
	return buf.String(), nil
}

func orNotProvided(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}
