// Package report turns a completed assessment into a downloadable PDF.
package report

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/maturity/internal/persona"
	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/quiz"
	"github.com/abhisek/maturity/internal/scoring"
)

// ErrNoScores is returned for bundles built from unfinished sessions.
var ErrNoScores = errors.New("no scores available to generate report")

// maxTextLen caps free-text identity fields rendered into the report.
const maxTextLen = 500

// Bundle is everything the report and the CRM collaborators need about a
// completed session. It is also the request body of POST /api/generate-pdf.
type Bundle struct {
	SessionID   string          `json:"sessionId,omitempty"`
	Email       string          `json:"email,omitempty"`
	User        *quiz.UserData  `json:"userData,omitempty"`
	Scores      *scoring.Result `json:"scores"`
	GeneratedAt time.Time       `json:"generatedAt,omitzero"`
}

// NewBundle captures a completed state.
func NewBundle(sessionID string, s quiz.State) (Bundle, error) {
	if !s.IsComplete() || s.Scores == nil {
		return Bundle{}, ErrNoScores
	}
	s = s.Clone()
	return Bundle{
		SessionID: sessionID,
		Email:     s.Email,
		User:      s.User,
		Scores:    s.Scores,
	}, nil
}

// Validate reports whether the bundle can be rendered.
func (b Bundle) Validate() error {
	if b.Scores == nil {
		return ErrNoScores
	}
	return nil
}

// Sanitized returns a copy with scores clamped to [0, 100], unknown
// categories dropped and free text trimmed to a bounded length. A session
// id that is not a UUID is cleared. Bundles from outside the process are
// untrusted; we render what we are given without re-scoring.
func (b Bundle) Sanitized() Bundle {
	out := b
	out.SessionID = ""
	if id, err := uuid.Parse(strings.TrimSpace(b.SessionID)); err == nil {
		out.SessionID = id.String()
	}
	if b.Scores != nil {
		r := scoring.Result{
			Categories: make(map[questions.Category]int, len(questions.AllCategories())),
			Overall:    scoring.Clamp(b.Scores.Overall),
		}
		for c, pct := range b.Scores.Categories {
			if c.Valid() {
				r.Categories[c] = scoring.Clamp(pct)
			}
		}
		out.Scores = &r
	}
	out.Email = clip(b.Email)
	if b.User != nil {
		out.User = &quiz.UserData{Name: clip(b.User.Name), Company: clip(b.User.Company)}
	}
	return out
}

// Persona resolves the persona for the bundle's overall score.
func (b Bundle) Persona() persona.Persona {
	if b.Scores == nil {
		return persona.Resolve(0)
	}
	return persona.Resolve(b.Scores.Overall)
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxTextLen {
		return string(r[:maxTextLen])
	}
	return s
}
