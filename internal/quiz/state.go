// Package quiz implements the assessment state machine: a pure reducer
// over State driven by a closed set of actions.
package quiz

import (
	"fmt"
	"maps"
	"time"

	"github.com/abhisek/maturity/internal/scoring"
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseNotStarted Phase = iota // Landing page, nothing recorded
	PhaseInProgress              // Answering questions
	PhaseComplete                // All questions answered, scores final
)

var phaseNames = map[Phase]string{
	PhaseNotStarted: "not_started",
	PhaseInProgress: "in_progress",
	PhaseComplete:   "complete",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// MarshalText encodes the phase by name so snapshots stay readable.
func (p Phase) MarshalText() ([]byte, error) {
	s, ok := phaseNames[p]
	if !ok {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(s), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	for ph, name := range phaseNames {
		if name == string(b) {
			*p = ph
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", string(b))
}

// UserData is the optional identity captured on the email page.
type UserData struct {
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
}

// State is one respondent's session. It is a value: the reducer never
// mutates its input, and Clone must be used before handing a State to
// code that may modify it.
type State struct {
	// Phase is the lifecycle stage.
	Phase Phase `json:"phase"`

	// Position is the index of the question currently on screen.
	Position int `json:"position"`

	// Answers maps question id to the selected 0-based option index.
	// First answer wins: entries are never overwritten.
	Answers map[int]int `json:"answers"`

	// Scores is set atomically with the transition to PhaseComplete.
	Scores *scoring.Result `json:"scores,omitempty"`

	// EmailHandled is true once the respondent submitted or skipped the
	// email step.
	EmailHandled bool `json:"emailHandled"`

	// Email is the submitted address, empty when skipped.
	Email string `json:"email,omitempty"`

	// User holds optional identity fields from the email step.
	User *UserData `json:"userData,omitempty"`

	// StartedAt is when Start was accepted.
	StartedAt time.Time `json:"startedAt,omitzero"`

	// CompletedAt is when the last answer was recorded.
	CompletedAt time.Time `json:"completedAt,omitzero"`
}

// New returns the initial NotStarted state.
func New() State {
	return State{
		Phase:   PhaseNotStarted,
		Answers: map[int]int{},
	}
}

// IsComplete reports whether every question has been answered.
func (s State) IsComplete() bool {
	return s.Phase == PhaseComplete
}

// Answered reports whether the question has a recorded answer and
// returns the selected option index.
func (s State) Answered(questionID int) (int, bool) {
	idx, ok := s.Answers[questionID]
	return idx, ok
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Answers = maps.Clone(s.Answers)
	if out.Answers == nil {
		out.Answers = map[int]int{}
	}
	if s.Scores != nil {
		sc := *s.Scores
		sc.Categories = maps.Clone(s.Scores.Categories)
		out.Scores = &sc
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

// Page is the screen a state should be rendered on.
type Page int

const (
	PageLanding Page = iota
	PageQuiz
	PageEmail
	PageResults
)

func (p Page) String() string {
	switch p {
	case PageLanding:
		return "landing"
	case PageQuiz:
		return "quiz"
	case PageEmail:
		return "email"
	case PageResults:
		return "results"
	default:
		return "unknown"
	}
}

// PageFor derives the active page from the state.
func PageFor(s State) Page {
	switch {
	case s.Phase == PhaseNotStarted:
		return PageLanding
	case s.Phase == PhaseInProgress:
		return PageQuiz
	case !s.EmailHandled:
		return PageEmail
	default:
		return PageResults
	}
}
