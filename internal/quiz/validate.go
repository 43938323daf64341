package quiz

import (
	"errors"
	"fmt"
	"maps"

	"github.com/abhisek/maturity/internal/scoring"
)

// ErrInconsistent is returned by Validate for states that could not have
// been produced by Reduce.
var ErrInconsistent = errors.New("inconsistent quiz state")

// Validate checks that s satisfies every invariant Reduce maintains for
// the machine's bank. It is used to vet restored snapshots.
func (m *Machine) Validate(s State) error {
	n := m.bank.Len()
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInconsistent, fmt.Sprintf(format, args...))
	}

	if _, ok := phaseNames[s.Phase]; !ok {
		return fail("unknown phase %d", int(s.Phase))
	}
	if s.Position < 0 || s.Position > n-1 {
		return fail("position %d outside [0, %d]", s.Position, n-1)
	}
	for id, idx := range s.Answers {
		q, err := m.bank.ByID(id)
		if err != nil {
			return fail("answer for unknown question %d", id)
		}
		if idx < 0 || idx >= len(q.Options) {
			return fail("question %d: option %d out of range", id, idx)
		}
	}

	switch s.Phase {
	case PhaseNotStarted:
		if len(s.Answers) != 0 || s.Position != 0 {
			return fail("not started but has progress")
		}
	case PhaseInProgress:
		if len(s.Answers) >= n {
			return fail("all %d questions answered but not complete", n)
		}
	case PhaseComplete:
		if len(s.Answers) != n {
			return fail("complete with %d of %d answers", len(s.Answers), n)
		}
		if s.Scores == nil {
			return fail("complete without scores")
		}
		want := scoring.Score(s.Answers, m.bank.All())
		if want.Overall != s.Scores.Overall || !maps.Equal(want.Categories, s.Scores.Categories) {
			return fail("scores do not match answers")
		}
	}

	if s.Phase != PhaseComplete {
		if s.Scores != nil || s.EmailHandled || s.Email != "" || s.User != nil {
			return fail("%s state carries completion data", s.Phase)
		}
	}
	if s.Email != "" {
		if _, err := NormalizeEmail(s.Email); err != nil {
			return fail("stored email: %v", err)
		}
		if !s.EmailHandled {
			return fail("email recorded but step not handled")
		}
	}
	return nil
}
