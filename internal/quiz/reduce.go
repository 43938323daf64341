package quiz

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/scoring"
)

// Machine applies actions to states against a fixed question bank.
type Machine struct {
	bank *questions.Bank
	now  func() time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// NewMachine creates a Machine for the bank.
func NewMachine(bank *questions.Bank, opts ...Option) *Machine {
	m := &Machine{bank: bank, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Bank returns the question bank the machine validates against.
func (m *Machine) Bank() *questions.Bank {
	return m.bank
}

// Reduce returns the state after applying a. On an illegal transition it
// returns s unchanged together with a *RejectedError. s is never mutated.
func (m *Machine) Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case Start:
		if s.Phase != PhaseNotStarted {
			return reject(s, a, ErrAlreadyStarted)
		}
		next := New()
		next.Phase = PhaseInProgress
		next.StartedAt = m.now()
		return next, nil

	case Answer:
		return m.answer(s, a)

	case Next:
		if s.Phase != PhaseInProgress {
			return reject(s, a, ErrWrongPhase)
		}
		if s.Position >= m.bank.Len()-1 {
			return reject(s, a, ErrAtBoundary)
		}
		next := s.Clone()
		next.Position++
		return next, nil

	case Previous:
		if s.Position <= 0 {
			return reject(s, a, ErrAtBoundary)
		}
		next := s.Clone()
		next.Position--
		return next, nil

	case SubmitEmail:
		if s.Phase != PhaseComplete {
			return reject(s, a, ErrWrongPhase)
		}
		addr, err := NormalizeEmail(a.Email)
		if err != nil {
			return reject(s, a, err)
		}
		next := s.Clone()
		next.Email = addr
		next.User = nil
		if u := trimUser(a.User); u != (UserData{}) {
			next.User = &u
		}
		next.EmailHandled = true
		return next, nil

	case SkipEmail:
		if s.Phase != PhaseComplete {
			return reject(s, a, ErrWrongPhase)
		}
		next := s.Clone()
		next.Email = ""
		next.User = nil
		next.EmailHandled = true
		return next, nil

	case Reset:
		return New(), nil

	default:
		return reject(s, a, ErrUnknownAction)
	}
}

func (m *Machine) answer(s State, a Answer) (State, error) {
	if s.Phase != PhaseInProgress {
		return reject(s, a, ErrWrongPhase)
	}
	q, err := m.bank.ByID(a.QuestionID)
	if err != nil {
		if errors.Is(err, questions.ErrNotFound) {
			return reject(s, a, fmt.Errorf("%w: %d", ErrUnknownQuestion, a.QuestionID))
		}
		return reject(s, a, err)
	}
	if a.Option < 0 || a.Option >= len(q.Options) {
		return reject(s, a, fmt.Errorf("%w: %d not in [0, %d]", ErrOptionOutOfRange, a.Option, len(q.Options)-1))
	}
	if _, ok := s.Answers[a.QuestionID]; ok {
		return reject(s, a, ErrAlreadyAnswered)
	}

	next := s.Clone()
	next.Answers[a.QuestionID] = a.Option

	// Completion and scoring happen in the same transition as the last answer.
	if len(next.Answers) == m.bank.Len() {
		res := scoring.Score(next.Answers, m.bank.All())
		next.Scores = &res
		next.Phase = PhaseComplete
		next.CompletedAt = m.now()
	}
	return next, nil
}

// NormalizeEmail validates a bare email address and returns it trimmed.
// Display-name forms such as "Ann <ann@example.com>" are rejected.
func NormalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidEmail)
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw || !strings.Contains(raw[strings.LastIndex(raw, "@")+1:], ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, raw)
	}
	return raw, nil
}

func trimUser(u UserData) UserData {
	return UserData{
		Name:    strings.TrimSpace(u.Name),
		Company: strings.TrimSpace(u.Company),
	}
}
