package quiz

import (
	"errors"
	"fmt"
)

// Rejection reasons. A rejected action leaves the state unchanged.
var (
	ErrWrongPhase       = errors.New("not allowed in current phase")
	ErrAlreadyStarted   = errors.New("quiz already started")
	ErrUnknownQuestion  = errors.New("unknown question")
	ErrOptionOutOfRange = errors.New("option index out of range")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrAtBoundary       = errors.New("no question in that direction")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrUnknownAction    = errors.New("unknown action")
)

// RejectedError reports an illegal transition.
type RejectedError struct {
	Action Action
	Phase  Phase
	Err    error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected in %s: %v", e.Action, e.Phase, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

// IsRejected reports whether err is a rejected transition.
func IsRejected(err error) bool {
	var rej *RejectedError
	return errors.As(err, &rej)
}

func reject(s State, a Action, err error) (State, error) {
	return s, &RejectedError{Action: a, Phase: s.Phase, Err: err}
}
