package quiz

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/scoring"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testMachine() *Machine {
	return NewMachine(questions.Canonical(), WithClock(func() time.Time { return fixedNow }))
}

// mustReduce applies a and fails the test on rejection.
func mustReduce(t *testing.T, m *Machine, s State, a Action) State {
	t.Helper()
	next, err := m.Reduce(s, a)
	if err != nil {
		t.Fatalf("%s: unexpected rejection: %v", a, err)
	}
	return next
}

func started(t *testing.T, m *Machine) State {
	t.Helper()
	return mustReduce(t, m, New(), Start{})
}

// completeWith answers every question with the option index and returns
// the completed state.
func completeWith(t *testing.T, m *Machine, option int) State {
	t.Helper()
	s := started(t, m)
	for id := 0; id < m.Bank().Len(); id++ {
		s = mustReduce(t, m, s, Answer{QuestionID: id, Option: option})
	}
	return s
}

func expectRejected(t *testing.T, m *Machine, s State, a Action, reason error) {
	t.Helper()
	next, err := m.Reduce(s, a)
	if err == nil {
		t.Fatalf("%s: expected rejection, got nil", a)
	}
	if !IsRejected(err) {
		t.Fatalf("%s: expected *RejectedError, got %T", a, err)
	}
	if !errors.Is(err, reason) {
		t.Fatalf("%s: expected reason %v, got %v", a, reason, err)
	}
	if !reflect.DeepEqual(next, s) {
		t.Fatalf("%s: rejected action changed state", a)
	}
}

func TestStart_FromNotStarted(t *testing.T) {
	m := testMachine()
	s := started(t, m)

	if s.Phase != PhaseInProgress {
		t.Errorf("expected in_progress, got %s", s.Phase)
	}
	if s.Position != 0 || len(s.Answers) != 0 {
		t.Errorf("expected fresh progress, got pos=%d answers=%d", s.Position, len(s.Answers))
	}
	if !s.StartedAt.Equal(fixedNow) {
		t.Errorf("expected StartedAt %v, got %v", fixedNow, s.StartedAt)
	}
}

func TestStart_TwiceKeepsAnswers(t *testing.T) {
	m := testMachine()
	s := started(t, m)
	s = mustReduce(t, m, s, Answer{QuestionID: 0, Option: 2})

	expectRejected(t, m, s, Start{}, ErrAlreadyStarted)
	if s.Answers[0] != 2 {
		t.Error("answers must survive a second Start")
	}
}

func TestStart_WhenCompleteIsNoop(t *testing.T) {
	m := testMachine()
	s := completeWith(t, m, 1)
	expectRejected(t, m, s, Start{}, ErrAlreadyStarted)
}

func TestAnswer_Records(t *testing.T) {
	m := testMachine()
	s := started(t, m)
	s = mustReduce(t, m, s, Answer{QuestionID: 3, Option: 1})

	if idx, ok := s.Answered(3); !ok || idx != 1 {
		t.Errorf("expected answer 1 for q3, got %d (ok=%v)", idx, ok)
	}
	if s.IsComplete() || s.Scores != nil {
		t.Error("single answer must not complete the quiz")
	}
}

func TestAnswer_DoesNotMutateInput(t *testing.T) {
	m := testMachine()
	s := started(t, m)
	_ = mustReduce(t, m, s, Answer{QuestionID: 0, Option: 0})

	if len(s.Answers) != 0 {
		t.Error("Reduce mutated the input state's answers")
	}
}

func TestAnswer_Rejections(t *testing.T) {
	m := testMachine()
	s := started(t, m)
	answered := mustReduce(t, m, s, Answer{QuestionID: 0, Option: 1})

	tests := []struct {
		name   string
		state  State
		action Answer
		reason error
	}{
		{"not started", New(), Answer{QuestionID: 0, Option: 0}, ErrWrongPhase},
		{"unknown question", s, Answer{QuestionID: 24, Option: 0}, ErrUnknownQuestion},
		{"negative question", s, Answer{QuestionID: -1, Option: 0}, ErrUnknownQuestion},
		{"option seven", s, Answer{QuestionID: 0, Option: 7}, ErrOptionOutOfRange},
		{"negative option", s, Answer{QuestionID: 0, Option: -1}, ErrOptionOutOfRange},
		{"duplicate", answered, Answer{QuestionID: 0, Option: 3}, ErrAlreadyAnswered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectRejected(t, m, tt.state, tt.action, tt.reason)
		})
	}
}

func TestAnswer_DuplicateKeepsFirst(t *testing.T) {
	m := testMachine()
	s := started(t, m)
	s = mustReduce(t, m, s, Answer{QuestionID: 5, Option: 0})
	got, _ := m.Reduce(s, Answer{QuestionID: 5, Option: 3})

	if got.Answers[5] != 0 {
		t.Errorf("first answer should win, got %d", got.Answers[5])
	}
}

func TestAnswer_CompletesExactlyOnLast(t *testing.T) {
	m := testMachine()
	s := started(t, m)
	n := m.Bank().Len()

	// Answer in reverse order so completion is not tied to the last id.
	completions := 0
	for id := n - 1; id >= 0; id-- {
		next := mustReduce(t, m, s, Answer{QuestionID: id, Option: 2})
		if next.IsComplete() && !s.IsComplete() {
			completions++
			if id != 0 {
				t.Fatalf("completed early after answering q%d", id)
			}
		}
		if id != 0 && next.IsComplete() {
			t.Fatalf("complete with %d answers", len(next.Answers))
		}
		s = next
	}

	if completions != 1 {
		t.Fatalf("expected exactly one completion transition, got %d", completions)
	}
	if s.Scores == nil {
		t.Fatal("expected scores on completion")
	}
	want := scoring.Score(s.Answers, m.Bank().All())
	if !reflect.DeepEqual(*s.Scores, want) {
		t.Errorf("scores %+v do not match answers %+v", *s.Scores, want)
	}
	if !s.CompletedAt.Equal(fixedNow) {
		t.Errorf("expected CompletedAt to be set")
	}
}

func TestAnswer_AfterCompleteRejected(t *testing.T) {
	m := testMachine()
	s := completeWith(t, m, 3)
	expectRejected(t, m, s, Answer{QuestionID: 0, Option: 0}, ErrWrongPhase)
}

func TestComplete_ScoreScenarios(t *testing.T) {
	m := testMachine()

	max := completeWith(t, m, 3)
	if max.Scores.Overall != 100 {
		t.Errorf("all max weights: expected 100, got %d", max.Scores.Overall)
	}
	min := completeWith(t, m, 0)
	if min.Scores.Overall != 25 {
		t.Errorf("all min weights: expected 25, got %d", min.Scores.Overall)
	}
	for _, c := range questions.AllCategories() {
		if max.Scores.Categories[c] != 100 || min.Scores.Categories[c] != 25 {
			t.Errorf("%s: max=%d min=%d", c, max.Scores.Categories[c], min.Scores.Categories[c])
		}
	}
}

func TestNextPrevious_Bounds(t *testing.T) {
	m := testMachine()
	s := started(t, m)
	n := m.Bank().Len()

	expectRejected(t, m, s, Previous{}, ErrAtBoundary)

	for i := 0; i < n-1; i++ {
		s = mustReduce(t, m, s, Next{})
	}
	if s.Position != n-1 {
		t.Fatalf("expected position %d, got %d", n-1, s.Position)
	}
	expectRejected(t, m, s, Next{}, ErrAtBoundary)

	s = mustReduce(t, m, s, Previous{})
	if s.Position != n-2 {
		t.Errorf("expected position %d after previous, got %d", n-2, s.Position)
	}
}

func TestNext_DoesNotRequireAnswer(t *testing.T) {
	m := testMachine()
	s := started(t, m)
	s = mustReduce(t, m, s, Next{})
	if s.Position != 1 {
		t.Errorf("expected position 1, got %d", s.Position)
	}
}

func TestNext_NotInProgress(t *testing.T) {
	m := testMachine()
	expectRejected(t, m, New(), Next{}, ErrWrongPhase)
	expectRejected(t, m, completeWith(t, m, 1), Next{}, ErrWrongPhase)
}

func TestSubmitEmail(t *testing.T) {
	m := testMachine()
	s := completeWith(t, m, 2)
	s = mustReduce(t, m, s, SubmitEmail{Email: "  ada@example.com ", User: UserData{Name: " Ada Lovelace ", Company: "Engines"}})

	if s.Email != "ada@example.com" {
		t.Errorf("unexpected email %q", s.Email)
	}
	if s.User == nil || s.User.Name != "Ada Lovelace" || s.User.Company != "Engines" {
		t.Errorf("unexpected user data %+v", s.User)
	}
	if !s.EmailHandled || !s.IsComplete() {
		t.Error("submit must mark email handled and keep completion")
	}
	if PageFor(s) != PageResults {
		t.Errorf("expected results page, got %s", PageFor(s))
	}
}

func TestSubmitEmail_Rejections(t *testing.T) {
	m := testMachine()
	expectRejected(t, m, started(t, m), SubmitEmail{Email: "a@b.co"}, ErrWrongPhase)

	done := completeWith(t, m, 2)
	for _, bad := range []string{"", "not-an-email", "Ann <ann@example.com>", "ann@localhost"} {
		expectRejected(t, m, done, SubmitEmail{Email: bad}, ErrInvalidEmail)
	}
}

func TestSkipEmail(t *testing.T) {
	m := testMachine()
	s := completeWith(t, m, 2)
	if PageFor(s) != PageEmail {
		t.Fatalf("expected email page after completion, got %s", PageFor(s))
	}
	s = mustReduce(t, m, s, SkipEmail{})

	if s.Email != "" || s.User != nil {
		t.Error("skip must leave identity empty")
	}
	if PageFor(s) != PageResults {
		t.Errorf("expected results page, got %s", PageFor(s))
	}
	expectRejected(t, m, New(), SkipEmail{}, ErrWrongPhase)
}

func TestReset_FromAnyPhase(t *testing.T) {
	m := testMachine()
	for _, s := range []State{New(), started(t, m), completeWith(t, m, 1)} {
		got := mustReduce(t, m, s, Reset{})
		if !reflect.DeepEqual(got, New()) {
			t.Errorf("reset from %s: got %+v", s.Phase, got)
		}
	}
}

func TestPageFor(t *testing.T) {
	m := testMachine()
	if PageFor(New()) != PageLanding {
		t.Error("new state should render landing")
	}
	if PageFor(started(t, m)) != PageQuiz {
		t.Error("started state should render quiz")
	}
}

func TestClone_IsDeep(t *testing.T) {
	m := testMachine()
	s := completeWith(t, m, 1)
	s = mustReduce(t, m, s, SubmitEmail{Email: "x@y.io", User: UserData{Name: "X"}})

	c := s.Clone()
	c.Answers[0] = 3
	c.Scores.Categories[questions.Process] = 0
	c.User.Name = "changed"

	if s.Answers[0] != 1 || s.Scores.Categories[questions.Process] == 0 || s.User.Name != "X" {
		t.Error("Clone shares mutable data with the original")
	}
}
