package quiz

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/maturity/internal/questions"
	qz "github.com/abhisek/maturity/internal/quiz"
	"github.com/abhisek/maturity/internal/session"
)

func startedStore(t *testing.T) *session.Store {
	t.Helper()
	st := session.New(context.Background(), qz.NewMachine(questions.Canonical()), nil)
	if err := st.Dispatch(qz.Start{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	return st
}

func press(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}

func TestQuizScreen_AnswerAdvances(t *testing.T) {
	st := startedStore(t)
	s := New(st)

	s.Update(press("down"))
	s.Update(press("enter"))

	state := st.State()
	if idx, ok := state.Answered(0); !ok || idx != 1 {
		t.Errorf("answer for q0 = %d, %v; want 1, true", idx, ok)
	}
	if state.Position != 1 || s.position != 1 {
		t.Errorf("position = %d (screen %d), want 1", state.Position, s.position)
	}
}

func TestQuizScreen_DigitAnswers(t *testing.T) {
	st := startedStore(t)
	s := New(st)

	s.Update(press("4"))

	if idx, _ := st.State().Answered(0); idx != 3 {
		t.Errorf("answer for q0 = %d, want 3", idx)
	}
}

func TestQuizScreen_BackShowsLockedAnswer(t *testing.T) {
	st := startedStore(t)
	s := New(st)
	s.Update(press("2"))
	s.Update(press("left"))

	if s.position != 0 {
		t.Fatalf("position = %d, want 0", s.position)
	}
	if !s.choice.Locked() || s.choice.Chosen != 1 {
		t.Errorf("expected locked choice 1, got locked=%v chosen=%d", s.choice.Locked(), s.choice.Chosen)
	}

	// First answer wins: pressing another digit changes nothing.
	s.Update(press("3"))
	if idx, _ := st.State().Answered(0); idx != 1 {
		t.Errorf("answer for q0 = %d, want 1", idx)
	}
}

func TestQuizScreen_BoundaryNotice(t *testing.T) {
	s := New(startedStore(t))
	s.Update(press("left"))
	if s.notice == "" {
		t.Error("expected a notice at the first question")
	}
}

func TestQuizScreen_NextWithoutAnswer(t *testing.T) {
	st := startedStore(t)
	s := New(st)
	s.Update(press("right"))

	if st.State().Position != 1 {
		t.Errorf("position = %d, want 1", st.State().Position)
	}
	if len(st.State().Answers) != 0 {
		t.Error("next should not record an answer")
	}
}

func TestQuizScreen_CompletesOnLastAnswer(t *testing.T) {
	st := startedStore(t)
	s := New(st)
	n := questions.Canonical().Len()

	for i := 0; i < n; i++ {
		s.Update(press("4"))
	}

	state := st.State()
	if !state.IsComplete() {
		t.Fatalf("expected complete after %d answers, phase %v", n, state.Phase)
	}
	if state.Scores.Overall != 100 {
		t.Errorf("overall = %d, want 100", state.Scores.Overall)
	}
	if qz.PageFor(state) != qz.PageEmail {
		t.Errorf("page = %v, want email", qz.PageFor(state))
	}
}

func TestQuizScreen_SkippedQuestionReported(t *testing.T) {
	st := startedStore(t)
	s := New(st)
	n := questions.Canonical().Len()

	s.Update(press("right"))
	for i := 1; i < n; i++ {
		s.Update(press("1"))
	}

	if st.State().IsComplete() {
		t.Fatal("should not complete with a question skipped")
	}
	if !strings.Contains(s.notice, "1 unanswered question left") {
		t.Errorf("notice = %q", s.notice)
	}
}

func TestQuizScreen_StatusAndHints(t *testing.T) {
	s := New(startedStore(t))
	if s.Status() != "Question 1 of 24" {
		t.Errorf("Status = %q", s.Status())
	}
	if len(s.KeyHints()) != 4 {
		t.Errorf("KeyHints length = %d, want 4", len(s.KeyHints()))
	}
	s.Update(press("1"))
	s.Update(press("left"))
	if len(s.KeyHints()) != 2 {
		t.Errorf("KeyHints on answered question = %d, want 2", len(s.KeyHints()))
	}
}

func TestQuizScreen_ViewShowsQuestion(t *testing.T) {
	st := startedStore(t)
	q, _ := st.Machine().Bank().ByID(0)
	view := New(st).View(100, 40)
	if !strings.Contains(view, "0/24 answered") {
		t.Error("expected progress in view")
	}
	if !strings.Contains(view, strings.ToUpper(q.Category.DisplayName())) {
		t.Error("expected category tag in view")
	}
}
