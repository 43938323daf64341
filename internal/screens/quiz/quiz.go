package quiz

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/maturity/internal/questions"
	qz "github.com/abhisek/maturity/internal/quiz"
	"github.com/abhisek/maturity/internal/screen"
	"github.com/abhisek/maturity/internal/session"
	"github.com/abhisek/maturity/internal/ui/components"
	"github.com/abhisek/maturity/internal/ui/layout"
	"github.com/abhisek/maturity/internal/ui/theme"
)

// QuizScreen shows one question at a time.
type QuizScreen struct {
	store    *session.Store
	bank     *questions.Bank
	position int
	choice   components.Choice
	notice   string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a QuizScreen for the store's current position.
func New(store *session.Store) *QuizScreen {
	s := &QuizScreen{store: store, bank: store.Machine().Bank()}
	s.sync()
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	q, err := s.bank.ByID(s.position)
	if err != nil {
		return "Assessment"
	}
	return q.Category.DisplayName()
}

func (s *QuizScreen) Status() string {
	return fmt.Sprintf("Question %d of %d", s.position+1, s.bank.Len())
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	if !s.choice.Locked() {
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Choose"},
			layout.KeyHint{Key: "Enter/1-4", Description: "Answer"},
		)
	}
	return append(hints,
		layout.KeyHint{Key: "←→", Description: "Previous/Next"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

// sync rebuilds the option list from the store's state.
func (s *QuizScreen) sync() {
	st := s.store.State()
	s.position = st.Position
	q, err := s.bank.ByID(st.Position)
	if err != nil {
		s.choice = components.NewChoice(nil)
		return
	}
	labels := make([]string, len(q.Options))
	for i, o := range q.Options {
		labels[i] = o.Label
	}
	if idx, ok := st.Answered(q.ID); ok {
		s.choice = components.NewLockedChoice(labels, idx)
	} else {
		s.choice = components.NewChoice(labels)
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "h", "p":
		s.move(qz.Previous{})
		return s, nil
	case "right", "l", "n", "tab":
		s.move(qz.Next{})
		return s, nil
	}

	var chose bool
	s.choice, chose = s.choice.Update(msg)
	if chose {
		s.answer(s.choice.Chosen)
	}
	return s, nil
}

func (s *QuizScreen) move(a qz.Action) {
	s.notice = ""
	if err := s.store.Dispatch(a); err != nil {
		if errors.Is(err, qz.ErrAtBoundary) {
			s.notice = "No more questions in that direction."
		} else {
			s.notice = err.Error()
		}
	}
	s.sync()
}

// answer records the choice and moves on to the next question.
func (s *QuizScreen) answer(option int) {
	s.notice = ""
	if err := s.store.Dispatch(qz.Answer{QuestionID: s.position, Option: option}); err != nil {
		s.notice = err.Error()
		s.sync()
		return
	}

	st := s.store.State()
	if st.IsComplete() {
		return
	}
	if st.Position < s.bank.Len()-1 {
		s.move(qz.Next{})
		return
	}
	s.sync()
	left := s.bank.Len() - len(st.Answers)
	s.notice = fmt.Sprintf("%d unanswered %s left. Use ← to go back.", left, plural(left, "question", "questions"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (s *QuizScreen) View(width, height int) string {
	q, err := s.bank.ByID(s.position)
	if err != nil {
		return theme.ErrorText.Render(err.Error())
	}
	st := s.store.State()
	cw := components.ContentWidth(width)

	var b strings.Builder

	tag := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(strings.ToUpper(q.Category.DisplayName()))
	b.WriteString(components.Center(tag, width))
	b.WriteString("\n\n")

	text := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw).
		Render(q.Text)
	b.WriteString(components.Center(text, width))
	b.WriteString("\n\n")

	b.WriteString(components.Center(components.Card(s.choice.View(cw-6), cw), width))
	b.WriteString("\n\n")

	if s.choice.Locked() {
		b.WriteString(components.Center(theme.Hint.Render("Answered. Answers cannot be changed."), width))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString(components.Center(lipgloss.NewStyle().Foreground(theme.Warning).Render(s.notice), width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	answered := len(st.Answers)
	pct := answered * 100 / max(s.bank.Len(), 1)
	bar := components.NewProgressBar(fmt.Sprintf("%d/%d answered", answered, s.bank.Len()), pct, false, cw)
	b.WriteString(components.Center(bar.View(), width))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
