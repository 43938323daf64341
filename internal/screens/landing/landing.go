package landing

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/quiz"
	"github.com/abhisek/maturity/internal/screen"
	"github.com/abhisek/maturity/internal/session"
	"github.com/abhisek/maturity/internal/ui/components"
	"github.com/abhisek/maturity/internal/ui/layout"
	"github.com/abhisek/maturity/internal/ui/theme"
)

// secondsPerQuestion drives the time estimate shown to respondents.
const secondsPerQuestion = 15

// LandingScreen introduces the assessment and starts it.
type LandingScreen struct {
	store *session.Store
	menu  components.Menu
	err   string
}

var _ screen.Screen = (*LandingScreen)(nil)
var _ screen.KeyHintProvider = (*LandingScreen)(nil)

// New creates a LandingScreen dispatching to store.
func New(store *session.Store) *LandingScreen {
	l := &LandingScreen{store: store}
	l.menu = components.NewMenu([]components.MenuItem{
		{Label: "Start the assessment", Shortcut: "s", Action: l.start},
		{Label: "Quit", Shortcut: "q", Action: func() tea.Cmd { return tea.Quit }},
	})
	return l
}

func (l *LandingScreen) Init() tea.Cmd {
	return nil
}

func (l *LandingScreen) Title() string {
	return "Experimentation Maturity Assessment"
}

func (l *LandingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "S", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (l *LandingScreen) start() tea.Cmd {
	if err := l.store.Dispatch(quiz.Start{}); err != nil {
		l.err = err.Error()
	}
	return nil
}

func (l *LandingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	l.menu, cmd = l.menu.Update(msg)
	return l, cmd
}

func (l *LandingScreen) View(width, height int) string {
	bank := l.store.Machine().Bank()
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(components.Center(theme.Title.Render(bank.Title()), width))
	b.WriteString("\n\n")

	intro := lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(fmt.Sprintf(
		"Answer %d questions about how your team runs experiments. "+
			"You will get a maturity score for each of four areas, "+
			"a persona describing where you stand and concrete next steps.",
		bank.Len()))
	b.WriteString(components.Center(intro, width))
	b.WriteString("\n\n")

	var cats []string
	for _, c := range questions.AllCategories() {
		cats = append(cats, fmt.Sprintf("%-10s %d questions", c.DisplayName(), bank.CountIn(c)))
	}
	b.WriteString(components.Center(components.TitledCard("What we measure", strings.Join(cats, "\n"), cw), width))
	b.WriteString("\n\n")

	mins := (bank.Len()*secondsPerQuestion + 59) / 60
	b.WriteString(components.Center(theme.Hint.Render(fmt.Sprintf("Takes about %d minutes. Answers cannot be changed once chosen.", mins)), width))
	b.WriteString("\n\n")

	b.WriteString(components.Center(l.menu.View(), width))

	if l.err != "" {
		b.WriteString("\n")
		b.WriteString(components.Center(theme.ErrorText.Render(l.err), width))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
