package results

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/maturity/internal/insight"
	"github.com/abhisek/maturity/internal/persona"
	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/quiz"
	"github.com/abhisek/maturity/internal/router"
	"github.com/abhisek/maturity/internal/scoring"
	"github.com/abhisek/maturity/internal/screen"
	"github.com/abhisek/maturity/internal/screens/personas"
	"github.com/abhisek/maturity/internal/session"
	"github.com/abhisek/maturity/internal/ui/components"
	"github.com/abhisek/maturity/internal/ui/layout"
	"github.com/abhisek/maturity/internal/ui/theme"
)

// Commentator writes optional AI commentary for a result.
type Commentator interface {
	Enabled() bool
	Generate(ctx context.Context, r scoring.Result) (*insight.Commentary, error)
}

// commentaryMsg is sent when the commentary request finishes.
type commentaryMsg struct {
	Commentary *insight.Commentary
	Err        error
}

// ShareText is the line respondents can paste elsewhere.
func ShareText(overall int) string {
	return fmt.Sprintf("I just completed the Experimentation Maturity Assessment and scored %d%%!", overall)
}

// radarMinWidth is the narrowest frame that fits radar and bars side by side.
const radarMinWidth = 100

// ResultsScreen shows the persona, category breakdown and recommendations.
type ResultsScreen struct {
	store       *session.Store
	commentator Commentator
	result      scoring.Result
	persona     persona.Persona

	loading    bool
	commentary *insight.Commentary
	notice     string
	offset     int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.StatusProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for the store's completed state.
// commentator may be nil.
func New(store *session.Store, commentator Commentator) *ResultsScreen {
	s := &ResultsScreen{store: store, commentator: commentator}
	if sc := store.State().Scores; sc != nil {
		s.result = *sc
	}
	s.persona = persona.Resolve(s.result.Overall)
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	if s.commentator == nil || !s.commentator.Enabled() {
		return nil
	}
	s.loading = true
	c, r := s.commentator, s.result
	return func() tea.Msg {
		out, err := c.Generate(context.Background(), r)
		return commentaryMsg{Commentary: out, Err: err}
	}
}

func (s *ResultsScreen) Title() string {
	return "Your results"
}

func (s *ResultsScreen) Status() string {
	return fmt.Sprintf("%d%% · %s", s.result.Overall, s.persona.Title)
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "P", Description: "All personas"},
		{Key: "R", Description: "Retake"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case commentaryMsg:
		s.loading = false
		if msg.Err == nil {
			s.commentary = msg.Commentary
		}
		return s, nil

	case screen.NoticeMsg:
		s.notice = msg.Text
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		case "home", "g":
			s.offset = 0
		case "p":
			list := personas.New(s.persona.Tier)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: list} }
		case "r":
			// The app swaps to the landing page once the state resets.
			if err := s.store.Dispatch(quiz.Reset{}); err != nil {
				s.notice = err.Error()
			}
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	lines := strings.Split(s.render(width), "\n")
	maxOffset := max(len(lines)-height, 0)
	s.offset = min(s.offset, maxOffset)
	end := min(s.offset+height, len(lines))
	return strings.Join(lines[s.offset:end], "\n")
}

func (s *ResultsScreen) render(width int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder
	section := func(str string) {
		b.WriteString(components.Center(str, width))
		b.WriteString("\n\n")
	}

	section(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Your overall maturity"))
	section(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("%d%%  %s", s.result.Overall, s.persona.Title)))
	section(lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(s.persona.Description))

	radar := components.NewRadar(s.result.Categories, 5).View()
	bars := s.renderBars(min(cw, 48))
	if width >= radarMinWidth {
		section(lipgloss.JoinHorizontal(lipgloss.Center, radar, "    ", bars))
	} else {
		section(radar)
		section(bars)
	}

	if panel := s.renderCommentary(cw); panel != "" {
		section(panel)
	}

	section(components.TitledCard("Category breakdown", s.renderInsights(cw-6), cw))
	section(components.TitledCard("Recommended next steps", s.renderRecommendations(cw-6), cw))

	section(theme.Hint.Render("Share: " + ShareText(s.result.Overall)))
	if s.notice != "" {
		section(lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ResultsScreen) renderBars(w int) string {
	var rows []string
	for _, c := range questions.AllCategories() {
		rows = append(rows, components.NewScoreBar(c.DisplayName(), s.result.Categories[c], 9, w).View())
	}
	return strings.Join(rows, "\n\n")
}

func (s *ResultsScreen) renderInsights(w int) string {
	var parts []string
	for _, c := range questions.AllCategories() {
		pct := s.result.Categories[c]
		level := scoring.LevelFor(pct)
		head := lipgloss.NewStyle().Foreground(components.LevelColor(level)).Bold(true).
			Render(fmt.Sprintf("%s · %d%% · %s", c.DisplayName(), pct, level))
		body := lipgloss.NewStyle().Foreground(theme.Text).Width(w).
			Render(persona.CategoryInsight(c, pct))
		parts = append(parts, head+"\n"+body)
	}
	return strings.Join(parts, "\n\n")
}

func (s *ResultsScreen) renderRecommendations(w int) string {
	var parts []string
	for i, r := range s.persona.Recommendations {
		head := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
			Render(fmt.Sprintf("%d. %s", i+1, r.Title))
		tag := lipgloss.NewStyle().Foreground(theme.TextDim).Render(" (" + r.Category.DisplayName() + ")")
		body := lipgloss.NewStyle().Foreground(theme.TextDim).Width(w).Render(r.Description)
		parts = append(parts, head+tag+"\n"+body)
	}
	return strings.Join(parts, "\n\n")
}

// renderCommentary returns "" when there is nothing to show, including
// after a failed request.
func (s *ResultsScreen) renderCommentary(cw int) string {
	if s.loading {
		return theme.Hint.Render("Writing your AI commentary...")
	}
	c := s.commentary
	if c == nil {
		return ""
	}
	body := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Headline) +
		"\n" + lipgloss.NewStyle().Foreground(theme.Text).Width(cw-6).Render(c.Summary)
	if len(c.Focus) > 0 {
		names := make([]string, len(c.Focus))
		for i, f := range c.Focus {
			names[i] = f.DisplayName()
		}
		body += "\n\n" + theme.Hint.Render("Focus on: "+strings.Join(names, ", "))
	}
	return components.TitledCard("AI commentary", body, cw)
}
