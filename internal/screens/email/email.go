package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/maturity/internal/quiz"
	"github.com/abhisek/maturity/internal/report"
	"github.com/abhisek/maturity/internal/screen"
	"github.com/abhisek/maturity/internal/session"
	"github.com/abhisek/maturity/internal/ui/components"
	"github.com/abhisek/maturity/internal/ui/layout"
	"github.com/abhisek/maturity/internal/ui/theme"
)

// DefaultReportTimeout bounds PDF generation from this screen.
const DefaultReportTimeout = 45 * time.Second

// Reports renders the PDF for a submitted email.
type Reports interface {
	Generate(ctx context.Context, b report.Bundle) (*report.Document, string, error)
}

const (
	fieldEmail = iota
	fieldName
	fieldCompany
	buttonSubmit
	buttonSkip

	focusCount = buttonSkip + 1
)

// reportDoneMsg is sent when PDF generation finishes.
type reportDoneMsg struct {
	Email string
	User  quiz.UserData
	Path  string
	Err   error
}

// EmailScreen collects an optional email address and identity after the
// last answer. Submitting renders the PDF report; skipping goes straight
// to results.
type EmailScreen struct {
	store     *session.Store
	reports   Reports
	sessionID string
	timeout   time.Duration

	inputs  []components.TextInput
	buttons []components.Button
	focus   int
	busy    bool
	err     string
}

var _ screen.Screen = (*EmailScreen)(nil)
var _ screen.KeyHintProvider = (*EmailScreen)(nil)

// New creates an EmailScreen. reports may be nil, in which case submitting
// records the email without producing a PDF.
func New(store *session.Store, reports Reports, sessionID string) *EmailScreen {
	s := &EmailScreen{
		store:     store,
		reports:   reports,
		sessionID: sessionID,
		timeout:   DefaultReportTimeout,
		inputs: []components.TextInput{
			components.NewTextInput("Work email", "you@company.com", 254),
			components.NewTextInput("Name (optional)", "Ada Lovelace", 120),
			components.NewTextInput("Company (optional)", "Acme Inc.", 120),
		},
	}
	s.buttons = []components.Button{
		components.NewButton("Send my report", false, s.submit),
		components.NewButton("Skip", false, s.skip),
	}
	s.buttons[0].BusyLabel = "Generating..."
	return s
}

func (s *EmailScreen) Init() tea.Cmd {
	return s.setFocus(fieldEmail)
}

func (s *EmailScreen) Title() string {
	return "Get your report"
}

func (s *EmailScreen) KeyHints() []layout.KeyHint {
	if s.busy {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+S", Description: "Skip"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *EmailScreen) setFocus(i int) tea.Cmd {
	s.focus = (i + focusCount) % focusCount
	var cmd tea.Cmd
	for j := range s.inputs {
		if j == s.focus {
			cmd = s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
	for j := range s.buttons {
		s.buttons[j].Active = len(s.inputs)+j == s.focus
	}
	return cmd
}

func (s *EmailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportDoneMsg:
		return s, s.handleReport(msg)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "ctrl+s":
			return s, s.skip()
		case "tab", "down":
			return s, s.setFocus(s.focus + 1)
		case "shift+tab", "up":
			return s, s.setFocus(s.focus - 1)
		case "enter":
			if s.focus < len(s.inputs) {
				return s, s.submit()
			}
		}
	}

	var cmd tea.Cmd
	if s.focus < len(s.inputs) {
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	} else {
		i := s.focus - len(s.inputs)
		s.buttons[i], cmd = s.buttons[i].Update(msg)
	}
	return s, cmd
}

func (s *EmailScreen) skip() tea.Cmd {
	if err := s.store.Dispatch(quiz.SkipEmail{}); err != nil {
		s.err = err.Error()
	}
	return nil
}

func (s *EmailScreen) submit() tea.Cmd {
	s.err = ""
	addr, err := quiz.NormalizeEmail(s.inputs[fieldEmail].Value())
	if err != nil {
		s.inputs[fieldEmail].SetError("Please enter a valid email address.")
		return s.setFocus(fieldEmail)
	}
	user := quiz.UserData{
		Name:    strings.TrimSpace(s.inputs[fieldName].Value()),
		Company: strings.TrimSpace(s.inputs[fieldCompany].Value()),
	}

	if s.reports == nil {
		return s.handleReport(reportDoneMsg{Email: addr, User: user})
	}

	b, err := report.NewBundle(s.sessionID, s.store.State())
	if err != nil {
		s.err = err.Error()
		return nil
	}
	b.Email = addr
	if user != (quiz.UserData{}) {
		b.User = &user
	}

	s.busy = true
	reports, timeout := s.reports, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, path, err := reports.Generate(ctx, b)
		return reportDoneMsg{Email: addr, User: user, Path: path, Err: err}
	}
}

// handleReport records the email once the PDF exists. On failure the
// respondent stays here and may retry or skip.
func (s *EmailScreen) handleReport(msg reportDoneMsg) tea.Cmd {
	s.busy = false
	if msg.Err != nil {
		s.err = reportError(msg.Err)
		return nil
	}
	if err := s.store.Dispatch(quiz.SubmitEmail{Email: msg.Email, User: msg.User}); err != nil {
		s.err = err.Error()
		return nil
	}
	if msg.Path == "" {
		return nil
	}
	notice := screen.NoticeMsg{Text: "Report saved to " + msg.Path}
	return func() tea.Msg { return notice }
}

func reportError(err error) string {
	switch {
	case errors.Is(err, report.ErrPDFDependencyMissing):
		return "PDF generation needs Chrome or Chromium installed. Press Enter to retry or Ctrl+S to skip."
	case errors.Is(err, context.DeadlineExceeded):
		return "PDF generation timed out. Press Enter to retry or Ctrl+S to skip."
	default:
		return fmt.Sprintf("Failed to generate your report (%v). Press Enter to retry or Ctrl+S to skip.", err)
	}
}

func (s *EmailScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(components.Center(theme.Title.Render("Your results are ready"), width))
	b.WriteString("\n\n")
	intro := lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(
		"Enter your email to get a PDF copy of your maturity report. " +
			"You can also skip this step and go straight to your results.")
	b.WriteString(components.Center(intro, width))
	b.WriteString("\n\n")

	fields := make([]string, len(s.inputs))
	for i, in := range s.inputs {
		fields[i] = in.View()
	}
	b.WriteString(components.Center(components.Card(strings.Join(fields, "\n\n"), cw), width))
	b.WriteString("\n\n")

	s.buttons[0].Busy = s.busy
	b.WriteString(components.Center(lipgloss.JoinHorizontal(lipgloss.Center,
		s.buttons[0].View(), "   ", s.buttons[1].View()), width))
	b.WriteString("\n\n")

	switch {
	case s.busy:
		b.WriteString(components.Center(theme.Hint.Render("Generating your report..."), width))
	case s.err != "":
		msg := theme.ErrorText.Width(cw).Render(s.err)
		b.WriteString(components.Center(msg, width))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
