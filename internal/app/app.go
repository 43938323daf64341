package app

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/maturity/internal/quiz"
	"github.com/abhisek/maturity/internal/router"
	"github.com/abhisek/maturity/internal/screen"
	"github.com/abhisek/maturity/internal/screens/email"
	"github.com/abhisek/maturity/internal/screens/landing"
	quizscreen "github.com/abhisek/maturity/internal/screens/quiz"
	"github.com/abhisek/maturity/internal/screens/results"
	"github.com/abhisek/maturity/internal/screens/welcome"
	"github.com/abhisek/maturity/internal/session"
	"github.com/abhisek/maturity/internal/ui/layout"
)

// Options holds the dependencies injected into screens.
type Options struct {
	Store       *session.Store
	Reports     email.Reports
	Commentator results.Commentator

	// SessionID names the current analytics session. It is read each
	// time a page opens because retakes start a new session.
	SessionID func() string

	// LogPath receives log output while the alt-screen is active.
	// Empty discards it.
	LogPath string

	// SkipSplash opens straight onto the current page.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model. The active page follows the
// session state: whenever a dispatch moves the state to another page the
// screen stack is replaced.
type AppModel struct {
	router *router.Router
	opts   Options
	page   quiz.Page
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	m := AppModel{opts: opts, page: quiz.PageFor(opts.Store.State())}
	first := m.screenFor(m.page)
	if !opts.SkipSplash {
		first = welcome.New(func() screen.Screen {
			return m.screenFor(quiz.PageFor(opts.Store.State()))
		})
	}
	m.router = router.New(first)
	return m
}

func (m AppModel) screenFor(p quiz.Page) screen.Screen {
	switch p {
	case quiz.PageQuiz:
		return quizscreen.New(m.opts.Store)
	case quiz.PageEmail:
		id := ""
		if m.opts.SessionID != nil {
			id = m.opts.SessionID()
		}
		return email.New(m.opts.Store, m.opts.Reports, id)
	case quiz.PageResults:
		return results.New(m.opts.Store, m.opts.Commentator)
	default:
		return landing.New(m.opts.Store)
	}
}

func (m AppModel) Init() tea.Cmd {
	if a := m.router.Active(); a != nil {
		return a.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)

	if page := quiz.PageFor(m.opts.Store.State()); page != m.page {
		m.page = page
		cmd = tea.Batch(cmd, m.router.Reset(m.screenFor(page)))
	}
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	var footerHints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = kp.KeyHints()
		}
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
		if m.router.Depth() > 1 {
			footerHints = append([]layout.KeyHint{{Key: "Esc", Description: "Back"}}, footerHints...)
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("app: session store is required")
	}

	restore := redirectLog(opts.LogPath)
	defer restore()

	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

// redirectLog sends the standard logger to path, or discards it, and
// returns a function restoring stderr.
func redirectLog(path string) func() {
	var out io.Writer = io.Discard
	var f *os.File
	if path != "" {
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			out = f
		}
	}
	log.SetOutput(out)
	return func() {
		log.SetOutput(os.Stderr)
		if f != nil {
			f.Close()
		}
	}
}
