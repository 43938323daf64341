package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/maturity/internal/ui/layout"
)

// Screen is one page of the assessment.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status string on
// the right of the header, such as quiz progress.
type StatusProvider interface {
	Status() string
}

// NoticeMsg carries a one-line message for whichever screen is active
// when it arrives, e.g. where a report was saved.
type NoticeMsg struct {
	Text string
}
