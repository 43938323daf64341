package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/maturity/internal/ui/theme"
)

// Button is a pressable label. Active means it has focus; a Busy button
// shows BusyLabel and ignores presses.
type Button struct {
	Label     string
	BusyLabel string
	Active    bool
	Busy      bool
	OnPress   func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, active bool, onPress func() tea.Cmd) Button {
	return Button{Label: label, Active: active, OnPress: onPress}
}

// Update presses the focused button on enter or space.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !b.Active || b.Busy || b.OnPress == nil {
		return b, nil
	}
	switch kmsg.String() {
	case "enter", "space", " ":
		return b, b.OnPress()
	}
	return b, nil
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Busy && b.BusyLabel != "" {
		label = b.BusyLabel
	}
	switch {
	case b.Busy:
		return theme.ButtonInactive.Render(theme.Locked.Render(label))
	case b.Active:
		return theme.ButtonActive.Render(theme.Pointer + " " + label)
	default:
		return theme.ButtonInactive.Render(label)
	}
}
