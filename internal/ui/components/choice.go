package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/maturity/internal/ui/theme"
)

// Choice is a single-answer option list. Once an option is chosen the
// list is locked and further keys are ignored.
type Choice struct {
	Options []string
	Cursor  int

	// Chosen is the picked option index, -1 until a choice is made.
	Chosen int
}

// NewChoice creates an open option list.
func NewChoice(options []string) Choice {
	return Choice{Options: options, Chosen: -1}
}

// NewLockedChoice creates a list that already has an answer.
func NewLockedChoice(options []string, chosen int) Choice {
	return Choice{Options: options, Cursor: chosen, Chosen: chosen}
}

// Locked reports whether an option has been chosen.
func (c Choice) Locked() bool {
	return c.Chosen >= 0
}

// Update moves the cursor, or chooses on enter or a digit key. The
// second result is true on the message that made the choice.
func (c Choice) Update(msg tea.Msg) (Choice, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || c.Locked() {
		return c, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "enter", "space":
		c.Chosen = c.Cursor
		return c, true
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(c.Options) {
			c.Cursor = int(key[0] - '1')
			c.Chosen = c.Cursor
			return c, true
		}
	}
	return c, false
}

// View renders the options, wrapping labels to width.
func (c Choice) View(width int) string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor && !c.Locked() {
			prefix = theme.Pointer + " "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		style := theme.Unselected
		switch {
		case c.Locked() && i == c.Chosen:
			style = theme.Chosen
		case c.Locked():
			style = theme.Locked
		case i == c.Cursor:
			style = theme.Selected
		}
		if width > 0 {
			style = style.Width(width)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
