package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/maturity/internal/ui/theme"
)

// MenuItem is one row of a Menu. Shortcut, when set, activates the item
// from anywhere in the menu.
type MenuItem struct {
	Label    string
	Shortcut string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.step(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// step moves the selection to the next enabled item in direction dir,
// staying put at either end.
func (m *Menu) step(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	if it := m.Items[i]; !it.Disabled && it.Action != nil {
		return it.Action()
	}
	return nil
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := kmsg.String(); k {
	case "up", "k":
		m.step(-1)
	case "down", "j":
		m.step(1)
	case "enter":
		return m, m.activate(m.Selected)
	default:
		for i, it := range m.Items {
			if it.Shortcut != "" && it.Shortcut == k {
				m.Selected = i
				return m, m.activate(i)
			}
		}
	}
	return m, nil
}

// View renders the menu, one item per line.
func (m Menu) View() string {
	lines := make([]string, len(m.Items))
	for i, it := range m.Items {
		label := it.Label
		if it.Shortcut != "" {
			label += theme.Hint.Render(" (" + it.Shortcut + ")")
		}
		switch {
		case it.Disabled:
			lines[i] = theme.Locked.Render("    " + it.Label)
		case i == m.Selected:
			lines[i] = theme.Selected.Render("  "+theme.Pointer+" ") + label
		default:
			lines[i] = theme.Unselected.Render("    ") + label
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
