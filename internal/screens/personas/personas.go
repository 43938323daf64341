package personas

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/maturity/internal/persona"
	"github.com/abhisek/maturity/internal/router"
	"github.com/abhisek/maturity/internal/screen"
	"github.com/abhisek/maturity/internal/ui/components"
	"github.com/abhisek/maturity/internal/ui/layout"
	"github.com/abhisek/maturity/internal/ui/theme"
)

// PersonasScreen lists every persona with its score band.
type PersonasScreen struct {
	current persona.Tier
}

var _ screen.Screen = (*PersonasScreen)(nil)
var _ screen.KeyHintProvider = (*PersonasScreen)(nil)

// New creates a list highlighting the respondent's tier.
func New(current persona.Tier) *PersonasScreen {
	return &PersonasScreen{current: current}
}

func (s *PersonasScreen) Init() tea.Cmd {
	return nil
}

func (s *PersonasScreen) Title() string {
	return "Maturity personas"
}

func (s *PersonasScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *PersonasScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "q", "p":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *PersonasScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var rows []string
	for _, p := range persona.All() {
		lo, hi := p.Tier.Range()
		head := fmt.Sprintf("%3d-%3d%%  %s", lo, hi, p.Title)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if p.Tier == s.current {
			head = theme.Pointer + " " + head + "  (you)"
			style = theme.Selected
		} else {
			head = "  " + head
		}
		desc := lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw - 10).PaddingLeft(4).Render(p.Description)
		rows = append(rows, style.Render(head)+"\n"+desc)
	}
	content := components.Card(strings.Join(rows, "\n\n"), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
