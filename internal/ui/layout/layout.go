// Package layout draws the frame around every screen: a header bar with
// the brand, screen title and status, and a footer listing key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/maturity/internal/ui/theme"
)

// Smallest terminal the assessment renders in. Question cards are up to
// 72 columns wide plus padding.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

var (
	barStyle = lipgloss.NewStyle().
			Background(theme.BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1)

	brandStyle  = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(theme.Text)
	statusStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	keyStyle    = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("Terminal too small.\n\nNeeds %d x %d, have %d x %d.", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(body))
}

// RenderHeader renders the header bar. The title is centred across the
// whole bar; status sits on the right and may be empty.
func RenderHeader(title, status string, width int) string {
	inner := max(width-barStyle.GetHorizontalFrameSize(), 0)

	brand := brandStyle.Render("Maturity")
	right := statusStyle.Render(status)
	mid := titleStyle.Render(title)

	// Centre the title, then let brand and status overwrite the margins
	// only as far as they need.
	lead := max((inner-lipgloss.Width(mid))/2-lipgloss.Width(brand), 1)
	trail := max(inner-lipgloss.Width(brand)-lead-lipgloss.Width(mid)-lipgloss.Width(right), 1)
	line := brand + strings.Repeat(" ", lead) + mid + strings.Repeat(" ", trail) + right

	return barStyle.Width(width).Render(line)
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	var b strings.Builder
	for i, h := range hints {
		if i > 0 {
			b.WriteString(descStyle.Render("  ·  "))
		}
		b.WriteString(keyStyle.Render(h.Key))
		b.WriteByte(' ')
		b.WriteString(descStyle.Render(h.Description))
	}
	return barStyle.Width(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, padding content so the
// footer stays on the last rows.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content),
		footer,
	)
}
