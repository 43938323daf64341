package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/maturity/internal/scoring"
	"github.com/abhisek/maturity/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a 0..100 value.
type ProgressBar struct {
	Label       string
	LabelWidth  int
	Percent     int
	ShowPercent bool
	Width       int
	Fill        color.Color
}

// NewProgressBar creates a new progress bar filled with the secondary color.
func NewProgressBar(label string, percent int, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
		Fill:        theme.Secondary,
	}
}

// NewScoreBar creates a labelled bar colored by the maturity level of pct.
func NewScoreBar(label string, pct, labelWidth, width int) ProgressBar {
	p := NewProgressBar(label, pct, true, width)
	p.LabelWidth = labelWidth
	p.Fill = LevelColor(scoring.LevelFor(pct))
	return p
}

// percentWidth is the width of the "  100%" suffix.
const percentWidth = 6

// View renders the bar as label, fill and an optional percentage.
func (p ProgressBar) View() string {
	var label string
	if p.Label != "" {
		st := lipgloss.NewStyle().Foreground(theme.Text)
		if p.LabelWidth > 0 {
			st = st.Width(p.LabelWidth)
		}
		label = st.Render(p.Label) + "  "
	}

	bar := p.Width - lipgloss.Width(label)
	if p.ShowPercent {
		bar -= percentWidth
	}
	bar = max(bar, 4)

	pct := scoring.Clamp(p.Percent)
	filled := bar * pct / 100

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	out := label +
		lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", bar-filled))
	if p.ShowPercent {
		out += theme.Hint.UnsetItalic().Render(fmt.Sprintf("  %3d%%", pct))
	}
	return out
}

// LevelColor returns the theme color for a maturity level.
func LevelColor(l scoring.Level) color.Color {
	switch l {
	case scoring.LevelHigh:
		return theme.Success
	case scoring.LevelMedium:
		return theme.Warning
	default:
		return theme.Error
	}
}
