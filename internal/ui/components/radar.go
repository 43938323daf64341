package components

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/scoring"
	"github.com/abhisek/maturity/internal/ui/theme"
)

// Radar is a four-axis chart of category percentages drawn with text
// cells. Axes run clockwise from the top in questions.AllCategories order.
type Radar struct {
	Scores map[questions.Category]int
	Radius int
}

// NewRadar creates a radar chart. Radius is in rows; columns are doubled
// so the chart looks square in a terminal.
func NewRadar(scores map[questions.Category]int, radius int) Radar {
	if radius < 2 {
		radius = 2
	}
	return Radar{Scores: scores, Radius: radius}
}

// axis unit vectors in (col, row) order: up, right, down, left.
var axes = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

type cell int

const (
	cellEmpty cell = iota
	cellGuide
	cellEdge
	cellVertex
)

// grid returns the chart as rows of cells, without labels.
func (r Radar) grid() [][]cell {
	h, w := 2*r.Radius+1, 4*r.Radius+1
	cx, cy := 2*r.Radius, r.Radius
	g := make([][]cell, h)
	for i := range g {
		g[i] = make([]cell, w)
	}
	set := func(x, y int, c cell) {
		if y >= 0 && y < h && x >= 0 && x < w && g[y][x] < c {
			g[y][x] = c
		}
	}

	point := func(i int, frac float64) (int, int) {
		d := frac * float64(r.Radius)
		x := cx + int(math.Round(2*d*float64(axes[i][0])))
		y := cy + int(math.Round(d*float64(axes[i][1])))
		return x, y
	}
	line := func(x0, y0, x1, y1 int, c cell) {
		steps := max(abs(x1-x0), abs(y1-y0), 1)
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			set(int(math.Round(float64(x0)+t*float64(x1-x0))),
				int(math.Round(float64(y0)+t*float64(y1-y0))), c)
		}
	}

	// Outer diamond and axes.
	for i := range axes {
		x0, y0 := point(i, 1)
		x1, y1 := point((i+1)%4, 1)
		line(x0, y0, x1, y1, cellGuide)
		line(cx, cy, x0, y0, cellGuide)
	}

	cats := questions.AllCategories()
	frac := func(i int) float64 {
		return float64(scoring.Clamp(r.Scores[cats[i]])) / 100
	}
	for i := range axes {
		x0, y0 := point(i, frac(i))
		x1, y1 := point((i+1)%4, frac((i+1)%4))
		line(x0, y0, x1, y1, cellEdge)
	}
	for i := range axes {
		x, y := point(i, frac(i))
		set(x, y, cellVertex)
	}
	return g
}

// View renders the chart with category labels around it.
func (r Radar) View() string {
	guide := lipgloss.NewStyle().Foreground(theme.Border)
	edge := lipgloss.NewStyle().Foreground(theme.Secondary)
	vertex := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	g := r.grid()
	rows := make([]string, len(g))
	for y, row := range g {
		var b strings.Builder
		for _, c := range row {
			switch c {
			case cellGuide:
				b.WriteString(guide.Render("·"))
			case cellEdge:
				b.WriteString(edge.Render("•"))
			case cellVertex:
				b.WriteString(vertex.Render("●"))
			default:
				b.WriteString(" ")
			}
		}
		rows[y] = b.String()
	}

	cats := questions.AllCategories()
	label := func(i int) string {
		return fmt.Sprintf("%s %d%%", cats[i].DisplayName(), scoring.Clamp(r.Scores[cats[i]]))
	}
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	left, right := label(3), label(1)
	pad := max(lipgloss.Width(left), lipgloss.Width(right)) + 1
	width := lipgloss.Width(rows[0]) + 2*pad

	var out []string
	out = append(out, lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(label(0))))
	for y, row := range rows {
		l, rt := strings.Repeat(" ", pad), strings.Repeat(" ", pad)
		if y == r.Radius {
			l = dim.Width(pad).Align(lipgloss.Right).Render(left + " ")
			rt = dim.Width(pad).Render(" " + right)
		}
		out = append(out, l+row+rt)
	}
	out = append(out, lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(label(2))))
	return strings.Join(out, "\n")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
