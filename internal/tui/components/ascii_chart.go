package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/dcaplan/internal/output"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuistyles"
)

// DataSeries is one line of a chart
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart draws balance lines over years on a character grid. Series are
// drawn left to right on a shared x axis, so a series may start where the
// previous one ended by padding it with NaN.
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Labels     []string // x axis labels, one per point
	Width      int
	Height     int
	ShowLegend bool
	XAxisLabel string
	// Marker draws a vertical line before point index Marker when > 0.
	Marker int
}

// NewASCIIChart creates a new chart
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Width:      72,
		Height:     12,
		ShowLegend: true,
	}
}

// AddSeries adds a data series to the chart
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

// WithLabels sets the x axis labels
func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

// WithMarker draws a divider before the given point index
func (c *ASCIIChart) WithMarker(index int) *ASCIIChart {
	c.Marker = index
	return c
}

// WithXAxisLabel sets the caption under the x axis
func (c *ASCIIChart) WithXAxisLabel(label string) *ASCIIChart {
	c.XAxisLabel = label
	return c
}

// Render returns the chart
func (c *ASCIIChart) Render() string {
	n := c.pointCount()
	if n == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder

	if c.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		content.WriteString("\n\n")
	}

	lo, hi := c.bounds()
	content.WriteString(c.renderGrid(n, lo, hi))

	if c.XAxisLabel != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(c.XAxisLabel))
	}

	if c.ShowLegend && len(c.Series) > 1 {
		content.WriteString("\n")
		content.WriteString(c.renderLegend())
	}

	return content.String()
}

func (c *ASCIIChart) pointCount() int {
	n := 0
	for _, s := range c.Series {
		n = max(n, len(s.Points))
	}
	return n
}

// bounds returns the padded value range over every finite point. Zero is
// always included so balances are drawn against a common baseline.
func (c *ASCIIChart) bounds() (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, s := range c.Series {
		for _, p := range s.Points {
			if math.IsNaN(p) || math.IsInf(p, 0) {
				continue
			}
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05
	if lo < 0 {
		lo -= pad
	}
	return lo, hi + pad
}

func (c *ASCIIChart) renderGrid(n int, lo, hi float64) string {
	const yAxisWidth = 10
	width := max(c.Width-yAxisWidth-3, 2)
	height := max(c.Height, 2)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	col := func(i int) int {
		if n == 1 {
			return 0
		}
		return int(math.Round(float64(i) / float64(n-1) * float64(width-1)))
	}
	row := func(v float64) int {
		return height - 1 - int(math.Round((v-lo)/(hi-lo)*float64(height-1)))
	}

	if c.Marker > 0 && c.Marker < n {
		x := (col(c.Marker-1) + col(c.Marker)) / 2
		for y := range grid {
			grid[y][x] = '┊'
		}
	}

	for idx, s := range c.Series {
		char := seriesChar(idx)
		prevX, prevY, havePrev := 0, 0, false
		for i, v := range s.Points {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				havePrev = false
				continue
			}
			x, y := col(i), row(v)
			if havePrev {
				drawLine(grid, prevX, prevY, x, y, char)
			} else {
				plot(grid, x, y, char)
			}
			prevX, prevY, havePrev = x, y, true
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)

	var out strings.Builder
	for i, r := range grid {
		label := ""
		if i == 0 || i == height-1 || i == height/2 {
			label = formatChartValue(hi - float64(i)/float64(height-1)*(hi-lo))
		}
		out.WriteString(axisStyle.Render(label))
		out.WriteString(" │ ")
		out.WriteString(string(r))
		out.WriteString("\n")
	}

	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └─")
	out.WriteString(strings.Repeat("─", width))
	out.WriteString("\n")

	if len(c.Labels) > 0 {
		out.WriteString(c.renderXAxisLabels(yAxisWidth+3, width, col))
	}

	return out.String()
}

// renderXAxisLabels places the first, last and up to three middle labels
// under their columns.
func (c *ASCIIChart) renderXAxisLabels(indent, width int, col func(int) int) string {
	line := []rune(strings.Repeat(" ", width+8))
	n := len(c.Labels)
	picks := []int{0}
	for k := 1; k < 4; k++ {
		picks = append(picks, k*(n-1)/4)
	}
	picks = append(picks, n-1)

	next := 0
	for _, i := range picks {
		x := col(i)
		if x < next {
			continue
		}
		label := []rune(c.Labels[i])
		if x+len(label) > len(line) {
			x = len(line) - len(label)
		}
		copy(line[x:], label)
		next = x + len(label) + 1
	}

	return strings.Repeat(" ", indent) +
		lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(strings.TrimRight(string(line), " "))
}

func (c *ASCIIChart) renderLegend() string {
	var items []string
	for i, s := range c.Series {
		symbol := lipgloss.NewStyle().Foreground(s.Color).Render(string(seriesChar(i)))
		items = append(items, fmt.Sprintf("%s %s", symbol, s.Name))
	}
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("Legend: " + strings.Join(items, " • "))
}

func seriesChar(index int) rune {
	chars := []rune{'●', '■', '▲', '♦'}
	return chars[index%len(chars)]
}

func plot(grid [][]rune, x, y int, char rune) {
	if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
		grid[y][x] = char
	}
}

// drawLine joins two grid points with Bresenham's algorithm
func drawLine(grid [][]rune, x0, y0, x1, y1 int, char rune) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}

	err := dx - dy
	x, y := x0, y0
	for {
		plot(grid, x, y, char)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// formatChartValue abbreviates a y axis value
func formatChartValue(value float64) string {
	symbol := output.CurrencySymbol()
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("%s%s%.1fM", sign, symbol, value/1_000_000)
	case value >= 1000:
		return fmt.Sprintf("%s%s%.0fK", sign, symbol, value/1000)
	}
	return fmt.Sprintf("%s%s%.0f", sign, symbol, value)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
