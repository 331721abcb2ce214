package tui

import (
	"context"
	"fmt"
	"strings"

	"kantor/internal/rates"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	axisStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	pointStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// chartModel is the pair chart view: from/to pickers, a named range, and
// an inspectable rendered series.
type chartModel struct {
	series SeriesQuerier

	codes   []string
	fromIdx int
	toIdx   int
	rng     rates.Range

	// generation guards against a slow fetch overwriting a newer query:
	// every new query bumps it, responses carrying an older value are
	// dropped.
	generation int

	points  []rates.Point
	cursor  int
	loading bool
	err     error

	width  int
	height int
}

func newChartModel(series SeriesQuerier) chartModel {
	return chartModel{
		series: series,
		rng:    rates.RangeWeek,
		toIdx:  1,
		width:  80,
		height: 24,
	}
}

func (c *chartModel) setSize(width, height int) {
	c.width = width
	c.height = height
}

func (c *chartModel) setCodes(codes []string) {
	c.codes = codes
	if c.fromIdx >= len(codes) {
		c.fromIdx = 0
	}
	if c.toIdx >= len(codes) {
		c.toIdx = 0
	}
}

func (c chartModel) from() string {
	if len(c.codes) == 0 {
		return ""
	}
	return c.codes[c.fromIdx%len(c.codes)]
}

func (c chartModel) to() string {
	if len(c.codes) == 0 {
		return ""
	}
	return c.codes[c.toIdx%len(c.codes)]
}

// refresh starts a new fetch for the current pair and range.
func (c *chartModel) refresh() tea.Cmd {
	if c.series == nil || len(c.codes) == 0 {
		return nil
	}
	c.generation++
	c.loading = true
	c.err = nil

	gen := c.generation
	from, to, rng := c.from(), c.to(), c.rng
	querier := c.series
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		points, err := querier.FetchSeries(ctx, from, to, rng)
		return seriesMsg{gen: gen, points: points, err: err}
	}
}

func (c chartModel) handleSeries(msg seriesMsg) (chartModel, tea.Cmd) {
	if msg.gen != c.generation {
		// Stale response from an older query, drop it
		return c, nil
	}
	c.loading = false
	if msg.err != nil {
		c.err = msg.err
		return c, nil
	}
	c.points = msg.points
	if c.cursor >= len(c.points) {
		c.cursor = 0
	}
	return c, nil
}

func (c chartModel) update(msg tea.KeyMsg) (chartModel, tea.Cmd) {
	switch msg.String() {
	case "f":
		if len(c.codes) > 0 {
			c.fromIdx = (c.fromIdx + 1) % len(c.codes)
			return c, c.refresh()
		}
	case "F":
		if len(c.codes) > 0 {
			c.fromIdx = (c.fromIdx - 1 + len(c.codes)) % len(c.codes)
			return c, c.refresh()
		}
	case "t":
		if len(c.codes) > 0 {
			c.toIdx = (c.toIdx + 1) % len(c.codes)
			return c, c.refresh()
		}
	case "T":
		if len(c.codes) > 0 {
			c.toIdx = (c.toIdx - 1 + len(c.codes)) % len(c.codes)
			return c, c.refresh()
		}
	case "w", "1":
		c.rng = rates.RangeWeek
		return c, c.refresh()
	case "m", "2":
		c.rng = rates.RangeMonth
		return c, c.refresh()
	case "y", "3":
		c.rng = rates.RangeYear
		return c, c.refresh()
	case "left", "h":
		if c.cursor > 0 {
			c.cursor--
		}
	case "right", "l":
		if c.cursor < len(c.points)-1 {
			c.cursor++
		}
	}
	return c, nil
}

func (c chartModel) view(spinnerFrame string) string {
	var sb strings.Builder

	pair := fmt.Sprintf("%s/%s", c.from(), c.to())
	sb.WriteString(selectedStyle.Render(pair))
	sb.WriteString(statusStyle.Render("  range: " + string(c.rng)))
	sb.WriteString("\n\n")

	switch {
	case c.loading:
		sb.WriteString(spinnerFrame + " loading series...")
	case c.err != nil:
		sb.WriteString(errorStyle.Render("error: " + c.err.Error()))
	case len(c.points) == 0:
		sb.WriteString(statusStyle.Render("no data for this pair and range"))
	default:
		sb.WriteString(renderChart(c.points, c.cursor, c.chartWidth(), c.chartHeight()))
		sb.WriteString("\n")
		p := c.points[c.cursor]
		sb.WriteString(selectedStyle.Render(fmt.Sprintf("%s  %.4f", p.Label, p.Value)))
	}

	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("f/t: cycle pair  w/m/y: range  left/right: inspect"))
	return sb.String()
}

func (c chartModel) chartWidth() int {
	w := c.width - 12
	if w < 20 {
		w = 20
	}
	return w
}

func (c chartModel) chartHeight() int {
	h := c.height - 12
	if h < 6 {
		h = 6
	}
	if h > 20 {
		h = 20
	}
	return h
}

// renderChart draws the series as an ASCII line chart with the inspected
// point highlighted.
func renderChart(points []rates.Point, cursor, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	min, max := points[0].Value, points[0].Value
	for _, p := range points {
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	if len(points) < width {
		width = len(points)
	}

	// column i shows the point nearest to its share of the series
	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = make([]rune, width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	cursorCol := -1
	for x := 0; x < width; x++ {
		idx := x * (len(points) - 1) / maxInt(width-1, 1)
		v := points[idx].Value
		y := int(float64(height-1) * (max - v) / span)
		grid[y][x] = '·'
		if idx == cursor && cursorCol == -1 {
			cursorCol = x
			grid[y][x] = '●'
		}
	}

	var sb strings.Builder
	for y, row := range grid {
		switch y {
		case 0:
			sb.WriteString(axisStyle.Render(fmt.Sprintf("%8.4f ", max)))
		case height - 1:
			sb.WriteString(axisStyle.Render(fmt.Sprintf("%8.4f ", min)))
		default:
			sb.WriteString(axisStyle.Render(strings.Repeat(" ", 9)))
		}
		line := string(row)
		if cursorCol >= 0 && strings.ContainsRune(line, '●') {
			before, after, _ := strings.Cut(line, "●")
			sb.WriteString(pointStyle.Render(before))
			sb.WriteString(selectedStyle.Render("●"))
			sb.WriteString(pointStyle.Render(after))
		} else {
			sb.WriteString(pointStyle.Render(line))
		}
		if y < height-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
