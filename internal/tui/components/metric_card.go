package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuistyles"
)

// MetricCard shows one headline number of a projection, optionally with the
// change from the previous projection.
type MetricCard struct {
	Label       string
	Value       string
	Delta       *Delta
	Description string
	Width       int
}

// Delta is the change of a metric since the previous run.
type Delta struct {
	Amount float64
	Text   string
}

// NewMetricCard creates a card with a preformatted value
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 26,
	}
}

// NewAmountCard creates a card showing a currency amount
func NewAmountCard(label string, amount float64) *MetricCard {
	return NewMetricCard(label, tuistyles.FormatCurrency(amount))
}

// WithDelta records the change from a previous value. Changes under half a
// cent are dropped.
func (m *MetricCard) WithDelta(current, previous float64) *MetricCard {
	diff := current - previous
	if math.Abs(diff) < 0.005 {
		m.Delta = nil
		return m
	}
	text := tuistyles.FormatCurrency(math.Abs(diff))
	if diff > 0 {
		text = "+" + text
	} else {
		text = "-" + text
	}
	m.Delta = &Delta{Amount: diff, Text: text}
	return m
}

// WithDescription adds a subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the bordered card
func (m *MetricCard) Render() string {
	lines := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" +
		tuistyles.MetricValueStyle.Render(m.Value)

	if m.Delta != nil {
		up := m.Delta.Amount > 0
		lines += "\n" + tuistyles.MetricTrendStyle(up).
			Render(fmt.Sprintf("%s %s", tuistyles.TrendIndicator(up), m.Delta.Text))
	}
	if m.Description != "" {
		lines += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(lines)
}

// MetricGrid lays cards out in rows of the given number of columns
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns <= 0 {
		columns = 1
	}

	var rows []string
	for start := 0; start < len(cards); start += columns {
		end := min(start+columns, len(cards))
		row := make([]string, 0, end-start)
		for _, card := range cards[start:end] {
			row = append(row, card.Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
