package scenes

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/tui/components"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuistyles"
)

// ScheduleView selects which schedule the results table shows
type ScheduleView int

const (
	AccumulationView ScheduleView = iota
	WithdrawalView
)

// ResultsModel represents the results display scene
type ResultsModel struct {
	scenarioName string
	summary      *domain.ScenarioSummary
	previous     *domain.ScenarioSummary
	view         ScheduleView
	table        table.Model
	width        int
	height       int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	t := table.New(table.WithFocused(true), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(tuistyles.ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(tuistyles.ColorPrimary)
	styles.Selected = tuistyles.TableHighlightStyle
	t.SetStyles(styles)
	return &ResultsModel{table: t}
}

// SetResults updates the results to display. previous, when set, is the run
// shown before this one and drives the change indicators on the metric cards.
func (m *ResultsModel) SetResults(scenarioName string, summary, previous *domain.ScenarioSummary) {
	m.scenarioName = scenarioName
	m.summary = summary
	m.previous = previous
	m.refreshTable()
}

// Summary returns the displayed summary
func (m *ResultsModel) Summary() *domain.ScenarioSummary {
	return m.summary
}

// ScheduleView returns which schedule is shown
func (m *ResultsModel) ScheduleView() ScheduleView {
	return m.view
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if height > 0 {
		m.table.SetHeight(max(height/3, 5))
	}
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.summary == nil {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("tab"))):
		if m.view == AccumulationView {
			m.view = WithdrawalView
		} else {
			m.view = AccumulationView
		}
		m.refreshTable()
		return m, nil

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("n"))):
		return m, func() tea.Msg { return tuimsg.RerollMsg{} }
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(keyMsg)
	return m, cmd
}

func (m *ResultsModel) refreshTable() {
	// columns and rows must agree in length, so clear rows before swapping columns
	m.table.SetRows(nil)
	if m.summary == nil {
		return
	}

	result := m.summary.Result
	switch m.view {
	case WithdrawalView:
		m.table.SetColumns([]table.Column{
			{Title: "Year", Width: 5},
			{Title: "Rate", Width: 8},
			{Title: "Start Balance", Width: 16},
			{Title: "Withdrawn", Width: 14},
			{Title: "Monthly", Width: 12},
			{Title: "End Balance", Width: 16},
		})
		rows := make([]table.Row, 0, len(result.WithdrawSchedule))
		for _, r := range result.WithdrawSchedule {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", r.YearFromStart),
				fmt.Sprintf("%.2f%%", r.RatePercent),
				tuistyles.FormatCurrency(r.StartOfYearBalance),
				tuistyles.FormatCurrency(r.WithdrawAmount),
				tuistyles.FormatCurrency(r.MonthlyWithdraw),
				tuistyles.FormatCurrency(r.EndingBalance),
			})
		}
		m.table.SetRows(rows)
	default:
		m.table.SetColumns([]table.Column{
			{Title: "Year", Width: 5},
			{Title: "Rate", Width: 8},
			{Title: "Contributed", Width: 16},
			{Title: "Interest", Width: 16},
			{Title: "Balance", Width: 16},
		})
		rows := make([]table.Row, 0, len(result.Schedule))
		for _, r := range result.Schedule {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", r.Year),
				fmt.Sprintf("%.2f%%", r.RatePercent),
				tuistyles.FormatCurrency(r.TotalContribution),
				tuistyles.FormatCurrency(r.InterestEarned),
				tuistyles.FormatCurrency(r.EndingBalance),
			})
		}
		m.table.SetRows(rows)
	}
	m.table.GotoTop()
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.summary == nil {
		return `No results to display.

Calculate a plan from the Parameters screen or pick a scenario.

Press p to edit parameters.`
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Projection Results"),
		tuistyles.SubtitleStyle.Render(fmt.Sprintf("Scenario: %s • seed %d", m.scenarioName, m.summary.Seed)),
	)

	tableTitle := "Accumulation Schedule"
	if m.view == WithdrawalView {
		tableTitle = "Withdrawal Schedule"
	}
	schedule := titleStyle.Render(tableTitle) + "\n" + m.table.View()
	if m.view == WithdrawalView && len(m.summary.Result.WithdrawSchedule) == 0 {
		schedule = titleStyle.Render(tableTitle) + "\n" + tuistyles.InfoStyle.Render("Withdrawals are disabled for this plan")
	}

	help := "tab switch schedule • ↑/↓ scroll • p edit parameters • s scenarios • esc back"
	if m.summary.Parameters.Rate.IsRandomized() {
		help = "n new random rates • " + help
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.renderMetrics(),
		"",
		m.renderChart(),
		"",
		schedule,
		"",
		lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(help),
	)
}

func (m *ResultsModel) renderMetrics() string {
	s := m.summary
	card := func(label string, current float64, prev func(*domain.ScenarioSummary) float64) *components.MetricCard {
		c := components.NewAmountCard(label, current)
		if m.previous != nil {
			c.WithDelta(current, prev(m.previous))
		}
		return c
	}

	cards := []*components.MetricCard{
		card("Future Value", s.FutureValue.InexactFloat64(), func(p *domain.ScenarioSummary) float64 { return p.FutureValue.InexactFloat64() }),
		card("Total Contribution", s.TotalContribution.InexactFloat64(), func(p *domain.ScenarioSummary) float64 { return p.TotalContribution.InexactFloat64() }),
		card("Interest Earned", s.InterestEarned.InexactFloat64(), func(p *domain.ScenarioSummary) float64 { return p.InterestEarned.InexactFloat64() }),
		card("Monthly Withdrawal", s.FirstYearMonthlyWithdrawal.InexactFloat64(), func(p *domain.ScenarioSummary) float64 { return p.FirstYearMonthlyWithdrawal.InexactFloat64() }).
			WithDescription("first withdrawal year"),
		card("Total Withdrawn", s.TotalWithdrawn.InexactFloat64(), func(p *domain.ScenarioSummary) float64 { return p.TotalWithdrawn.InexactFloat64() }),
		card("Final Balance", s.FinalBalance.InexactFloat64(), func(p *domain.ScenarioSummary) float64 { return p.FinalBalance.InexactFloat64() }).
			WithDescription(finalBalanceNote(s)),
	}
	return components.MetricGrid(cards, 3)
}

func finalBalanceNote(s *domain.ScenarioSummary) string {
	switch {
	case s.DepletionYear > 0:
		return fmt.Sprintf("depleted in year %d", s.DepletionYear)
	case s.Result.CapitalPreserved():
		return "capital preserved"
	}
	return "capital drawn down"
}

// renderChart plots the balance over the whole plan. The withdrawal line
// starts at the future value so both phases join up.
func (m *ResultsModel) renderChart() string {
	result := m.summary.Result
	acc := len(result.Schedule)

	accumulation := make([]float64, 0, acc+1)
	accumulation = append(accumulation, m.summary.Parameters.Principal)
	for _, r := range result.Schedule {
		accumulation = append(accumulation, r.EndingBalance)
	}

	labels := make([]string, 0, acc+1+len(result.WithdrawSchedule))
	for i := 0; i <= acc; i++ {
		labels = append(labels, fmt.Sprintf("Y%d", i))
	}

	chart := components.NewASCIIChart("Balance Over Time").
		AddSeries("Accumulation", accumulation, tuistyles.ColorChartLine1).
		WithXAxisLabel("Years from start")

	if len(result.WithdrawSchedule) > 0 {
		withdrawal := make([]float64, acc, acc+1+len(result.WithdrawSchedule))
		for i := range withdrawal {
			withdrawal[i] = math.NaN()
		}
		withdrawal = append(withdrawal, result.FutureValue)
		for _, r := range result.WithdrawSchedule {
			withdrawal = append(withdrawal, r.EndingBalance)
			labels = append(labels, fmt.Sprintf("Y%d", r.YearFromStart))
		}
		chart.AddSeries("Withdrawal", withdrawal, tuistyles.ColorChartLine2).WithMarker(acc + 1)
	}

	width := 72
	if m.width > 20 {
		width = min(m.width-4, 100)
	}
	return chart.WithLabels(labels).WithSize(width, 10).Render()
}
