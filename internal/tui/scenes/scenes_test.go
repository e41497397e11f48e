package scenes

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuimsg"
)

func keyPress(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func (m *ParametersModel) field(key string) *paramField {
	for _, f := range m.fields {
		if f.key == key {
			return f
		}
	}
	return nil
}

func TestParametersDefaults(t *testing.T) {
	p := NewParametersModel().Parameters()

	assert.Equal(t, 0.0, p.Principal)
	assert.Equal(t, 6.0, p.Rate.AnnualRatePercent)
	assert.Equal(t, domain.RateModeFixed, p.Rate.Mode)
	assert.Equal(t, 12, p.CompoundsPerYear)
	assert.Equal(t, 1000.0, p.ContributionAmount)
	assert.Equal(t, domain.PeriodMonthly, p.ContributionPeriod)
	assert.Equal(t, float64(domain.DefaultAccumulationYears), p.AccumulationYears)
	assert.Equal(t, 4.0, p.WithdrawalRatePercent)
}

func TestParametersSetParametersPreloadsForm(t *testing.T) {
	m := NewParametersModel()
	want := domain.Parameters{
		Principal:             2500.5,
		Rate:                  domain.RateSpec{Mode: domain.RateModeRandomized, AnnualRatePercent: 7.25, DeviationPercent: 30},
		CompoundsPerYear:      365,
		ContributionAmount:    150,
		ContributionPeriod:    domain.PeriodWeekly,
		AccumulationYears:     2.5,
		WithdrawalRatePercent: 3.5,
	}
	m.SetParameters(want)

	assert.Equal(t, want, m.Parameters())
	assert.False(t, m.Modified())
	assert.True(t, m.Valid())
}

func TestParametersCoercesUnparsableInput(t *testing.T) {
	m := NewParametersModel()
	f := m.field(FieldContribution)
	f.input.SetValue("abc")
	f.validate()

	assert.NotEmpty(t, f.warning)
	assert.True(t, m.Valid())
	assert.Equal(t, 0.0, m.Parameters().ContributionAmount)

	years := m.field(FieldYears)
	years.input.SetValue("0")
	years.validate()
	assert.Equal(t, float64(domain.DefaultAccumulationYears), m.Parameters().AccumulationYears)
}

func TestParametersRejectsOutOfRangeInput(t *testing.T) {
	m := NewParametersModel()
	f := m.field(FieldWithdrawal)
	f.input.SetValue("150")
	f.validate()

	assert.Equal(t, "must be at most 100", f.err)
	assert.False(t, m.Valid())

	_, cmd := m.Update(keyPress(tea.KeyEnter))
	assert.Nil(t, cmd)
	_, cmd = m.Update(keyPress(tea.KeyCtrlS))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "must be at most 100")
}

func TestParametersRejectsValuesAboveDomain(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr string
	}{
		{FieldYears, "1000000000", "must be at most 100"},
		{FieldRate, "500", "must be at most 100"},
		{FieldPrincipal, "2000000000000", "must be at most 1e+12"},
		{FieldContribution, "2000000000000", "must be at most 1e+12"},
		{FieldCompounds, "366", "must be at most 365"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := NewParametersModel()
			f := m.field(tt.key)
			f.input.SetValue(tt.value)
			f.validate()

			assert.Equal(t, tt.wantErr, f.err)
			assert.False(t, m.Valid())
		})
	}
}

func TestParametersFocusWraps(t *testing.T) {
	m := NewParametersModel()
	assert.Equal(t, 0, m.Focused())

	m, _ = m.Update(keyPress(tea.KeyUp))
	assert.Equal(t, len(m.fields)+toggleRows-1, m.Focused())

	m, _ = m.Update(keyPress(tea.KeyDown))
	assert.Equal(t, 0, m.Focused())

	m, _ = m.Update(keyPress(tea.KeyTab))
	assert.Equal(t, 1, m.Focused())
}

func TestParametersToggles(t *testing.T) {
	m := NewParametersModel()
	for i := 0; i < len(m.fields); i++ {
		m, _ = m.Update(keyPress(tea.KeyDown))
	}
	m, _ = m.Update(keyPress(tea.KeySpace))
	assert.Equal(t, domain.PeriodWeekly, m.Parameters().ContributionPeriod)

	m, _ = m.Update(keyPress(tea.KeyDown))
	m, _ = m.Update(keyPress(tea.KeyRight))
	assert.Equal(t, domain.RateModeRandomized, m.Parameters().Rate.Mode)
	assert.True(t, m.Modified())

	m, _ = m.Update(keyPress(tea.KeyCtrlR))
	assert.Equal(t, domain.PeriodMonthly, m.Parameters().ContributionPeriod)
	assert.Equal(t, domain.RateModeFixed, m.Parameters().Rate.Mode)
	assert.False(t, m.Modified())
}

func TestParametersEnterRequestsCalculation(t *testing.T) {
	m := NewParametersModel()
	m, _ = m.Update(runeKey('5'))
	assert.True(t, m.Modified())

	_, cmd := m.Update(keyPress(tea.KeyEnter))
	require.NotNil(t, cmd)
	req, ok := cmd().(tuimsg.CalculateRequestMsg)
	require.True(t, ok)
	assert.Equal(t, m.Parameters(), req.Parameters)

	_, cmd = m.Update(keyPress(tea.KeyCtrlS))
	require.NotNil(t, cmd)
	save, ok := cmd().(tuimsg.SavePlanMsg)
	require.True(t, ok)
	assert.Equal(t, m.Parameters(), save.Parameters)
}

func projectedSummary(t *testing.T, p domain.Parameters) *domain.ScenarioSummary {
	t.Helper()
	s, err := calculation.NewProjectionEngine().RunParameters(context.Background(), "Test", p, 42)
	require.NoError(t, err)
	return s
}

func resultsPlan() domain.Parameters {
	return domain.Parameters{
		Principal:             10000,
		Rate:                  domain.RateSpec{Mode: domain.RateModeFixed, AnnualRatePercent: 6},
		CompoundsPerYear:      12,
		ContributionAmount:    1000,
		ContributionPeriod:    domain.PeriodMonthly,
		AccumulationYears:     3,
		WithdrawalRatePercent: 4,
	}
}

func TestResultsEmptyState(t *testing.T) {
	m := NewResultsModel()
	assert.Contains(t, m.View(), "No results to display")

	_, cmd := m.Update(runeKey('n'))
	assert.Nil(t, cmd)
}

func TestResultsSwitchesSchedules(t *testing.T) {
	m := NewResultsModel()
	m.SetResults("Test", projectedSummary(t, resultsPlan()), nil)

	view := m.View()
	assert.Contains(t, view, "Projection Results")
	assert.Contains(t, view, "Future Value")
	assert.Contains(t, view, "Accumulation Schedule")
	assert.Len(t, m.table.Rows(), 3)

	m, _ = m.Update(keyPress(tea.KeyTab))
	assert.Equal(t, WithdrawalView, m.ScheduleView())
	assert.Len(t, m.table.Rows(), domain.DecumulationYears)
	assert.Contains(t, m.View(), "Withdrawal Schedule")

	m, _ = m.Update(keyPress(tea.KeyTab))
	assert.Equal(t, AccumulationView, m.ScheduleView())
}

func TestResultsWithoutWithdrawals(t *testing.T) {
	p := resultsPlan()
	p.WithdrawalRatePercent = 0

	m := NewResultsModel()
	m.SetResults("Test", projectedSummary(t, p), nil)
	m, _ = m.Update(keyPress(tea.KeyTab))
	assert.Contains(t, m.View(), "Withdrawals are disabled")
}

func TestResultsRerollAndDeltas(t *testing.T) {
	first := projectedSummary(t, resultsPlan())
	p := resultsPlan()
	p.ContributionAmount = 2000
	second := projectedSummary(t, p)

	m := NewResultsModel()
	m.SetResults("Test", second, first)
	assert.Contains(t, m.View(), "▲")

	_, cmd := m.Update(runeKey('n'))
	require.NotNil(t, cmd)
	assert.Equal(t, tuimsg.RerollMsg{}, cmd())
}

func TestScenariosSelection(t *testing.T) {
	rate := 9.0
	cfg := &domain.Configuration{
		Base: resultsPlan(),
		Scenarios: []domain.Scenario{
			{Name: "Baseline"},
			{Name: "Aggressive", Description: "higher returns", Overrides: domain.ParameterOverrides{AnnualRatePercent: &rate}},
		},
	}

	m := NewScenariosModel()
	m.SetConfiguration(cfg)
	assert.Equal(t, "Baseline", m.SelectedScenario())

	m, _ = m.Update(runeKey('j'))
	assert.Equal(t, "Aggressive", m.SelectedScenario())
	m, _ = m.Update(keyPress(tea.KeyDown))
	assert.Equal(t, "Aggressive", m.SelectedScenario())
	assert.Contains(t, m.View(), "9.00%")

	_, cmd := m.Update(keyPress(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, tuimsg.ScenarioSelectedMsg{ScenarioName: "Aggressive"}, cmd())

	m, _ = m.Update(runeKey('g'))
	assert.Equal(t, "Baseline", m.SelectedScenario())
}

func TestScenariosEmpty(t *testing.T) {
	m := NewScenariosModel()
	assert.Contains(t, m.View(), "No plan loaded")

	_, cmd := m.Update(keyPress(tea.KeyEnter))
	assert.Nil(t, cmd)

	m.SetConfiguration(&domain.Configuration{Base: resultsPlan()})
	assert.Equal(t, domain.BaseScenarioName, m.SelectedScenario())
}
