package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/dcaplan/internal/config"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuimsg"
)

func checkPlan() domain.Parameters {
	return domain.Parameters{
		Principal:          10000,
		Rate:               domain.RateSpec{Mode: domain.RateModeFixed, AnnualRatePercent: 6},
		CompoundsPerYear:   12,
		ContributionAmount: 1000,
		ContributionPeriod: domain.PeriodMonthly,
		AccumulationYears:  1,
	}
}

func twoScenarioPlan() *domain.Configuration {
	rate := 8.0
	return &domain.Configuration{
		Base: checkPlan(),
		Scenarios: []domain.Scenario{
			{Name: "Baseline"},
			{Name: "Optimistic", Overrides: domain.ParameterOverrides{AnnualRatePercent: &rate}},
		},
	}
}

// step feeds msg to the model and returns the updated model and command
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated, cmd
}

func TestNewModelStartsOnParametersWithoutPlan(t *testing.T) {
	m := NewModel("", nil)
	assert.Equal(t, SceneParameters, m.currentScene)
	assert.Nil(t, m.Init())

	withPlan := NewModel("plan.yaml", nil)
	assert.Equal(t, SceneScenarios, withPlan.currentScene)
	assert.NotNil(t, withPlan.Init())
}

func TestConfigLoadedPopulatesScenes(t *testing.T) {
	m := NewModel("plan.yaml", nil)
	m, cmd := step(t, m, tuimsg.ConfigLoadedMsg{Config: twoScenarioPlan()})

	require.NotNil(t, cmd)
	assert.Equal(t, NavigateMsg{Scene: SceneScenarios}, cmd())
	assert.Equal(t, "Baseline", m.scenariosModel.SelectedScenario())
	assert.Equal(t, 10000.0, m.parametersModel.Parameters().Principal)
	assert.Contains(t, m.status, "Loaded 2 scenario(s)")
}

func TestCalculateRequestShowsResults(t *testing.T) {
	m := NewModel("", nil)

	m, cmd := step(t, m, tuimsg.CalculateRequestMsg{Parameters: checkPlan()})
	assert.True(t, m.loading)
	require.NotNil(t, cmd)

	done, ok := cmd().(tuimsg.CalculationCompleteMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, CustomScenarioName, done.ScenarioName)

	m, cmd = step(t, m, done)
	assert.False(t, m.loading)
	require.NotNil(t, m.summary)
	assert.Equal(t, "22952.34", m.summary.FutureValue.StringFixed(2))
	assert.Equal(t, NavigateMsg{Scene: SceneResults}, cmd())

	m, _ = step(t, m, NavigateMsg{Scene: SceneResults})
	assert.Equal(t, SceneResults, m.currentScene)
	assert.Equal(t, SceneParameters, m.previousScene)
	assert.Contains(t, m.View(), "Projection Results")
}

func TestSecondRunKeepsPrevious(t *testing.T) {
	m := NewModel("", nil)
	first := checkPlan()
	second := checkPlan()
	second.ContributionAmount = 2000

	for _, p := range []domain.Parameters{first, second} {
		var cmd tea.Cmd
		m, cmd = step(t, m, tuimsg.CalculateRequestMsg{Parameters: p})
		m, _ = step(t, m, cmd())
	}

	require.NotNil(t, m.previous)
	assert.Equal(t, 1000.0, m.previous.Parameters.ContributionAmount)
	assert.Equal(t, 2000.0, m.summary.Parameters.ContributionAmount)
}

func TestScenarioSelectedRunsPlanScenario(t *testing.T) {
	m := NewModel("plan.yaml", nil)
	m, _ = step(t, m, tuimsg.ConfigLoadedMsg{Config: twoScenarioPlan()})

	m, cmd := step(t, m, tuimsg.ScenarioSelectedMsg{ScenarioName: "Optimistic"})
	require.NotNil(t, cmd)
	done := cmd().(tuimsg.CalculationCompleteMsg)
	require.NoError(t, done.Err)
	assert.Equal(t, "Optimistic", done.Results.Name)
	assert.Equal(t, 8.0, done.Results.Parameters.Rate.AnnualRatePercent)

	_, cmd = step(t, m, tuimsg.ScenarioSelectedMsg{ScenarioName: "Missing"})
	done = cmd().(tuimsg.CalculationCompleteMsg)
	assert.Error(t, done.Err)
}

func TestRerollWithoutResultsIsIgnored(t *testing.T) {
	m := NewModel("", nil)
	m, cmd := step(t, m, tuimsg.RerollMsg{})
	assert.Nil(t, cmd)
	assert.False(t, m.loading)
}

func TestCalculationErrorIsShownAndCleared(t *testing.T) {
	m := NewModel("", nil)
	m, _ = step(t, m, tuimsg.CalculationCompleteMsg{Err: assert.AnError})
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.NoError(t, m.err)
}

func TestGlobalKeysOutsideForm(t *testing.T) {
	m := NewModel("", nil)
	m, _ = step(t, m, NavigateMsg{Scene: SceneHelp})

	_, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateMsg{Scene: SceneParameters}, cmd())

	// no results yet
	_, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Nil(t, cmd)

	_, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateMsg{Scene: SceneParameters}, cmd())
}

func TestFormKeepsLetterKeys(t *testing.T) {
	m := NewModel("", nil)
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.Equal(t, SceneParameters, m.currentScene)
	assert.True(t, m.parametersModel.Modified())
}

func TestSavePlanWritesBaseAndKeepsScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	m := NewModel(path, nil)
	m, _ = step(t, m, tuimsg.ConfigLoadedMsg{Config: twoScenarioPlan()})

	edited := checkPlan()
	edited.Principal = 25000
	m, cmd := step(t, m, tuimsg.SavePlanMsg{Parameters: edited})
	require.NotNil(t, cmd)

	saved, ok := cmd().(tuimsg.SaveCompleteMsg)
	require.True(t, ok)
	require.NoError(t, saved.Err)
	assert.Equal(t, path, saved.Filename)

	m, _ = step(t, m, saved)
	assert.Equal(t, "Saved plan to "+path, m.status)

	plan, err := config.NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 25000.0, plan.Base.Principal)
	assert.Len(t, plan.Scenarios, 2)
}

func TestWindowSizeReachesScenes(t *testing.T) {
	m := NewModel("", nil)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Contains(t, m.View(), "DCA Plan - Savings & Withdrawal Projection")
}
