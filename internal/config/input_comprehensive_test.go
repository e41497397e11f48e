package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlan = `
base:
  principal: 10000
  rate:
    mode: fixed
    annual_rate_percent: 6
  compounds_per_year: 12
  contribution_amount: 1000
  contribution_period: monthly
  accumulation_years: 1
  withdrawal_rate_percent: 4

scenarios:
  - name: Steady
  - name: Volatile
    description: Same plan with a randomized rate
    seed: 42
    overrides:
      rate_mode: randomized
      deviation_percent: 25
  - name: Weekly
    overrides:
      contribution_period: weekly
      contribution_amount: 250
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	config, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, config, "Should return nil config")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	invalidFile := writePlan(t, "invalid: yaml: content: [unclosed")

	parser := NewInputParser()
	config, err := parser.LoadFromFile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, config, "Should return nil config")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writePlan(t, validPlan))
	require.NoError(t, err)

	assert.Equal(t, 10000.0, config.Base.Principal)
	assert.Equal(t, domain.RateModeFixed, config.Base.Rate.Mode)
	assert.Equal(t, 12, config.Base.CompoundsPerYear)
	assert.Equal(t, []string{"Steady", "Volatile", "Weekly"}, config.ScenarioNames())

	volatile, err := config.FindScenario("Volatile")
	require.NoError(t, err)
	require.NotNil(t, volatile.Seed)
	assert.Equal(t, int64(42), *volatile.Seed)

	p, err := config.ResolveScenario("volatile")
	require.NoError(t, err)
	assert.True(t, p.Rate.IsRandomized())
	assert.Equal(t, 25.0, p.Rate.DeviationPercent)

	weekly, err := config.ResolveScenario("Weekly")
	require.NoError(t, err)
	assert.Equal(t, 52, weekly.PeriodsPerYear())
	assert.Equal(t, 250.0, weekly.ContributionAmount)
}

func TestInputParser_LoadFromBytes_NormalizesBase(t *testing.T) {
	config, err := NewInputParser().LoadFromBytes([]byte("base:\n  principal: -5\n"))
	require.NoError(t, err)

	assert.Equal(t, 0.0, config.Base.Principal)
	assert.Equal(t, 1, config.Base.CompoundsPerYear)
	assert.Equal(t, 10.0, config.Base.AccumulationYears)
	assert.Equal(t, domain.PeriodMonthly, config.Base.ContributionPeriod)
}

func TestInputParser_ValidateConfiguration(t *testing.T) {
	tests := []struct {
		name      string
		plan      string
		wantField string
	}{
		{"bad period", "base:\n  contribution_period: daily\n", "base.contribution_period"},
		{"bad mode", "base:\n  rate:\n    mode: wild\n", "base.rate.mode"},
		{"deviation too high", "base:\n  rate:\n    deviation_percent: 150\n", "base.rate.deviation_percent"},
		{"withdrawal too high", "base:\n  withdrawal_rate_percent: 101\n", "base.withdrawal_rate_percent"},
		{"compounding too high", "base:\n  compounds_per_year: 1000\n", "base.compounds_per_year"},
		{"years too high", "base:\n  accumulation_years: 1000000000\n", "base.accumulation_years"},
		{"rate too high", "base:\n  rate:\n    annual_rate_percent: 1e200\n", "base.rate.annual_rate_percent"},
		{"principal too high", "base:\n  principal: 1e13\n", "base.principal"},
		{"contribution too high", "base:\n  contribution_amount: 2e12\n", "base.contribution_amount"},
		{"override years too high", "base: {}\nscenarios:\n  - name: A\n    overrides:\n      accumulation_years: 500\n", "scenarios[0].accumulation_years"},
		{"missing name", "base: {}\nscenarios:\n  - description: x\n", "scenarios[0].name"},
		{"duplicate name", "base: {}\nscenarios:\n  - name: A\n  - name: a\n", "scenarios[1].name"},
		{"bad override", "base: {}\nscenarios:\n  - name: A\n    overrides:\n      withdrawal_rate_percent: 200\n", "scenarios[0].withdrawal_rate_percent"},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.LoadFromBytes([]byte(tt.plan))
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected a ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestInputParser_SaveToFileRoundTrip(t *testing.T) {
	parser := NewInputParser()
	original, err := parser.LoadFromBytes([]byte(validPlan))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, parser.SaveToFile(original, path))

	loaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
