package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameters_NormalizedDefaults(t *testing.T) {
	p := Parameters{
		Principal:             -5,
		CompoundsPerYear:      0,
		ContributionAmount:    math.NaN(),
		AccumulationYears:     0,
		WithdrawalRatePercent: math.Inf(1),
		Rate:                  RateSpec{AnnualRatePercent: -3, DeviationPercent: -1},
	}

	n := p.Normalized()

	assert.Equal(t, 0.0, n.Principal)
	assert.Equal(t, 1, n.CompoundsPerYear, "zero compounding should default to 1")
	assert.Equal(t, 0.0, n.ContributionAmount, "NaN should normalize to 0")
	assert.Equal(t, 10.0, n.AccumulationYears, "zero years should default to 10")
	assert.Equal(t, 0.0, n.WithdrawalRatePercent, "infinite rate should normalize to 0")
	assert.Equal(t, 0.0, n.Rate.AnnualRatePercent)
	assert.Equal(t, 0.0, n.Rate.DeviationPercent)
	assert.Equal(t, PeriodMonthly, n.ContributionPeriod)
	assert.Equal(t, RateModeFixed, n.Rate.Mode)
}

func TestParameters_NormalizedKeepsValidInput(t *testing.T) {
	p := Parameters{
		Principal:             10000,
		CompoundsPerYear:      4,
		ContributionAmount:    250,
		ContributionPeriod:    PeriodWeekly,
		AccumulationYears:     7.5,
		WithdrawalRatePercent: 4,
		Rate:                  RateSpec{Mode: RateModeRandomized, AnnualRatePercent: 6, DeviationPercent: 20},
	}
	assert.Equal(t, p, p.Normalized())
}

func TestParameters_NormalizedClampsUpperBounds(t *testing.T) {
	tests := []struct {
		name  string
		in    Parameters
		check func(t *testing.T, n Parameters)
	}{
		{"years", Parameters{AccumulationYears: 1e300}, func(t *testing.T, n Parameters) {
			assert.Equal(t, float64(MaxAccumulationYears), n.AccumulationYears)
			assert.Equal(t, MaxAccumulationYears+DecumulationYears, n.HorizonYears())
		}},
		{"rate", Parameters{Rate: RateSpec{AnnualRatePercent: 1e200}}, func(t *testing.T, n Parameters) {
			assert.Equal(t, float64(MaxAnnualRatePercent), n.Rate.AnnualRatePercent)
		}},
		{"deviation", Parameters{Rate: RateSpec{DeviationPercent: 250}}, func(t *testing.T, n Parameters) {
			assert.Equal(t, float64(MaxDeviationPercent), n.Rate.DeviationPercent)
		}},
		{"principal", Parameters{Principal: 1e20}, func(t *testing.T, n Parameters) {
			assert.Equal(t, float64(MaxAmount), n.Principal)
		}},
		{"contribution", Parameters{ContributionAmount: math.MaxFloat64}, func(t *testing.T, n Parameters) {
			assert.Equal(t, float64(MaxAmount), n.ContributionAmount)
		}},
		{"compounding", Parameters{CompoundsPerYear: 10000}, func(t *testing.T, n Parameters) {
			assert.Equal(t, MaxCompoundsPerYear, n.CompoundsPerYear)
		}},
		{"withdrawal", Parameters{WithdrawalRatePercent: 101}, func(t *testing.T, n Parameters) {
			assert.Equal(t, float64(MaxWithdrawalRatePercent), n.WithdrawalRatePercent)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.in.Normalized())
		})
	}
}

func TestParameters_PeriodArithmetic(t *testing.T) {
	tests := []struct {
		name       string
		period     ContributionPeriod
		years      float64
		periods    int
		rateYears  int
		horizonLen int
	}{
		{"monthly whole years", PeriodMonthly, 10, 120, 10, 60},
		{"weekly whole years", PeriodWeekly, 3, 156, 3, 53},
		{"monthly fractional", PeriodMonthly, 2.5, 30, 3, 53},
		{"weekly fractional rounds", PeriodWeekly, 1.01, 53, 2, 52},
		{"tiny horizon rounds to zero periods", PeriodMonthly, 0.01, 0, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parameters{ContributionPeriod: tt.period, AccumulationYears: tt.years}
			assert.Equal(t, tt.periods, p.TotalPeriods())
			assert.Equal(t, tt.rateYears, p.AccumulationRateYears())
			assert.Equal(t, tt.horizonLen, p.HorizonYears())
		})
	}
}

func TestRateSpec_IsRandomized(t *testing.T) {
	assert.False(t, RateSpec{Mode: RateModeFixed, DeviationPercent: 20}.IsRandomized())
	assert.False(t, RateSpec{Mode: RateModeRandomized}.IsRandomized(), "zero deviation degenerates to fixed")
	assert.True(t, RateSpec{Mode: RateModeRandomized, DeviationPercent: 5}.IsRandomized())
}

func TestParameterOverrides_Apply(t *testing.T) {
	base := Parameters{Principal: 1000, ContributionAmount: 100, AccumulationYears: 10, Rate: RateSpec{AnnualRatePercent: 5}}
	rate := 7.0
	weekly := PeriodWeekly
	mode := RateModeRandomized

	got := ParameterOverrides{AnnualRatePercent: &rate, ContributionPeriod: &weekly, RateMode: &mode}.Apply(base)

	assert.Equal(t, 7.0, got.Rate.AnnualRatePercent)
	assert.Equal(t, PeriodWeekly, got.ContributionPeriod)
	assert.Equal(t, RateModeRandomized, got.Rate.Mode)
	assert.Equal(t, 1000.0, got.Principal, "nil overrides inherit")
	assert.Equal(t, 5.0, base.Rate.AnnualRatePercent, "base must not be mutated")
}

func TestConfiguration_ResolveScenario(t *testing.T) {
	years := 20.0
	cfg := &Configuration{
		Base: Parameters{Principal: 500, AccumulationYears: 10},
		Scenarios: []Scenario{
			{Name: "Conservative"},
			{Name: "Long", Overrides: ParameterOverrides{AccumulationYears: &years}},
		},
	}

	p, err := cfg.ResolveScenario("long")
	require.NoError(t, err)
	assert.Equal(t, 20.0, p.AccumulationYears)
	assert.Equal(t, 1, p.CompoundsPerYear, "resolved parameters are normalized")

	_, err = cfg.ResolveScenario("missing")
	assert.Error(t, err)

	assert.Equal(t, []string{"Conservative", "Long"}, cfg.ScenarioNames())
}

func TestConfiguration_ImplicitBaseScenario(t *testing.T) {
	cfg := &Configuration{Base: Parameters{Principal: 1}}
	assert.Equal(t, []string{BaseScenarioName}, cfg.ScenarioNames())

	p, err := cfg.ResolveScenario(BaseScenarioName)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Principal)
}

func TestProjectionResult_DerivedMetrics(t *testing.T) {
	r := ProjectionResult{
		FutureValue:  1000,
		FinalBalance: 900,
		WithdrawSchedule: []WithdrawalRow{
			{YearFromStart: 11, MonthlyWithdraw: 10, EndingBalance: 500},
			{YearFromStart: 12, EndingBalance: -3},
			{YearFromStart: 13, EndingBalance: -10},
		},
	}
	assert.Equal(t, 10.0, r.FirstYearMonthlyWithdrawal())
	assert.Equal(t, 12, r.DepletionYear())
	assert.False(t, r.CapitalPreserved())

	empty := ProjectionResult{FutureValue: 5, FinalBalance: 5}
	assert.Equal(t, 0.0, empty.FirstYearMonthlyWithdrawal())
	assert.Equal(t, 0, empty.DepletionYear())
	assert.True(t, empty.CapitalPreserved())
}

func TestNewScenarioSummary(t *testing.T) {
	result := ProjectionResult{
		FutureValue:       22952.3449,
		TotalContribution: 22000,
		InterestEarned:    952.3449,
		FinalBalance:      22952.3449,
		YearlyRates:       []float64{0.06, 0.04},
	}
	s := NewScenarioSummary("Base", Parameters{}, 42, result)

	assert.True(t, s.FutureValue.Equal(decimal.RequireFromString("22952.34")))
	assert.True(t, s.AverageRatePercent.Equal(decimal.NewFromInt(5)), "average of 6%% and 4%%, got %s", s.AverageRatePercent)
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, 0, s.DepletionYear)
}

func TestSensitivitySummary_RiskLevels(t *testing.T) {
	cases := map[string]string{
		"0.2": "LOW",
		"1.0": "MEDIUM",
		"2.0": "HIGH",
		"5.0": "CRITICAL",
	}
	for in, want := range cases {
		ss := SensitivitySummary{Elasticity: decimal.RequireFromString(in)}
		if got := ss.DetermineRiskLevel(); got != want {
			t.Errorf("elasticity %s: expected %s, got %s", in, want, got)
		}
	}

	ss := SensitivitySummary{Elasticity: decimal.NewFromInt(4)}
	recs := ss.GenerateRecommendations("withdrawal_rate")
	assert.Contains(t, recs, "Use conservative assumptions for withdrawal_rate")
	assert.Len(t, GetCommonParameters(), 5)
}
