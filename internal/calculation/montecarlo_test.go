package calculation

import (
	"context"
	"strings"
	"testing"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monteCarloParams() domain.Parameters {
	return domain.Parameters{
		Principal:             10000,
		Rate:                  domain.RateSpec{Mode: domain.RateModeRandomized, AnnualRatePercent: 6, DeviationPercent: 50},
		CompoundsPerYear:      12,
		ContributionAmount:    200,
		AccumulationYears:     10,
		WithdrawalRatePercent: 4,
	}
}

func TestNewMonteCarloSimulator_Defaults(t *testing.T) {
	SetSeedFunc(func() int64 { return 77 })
	defer SetSeedFunc(nil)

	sim := NewMonteCarloSimulator(nil, MonteCarloConfig{})

	if sim.Engine == nil {
		t.Fatal("Expected engine to be initialized")
	}
	if sim.Config.NumSimulations != 1000 {
		t.Errorf("Expected NumSimulations to be 1000, got %d", sim.Config.NumSimulations)
	}
	if sim.Config.Concurrency != 10 {
		t.Errorf("Expected Concurrency to be 10, got %d", sim.Config.Concurrency)
	}
	if sim.Config.Seed != 77 {
		t.Errorf("Expected seed from seed func, got %d", sim.Config.Seed)
	}
	if sim.Config.DeviationPercent != DefaultMonteCarloDeviation {
		t.Errorf("Expected default deviation, got %v", sim.Config.DeviationPercent)
	}
}

func TestMonteCarloSimulator_Run(t *testing.T) {
	params := monteCarloParams()
	sim := NewMonteCarloSimulator(nil, MonteCarloConfig{NumSimulations: 200, Seed: 7})

	result, err := sim.Run(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Simulations, 200)

	fv := result.FutureValue
	assert.True(t, fv.P10.LessThanOrEqual(fv.P25))
	assert.True(t, fv.P25.LessThanOrEqual(fv.P50))
	assert.True(t, fv.P50.LessThanOrEqual(fv.P75))
	assert.True(t, fv.P75.LessThanOrEqual(fv.P90))
	assert.True(t, fv.P10.LessThan(fv.P90), "randomized rates should spread outcomes")

	// every run lies between the all-low and all-high rate paths
	low, high := params, params
	low.Rate = domain.RateSpec{AnnualRatePercent: 3}
	high.Rate = domain.RateSpec{AnnualRatePercent: 9}
	lowFV := Project(low, nil).FutureValue
	highFV := Project(high, nil).FutureValue
	for i, o := range result.Simulations {
		assert.Equal(t, int64(7+i), o.Seed)
		assert.GreaterOrEqual(t, o.FutureValue, lowFV-1e-6)
		assert.LessOrEqual(t, o.FutureValue, highFV+1e-6)
	}

	assert.True(t, result.CapitalPreservedRate.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, result.CapitalPreservedRate.LessThanOrEqual(decimal.NewFromInt(100)))
}

func TestMonteCarloSimulator_Reproducible(t *testing.T) {
	cfg := MonteCarloConfig{NumSimulations: 50, Seed: 123, Concurrency: 3}

	a, err := NewMonteCarloSimulator(nil, cfg).Run(context.Background(), monteCarloParams())
	require.NoError(t, err)
	b, err := NewMonteCarloSimulator(nil, cfg).Run(context.Background(), monteCarloParams())
	require.NoError(t, err)

	assert.Equal(t, a.Simulations, b.Simulations)
	assert.True(t, a.FutureValue.P50.Equal(b.FutureValue.P50))
}

func TestMonteCarloSimulator_FixedPlanGetsDefaultDeviation(t *testing.T) {
	params := monteCarloParams()
	params.Rate = domain.RateSpec{AnnualRatePercent: 6}

	result, err := NewMonteCarloSimulator(nil, MonteCarloConfig{NumSimulations: 20, Seed: 1}).Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, domain.RateModeRandomized, result.Parameters.Rate.Mode)
	assert.Equal(t, DefaultMonteCarloDeviation, result.Parameters.Rate.DeviationPercent)
}

func TestMonteCarloSimulator_NotesSubstitutedDeviation(t *testing.T) {
	tests := []struct {
		name      string
		rate      domain.RateSpec
		deviation float64
		wantNote  string
	}{
		{"randomized plan", domain.RateSpec{Mode: domain.RateModeRandomized, AnnualRatePercent: 6, DeviationPercent: 50}, 0, ""},
		{"fixed plan", domain.RateSpec{AnnualRatePercent: 6}, 0,
			"plan uses a fixed 6% rate; simulated with ±20% deviation of the base rate"},
		{"zero deviation plan", domain.RateSpec{Mode: domain.RateModeRandomized, AnnualRatePercent: 5}, 35,
			"plan uses a randomized 5% rate with zero deviation; simulated with ±35% deviation of the base rate"},
		{"configured deviation capped", domain.RateSpec{AnnualRatePercent: 4}, 400,
			"plan uses a fixed 4% rate; simulated with ±100% deviation of the base rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewProjectionEngine()
			logger := &TestLogger{}
			engine.SetLogger(logger)

			params := monteCarloParams()
			params.Rate = tt.rate
			sim := NewMonteCarloSimulator(engine, MonteCarloConfig{NumSimulations: 5, Seed: 1, DeviationPercent: tt.deviation})
			result, err := sim.Run(context.Background(), params)
			require.NoError(t, err)

			logged := strings.Join(logger.messages, "\n")
			if tt.wantNote == "" {
				assert.Empty(t, result.Notes)
				assert.NotContains(t, logged, "no deviation")
				return
			}
			assert.Equal(t, []string{tt.wantNote}, result.Notes)
			assert.Contains(t, logged, "INFO: monte carlo: plan rate has no deviation")
			assert.LessOrEqual(t, result.Parameters.Rate.DeviationPercent, float64(domain.MaxDeviationPercent))
		})
	}
}

func TestMonteCarloSimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMonteCarloSimulator(nil, MonteCarloConfig{NumSimulations: 10, Seed: 1}).Run(ctx, monteCarloParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 3.0, Percentile(values, 0.5))
	assert.Equal(t, 2.0, Percentile(values, 0.25))
	assert.InDelta(t, 1.4, Percentile(values, 0.1), 1e-12)
	assert.Equal(t, 0.0, Percentile(nil, 0.5))
	assert.Equal(t, 9.0, Percentile([]float64{9}, 0.9))
}
