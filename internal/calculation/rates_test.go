package calculation

import (
	"math/rand"
	"testing"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

// countingSource records how many samples were drawn.
type countingSource struct {
	calls int
	value float64
}

func (c *countingSource) Float64() float64 {
	c.calls++
	return c.value
}

func TestFixedRateProvider(t *testing.T) {
	rates := FixedRateProvider{AnnualRatePercent: 6}.YearlyRates(60)

	assert.Len(t, rates, 60)
	for i, r := range rates {
		if r != 0.06 {
			t.Fatalf("rate %d = %v, want 0.06", i, r)
		}
	}
	assert.Nil(t, FixedRateProvider{AnnualRatePercent: 6}.YearlyRates(0))
}

func TestRandomizedRateProvider_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		base   float64
		dev    float64
		wantLo float64
		wantHi float64
	}{
		{"symmetric", 6, 50, 3, 9},
		{"floored at zero", 10, 150, 0, 25},
		{"zero base", 0, 20, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := RandomizedRateProvider{BaseRatePercent: tt.base, DeviationPercent: tt.dev}.Bounds()
			assert.InDelta(t, tt.wantLo, lo, 1e-12)
			assert.InDelta(t, tt.wantHi, hi, 1e-12)
		})
	}
}

func TestRandomizedRateProvider_SamplesWithinBounds(t *testing.T) {
	p := RandomizedRateProvider{BaseRatePercent: 10, DeviationPercent: 150, Source: rand.New(rand.NewSource(5))}
	rates := p.YearlyRates(500)

	assert.Len(t, rates, 500)
	distinct := map[float64]bool{}
	for _, r := range rates {
		assert.GreaterOrEqual(t, r, 0.0)
		assert.Less(t, r, 0.25)
		distinct[r] = true
	}
	assert.Greater(t, len(distinct), 400, "samples should vary")
}

func TestRandomizedRateProvider_UsesSourceLinearly(t *testing.T) {
	src := &countingSource{value: 0.5}
	rates := RandomizedRateProvider{BaseRatePercent: 6, DeviationPercent: 50, Source: src}.YearlyRates(3)

	assert.Equal(t, 3, src.calls)
	for _, r := range rates {
		assert.InDelta(t, 0.06, r, 1e-12)
	}
}

func TestRandomizedRateProvider_ZeroDeviationConsumesNoEntropy(t *testing.T) {
	src := &countingSource{value: 0.9}
	rates := RandomizedRateProvider{BaseRatePercent: 4, Source: src}.YearlyRates(10)

	assert.Equal(t, 0, src.calls)
	assert.Equal(t, FixedRateProvider{AnnualRatePercent: 4}.YearlyRates(10), rates)
}

func TestNewRateProvider(t *testing.T) {
	src := rand.New(rand.NewSource(1))

	assert.IsType(t, FixedRateProvider{}, NewRateProvider(domain.RateSpec{AnnualRatePercent: 5}, src))
	assert.IsType(t, FixedRateProvider{}, NewRateProvider(domain.RateSpec{Mode: domain.RateModeRandomized, AnnualRatePercent: 5}, src))
	assert.IsType(t, RandomizedRateProvider{},
		NewRateProvider(domain.RateSpec{Mode: domain.RateModeRandomized, AnnualRatePercent: 5, DeviationPercent: 10}, src))
}

func TestRateAt(t *testing.T) {
	assert.Equal(t, 0.0, rateAt(nil, 3))
	assert.Equal(t, 0.02, rateAt([]float64{0.01, 0.02}, 1))
	assert.Equal(t, 0.02, rateAt([]float64{0.01, 0.02}, 7), "short series holds the last rate")
}
