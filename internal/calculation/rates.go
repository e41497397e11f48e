package calculation

import (
	"math"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// UniformSource yields uniform samples in [0, 1). *rand.Rand satisfies it.
type UniformSource interface {
	Float64() float64
}

// RateProvider produces one decimal annual rate per projection year.
// Index 0 is year 1.
type RateProvider interface {
	YearlyRates(horizonYears int) []float64
}

// FixedRateProvider repeats the same rate every year.
type FixedRateProvider struct {
	AnnualRatePercent float64
}

// YearlyRates implements RateProvider.
func (p FixedRateProvider) YearlyRates(horizonYears int) []float64 {
	if horizonYears <= 0 {
		return nil
	}
	rate := p.AnnualRatePercent / 100
	rates := make([]float64, horizonYears)
	for i := range rates {
		rates[i] = rate
	}
	return rates
}

// RandomizedRateProvider samples each year independently and uniformly from
// [max(0, base - base*dev), base + base*dev] percent.
type RandomizedRateProvider struct {
	BaseRatePercent  float64
	DeviationPercent float64
	Source           UniformSource
}

// Bounds returns the sampling interval in percent.
func (p RandomizedRateProvider) Bounds() (minPercent, maxPercent float64) {
	spread := p.BaseRatePercent * (p.DeviationPercent / 100)
	return math.Max(0, p.BaseRatePercent-spread), p.BaseRatePercent + spread
}

// YearlyRates implements RateProvider. With zero deviation or no source it
// returns the fixed series without consuming entropy.
func (p RandomizedRateProvider) YearlyRates(horizonYears int) []float64 {
	if p.DeviationPercent <= 0 || p.Source == nil {
		return FixedRateProvider{AnnualRatePercent: p.BaseRatePercent}.YearlyRates(horizonYears)
	}
	if horizonYears <= 0 {
		return nil
	}
	lo, hi := p.Bounds()
	rates := make([]float64, horizonYears)
	for i := range rates {
		rates[i] = (lo + p.Source.Float64()*(hi-lo)) / 100
	}
	return rates
}

// NewRateProvider selects the provider variant described by spec.
func NewRateProvider(spec domain.RateSpec, src UniformSource) RateProvider {
	if spec.IsRandomized() {
		return RandomizedRateProvider{
			BaseRatePercent:  spec.AnnualRatePercent,
			DeviationPercent: spec.DeviationPercent,
			Source:           src,
		}
	}
	return FixedRateProvider{AnnualRatePercent: spec.AnnualRatePercent}
}
