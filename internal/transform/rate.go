package transform

import (
	"fmt"

	"github.com/rgehrsitz/dcaplan/internal/config"
	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// SetRate replaces the base annual rate.
type SetRate struct {
	RatePercent float64
}

func (sr *SetRate) Name() string { return "set_rate" }

func (sr *SetRate) Description() string {
	return fmt.Sprintf("Set the annual rate to %.2f%%", sr.RatePercent)
}

func (sr *SetRate) Validate(base *domain.Parameters) error {
	if sr.RatePercent < 0 {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("rate must not be negative, got %.2f", sr.RatePercent), nil)
	}
	return requireBase(sr.Name(), base)
}

func (sr *SetRate) Apply(base *domain.Parameters) (*domain.Parameters, error) {
	modified := copyOf(base)
	modified.Rate.AnnualRatePercent = sr.RatePercent
	return modified, nil
}

// AdjustRate shifts the base annual rate by a number of percentage points.
// The result is floored at 0.
type AdjustRate struct {
	DeltaPercent float64
}

func (ar *AdjustRate) Name() string { return "adjust_rate" }

func (ar *AdjustRate) Description() string {
	return fmt.Sprintf("Adjust the annual rate by %+.2f points", ar.DeltaPercent)
}

func (ar *AdjustRate) Validate(base *domain.Parameters) error {
	return requireBase(ar.Name(), base)
}

func (ar *AdjustRate) Apply(base *domain.Parameters) (*domain.Parameters, error) {
	modified := copyOf(base)
	modified.Rate.AnnualRatePercent = max(0, modified.Rate.AnnualRatePercent+ar.DeltaPercent)
	return modified, nil
}

// Randomize switches the plan to randomized rates with the given deviation.
// A zero deviation switches back to a fixed rate.
type Randomize struct {
	DeviationPercent float64
}

func (r *Randomize) Name() string { return "randomize" }

func (r *Randomize) Description() string {
	if r.DeviationPercent == 0 {
		return "Use a fixed annual rate"
	}
	return fmt.Sprintf("Randomize yearly rates within ±%.0f%% of the base rate", r.DeviationPercent)
}

func (r *Randomize) Validate(base *domain.Parameters) error {
	if r.DeviationPercent < 0 || r.DeviationPercent > config.MaxDeviationPercent {
		return NewTransformError(r.Name(), "validate",
			fmt.Sprintf("deviation must be between 0 and %d, got %.2f", config.MaxDeviationPercent, r.DeviationPercent), nil)
	}
	return requireBase(r.Name(), base)
}

func (r *Randomize) Apply(base *domain.Parameters) (*domain.Parameters, error) {
	modified := copyOf(base)
	if r.DeviationPercent == 0 {
		modified.Rate.Mode = domain.RateModeFixed
		modified.Rate.DeviationPercent = 0
		return modified, nil
	}
	modified.Rate.Mode = domain.RateModeRandomized
	modified.Rate.DeviationPercent = r.DeviationPercent
	return modified, nil
}
