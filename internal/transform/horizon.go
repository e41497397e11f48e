package transform

import (
	"fmt"

	"github.com/rgehrsitz/dcaplan/internal/config"
	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// SetYears replaces the accumulation length.
type SetYears struct {
	Years float64
}

func (sy *SetYears) Name() string { return "set_years" }

func (sy *SetYears) Description() string {
	return fmt.Sprintf("Accumulate for %g years", sy.Years)
}

func (sy *SetYears) Validate(base *domain.Parameters) error {
	if sy.Years <= 0 {
		return NewTransformError(sy.Name(), "validate", fmt.Sprintf("years must be positive, got %g", sy.Years), nil)
	}
	return requireBase(sy.Name(), base)
}

func (sy *SetYears) Apply(base *domain.Parameters) (*domain.Parameters, error) {
	modified := copyOf(base)
	modified.AccumulationYears = sy.Years
	return modified, nil
}

// ExtendYears lengthens (or, with a negative value, shortens) accumulation.
type ExtendYears struct {
	Years float64
}

func (ey *ExtendYears) Name() string { return "extend_years" }

func (ey *ExtendYears) Description() string {
	if ey.Years < 0 {
		return fmt.Sprintf("Stop contributing %g years earlier", -ey.Years)
	}
	return fmt.Sprintf("Keep contributing %g years longer", ey.Years)
}

func (ey *ExtendYears) Validate(base *domain.Parameters) error {
	if err := requireBase(ey.Name(), base); err != nil {
		return err
	}
	if base.AccumulationYears+ey.Years <= 0 {
		return NewTransformError(ey.Name(), "validate",
			fmt.Sprintf("accumulation would be %g years", base.AccumulationYears+ey.Years), nil)
	}
	return nil
}

func (ey *ExtendYears) Apply(base *domain.Parameters) (*domain.Parameters, error) {
	modified := copyOf(base)
	modified.AccumulationYears += ey.Years
	return modified, nil
}

// SetWithdrawalRate replaces the yearly withdrawal percentage. 0 disables decumulation.
type SetWithdrawalRate struct {
	RatePercent float64
}

func (sw *SetWithdrawalRate) Name() string { return "set_withdrawal_rate" }

func (sw *SetWithdrawalRate) Description() string {
	if sw.RatePercent == 0 {
		return "Disable withdrawals"
	}
	return fmt.Sprintf("Withdraw %.2f%% of the balance each year", sw.RatePercent)
}

func (sw *SetWithdrawalRate) Validate(base *domain.Parameters) error {
	if sw.RatePercent < 0 || sw.RatePercent > config.MaxWithdrawalRatePercent {
		return NewTransformError(sw.Name(), "validate",
			fmt.Sprintf("withdrawal rate must be between 0 and %d, got %.2f", config.MaxWithdrawalRatePercent, sw.RatePercent), nil)
	}
	return requireBase(sw.Name(), base)
}

func (sw *SetWithdrawalRate) Apply(base *domain.Parameters) (*domain.Parameters, error) {
	modified := copyOf(base)
	modified.WithdrawalRatePercent = sw.RatePercent
	return modified, nil
}

// SetCompounding replaces the number of compounding events per year.
type SetCompounding struct {
	PerYear int
}

func (sc *SetCompounding) Name() string { return "set_compounding" }

func (sc *SetCompounding) Description() string {
	return fmt.Sprintf("Compound %d times per year", sc.PerYear)
}

func (sc *SetCompounding) Validate(base *domain.Parameters) error {
	if sc.PerYear < 1 || sc.PerYear > config.MaxCompoundsPerYear {
		return NewTransformError(sc.Name(), "validate",
			fmt.Sprintf("compounding must be between 1 and %d, got %d", config.MaxCompoundsPerYear, sc.PerYear), nil)
	}
	return requireBase(sc.Name(), base)
}

func (sc *SetCompounding) Apply(base *domain.Parameters) (*domain.Parameters, error) {
	modified := copyOf(base)
	modified.CompoundsPerYear = sc.PerYear
	return modified, nil
}
