package transform

import (
	"fmt"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// SetContribution replaces the per-period contribution.
type SetContribution struct {
	Amount float64
}

func (sc *SetContribution) Name() string { return "set_contribution" }

func (sc *SetContribution) Description() string {
	return fmt.Sprintf("Contribute %.2f per period", sc.Amount)
}

func (sc *SetContribution) Validate(base *domain.Parameters) error {
	if sc.Amount < 0 {
		return NewTransformError(sc.Name(), "validate", "amount must not be negative", nil)
	}
	return requireBase(sc.Name(), base)
}

func (sc *SetContribution) Apply(base *domain.Parameters) (*domain.Parameters, error) {
	modified := copyOf(base)
	modified.ContributionAmount = sc.Amount
	return modified, nil
}

// ScaleContribution multiplies the per-period contribution.
type ScaleContribution struct {
	Factor float64
}

func (sc *ScaleContribution) Name() string { return "scale_contribution" }

func (sc *ScaleContribution) Description() string {
	return fmt.Sprintf("Scale the contribution by %gx", sc.Factor)
}

func (sc *ScaleContribution) Validate(base *domain.Parameters) error {
	if sc.Factor < 0 {
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("factor must not be negative, got %g", sc.Factor), nil)
	}
	return requireBase(sc.Name(), base)
}

func (sc *ScaleContribution) Apply(base *domain.Parameters) (*domain.Parameters, error) {
	modified := copyOf(base)
	modified.ContributionAmount *= sc.Factor
	return modified, nil
}

// SetPeriod switches between monthly and weekly contributions. The amount per
// period is kept as is.
type SetPeriod struct {
	Period domain.ContributionPeriod
}

func (sp *SetPeriod) Name() string { return "set_period" }

func (sp *SetPeriod) Description() string {
	return fmt.Sprintf("Contribute %s", sp.Period)
}

func (sp *SetPeriod) Validate(base *domain.Parameters) error {
	if sp.Period == "" || !sp.Period.Valid() {
		return NewTransformError(sp.Name(), "validate", fmt.Sprintf("invalid period %q", sp.Period), nil)
	}
	return requireBase(sp.Name(), base)
}

func (sp *SetPeriod) Apply(base *domain.Parameters) (*domain.Parameters, error) {
	modified := copyOf(base)
	modified.ContributionPeriod = sp.Period
	return modified, nil
}
