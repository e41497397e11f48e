package breakeven

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/shopspring/decimal"
)

// SolveTarget names the parameter the solver searches for
type SolveTarget string

const (
	// TargetContribution is the smallest periodic contribution reaching a target future value.
	TargetContribution SolveTarget = "contribution"
	// TargetYears is the fewest whole accumulation years reaching a target future value.
	TargetYears SolveTarget = "years"
	// TargetWithdrawalRate is the withdrawal rate paying a target first-year monthly withdrawal.
	TargetWithdrawalRate SolveTarget = "withdrawal_rate"
	// TargetSustainableRate is the highest withdrawal rate that preserves capital over the withdrawal phase.
	TargetSustainableRate SolveTarget = "sustainable_rate"
)

// AllTargets lists the supported targets in display order.
func AllTargets() []SolveTarget {
	return []SolveTarget{TargetContribution, TargetYears, TargetWithdrawalRate, TargetSustainableRate}
}

// ParseTarget resolves a target name, accepting dashes for underscores.
func ParseTarget(s string) (SolveTarget, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, t := range AllTargets() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", &BreakEvenError{
		Operation: "parse_target",
		Message:   fmt.Sprintf("unknown target %q", s),
	}
}

// Unit is the unit of the solved value.
func (t SolveTarget) Unit() string {
	switch t {
	case TargetContribution:
		return "amount"
	case TargetYears:
		return "years"
	default:
		return "percent"
	}
}

// Constraints define bounds and goals for a solve
type Constraints struct {
	// Search bounds for the solved parameter. Nil means the target's default.
	MinValue *decimal.Decimal `json:"min_value,omitempty"`
	MaxValue *decimal.Decimal `json:"max_value,omitempty"`

	// Goal for contribution and years
	TargetFutureValue *decimal.Decimal `json:"target_future_value,omitempty"`
	// Goal for withdrawal_rate
	TargetMonthlyWithdrawal *decimal.Decimal `json:"target_monthly_withdrawal,omitempty"`
}

// Validate checks that the constraints are consistent and carry the goal target needs
func (c *Constraints) Validate(target SolveTarget) error {
	invalid := func(msg string) error {
		return &BreakEvenError{Operation: "validate_constraints", Message: msg}
	}

	if c.MinValue != nil && c.MinValue.IsNegative() {
		return invalid("min_value cannot be negative")
	}
	if c.MinValue != nil && c.MaxValue != nil && c.MinValue.GreaterThan(*c.MaxValue) {
		return invalid("min_value cannot be greater than max_value")
	}

	switch target {
	case TargetContribution, TargetYears:
		if c.TargetFutureValue == nil || !c.TargetFutureValue.IsPositive() {
			return invalid(fmt.Sprintf("%s requires a positive target future value", target))
		}
	case TargetWithdrawalRate:
		if c.TargetMonthlyWithdrawal == nil || !c.TargetMonthlyWithdrawal.IsPositive() {
			return invalid("withdrawal_rate requires a positive target monthly withdrawal")
		}
	}

	if target == TargetWithdrawalRate || target == TargetSustainableRate {
		if c.MaxValue != nil && c.MaxValue.GreaterThan(decimal.NewFromInt(100)) {
			return invalid("max_value cannot exceed 100 percent")
		}
	}

	return nil
}

// SolveRequest defines the parameters for a solve
type SolveRequest struct {
	Base          domain.Parameters `json:"base"`
	ScenarioName  string            `json:"scenario_name"`
	Seed          int64             `json:"seed"` // pins the rate series of randomized plans
	Target        SolveTarget       `json:"target"`
	Constraints   Constraints       `json:"constraints"`
	MaxIterations int               `json:"max_iterations"`
	Tolerance     decimal.Decimal   `json:"tolerance"` // width of the final search interval
}

// SolveResult contains the outcome of a solve
type SolveResult struct {
	Request         SolveRequest `json:"request"`
	Success         bool         `json:"success"`
	Iterations      int          `json:"iterations"`
	ConvergenceInfo string       `json:"convergence_info"`

	OptimalValue decimal.Decimal   `json:"optimal_value"`
	Unit         string            `json:"unit"`
	Parameters   domain.Parameters `json:"parameters"`

	// Results at the solved value
	ScenarioSummary            *domain.ScenarioSummary `json:"-"`
	FutureValue                decimal.Decimal         `json:"future_value"`
	FirstYearMonthlyWithdrawal decimal.Decimal         `json:"first_year_monthly_withdrawal"`
	FinalBalance               decimal.Decimal         `json:"final_balance"`

	// Comparison to the unmodified plan
	BaseScenarioSummary           *domain.ScenarioSummary `json:"-"`
	BaseValue                     decimal.Decimal         `json:"base_value"`
	FutureValueDiffFromBase       decimal.Decimal         `json:"future_value_diff_from_base"`
	MonthlyWithdrawalDiffFromBase decimal.Decimal         `json:"monthly_withdrawal_diff_from_base"`
}

// MultiTargetResult contains the results of solving several targets for one plan
type MultiTargetResult struct {
	Results         []SolveResult `json:"results"`
	Failures        []string      `json:"failures,omitempty"`
	Recommendations []string      `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Convergence width of the search interval
	MaxIterations int             // Maximum evaluations per solve
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromFloat(0.0001),
		MaxIterations: 100,
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
