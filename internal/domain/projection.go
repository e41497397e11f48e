package domain

import (
	"github.com/shopspring/decimal"
)

// ScheduleRow is the state of the plan at the end of one full accumulation year.
type ScheduleRow struct {
	Year              int     `json:"year"`
	RatePercent       float64 `json:"ratePercent"`
	TotalContribution float64 `json:"totalContribution"` // principal plus every deposit so far
	InterestEarned    float64 `json:"interestEarned"`    // may be negative
	EndingBalance     float64 `json:"endingBalance"`
}

// WithdrawalRow is one year of the decumulation phase.
type WithdrawalRow struct {
	YearFromStart      int     `json:"yearFromStart"`
	RatePercent        float64 `json:"ratePercent"`
	StartOfYearBalance float64 `json:"startOfYearBalance"`
	WithdrawAmount     float64 `json:"withdrawAmount"`
	MonthlyWithdraw    float64 `json:"monthlyWithdraw"`
	EndingBalance      float64 `json:"endingBalance"` // may be negative
}

// ProjectionResult is the immutable output of one projection.
type ProjectionResult struct {
	// FutureValue is the balance at the end of accumulation, before any withdrawal.
	FutureValue       float64         `json:"futureValue"`
	TotalContribution float64         `json:"totalContribution"`
	InterestEarned    float64         `json:"interestEarned"`
	Schedule          []ScheduleRow   `json:"schedule"`
	WithdrawSchedule  []WithdrawalRow `json:"withdrawSchedule"`
	TotalWithdrawn    float64         `json:"totalWithdrawn"`
	// FinalBalance is the balance after the last decumulation year, or
	// FutureValue when decumulation is disabled.
	FinalBalance float64   `json:"finalBalance"`
	YearlyRates  []float64 `json:"yearlyRates"`
}

// FirstYearMonthlyWithdrawal returns the monthly withdrawal of decumulation year one, or 0.
func (r ProjectionResult) FirstYearMonthlyWithdrawal() float64 {
	if len(r.WithdrawSchedule) == 0 {
		return 0
	}
	return r.WithdrawSchedule[0].MonthlyWithdraw
}

// DepletionYear returns the label of the first decumulation year that ends at
// or below zero, or 0 if the balance never runs out.
func (r ProjectionResult) DepletionYear() int {
	for _, row := range r.WithdrawSchedule {
		if row.EndingBalance <= 0 {
			return row.YearFromStart
		}
	}
	return 0
}

// CapitalPreserved reports whether the balance after decumulation is at least
// the balance the phase started with.
func (r ProjectionResult) CapitalPreserved() bool {
	return r.FinalBalance >= r.FutureValue
}

// ScenarioSummary provides the key metrics of one projected scenario.
type ScenarioSummary struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Parameters  Parameters `json:"parameters"`
	Seed        int64      `json:"seed"`

	FutureValue                decimal.Decimal `json:"futureValue"`
	TotalContribution          decimal.Decimal `json:"totalContribution"`
	InterestEarned             decimal.Decimal `json:"interestEarned"`
	TotalWithdrawn             decimal.Decimal `json:"totalWithdrawn"`
	FinalBalance               decimal.Decimal `json:"finalBalance"`
	FirstYearMonthlyWithdrawal decimal.Decimal `json:"firstYearMonthlyWithdrawal"`
	AverageRatePercent         decimal.Decimal `json:"averageRatePercent"`
	DepletionYear              int             `json:"depletionYear"`

	Result ProjectionResult `json:"result"`
}

// NewScenarioSummary derives the summary metrics from a projection result.
func NewScenarioSummary(name string, params Parameters, seed int64, result ProjectionResult) ScenarioSummary {
	var avg float64
	if len(result.YearlyRates) > 0 {
		for _, r := range result.YearlyRates {
			avg += r
		}
		avg = avg / float64(len(result.YearlyRates)) * 100
	}
	return ScenarioSummary{
		Name:                       name,
		Parameters:                 params,
		Seed:                       seed,
		FutureValue:                Money(result.FutureValue),
		TotalContribution:          Money(result.TotalContribution),
		InterestEarned:             Money(result.InterestEarned),
		TotalWithdrawn:             Money(result.TotalWithdrawn),
		FinalBalance:               Money(result.FinalBalance),
		FirstYearMonthlyWithdrawal: Money(result.FirstYearMonthlyWithdrawal()),
		AverageRatePercent:         decimal.NewFromFloat(avg).Round(4),
		DepletionYear:              result.DepletionYear(),
		Result:                     result,
	}
}

// ScenarioComparison collects the summaries of every scenario in a plan.
type ScenarioComparison struct {
	Scenarios   []ScenarioSummary `json:"scenarios"`
	Assumptions []string          `json:"assumptions"`
}

// Money converts an engine amount to a decimal rounded to cents.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
