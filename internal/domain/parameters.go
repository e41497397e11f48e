package domain

import (
	"fmt"
	"math"
)

// DecumulationYears is the fixed length of the withdrawal phase.
const DecumulationYears = 50

// DefaultAccumulationYears is used when the accumulation length is zero or invalid.
const DefaultAccumulationYears = 10

// DefaultCompoundsPerYear is used when the compounding frequency is zero or invalid.
const DefaultCompoundsPerYear = 1

// Upper bounds of the parameter domain. Together they keep every balance of a
// projection finite: the largest yearly growth, at the randomized ceiling of
// twice the maximum rate with daily compounding, stays below e^2, and over a
// 150-year horizon that cannot overflow a float64.
const (
	MaxAmount                = 1_000_000_000_000
	MaxAnnualRatePercent     = 100
	MaxDeviationPercent      = 100
	MaxCompoundsPerYear      = 365
	MaxAccumulationYears     = 100
	MaxWithdrawalRatePercent = 100
)

// MonthsPerYear converts an annual withdrawal into its monthly equivalent.
const MonthsPerYear = 12

// ContributionPeriod is the cadence of deposits during accumulation.
type ContributionPeriod string

const (
	PeriodMonthly ContributionPeriod = "monthly"
	PeriodWeekly  ContributionPeriod = "weekly"
)

// PeriodsPerYear returns 52 for weekly plans and 12 otherwise.
func (p ContributionPeriod) PeriodsPerYear() int {
	if p == PeriodWeekly {
		return 52
	}
	return 12
}

// Valid reports whether p is a known period. The empty value is accepted and means monthly.
func (p ContributionPeriod) Valid() bool {
	switch p {
	case "", PeriodMonthly, PeriodWeekly:
		return true
	}
	return false
}

// RateMode selects how the yearly rate series is produced.
type RateMode string

const (
	RateModeFixed      RateMode = "fixed"
	RateModeRandomized RateMode = "randomized"
)

// Valid reports whether m is a known rate mode. The empty value means fixed.
func (m RateMode) Valid() bool {
	switch m {
	case "", RateModeFixed, RateModeRandomized:
		return true
	}
	return false
}

// RateSpec configures the annual rate of return.
type RateSpec struct {
	Mode              RateMode `yaml:"mode" json:"mode"`
	AnnualRatePercent float64  `yaml:"annual_rate_percent" json:"annualRatePercent"`
	// DeviationPercent is a fraction of the base rate, in percent (20 means the
	// sampled rate lies within base ± 20% of base). Ignored in fixed mode.
	DeviationPercent float64 `yaml:"deviation_percent,omitempty" json:"deviationPercent,omitempty"`
}

// IsRandomized reports whether the spec produces a random series. A randomized
// spec with zero deviation behaves exactly like a fixed one.
func (r RateSpec) IsRandomized() bool {
	return r.Mode == RateModeRandomized && r.DeviationPercent > 0
}

// Parameters is the complete input of one projection.
type Parameters struct {
	Principal             float64            `yaml:"principal" json:"principal"`
	Rate                  RateSpec           `yaml:"rate" json:"rate"`
	CompoundsPerYear      int                `yaml:"compounds_per_year" json:"compoundsPerYear"`
	ContributionAmount    float64            `yaml:"contribution_amount" json:"contributionAmount"`
	ContributionPeriod    ContributionPeriod `yaml:"contribution_period" json:"contributionPeriod"`
	AccumulationYears     float64            `yaml:"accumulation_years" json:"accumulationYears"`
	WithdrawalRatePercent float64            `yaml:"withdrawal_rate_percent" json:"withdrawalRatePercent"`
}

// Normalized returns a copy with boundary defaults applied: negative or
// non-finite amounts become 0, a non-positive compounding frequency becomes 1
// and a non-positive or non-finite accumulation length becomes 10. Values
// above the Max* bounds are clamped to them.
func (p Parameters) Normalized() Parameters {
	p.Principal = bounded(p.Principal, MaxAmount)
	p.ContributionAmount = bounded(p.ContributionAmount, MaxAmount)
	p.WithdrawalRatePercent = bounded(p.WithdrawalRatePercent, MaxWithdrawalRatePercent)
	p.Rate.AnnualRatePercent = bounded(p.Rate.AnnualRatePercent, MaxAnnualRatePercent)
	p.Rate.DeviationPercent = bounded(p.Rate.DeviationPercent, MaxDeviationPercent)

	if p.CompoundsPerYear <= 0 {
		p.CompoundsPerYear = DefaultCompoundsPerYear
	}
	if p.CompoundsPerYear > MaxCompoundsPerYear {
		p.CompoundsPerYear = MaxCompoundsPerYear
	}
	if p.AccumulationYears <= 0 || math.IsNaN(p.AccumulationYears) || math.IsInf(p.AccumulationYears, 0) {
		p.AccumulationYears = DefaultAccumulationYears
	}
	p.AccumulationYears = math.Min(p.AccumulationYears, MaxAccumulationYears)
	if p.ContributionPeriod == "" || !p.ContributionPeriod.Valid() {
		p.ContributionPeriod = PeriodMonthly
	}
	if p.Rate.Mode == "" || !p.Rate.Mode.Valid() {
		p.Rate.Mode = RateModeFixed
	}
	return p
}

// PeriodsPerYear is the number of contribution periods in one year.
func (p Parameters) PeriodsPerYear() int {
	return p.ContributionPeriod.PeriodsPerYear()
}

// TotalPeriods is round(accumulationYears × periodsPerYear).
func (p Parameters) TotalPeriods() int {
	return int(math.Round(p.AccumulationYears * float64(p.PeriodsPerYear())))
}

// AccumulationRateYears is the number of rate-series entries consumed by the
// accumulation phase, counting a trailing partial year as a full one. For a
// whole number of years it equals AccumulationYears.
func (p Parameters) AccumulationRateYears() int {
	ppy := p.PeriodsPerYear()
	return (p.TotalPeriods() + ppy - 1) / ppy
}

// HorizonYears is the length of the yearly rate series for the whole plan.
func (p Parameters) HorizonYears() int {
	return p.AccumulationRateYears() + DecumulationYears
}

// WithdrawalEnabled reports whether the decumulation phase runs.
func (p Parameters) WithdrawalEnabled() bool {
	return p.WithdrawalRatePercent > 0
}

// Describe renders a one-line human summary used in logs and reports.
func (p Parameters) Describe() string {
	rate := fmt.Sprintf("%.2f%%", p.Rate.AnnualRatePercent)
	if p.Rate.IsRandomized() {
		rate = fmt.Sprintf("%.2f%% ±%.0f%%", p.Rate.AnnualRatePercent, p.Rate.DeviationPercent)
	}
	return fmt.Sprintf("principal=%.2f rate=%s n=%d contribution=%.2f/%s years=%g withdraw=%.2f%%",
		p.Principal, rate, p.CompoundsPerYear, p.ContributionAmount, p.ContributionPeriod,
		p.AccumulationYears, p.WithdrawalRatePercent)
}

// bounded maps negative and non-finite values to 0 and caps the rest at limit.
func bounded(v, limit float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return math.Min(v, limit)
}
