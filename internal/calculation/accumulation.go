package calculation

import (
	"math"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// AccumulationOutcome is the state at the end of the contribution phase.
type AccumulationOutcome struct {
	Balance           float64
	TotalContribution float64
	Schedule          []domain.ScheduleRow
}

// InterestEarned is the balance in excess of everything paid in.
func (a AccumulationOutcome) InterestEarned() float64 {
	return a.Balance - a.TotalContribution
}

// PeriodGrowthFactor is the growth over one contribution period for an annual
// rate compounded n times a year: (1 + rate/n)^(n/periodsPerYear). The
// exponent may be fractional when n does not divide periodsPerYear.
func PeriodGrowthFactor(rate float64, compoundsPerYear, periodsPerYear int) float64 {
	n := float64(compoundsPerYear)
	return math.Pow(1+rate/n, n/float64(periodsPerYear))
}

// SimulateAccumulation runs the period loop. Each period grows the balance
// first and then adds the contribution. A schedule row is emitted at the end
// of every full year; a trailing partial year emits no row.
func SimulateAccumulation(p domain.Parameters, rates []float64) AccumulationOutcome {
	ppy := p.PeriodsPerYear()
	totalPeriods := p.TotalPeriods()

	balance := p.Principal
	totalContribution := p.Principal
	schedule := make([]domain.ScheduleRow, 0, totalPeriods/ppy)

	for period := 1; period <= totalPeriods; period++ {
		yearIndex := (period+ppy-1)/ppy - 1
		rate := rateAt(rates, yearIndex)

		balance *= PeriodGrowthFactor(rate, p.CompoundsPerYear, ppy)
		balance += p.ContributionAmount
		totalContribution += p.ContributionAmount

		if period%ppy == 0 {
			schedule = append(schedule, domain.ScheduleRow{
				Year:              period / ppy,
				RatePercent:       rate * 100,
				TotalContribution: totalContribution,
				InterestEarned:    balance - totalContribution,
				EndingBalance:     balance,
			})
		}
	}

	return AccumulationOutcome{
		Balance:           balance,
		TotalContribution: totalContribution,
		Schedule:          schedule,
	}
}

// rateAt returns rates[i], holding the last rate when the series is short.
func rateAt(rates []float64, i int) float64 {
	if len(rates) == 0 {
		return 0
	}
	if i >= len(rates) {
		return rates[len(rates)-1]
	}
	return rates[i]
}
