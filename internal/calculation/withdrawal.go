package calculation

import (
	"math"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// WithdrawalOutcome is the state after the decumulation phase.
type WithdrawalOutcome struct {
	Balance        float64
	TotalWithdrawn float64
	Schedule       []domain.WithdrawalRow
}

// AnnualGrowthFactor is (1 + rate/n)^n.
func AnnualGrowthFactor(rate float64, compoundsPerYear int) float64 {
	n := float64(compoundsPerYear)
	return math.Pow(1+rate/n, n)
}

// SimulateWithdrawal runs the fixed 50-year decumulation phase starting from
// startBalance. Year i (1-based) is labelled startYear+i and uses
// rates[startYear+i-1]. Each year grows the balance for a full year before
// withdrawing withdrawalRatePercent of the grown balance. The balance is
// never floored at zero. A non-positive withdrawal rate disables the phase.
func SimulateWithdrawal(startBalance float64, startYear int, rates []float64, compoundsPerYear int, withdrawalRatePercent float64) WithdrawalOutcome {
	if withdrawalRatePercent <= 0 {
		return WithdrawalOutcome{Balance: startBalance, Schedule: []domain.WithdrawalRow{}}
	}

	w := withdrawalRatePercent / 100
	balance := startBalance
	var total float64
	schedule := make([]domain.WithdrawalRow, 0, domain.DecumulationYears)

	for i := 1; i <= domain.DecumulationYears; i++ {
		rate := rateAt(rates, startYear+i-1)
		start := balance

		balance *= AnnualGrowthFactor(rate, compoundsPerYear)
		amount := balance * w
		balance -= amount
		total += amount

		schedule = append(schedule, domain.WithdrawalRow{
			YearFromStart:      startYear + i,
			RatePercent:        rate * 100,
			StartOfYearBalance: start,
			WithdrawAmount:     amount,
			MonthlyWithdraw:    amount / domain.MonthsPerYear,
			EndingBalance:      balance,
		})
	}

	return WithdrawalOutcome{
		Balance:        balance,
		TotalWithdrawn: total,
		Schedule:       schedule,
	}
}
