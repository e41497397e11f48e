package calculation

import (
	"testing"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateWithdrawal_FirstYear(t *testing.T) {
	rates := FixedRateProvider{AnnualRatePercent: 5}.YearlyRates(domain.DecumulationYears)

	out := SimulateWithdrawal(100000, 0, rates, 1, 4)

	require.Len(t, out.Schedule, domain.DecumulationYears)
	first := out.Schedule[0]
	assert.Equal(t, 1, first.YearFromStart)
	assert.InDelta(t, 100000, first.StartOfYearBalance, 1e-9)
	assert.InDelta(t, 4200, first.WithdrawAmount, 1e-9)
	assert.InDelta(t, 350, first.MonthlyWithdraw, 1e-9)
	assert.InDelta(t, 100800, first.EndingBalance, 1e-6)

	// rate above withdrawal: the balance grows every year
	for i := 1; i < len(out.Schedule); i++ {
		assert.Greater(t, out.Schedule[i].EndingBalance, out.Schedule[i-1].EndingBalance)
		assert.Equal(t, out.Schedule[i-1].EndingBalance, out.Schedule[i].StartOfYearBalance)
	}
}

func TestSimulateWithdrawal_TotalsMatchSchedule(t *testing.T) {
	rates := FixedRateProvider{AnnualRatePercent: 3}.YearlyRates(60)
	out := SimulateWithdrawal(50000, 10, rates, 12, 6)

	var sum float64
	for _, row := range out.Schedule {
		sum += row.WithdrawAmount
	}
	assert.InDelta(t, sum, out.TotalWithdrawn, 1e-6)
	assert.Equal(t, out.Schedule[len(out.Schedule)-1].EndingBalance, out.Balance)
	assert.Equal(t, 11, out.Schedule[0].YearFromStart)
	assert.Equal(t, 60, out.Schedule[49].YearFromStart)
}

func TestSimulateWithdrawal_Disabled(t *testing.T) {
	out := SimulateWithdrawal(1234, 5, []float64{0.05}, 1, 0)

	assert.NotNil(t, out.Schedule)
	assert.Empty(t, out.Schedule)
	assert.Equal(t, 1234.0, out.Balance)
	assert.Equal(t, 0.0, out.TotalWithdrawn)
}

func TestSimulateWithdrawal_NegativeBalanceIsKept(t *testing.T) {
	out := SimulateWithdrawal(-1000, 0, []float64{0.05}, 1, 10)

	assert.Less(t, out.Balance, 0.0)
	assert.Less(t, out.TotalWithdrawn, 0.0)
	assert.Equal(t, 1, domain.ProjectionResult{WithdrawSchedule: out.Schedule}.DepletionYear())
}

func TestGrowthFactors(t *testing.T) {
	assert.InDelta(t, 1.05, AnnualGrowthFactor(0.05, 1), 1e-12)
	assert.InDelta(t, 1.0511619, AnnualGrowthFactor(0.05, 12), 1e-7)
	assert.InDelta(t, 1.005, PeriodGrowthFactor(0.06, 12, 12), 1e-12)

	// compounding annually, growing monthly: twelve periods make one year
	f := PeriodGrowthFactor(0.05, 1, 12)
	y := 1.0
	for i := 0; i < 12; i++ {
		y *= f
	}
	assert.InDelta(t, 1.05, y, 1e-12)
}
