package output

import (
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName string
	FutureValue  decimal.Decimal
	// Change is measured against the first scenario in the comparison.
	FutureValueChange decimal.Decimal
	PercentageChange  decimal.Decimal
	// BestIncomeScenario has the largest first-year monthly withdrawal.
	BestIncomeScenario string
	MonthlyWithdrawal  decimal.Decimal
}

// AnalyzeScenarios picks the scenario with the highest future value.
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	if results == nil || len(results.Scenarios) == 0 {
		return Recommendation{}
	}

	baseline := results.Scenarios[0].FutureValue
	best := results.Scenarios[0]
	income := results.Scenarios[0]
	for _, sc := range results.Scenarios[1:] {
		if sc.FutureValue.GreaterThan(best.FutureValue) {
			best = sc
		}
		if sc.FirstYearMonthlyWithdrawal.GreaterThan(income.FirstYearMonthlyWithdrawal) {
			income = sc
		}
	}

	delta := best.FutureValue.Sub(baseline)
	pct := decimal.Zero
	if !baseline.IsZero() {
		pct = delta.Div(baseline).Mul(decimal.NewFromInt(100))
	}
	return Recommendation{
		ScenarioName:       best.Name,
		FutureValue:        best.FutureValue,
		FutureValueChange:  delta,
		PercentageChange:   pct,
		BestIncomeScenario: income.Name,
		MonthlyWithdrawal:  income.FirstYearMonthlyWithdrawal,
	}
}
