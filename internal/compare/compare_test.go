package compare

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

func testConfig() *domain.Configuration {
	randomized := domain.RateModeRandomized
	return &domain.Configuration{
		Base: domain.Parameters{
			Principal:             10000,
			Rate:                  domain.RateSpec{AnnualRatePercent: 6},
			CompoundsPerYear:      12,
			ContributionAmount:    500,
			ContributionPeriod:    domain.PeriodMonthly,
			AccumulationYears:     10,
			WithdrawalRatePercent: 4,
		},
		Scenarios: []domain.Scenario{
			{Name: "Base"},
			{Name: "Heavy", Overrides: domain.ParameterOverrides{WithdrawalRatePercent: f64(100)}},
			{
				Name: "Volatile",
				Seed: i64(9),
				Overrides: domain.ParameterOverrides{
					RateMode:         &randomized,
					DeviationPercent: f64(40),
				},
			},
		},
	}
}

func TestCompare_Templates(t *testing.T) {
	ce := NewCompareEngine(nil)

	set, err := ce.Compare(context.Background(), testConfig(), CompareOptions{
		BaseScenarioName: "base",
		Templates:        []string{"rate_plus_1", "contribution_x2", "withdraw_3pct"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Base", set.BaseScenarioName)
	require.Len(t, set.AlternativeResults, 3)

	plus := set.AlternativeResults[0]
	assert.Equal(t, "Base_rate_plus_1", plus.ScenarioName)
	assert.Equal(t, "Annual rate one point higher", plus.Description)
	assert.True(t, plus.FutureValueDiffFromBase.IsPositive())
	assert.True(t, plus.FutureValuePctFromBase.IsPositive())

	x2 := set.AlternativeResults[1]
	assert.True(t, x2.TotalContribution.Sub(set.BaseResult.TotalContribution).Equal(decimal.NewFromInt(500*120)))

	w3 := set.AlternativeResults[2]
	assert.True(t, w3.FutureValueDiffFromBase.IsZero(), "withdrawal rate does not change accumulation")
	assert.True(t, w3.MonthlyIncomeDiffFromBase.IsNegative())
	assert.True(t, w3.FinalBalanceDiffFromBase.IsPositive())

	assert.NotEmpty(t, set.Assumptions)
	require.NotEmpty(t, set.Recommendations)
	assert.True(t, strings.HasPrefix(set.Recommendations[0], "Highest Future Value: Base_contribution_x2"))
}

func TestCompare_TransformSpecAndSeedReuse(t *testing.T) {
	set, err := NewCompareEngine(nil).Compare(context.Background(), testConfig(), CompareOptions{
		BaseScenarioName: "Volatile",
		Templates:        []string{"set_withdrawal_rate:rate=4"},
	})
	require.NoError(t, err)
	require.Len(t, set.AlternativeResults, 1)

	alt := set.AlternativeResults[0]
	assert.Equal(t, "Volatile_set_withdrawal_rate", alt.ScenarioName)
	// same seed and same parameters give the same randomized projection
	assert.True(t, alt.FutureValue.Equal(set.BaseResult.FutureValue))
	assert.True(t, alt.FinalBalance.Equal(set.BaseResult.FinalBalance))
	assert.Equal(t, int64(9), alt.Summary.Seed)
}

func TestCompare_Errors(t *testing.T) {
	ce := NewCompareEngine(nil)

	_, err := ce.Compare(context.Background(), testConfig(), CompareOptions{BaseScenarioName: "missing"})
	assert.Error(t, err)

	_, err = ce.Compare(context.Background(), testConfig(), CompareOptions{Templates: []string{"no_such_template"}})
	assert.Error(t, err)

	_, err = ce.Compare(context.Background(), nil, CompareOptions{})
	assert.Error(t, err)
}

func TestCompareScenarios(t *testing.T) {
	set, err := NewCompareEngine(calculation.NewProjectionEngine()).CompareScenarios(
		context.Background(), testConfig(), "Base", nil)
	require.NoError(t, err)

	require.Len(t, set.AlternativeResults, 2)
	heavy := set.AlternativeResults[0]
	assert.Equal(t, "Heavy", heavy.ScenarioName)
	assert.Equal(t, 11, heavy.DepletionYear, "withdrawing everything empties the balance in the first decumulation year")
	assert.True(t, heavy.MonthlyIncomeDiffFromBase.IsPositive())

	found := false
	for _, rec := range set.Recommendations {
		if strings.HasPrefix(rec, "Warning: Heavy runs out of money") {
			found = true
		}
	}
	assert.True(t, found, "expected a depletion warning in %v", set.Recommendations)

	sc := set.ToScenarioComparison()
	require.Len(t, sc.Scenarios, 3)
	assert.Equal(t, "Base", sc.Scenarios[0].Name)
	assert.Equal(t, set.Assumptions, sc.Assumptions)

	_, err = NewCompareEngine(nil).CompareScenarios(context.Background(), testConfig(), "Base", []string{"Nope"})
	assert.Error(t, err)
}

func TestGenerateRecommendations_NoAlternatives(t *testing.T) {
	recs := GenerateRecommendations(&ComparisonSet{BaseResult: &ComparisonResult{ScenarioName: "Base"}})
	assert.Empty(t, recs)
}

func buildTestSet(t *testing.T) *ComparisonSet {
	t.Helper()
	set, err := NewCompareEngine(nil).Compare(context.Background(), testConfig(), CompareOptions{
		BaseScenarioName: "Base",
		Templates:        []string{"rate_plus_1", "withdraw_5pct"},
	})
	require.NoError(t, err)
	set.ConfigPath = "/path/to/plan.yaml"
	return set
}

func TestTableFormatter_Format(t *testing.T) {
	result := (&TableFormatter{}).Format(buildTestSet(t))

	if !strings.Contains(result, "DCA SCENARIO COMPARISON") {
		t.Error("Expected header in output")
	}
	if !strings.Contains(result, "Base Scenario: Base") {
		t.Error("Expected base scenario name in output")
	}
	assert.Contains(t, result, "Configuration: /path/to/plan.yaml")
	assert.Contains(t, result, "Base (base)")
	assert.Contains(t, result, "Base_rate_plus_1")
	assert.Contains(t, result, "COMPARISON TO BASE")
	assert.Contains(t, result, "RECOMMENDATIONS")
}

func TestTableFormatter_Helpers(t *testing.T) {
	tf := &TableFormatter{}

	assert.Equal(t, "1.50M", tf.formatDecimal(decimal.NewFromInt(1500000)))
	assert.Equal(t, "22.9K", tf.formatDecimal(decimal.NewFromFloat(22952.34)))
	assert.Equal(t, "950", tf.formatDecimal(decimal.NewFromInt(950)))
	assert.Equal(t, "+", tf.deltaSymbol(decimal.NewFromInt(1)))
	assert.Equal(t, "-", tf.deltaSymbol(decimal.NewFromInt(-1)))
	assert.Equal(t, " ", tf.deltaSymbol(decimal.Zero))
	assert.Equal(t, "abcd...", tf.truncate("abcdefghij", 7))

	compact := tf.FormatCompact(&ComparisonSet{
		BaseScenarioName: "Base",
		AlternativeResults: []ComparisonResult{
			{ScenarioName: "Up", FutureValueDiffFromBase: decimal.NewFromInt(2500)},
			{ScenarioName: "Same"},
		},
	})
	assert.Equal(t, "Base: Base | Up: +฿2.5K | Same: =", compact)
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(buildTestSet(t))
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "Scenario", records[0][0])
	assert.Equal(t, []string{"Base", "base"}, records[1][:2])
	assert.Equal(t, "alternative", records[2][1])
	assert.Equal(t, "0.00", records[1][9], "base has no diff from itself")
}

func TestJSONFormatter_Format(t *testing.T) {
	set := buildTestSet(t)

	for _, pretty := range []bool{false, true} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format(set)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "Base", decoded["baseScenarioName"])
		assert.Len(t, decoded["alternativeResults"], 2)
		assert.Equal(t, pretty, strings.Contains(out, "\n  "))
	}
}
