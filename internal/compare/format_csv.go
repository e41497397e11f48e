package compare

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Future Value",
		"Total Contribution",
		"Interest Earned",
		"First Year Monthly Withdrawal",
		"Total Withdrawn",
		"Final Balance",
		"Depletion Year",
		"Future Value Diff from Base",
		"Future Value % Change",
		"Monthly Income Diff",
		"Final Balance Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.FutureValue.StringFixed(2),
		result.TotalContribution.StringFixed(2),
		result.InterestEarned.StringFixed(2),
		result.FirstYearMonthlyWithdrawal.StringFixed(2),
		result.TotalWithdrawn.StringFixed(2),
		result.FinalBalance.StringFixed(2),
		formatInt(result.DepletionYear),
		result.FutureValueDiffFromBase.StringFixed(2),
		result.FutureValuePctFromBase.StringFixed(2),
		result.MonthlyIncomeDiffFromBase.StringFixed(2),
		result.FinalBalanceDiffFromBase.StringFixed(2),
	}
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
