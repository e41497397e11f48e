package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// FormatSensitivityConsole renders one parameter sweep as a table.
func FormatSensitivityConsole(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Results) == 0 {
		return "", fmt.Errorf("no results in analysis")
	}

	var buf bytes.Buffer
	param := analysis.Parameter

	fmt.Fprintf(&buf, "SENSITIVITY ANALYSIS: %s\n", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
	fmt.Fprintln(&buf, strings.Repeat("=", 65))
	fmt.Fprintf(&buf, "Scenario: %s\n", analysis.BaseScenarioName)
	fmt.Fprintf(&buf, "Base Case: %s = %s %s\n", param.Name, param.BaseValue.StringFixed(2), param.Unit)
	fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n", param.MinValue.StringFixed(2), param.MaxValue.StringFixed(2), param.Steps)
	if param.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", param.Description)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-14s %18s %10s %18s %16s %18s\n",
		param.Name, "Future Value", "Δ%", "Total Withdrawn", "Monthly (Y1)", "Final Balance")
	fmt.Fprintln(&buf, strings.Repeat("-", 100))

	for _, result := range analysis.Results {
		label := result.ParameterValue.StringFixed(2)
		if result.ParameterValue.Equal(param.BaseValue) {
			label += " ← BASE"
		}
		fmt.Fprintf(&buf, "%-14s %18s %10s %18s %16s %18s\n",
			label,
			FormatCurrency(result.KeyMetrics.FutureValue),
			FormatPercentage(result.KeyMetrics.FutureValueChangePct),
			FormatCurrency(result.KeyMetrics.TotalWithdrawn),
			FormatCurrency(result.KeyMetrics.FirstYearMonthlyWithdrawal),
			FormatCurrency(result.KeyMetrics.FinalBalance))
	}

	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Elasticity: %s   Risk Level: %s\n", analysis.Summary.Elasticity.StringFixed(2), analysis.Summary.RiskLevel)
	for _, rec := range analysis.Summary.Recommendations {
		fmt.Fprintf(&buf, "• %s\n", rec)
	}

	return buf.String(), nil
}

// FormatSensitivityCSV renders one or more sweeps as CSV rows.
func FormatSensitivityCSV(analyses ...*domain.ParameterSensitivityAnalysis) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Parameter", "Value", "FutureValue", "FutureValueChangePct", "TotalContribution",
		"InterestEarned", "TotalWithdrawn", "FirstYearMonthlyWithdrawal", "FinalBalance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, a := range analyses {
		for _, r := range a.Results {
			m := r.KeyMetrics
			row := []string{
				a.BaseScenarioName, a.Parameter.Name, r.ParameterValue.String(),
				m.FutureValue.StringFixed(2), m.FutureValueChangePct.StringFixed(2), m.TotalContribution.StringFixed(2),
				m.InterestEarned.StringFixed(2), m.TotalWithdrawn.StringFixed(2),
				m.FirstYearMonthlyWithdrawal.StringFixed(2), m.FinalBalance.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
