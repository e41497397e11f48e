package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/dcaplan/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats solver results as console text
type TableFormatter struct{}

// Format generates a report for a single solve
func (tf *TableFormatter) Format(result *SolveResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Target:              %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Scenario:            %s\n", result.Request.ScenarioName))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("SOLVED VALUE\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-20s %s (current %s)\n",
		tf.label(result.Request.Target)+":",
		tf.formatValue(result.Unit, result.OptimalValue),
		tf.formatValue(result.Unit, result.BaseValue)))
	sb.WriteString("\n")

	sb.WriteString("PROJECTED RESULTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Future Value:          %s\n", output.FormatCurrency(result.FutureValue)))
	sb.WriteString(fmt.Sprintf("Monthly Withdrawal Y1: %s\n", output.FormatCurrency(result.FirstYearMonthlyWithdrawal)))
	sb.WriteString(fmt.Sprintf("Final Balance:         %s\n", output.FormatCurrency(result.FinalBalance)))
	sb.WriteString("\n")

	if result.BaseScenarioSummary != nil {
		sb.WriteString("COMPARISON TO CURRENT PLAN\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Future Value Change:       %s%s\n",
			tf.deltaSymbol(result.FutureValueDiffFromBase), output.FormatCurrency(result.FutureValueDiffFromBase.Abs())))
		sb.WriteString(fmt.Sprintf("Monthly Withdrawal Change: %s%s\n",
			tf.deltaSymbol(result.MonthlyWithdrawalDiffFromBase), output.FormatCurrency(result.MonthlyWithdrawalDiffFromBase.Abs())))
		sb.WriteString("\n")
	}

	c := result.Request.Constraints
	switch {
	case c.TargetFutureValue != nil && (result.Request.Target == TargetContribution || result.Request.Target == TargetYears):
		tf.writeGoal(&sb, "Target Future Value", *c.TargetFutureValue, result.FutureValue)
	case c.TargetMonthlyWithdrawal != nil && result.Request.Target == TargetWithdrawalRate:
		tf.writeGoal(&sb, "Target Monthly", *c.TargetMonthlyWithdrawal, result.FirstYearMonthlyWithdrawal)
	}

	return sb.String()
}

func (tf *TableFormatter) writeGoal(sb *strings.Builder, label string, target, achieved decimal.Decimal) {
	sb.WriteString("TARGET MATCH\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-20s %s\n", label+":", output.FormatCurrency(target)))
	sb.WriteString(fmt.Sprintf("%-20s %s\n", "Achieved:", output.FormatCurrency(achieved)))
	diff := achieved.Sub(target)
	sb.WriteString(fmt.Sprintf("%-20s %s%s\n", "Difference:", tf.deltaSymbol(diff), output.FormatCurrency(diff.Abs())))
	sb.WriteString("\n")
}

// FormatMulti formats results from several targets
func (tf *TableFormatter) FormatMulti(result *MultiTargetResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("%-18s %14s %14s %15s %15s\n",
		"Target", "Solved", "Current", "Future Value", "Monthly Y1"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		sb.WriteString(fmt.Sprintf("%-18s %14s %14s %15s %15s\n",
			tf.truncate(string(res.Request.Target), 18),
			tf.formatValue(res.Unit, res.OptimalValue),
			tf.formatValue(res.Unit, res.BaseValue),
			output.CurrencySymbol()+tf.formatShort(res.FutureValue),
			output.CurrencySymbol()+tf.formatShort(res.FirstYearMonthlyWithdrawal)))
	}
	sb.WriteString("\n")

	if len(result.Failures) > 0 {
		sb.WriteString("NOT SOLVED\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, f := range result.Failures {
			sb.WriteString(fmt.Sprintf("• %s\n", f))
		}
		sb.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *SolveResult) (string, error) {
	return jf.marshal(result)
}

// FormatMulti formats multi-target results as JSON
func (jf *JSONFormatter) FormatMulti(result *MultiTargetResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) label(t SolveTarget) string {
	switch t {
	case TargetContribution:
		return "Contribution"
	case TargetYears:
		return "Accumulation Years"
	case TargetWithdrawalRate:
		return "Withdrawal Rate"
	default:
		return "Sustainable Rate"
	}
}

func (tf *TableFormatter) formatValue(unit string, v decimal.Decimal) string {
	switch unit {
	case "amount":
		return output.FormatCurrency(v)
	case "years":
		return v.String() + " yrs"
	default:
		return v.StringFixed(2) + "%"
	}
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
