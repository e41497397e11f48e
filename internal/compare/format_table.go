package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/dcaplan/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("DCA SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 90) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Future Value",
		numWidth, "Monthly (Y1)",
		numWidth, "Withdrawn",
		numWidth, "Final Balance"))
	sb.WriteString(strings.Repeat("-", 90) + "\n")

	if base := compSet.BaseResult; base != nil {
		sb.WriteString(tf.formatRow(base, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 90) + "\n")

	// deltas from base
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  (%s)\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  Future Value:   %s%s (%s%%)\n",
				tf.deltaSymbol(alt.FutureValueDiffFromBase),
				tf.formatMoney(alt.FutureValueDiffFromBase),
				alt.FutureValuePctFromBase.StringFixed(1)))

			if !alt.MonthlyIncomeDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Monthly Income: %s%s\n",
					tf.deltaSymbol(alt.MonthlyIncomeDiffFromBase),
					tf.formatMoney(alt.MonthlyIncomeDiffFromBase)))
			}
			if !alt.FinalBalanceDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Final Balance:  %s%s\n",
					tf.deltaSymbol(alt.FinalBalanceDiffFromBase),
					tf.formatMoney(alt.FinalBalanceDiffFromBase)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	final := tf.formatMoney(result.FinalBalance)
	if result.DepletionYear > 0 {
		final = fmt.Sprintf("depleted y%d", result.DepletionYear)
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, tf.formatMoney(result.FutureValue),
		numWidth, tf.formatMoney(result.FirstYearMonthlyWithdrawal),
		numWidth, tf.formatMoney(result.TotalWithdrawn),
		numWidth, final)
}

// formatMoney prefixes formatDecimal of the absolute value with the currency symbol
func (tf *TableFormatter) formatMoney(d decimal.Decimal) string {
	return output.CurrencySymbol() + tf.formatDecimal(d.Abs())
}

// formatDecimal formats a decimal for display (in thousands or millions)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a + or - symbol for deltas
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.FutureValueDiffFromBase.IsZero() {
			change = tf.deltaSymbol(alt.FutureValueDiffFromBase) + tf.formatMoney(alt.FutureValueDiffFromBase)
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
