package output

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "DCA PROJECTION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	scenarios := append([]domain.ScenarioSummary(nil), results.Scenarios...)
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	for _, sc := range scenarios {
		fmt.Fprintf(&buf, "%s: FutureValue=%s Contributed=%s Interest=%s\n",
			sc.Name,
			FormatCurrency(sc.FutureValue),
			FormatCurrency(sc.TotalContribution),
			FormatCurrency(sc.InterestEarned),
		)
		if sc.Parameters.WithdrawalEnabled() {
			fmt.Fprintf(&buf, "  Withdrawn=%s Monthly=%s Final=%s\n",
				FormatCurrency(sc.TotalWithdrawn), FormatCurrency(sc.FirstYearMonthlyWithdrawal), FormatCurrency(sc.FinalBalance))
		}
	}
	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" && len(results.Scenarios) > 1 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (Δ %s / %s)\n", rec.ScenarioName, FormatCurrency(rec.FutureValueChange), FormatPercentage(rec.PercentageChange))
	}
	return buf.Bytes(), nil
}
