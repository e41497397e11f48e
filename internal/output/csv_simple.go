package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Seed", "FutureValue", "TotalContribution", "InterestEarned", "TotalWithdrawn",
		"FinalBalance", "FirstYearMonthlyWithdrawal", "AverageRatePercent", "DepletionYear"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	scenarios := append([]domain.ScenarioSummary(nil), results.Scenarios...)
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	for _, sc := range scenarios {
		row := []string{
			sc.Name,
			int64ToString(sc.Seed),
			sc.FutureValue.StringFixed(2),
			sc.TotalContribution.StringFixed(2),
			sc.InterestEarned.StringFixed(2),
			sc.TotalWithdrawn.StringFixed(2),
			sc.FinalBalance.StringFixed(2),
			sc.FirstYearMonthlyWithdrawal.StringFixed(2),
			sc.AverageRatePercent.StringFixed(4),
			intToString(sc.DepletionYear),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
