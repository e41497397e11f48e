package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// CSVDetailedExporter writes every accumulation and decumulation row of every scenario.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Phase", "Year", "RatePercent", "TotalContribution", "InterestEarned",
		"StartBalance", "Withdrawal", "MonthlyWithdrawal", "EndingBalance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	scenarios := append([]domain.ScenarioSummary(nil), results.Scenarios...)
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	for _, sc := range scenarios {
		for _, r := range sc.Result.Schedule {
			row := []string{
				sc.Name, "accumulation", intToString(r.Year), rateToString(r.RatePercent),
				floatToString(r.TotalContribution), floatToString(r.InterestEarned),
				"", "", "", floatToString(r.EndingBalance),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
		for _, r := range sc.Result.WithdrawSchedule {
			row := []string{
				sc.Name, "decumulation", intToString(r.YearFromStart), rateToString(r.RatePercent),
				"", "", floatToString(r.StartOfYearBalance), floatToString(r.WithdrawAmount),
				floatToString(r.MonthlyWithdraw), floatToString(r.EndingBalance),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
