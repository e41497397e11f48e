package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// FormatMonteCarloConsole renders percentile bands and the preservation rate.
func FormatMonteCarloConsole(result *calculation.MonteCarloResult) string {
	var buf bytes.Buffer
	p := result.Parameters

	fmt.Fprintln(&buf, "MONTE CARLO PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 65))
	fmt.Fprintf(&buf, "Simulations: %d (seeds %d..%d)\n", result.NumSimulations, result.Seed, result.Seed+int64(result.NumSimulations)-1)
	fmt.Fprintf(&buf, "Rate: %s ± %.0f%% of base, %d compounding per year\n", FormatRate(p.Rate.AnnualRatePercent), p.Rate.DeviationPercent, p.CompoundsPerYear)
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-16s %16s %16s %16s %16s %16s\n", "Metric", "P10", "P25", "P50", "P75", "P90")
	fmt.Fprintln(&buf, strings.Repeat("-", 100))
	bands := []struct {
		name string
		r    calculation.PercentileRanges
	}{
		{"Future Value", result.FutureValue},
		{"Total Withdrawn", result.TotalWithdrawn},
		{"Final Balance", result.FinalBalance},
	}
	for _, b := range bands {
		fmt.Fprintf(&buf, "%-16s %16s %16s %16s %16s %16s\n", b.name,
			FormatCurrency(b.r.P10), FormatCurrency(b.r.P25), FormatCurrency(b.r.P50),
			FormatCurrency(b.r.P75), FormatCurrency(b.r.P90))
	}
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Mean Future Value:       %s\n", FormatCurrency(result.MeanFutureValue))
	if p.WithdrawalEnabled() {
		fmt.Fprintf(&buf, "Capital Preserved:       %s of runs\n", FormatPercentage(result.CapitalPreservedRate))
		fmt.Fprintf(&buf, "Depleted Within %d Yrs:  %s of runs\n", domain.DecumulationYears, FormatPercentage(result.DepletionRate))
	}
	for _, note := range result.Notes {
		fmt.Fprintf(&buf, "Note: %s\n", note)
	}
	return buf.String()
}

// FormatMonteCarloCSV writes one row per simulation.
func FormatMonteCarloCSV(result *calculation.MonteCarloResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Run", "Seed", "FutureValue", "TotalWithdrawn", "FinalBalance", "DepletionYear"}); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, s := range result.Simulations {
		row := []string{
			strconv.Itoa(i + 1),
			int64ToString(s.Seed),
			floatToString(s.FutureValue),
			floatToString(s.TotalWithdrawn),
			floatToString(s.FinalBalance),
			intToString(s.DepletionYear),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write data row: %w", err)
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
