package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// ConsoleVerboseFormatter prints every scenario with its parameters, summary
// and both yearly schedules.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "DCA SAVINGS & WITHDRAWAL PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf)

	for i, sc := range results.Scenarios {
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, sc.Name)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		if sc.Description != "" {
			fmt.Fprintln(&buf, sc.Description)
			fmt.Fprintln(&buf)
		}
		writeParameters(&buf, sc)
		writeSummary(&buf, sc)
		writeAccumulation(&buf, sc.Result.Schedule)
		writeDecumulation(&buf, sc.Result.WithdrawSchedule)
		fmt.Fprintln(&buf)
	}

	if rec := AnalyzeScenarios(results); rec.ScenarioName != "" && len(results.Scenarios) > 1 {
		fmt.Fprintln(&buf, "SUMMARY & RECOMMENDATIONS")
		fmt.Fprintln(&buf, "=========================")
		fmt.Fprintf(&buf, "Highest Future Value: %s (%s)\n", rec.ScenarioName, FormatCurrency(rec.FutureValue))
		fmt.Fprintf(&buf, "Change vs %s: %s (%s)\n", results.Scenarios[0].Name,
			FormatCurrency(rec.FutureValueChange), FormatPercentage(rec.PercentageChange))
		if !rec.MonthlyWithdrawal.IsZero() {
			fmt.Fprintf(&buf, "Highest First-Year Income: %s (%s/month)\n", rec.BestIncomeScenario, FormatCurrency(rec.MonthlyWithdrawal))
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, "ASSUMPTIONS:")
	for _, a := range assumptionsFor(results) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}

	return buf.Bytes(), nil
}

func describeRate(sc domain.ScenarioSummary) string {
	r := sc.Parameters.Rate
	if r.IsRandomized() {
		return fmt.Sprintf("%s ± %.0f%% (randomized, seed %d)", FormatRate(r.AnnualRatePercent), r.DeviationPercent, sc.Seed)
	}
	return FormatRate(r.AnnualRatePercent) + " (fixed)"
}

func writeParameters(w io.Writer, sc domain.ScenarioSummary) {
	p := sc.Parameters
	fmt.Fprintln(w, "PARAMETERS:")
	fmt.Fprintf(w, "  Principal:                     %s\n", FormatAmount(p.Principal))
	fmt.Fprintf(w, "  Annual Rate:                   %s\n", describeRate(sc))
	fmt.Fprintf(w, "  Compounding:                   %d per year\n", p.CompoundsPerYear)
	fmt.Fprintf(w, "  Contribution:                  %s %s\n", FormatAmount(p.ContributionAmount), p.ContributionPeriod)
	fmt.Fprintf(w, "  Accumulation:                  %g years\n", p.AccumulationYears)
	fmt.Fprintf(w, "  Withdrawal Rate:               %s per year\n", FormatRate(p.WithdrawalRatePercent))
	fmt.Fprintln(w)
}

func writeSummary(w io.Writer, sc domain.ScenarioSummary) {
	fmt.Fprintln(w, "SUMMARY:")
	fmt.Fprintf(w, "  Future Value:                  %s\n", FormatCurrency(sc.FutureValue))
	fmt.Fprintf(w, "  Total Contribution:            %s\n", FormatCurrency(sc.TotalContribution))
	fmt.Fprintf(w, "  Interest Earned:               %s\n", FormatCurrency(sc.InterestEarned))
	if sc.Parameters.WithdrawalEnabled() {
		fmt.Fprintf(w, "  Total Withdrawn (%d years):    %s\n", domain.DecumulationYears, FormatCurrency(sc.TotalWithdrawn))
		fmt.Fprintf(w, "  First-Year Monthly Withdrawal: %s\n", FormatCurrency(sc.FirstYearMonthlyWithdrawal))
		fmt.Fprintf(w, "  Final Balance:                 %s\n", FormatCurrency(sc.FinalBalance))
		if sc.DepletionYear > 0 {
			fmt.Fprintf(w, "  Depleted In Year:              %d\n", sc.DepletionYear)
		}
	}
	fmt.Fprintf(w, "  Average Rate:                  %s\n", FormatPercentage(sc.AverageRatePercent))
	fmt.Fprintln(w)
}

func writeAccumulation(w io.Writer, rows []domain.ScheduleRow) {
	fmt.Fprintln(w, "ACCUMULATION SCHEDULE:")
	fmt.Fprintf(w, "%-6s %-8s %18s %18s %18s\n", "Year", "Rate", "Contributed", "Interest", "Balance")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, r := range rows {
		fmt.Fprintf(w, "%-6d %-8s %18s %18s %18s\n", r.Year, FormatRate(r.RatePercent),
			FormatAmount(r.TotalContribution), FormatAmount(r.InterestEarned), FormatAmount(r.EndingBalance))
	}
	fmt.Fprintln(w)
}

func writeDecumulation(w io.Writer, rows []domain.WithdrawalRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(w, "DECUMULATION SCHEDULE:")
	fmt.Fprintf(w, "%-6s %-8s %18s %16s %14s %18s\n", "Year", "Rate", "Start Balance", "Withdrawal", "Monthly", "End Balance")
	fmt.Fprintln(w, strings.Repeat("-", 85))
	for _, r := range rows {
		fmt.Fprintf(w, "%-6d %-8s %18s %16s %14s %18s\n", r.YearFromStart, FormatRate(r.RatePercent),
			FormatAmount(r.StartOfYearBalance), FormatAmount(r.WithdrawAmount),
			FormatAmount(r.MonthlyWithdraw), FormatAmount(r.EndingBalance))
	}
	fmt.Fprintln(w)
}
