package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/dcaplan/internal/history"
	"github.com/rgehrsitz/dcaplan/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded projection runs",
	Long: `List the most recent runs stored in the history database.

Runs are recorded by calculate and quick when history is enabled in the
settings or --record is given.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	recorder, err := openRecorder(true)
	if err != nil {
		return err
	}
	defer recorder.Close()

	runs, err := recorder.ListRuns(limit)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(cmd, append(data, '\n'), "")
	case "table", "":
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderRuns(runs))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s (valid: table, json)", format)
	}
}

func renderRuns(runs []history.Run) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	numberStyle := cellStyle.Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Recorded", "Scenario", "Seed", "Future Value", "Total Withdrawn", "Final Balance").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 3:
				return numberStyle
			default:
				return cellStyle
			}
		})

	for _, run := range runs {
		t.Row(
			run.ID[:8],
			humanize.Time(run.RecordedAt),
			run.Scenario,
			fmt.Sprintf("%d", run.Seed),
			output.FormatCurrency(run.FutureValue),
			output.FormatCurrency(run.TotalWithdrawn),
			output.FormatCurrency(run.FinalBalance),
		)
	}
	return t.String()
}

func init() {
	historyCmd.Flags().IntP("limit", "n", history.DefaultListLimit, "Number of runs to show")
	historyCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	rootCmd.AddCommand(historyCmd)
}
