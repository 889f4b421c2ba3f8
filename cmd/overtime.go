package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.coldcutz.net/mococli/internal/report"
	"go.coldcutz.net/mococli/internal/table"
)

var overtimeMonthly bool

var overtimeCmd = &cobra.Command{
	Use:   "overtime",
	Short: "Show your overtime",
	Long: `Show your overtime until the end of today, or with --monthly a report of target and tracked
hours for every month of the current year.`,
	Args: cobra.NoArgs,
	RunE: runOvertime,
}

func init() {
	overtimeCmd.Flags().BoolVarP(&overtimeMonthly, "monthly", "m", false, "Show the monthly report")
	rootCmd.AddCommand(overtimeCmd)
}

func runOvertime(cmd *cobra.Command, args []string) error {
	return app.overtime(cmd.Context(), overtimeMonthly)
}

func (e *env) overtime(ctx context.Context, monthly bool) error {
	r, err := e.backend.PerformanceReport(ctx)
	if err != nil {
		return fmt.Errorf("failed to get performance report: %w", err)
	}

	if !monthly {
		fmt.Fprintln(e.out, report.OvertimeToDate(r))
		return nil
	}

	e.heading("%s", report.OvertimeTitle(r))
	rows, err := report.Overtime(r)
	if err != nil {
		return err
	}
	return table.Write(e.out, rows)
}
