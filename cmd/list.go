package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.coldcutz.net/mococli/internal/daterange"
	"go.coldcutz.net/mococli/internal/report"
	"go.coldcutz.net/mococli/internal/table"
)

var (
	listWeek     bool
	listMonth    bool
	listBackward uint
	listDate     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities",
	Long: `List the activities of today, this week or this month.

--backward N moves the window N days, weeks or months into the past. --date lists a single day.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listWeek, "week", "w", false, "List the current week")
	listCmd.Flags().BoolVarP(&listMonth, "month", "m", false, "List the current month")
	listCmd.Flags().UintVarP(&listBackward, "backward", "b", 0, "Number of days, weeks or months to go back")
	listCmd.Flags().StringVarP(&listDate, "date", "d", "", "List a single day (YYYY-MM-DD)")
	listCmd.MarkFlagsMutuallyExclusive("week", "month")
	listCmd.MarkFlagsMutuallyExclusive("date", "week")
	listCmd.MarkFlagsMutuallyExclusive("date", "month")
	listCmd.MarkFlagsMutuallyExclusive("date", "backward")
	rootCmd.AddCommand(listCmd)
}

type listOptions struct {
	week     bool
	month    bool
	backward uint
	date     *time.Time
}

func runList(cmd *cobra.Command, args []string) error {
	opts := listOptions{week: listWeek, month: listMonth, backward: listBackward}
	if listDate != "" {
		d, err := parseDate(listDate)
		if err != nil {
			return err
		}
		opts.date = &d
	}
	return app.list(cmd.Context(), opts)
}

func (e *env) list(ctx context.Context, opts listOptions) error {
	var rng daterange.Range
	if opts.date != nil {
		rng = daterange.SingleDay(*opts.date)
		e.heading("List activities for %s", rng.From.Format(daterange.DayFormat))
	} else {
		var err error
		rng, err = e.dates.Compute(daterange.FromFlags(opts.week, opts.month), opts.backward)
		if err != nil {
			return err
		}
		e.heading("List activities from %s – %s", rng.From.Format(daterange.DayFormat), rng.To.Format(daterange.DayFormat))
	}

	activities, err := e.backend.Activities(ctx, rng.From, rng.To)
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}
	rows, err := report.Activities(activities)
	if err != nil {
		return err
	}
	return table.Write(e.out, rows)
}
