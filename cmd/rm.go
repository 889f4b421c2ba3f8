package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.coldcutz.net/mococli/internal/daterange"
	"go.coldcutz.net/mococli/internal/tracker"
)

var (
	rmActivity int64
	rmDate     string
)

var rmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Delete an activity",
	Long: `Delete an activity. Without --activity you pick it from the activities of --date, or of a
date window you are asked for.`,
	Args: cobra.NoArgs,
	RunE: runRm,
}

func init() {
	rmCmd.Flags().Int64VarP(&rmActivity, "activity", "a", 0, "Activity id")
	rmCmd.Flags().StringVarP(&rmDate, "date", "d", "", "Pick from the activities of this day (YYYY-MM-DD)")
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	var date *time.Time
	if rmDate != "" {
		d, err := parseDate(rmDate)
		if err != nil {
			return err
		}
		date = &d
	}
	return app.rm(cmd.Context(), optionalID(cmd, "activity", rmActivity), date)
}

func (e *env) rm(ctx context.Context, activityID *int64, date *time.Time) error {
	var a tracker.Activity
	var err error
	if date != nil {
		rng := daterange.SingleDay(*date)
		e.heading("Delete activities for %s", rng.From.Format(daterange.DayFormat))
		a, err = e.resolver.Activity(ctx, rng, activityID)
	} else {
		a, err = e.resolver.ActivityAsk(ctx, activityID)
	}
	if err != nil {
		return err
	}

	if err := e.backend.DeleteActivity(ctx, a.ID); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	e.success("Deleted activity %d (%s, %s / %s)", a.ID, a.Date, a.Project.Name, a.Task.Name)
	return nil
}
