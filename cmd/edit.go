package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.coldcutz.net/mococli/internal/daterange"
	"go.coldcutz.net/mococli/internal/report"
	"go.coldcutz.net/mococli/internal/tracker"
)

var editActivity int64

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit an activity",
	Long: `Edit date, duration and description of an activity.

Without --activity you are asked for a date window and pick the activity from a list. Empty
answers keep the current values.`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().Int64VarP(&editActivity, "activity", "a", 0, "Activity id")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	return app.edit(cmd.Context(), optionalID(cmd, "activity", editActivity))
}

func (e *env) edit(ctx context.Context, activityID *int64) error {
	a, err := e.resolver.ActivityAsk(ctx, activityID)
	if err != nil {
		return err
	}
	day, err := a.Day()
	if err != nil {
		return fmt.Errorf("activity %d has invalid date %q: %w", a.ID, a.Date, err)
	}

	date, err := e.prompt.AskDate(fmt.Sprintf("New date (YYYY-MM-DD) - Default '%s': ", a.Date), daterange.DateFormat, day)
	if err != nil {
		return err
	}
	hours, err := e.prompt.AskHours(fmt.Sprintf("New duration (hours) - Default '%s': ", report.FormatHours(a.Hours)), a.Hours)
	if err != nil {
		return err
	}
	description, err := e.prompt.AskDefault("New description - Default 'current': ", a.Description, nil)
	if err != nil {
		return err
	}

	return e.update(ctx, a, date.Format(daterange.DateFormat), hours, description)
}

func (e *env) update(ctx context.Context, a tracker.Activity, date string, hours float64, description string) error {
	if hours < 0 {
		return fmt.Errorf("duration must not be negative, got %v", hours)
	}
	err := e.backend.UpdateActivity(ctx, a.ID, tracker.ActivityUpdate{
		Date:        date,
		ProjectID:   a.Project.ID,
		TaskID:      a.Task.ID,
		Hours:       hours,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	e.success("Updated activity %d: %s, %s hours", a.ID, date, report.FormatHours(hours))
	return nil
}

// optionalID returns the flag's value, or nil when the flag was not given.
func optionalID(cmd *cobra.Command, name string, value int64) *int64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}
