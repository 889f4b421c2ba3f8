package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.coldcutz.net/mococli/internal/report"
)

var editSimpleActivity int64

var editSimpleCmd = &cobra.Command{
	Use:   "edit-simple",
	Short: "Edit the duration of one of today's activities",
	Args:  cobra.NoArgs,
	RunE:  runEditSimple,
}

func init() {
	editSimpleCmd.Flags().Int64VarP(&editSimpleActivity, "activity", "a", 0, "Activity id")
	rootCmd.AddCommand(editSimpleCmd)
}

func runEditSimple(cmd *cobra.Command, args []string) error {
	return app.editSimple(cmd.Context(), optionalID(cmd, "activity", editSimpleActivity))
}

func (e *env) editSimple(ctx context.Context, activityID *int64) error {
	a, err := e.resolver.ActivityToday(ctx, activityID)
	if err != nil {
		return err
	}
	hours, err := e.prompt.AskHours(fmt.Sprintf("New duration (hours) - Default '%s': ", report.FormatHours(a.Hours)), a.Hours)
	if err != nil {
		return err
	}
	return e.update(ctx, a, a.Date, hours, a.Description)
}
