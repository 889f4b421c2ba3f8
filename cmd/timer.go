package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.coldcutz.net/mococli/internal/report"
)

var timerActivity int64

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Start or stop an activity timer",
}

var timerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the timer of one of today's activities",
	Args:  cobra.NoArgs,
	RunE:  runTimerStart,
}

var timerStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running timer",
	Args:  cobra.NoArgs,
	RunE:  runTimerStop,
}

func init() {
	timerStartCmd.Flags().Int64VarP(&timerActivity, "activity", "a", 0, "Activity id")
	timerCmd.AddCommand(timerStartCmd, timerStopCmd)
	rootCmd.AddCommand(timerCmd)
}

func runTimerStart(cmd *cobra.Command, args []string) error {
	return app.timerStart(cmd.Context(), optionalID(cmd, "activity", timerActivity))
}

func runTimerStop(cmd *cobra.Command, args []string) error {
	return app.timerStop(cmd.Context())
}

func (e *env) timerStart(ctx context.Context, activityID *int64) error {
	a, err := e.resolver.ActivityToday(ctx, activityID)
	if err != nil {
		return err
	}
	if err := e.backend.StartTimer(ctx, a.ID); err != nil {
		return fmt.Errorf("failed to start timer: %w", err)
	}
	e.success("Timer started on %s / %s (activity %d)", a.Project.Name, a.Task.Name, a.ID)
	return nil
}

func (e *env) timerStop(ctx context.Context) error {
	running, ok, err := e.resolver.RunningTimer(ctx)
	if err != nil {
		return err
	}
	if !ok {
		e.warn("Could not stop timer since it was not on")
		return nil
	}

	if err := e.backend.StopTimer(ctx, running.ID); err != nil {
		return fmt.Errorf("failed to stop timer: %w", err)
	}
	a, err := e.backend.Activity(ctx, running.ID)
	if err != nil {
		return fmt.Errorf("failed to get activity: %w", err)
	}
	e.success("Activity duration: %s hours", report.FormatHours(a.Hours))
	return nil
}
