package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.coldcutz.net/mococli/internal/daterange"
	"go.coldcutz.net/mococli/internal/report"
	"go.coldcutz.net/mococli/internal/tracker"
)

var (
	newProject     int64
	newTask        int64
	newHours       float64
	newDate        string
	newDescription string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Book a new activity",
	Long: `Book hours on a task. Missing project and task ids are picked from a list.

Without --hours you are asked for the duration; an empty answer books 0 hours and, when the
activity is for today, starts its timer.`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

func init() {
	newCmd.Flags().Int64VarP(&newProject, "project", "p", 0, "Project id")
	newCmd.Flags().Int64VarP(&newTask, "task", "t", 0, "Task id")
	newCmd.Flags().Float64VarP(&newHours, "hours", "H", 0, "Duration in hours")
	newCmd.Flags().StringVarP(&newDate, "date", "d", "", "Date (YYYY-MM-DD), default today")
	newCmd.Flags().StringVarP(&newDescription, "description", "m", "", "Description")
	rootCmd.AddCommand(newCmd)
}

type newOptions struct {
	projectID   *int64
	taskID      *int64
	hours       *float64
	date        *time.Time
	description string
}

func runNew(cmd *cobra.Command, args []string) error {
	opts := newOptions{
		projectID:   optionalID(cmd, "project", newProject),
		taskID:      optionalID(cmd, "task", newTask),
		description: newDescription,
	}
	if cmd.Flags().Changed("hours") {
		opts.hours = &newHours
	}
	if newDate != "" {
		d, err := parseDate(newDate)
		if err != nil {
			return err
		}
		opts.date = &d
	}
	_, err := app.newActivity(cmd.Context(), opts)
	return err
}

func (e *env) newActivity(ctx context.Context, opts newOptions) (tracker.Activity, error) {
	project, task, err := e.resolver.Task(ctx, opts.projectID, opts.taskID)
	if err != nil {
		return tracker.Activity{}, err
	}

	today := e.today()
	date := today
	if opts.date != nil {
		date = *opts.date
	} else {
		date, err = e.prompt.AskDate("Date (YYYY-MM-DD) - Default 'today': ", daterange.DateFormat, today)
		if err != nil {
			return tracker.Activity{}, err
		}
	}

	var hours float64
	if opts.hours != nil {
		hours = *opts.hours
	} else {
		hours, err = e.prompt.AskHours("Duration (hours) - Default 'start timer': ", 0)
		if err != nil {
			return tracker.Activity{}, err
		}
	}
	if hours < 0 {
		return tracker.Activity{}, fmt.Errorf("duration must not be negative, got %v", hours)
	}

	a, err := e.backend.CreateActivity(ctx, tracker.NewActivity{
		Date:        date.Format(daterange.DateFormat),
		ProjectID:   project.ID,
		TaskID:      task.ID,
		Hours:       hours,
		Description: opts.description,
	})
	if err != nil {
		return tracker.Activity{}, fmt.Errorf("failed to create activity: %w", err)
	}
	e.logger.Debug("created activity", "id", a.ID, "project", project.ID, "task", task.ID)

	if hours == 0 && e.dates.Today().Contains(date) {
		if err := e.backend.StartTimer(ctx, a.ID); err != nil {
			return a, fmt.Errorf("failed to start timer: %w", err)
		}
		e.success("Timer started on %s / %s (activity %d)", project.Name, task.Name, a.ID)
		return a, nil
	}
	e.success("Booked %s hours on %s / %s for %s (activity %d)",
		report.FormatHours(hours), project.Name, task.Name, a.Date, a.ID)
	return a, nil
}
