// Package resolve turns optional identifiers into concrete projects, tasks and activities,
// asking the user to pick from a list whenever an identifier is missing or unknown.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.coldcutz.net/mococli/internal/daterange"
	"go.coldcutz.net/mococli/internal/prompt"
	"go.coldcutz.net/mococli/internal/report"
	"go.coldcutz.net/mococli/internal/tracker"
)

var projectSelection = prompt.Selection[tracker.Project]{
	Header: []string{"Customer", "Project", "Project ID"},
	Prompt: "Choose your Project: ",
	Row: func(p tracker.Project) []string {
		return []string{p.Customer.Name, p.Name, strconv.FormatInt(p.ID, 10)}
	},
	ID: func(p tracker.Project) int64 { return p.ID },
}

var taskSelection = prompt.Selection[tracker.Task]{
	Header: []string{"Task", "Task ID"},
	Prompt: "Choose your Task: ",
	Row: func(t tracker.Task) []string {
		return []string{report.Cell(t.Name), strconv.FormatInt(t.ID, 10)}
	},
	ID: func(t tracker.Task) int64 { return t.ID },
}

var activitySelection = prompt.Selection[tracker.Activity]{
	Header: []string{"Date", "Duration", "Project", "Task", "Description"},
	Prompt: "Choose your Activity: ",
	Row: func(a tracker.Activity) []string {
		return []string{a.Date, report.FormatHours(a.Hours), report.Cell(a.Project.Name), report.Cell(a.Task.Name), report.Cell(a.Description)}
	},
	ID: func(a tracker.Activity) int64 { return a.ID },
}

// Resolver resolves entities against freshly fetched candidate lists.
type Resolver struct {
	src    tracker.Source
	prompt *prompt.Prompter
	dates  *daterange.Calculator
	logger *slog.Logger
}

// New returns a resolver fetching candidates from src and asking through p.
func New(src tracker.Source, p *prompt.Prompter, dates *daterange.Calculator, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{src: src, prompt: p, dates: dates, logger: logger}
}

// Task fetches the assigned projects and resolves a project and one of its active tasks.
func (r *Resolver) Task(ctx context.Context, projectID, taskID *int64) (tracker.Project, tracker.Task, error) {
	projects, err := r.src.Projects(ctx)
	if err != nil {
		return tracker.Project{}, tracker.Task{}, fmt.Errorf("failed to list projects: %w", err)
	}
	r.logger.Debug("resolving task", "projects", len(projects))
	return r.PickTask(projects, projectID, taskID)
}

// PickTask resolves a project from projects and then a task among that project's active tasks.
// An inactive task is never chosen, even when taskID names it.
func (r *Resolver) PickTask(projects []tracker.Project, projectID, taskID *int64) (tracker.Project, tracker.Task, error) {
	project, err := prompt.Choose(r.prompt, projects, projectSelection, projectID)
	if err != nil {
		return tracker.Project{}, tracker.Task{}, err
	}
	task, err := prompt.Choose(r.prompt, project.ActiveTasks(), taskSelection, taskID)
	if err != nil {
		return tracker.Project{}, tracker.Task{}, err
	}
	return project, task, nil
}

// Activity fetches the activities in rng and resolves one of them.
func (r *Resolver) Activity(ctx context.Context, rng daterange.Range, activityID *int64) (tracker.Activity, error) {
	activities, err := r.src.Activities(ctx, rng.From, rng.To)
	if err != nil {
		return tracker.Activity{}, fmt.Errorf("failed to list activities: %w", err)
	}
	return r.PickActivity(activities, activityID)
}

// ActivityToday resolves one of today's activities.
func (r *Resolver) ActivityToday(ctx context.Context, activityID *int64) (tracker.Activity, error) {
	today := r.dates.Today()
	activities, err := r.src.Activities(ctx, today.From, today.To)
	if err != nil {
		return tracker.Activity{}, fmt.Errorf("failed to list activities: %w", err)
	}
	s := activitySelection
	s.Title = "List activities for today:"
	return prompt.Choose(r.prompt, activities, s, activityID)
}

// ActivityAsk asks for a date window (from defaults to today, to defaults to from) and resolves
// one of the activities in it.
func (r *Resolver) ActivityAsk(ctx context.Context, activityID *int64) (tracker.Activity, error) {
	rng, err := r.AskRange()
	if err != nil {
		return tracker.Activity{}, err
	}
	return r.Activity(ctx, rng, activityID)
}

// AskRange asks for the from and to dates of a window.
func (r *Resolver) AskRange() (daterange.Range, error) {
	today := r.dates.Today().From
	from, err := r.prompt.AskDate("List activities from (YYYY-MM-DD) - Default 'today': ", daterange.DateFormat, today)
	if err != nil {
		return daterange.Range{}, err
	}
	to, err := r.prompt.AskDate("List activities to (YYYY-MM-DD) - Default 'last answer': ", daterange.DateFormat, from)
	if err != nil {
		return daterange.Range{}, err
	}
	if to.Before(from) {
		from, to = to, from
	}
	return daterange.Range{From: daterange.SingleDay(from).From, To: daterange.SingleDay(to).To}, nil
}

// PickActivity resolves an activity from activities.
func (r *Resolver) PickActivity(activities []tracker.Activity, activityID *int64) (tracker.Activity, error) {
	return prompt.Choose(r.prompt, activities, activitySelection, activityID)
}

// RunningTimer returns today's activity with a running timer.
func (r *Resolver) RunningTimer(ctx context.Context) (tracker.Activity, bool, error) {
	today := r.dates.Today()
	activities, err := r.src.Activities(ctx, today.From, today.To)
	if err != nil {
		return tracker.Activity{}, false, fmt.Errorf("failed to list activities: %w", err)
	}
	for _, a := range activities {
		if a.TimerRunning() {
			return a, true, nil
		}
	}
	return tracker.Activity{}, false, nil
}

// Today returns the current date.
func (r *Resolver) Today() time.Time {
	return r.dates.Today().From
}
