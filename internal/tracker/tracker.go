package tracker

import (
	"context"
	"errors"
	"time"
)

// DateFormat is the layout of Activity.Date.
const DateFormat = "2006-01-02"

var (
	// ErrNotLoggedIn is returned when a backend lacks the credentials for a request.
	ErrNotLoggedIn = errors.New("not logged in, run 'mococli login' first")
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTimerNotRunning is returned when stopping a timer that is not running.
	ErrTimerNotRunning = errors.New("timer is not running")
)

// Customer is the client a project is billed to.
type Customer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Task is a bookable unit of work inside a project.
type Task struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
	Billable bool   `json:"billable"`
}

// Project is a project the user is assigned to.
type Project struct {
	ID         int64    `json:"id"`
	Identifier string   `json:"identifier,omitempty"`
	Name       string   `json:"name"`
	Active     bool     `json:"active"`
	Customer   Customer `json:"customer"`
	Tasks      []Task   `json:"tasks"`
}

// ActiveTasks returns the project's active tasks in their original order.
func (p Project) ActiveTasks() []Task {
	var active []Task
	for _, t := range p.Tasks {
		if t.Active {
			active = append(active, t)
		}
	}
	return active
}

// Ref is the id/name pair an activity uses to reference its project and task.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Activity is one time entry.
type Activity struct {
	ID             int64      `json:"id"`
	Date           string     `json:"date"`
	Hours          float64    `json:"hours"`
	Description    string     `json:"description"`
	Billable       bool       `json:"billable"`
	Project        Ref        `json:"project"`
	Task           Ref        `json:"task"`
	Customer       Customer   `json:"customer"`
	TimerStartedAt *time.Time `json:"timer_started_at"`
}

// Day parses the activity date.
func (a Activity) Day() (time.Time, error) {
	return time.Parse(DateFormat, a.Date)
}

// TimerRunning reports whether the activity has a running timer.
func (a Activity) TimerRunning() bool {
	return a.TimerStartedAt != nil
}

// NewActivity holds the fields for creating an activity.
type NewActivity struct {
	Date        string  `json:"date"`
	ProjectID   int64   `json:"project_id"`
	TaskID      int64   `json:"task_id"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description,omitempty"`
}

// ActivityUpdate holds the fields for updating an activity.
type ActivityUpdate struct {
	Date        string  `json:"date"`
	ProjectID   int64   `json:"project_id"`
	TaskID      int64   `json:"task_id"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

// MonthlyPerformance is the tracked versus target balance for one month.
type MonthlyPerformance struct {
	Year              int     `json:"year"`
	Month             int     `json:"month"`
	TargetHours       float64 `json:"target_hours"`
	HoursTrackedTotal float64 `json:"hours_tracked_total"`
	Variation         float64 `json:"variation"`
}

// AnnualPerformance is the tracked versus target balance for a year.
type AnnualPerformance struct {
	Year                int     `json:"year"`
	EmploymentHours     float64 `json:"employment_hours"`
	TargetHours         float64 `json:"target_hours"`
	HoursTrackedTotal   float64 `json:"hours_tracked_total"`
	Variation           float64 `json:"variation"`
	VariationUntilToday float64 `json:"variation_until_today"`
}

// PerformanceReport is the overtime report of the current year.
type PerformanceReport struct {
	Annually AnnualPerformance    `json:"annually"`
	Monthly  []MonthlyPerformance `json:"monthly"`
}

// Source supplies the candidate lists the resolver chooses from.
type Source interface {
	Projects(ctx context.Context) ([]Project, error)
	Activities(ctx context.Context, from, to time.Time) ([]Activity, error)
}

// Backend is a time tracking system.
type Backend interface {
	Source
	Activity(ctx context.Context, id int64) (Activity, error)
	CreateActivity(ctx context.Context, a NewActivity) (Activity, error)
	UpdateActivity(ctx context.Context, id int64, u ActivityUpdate) error
	DeleteActivity(ctx context.Context, id int64) error
	StartTimer(ctx context.Context, id int64) error
	StopTimer(ctx context.Context, id int64) error
	PerformanceReport(ctx context.Context) (PerformanceReport, error)
}

// ProjectManager is implemented by backends that manage their own projects.
type ProjectManager interface {
	CreateProject(ctx context.Context, customer, name string, tasks []string) (Project, error)
	SetTaskActive(ctx context.Context, taskID int64, active bool) error
}
