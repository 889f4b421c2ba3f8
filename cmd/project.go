package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.coldcutz.net/mococli/internal/prompt"
	"go.coldcutz.net/mococli/internal/report"
	"go.coldcutz.net/mococli/internal/table"
	"go.coldcutz.net/mococli/internal/tracker"
)

var (
	projectCustomer string
	projectName     string
	projectTasks    []string

	taskActivate   bool
	taskDeactivate bool
)

var errLocalProjects = errors.New("projects can only be managed with the local backend, run 'mococli login local' first")

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "List, add or deactivate projects and tasks",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects and their active tasks",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a project to the local backend",
	Long: `Add a project with its tasks to the local backend. Moco projects are managed in Moco.

Missing customer and project names are asked for.`,
	Args: cobra.NoArgs,
	RunE: runProjectAdd,
}

var projectTaskCmd = &cobra.Command{
	Use:   "task <task-id>",
	Short: "Activate or deactivate a task of the local backend",
	Long: `Activate or deactivate a task. Inactive tasks are not offered when booking, but activities
already booked on them can still be edited.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectTask,
}

func init() {
	projectTaskCmd.Flags().BoolVar(&taskActivate, "activate", false, "Activate the task")
	projectTaskCmd.Flags().BoolVar(&taskDeactivate, "deactivate", false, "Deactivate the task")
	projectTaskCmd.MarkFlagsMutuallyExclusive("activate", "deactivate")
	projectTaskCmd.MarkFlagsOneRequired("activate", "deactivate")

	projectAddCmd.Flags().StringVarP(&projectCustomer, "customer", "c", "", "Customer name")
	projectAddCmd.Flags().StringVarP(&projectName, "name", "n", "", "Project name")
	projectAddCmd.Flags().StringArrayVarP(&projectTasks, "task", "t", nil, "Task name (repeatable)")
	projectCmd.AddCommand(projectListCmd, projectAddCmd, projectTaskCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectList(cmd *cobra.Command, args []string) error {
	return app.projectList(cmd.Context())
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	_, err := app.projectAdd(cmd.Context(), projectCustomer, projectName, projectTasks)
	return err
}

func runProjectTask(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[0])
	}
	return app.projectTask(cmd.Context(), id, taskActivate)
}

func (e *env) projectList(ctx context.Context) error {
	projects, err := e.backend.Projects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	if len(projects) == 0 {
		e.warn("No projects assigned")
		return nil
	}

	rows := [][]string{{"Customer", "Project", "Project ID", "Tasks"}}
	for _, p := range projects {
		var tasks []string
		for _, t := range p.ActiveTasks() {
			tasks = append(tasks, fmt.Sprintf("%s (%d)", report.Cell(t.Name), t.ID))
		}
		rows = append(rows, []string{report.Cell(p.Customer.Name), report.Cell(p.Name), strconv.FormatInt(p.ID, 10), strings.Join(tasks, ", ")})
	}
	return table.Write(e.out, rows)
}

func (e *env) projectAdd(ctx context.Context, customer, name string, tasks []string) (tracker.Project, error) {
	pm, ok := e.backend.(tracker.ProjectManager)
	if !ok {
		return tracker.Project{}, errLocalProjects
	}

	var err error
	if customer == "" {
		if customer, err = e.prompt.Ask("Customer: ", prompt.Mandatory); err != nil {
			return tracker.Project{}, err
		}
	}
	if name == "" {
		if name, err = e.prompt.Ask("Project name: ", prompt.Mandatory); err != nil {
			return tracker.Project{}, err
		}
	}
	if len(tasks) > 0 {
		if tasks = taskNames(tasks); len(tasks) == 0 {
			return tracker.Project{}, errors.New("at least one task name is required")
		}
	} else {
		answer, err := e.prompt.Ask("Tasks (comma separated): ", validTaskList)
		if err != nil {
			return tracker.Project{}, err
		}
		tasks = taskNames(strings.Split(answer, ","))
	}

	p, err := pm.CreateProject(ctx, customer, name, tasks)
	if err != nil {
		return tracker.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	e.success("Created project %s / %s (project %d) with %d tasks", p.Customer.Name, p.Name, p.ID, len(p.Tasks))
	return p, nil
}

func (e *env) projectTask(ctx context.Context, taskID int64, active bool) error {
	pm, ok := e.backend.(tracker.ProjectManager)
	if !ok {
		return errLocalProjects
	}
	if err := pm.SetTaskActive(ctx, taskID, active); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if active {
		e.success("Activated task %d", taskID)
	} else {
		e.success("Deactivated task %d", taskID)
	}
	return nil
}

// taskNames trims names and drops the blank ones.
func taskNames(names []string) []string {
	var out []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func validTaskList(input string) string {
	if msg := prompt.Mandatory(input); msg != "" {
		return msg
	}
	if len(taskNames(strings.Split(input, ","))) == 0 {
		return "At least one task name is required"
	}
	return ""
}
