package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.coldcutz.net/mococli/internal/tracker"
)

// CreateProject creates a project with the given tasks, creating the customer if needed.
func (s *Store) CreateProject(ctx context.Context, customer, name string, tasks []string) (tracker.Project, error) {
	customer, name = strings.TrimSpace(customer), strings.TrimSpace(name)
	if customer == "" || name == "" {
		return tracker.Project{}, errors.New("customer and project name are required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return tracker.Project{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO customers (name) VALUES (?)`, customer); err != nil {
		return tracker.Project{}, fmt.Errorf("insert customer: %w", err)
	}
	var customerID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM customers WHERE name = ?`, customer).Scan(&customerID); err != nil {
		return tracker.Project{}, fmt.Errorf("get customer: %w", err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO projects (customer_id, name) VALUES (?, ?)`, customerID, name)
	if err != nil {
		return tracker.Project{}, fmt.Errorf("insert project: %w", err)
	}
	projectID, _ := res.LastInsertId()

	for _, task := range tasks {
		task = strings.TrimSpace(task)
		if task == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks (project_id, name) VALUES (?, ?)`, projectID, task); err != nil {
			return tracker.Project{}, fmt.Errorf("insert task %q: %w", task, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return tracker.Project{}, fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("created project", "id", projectID, "customer", customer, "name", name, "tasks", len(tasks))
	return s.project(ctx, projectID)
}

// SetTaskActive activates or deactivates a task. Inactive tasks cannot be booked.
func (s *Store) SetTaskActive(ctx context.Context, taskID int64, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET active = ? WHERE id = ?`, boolInt(active), taskID)
	if err != nil {
		return fmt.Errorf("update task %d: %w", taskID, err)
	}
	return expectRow(res, "task", taskID)
}

// Projects returns the active projects ordered by customer and name.
func (s *Store) Projects(ctx context.Context) ([]tracker.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.active, c.id, c.name
		FROM projects p
		JOIN customers c ON c.id = p.customer_id
		WHERE p.active = 1
		ORDER BY c.name, p.name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []tracker.Project
	index := map[int64]int{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		index[p.ID] = len(projects)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tasks, err := s.db.QueryContext(ctx, `SELECT project_id, id, name, active, billable FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer tasks.Close()

	for tasks.Next() {
		var projectID int64
		var t tracker.Task
		var active, billable int
		if err := tasks.Scan(&projectID, &t.ID, &t.Name, &active, &billable); err != nil {
			return nil, err
		}
		t.Active, t.Billable = active == 1, billable == 1
		if i, ok := index[projectID]; ok {
			projects[i].Tasks = append(projects[i].Tasks, t)
		}
	}
	return projects, tasks.Err()
}

func (s *Store) project(ctx context.Context, id int64) (tracker.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.active, c.id, c.name
		FROM projects p
		JOIN customers c ON c.id = p.customer_id
		WHERE p.id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return tracker.Project{}, fmt.Errorf("project %d: %w", id, tracker.ErrNotFound)
	}
	if err != nil {
		return tracker.Project{}, fmt.Errorf("get project %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, active, billable FROM tasks WHERE project_id = ? ORDER BY id`, id)
	if err != nil {
		return tracker.Project{}, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t tracker.Task
		var active, billable int
		if err := rows.Scan(&t.ID, &t.Name, &active, &billable); err != nil {
			return tracker.Project{}, err
		}
		t.Active, t.Billable = active == 1, billable == 1
		p.Tasks = append(p.Tasks, t)
	}
	return p, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (tracker.Project, error) {
	var p tracker.Project
	var active int
	if err := row.Scan(&p.ID, &p.Name, &active, &p.Customer.ID, &p.Customer.Name); err != nil {
		return tracker.Project{}, err
	}
	p.Active = active == 1
	return p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func expectRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, tracker.ErrNotFound)
	}
	return nil
}
