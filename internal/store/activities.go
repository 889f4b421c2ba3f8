package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"go.coldcutz.net/mococli/internal/tracker"
)

const selectActivity = `
	SELECT a.id, a.date, a.hours, a.description, a.timer_started_at,
	       p.id, p.name, t.id, t.name, t.billable, c.id, c.name
	FROM activities a
	JOIN projects p ON p.id = a.project_id
	JOIN tasks t ON t.id = a.task_id
	JOIN customers c ON c.id = p.customer_id`

// Activities returns the activities whose date lies between the calendar days of from and to.
func (s *Store) Activities(ctx context.Context, from, to time.Time) ([]tracker.Activity, error) {
	rows, err := s.db.QueryContext(ctx, selectActivity+`
		WHERE a.date >= ? AND a.date <= ?
		ORDER BY a.date, a.id`,
		from.Format(tracker.DateFormat), to.Format(tracker.DateFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []tracker.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// Activity returns one activity.
func (s *Store) Activity(ctx context.Context, id int64) (tracker.Activity, error) {
	a, err := scanActivity(s.db.QueryRowContext(ctx, selectActivity+` WHERE a.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return tracker.Activity{}, fmt.Errorf("activity %d: %w", id, tracker.ErrNotFound)
	}
	if err != nil {
		return tracker.Activity{}, fmt.Errorf("get activity %d: %w", id, err)
	}
	return a, nil
}

// CreateActivity books hours on a task.
func (s *Store) CreateActivity(ctx context.Context, n tracker.NewActivity) (tracker.Activity, error) {
	if err := s.checkBooking(ctx, n.Date, n.ProjectID, n.TaskID, n.Hours, true); err != nil {
		return tracker.Activity{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (date, project_id, task_id, hours, description) VALUES (?, ?, ?, ?, ?)`,
		n.Date, n.ProjectID, n.TaskID, n.Hours, n.Description,
	)
	if err != nil {
		return tracker.Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	id, _ := res.LastInsertId()
	s.logger.Debug("created activity", "id", id, "date", n.Date, "hours", n.Hours)
	return s.Activity(ctx, id)
}

// UpdateActivity replaces the editable fields of an activity.
func (s *Store) UpdateActivity(ctx context.Context, id int64, u tracker.ActivityUpdate) error {
	if err := s.checkBooking(ctx, u.Date, u.ProjectID, u.TaskID, u.Hours, false); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE activities SET date = ?, project_id = ?, task_id = ?, hours = ?, description = ? WHERE id = ?`,
		u.Date, u.ProjectID, u.TaskID, u.Hours, u.Description, id,
	)
	if err != nil {
		return fmt.Errorf("update activity %d: %w", id, err)
	}
	s.logger.Debug("updated activity", "id", id)
	return expectRow(res, "activity", id)
}

// DeleteActivity deletes an activity.
func (s *Store) DeleteActivity(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete activity %d: %w", id, err)
	}
	s.logger.Debug("deleted activity", "id", id)
	return expectRow(res, "activity", id)
}

// StartTimer starts the timer of one of today's activities. A timer running on another activity
// is stopped first, so at most one timer runs at a time.
func (s *Store) StartTimer(ctx context.Context, id int64) error {
	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var date string
	var started sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT date, timer_started_at FROM activities WHERE id = ?`, id).Scan(&date, &started)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("activity %d: %w", id, tracker.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get activity %d: %w", id, err)
	}
	if date != now.Format(tracker.DateFormat) {
		return fmt.Errorf("timer can only be started on activities of today, activity %d is on %s", id, date)
	}
	if started.Valid {
		return nil
	}

	running, err := tx.QueryContext(ctx, `SELECT id, timer_started_at FROM activities WHERE timer_started_at IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("list running timers: %w", err)
	}
	type timer struct {
		id      int64
		started string
	}
	var timers []timer
	for running.Next() {
		var t timer
		if err := running.Scan(&t.id, &t.started); err != nil {
			running.Close()
			return err
		}
		timers = append(timers, t)
	}
	running.Close()
	if err := running.Err(); err != nil {
		return err
	}
	for _, t := range timers {
		if err := stopTimer(ctx, tx, t.id, t.started, now); err != nil {
			return err
		}
		s.logger.Debug("stopped running timer", "id", t.id)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE activities SET timer_started_at = ? WHERE id = ?`,
		now.UTC().Format(time.RFC3339), id); err != nil {
		return fmt.Errorf("start timer %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("started timer", "id", id)
	return nil
}

// StopTimer stops the timer of an activity and adds the elapsed time to its hours.
func (s *Store) StopTimer(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var started sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT timer_started_at FROM activities WHERE id = ?`, id).Scan(&started)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("activity %d: %w", id, tracker.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get activity %d: %w", id, err)
	}
	if !started.Valid {
		return fmt.Errorf("activity %d: %w", id, tracker.ErrTimerNotRunning)
	}
	if err := stopTimer(ctx, tx, id, started.String, s.now()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("stopped timer", "id", id)
	return nil
}

func stopTimer(ctx context.Context, tx *sql.Tx, id int64, started string, now time.Time) error {
	start, err := time.Parse(time.RFC3339, started)
	if err != nil {
		return fmt.Errorf("activity %d has invalid timer start %q: %w", id, started, err)
	}
	elapsed := max(now.Sub(start), 0)
	hours := math.Round(elapsed.Hours()*100) / 100
	_, err = tx.ExecContext(ctx,
		`UPDATE activities SET hours = hours + ?, timer_started_at = NULL WHERE id = ?`, hours, id)
	if err != nil {
		return fmt.Errorf("stop timer %d: %w", id, err)
	}
	return nil
}

// checkBooking validates the fields shared by creates and updates. New bookings need an active
// task; existing ones may keep a task that was deactivated since.
func (s *Store) checkBooking(ctx context.Context, date string, projectID, taskID int64, hours float64, requireActive bool) error {
	if _, err := time.Parse(tracker.DateFormat, date); err != nil {
		return fmt.Errorf("invalid activity date %q: %w", date, err)
	}
	if hours < 0 {
		return fmt.Errorf("hours must not be negative, got %v", hours)
	}
	var active int
	err := s.db.QueryRowContext(ctx,
		`SELECT active FROM tasks WHERE id = ? AND project_id = ?`, taskID, projectID,
	).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("task %d of project %d: %w", taskID, projectID, tracker.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get task %d: %w", taskID, err)
	}
	if requireActive && active != 1 {
		return fmt.Errorf("task %d is not active", taskID)
	}
	return nil
}

func scanActivity(row scanner) (tracker.Activity, error) {
	var a tracker.Activity
	var started sql.NullString
	var billable int
	err := row.Scan(&a.ID, &a.Date, &a.Hours, &a.Description, &started,
		&a.Project.ID, &a.Project.Name, &a.Task.ID, &a.Task.Name, &billable,
		&a.Customer.ID, &a.Customer.Name)
	if err != nil {
		return tracker.Activity{}, err
	}
	a.Billable = billable == 1
	if started.Valid {
		t, err := time.Parse(time.RFC3339, started.String)
		if err != nil {
			return tracker.Activity{}, fmt.Errorf("activity %d has invalid timer start %q: %w", a.ID, started.String, err)
		}
		a.TimerStartedAt = &t
	}
	return a, nil
}
