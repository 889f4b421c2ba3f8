package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.coldcutz.net/mococli/internal/tracker"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func newTestStore(t *testing.T) (*Store, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC)}
	s, err := NewMemory(WithClock(c.Now), WithDailyTarget(8))
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, c
}

func seedProject(t *testing.T, s *Store) tracker.Project {
	t.Helper()
	p, err := s.CreateProject(context.Background(), "ACME", "Website", []string{"Design", "Development"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func book(t *testing.T, s *Store, p tracker.Project, date string, hours float64) tracker.Activity {
	t.Helper()
	a, err := s.CreateActivity(context.Background(), tracker.NewActivity{
		Date:      date,
		ProjectID: p.ID,
		TaskID:    p.Tasks[0].ID,
		Hours:     hours,
	})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	return a
}

func TestNewMemory(t *testing.T) {
	s, _ := newTestStore(t)

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != currentVersion {
		t.Fatalf("expected user_version %d, got %d", currentVersion, version)
	}
}

func TestNewWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "mococli.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateProject(context.Background(), "ACME", "Website", nil); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopening must not re-migrate or lose data.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	projects, err := s2.Projects(context.Background())
	if err != nil || len(projects) != 1 {
		t.Fatalf("expected 1 project after reopen, got %d (%v)", len(projects), err)
	}
}

func TestCreateProject(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p := seedProject(t, s)
	if p.Customer.Name != "ACME" || p.Name != "Website" || !p.Active {
		t.Errorf("unexpected project %+v", p)
	}
	if len(p.Tasks) != 2 || p.Tasks[1].Name != "Development" || !p.Tasks[1].Active {
		t.Errorf("unexpected tasks %+v", p.Tasks)
	}

	other, err := s.CreateProject(ctx, "ACME", "App", []string{"QA", " "})
	if err != nil {
		t.Fatalf("create second project: %v", err)
	}
	if other.Customer.ID != p.Customer.ID {
		t.Error("projects of the same customer should share the customer")
	}
	if len(other.Tasks) != 1 {
		t.Errorf("blank task names should be skipped, got %+v", other.Tasks)
	}

	if _, err := s.CreateProject(ctx, "ACME", "Website", nil); err == nil {
		t.Error("expected duplicate project to fail")
	}
	if _, err := s.CreateProject(ctx, "", "X", nil); err == nil {
		t.Error("expected missing customer to fail")
	}

	projects, err := s.Projects(ctx)
	if err != nil {
		t.Fatalf("Projects failed: %v", err)
	}
	if len(projects) != 2 || projects[0].Name != "App" || projects[1].Name != "Website" {
		t.Errorf("expected projects ordered by name, got %+v", projects)
	}
	if len(projects[1].Tasks) != 2 {
		t.Errorf("expected tasks attached, got %+v", projects[1].Tasks)
	}
}

func TestSetTaskActive(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s)

	a := book(t, s, p, "2024-03-14", 1)
	if err := s.SetTaskActive(ctx, p.Tasks[0].ID, false); err != nil {
		t.Fatalf("SetTaskActive failed: %v", err)
	}

	projects, _ := s.Projects(ctx)
	if got := projects[0].ActiveTasks(); len(got) != 1 || got[0].Name != "Development" {
		t.Errorf("expected only Development active, got %+v", got)
	}

	_, err := s.CreateActivity(ctx, tracker.NewActivity{Date: "2024-03-14", ProjectID: p.ID, TaskID: p.Tasks[0].ID})
	if err == nil {
		t.Error("booking an inactive task should fail")
	}
	err = s.UpdateActivity(ctx, a.ID, tracker.ActivityUpdate{Date: "2024-03-15", ProjectID: p.ID, TaskID: p.Tasks[0].ID, Hours: 2})
	if err != nil {
		t.Errorf("existing activity on an inactive task should stay editable: %v", err)
	}

	if err := s.SetTaskActive(ctx, 999, true); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestActivityCRUD(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s)

	a := book(t, s, p, "2024-03-14", 1.5)
	if a.Project.Name != "Website" || a.Task.Name != "Design" || a.Customer.Name != "ACME" || !a.Billable {
		t.Errorf("unexpected activity %+v", a)
	}

	err := s.UpdateActivity(ctx, a.ID, tracker.ActivityUpdate{
		Date:        "2024-03-13",
		ProjectID:   p.ID,
		TaskID:      p.Tasks[1].ID,
		Hours:       2,
		Description: "review",
	})
	if err != nil {
		t.Fatalf("UpdateActivity failed: %v", err)
	}
	got, err := s.Activity(ctx, a.ID)
	if err != nil {
		t.Fatalf("Activity failed: %v", err)
	}
	if got.Date != "2024-03-13" || got.Hours != 2 || got.Task.Name != "Development" || got.Description != "review" {
		t.Errorf("unexpected updated activity %+v", got)
	}

	if err := s.DeleteActivity(ctx, a.ID); err != nil {
		t.Fatalf("DeleteActivity failed: %v", err)
	}
	if _, err := s.Activity(ctx, a.ID); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteActivity(ctx, a.ID); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreateActivityValidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s)

	tests := map[string]tracker.NewActivity{
		"bad date":      {Date: "14.03.2024", ProjectID: p.ID, TaskID: p.Tasks[0].ID},
		"negative":      {Date: "2024-03-14", ProjectID: p.ID, TaskID: p.Tasks[0].ID, Hours: -1},
		"unknown task":  {Date: "2024-03-14", ProjectID: p.ID, TaskID: 999},
		"wrong project": {Date: "2024-03-14", ProjectID: 999, TaskID: p.Tasks[0].ID},
	}
	for name, n := range tests {
		if _, err := s.CreateActivity(ctx, n); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestActivitiesWindow(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedProject(t, s)

	book(t, s, p, "2024-03-10", 1)
	b := book(t, s, p, "2024-03-11", 2)
	c := book(t, s, p, "2024-03-17", 3)
	book(t, s, p, "2024-03-18", 4)

	from := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 17, 23, 59, 59, 0, time.UTC)
	got, err := s.Activities(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Activities failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != b.ID || got[1].ID != c.ID {
		t.Errorf("expected activities %d and %d, got %+v", b.ID, c.ID, got)
	}
}

func TestTimers(t *testing.T) {
	s, clk := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s)

	first := book(t, s, p, "2024-03-14", 0)
	second := book(t, s, p, "2024-03-14", 1)
	yesterday := book(t, s, p, "2024-03-13", 0)

	if err := s.StartTimer(ctx, yesterday.ID); err == nil {
		t.Error("starting a timer on a past activity should fail")
	}
	if err := s.StopTimer(ctx, first.ID); !errors.Is(err, tracker.ErrTimerNotRunning) {
		t.Errorf("expected ErrTimerNotRunning, got %v", err)
	}

	if err := s.StartTimer(ctx, first.ID); err != nil {
		t.Fatalf("StartTimer failed: %v", err)
	}
	got, _ := s.Activity(ctx, first.ID)
	if !got.TimerRunning() || !got.TimerStartedAt.Equal(clk.now) {
		t.Errorf("expected timer started at %v, got %+v", clk.now, got.TimerStartedAt)
	}

	clk.now = clk.now.Add(90 * time.Minute)
	if err := s.StartTimer(ctx, second.ID); err != nil {
		t.Fatalf("StartTimer failed: %v", err)
	}
	got, _ = s.Activity(ctx, first.ID)
	if got.TimerRunning() || got.Hours != 1.5 {
		t.Errorf("starting another timer should stop the first one, got %+v", got)
	}

	clk.now = clk.now.Add(15 * time.Minute)
	if err := s.StopTimer(ctx, second.ID); err != nil {
		t.Fatalf("StopTimer failed: %v", err)
	}
	got, _ = s.Activity(ctx, second.ID)
	if got.TimerRunning() || got.Hours != 1.25 {
		t.Errorf("expected 1.25 hours after stop, got %+v", got)
	}

	if err := s.StartTimer(ctx, 999); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPerformanceReport(t *testing.T) {
	s, _ := newTestStore(t)
	p := seedProject(t, s)

	book(t, s, p, "2023-12-29", 100)
	book(t, s, p, "2024-01-10", 8)
	book(t, s, p, "2024-03-14", 4)
	book(t, s, p, "2024-03-20", 2)

	r, err := s.PerformanceReport(context.Background())
	if err != nil {
		t.Fatalf("PerformanceReport failed: %v", err)
	}
	if len(r.Monthly) != 12 {
		t.Fatalf("expected 12 months, got %d", len(r.Monthly))
	}

	jan, mar := r.Monthly[0], r.Monthly[2]
	// January 2024 has 23 weekdays, March 2024 has 21.
	if jan.TargetHours != 184 || jan.HoursTrackedTotal != 8 || jan.Variation != -176 {
		t.Errorf("unexpected January %+v", jan)
	}
	if mar.Month != 3 || mar.TargetHours != 168 || mar.HoursTrackedTotal != 6 || mar.Variation != -162 {
		t.Errorf("unexpected March %+v", mar)
	}

	if r.Annually.Year != 2024 || r.Annually.HoursTrackedTotal != 14 {
		t.Errorf("unexpected annual totals %+v", r.Annually)
	}
	// 2024 has 262 weekdays.
	if r.Annually.TargetHours != 262*8 || r.Annually.Variation != 14-262*8 {
		t.Errorf("unexpected annual target %+v", r.Annually)
	}
	// 54 weekdays up to and including 2024-03-14, 12 hours tracked until then.
	if r.Annually.VariationUntilToday != 12-54*8 {
		t.Errorf("unexpected variation until today %v", r.Annually.VariationUntilToday)
	}
}

func TestWorkdays(t *testing.T) {
	mon := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		to   time.Time
		want int
	}{
		{mon, 1},
		{mon.AddDate(0, 0, 4), 5},
		{mon.AddDate(0, 0, 6), 5},
		{mon.AddDate(0, 0, 7), 6},
		{mon.AddDate(0, 0, -1), 0},
	}
	for _, tt := range tests {
		if got := workdays(mon, tt.to); got != tt.want {
			t.Errorf("workdays(%s, %s) = %d, want %d", mon.Format("2006-01-02"), tt.to.Format("2006-01-02"), got, tt.want)
		}
	}
}
