package tracker

import (
	"encoding/json"
	"testing"
	"time"
)

func TestActiveTasks(t *testing.T) {
	p := Project{Tasks: []Task{
		{ID: 1, Name: "Design", Active: true},
		{ID: 2, Name: "Legacy"},
		{ID: 3, Name: "Development", Active: true},
	}}

	got := p.ActiveTasks()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("expected active tasks 1 and 3 in order, got %+v", got)
	}
	if len((Project{}).ActiveTasks()) != 0 {
		t.Error("project without tasks should have no active tasks")
	}
}

func TestActivityDecode(t *testing.T) {
	data := `{"id": 5, "date": "2024-03-14", "hours": 2.25, "description": null,
		"project": {"id": 1, "name": "Website"}, "task": {"id": 2, "name": "Dev"},
		"customer": {"id": 3, "name": "ACME"}, "timer_started_at": null}`

	var a Activity
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if a.Description != "" || a.TimerRunning() {
		t.Errorf("null fields should decode to zero values, got %+v", a)
	}

	day, err := a.Day()
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if !day.Equal(time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)) || day.Weekday() != time.Thursday {
		t.Errorf("unexpected day %v", day)
	}

	a.Date = "14.03.2024"
	if _, err := a.Day(); err == nil {
		t.Error("expected error for malformed date")
	}
}
