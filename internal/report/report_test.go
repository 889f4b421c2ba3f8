package report

import (
	"strings"
	"testing"

	"go.coldcutz.net/mococli/internal/table"
	"go.coldcutz.net/mococli/internal/tracker"
)

func TestFormatHours(t *testing.T) {
	tests := map[float64]string{
		0:         "0",
		1:         "1",
		4.5:       "4.5",
		0.1 + 0.2: "0.3",
		-2.25:     "-2.25",
		7.333333:  "7.33",
		-0.001:    "0",
	}
	for in, want := range tests {
		if got := FormatHours(in); got != want {
			t.Errorf("FormatHours(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestActivitiesTotalsRow(t *testing.T) {
	activities := []tracker.Activity{
		{ID: 1, Date: "2024-01-01", Hours: 3.5, Customer: tracker.Customer{Name: "ACME"}, Task: tracker.Ref{Name: "Dev"}, Description: "API"},
		{ID: 2, Date: "2024-01-02", Hours: 1.0, Customer: tracker.Customer{Name: "ACME"}, Task: tracker.Ref{Name: "QA"}},
	}

	rows, err := Activities(activities)
	if err != nil {
		t.Fatalf("Activities failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	header := strings.Join(rows[0], ",")
	if header != "Date,Day,Duration,Customer,Task,Description" {
		t.Errorf("unexpected header %q", header)
	}
	if rows[1][1] != "Monday" || rows[2][1] != "Tuesday" {
		t.Errorf("unexpected weekdays %q, %q", rows[1][1], rows[2][1])
	}
	if rows[2][2] != "1" {
		t.Errorf("expected duration 1, got %q", rows[2][2])
	}

	totals := rows[3]
	if totals[2] != "4.5" {
		t.Errorf("expected total 4.5, got %q", totals[2])
	}
	for i, cell := range totals {
		if i != 2 && cell != Placeholder {
			t.Errorf("totals cell %d should be a placeholder, got %q", i, cell)
		}
	}

	if _, err := table.Render(rows); err != nil {
		t.Errorf("rows should render: %v", err)
	}
}

func TestActivitiesEmpty(t *testing.T) {
	rows, err := Activities(nil)
	if err != nil {
		t.Fatalf("Activities failed: %v", err)
	}
	if len(rows) != 2 || rows[1][2] != "0" {
		t.Errorf("expected header and zero totals row, got %v", rows)
	}
}

func TestActivitiesInvalidDate(t *testing.T) {
	_, err := Activities([]tracker.Activity{{ID: 9, Date: "01.01.2024"}})
	if err == nil {
		t.Fatal("expected error for invalid date")
	}
	if !strings.Contains(err.Error(), "activity 9") {
		t.Errorf("error should name the activity, got %v", err)
	}
}

func testReport() tracker.PerformanceReport {
	r := tracker.PerformanceReport{
		Annually: tracker.AnnualPerformance{
			Year:                2024,
			TargetHours:         1920,
			HoursTrackedTotal:   1930.5,
			Variation:           10.5,
			VariationUntilToday: 3.25,
		},
	}
	for m := 1; m <= 12; m++ {
		r.Monthly = append(r.Monthly, tracker.MonthlyPerformance{
			Year:              2024,
			Month:             m,
			TargetHours:       160,
			HoursTrackedTotal: 160.875,
			Variation:         0.875,
		})
	}
	return r
}

func TestOvertime(t *testing.T) {
	rows, err := Overtime(testReport())
	if err != nil {
		t.Fatalf("Overtime failed: %v", err)
	}
	if len(rows) != 15 {
		t.Fatalf("expected 15 rows, got %d", len(rows))
	}
	if rows[1][0] != "01: January" || rows[12][0] != "12: December" {
		t.Errorf("unexpected month labels %q, %q", rows[1][0], rows[12][0])
	}
	if rows[1][1] != "0.88" {
		t.Errorf("expected rounded variation 0.88, got %q", rows[1][1])
	}

	separator := rows[13]
	want := []string{"-------------", "--------", "------------", "-------------"}
	for i := range want {
		if separator[i] != want[i] {
			t.Errorf("separator cell %d = %q, want %q", i, separator[i], want[i])
		}
	}

	annual := rows[14]
	if annual[0] != AnnualMarker || annual[1] != "10.5" || annual[2] != "1920" || annual[3] != "1930.5" {
		t.Errorf("unexpected annual row %v", annual)
	}

	out, err := table.Render(rows)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.HasPrefix(out, "Month        \tOvertime\tTarget Hours\tTracked Hours\n") {
		t.Errorf("unexpected header line in %q", out)
	}
}

func TestOvertimeInvalidMonth(t *testing.T) {
	r := testReport()
	r.Monthly[3].Month = 13
	if _, err := Overtime(r); err == nil {
		t.Error("expected error for month 13")
	}
}

func TestOvertimeLines(t *testing.T) {
	r := testReport()
	if got := OvertimeTitle(r); got != "Your monthly overtime report for 2024" {
		t.Errorf("unexpected title %q", got)
	}
	if got := OvertimeToDate(r); got != "Your current overtime until end of today: 3.25" {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestActivitiesMultiLineDescription(t *testing.T) {
	activities := []tracker.Activity{
		{ID: 1, Date: "2024-01-01", Hours: 2, Customer: tracker.Customer{Name: "ACME"}, Task: tracker.Ref{Name: "Dev"}, Description: "line one\nline two"},
		{ID: 2, Date: "2024-01-02", Hours: 1, Customer: tracker.Customer{Name: "ACME"}, Task: tracker.Ref{Name: "QA"}, Description: "has\ttab\r\nend"},
	}

	rows, err := Activities(activities)
	if err != nil {
		t.Fatalf("Activities failed: %v", err)
	}
	got, err := table.Render(rows)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := "Date      \tDay    \tDuration\tCustomer\tTask\tDescription\n" +
		"2024-01-01\tMonday \t2       \tACME    \tDev \tline one line two\n" +
		"2024-01-02\tTuesday\t1       \tACME    \tQA  \thas tab end\n" +
		"-         \t-      \t3       \t-       \t-   \t-\n"
	if got != want {
		t.Errorf("unexpected listing:\n%q\nwant:\n%q", got, want)
	}

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != len(rows) {
		t.Fatalf("expected %d lines, got %d", len(rows), len(lines))
	}
	for i, line := range lines {
		if n := len(strings.Split(line, "\t")); n != len(rows[i]) {
			t.Errorf("line %d has %d cells, want %d", i, n, len(rows[i]))
		}
	}
}

func TestCell(t *testing.T) {
	tests := map[string]string{
		"plain":           "plain",
		"a\nb":            "a b",
		"a\r\nb":          "a b",
		"a\rb":            "a b",
		"a\tb":            "a b",
		"":                "",
		"Müller\nGmbH\t!": "Müller GmbH !",
	}
	for in, want := range tests {
		if got := Cell(in); got != want {
			t.Errorf("Cell(%q) = %q, want %q", in, got, want)
		}
	}
}
