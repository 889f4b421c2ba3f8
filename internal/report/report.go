package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.coldcutz.net/mococli/internal/table"
	"go.coldcutz.net/mococli/internal/tracker"
)

// Placeholder fills cells that carry no value in summary rows.
const Placeholder = "-"

// AnnualMarker labels the annual total row of the overtime report.
const AnnualMarker = "==>"

var cellReplacer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\t", " ")

// Cell flattens free text into a single table cell: line breaks and tabs become spaces.
func Cell(s string) string {
	return cellReplacer.Replace(s)
}

// FormatHours rounds h to two decimals and drops trailing zeros: 4.5 -> "4.5", 1 -> "1".
func FormatHours(h float64) string {
	rounded := math.Round(h*100) / 100
	if rounded == 0 {
		rounded = 0 // no "-0"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// Activities builds the activity listing: a header row, one row per activity and a totals row
// carrying the summed duration.
func Activities(activities []tracker.Activity) ([][]string, error) {
	rows := make([][]string, 0, len(activities)+2)
	rows = append(rows, []string{"Date", "Day", "Duration", "Customer", "Task", "Description"})

	var total float64
	for _, a := range activities {
		day, err := a.Day()
		if err != nil {
			return nil, fmt.Errorf("activity %d has invalid date %q: %w", a.ID, a.Date, err)
		}
		total += a.Hours
		rows = append(rows, []string{
			a.Date,
			day.Weekday().String(),
			FormatHours(a.Hours),
			Cell(a.Customer.Name),
			Cell(a.Task.Name),
			Cell(a.Description),
		})
	}

	rows = append(rows, []string{
		Placeholder,
		Placeholder,
		FormatHours(total),
		Placeholder,
		Placeholder,
		Placeholder,
	})
	return rows, nil
}

// Overtime builds the monthly overtime table: a header row, one row per month, a separator row
// of dashes and the annual total row.
func Overtime(r tracker.PerformanceReport) ([][]string, error) {
	rows := make([][]string, 0, len(r.Monthly)+3)
	rows = append(rows, []string{"Month", "Overtime", "Target Hours", "Tracked Hours"})

	for _, m := range r.Monthly {
		if m.Month < 1 || m.Month > 12 {
			return nil, fmt.Errorf("invalid month %d in performance report", m.Month)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%02d: %s", m.Month, time.Month(m.Month)),
			FormatHours(m.Variation),
			FormatHours(m.TargetHours),
			FormatHours(m.HoursTrackedTotal),
		})
	}

	annual := []string{
		AnnualMarker,
		FormatHours(r.Annually.Variation),
		FormatHours(r.Annually.TargetHours),
		FormatHours(r.Annually.HoursTrackedTotal),
	}

	widths, err := table.Widths(append(rows[:len(rows):len(rows)], annual))
	if err != nil {
		return nil, err
	}
	separator := make([]string, len(widths))
	for i, w := range widths {
		separator[i] = strings.Repeat("-", w)
	}

	return append(rows, separator, annual), nil
}

// OvertimeTitle is the heading printed above the monthly overtime table.
func OvertimeTitle(r tracker.PerformanceReport) string {
	return fmt.Sprintf("Your monthly overtime report for %d", r.Annually.Year)
}

// OvertimeToDate is the one-line summary of the annual variation until today.
func OvertimeToDate(r tracker.PerformanceReport) string {
	return fmt.Sprintf("Your current overtime until end of today: %s", FormatHours(r.Annually.VariationUntilToday))
}
