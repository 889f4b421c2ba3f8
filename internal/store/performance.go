package store

import (
	"context"
	"fmt"
	"time"

	"go.coldcutz.net/mococli/internal/tracker"
)

// PerformanceReport compares the hours tracked in the current year against a target of the daily
// target hours on every weekday from Monday to Friday.
func (s *Store) PerformanceReport(ctx context.Context) (tracker.PerformanceReport, error) {
	now := s.now()
	year := now.Year()
	today := now.Format(tracker.DateFormat)

	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(substr(date, 6, 2) AS INTEGER) AS month,
		       COALESCE(SUM(hours), 0),
		       COALESCE(SUM(CASE WHEN date <= ? THEN hours ELSE 0 END), 0)
		FROM activities
		WHERE substr(date, 1, 4) = ?
		GROUP BY month`,
		today, fmt.Sprintf("%04d", year),
	)
	if err != nil {
		return tracker.PerformanceReport{}, fmt.Errorf("sum tracked hours: %w", err)
	}
	defer rows.Close()

	var tracked [13]float64
	var trackedUntilToday float64
	for rows.Next() {
		var month int
		var total, untilToday float64
		if err := rows.Scan(&month, &total, &untilToday); err != nil {
			return tracker.PerformanceReport{}, err
		}
		if month < 1 || month > 12 {
			return tracker.PerformanceReport{}, fmt.Errorf("activity with invalid month %d in %d", month, year)
		}
		tracked[month] = total
		trackedUntilToday += untilToday
	}
	if err := rows.Err(); err != nil {
		return tracker.PerformanceReport{}, err
	}

	r := tracker.PerformanceReport{Annually: tracker.AnnualPerformance{Year: year}}
	for m := time.January; m <= time.December; m++ {
		first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		target := s.dailyTarget * float64(workdays(first, last))
		r.Monthly = append(r.Monthly, tracker.MonthlyPerformance{
			Year:              year,
			Month:             int(m),
			TargetHours:       target,
			HoursTrackedTotal: tracked[m],
			Variation:         tracked[m] - target,
		})
		r.Annually.TargetHours += target
		r.Annually.HoursTrackedTotal += tracked[m]
	}
	r.Annually.EmploymentHours = r.Annually.TargetHours
	r.Annually.Variation = r.Annually.HoursTrackedTotal - r.Annually.TargetHours

	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	todayUTC := time.Date(year, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	r.Annually.VariationUntilToday = trackedUntilToday - s.dailyTarget*float64(workdays(jan1, todayUTC))
	return r, nil
}

// workdays counts the days from Monday to Friday between from and to inclusive.
func workdays(from, to time.Time) int {
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}
