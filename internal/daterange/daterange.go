package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the calendar date layout used for queries and user input.
const DateFormat = "2006-01-02"

// DayFormat renders a date with its weekday, e.g. "2024-01-01, Monday".
const DayFormat = "2006-01-02, Monday"

// ErrInvalidDateShift is returned when a shift lands outside the representable calendar.
var ErrInvalidDateShift = errors.New("date shift is not representable")

// maxPeriodsBack keeps day arithmetic far away from int overflow.
const maxPeriodsBack = 1 << 22

// Granularity is the calendar unit a range is computed in.
type Granularity int

const (
	Day Granularity = iota
	Week
	Month
)

func (g Granularity) String() string {
	switch g {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	}
	return fmt.Sprintf("Granularity(%d)", int(g))
}

// FromFlags maps the week/month command flags to a granularity. Week wins when both are set.
func FromFlags(week, month bool) Granularity {
	switch {
	case week:
		return Week
	case month:
		return Month
	}
	return Day
}

// Range is an inclusive pair of instants. From is the first nanosecond of its day and To is the
// last nanosecond of its day.
type Range struct {
	From time.Time
	To   time.Time
}

// SingleDay returns the range covering the calendar day of t.
func SingleDay(t time.Time) Range {
	return Range{From: startOfDay(t), To: endOfDay(t)}
}

// Dates returns From and To formatted with DateFormat.
func (r Range) Dates() (string, string) {
	return r.From.Format(DateFormat), r.To.Format(DateFormat)
}

// Contains reports whether the calendar day of t lies within the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Calculator computes ranges relative to a clock.
type Calculator struct {
	Now       func() time.Time
	WeekStart time.Weekday
}

// NewCalculator returns a calculator on the wall clock with the given first day of week.
func NewCalculator(weekStart time.Weekday) *Calculator {
	return &Calculator{Now: time.Now, WeekStart: weekStart}
}

// Today returns the range of the current day.
func (c *Calculator) Today() Range {
	return SingleDay(c.now())
}

// Compute returns the range of the period that lies periodsBack periods of the given
// granularity before the current one. periodsBack 0 is the current period.
func (c *Calculator) Compute(g Granularity, periodsBack uint) (Range, error) {
	if periodsBack > maxPeriodsBack {
		return Range{}, fmt.Errorf("%w: %s %d periods back", ErrInvalidDateShift, g, periodsBack)
	}
	now := c.now()
	var r Range
	switch g {
	case Day:
		r = SingleDay(now.AddDate(0, 0, -int(periodsBack)))
	case Week:
		anchor := now.AddDate(0, 0, -7*int(periodsBack))
		start := startOfWeek(anchor, c.WeekStart)
		r = Range{From: start, To: endOfDay(start.AddDate(0, 0, 6))}
	case Month:
		anchor := ShiftMonths(now, -int(periodsBack))
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		last := time.Date(anchor.Year(), anchor.Month(), daysIn(anchor.Year(), anchor.Month()), 0, 0, 0, 0, anchor.Location())
		r = Range{From: first, To: endOfDay(last)}
	default:
		return Range{}, fmt.Errorf("%w: unknown granularity %s", ErrInvalidDateShift, g)
	}
	if r.From.Year() < 1 || r.To.Year() > 9999 {
		return Range{}, fmt.Errorf("%w: %s %d periods back", ErrInvalidDateShift, g, periodsBack)
	}
	return r, nil
}

func (c *Calculator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// ShiftMonths moves t by n calendar months. When the target month is shorter than t's day, the
// result is clamped to the target month's last day (March 31 - 1 month = February 28/29).
func ShiftMonths(t time.Time, n int) time.Time {
	total := int(t.Month()) - 1 + n
	year := t.Year() + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	m := time.Month(month + 1)
	day := min(t.Day(), daysIn(year, m))
	return time.Date(year, m, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// ParseWeekday parses an English weekday name ("monday", "Sun", ...).
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Monday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("unknown weekday %q", s)
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func startOfWeek(t time.Time, first time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(first) + 7) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}
