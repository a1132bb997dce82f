package activity

import (
	"fmt"
	"time"
)

// CivilDate returns the calendar date of t in its own location, expressed as
// UTC midnight so that day arithmetic never crosses a DST shift.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday of the ISO week containing t's civil date.
func WeekStart(t time.Time) time.Time {
	d := CivilDate(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}

// WeekLabel formats the ISO-8601 year and week of t as "2024-W09". The ISO
// year can differ from the calendar year in the first and last days of a year.
func WeekLabel(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// MonthLabel formats t as "2024-03".
func MonthLabel(t time.Time) string {
	return t.Format("2006-01")
}

// WeekRange formats the Monday to Sunday span of the week starting at monday
// as "Mar 04 - Mar 10".
func WeekRange(monday time.Time) string {
	return monday.Format("Jan 02") + " - " + monday.AddDate(0, 0, 6).Format("Jan 02")
}
