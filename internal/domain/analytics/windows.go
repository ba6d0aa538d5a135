package analytics

import (
	"time"

	"hotelops/internal/domain/shared/daterange"
)

// Today is the window [today, today].
func Today(today time.Time) daterange.Window {
	return daterange.Day(today)
}

// WeekToDate runs from the Monday of the ISO week up to and including today.
// It is cumulative, not a seven-day projection.
func WeekToDate(today time.Time) daterange.Window {
	return daterange.Window{Start: daterange.StartOfISOWeek(today), End: daterange.Date(today)}
}

// MonthToDate runs from the first of the month up to and including today.
func MonthToDate(today time.Time) daterange.Window {
	return daterange.Window{Start: daterange.StartOfMonth(today), End: daterange.Date(today)}
}
