package daterange

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the wire form of a calendar date.
const Layout = "2006-01-02"

// Date drops the clock part of t, keeping the calendar day as seen in t's location,
// and returns it as midnight UTC.
func Date(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of calendar days from a to b. It works on
// Unix seconds so spans beyond the range of time.Duration stay exact.
func DaysBetween(a, b time.Time) int {
	return int((Date(b).Unix() - Date(a).Unix()) / secondsPerDay)
}

func Parse(value string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("daterange: invalid date %q, want YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}

func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Date(t).Format(Layout)
}

// Today is the calendar date of now in loc (UTC when loc is nil).
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Date(now.In(loc))
}

// StartOfISOWeek returns the Monday of the ISO week containing d.
func StartOfISOWeek(d time.Time) time.Time {
	d = Date(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func StartOfMonth(d time.Time) time.Time {
	d = Date(d)
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}
