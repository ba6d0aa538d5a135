package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange  = errors.New("daterange: checkout must be after checkin")
	ErrInvalidWindow = errors.New("daterange: window end must not be before start")
)

// DateRange represents a half-open interval [checkIn, checkOut) of calendar dates.
// Every date inside it is one night.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: Date(checkIn), CheckOut: Date(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights is zero or negative for degenerate ranges.
func (dr DateRange) Nights() int {
	return DaysBetween(dr.CheckIn, dr.CheckOut)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	d := Date(t)
	return !d.Before(dr.CheckIn) && d.Before(dr.CheckOut)
}

// Dates lists every night of the range in order.
func (dr DateRange) Dates() []time.Time {
	n := dr.Nights()
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	for d := Date(dr.CheckIn); d.Before(dr.CheckOut); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Clamp intersects the nights of dr with the inclusive window w.
func (dr DateRange) Clamp(w Window) (DateRange, bool) {
	start := Date(dr.CheckIn)
	if w.Start.After(start) {
		start = w.Start
	}
	end := Date(dr.CheckOut)
	if limit := w.End.AddDate(0, 0, 1); limit.Before(end) {
		end = limit
	}
	if !end.After(start) {
		return DateRange{}, false
	}
	return DateRange{CheckIn: start, CheckOut: end}, true
}

// Window is an inclusive interval [Start, End] of calendar dates used for reporting.
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: Date(start), End: Date(end)}
	if w.End.Before(w.Start) {
		return Window{}, ErrInvalidWindow
	}
	return w, nil
}

// Day is the single-day window [d, d].
func Day(d time.Time) Window {
	d = Date(d)
	return Window{Start: d, End: d}
}

func (w Window) Days() int {
	return DaysBetween(w.Start, w.End) + 1
}

func (w Window) Contains(t time.Time) bool {
	d := Date(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// OverlapNights counts the nights of stay that fall inside the window.
func (w Window) OverlapNights(stay DateRange) int {
	clamped, ok := stay.Clamp(w)
	if !ok {
		return 0
	}
	return clamped.Nights()
}
