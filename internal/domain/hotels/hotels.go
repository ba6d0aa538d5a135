package hotels

import (
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"hotelops/internal/domain/shared/daterange"
)

type HotelID string
type RoomTypeID string
type RoomID string

// Hotel is the tenant root. Currency applies to every amount owned by the hotel.
type Hotel struct {
	ID       HotelID
	Name     string
	Currency string
	Timezone string
}

// Location resolves the hotel timezone, falling back to UTC when unset or unknown.
func (h Hotel) Location() *time.Location {
	if strings.TrimSpace(h.Timezone) == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(h.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var weekdays = [...]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf names the weekday of a calendar date.
func WeekdayOf(t time.Time) Weekday {
	return weekdays[t.Weekday()]
}

func ParseWeekday(raw string) (Weekday, bool) {
	w := Weekday(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range weekdays {
		if w == known {
			return w, true
		}
	}
	return "", false
}

// SeasonalRate overrides the nightly price for every date in [StartDate, EndDate].
type SeasonalRate struct {
	StartDate time.Time
	EndDate   time.Time
	Price     decimal.Decimal
}

func (s SeasonalRate) Window() daterange.Window {
	return daterange.Window{Start: daterange.Date(s.StartDate), End: daterange.Date(s.EndDate)}
}

func (s SeasonalRate) Contains(date time.Time) bool {
	return s.Window().Contains(date)
}

// Overlaps reports whether both ranges share at least one date.
func (s SeasonalRate) Overlaps(other SeasonalRate) bool {
	a, b := s.Window(), other.Window()
	return !a.End.Before(b.Start) && !b.End.Before(a.Start)
}

// RoomType carries the tiered pricing of a room category. SeasonalPricing keeps
// declaration order; later entries win on overlapping dates.
type RoomType struct {
	ID              RoomTypeID
	HotelID         HotelID
	Name            string
	BasePrice       decimal.Decimal
	WeekdayPricing  map[Weekday]decimal.Decimal
	SeasonalPricing []SeasonalRate
}

type RoomStatus string

const (
	RoomVacant      RoomStatus = "vacant"
	RoomOccupied    RoomStatus = "occupied"
	RoomDirty       RoomStatus = "dirty"
	RoomMaintenance RoomStatus = "maintenance"
)

func ParseRoomStatus(raw string) RoomStatus {
	return RoomStatus(strings.ToLower(strings.TrimSpace(raw)))
}

type Room struct {
	ID         RoomID
	HotelID    HotelID
	RoomNumber string
	RoomTypeID RoomTypeID
	Floor      string
	Status     RoomStatus
}
