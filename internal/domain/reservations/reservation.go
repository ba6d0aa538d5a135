package reservations

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hotelops/internal/domain/hotels"
	"hotelops/internal/domain/shared/daterange"
)

type ReservationID string

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked-in"
	StatusCheckedOut Status = "checked-out"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no-show"
)

// ParseStatus accepts the stored spellings ("checked-in", "CHECKED_IN", "checked_in").
func ParseStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	return Status(strings.ReplaceAll(s, "_", "-"))
}

// Occupying reports whether the reservation holds its room for occupancy accounting.
func (s Status) Occupying() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

// Recognized reports whether the stay's revenue has been earned.
func (s Status) Recognized() bool {
	return s == StatusCheckedIn || s == StatusCheckedOut
}

// Reservation is a booked stay. TotalPrice is priced once at creation or update
// and never recomputed on read.
type Reservation struct {
	ID             ReservationID
	HotelID        hotels.HotelID
	RoomID         hotels.RoomID
	RoomTypeID     hotels.RoomTypeID
	CheckInDate    time.Time
	CheckOutDate   time.Time
	Status         Status
	TotalPrice     decimal.Decimal
	NumberOfGuests int
}

// Stay returns the raw stay interval without validation; degenerate stays have no nights.
func (r Reservation) Stay() daterange.DateRange {
	return daterange.DateRange{CheckIn: daterange.Date(r.CheckInDate), CheckOut: daterange.Date(r.CheckOutDate)}
}
