package reservations

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hotelops/internal/domain/hotels"
	"hotelops/internal/domain/shared/daterange"
)

type ServiceOrderID string

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func ParseOrderStatus(raw string) OrderStatus {
	return OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
}

// ServiceOrder is an ancillary charge attached to a reservation.
type ServiceOrder struct {
	ID            ServiceOrderID
	HotelID       hotels.HotelID
	ReservationID ReservationID
	TotalPrice    decimal.Decimal
	Status        OrderStatus
	OrderedAt     time.Time
}

// OrderedOn is the calendar date of the order as seen in loc.
func (o ServiceOrder) OrderedOn(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return daterange.Date(o.OrderedAt.In(loc))
}
