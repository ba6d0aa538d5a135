package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"hotelops/internal/domain/reservations"
	"hotelops/internal/domain/shared/daterange"
)

// Revenue is recognized revenue split by origin.
type Revenue struct {
	Rooms    decimal.Decimal `json:"rooms"`
	Services decimal.Decimal `json:"services"`
}

func (r Revenue) Total() decimal.Decimal {
	return r.Rooms.Add(r.Services)
}

// CalculateRevenue attributes the full TotalPrice of checked-in and checked-out
// reservations to their check-in date, and completed service orders to the
// calendar date they were ordered on in loc. Multi-night stays are not
// apportioned across nights.
func CalculateRevenue(items []reservations.Reservation, orders []reservations.ServiceOrder, window daterange.Window, loc *time.Location) Revenue {
	out := Revenue{Rooms: decimal.Zero, Services: decimal.Zero}
	for _, r := range items {
		if !r.Status.Recognized() || !window.Contains(r.CheckInDate) {
			continue
		}
		out.Rooms = out.Rooms.Add(r.TotalPrice)
	}
	for _, o := range orders {
		if o.Status != reservations.OrderCompleted || !window.Contains(o.OrderedOn(loc)) {
			continue
		}
		out.Services = out.Services.Add(o.TotalPrice)
	}
	return out
}
