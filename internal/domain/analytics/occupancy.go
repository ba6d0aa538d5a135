package analytics

import (
	"hotelops/internal/domain/reservations"
	"hotelops/internal/domain/shared/daterange"
)

// OccupiedRoomNights sums, over occupying reservations, the nights of each stay
// that fall inside the window.
func OccupiedRoomNights(items []reservations.Reservation, window daterange.Window) int {
	total := 0
	for _, r := range items {
		if !r.Status.Occupying() {
			continue
		}
		total += window.OverlapNights(r.Stay())
	}
	return total
}

// CalculateOccupancy returns occupied room-nights over available room-nights as a
// percentage in [0, 100]. Double bookings cannot push it above 100.
func CalculateOccupancy(totalRooms int, items []reservations.Reservation, window daterange.Window) float64 {
	if totalRooms <= 0 {
		return 0
	}
	days := window.Days()
	if days <= 0 {
		return 0
	}
	available := totalRooms * days
	occupied := OccupiedRoomNights(items, window)
	pct := float64(occupied) / float64(available) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
