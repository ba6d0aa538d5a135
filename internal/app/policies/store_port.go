package policies

import (
	"context"
	"errors"

	"hotelops/internal/domain/hotels"
	"hotelops/internal/domain/reservations"
)

// ErrNotFound is returned by store adapters when a hotel or room type does not exist.
var ErrNotFound = errors.New("store: record not found")

// HotelStore reads tenant-scoped snapshots from the document store. Every method
// returns the full matching set for a single hotel.
type HotelStore interface {
	Hotel(ctx context.Context, id hotels.HotelID) (hotels.Hotel, error)
	Rooms(ctx context.Context, hotelID hotels.HotelID) ([]hotels.Room, error)
	RoomTypes(ctx context.Context, hotelID hotels.HotelID) ([]hotels.RoomType, error)
	RoomType(ctx context.Context, hotelID hotels.HotelID, id hotels.RoomTypeID) (hotels.RoomType, error)
	// Reservations returns every reservation of the hotel when statuses is empty.
	Reservations(ctx context.Context, hotelID hotels.HotelID, statuses ...reservations.Status) ([]reservations.Reservation, error)
	CompletedServiceOrders(ctx context.Context, hotelID hotels.HotelID) ([]reservations.ServiceOrder, error)
}
