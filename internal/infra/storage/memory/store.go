package memory

import (
	"context"
	"sort"
	"sync"

	"hotelops/internal/app/policies"
	"hotelops/internal/domain/hotels"
	"hotelops/internal/domain/reservations"
)

// Store keeps hotel snapshots in memory. It backs local runs and tests.
type Store struct {
	mu           sync.RWMutex
	hotels       map[hotels.HotelID]hotels.Hotel
	rooms        map[hotels.HotelID]map[hotels.RoomID]hotels.Room
	roomTypes    map[hotels.HotelID]map[hotels.RoomTypeID]hotels.RoomType
	reservations map[hotels.HotelID]map[reservations.ReservationID]reservations.Reservation
	orders       map[hotels.HotelID]map[reservations.ServiceOrderID]reservations.ServiceOrder
}

func NewStore() *Store {
	return &Store{
		hotels:       make(map[hotels.HotelID]hotels.Hotel),
		rooms:        make(map[hotels.HotelID]map[hotels.RoomID]hotels.Room),
		roomTypes:    make(map[hotels.HotelID]map[hotels.RoomTypeID]hotels.RoomType),
		reservations: make(map[hotels.HotelID]map[reservations.ReservationID]reservations.Reservation),
		orders:       make(map[hotels.HotelID]map[reservations.ServiceOrderID]reservations.ServiceOrder),
	}
}

func (s *Store) SaveHotel(h hotels.Hotel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotels[h.ID] = h
}

func (s *Store) SaveRoom(r hotels.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket(s.rooms, r.HotelID)[r.ID] = r
}

func (s *Store) SaveRoomType(rt hotels.RoomType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket(s.roomTypes, rt.HotelID)[rt.ID] = rt
}

func (s *Store) SaveReservation(r reservations.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket(s.reservations, r.HotelID)[r.ID] = r
}

func (s *Store) SaveServiceOrder(o reservations.ServiceOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket(s.orders, o.HotelID)[o.ID] = o
}

func (s *Store) Hotel(_ context.Context, id hotels.HotelID) (hotels.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hotels[id]
	if !ok {
		return hotels.Hotel{}, policies.ErrNotFound
	}
	return h, nil
}

func (s *Store) Rooms(_ context.Context, hotelID hotels.HotelID) ([]hotels.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]hotels.Room, 0, len(s.rooms[hotelID]))
	for _, r := range s.rooms[hotelID] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) RoomTypes(_ context.Context, hotelID hotels.HotelID) ([]hotels.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]hotels.RoomType, 0, len(s.roomTypes[hotelID]))
	for _, rt := range s.roomTypes[hotelID] {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) RoomType(_ context.Context, hotelID hotels.HotelID, id hotels.RoomTypeID) (hotels.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.roomTypes[hotelID][id]
	if !ok {
		return hotels.RoomType{}, policies.ErrNotFound
	}
	return rt, nil
}

func (s *Store) Reservations(_ context.Context, hotelID hotels.HotelID, statuses ...reservations.Status) ([]reservations.Reservation, error) {
	wanted := make(map[reservations.Status]struct{}, len(statuses))
	for _, st := range statuses {
		wanted[st] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]reservations.Reservation, 0, len(s.reservations[hotelID]))
	for _, r := range s.reservations[hotelID] {
		if len(wanted) > 0 {
			if _, ok := wanted[r.Status]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CompletedServiceOrders(_ context.Context, hotelID hotels.HotelID) ([]reservations.ServiceOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]reservations.ServiceOrder, 0, len(s.orders[hotelID]))
	for _, o := range s.orders[hotelID] {
		if o.Status == reservations.OrderCompleted {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func bucket[K comparable, V any](m map[hotels.HotelID]map[K]V, hotelID hotels.HotelID) map[K]V {
	b, ok := m[hotelID]
	if !ok {
		b = make(map[K]V)
		m[hotelID] = b
	}
	return b
}

var _ policies.HotelStore = (*Store)(nil)
