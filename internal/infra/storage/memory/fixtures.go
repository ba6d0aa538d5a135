package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hotelops/internal/domain/hotels"
	"hotelops/internal/domain/reservations"
	"hotelops/internal/domain/shared/daterange"
)

// Fixtures is the JSON seed document. Date fields take YYYY-MM-DD or a date
// relative to the load day: "today", "today+2", "today-1".
type Fixtures struct {
	Hotels        []hotelFixture        `json:"hotels"`
	RoomTypes     []roomTypeFixture     `json:"room_types"`
	Rooms         []roomFixture         `json:"rooms"`
	Reservations  []reservationFixture  `json:"reservations"`
	ServiceOrders []serviceOrderFixture `json:"service_orders"`
}

type hotelFixture struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
}

type seasonalFixture struct {
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Price     decimal.Decimal `json:"price"`
}

type roomTypeFixture struct {
	ID              string                     `json:"id"`
	HotelID         string                     `json:"hotel_id"`
	Name            string                     `json:"name"`
	BasePrice       decimal.Decimal            `json:"base_price"`
	WeekdayPricing  map[string]decimal.Decimal `json:"weekday_pricing"`
	SeasonalPricing []seasonalFixture          `json:"seasonal_pricing"`
}

type roomFixture struct {
	ID         string `json:"id"`
	HotelID    string `json:"hotel_id"`
	RoomNumber string `json:"room_number"`
	RoomTypeID string `json:"room_type_id"`
	Floor      string `json:"floor"`
	Status     string `json:"status"`
}

type reservationFixture struct {
	ID             string          `json:"id"`
	HotelID        string          `json:"hotel_id"`
	RoomID         string          `json:"room_id"`
	RoomTypeID     string          `json:"room_type_id"`
	CheckIn        string          `json:"check_in"`
	CheckOut       string          `json:"check_out"`
	Status         string          `json:"status"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	NumberOfGuests int             `json:"number_of_guests"`
}

type serviceOrderFixture struct {
	ID            string          `json:"id"`
	HotelID       string          `json:"hotel_id"`
	ReservationID string          `json:"reservation_id"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Status        string          `json:"status"`
	// OrderedAt takes RFC3339 or a date, which is read as noon at the hotel.
	OrderedAt string `json:"ordered_at"`
}

type FixtureSummary struct {
	Hotels        int
	RoomTypes     int
	Rooms         int
	Reservations  int
	ServiceOrders int
}

// LoadFixtureFile reads path and imports it into s. A missing file is reported
// with an error satisfying errors.Is(err, os.ErrNotExist).
func LoadFixtureFile(s *Store, path string, now time.Time) (FixtureSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FixtureSummary{}, fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		return FixtureSummary{}, errors.New("fixtures file is empty")
	}
	var fx Fixtures
	if err := json.Unmarshal(data, &fx); err != nil {
		return FixtureSummary{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return s.Import(fx, now)
}

// Import validates every record before storing any of them.
func (s *Store) Import(fx Fixtures, now time.Time) (FixtureSummary, error) {
	locations := make(map[hotels.HotelID]*time.Location, len(fx.Hotels))
	hotelRecords := make([]hotels.Hotel, 0, len(fx.Hotels))
	for _, h := range fx.Hotels {
		if strings.TrimSpace(h.ID) == "" {
			return FixtureSummary{}, errors.New("fixture hotel without id")
		}
		hotel := hotels.Hotel{ID: hotels.HotelID(h.ID), Name: h.Name, Currency: h.Currency, Timezone: h.Timezone}
		if h.Timezone != "" {
			if _, err := time.LoadLocation(h.Timezone); err != nil {
				return FixtureSummary{}, fmt.Errorf("hotel %s: timezone: %w", h.ID, err)
			}
		}
		locations[hotel.ID] = hotel.Location()
		hotelRecords = append(hotelRecords, hotel)
	}
	dateIn := func(id hotels.HotelID, raw string) (time.Time, error) {
		loc, ok := locations[id]
		if !ok {
			loc = time.UTC
		}
		return resolveDate(raw, daterange.Today(now, loc))
	}

	roomTypes := make([]hotels.RoomType, 0, len(fx.RoomTypes))
	for _, rt := range fx.RoomTypes {
		hotelID := hotels.HotelID(rt.HotelID)
		roomType := hotels.RoomType{
			ID:             hotels.RoomTypeID(rt.ID),
			HotelID:        hotelID,
			Name:           rt.Name,
			BasePrice:      rt.BasePrice,
			WeekdayPricing: make(map[hotels.Weekday]decimal.Decimal, len(rt.WeekdayPricing)),
		}
		for day, price := range rt.WeekdayPricing {
			// unknown names are kept so pricing validation can report them
			roomType.WeekdayPricing[hotels.Weekday(strings.ToLower(strings.TrimSpace(day)))] = price
		}
		for i, season := range rt.SeasonalPricing {
			start, err := dateIn(hotelID, season.StartDate)
			if err != nil {
				return FixtureSummary{}, fmt.Errorf("room type %s season %d start: %w", rt.ID, i, err)
			}
			end, err := dateIn(hotelID, season.EndDate)
			if err != nil {
				return FixtureSummary{}, fmt.Errorf("room type %s season %d end: %w", rt.ID, i, err)
			}
			roomType.SeasonalPricing = append(roomType.SeasonalPricing, hotels.SeasonalRate{StartDate: start, EndDate: end, Price: season.Price})
		}
		roomTypes = append(roomTypes, roomType)
	}

	rooms := make([]hotels.Room, 0, len(fx.Rooms))
	for _, r := range fx.Rooms {
		rooms = append(rooms, hotels.Room{
			ID:         hotels.RoomID(r.ID),
			HotelID:    hotels.HotelID(r.HotelID),
			RoomNumber: r.RoomNumber,
			RoomTypeID: hotels.RoomTypeID(r.RoomTypeID),
			Floor:      r.Floor,
			Status:     hotels.ParseRoomStatus(r.Status),
		})
	}

	stays := make([]reservations.Reservation, 0, len(fx.Reservations))
	for _, r := range fx.Reservations {
		hotelID := hotels.HotelID(r.HotelID)
		checkIn, err := dateIn(hotelID, r.CheckIn)
		if err != nil {
			return FixtureSummary{}, fmt.Errorf("reservation %s check-in: %w", r.ID, err)
		}
		checkOut, err := dateIn(hotelID, r.CheckOut)
		if err != nil {
			return FixtureSummary{}, fmt.Errorf("reservation %s check-out: %w", r.ID, err)
		}
		stays = append(stays, reservations.Reservation{
			ID:             reservations.ReservationID(r.ID),
			HotelID:        hotelID,
			RoomID:         hotels.RoomID(r.RoomID),
			RoomTypeID:     hotels.RoomTypeID(r.RoomTypeID),
			CheckInDate:    checkIn,
			CheckOutDate:   checkOut,
			Status:         reservations.ParseStatus(r.Status),
			TotalPrice:     r.TotalPrice,
			NumberOfGuests: r.NumberOfGuests,
		})
	}

	orders := make([]reservations.ServiceOrder, 0, len(fx.ServiceOrders))
	for _, o := range fx.ServiceOrders {
		hotelID := hotels.HotelID(o.HotelID)
		orderedAt, err := resolveInstant(o.OrderedAt, now, locations[hotelID])
		if err != nil {
			return FixtureSummary{}, fmt.Errorf("service order %s ordered_at: %w", o.ID, err)
		}
		orders = append(orders, reservations.ServiceOrder{
			ID:            reservations.ServiceOrderID(o.ID),
			HotelID:       hotelID,
			ReservationID: reservations.ReservationID(o.ReservationID),
			TotalPrice:    o.TotalPrice,
			Status:        reservations.ParseOrderStatus(o.Status),
			OrderedAt:     orderedAt,
		})
	}

	for _, h := range hotelRecords {
		s.SaveHotel(h)
	}
	for _, rt := range roomTypes {
		s.SaveRoomType(rt)
	}
	for _, r := range rooms {
		s.SaveRoom(r)
	}
	for _, r := range stays {
		s.SaveReservation(r)
	}
	for _, o := range orders {
		s.SaveServiceOrder(o)
	}
	return FixtureSummary{
		Hotels:        len(hotelRecords),
		RoomTypes:     len(roomTypes),
		Rooms:         len(rooms),
		Reservations:  len(stays),
		ServiceOrders: len(orders),
	}, nil
}

func resolveDate(raw string, today time.Time) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if !strings.HasPrefix(value, "today") {
		return daterange.Parse(value)
	}
	offset := strings.TrimPrefix(value, "today")
	if offset == "" {
		return today, nil
	}
	days, err := strconv.Atoi(offset)
	if err != nil || (offset[0] != '+' && offset[0] != '-') {
		return time.Time{}, fmt.Errorf("relative date %q: want today+N or today-N", raw)
	}
	return today.AddDate(0, 0, days), nil
}

func resolveInstant(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw)); err == nil {
		return t, nil
	}
	day, err := resolveDate(raw, daterange.Today(now, loc))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, loc), nil
}
