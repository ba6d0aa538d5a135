package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotelops/internal/app/policies"
	"hotelops/internal/domain/hotels"
	"hotelops/internal/domain/reservations"
)

const (
	hotelsCollection        = "hotels"
	roomsCollection         = "rooms"
	roomTypesCollection     = "roomTypes"
	reservationsCollection  = "reservations"
	serviceOrdersCollection = "serviceOrders"
)

// HotelStore reads hotel snapshots from the operational database. Documents use
// camelCase field names; every query is scoped by hotelId.
type HotelStore struct {
	hotels        *mongo.Collection
	rooms         *mongo.Collection
	roomTypes     *mongo.Collection
	reservations  *mongo.Collection
	serviceOrders *mongo.Collection
}

func NewHotelStore(db *mongo.Database) *HotelStore {
	return &HotelStore{
		hotels:        db.Collection(hotelsCollection),
		rooms:         db.Collection(roomsCollection),
		roomTypes:     db.Collection(roomTypesCollection),
		reservations:  db.Collection(reservationsCollection),
		serviceOrders: db.Collection(serviceOrdersCollection),
	}
}

// EnsureIndexes creates the tenant-scoped indexes the read paths rely on.
func (s *HotelStore) EnsureIndexes(ctx context.Context) error {
	byHotel := mongo.IndexModel{Keys: bson.D{{Key: "hotelId", Value: 1}}}
	byHotelStatus := mongo.IndexModel{Keys: bson.D{{Key: "hotelId", Value: 1}, {Key: "status", Value: 1}}}
	for _, target := range []struct {
		col    *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.rooms, []mongo.IndexModel{byHotel}},
		{s.roomTypes, []mongo.IndexModel{byHotel}},
		{s.reservations, []mongo.IndexModel{byHotelStatus}},
		{s.serviceOrders, []mongo.IndexModel{byHotelStatus}},
	} {
		if _, err := target.col.Indexes().CreateMany(ctx, target.models); err != nil {
			return fmt.Errorf("mongo indexes %s: %w", target.col.Name(), err)
		}
	}
	return nil
}

func (s *HotelStore) Hotel(ctx context.Context, id hotels.HotelID) (hotels.Hotel, error) {
	var doc hotelDocument
	if err := s.hotels.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		return hotels.Hotel{}, notFound(err, "hotel", string(id))
	}
	return doc.toDomain(), nil
}

func (s *HotelStore) Rooms(ctx context.Context, hotelID hotels.HotelID) ([]hotels.Room, error) {
	docs, err := findAll[roomDocument](ctx, s.rooms, bson.M{"hotelId": string(hotelID)})
	if err != nil {
		return nil, err
	}
	out := make([]hotels.Room, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *HotelStore) RoomTypes(ctx context.Context, hotelID hotels.HotelID) ([]hotels.RoomType, error) {
	docs, err := findAll[roomTypeDocument](ctx, s.roomTypes, bson.M{"hotelId": string(hotelID)})
	if err != nil {
		return nil, err
	}
	out := make([]hotels.RoomType, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *HotelStore) RoomType(ctx context.Context, hotelID hotels.HotelID, id hotels.RoomTypeID) (hotels.RoomType, error) {
	var doc roomTypeDocument
	filter := bson.M{"_id": string(id), "hotelId": string(hotelID)}
	if err := s.roomTypes.FindOne(ctx, filter).Decode(&doc); err != nil {
		return hotels.RoomType{}, notFound(err, "room type", string(id))
	}
	return doc.toDomain(), nil
}

func (s *HotelStore) Reservations(ctx context.Context, hotelID hotels.HotelID, statuses ...reservations.Status) ([]reservations.Reservation, error) {
	filter := bson.M{"hotelId": string(hotelID)}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": storedStatusSpellings(statuses)}
	}
	docs, err := findAll[reservationDocument](ctx, s.reservations, filter)
	if err != nil {
		return nil, err
	}
	out := make([]reservations.Reservation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *HotelStore) CompletedServiceOrders(ctx context.Context, hotelID hotels.HotelID) ([]reservations.ServiceOrder, error) {
	filter := bson.M{
		"hotelId": string(hotelID),
		"status":  bson.M{"$in": []string{"completed", "COMPLETED"}},
	}
	docs, err := findAll[serviceOrderDocument](ctx, s.serviceOrders, filter)
	if err != nil {
		return nil, err
	}
	out := make([]reservations.ServiceOrder, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter bson.M) ([]T, error) {
	cur, err := col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", col.Name(), err)
	}
	var docs []T
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode %s: %w", col.Name(), err)
	}
	return docs, nil
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", kind, id, policies.ErrNotFound)
	}
	return fmt.Errorf("mongo load %s %s: %w", kind, id, err)
}

// storedStatusSpellings matches both the hyphenated and the legacy
// underscore/upper-case spellings found in older documents.
func storedStatusSpellings(statuses []reservations.Status) []string {
	out := make([]string, 0, len(statuses)*3)
	seen := make(map[string]struct{}, len(statuses)*3)
	for _, st := range statuses {
		base := string(st)
		for _, v := range []string{base, strings.ReplaceAll(base, "-", "_"), strings.ToUpper(strings.ReplaceAll(base, "-", "_"))} {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

type hotelDocument struct {
	ID       string `bson:"_id"`
	Name     string `bson:"name"`
	Currency string `bson:"currency"`
	Timezone string `bson:"timezone"`
}

func (d hotelDocument) toDomain() hotels.Hotel {
	return hotels.Hotel{ID: hotels.HotelID(d.ID), Name: d.Name, Currency: d.Currency, Timezone: d.Timezone}
}

type roomDocument struct {
	ID         string `bson:"_id"`
	HotelID    string `bson:"hotelId"`
	RoomNumber string `bson:"roomNumber"`
	RoomTypeID string `bson:"roomTypeId"`
	Floor      string `bson:"floor"`
	Status     string `bson:"status"`
}

func (d roomDocument) toDomain() hotels.Room {
	return hotels.Room{
		ID:         hotels.RoomID(d.ID),
		HotelID:    hotels.HotelID(d.HotelID),
		RoomNumber: d.RoomNumber,
		RoomTypeID: hotels.RoomTypeID(d.RoomTypeID),
		Floor:      d.Floor,
		Status:     hotels.ParseRoomStatus(d.Status),
	}
}

type seasonalDocument struct {
	StartDate calendarDate `bson:"startDate"`
	EndDate   calendarDate `bson:"endDate"`
	Price     amount       `bson:"price"`
}

type roomTypeDocument struct {
	ID              string             `bson:"_id"`
	HotelID         string             `bson:"hotelId"`
	Name            string             `bson:"name"`
	BasePrice       amount             `bson:"basePrice"`
	WeekdayPricing  map[string]amount  `bson:"weekdayPricing"`
	SeasonalPricing []seasonalDocument `bson:"seasonalPricing"`
}

func (d roomTypeDocument) toDomain() hotels.RoomType {
	rt := hotels.RoomType{
		ID:             hotels.RoomTypeID(d.ID),
		HotelID:        hotels.HotelID(d.HotelID),
		Name:           d.Name,
		BasePrice:      d.BasePrice.Decimal,
		WeekdayPricing: make(map[hotels.Weekday]decimal.Decimal, len(d.WeekdayPricing)),
	}
	for day, price := range d.WeekdayPricing {
		rt.WeekdayPricing[hotels.Weekday(strings.ToLower(strings.TrimSpace(day)))] = price.Decimal
	}
	for _, s := range d.SeasonalPricing {
		rt.SeasonalPricing = append(rt.SeasonalPricing, hotels.SeasonalRate{
			StartDate: s.StartDate.Time,
			EndDate:   s.EndDate.Time,
			Price:     s.Price.Decimal,
		})
	}
	return rt
}

type reservationDocument struct {
	ID             string       `bson:"_id"`
	HotelID        string       `bson:"hotelId"`
	RoomID         string       `bson:"roomId"`
	RoomTypeID     string       `bson:"roomTypeId"`
	CheckInDate    calendarDate `bson:"checkInDate"`
	CheckOutDate   calendarDate `bson:"checkOutDate"`
	Status         string       `bson:"status"`
	TotalPrice     amount       `bson:"totalPrice"`
	NumberOfGuests int          `bson:"numberOfGuests"`
}

func (d reservationDocument) toDomain() reservations.Reservation {
	return reservations.Reservation{
		ID:             reservations.ReservationID(d.ID),
		HotelID:        hotels.HotelID(d.HotelID),
		RoomID:         hotels.RoomID(d.RoomID),
		RoomTypeID:     hotels.RoomTypeID(d.RoomTypeID),
		CheckInDate:    d.CheckInDate.Time,
		CheckOutDate:   d.CheckOutDate.Time,
		Status:         reservations.ParseStatus(d.Status),
		TotalPrice:     d.TotalPrice.Decimal,
		NumberOfGuests: d.NumberOfGuests,
	}
}

type serviceOrderDocument struct {
	ID            string  `bson:"_id"`
	HotelID       string  `bson:"hotelId"`
	ReservationID string  `bson:"reservationId"`
	TotalPrice    amount  `bson:"totalPrice"`
	Status        string  `bson:"status"`
	OrderedAt     instant `bson:"orderedAt"`
}

func (d serviceOrderDocument) toDomain() reservations.ServiceOrder {
	return reservations.ServiceOrder{
		ID:            reservations.ServiceOrderID(d.ID),
		HotelID:       hotels.HotelID(d.HotelID),
		ReservationID: reservations.ReservationID(d.ReservationID),
		TotalPrice:    d.TotalPrice.Decimal,
		Status:        reservations.ParseOrderStatus(d.Status),
		OrderedAt:     d.OrderedAt.Time,
	}
}

var _ policies.HotelStore = (*HotelStore)(nil)
