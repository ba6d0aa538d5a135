package mongo

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hotelops/internal/app/policies"
	"hotelops/internal/domain/hotels"
	"hotelops/internal/domain/reservations"
	"hotelops/internal/domain/shared/daterange"
)

func decodeInto(t *testing.T, src bson.M, dst any) {
	t.Helper()
	raw, err := bson.Marshal(src)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := bson.Unmarshal(raw, dst); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}

func TestRoomTypeDocumentDecodesMixedAmounts(t *testing.T) {
	dec, err := primitive.ParseDecimal128("2200000.50")
	if err != nil {
		t.Fatalf("decimal128: %v", err)
	}
	var doc roomTypeDocument
	decodeInto(t, bson.M{
		"_id":       "rt-1",
		"hotelId":   "h1",
		"name":      "Deluxe",
		"basePrice": int32(500000),
		"weekdayPricing": bson.M{
			"Saturday": 950000.0,
			"sunday":   "800000",
		},
		"seasonalPricing": bson.A{
			bson.M{"startDate": "2025-12-20", "endDate": time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), "price": dec},
		},
	}, &doc)

	rt := doc.toDomain()
	if !rt.BasePrice.Equal(decimal.NewFromInt(500000)) {
		t.Errorf("base = %s", rt.BasePrice)
	}
	if !rt.WeekdayPricing[hotels.Weekday("saturday")].Equal(decimal.NewFromInt(950000)) {
		t.Errorf("weekday = %v", rt.WeekdayPricing)
	}
	if !rt.WeekdayPricing[hotels.Weekday("sunday")].Equal(decimal.NewFromInt(800000)) {
		t.Errorf("weekday = %v", rt.WeekdayPricing)
	}
	season := rt.SeasonalPricing[0]
	if daterange.Format(season.StartDate) != "2025-12-20" || daterange.Format(season.EndDate) != "2026-01-05" {
		t.Errorf("season = %s..%s", daterange.Format(season.StartDate), daterange.Format(season.EndDate))
	}
	if !season.Price.Equal(decimal.RequireFromString("2200000.5")) {
		t.Errorf("season price = %s", season.Price)
	}
}

func TestReservationDocumentNormalizesStatus(t *testing.T) {
	var doc reservationDocument
	decodeInto(t, bson.M{
		"_id":          "res-1",
		"hotelId":      "h1",
		"checkInDate":  "2025-03-01",
		"checkOutDate": "2025-03-04",
		"status":       "CHECKED_IN",
		"totalPrice":   int64(1950000),
	}, &doc)
	r := doc.toDomain()
	if r.Status != reservations.StatusCheckedIn {
		t.Errorf("status = %q", r.Status)
	}
	if r.Stay().Nights() != 3 {
		t.Errorf("nights = %d", r.Stay().Nights())
	}
}

func TestAmountRejectsUnsupportedTypes(t *testing.T) {
	var doc serviceOrderDocument
	raw, _ := bson.Marshal(bson.M{"_id": "o1", "totalPrice": true})
	if err := bson.Unmarshal(raw, &doc); err == nil {
		t.Fatal("expected error decoding boolean amount")
	}
}

func TestServiceOrderInstantFromString(t *testing.T) {
	var doc serviceOrderDocument
	decodeInto(t, bson.M{"_id": "o1", "orderedAt": "2025-03-01T20:00:00Z", "status": "completed", "totalPrice": 40.0}, &doc)
	o := doc.toDomain()
	if !o.OrderedAt.Equal(time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)) {
		t.Errorf("orderedAt = %v", o.OrderedAt)
	}
}

func TestStoredStatusSpellings(t *testing.T) {
	got := storedStatusSpellings([]reservations.Status{reservations.StatusCheckedIn, reservations.StatusPending})
	want := "checked-in,checked_in,CHECKED_IN,pending,PENDING"
	if strings.Join(got, ",") != want {
		t.Fatalf("spellings = %v", got)
	}
}

func TestNotFoundMapsNoDocuments(t *testing.T) {
	if err := notFound(mongo.ErrNoDocuments, "hotel", "h1"); !errors.Is(err, policies.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if err := notFound(errors.New("timeout"), "hotel", "h1"); errors.Is(err, policies.ErrNotFound) {
		t.Fatalf("timeout mapped to not found: %v", err)
	}
}
