package pricing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"hotelops/internal/app/dto"
	"hotelops/internal/app/metrics"
	"hotelops/internal/app/policies"
	"hotelops/internal/app/queries"
	"hotelops/internal/domain/hotels"
	domainpricing "hotelops/internal/domain/pricing"
	"hotelops/internal/domain/shared/daterange"
)

const quoteStayKey = "pricing.quote_stay"

// QuoteStayQuery prices a stay of the room type. Dates are YYYY-MM-DD.
type QuoteStayQuery struct {
	HotelID    string
	RoomTypeID string
	CheckIn    string
	CheckOut   string
}

func (q QuoteStayQuery) Key() string { return quoteStayKey }

func (q QuoteStayQuery) Validate() error {
	if strings.TrimSpace(q.HotelID) == "" {
		return metrics.ErrHotelIDRequired
	}
	if strings.TrimSpace(q.RoomTypeID) == "" {
		return &domainpricing.ValidationError{Field: "room_type_id", Reason: "is required"}
	}
	return nil
}

type QuoteStayHandler struct {
	Logger *slog.Logger
	Store  policies.HotelStore
}

func (h *QuoteStayHandler) Handle(ctx context.Context, q QuoteStayQuery) (dto.StayQuote, error) {
	var zero dto.StayQuote
	checkIn, err := parseDate("check_in", q.CheckIn)
	if err != nil {
		return zero, err
	}
	checkOut, err := parseDate("check_out", q.CheckOut)
	if err != nil {
		return zero, err
	}

	hotelID := hotels.HotelID(strings.TrimSpace(q.HotelID))
	hotel, err := h.Store.Hotel(ctx, hotelID)
	if err != nil {
		return zero, err
	}
	roomType, err := h.Store.RoomType(ctx, hotelID, hotels.RoomTypeID(strings.TrimSpace(q.RoomTypeID)))
	if err != nil {
		return zero, err
	}

	quote, err := domainpricing.ResolveStayTotal(roomType, checkIn, checkOut)
	if err != nil {
		return zero, err
	}
	if h.Logger != nil {
		h.Logger.Debug("stay quoted", "hotel_id", hotelID, "room_type_id", roomType.ID, "nights", quote.Nights, "subtotal", quote.Subtotal.String())
	}
	return dto.MapStayQuote(string(hotelID), hotel.Currency, quote), nil
}

func parseDate(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, &domainpricing.ValidationError{Field: field, Reason: "is required"}
	}
	date, err := daterange.Parse(strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, &domainpricing.ValidationError{Field: field, Reason: "expected YYYY-MM-DD", Err: err}
	}
	return date, nil
}

var _ queries.Handler[QuoteStayQuery, dto.StayQuote] = (*QuoteStayHandler)(nil)
