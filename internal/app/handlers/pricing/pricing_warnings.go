package pricing

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"hotelops/internal/app/dto"
	"hotelops/internal/app/metrics"
	"hotelops/internal/app/policies"
	"hotelops/internal/app/queries"
	"hotelops/internal/domain/hotels"
	domainpricing "hotelops/internal/domain/pricing"
)

const pricingWarningsKey = "pricing.warnings"

// PricingWarningsQuery checks every room type of the hotel for pricing that
// cannot be resolved or resolves in a way editors may not expect.
type PricingWarningsQuery struct {
	HotelID string
}

func (q PricingWarningsQuery) Key() string { return pricingWarningsKey }

func (q PricingWarningsQuery) Validate() error {
	if strings.TrimSpace(q.HotelID) == "" {
		return metrics.ErrHotelIDRequired
	}
	return nil
}

type PricingWarningsHandler struct {
	Logger *slog.Logger
	Store  policies.HotelStore
}

func (h *PricingWarningsHandler) Handle(ctx context.Context, q PricingWarningsQuery) (dto.PricingWarnings, error) {
	hotelID := hotels.HotelID(strings.TrimSpace(q.HotelID))
	if _, err := h.Store.Hotel(ctx, hotelID); err != nil {
		return dto.PricingWarnings{}, err
	}
	roomTypes, err := h.Store.RoomTypes(ctx, hotelID)
	if err != nil {
		return dto.PricingWarnings{}, err
	}
	sort.Slice(roomTypes, func(i, j int) bool { return roomTypes[i].ID < roomTypes[j].ID })

	out := dto.PricingWarnings{HotelID: string(hotelID), Reports: make([]dto.PricingReport, 0, len(roomTypes))}
	flagged := 0
	for _, rt := range roomTypes {
		report := domainpricing.ValidateRoomType(rt)
		if !report.OK() {
			flagged++
		}
		out.Reports = append(out.Reports, dto.MapPricingReport(rt.Name, report))
	}
	if h.Logger != nil && flagged > 0 {
		h.Logger.Info("pricing issues found", "hotel_id", hotelID, "room_types", flagged)
	}
	return out, nil
}

var _ queries.Handler[PricingWarningsQuery, dto.PricingWarnings] = (*PricingWarningsHandler)(nil)
