package dashboard

import (
	"context"
	"log/slog"
	"strings"

	"hotelops/internal/app/commands"
	"hotelops/internal/app/metrics"
	"hotelops/internal/app/policies"
	"hotelops/internal/domain/hotels"
)

const clearCacheKey = "dashboard.clear_cache"

// ClearCacheCommand drops cached metrics of one hotel, or of all hotels when
// HotelID is empty. Broadcast publishes the clear to other instances.
type ClearCacheCommand struct {
	HotelID   string
	Broadcast bool
}

func (c ClearCacheCommand) Key() string { return clearCacheKey }

type ClearCacheHandler struct {
	Logger    *slog.Logger
	Metrics   MetricsProvider
	Publisher policies.EventPublisher
}

func (h *ClearCacheHandler) Handle(ctx context.Context, cmd ClearCacheCommand) (struct{}, error) {
	hotelID := strings.TrimSpace(cmd.HotelID)
	var err error
	if hotelID == "" {
		err = h.Metrics.ClearAllCache(ctx)
	} else {
		err = h.Metrics.ClearCache(ctx, hotels.HotelID(hotelID))
	}
	if err != nil {
		return struct{}{}, err
	}

	if cmd.Broadcast && h.Publisher != nil {
		event := metrics.CacheCleared{HotelID: hotelID}
		// Local state is already cleared; peers converge on their next invalidation.
		if err := h.Publisher.PublishEvent(ctx, metrics.EventCacheCleared, hotelID, event); err != nil && h.Logger != nil {
			h.Logger.Warn("cache clear broadcast failed", "hotel_id", hotelID, "error", err)
		}
	}
	if h.Logger != nil {
		h.Logger.Info("dashboard cache cleared", "hotel_id", hotelID, "broadcast", cmd.Broadcast)
	}
	return struct{}{}, nil
}

var _ commands.Handler[ClearCacheCommand, struct{}] = (*ClearCacheHandler)(nil)
