package dashboard

import (
	"context"
	"strings"

	"hotelops/internal/app/dto"
	"hotelops/internal/app/metrics"
	"hotelops/internal/app/queries"
	"hotelops/internal/domain/hotels"
)

const getMetricsKey = "dashboard.metrics"

// MetricsProvider is the facade as the handlers see it.
type MetricsProvider interface {
	GetDashboardMetrics(ctx context.Context, hotelID hotels.HotelID) (metrics.Result, error)
	ClearCache(ctx context.Context, hotelID hotels.HotelID) error
	ClearAllCache(ctx context.Context) error
}

type GetMetricsQuery struct {
	HotelID string
}

func (q GetMetricsQuery) Key() string { return getMetricsKey }

func (q GetMetricsQuery) Validate() error {
	if strings.TrimSpace(q.HotelID) == "" {
		return metrics.ErrHotelIDRequired
	}
	return nil
}

type GetMetricsHandler struct {
	Metrics MetricsProvider
}

func (h *GetMetricsHandler) Handle(ctx context.Context, q GetMetricsQuery) (dto.DashboardMetrics, error) {
	result, err := h.Metrics.GetDashboardMetrics(ctx, hotels.HotelID(strings.TrimSpace(q.HotelID)))
	if err != nil {
		return dto.DashboardMetrics{}, err
	}
	return dto.MapDashboardMetrics(result), nil
}

var _ queries.Handler[GetMetricsQuery, dto.DashboardMetrics] = (*GetMetricsHandler)(nil)
