package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelops/internal/domain/analytics"
	"hotelops/internal/domain/hotels"
)

var ErrHotelIDRequired = errors.New("metrics: hotel id required")

// Result is the dashboard metrics record of one hotel. AsOf is the hotel's
// calendar date the windows were anchored to, in Timezone.
type Result struct {
	HotelID           hotels.HotelID            `json:"hotel_id"`
	Currency          string                    `json:"currency"`
	Timezone          string                    `json:"timezone,omitempty"`
	AsOf              time.Time                 `json:"as_of"`
	OccupancyToday    float64                   `json:"occupancy_today"`
	OccupancyThisWeek float64                   `json:"occupancy_this_week"`
	RevenueToday      analytics.Revenue         `json:"revenue_today"`
	RevenueThisMonth  analytics.Revenue         `json:"revenue_this_month"`
	CheckInsToday     int                       `json:"check_ins_today"`
	CheckOutsToday    int                       `json:"check_outs_today"`
	RoomStatus        analytics.RoomStatusTally `json:"room_status"`
	TotalRooms        int                       `json:"total_rooms"`
	AvailableRooms    int                       `json:"available_rooms"`
	OccupiedRooms     int                       `json:"occupied_rooms"`
	ComputedAt        time.Time                 `json:"computed_at"`
}

// Cache memoizes results per hotel. Entries live until invalidated; the facade
// ignores entries anchored to a past calendar date.
type Cache interface {
	Get(ctx context.Context, hotelID hotels.HotelID) (Result, bool, error)
	Put(ctx context.Context, hotelID hotels.HotelID, result Result) error
	Invalidate(ctx context.Context, hotelID hotels.HotelID) error
	InvalidateAll(ctx context.Context) error
}

// MetricsUnavailableError means the store could not be read. Callers should
// offer a retry instead of rendering zeroed metrics.
type MetricsUnavailableError struct {
	HotelID hotels.HotelID
	Source  string
	Err     error
}

func (e *MetricsUnavailableError) Error() string {
	return fmt.Sprintf("metrics: unavailable for hotel %s: read %s: %v", e.HotelID, e.Source, e.Err)
}

func (e *MetricsUnavailableError) Unwrap() error {
	return e.Err
}

// IsMetricsUnavailable returns the MetricsUnavailableError in err's chain, or nil.
func IsMetricsUnavailable(err error) *MetricsUnavailableError {
	if err == nil {
		return nil
	}
	var unavailable *MetricsUnavailableError
	if errors.As(err, &unavailable) {
		return unavailable
	}
	return nil
}

func unavailable(hotelID hotels.HotelID, source string, err error) error {
	return &MetricsUnavailableError{HotelID: hotelID, Source: source, Err: err}
}
