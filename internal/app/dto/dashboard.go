package dto

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"hotelops/internal/app/metrics"
	"hotelops/internal/domain/analytics"
	"hotelops/internal/domain/shared/daterange"
)

type RevenueBreakdown struct {
	Rooms    decimal.Decimal `json:"rooms"`
	Services decimal.Decimal `json:"services"`
	Total    decimal.Decimal `json:"total"`
}

type RoomStatusCounts struct {
	Vacant      int `json:"vacant"`
	Occupied    int `json:"occupied"`
	Dirty       int `json:"dirty"`
	Maintenance int `json:"maintenance"`
	Unknown     int `json:"unknown,omitempty"`
}

// DashboardMetrics is the dashboard payload. Occupancy is a percentage rounded
// to two decimals.
type DashboardMetrics struct {
	HotelID           string           `json:"hotel_id"`
	Currency          string           `json:"currency,omitempty"`
	Timezone          string           `json:"timezone,omitempty"`
	AsOf              string           `json:"as_of"`
	OccupancyToday    float64          `json:"occupancy_today"`
	OccupancyThisWeek float64          `json:"occupancy_this_week"`
	RevenueToday      RevenueBreakdown `json:"revenue_today"`
	RevenueThisMonth  RevenueBreakdown `json:"revenue_this_month"`
	CheckInsToday     int              `json:"check_ins_today"`
	CheckOutsToday    int              `json:"check_outs_today"`
	RoomStatus        RoomStatusCounts `json:"room_status"`
	TotalRooms        int              `json:"total_rooms"`
	AvailableRooms    int              `json:"available_rooms"`
	OccupiedRooms     int              `json:"occupied_rooms"`
	ComputedAt        time.Time        `json:"computed_at"`
}

type SnapshotReceipt struct {
	HotelID   string    `json:"hotel_id"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func MapDashboardMetrics(r metrics.Result) DashboardMetrics {
	return DashboardMetrics{
		HotelID:           string(r.HotelID),
		Currency:          r.Currency,
		Timezone:          r.Timezone,
		AsOf:              daterange.Format(r.AsOf),
		OccupancyToday:    roundPercent(r.OccupancyToday),
		OccupancyThisWeek: roundPercent(r.OccupancyThisWeek),
		RevenueToday:      mapRevenue(r.RevenueToday),
		RevenueThisMonth:  mapRevenue(r.RevenueThisMonth),
		CheckInsToday:     r.CheckInsToday,
		CheckOutsToday:    r.CheckOutsToday,
		RoomStatus: RoomStatusCounts{
			Vacant:      r.RoomStatus.Vacant,
			Occupied:    r.RoomStatus.Occupied,
			Dirty:       r.RoomStatus.Dirty,
			Maintenance: r.RoomStatus.Maintenance,
			Unknown:     r.RoomStatus.Unknown,
		},
		TotalRooms:     r.TotalRooms,
		AvailableRooms: r.AvailableRooms,
		OccupiedRooms:  r.OccupiedRooms,
		ComputedAt:     r.ComputedAt,
	}
}

func mapRevenue(r analytics.Revenue) RevenueBreakdown {
	return RevenueBreakdown{Rooms: r.Rooms, Services: r.Services, Total: r.Total()}
}

func roundPercent(v float64) float64 {
	const precisionBase = 100.0
	return math.Round(v*precisionBase) / precisionBase
}
