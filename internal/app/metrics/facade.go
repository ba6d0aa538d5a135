package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"hotelops/internal/app/policies"
	"hotelops/internal/domain/analytics"
	"hotelops/internal/domain/hotels"
	"hotelops/internal/domain/reservations"
	"hotelops/internal/domain/shared/daterange"
)

const defaultReadTimeout = 5 * time.Second

// reservations the dashboard needs: occupancy, recognized revenue and due-today counts.
var metricStatuses = []reservations.Status{
	reservations.StatusPending,
	reservations.StatusConfirmed,
	reservations.StatusCheckedIn,
	reservations.StatusCheckedOut,
}

// Facade composes occupancy, revenue and room tallies into one Result per hotel,
// reading through the cache. At most one recompute per hotel runs at a time;
// concurrent callers share its result.
type Facade struct {
	store       policies.HotelStore
	cache       Cache
	logger      *slog.Logger
	now         func() time.Time
	readTimeout time.Duration

	flights singleflight.Group

	mu       sync.Mutex
	epoch    uint64
	gens     map[hotels.HotelID]uint64
	inflight map[hotels.HotelID]int
}

type Option func(*Facade)

func WithClock(now func() time.Time) Option {
	return func(f *Facade) {
		if now != nil {
			f.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(f *Facade) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithReadTimeout bounds the store reads of a single recompute.
func WithReadTimeout(d time.Duration) Option {
	return func(f *Facade) {
		if d > 0 {
			f.readTimeout = d
		}
	}
}

// NewFacade builds a facade. A nil cache disables caching.
func NewFacade(store policies.HotelStore, cache Cache, opts ...Option) *Facade {
	f := &Facade{
		store:       store,
		cache:       cache,
		logger:      slog.Default(),
		now:         time.Now,
		readTimeout: defaultReadTimeout,
		gens:        make(map[hotels.HotelID]uint64),
		inflight:    make(map[hotels.HotelID]int),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// GetDashboardMetrics returns the hotel's metrics, from cache when present.
func (f *Facade) GetDashboardMetrics(ctx context.Context, hotelID hotels.HotelID) (Result, error) {
	if strings.TrimSpace(string(hotelID)) == "" {
		return Result{}, ErrHotelIDRequired
	}
	if f.cache != nil {
		cached, found, err := f.cache.Get(ctx, hotelID)
		switch {
		case err != nil:
			f.logger.Warn("metrics cache read failed, computing directly", "hotel_id", hotelID, "error", err)
		case found && f.current(cached):
			return cached, nil
		case found:
			f.logger.Debug("cached metrics are for another day, recomputing",
				"hotel_id", hotelID, "as_of", daterange.Format(cached.AsOf))
		}
	}

	v, err, shared := f.flights.Do(string(hotelID), func() (any, error) {
		return f.recompute(ctx, hotelID)
	})
	if err != nil {
		return Result{}, err
	}
	if shared {
		f.logger.Debug("metrics recompute shared", "hotel_id", hotelID)
	}
	return v.(Result), nil
}

// current reports whether r is anchored to the hotel's calendar date today.
func (f *Facade) current(r Result) bool {
	loc := hotels.Hotel{Timezone: r.Timezone}.Location()
	return daterange.Date(r.AsOf).Equal(daterange.Today(f.now(), loc))
}

// ClearCache drops the hotel's cached metrics. A recompute already in flight
// keeps running for its waiters but its result is not cached, and the next
// request starts a fresh one.
func (f *Facade) ClearCache(ctx context.Context, hotelID hotels.HotelID) error {
	if strings.TrimSpace(string(hotelID)) == "" {
		return ErrHotelIDRequired
	}
	f.mu.Lock()
	f.gens[hotelID]++
	f.mu.Unlock()
	f.flights.Forget(string(hotelID))

	if f.cache == nil {
		return nil
	}
	if err := f.cache.Invalidate(ctx, hotelID); err != nil {
		return fmt.Errorf("metrics: invalidate %s: %w", hotelID, err)
	}
	return nil
}

// ClearAllCache drops cached metrics of every hotel.
func (f *Facade) ClearAllCache(ctx context.Context) error {
	f.mu.Lock()
	f.epoch++
	running := make([]hotels.HotelID, 0, len(f.inflight))
	for id := range f.inflight {
		running = append(running, id)
	}
	f.mu.Unlock()
	for _, id := range running {
		f.flights.Forget(string(id))
	}

	if f.cache == nil {
		return nil
	}
	if err := f.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("metrics: invalidate all: %w", err)
	}
	return nil
}

type stamp struct {
	epoch uint64
	gen   uint64
}

// stampFor reads the hotel's invalidation stamp. Hotels never cleared have
// no entry and read as generation zero.
func (f *Facade) stampFor(hotelID hotels.HotelID) stamp {
	f.mu.Lock()
	defer f.mu.Unlock()
	return stamp{epoch: f.epoch, gen: f.gens[hotelID]}
}

func (f *Facade) track(hotelID hotels.HotelID) (stamp, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inflight[hotelID]++
	done := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.inflight[hotelID]--; f.inflight[hotelID] <= 0 {
			delete(f.inflight, hotelID)
		}
	}
	return stamp{epoch: f.epoch, gen: f.gens[hotelID]}, done
}

func (f *Facade) recompute(ctx context.Context, hotelID hotels.HotelID) (Result, error) {
	started, done := f.track(hotelID)
	defer done()
	result, err := f.compute(ctx, hotelID)
	if err != nil {
		return Result{}, err
	}
	if f.cache == nil {
		return result, nil
	}

	if f.stampFor(hotelID) != started {
		f.logger.Debug("metrics invalidated during recompute, not caching", "hotel_id", hotelID)
		return result, nil
	}
	if err := f.cache.Put(ctx, hotelID, result); err != nil {
		f.logger.Warn("metrics cache write failed", "hotel_id", hotelID, "error", err)
		return result, nil
	}
	// An invalidation may have landed between the check and the write.
	if f.stampFor(hotelID) != started {
		if err := f.cache.Invalidate(ctx, hotelID); err != nil {
			f.logger.Warn("metrics cache rollback failed", "hotel_id", hotelID, "error", err)
		}
	}
	return result, nil
}

func (f *Facade) compute(ctx context.Context, hotelID hotels.HotelID) (Result, error) {
	// The recompute is shared by every waiter, so it must not die with the
	// caller that happened to start it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.readTimeout)
	defer cancel()

	hotel, err := f.store.Hotel(ctx, hotelID)
	if err != nil {
		return Result{}, unavailable(hotelID, "hotel", err)
	}

	var (
		rooms  []hotels.Room
		stays  []reservations.Reservation
		orders []reservations.ServiceOrder
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if rooms, err = f.store.Rooms(gctx, hotelID); err != nil {
			return unavailable(hotelID, "rooms", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if stays, err = f.store.Reservations(gctx, hotelID, metricStatuses...); err != nil {
			return unavailable(hotelID, "reservations", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if orders, err = f.store.CompletedServiceOrders(gctx, hotelID); err != nil {
			return unavailable(hotelID, "service orders", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	loc := hotel.Location()
	now := f.now()
	today := daterange.Today(now, loc)
	tally := analytics.TallyRoomStatus(rooms)
	totalRooms := len(rooms)

	result := Result{
		HotelID:           hotelID,
		Currency:          hotel.Currency,
		Timezone:          loc.String(),
		AsOf:              today,
		OccupancyToday:    analytics.CalculateOccupancy(totalRooms, stays, analytics.Today(today)),
		OccupancyThisWeek: analytics.CalculateOccupancy(totalRooms, stays, analytics.WeekToDate(today)),
		RevenueToday:      analytics.CalculateRevenue(stays, orders, analytics.Today(today), loc),
		RevenueThisMonth:  analytics.CalculateRevenue(stays, orders, analytics.MonthToDate(today), loc),
		CheckInsToday:     analytics.CheckInsDue(stays, today),
		CheckOutsToday:    analytics.CheckOutsDue(stays, today),
		RoomStatus:        tally,
		TotalRooms:        totalRooms,
		AvailableRooms:    tally.Vacant,
		OccupiedRooms:     tally.Occupied,
		ComputedAt:        now.UTC(),
	}
	f.logger.Info("dashboard metrics computed",
		"hotel_id", hotelID,
		"as_of", daterange.Format(today),
		"rooms", totalRooms,
		"reservations", len(stays),
		"service_orders", len(orders),
	)
	return result, nil
}
