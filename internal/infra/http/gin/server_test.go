package ginserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotelops/internal/app/commands"
	"hotelops/internal/app/dto"
	dashboardapp "hotelops/internal/app/handlers/dashboard"
	pricingapp "hotelops/internal/app/handlers/pricing"
	"hotelops/internal/app/metrics"
	"hotelops/internal/app/middleware"
	"hotelops/internal/app/policies"
	"hotelops/internal/app/queries"
	"hotelops/internal/domain/hotels"
	"hotelops/internal/domain/reservations"
	"hotelops/internal/domain/shared/daterange"
	cachememory "hotelops/internal/infra/cache/memory"
	"hotelops/internal/infra/obs"
	"hotelops/internal/infra/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Saturday 2025-03-01, 09:00 UTC.
var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type flakyStore struct {
	*memory.Store
	fail bool
}

func (s *flakyStore) Rooms(ctx context.Context, id hotels.HotelID) ([]hotels.Room, error) {
	if s.fail {
		return nil, errors.New("connection refused")
	}
	return s.Store.Rooms(ctx, id)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, name, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, name+":"+key)
	return nil
}

type fakeArchiver struct {
	keys []string
}

func (a *fakeArchiver) Upload(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	a.keys = append(a.keys, key)
	return "https://files.example.com/" + key, nil
}

type testEnv struct {
	router    *gin.Engine
	store     *flakyStore
	publisher *recordingPublisher
}

func seed(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	day := func(v string) time.Time {
		d, err := daterange.Parse(v)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		return d
	}
	s.SaveHotel(hotels.Hotel{ID: "h1", Name: "Riverside", Currency: "VND", Timezone: "UTC"})
	s.SaveRoomType(hotels.RoomType{
		ID: "deluxe", HotelID: "h1", Name: "Deluxe",
		BasePrice:      decimal.NewFromInt(500000),
		WeekdayPricing: map[hotels.Weekday]decimal.Decimal{hotels.Saturday: decimal.NewFromInt(950000)},
		SeasonalPricing: []hotels.SeasonalRate{
			{StartDate: day("2025-03-01"), EndDate: day("2025-03-10"), Price: decimal.NewFromInt(1000000)},
			{StartDate: day("2025-03-05"), EndDate: day("2025-03-06"), Price: decimal.NewFromInt(1200000)},
		},
	})
	rooms := map[hotels.RoomID]hotels.RoomStatus{
		"a": hotels.RoomOccupied,
		"b": hotels.RoomVacant,
		"c": hotels.RoomVacant,
		"d": hotels.RoomDirty,
		"e": hotels.RoomMaintenance,
	}
	for id, status := range rooms {
		s.SaveRoom(hotels.Room{ID: id, HotelID: "h1", RoomTypeID: "deluxe", Status: status})
	}
	s.SaveReservation(reservations.Reservation{
		ID: "res-1", HotelID: "h1", RoomID: "a", CheckInDate: day("2025-03-01"), CheckOutDate: day("2025-03-03"),
		Status: reservations.StatusCheckedIn, TotalPrice: decimal.NewFromInt(1900000),
	})
	return s
}

func newTestEnv(t *testing.T, archiver policies.SnapshotArchiver) testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := &flakyStore{Store: seed(t)}
	publisher := &recordingPublisher{}
	facade := metrics.NewFacade(store, cachememory.NewCache(),
		metrics.WithClock(func() time.Time { return testNow }),
		metrics.WithLogger(logger),
	)

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, dashboardapp.GetMetricsQuery{}.Key(), &dashboardapp.GetMetricsHandler{Metrics: facade})
	queries.RegisterHandler(queryBus, pricingapp.QuoteStayQuery{}.Key(), &pricingapp.QuoteStayHandler{Store: store, Logger: logger})
	queries.RegisterHandler(queryBus, pricingapp.PricingWarningsQuery{}.Key(), &pricingapp.PricingWarningsHandler{Store: store, Logger: logger})

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, dashboardapp.ClearCacheCommand{}.Key(), &dashboardapp.ClearCacheHandler{Metrics: facade, Publisher: publisher, Logger: logger})
	commands.RegisterHandler(commandBus, dashboardapp.ArchiveSnapshotCommand{}.Key(), &dashboardapp.ArchiveSnapshotHandler{
		Metrics: facade, Archiver: archiver, Logger: logger, Now: func() time.Time { return testNow },
	})

	handlers := Handlers{
		Dashboard: DashboardHandler{
			Logger:   logger,
			Queries:  middleware.ChainQueries(queryBus, middleware.QueryValidation()),
			Commands: middleware.ChainCommands(commandBus, middleware.Validation()),
		},
		Pricing: PricingHandler{
			Logger:  logger,
			Queries: middleware.ChainQueries(queryBus, middleware.QueryValidation()),
		},
	}
	router := newRouter(obs.Middleware{Logger: logger}, obs.HealthHandlers{}, handlers)
	return testEnv{router: router, store: store, publisher: publisher}
}

func (e testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/v1/hotels/h1/dashboard/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var got dto.DashboardMetrics
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.OccupancyToday != 20 || got.TotalRooms != 5 || got.AvailableRooms != 2 || got.AsOf != "2025-03-01" {
		t.Fatalf("metrics = %+v", got)
	}
	if !got.RevenueToday.Total.Equal(decimal.NewFromInt(1900000)) {
		t.Fatalf("revenue today = %s", got.RevenueToday.Total)
	}
}

func TestMetricsErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	if rec := env.do(http.MethodGet, "/api/v1/hotels/nope/dashboard/metrics", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown hotel status = %d", rec.Code)
	}

	env.store.fail = true
	rec := env.do(http.MethodGet, "/api/v1/hotels/h1/dashboard/metrics", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store failure status = %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" || !strings.Contains(rec.Body.String(), `"retryable":true`) {
		t.Fatalf("missing retry hints: %v %s", rec.Header(), rec.Body.String())
	}
}

func TestClearCacheEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	if rec := env.do(http.MethodGet, "/api/v1/hotels/h1/dashboard/metrics", ""); rec.Code != http.StatusOK {
		t.Fatalf("warm status = %d", rec.Code)
	}
	env.store.SaveRoom(hotels.Room{ID: "z", HotelID: "h1", Status: hotels.RoomVacant})

	if rec := env.do(http.MethodDelete, "/api/v1/hotels/h1/dashboard/cache", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rec.Code)
	}
	if rec := env.do(http.MethodDelete, "/api/v1/dashboard/cache", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear all status = %d", rec.Code)
	}
	if strings.Join(env.publisher.events, ",") != "metrics.cache_cleared:h1,metrics.cache_cleared:" {
		t.Fatalf("events = %v", env.publisher.events)
	}

	rec := env.do(http.MethodGet, "/api/v1/hotels/h1/dashboard/metrics", "")
	var got dto.DashboardMetrics
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.TotalRooms != 6 {
		t.Fatalf("total rooms after clear = %d, want 6", got.TotalRooms)
	}
}

func TestQuoteEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodPost, "/api/v1/hotels/h1/room-types/deluxe/quote", `{"check_in":"2025-03-04","check_out":"2025-03-07"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var quote dto.StayQuote
	if err := json.Unmarshal(rec.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 03-04 first season, 03-05 and 03-06 the later overlapping season.
	if quote.Nights != 3 || !quote.Subtotal.Equal(decimal.NewFromInt(3400000)) {
		t.Fatalf("quote = %+v", quote)
	}
	if quote.Breakdown[1].Season == nil || *quote.Breakdown[1].Season != 1 {
		t.Fatalf("night 2 season = %v", quote.Breakdown[1].Season)
	}

	cases := map[string]struct {
		path, body string
		status     int
	}{
		"same day":          {"/api/v1/hotels/h1/room-types/deluxe/quote", `{"check_in":"2025-03-04","check_out":"2025-03-04"}`, http.StatusBadRequest},
		"bad date":          {"/api/v1/hotels/h1/room-types/deluxe/quote", `{"check_in":"04/03/2025","check_out":"2025-03-07"}`, http.StatusBadRequest},
		"malformed body":    {"/api/v1/hotels/h1/room-types/deluxe/quote", `{`, http.StatusBadRequest},
		"stay too long":     {"/api/v1/hotels/h1/room-types/deluxe/quote", `{"check_in":"1700-01-01","check_out":"2100-01-01"}`, http.StatusBadRequest},
		"unknown room type": {"/api/v1/hotels/h1/room-types/suite/quote", `{"check_in":"2025-03-04","check_out":"2025-03-05"}`, http.StatusNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if rec := env.do(http.MethodPost, tc.path, tc.body); rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestPricingWarningsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/v1/hotels/h1/room-types/pricing-warnings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got dto.PricingWarnings
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Reports) != 1 || len(got.Reports[0].Warnings) != 1 {
		t.Fatalf("reports = %+v", got.Reports)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	if rec := newTestEnv(t, nil).do(http.MethodPost, "/api/v1/hotels/h1/dashboard/snapshots", ""); rec.Code != http.StatusNotImplemented {
		t.Fatalf("unconfigured status = %d", rec.Code)
	}

	archiver := &fakeArchiver{}
	rec := newTestEnv(t, archiver).do(http.MethodPost, "/api/v1/hotels/h1/dashboard/snapshots", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if len(archiver.keys) != 1 || archiver.keys[0] != "snapshots/h1/20250301T090000Z.json" {
		t.Fatalf("keys = %v", archiver.keys)
	}
}
