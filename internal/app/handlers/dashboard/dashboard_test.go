package dashboard

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"hotelops/internal/app/metrics"
	"hotelops/internal/domain/hotels"
)

type fakeMetrics struct {
	result   metrics.Result
	err      error
	cleared  []hotels.HotelID
	clearAll int
}

func (f *fakeMetrics) GetDashboardMetrics(_ context.Context, id hotels.HotelID) (metrics.Result, error) {
	if f.err != nil {
		return metrics.Result{}, f.err
	}
	r := f.result
	r.HotelID = id
	return r, nil
}

func (f *fakeMetrics) ClearCache(_ context.Context, id hotels.HotelID) error {
	f.cleared = append(f.cleared, id)
	return nil
}

func (f *fakeMetrics) ClearAllCache(context.Context) error {
	f.clearAll++
	return nil
}

type event struct {
	name, key string
	data      any
}

type fakePublisher struct {
	events []event
	err    error
}

func (p *fakePublisher) PublishEvent(_ context.Context, name, key string, data any) error {
	p.events = append(p.events, event{name: name, key: key, data: data})
	return p.err
}

type fakeArchiver struct {
	key, contentType, body string
	err                    error
}

func (a *fakeArchiver) Upload(_ context.Context, key string, r io.Reader, contentType string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	raw, _ := io.ReadAll(r)
	a.key, a.contentType, a.body = key, contentType, string(raw)
	return "https://files.local/" + key, nil
}

func TestClearCacheBroadcastsWhenAsked(t *testing.T) {
	m := &fakeMetrics{}
	pub := &fakePublisher{}
	h := &ClearCacheHandler{Metrics: m, Publisher: pub}

	if _, err := h.Handle(context.Background(), ClearCacheCommand{HotelID: " h1 ", Broadcast: true}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(m.cleared) != 1 || m.cleared[0] != "h1" {
		t.Fatalf("cleared = %v", m.cleared)
	}
	if len(pub.events) != 1 || pub.events[0].name != metrics.EventCacheCleared || pub.events[0].key != "h1" {
		t.Fatalf("events = %+v", pub.events)
	}
	if got := pub.events[0].data.(metrics.CacheCleared); got.HotelID != "h1" {
		t.Fatalf("payload = %+v", got)
	}

	if _, err := h.Handle(context.Background(), ClearCacheCommand{}); err != nil {
		t.Fatalf("handle all: %v", err)
	}
	if m.clearAll != 1 || len(pub.events) != 1 {
		t.Fatalf("clearAll = %d events = %d", m.clearAll, len(pub.events))
	}
}

func TestClearCacheIgnoresBroadcastFailure(t *testing.T) {
	h := &ClearCacheHandler{Metrics: &fakeMetrics{}, Publisher: &fakePublisher{err: errors.New("broker down")}}
	if _, err := h.Handle(context.Background(), ClearCacheCommand{HotelID: "h1", Broadcast: true}); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

func TestArchiveSnapshot(t *testing.T) {
	at := time.Date(2025, 3, 5, 14, 30, 0, 0, time.UTC)
	archiver := &fakeArchiver{}
	h := &ArchiveSnapshotHandler{
		Metrics:  &fakeMetrics{result: metrics.Result{AsOf: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), TotalRooms: 7}},
		Archiver: archiver,
		Now:      func() time.Time { return at },
	}

	receipt, err := h.Handle(context.Background(), ArchiveSnapshotCommand{HotelID: "h1"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if receipt.Key != "snapshots/h1/20250305T143000Z.json" || receipt.URL != "https://files.local/"+receipt.Key {
		t.Fatalf("receipt = %+v", receipt)
	}
	if archiver.contentType != "application/json" || !strings.Contains(archiver.body, `"total_rooms":7`) || !strings.Contains(archiver.body, `"as_of":"2025-03-05"`) {
		t.Fatalf("uploaded %s %s", archiver.contentType, archiver.body)
	}
}

func TestArchiveSnapshotFailures(t *testing.T) {
	h := &ArchiveSnapshotHandler{Metrics: &fakeMetrics{}}
	if _, err := h.Handle(context.Background(), ArchiveSnapshotCommand{HotelID: "h1"}); !errors.Is(err, ErrArchiveDisabled) {
		t.Fatalf("err = %v, want ErrArchiveDisabled", err)
	}

	unavailable := &metrics.MetricsUnavailableError{HotelID: "h1", Source: "rooms", Err: errors.New("timeout")}
	archiver := &fakeArchiver{}
	h = &ArchiveSnapshotHandler{Metrics: &fakeMetrics{err: unavailable}, Archiver: archiver}
	if _, err := h.Handle(context.Background(), ArchiveSnapshotCommand{HotelID: "h1"}); metrics.IsMetricsUnavailable(err) == nil {
		t.Fatalf("err = %v, want unavailable", err)
	}
	if archiver.key != "" {
		t.Fatal("nothing should be uploaded when metrics fail")
	}
}

func TestQueriesValidateHotelID(t *testing.T) {
	if err := (GetMetricsQuery{HotelID: "  "}).Validate(); !errors.Is(err, metrics.ErrHotelIDRequired) {
		t.Fatalf("metrics query err = %v", err)
	}
	if err := (ArchiveSnapshotCommand{}).Validate(); !errors.Is(err, metrics.ErrHotelIDRequired) {
		t.Fatalf("snapshot command err = %v", err)
	}
}
