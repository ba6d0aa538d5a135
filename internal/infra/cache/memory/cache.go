package memory

import (
	"context"
	"sync"

	"hotelops/internal/app/metrics"
	"hotelops/internal/domain/hotels"
)

// Cache is the process-local metrics cache. Entries never expire on their own.
type Cache struct {
	mu      sync.RWMutex
	entries map[hotels.HotelID]metrics.Result
}

func NewCache() *Cache {
	return &Cache{entries: make(map[hotels.HotelID]metrics.Result)}
}

func (c *Cache) Get(_ context.Context, hotelID hotels.HotelID) (metrics.Result, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[hotelID]
	return r, ok, nil
}

func (c *Cache) Put(_ context.Context, hotelID hotels.HotelID, result metrics.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hotelID] = result
	return nil
}

func (c *Cache) Invalidate(_ context.Context, hotelID hotels.HotelID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, hotelID)
	return nil
}

func (c *Cache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[hotels.HotelID]metrics.Result)
	return nil
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ metrics.Cache = (*Cache)(nil)
