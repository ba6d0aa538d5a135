package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"hotelops/internal/app/metrics"
	"hotelops/internal/domain/hotels"
)

const keyPrefix = "hotelops:metrics:"

// scanBatch is the COUNT hint for SCAN during InvalidateAll.
const scanBatch = 200

// Cache stores metrics as JSON so every instance behind the load balancer
// shares one view. TTL zero keeps entries until invalidated.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// NewClient dials addr and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func key(hotelID hotels.HotelID) string {
	return keyPrefix + string(hotelID)
}

func (c *Cache) Get(ctx context.Context, hotelID hotels.HotelID) (metrics.Result, bool, error) {
	raw, err := c.client.Get(ctx, key(hotelID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return metrics.Result{}, false, nil
	}
	if err != nil {
		return metrics.Result{}, false, fmt.Errorf("redis get %s: %w", hotelID, err)
	}
	result, err := decode(raw)
	if err != nil {
		// unreadable entries are dropped so the next request recomputes
		_ = c.client.Del(ctx, key(hotelID)).Err()
		return metrics.Result{}, false, err
	}
	return result, true, nil
}

func (c *Cache) Put(ctx context.Context, hotelID hotels.HotelID, result metrics.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("redis encode %s: %w", hotelID, err)
	}
	if err := c.client.Set(ctx, key(hotelID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", hotelID, err)
	}
	return nil
}

func (c *Cache) Invalidate(ctx context.Context, hotelID hotels.HotelID) error {
	if err := c.client.Del(ctx, key(hotelID)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", hotelID, err)
	}
	return nil
}

// InvalidateAll deletes every key under the metrics prefix, in SCAN batches.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del batch: %w", err)
		}
		batch = batch[:0]
		return nil
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return flush()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func decode(raw []byte) (metrics.Result, error) {
	var result metrics.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return metrics.Result{}, fmt.Errorf("redis decode: %w", err)
	}
	return result, nil
}

var _ metrics.Cache = (*Cache)(nil)
