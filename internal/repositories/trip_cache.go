package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	resp "wanderai/internal/models/response_models"
	mem "wanderai/pkg/memcache"
)

const DefaultTripCacheTTL = time.Hour

// ErrCorruptCacheEntry is returned by Get when a cached value cannot be decoded.
var ErrCorruptCacheEntry = errors.New("corrupt trip cache entry")

// TripCache is a read-through cache of rendered trips. Get returns nil, nil on a miss.
type TripCache interface {
	Get(ctx context.Context, tripID string) (*resp.TripResponse, error)
	Set(ctx context.Context, trip *resp.TripResponse) error
	Delete(ctx context.Context, tripID string) error
	Ping(ctx context.Context) error
}

func tripKey(tripID string) string {
	return "trip:" + strings.ToLower(strings.TrimSpace(tripID))
}

type redisTripCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTripCache(client *redis.Client, ttl time.Duration) TripCache {
	if ttl <= 0 {
		ttl = DefaultTripCacheTTL
	}
	return &redisTripCache{client: client, ttl: ttl}
}

func (c *redisTripCache) Get(ctx context.Context, tripID string) (*resp.TripResponse, error) {
	val, err := c.client.Get(ctx, tripKey(tripID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for trip %s: %w", tripID, err)
	}

	var trip resp.TripResponse
	if err := json.Unmarshal(val, &trip); err != nil {
		return nil, fmt.Errorf("%w: trip %s: %v", ErrCorruptCacheEntry, tripID, err)
	}
	return &trip, nil
}

func (c *redisTripCache) Set(ctx context.Context, trip *resp.TripResponse) error {
	if trip == nil {
		return nil
	}
	b, err := json.Marshal(trip)
	if err != nil {
		return fmt.Errorf("marshaling trip %s: %w", trip.ID, err)
	}
	if err := c.client.Set(ctx, tripKey(trip.ID), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for trip %s: %w", trip.ID, err)
	}
	return nil
}

func (c *redisTripCache) Delete(ctx context.Context, tripID string) error {
	if err := c.client.Del(ctx, tripKey(tripID)).Err(); err != nil {
		return fmt.Errorf("cache delete for trip %s: %w", tripID, err)
	}
	return nil
}

func (c *redisTripCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// memoryTripCache is used when no Redis is configured.
type memoryTripCache struct {
	store mem.TTLStore
	ttl   time.Duration
}

func NewMemoryTripCache(store mem.TTLStore, ttl time.Duration) TripCache {
	if ttl <= 0 {
		ttl = DefaultTripCacheTTL
	}
	return &memoryTripCache{store: store, ttl: ttl}
}

func (c *memoryTripCache) Get(_ context.Context, tripID string) (*resp.TripResponse, error) {
	val, ok := c.store.Get(tripKey(tripID))
	if !ok {
		return nil, nil
	}
	var trip resp.TripResponse
	if err := json.Unmarshal(val, &trip); err != nil {
		return nil, fmt.Errorf("%w: trip %s: %v", ErrCorruptCacheEntry, tripID, err)
	}
	return &trip, nil
}

func (c *memoryTripCache) Set(_ context.Context, trip *resp.TripResponse) error {
	if trip == nil {
		return nil
	}
	b, err := json.Marshal(trip)
	if err != nil {
		return fmt.Errorf("marshaling trip %s: %w", trip.ID, err)
	}
	c.store.Set(tripKey(trip.ID), b, c.ttl)
	return nil
}

func (c *memoryTripCache) Delete(_ context.Context, tripID string) error {
	c.store.Delete(tripKey(tripID))
	return nil
}

func (c *memoryTripCache) Ping(context.Context) error { return nil }
