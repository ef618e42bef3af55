package trip

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const openTripsKey = "trips:open"

// Cache keeps the open-trips listing in Redis so the hot read path
// stays off the database. Entries expire on a short TTL instead of
// being invalidated by reservations.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: client, ttl: ttl}
}

func (c *Cache) GetOpenTrips(ctx context.Context) ([]Trip, bool) {
	val, err := c.redis.Get(ctx, openTripsKey).Result()
	if err != nil {
		// Treat redis.Nil and transport errors the same: fall back to the store.
		return nil, false
	}
	var trips []Trip
	if err := json.Unmarshal([]byte(val), &trips); err != nil {
		return nil, false
	}
	return trips, true
}

func (c *Cache) SetOpenTrips(ctx context.Context, trips []Trip) error {
	data, err := json.Marshal(trips)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, openTripsKey, data, c.ttl).Err()
}
