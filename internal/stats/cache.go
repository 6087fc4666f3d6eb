// Package stats serves the public marketing counters behind an explicit TTL
// cache with a pull-through refresh, so the database is hit at most once per
// cache period.
package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cacheKey = "public-stats"

// RedisClient is the subset of the redis client the cache needs; narrowed so
// tests can substitute a fake.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CountStore provides the raw aggregate counts.
type CountStore interface {
	CountTenants(ctx context.Context) (int, error)
	CountLeads(ctx context.Context) (int, error)
}

// PublicStats is the presentation shape served to the marketing site.
type PublicStats struct {
	Clients    int `json:"clients"`
	Chats      int `json:"chats"`
	SavedHours int `json:"savedHours"`
}

// fallbackStats is served when the store is unavailable. Never cached.
var fallbackStats = PublicStats{Clients: 50, Chats: 1500, SavedHours: 300}

// Cache is a pull-through cache: a read either hits the cached value or
// refreshes it from the count store.
type Cache struct {
	redis  RedisClient
	counts CountStore
	ttl    time.Duration
}

// NewCache creates a Cache with a one-hour TTL.
func NewCache(redisClient RedisClient, counts CountStore) *Cache {
	return &Cache{redis: redisClient, counts: counts, ttl: time.Hour}
}

// Get returns the current public stats, refreshing the cache on a miss.
func (c *Cache) Get(ctx context.Context) PublicStats {
	cached, err := c.redis.Get(ctx, cacheKey).Result()
	if err == nil {
		stats := PublicStats{}
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return stats
		}
	} else if err != redis.Nil {
		log.Warn().Err(err).Msg("Stats cache read failed")
	}

	return c.refresh(ctx)
}

func (c *Cache) refresh(ctx context.Context) PublicStats {
	tenants, err := c.counts.CountTenants(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Stats refresh failed")
		return fallbackStats
	}
	leads, err := c.counts.CountLeads(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Stats refresh failed")
		return fallbackStats
	}

	// Presentation fuzzing carried over from the marketing site: pad with
	// beta-period numbers and estimate chats from captured leads.
	stats := PublicStats{
		Clients: tenants + 42,
		Chats:   leads*15 + 1200,
	}
	stats.SavedHours = stats.Chats / 5

	if data, err := json.Marshal(stats); err == nil {
		if err := c.redis.SetEx(ctx, cacheKey, data, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Msg("Stats cache write failed")
		}
	}

	return stats
}
