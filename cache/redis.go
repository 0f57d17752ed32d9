// cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gewnthar/flighttracker/config"
	"github.com/gewnthar/flighttracker/models"
)

const keyFlightPrefix = "flight:"

// RedisCache keeps recently fetched flights in Redis as JSON.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to cfg.RedisAddr and verifies the connection.
func NewRedisCache(ctx context.Context, cfg config.CacheConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	log.Printf("Cache: Connected to redis at %s (ttl %s)", cfg.RedisAddr, cfg.TTL)
	return NewRedisCacheWithClient(client, cfg.TTL), nil
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func flightKey(flightNumber string) string {
	return keyFlightPrefix + strings.ToUpper(strings.TrimSpace(flightNumber))
}

// Get returns the cached flight, or false on a miss.
func (c *RedisCache) Get(ctx context.Context, flightNumber string) (*models.Flight, bool, error) {
	payload, err := c.client.Get(ctx, flightKey(flightNumber)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", flightNumber, err)
	}

	var flight models.Flight
	if err := json.Unmarshal(payload, &flight); err != nil {
		return nil, false, fmt.Errorf("decoding cached flight %s: %w", flightNumber, err)
	}
	return &flight, true, nil
}

// Set caches flight under the given flight number for the configured TTL.
func (c *RedisCache) Set(ctx context.Context, flightNumber string, flight *models.Flight) error {
	payload, err := json.Marshal(flight)
	if err != nil {
		return fmt.Errorf("encoding flight %s: %w", flightNumber, err)
	}
	if err := c.client.Set(ctx, flightKey(flightNumber), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", flightNumber, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, flightNumber string) error {
	if err := c.client.Del(ctx, flightKey(flightNumber)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", flightNumber, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Fetcher is the lookup CachedFetcher decorates.
type Fetcher interface {
	GetFlight(ctx context.Context, flightNumber string) (*models.Flight, error)
}

// CachedFetcher serves lookups from the cache when it can and otherwise
// from next, caching successful results. Cache failures are logged and
// bypassed.
type CachedFetcher struct {
	cache *RedisCache
	next  Fetcher
}

func NewCachedFetcher(cache *RedisCache, next Fetcher) *CachedFetcher {
	return &CachedFetcher{cache: cache, next: next}
}

func (f *CachedFetcher) GetFlight(ctx context.Context, flightNumber string) (*models.Flight, error) {
	cached, ok, err := f.cache.Get(ctx, flightNumber)
	switch {
	case err != nil:
		log.Printf("WARN Cache: %v; fetching live", err)
	case ok:
		log.Printf("Cache: Hit for %s", flightNumber)
		return cached, nil
	}

	return f.RefreshFlight(ctx, flightNumber)
}

// RefreshFlight ignores any cached copy, fetches from next and caches the
// result.
func (f *CachedFetcher) RefreshFlight(ctx context.Context, flightNumber string) (*models.Flight, error) {
	flight, err := f.next.GetFlight(ctx, flightNumber)
	if err != nil {
		return nil, err
	}
	if err := f.cache.Set(ctx, flightNumber, flight); err != nil {
		log.Printf("WARN Cache: %v", err)
	}
	return flight, nil
}

// Forget drops the cached copy of flightNumber.
func (f *CachedFetcher) Forget(ctx context.Context, flightNumber string) {
	if err := f.cache.Delete(ctx, flightNumber); err != nil {
		log.Printf("WARN Cache: %v", err)
	}
}
