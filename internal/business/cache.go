package business

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/sponsor-finder/internal/metrics"
	"github.com/jonathan/sponsor-finder/internal/types"
)

const (
	extractKeyPrefix = "sponsor:extract:"
	searchKeyPrefix  = "sponsor:search:"
)

// CachedResolver wraps a Source with a Redis read-through cache.
// Redis failures are logged and the wrapped Source is called directly.
type CachedResolver struct {
	next   Source
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedResolver creates a CachedResolver.
func NewCachedResolver(next Source, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedResolver{next: next, client: client, ttl: ttl, logger: logger}
}

// ConnectRedis parses a redis:// URL and verifies the connection.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// ExtractFromURL implements Source.
func (c *CachedResolver) ExtractFromURL(ctx context.Context, url string) (*types.BusinessInfo, error) {
	normalized, err := NormalizeURL(url)
	if err != nil {
		return nil, err
	}
	return c.cached(ctx, "extract", extractKeyPrefix+normalized, func() (*types.BusinessInfo, error) {
		return c.next.ExtractFromURL(ctx, url)
	})
}

// SearchBusinessInfo implements Source.
func (c *CachedResolver) SearchBusinessInfo(ctx context.Context, query string) (*types.BusinessInfo, error) {
	if err := c.next.SearchReady(); err != nil {
		return nil, err
	}
	key := searchKeyPrefix + strings.ToLower(strings.TrimSpace(query))
	return c.cached(ctx, "search", key, func() (*types.BusinessInfo, error) {
		return c.next.SearchBusinessInfo(ctx, query)
	})
}

// SearchReady implements Source.
func (c *CachedResolver) SearchReady() error {
	return c.next.SearchReady()
}

func (c *CachedResolver) cached(ctx context.Context, kind, key string, load func() (*types.BusinessInfo, error)) (*types.BusinessInfo, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var info types.BusinessInfo
		if jsonErr := json.Unmarshal(data, &info); jsonErr == nil {
			c.logger.Debug("cache hit", zap.String("key", key))
			metrics.CacheLookups.WithLabelValues(kind, "hit").Inc()
			return &info, nil
		}
		c.logger.Warn("discarding corrupt cache entry", zap.String("key", key))
		metrics.CacheLookups.WithLabelValues(kind, "corrupt").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CacheLookups.WithLabelValues(kind, "miss").Inc()
	default:
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		metrics.CacheLookups.WithLabelValues(kind, "error").Inc()
	}

	info, err := load()
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(info)
	if err != nil {
		return info, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return info, nil
}
