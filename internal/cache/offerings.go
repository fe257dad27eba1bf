// Package cache keeps course offerings in Redis in front of a slower data source.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/course-advisor/internal/metrics"
	"github.com/jonathan/course-advisor/internal/recommend"
	"github.com/jonathan/course-advisor/internal/types"
)

// DefaultTTL is used when no positive TTL is configured.
const DefaultTTL = 10 * time.Minute

const keyPrefix = "advisor:offerings:"

// Client is the subset of the go-redis API the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
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

// Offerings caches GetOfferings results. Concurrent misses for the same course
// share one call to the underlying source. Cache failures only cost a lookup;
// they never fail the caller.
type Offerings struct {
	next   recommend.OfferingSource
	client Client
	ttl    time.Duration
	logger *zap.Logger
	group  singleflight.Group
}

// NewOfferings wraps next with a Redis cache.
func NewOfferings(next recommend.OfferingSource, client Client, ttl time.Duration, logger *zap.Logger) *Offerings {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Offerings{next: next, client: client, ttl: ttl, logger: logger}
}

// GetOfferings implements recommend.OfferingSource.
func (c *Offerings) GetOfferings(ctx context.Context, courseCode string) ([]types.OfferingRecord, error) {
	key := keyPrefix + courseCode

	if cached, ok := c.lookup(ctx, key); ok {
		return cached, nil
	}

	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own context ends.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		records, err := c.next.GetOfferings(fetchCtx, courseCode)
		if err != nil {
			return nil, err
		}
		c.store(fetchCtx, key, records)
		return records, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		c.logger.Debug("offering lookup coalesced", zap.String("course", courseCode))
	}

	records := res.Val.([]types.OfferingRecord)
	return append([]types.OfferingRecord(nil), records...), nil
}

func (c *Offerings) lookup(ctx context.Context, key string) ([]types.OfferingRecord, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheLookup(metrics.CacheMiss)
		} else {
			metrics.RecordCacheLookup(metrics.CacheError)
			c.logger.Warn("offering cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var records []types.OfferingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		metrics.RecordCacheLookup(metrics.CacheError)
		c.logger.Warn("discarding corrupt offering cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	metrics.RecordCacheLookup(metrics.CacheHit)
	return records, true
}

func (c *Offerings) store(ctx context.Context, key string, records []types.OfferingRecord) {
	if records == nil {
		records = []types.OfferingRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		c.logger.Warn("failed to encode offerings for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("offering cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// sources overrides offering lookups of an otherwise unchanged Sources.
type sources struct {
	recommend.Sources
	offerings *Offerings
}

func (s *sources) GetOfferings(ctx context.Context, courseCode string) ([]types.OfferingRecord, error) {
	return s.offerings.GetOfferings(ctx, courseCode)
}

// Wrap returns src with its offering lookups served through a Redis cache.
func Wrap(src recommend.Sources, client Client, ttl time.Duration, logger *zap.Logger) recommend.Sources {
	return &sources{Sources: src, offerings: NewOfferings(src, client, ttl, logger)}
}
