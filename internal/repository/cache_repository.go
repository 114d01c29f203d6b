package repository

import (
	"context"
	"ctchen222/terminal-tic-tac-toe/internal/bot"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const searchKeyPrefix = "search:"

// redisSearchCache stores search results as JSON strings with a TTL.
type redisSearchCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSearchCache creates a Redis-based bot.SearchCache. A zero ttl keeps
// entries forever.
func NewSearchCache(rdb *redis.Client, ttl time.Duration) bot.SearchCache {
	return &redisSearchCache{rdb: rdb, ttl: ttl}
}

// Get looks up a stored result. A missing key is reported as ok=false.
func (c *redisSearchCache) Get(ctx context.Context, key string) (bot.Result, bool, error) {
	ctx, span := tracer.Start(ctx, "SearchCache.Get", trace.WithAttributes(
		attribute.String("cache.key", key),
	))
	defer span.End()

	data, err := c.rdb.Get(ctx, searchKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return bot.Result{}, false, nil
	}
	if err != nil {
		span.RecordError(err)
		return bot.Result{}, false, fmt.Errorf("failed to get search result from redis: %w", err)
	}

	var res bot.Result
	if err := json.Unmarshal(data, &res); err != nil {
		span.RecordError(err)
		return bot.Result{}, false, fmt.Errorf("failed to unmarshal search result: %w", err)
	}
	span.SetAttributes(attribute.Bool("cache.hit", true))
	return res, true, nil
}

// Set stores a result under key.
func (c *redisSearchCache) Set(ctx context.Context, key string, res bot.Result) error {
	ctx, span := tracer.Start(ctx, "SearchCache.Set", trace.WithAttributes(
		attribute.String("cache.key", key),
	))
	defer span.End()

	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal search result: %w", err)
	}
	if err := c.rdb.Set(ctx, searchKeyPrefix+key, data, c.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to store search result in redis: %w", err)
	}
	return nil
}
