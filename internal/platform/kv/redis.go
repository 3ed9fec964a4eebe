// Package kv holds the Redis client and the fixed-window counter the rate
// limiter stores its hits in.
package kv

import (
	"context"
	"fmt"
	"time"

	"mini_one/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

func Connect(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	return rdb, nil
}

// WindowCounter implements a fixed window: a key without a TTL gets the
// window as its TTL, later hits only increment it. Checking the TTL on every
// hit re-arms a key whose earlier EXPIRE was lost.
type WindowCounter struct {
	rdb redis.Cmdable
}

func NewWindowCounter(rdb redis.Cmdable) *WindowCounter {
	return &WindowCounter{rdb: rdb}
}

func (c *WindowCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate counter %s: %w", key, err)
	}
	// TTL reports -1 for a key that exists without an expiry.
	if ttl.Val() < 0 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("rate counter %s: expire: %w", key, err)
		}
	}
	return incr.Val(), nil
}
