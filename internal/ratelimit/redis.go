package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "councilroi:ratelimit:"

// Redis is a fixed-window limiter shared by every replica using the same Redis.
type Redis struct {
	client   redis.UniversalClient
	capacity int64
	window   time.Duration
	now      func() time.Time
}

// NewRedis returns a limiter allowing capacity requests per window for each key.
func NewRedis(client redis.UniversalClient, capacity int, window time.Duration) *Redis {
	return &Redis{
		client:   client,
		capacity: int64(capacity),
		window:   window,
		now:      time.Now,
	}
}

// Allow counts the request against the key's current window.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := r.now().UnixNano() / int64(r.window)
	redisKey := fmt.Sprintf("%s%s:%d", keyPrefix, key, windowStart)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("count request for %s: %w", key, err)
	}

	return incr.Val() <= r.capacity, nil
}
