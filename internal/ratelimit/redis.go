package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter enforces the same limits with fixed windows shared through
// redis, so several API instances count together.
type RedisLimiter struct {
	client *redis.Client
	limits Limits
	prefix string
}

// NewRedisLimiter creates a limiter storing counters under prefix
func NewRedisLimiter(client *redis.Client, limits Limits, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rate_limit"
	}
	return &RedisLimiter{client: client, limits: limits, prefix: prefix}
}

// Allow increments the counter of every window and rejects once any is over its limit
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	checks := []struct {
		name   string
		limit  int
		window time.Duration
	}{
		{"minute", rl.limits.PerMinute, time.Minute},
		{"hour", rl.limits.PerHour, time.Hour},
		{"day", rl.limits.PerDay, 24 * time.Hour},
	}

	allowed := true
	for _, check := range checks {
		if check.limit <= 0 {
			continue
		}
		redisKey := fmt.Sprintf("%s:%s:%s", rl.prefix, check.name, key)

		count, err := rl.client.Incr(ctx, redisKey).Result()
		if err != nil {
			return false, fmt.Errorf("rate limit check failed: %w", err)
		}
		if count == 1 {
			rl.client.Expire(ctx, redisKey, check.window)
		}
		if count > int64(check.limit) {
			allowed = false
		}
	}
	return allowed, nil
}
