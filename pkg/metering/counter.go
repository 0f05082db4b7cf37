package metering

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// counterTTL keeps a day's counter around past midnight so late readers of
// the previous day still see it, then lets Redis reclaim it.
const counterTTL = 48 * time.Hour

// Counter tracks per-account daily send counts in Redis so the count is
// shared across instances. Day boundaries are UTC.
//
// Reads are snapshots: a value is only guaranteed fresh at the moment it was
// read, and quota policy must treat it that way.
type Counter struct {
	redis  *redis.Client
	prefix string
}

// NewCounter creates a Redis-backed send counter
func NewCounter(redisClient *redis.Client, prefix string) *Counter {
	if prefix == "" {
		prefix = "sends"
	}
	return &Counter{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (c *Counter) key(accountID string, now time.Time) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, accountID, now.UTC().Format("20060102"))
}

// SentToday returns a snapshot of the account's send count for the current
// UTC day. A missing key means no sends yet.
func (c *Counter) SentToday(ctx context.Context, accountID string, now time.Time) (int, error) {
	count, err := c.redis.Get(ctx, c.key(accountID, now)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis error: %w", err)
	}
	return count, nil
}

// RecordSend increments the account's counter for the current UTC day and
// returns the new count. Increment and expiry run in one pipeline so a
// counter never outlives its window unexpired.
func (c *Counter) RecordSend(ctx context.Context, accountID string, now time.Time) (int, error) {
	redisKey := c.key(accountID, now)

	pipe := c.redis.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis error: %w", err)
	}

	return int(incr.Val()), nil
}

// Reset clears the account's counter for the current UTC day (admin/testing).
func (c *Counter) Reset(ctx context.Context, accountID string, now time.Time) error {
	return c.redis.Del(ctx, c.key(accountID, now)).Err()
}

// HealthCheck verifies Redis connectivity for metering
func (c *Counter) HealthCheck(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}
