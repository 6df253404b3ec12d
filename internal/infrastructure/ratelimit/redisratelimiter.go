package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ticktrack:ratelimit"

// RedisRateLimiter keeps one sorted set of request timestamps per key and
// window, so limits are shared by every server instance. Denied requests are
// counted too: a client that keeps hammering stays blocked.
type RedisRateLimiter struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisRateLimiter(client redis.UniversalClient) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		now:    time.Now,
	}
}

type window struct {
	duration time.Duration
	limit    int
}

func (c RateLimitConfig) windows() []window {
	return []window{
		{time.Minute, c.RequestsPerMinute},
		{time.Hour, c.RequestsPerHour},
		{24 * time.Hour, c.RequestsPerDay},
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, config RateLimitConfig) (Decision, error) {
	decision := Decision{Allowed: true, Remaining: -1}
	if config.Unlimited() {
		return decision, nil
	}

	now := l.now()
	for _, w := range config.windows() {
		if w.limit <= 0 {
			continue
		}

		count, oldest, err := l.record(ctx, key, w.duration, now)
		if err != nil {
			return Decision{}, err
		}

		remaining := int64(w.limit) - count
		if remaining < 0 {
			decision.Allowed = false
			decision.Remaining = 0
			retry := time.Unix(0, oldest).Add(w.duration).Sub(now)
			if retry < time.Second {
				retry = time.Second
			}
			if retry > decision.RetryAfter {
				decision.RetryAfter = retry
			}
			continue
		}
		if decision.Remaining < 0 || remaining < decision.Remaining {
			decision.Remaining = remaining
		}
	}
	if !decision.Allowed {
		decision.Remaining = 0
	}
	return decision, nil
}

// record adds the request at now to the window and returns the number of
// requests in the window including this one, plus the oldest timestamp.
func (l *RedisRateLimiter) record(ctx context.Context, key string, d time.Duration, now time.Time) (int64, int64, error) {
	redisKey := l.getKey(key, d)
	nowNano := now.UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(now.Add(-d).UnixNano(), 10))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowNano), Member: nowNano})
	zcard := pipe.ZCard(ctx, redisKey)
	first := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	pipe.Expire(ctx, redisKey, d+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	oldest := nowNano
	if zs := first.Val(); len(zs) > 0 {
		oldest = int64(zs[0].Score)
	}
	return zcard.Val(), oldest, nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, key)

	iter := l.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := l.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}
	return nil
}

func (l *RedisRateLimiter) getKey(identifier string, d time.Duration) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, identifier, d.String())
}
