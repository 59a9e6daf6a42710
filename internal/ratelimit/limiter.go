package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultLimit  = 10
	defaultWindow = time.Minute
)

// Limiter is a Redis-backed fixed-window rate limiter keyed by client
// IP and purpose. A nil client disables limiting entirely, so the
// service runs without Redis in development.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{
		client: client,
		limit:  defaultLimit,
		window: defaultWindow,
	}
}

// NewDisabledLimiter returns a limiter that allows everything.
func NewDisabledLimiter() *Limiter {
	return NewLimiter(nil)
}

func key(ip, purpose string) string {
	return fmt.Sprintf("ratelimit:%s:%s", purpose, ip)
}

// CheckIPRateLimit reports whether the ip has exhausted its window
// for the given purpose.
func (l *Limiter) CheckIPRateLimit(ctx context.Context, ip, purpose string) (bool, error) {
	if l.client == nil {
		return false, nil
	}

	count, err := l.client.Get(ctx, key(ip, purpose)).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to read rate limit counter: %w", err)
	}

	return count >= l.limit, nil
}

// RecordIPRequest counts one request against the ip's window. The
// window TTL starts on the first hit.
func (l *Limiter) RecordIPRequest(ctx context.Context, ip, purpose string) error {
	if l.client == nil {
		return nil
	}

	k := key(ip, purpose)

	pipe := l.client.Pipeline()
	pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record rate limit hit: %w", err)
	}

	return nil
}
