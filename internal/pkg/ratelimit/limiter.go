// Package ratelimit throttles chat traffic per user with Redis counters.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewLimiter allows up to limit chat messages per user per window.
func NewLimiter(client *redis.Client, limit int64, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{client: client, limit: limit, window: window}
}

// AllowChat increments the user's counter and reports whether the message is
// within the limit, along with the remaining allowance.
func (l *Limiter) AllowChat(ctx context.Context, userID string) (bool, int64, error) {
	key := fmt.Sprintf("ratelimit:chat:%s", userID)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment chat counter: %w", err)
	}

	// Set expiration on first message in the window
	if count == 1 {
		l.client.Expire(ctx, key, l.window)
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.limit, remaining, nil
}

// Reset clears the user's chat counter.
func (l *Limiter) Reset(ctx context.Context, userID string) error {
	key := fmt.Sprintf("ratelimit:chat:%s", userID)
	return l.client.Del(ctx, key).Err()
}
