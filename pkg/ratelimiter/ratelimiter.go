package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"discussify.com/api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimitError is returned when a cooldown is still active.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Is(target error) bool {
	return target == apperror.ErrRateLimitExceeded
}

// Limiter enforces a per-user cooldown for an action. A nil client disables it.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func key(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

// Acquire sets the cooldown for action or returns a RateLimitError if it is already set.
// A non-positive limit always allows.
func (l *Limiter) Acquire(ctx context.Context, userID uuid.UUID, action string, limit time.Duration) error {
	if l == nil || l.rdb == nil || limit <= 0 {
		return nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(userID, action), "locked", limit).Result()
	if err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if wasSet {
		return nil
	}

	ttl, _ := l.rdb.TTL(ctx, key(userID, action)).Result()
	if ttl < 0 {
		ttl = limit
	}
	return &RateLimitError{
		Message:    fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()),
		RetryAfter: ttl,
	}
}

// Release clears the cooldown, used when the guarded action failed.
func (l *Limiter) Release(ctx context.Context, userID uuid.UUID, action string) {
	if l == nil || l.rdb == nil {
		return
	}
	_ = l.rdb.Del(ctx, key(userID, action)).Err()
}
