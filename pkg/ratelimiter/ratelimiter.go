package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/scidiscoveries/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	ScopeContent = "content"
	ScopeComment = "comment"
)

// Limiter enforces a per-user cooldown between actions of the same scope.
type Limiter interface {
	// Acquire starts a cooldown for (userID, scope). The returned release func
	// clears it again, for callers whose action failed after acquiring.
	Acquire(ctx context.Context, userID uuid.UUID, scope string, cooldown time.Duration) (release func(), err error)
}

type redisLimiter struct {
	rdb *redis.Client
}

// New returns a Redis-backed Limiter. A nil client yields a limiter that
// always allows.
func New(rdb *redis.Client) Limiter {
	return &redisLimiter{rdb: rdb}
}

func key(userID uuid.UUID, scope string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), scope)
}

func (l *redisLimiter) Acquire(ctx context.Context, userID uuid.UUID, scope string, cooldown time.Duration) (func(), error) {
	noop := func() {}
	if l == nil || l.rdb == nil || cooldown <= 0 {
		return noop, nil
	}

	k := key(userID, scope)
	wasSet, err := l.rdb.SetNX(ctx, k, "locked", cooldown).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	if !wasSet {
		ttl, err := l.rdb.TTL(ctx, k).Result()
		if err != nil || ttl < 0 {
			ttl = cooldown
		}
		return nil, &apperror.RateLimitError{
			Message:    fmt.Sprintf("you are doing that too fast, please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	release := func() {
		_ = l.rdb.Del(context.Background(), k).Err()
	}
	return release, nil
}
