// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

type RateLimiter struct {
	client      redis.UniversalClient
	maxAttempts int64
	window      time.Duration
}

func NewRateLimiter(client redis.UniversalClient, maxAttempts int64, window time.Duration) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RateLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// CheckIdentifyAttempt counts one classification for the national ID and
// reports whether it is within the limit.
func (r *RateLimiter) CheckIdentifyAttempt(ctx context.Context, nationalID string) (bool, int64, error) {
	key := identifyKey(nationalID)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	if _, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	}); err != nil {
		return false, 0, fmt.Errorf("failed to increment identify attempt: %w", err)
	}
	count := incr.Val()

	// a counter without expiry would lock the ID out for good
	if ttl.Val() < 0 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set identify attempt window: %w", err)
		}
	}

	remaining := r.maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= r.maxAttempts, remaining, nil
}

func (r *RateLimiter) ResetIdentifyAttempts(ctx context.Context, nationalID string) error {
	return r.client.Del(ctx, identifyKey(nationalID)).Err()
}

// identifyKey never stores the national ID in clear text.
func identifyKey(nationalID string) string {
	sum := blake2b.Sum256([]byte(nationalID))
	return "ratelimit:identify:" + hex.EncodeToString(sum[:12])
}
