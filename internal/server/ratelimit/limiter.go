// Package ratelimit throttles login attempts per email and per source IP
// using Redis counters with a sliding expiry window.
package ratelimit

import (
	"context"
	"time"

	"github.com/dkarpov/reelmark/internal/common"
	"github.com/dkarpov/reelmark/internal/logging"
	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts login attempts with INCR+EXPIRE. A Redis outage fails
// open: legitimate users keep logging in while the throttle is down, and the
// outage is logged. A nil *redis.Client disables the limiter entirely.
type LoginLimiter struct {
	redis       *redis.Client
	maxAttempts int
	window      time.Duration
	logger      logging.Logger
}

func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration, logger logging.Logger) *LoginLimiter {
	return &LoginLimiter{
		redis:       client,
		maxAttempts: maxAttempts,
		window:      window,
		logger:      logger.With("module", "login_limiter"),
	}
}

// Allow records one attempt for the given email and source IP and returns
// common.ErrRateLimited when either budget is exhausted.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) error {
	if l == nil || l.redis == nil {
		return nil
	}

	if err := l.enforceKey(ctx, "la:"+email); err != nil {
		return err
	}
	if ip != "" {
		if err := l.enforceKey(ctx, "laip:"+ip); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears the attempt counter for an email after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l == nil || l.redis == nil {
		return
	}
	if err := l.redis.Del(ctx, "la:"+email).Err(); err != nil {
		l.logger.Warn(ctx, "failed to reset login counter", "error", err)
	}
}

func (l *LoginLimiter) enforceKey(ctx context.Context, key string) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn(ctx, "redis unavailable, skipping login throttle", "error", err)
		return nil
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn(ctx, "failed to set throttle window", "key", key, "error", err)
		}
	}

	if count > int64(l.maxAttempts) {
		return common.ErrRateLimited
	}

	return nil
}
