package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginLimiter counts login attempts per email in a Redis fixed window. Token
// validity itself is stateless; the limiter only slows credential guessing,
// so it fails open when Redis is unreachable rather than blocking logins.
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewLoginLimiter builds a limiter. A nil client disables limiting.
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *LoginLimiter {
	return &LoginLimiter{client: client, limit: limit, window: window, logger: logger}
}

// Allow records one attempt for the email and reports whether it is within
// the window limit.
func (l *LoginLimiter) Allow(ctx context.Context, email string) bool {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true
	}

	key := fmt.Sprintf("login_attempts:%s", email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter unavailable", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("login limiter expire failed", zap.Error(err))
		}
	}
	return count <= int64(l.limit)
}

// Reset clears the attempt counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l == nil || l.client == nil {
		return
	}
	key := fmt.Sprintf("login_attempts:%s", email)
	if err := l.client.Del(ctx, key).Err(); err != nil {
		l.logger.Warn("login limiter reset failed", zap.Error(err))
	}
}
