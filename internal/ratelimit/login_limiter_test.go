package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginLimiter(client, limit, window, zap.NewNop()), mr
}

func TestLimiterAllowsWithinLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "a@x.com"))
	}
	assert.False(t, limiter.Allow(ctx, "a@x.com"))
}

func TestLimiterTracksEmailsIndependently(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.True(t, limiter.Allow(ctx, "a@x.com"))
	assert.False(t, limiter.Allow(ctx, "a@x.com"))
	assert.True(t, limiter.Allow(ctx, "b@x.com"))
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.True(t, limiter.Allow(ctx, "a@x.com"))
	require.False(t, limiter.Allow(ctx, "a@x.com"))

	mr.FastForward(2 * time.Minute)
	assert.True(t, limiter.Allow(ctx, "a@x.com"))
}

func TestLimiterResetClearsCounter(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.True(t, limiter.Allow(ctx, "a@x.com"))
	limiter.Reset(ctx, "a@x.com")
	assert.True(t, limiter.Allow(ctx, "a@x.com"))
}

func TestLimiterFailsOpenWhenRedisDown(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	assert.True(t, limiter.Allow(context.Background(), "a@x.com"))
}

func TestLimiterDisabledWithoutClient(t *testing.T) {
	limiter := NewLoginLimiter(nil, 1, time.Minute, zap.NewNop())

	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow(context.Background(), "a@x.com"))
	}
}
