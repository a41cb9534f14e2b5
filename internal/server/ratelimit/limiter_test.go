package ratelimit

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dkarpov/reelmark/internal/common"
	"github.com/dkarpov/reelmark/internal/logging"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, max int, window time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	return NewLoginLimiter(client, max, window, logger), mr
}

func TestAllow_UnderBudget(t *testing.T) {
	l, _ := newLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(ctx, "a@x.com", "10.0.0.1"))
	}
}

func TestAllow_OverBudgetByEmail(t *testing.T) {
	l, _ := newLimiter(t, 2, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "a@x.com", ""))
	require.NoError(t, l.Allow(ctx, "a@x.com", ""))
	err := l.Allow(ctx, "a@x.com", "")
	assert.ErrorIs(t, err, common.ErrRateLimited)

	// other accounts are unaffected
	require.NoError(t, l.Allow(ctx, "b@x.com", ""))
}

func TestAllow_OverBudgetByIP(t *testing.T) {
	l, _ := newLimiter(t, 2, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "a@x.com", "10.0.0.1"))
	require.NoError(t, l.Allow(ctx, "b@x.com", "10.0.0.1"))
	err := l.Allow(ctx, "c@x.com", "10.0.0.1")
	assert.ErrorIs(t, err, common.ErrRateLimited)
}

func TestAllow_WindowExpires(t *testing.T) {
	l, mr := newLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "a@x.com", ""))
	assert.ErrorIs(t, l.Allow(ctx, "a@x.com", ""), common.ErrRateLimited)

	mr.FastForward(2 * time.Minute)

	require.NoError(t, l.Allow(ctx, "a@x.com", ""))
}

func TestReset_ClearsCounter(t *testing.T) {
	l, _ := newLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "a@x.com", ""))
	l.Reset(ctx, "a@x.com")
	require.NoError(t, l.Allow(ctx, "a@x.com", ""))
}

func TestAllow_FailsOpenOnRedisOutage(t *testing.T) {
	l, mr := newLimiter(t, 1, time.Minute)
	ctx := context.Background()

	mr.Close()

	require.NoError(t, l.Allow(ctx, "a@x.com", "10.0.0.1"))
}

func TestAllow_NilLimiterAllows(t *testing.T) {
	var l *LoginLimiter
	require.NoError(t, l.Allow(context.Background(), "a@x.com", ""))
}
