package cache

import (
	"context"
	"testing"
	"time"

	"linkup/internal/config"
	"linkup/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_FailsOpenWithoutRedis(t *testing.T) {
	r := NewFromClient(nil, zerolog.Nop())
	l := NewRateLimiter(r, "profile:update:", 1, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(context.Background(), "u1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.ErrorIs(t, r.Ping(context.Background()), ErrUnavailable)
}

func TestRateLimiter_NilOrZeroLimitAllows(t *testing.T) {
	var l *RateLimiter
	ok, err := l.Allow(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	l = NewRateLimiter(NewFromClient(nil, zerolog.Nop()), "p:", 0, 0)
	ok, err = l.Allow(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	for _, image := range []string{"redis:6-alpine", "redis:7-alpine"} {
		t.Run(image, func(t *testing.T) {
			testFixedWindow(t, testutil.RedisImage(t, image))
		})
	}
}

func testFixedWindow(t *testing.T, ep testutil.Endpoint) {
	r := NewRedis(config.RedisConfig{Host: ep.Host, Port: ep.Port}, zerolog.Nop())
	require.True(t, r.Available())
	defer func() { _ = r.Close() }()

	l := NewRateLimiter(r, "test:limit:", 2, time.Second)
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "call %d", i+1)
	}

	ok, err := l.Allow(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")

	time.Sleep(1100 * time.Millisecond)
	ok, err = l.Allow(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok, "window resets")
}

func TestNewRedis_Unreachable(t *testing.T) {
	r := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: "1"}, zerolog.Nop())
	assert.False(t, r.Available())
	assert.NoError(t, r.Close())
}

func TestRedis_IncrRepairsMissingTTL(t *testing.T) {
	ep := testutil.RedisImage(t, "redis:6-alpine")
	r := NewRedis(config.RedisConfig{Host: ep.Host, Port: ep.Port}, zerolog.Nop())
	require.True(t, r.Available())
	defer func() { _ = r.Close() }()

	ctx := context.Background()
	require.NoError(t, r.client.Set(ctx, "test:stuck", 5, 0).Err())

	n, err := r.Incr(ctx, "test:stuck", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	ttl, err := r.client.TTL(ctx, "test:stuck").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
