package cache

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"linkup/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var ErrUnavailable = errors.New("redis unavailable")

// Redis is a thin client that degrades to a no-op when the server cannot be
// reached at startup.
type Redis struct {
	client *redis.Client
	logger zerolog.Logger

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger zerolog.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, bypassing cache")
		_ = client.Close()
		return &Redis{logger: logger}
	}

	return &Redis{client: client, logger: logger}
}

// NewFromClient wraps an existing client without pinging it.
func NewFromClient(client *redis.Client, logger zerolog.Logger) *Redis {
	return &Redis{client: client, logger: logger}
}

func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn().Err(err).Msg("redis unavailable, bypassing cache")
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.Available() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}

// Incr increments key and starts its expiry window on the first hit. It
// returns the count within the current window. A key left without a TTL,
// for example after a failed EXPIRE, gets one on its next hit.
func (r *Redis) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if !r.Available() {
		return 0, ErrUnavailable
	}

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		r.warnUnavailableOnce(err)
		return 0, err
	}

	n := incr.Val()
	if n == 1 || ttl.Val() < 0 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			r.warnUnavailableOnce(err)
			return n, err
		}
	}
	return n, nil
}
