package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginKeyPrefix = "accountmanager:login:failed:"

// counterStore is the subset of redis.Cmdable the limiter needs.
type counterStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LoginLimiter counts failed logins per email in a fixed window that
// starts with the first failure.
type LoginLimiter struct {
	rdb         counterStore
	maxAttempts int64
	window      time.Duration
}

func NewLoginLimiter(rdb counterStore, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		rdb:         rdb,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func (l *LoginLimiter) Blocked(ctx context.Context, key string) (bool, error) {
	if l.maxAttempts <= 0 {
		return false, nil
	}
	n, err := l.rdb.Get(ctx, loginKeyPrefix+key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return n >= l.maxAttempts, nil
}

// RegisterFailure bumps the counter and arms its TTL in one MULTI/EXEC.
// EXPIRE NX only sets a missing TTL, so the window is not extended by later
// failures. It needs redis 7.
func (l *LoginLimiter) RegisterFailure(ctx context.Context, key string) error {
	k := loginKeyPrefix + key
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	return err
}

func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, loginKeyPrefix+key).Err()
}

// NopLimiter never blocks; used when redis is not configured.
type NopLimiter struct{}

func (NopLimiter) Blocked(context.Context, string) (bool, error) { return false, nil }
func (NopLimiter) RegisterFailure(context.Context, string) error { return nil }
func (NopLimiter) Reset(context.Context, string) error { return nil }
