package ports

import "context"

// LoginLimiter counts failed logins per key inside a fixed window.
type LoginLimiter interface {
	Blocked(ctx context.Context, key string) (bool, error)
	RegisterFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
