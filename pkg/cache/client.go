package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = errors.New("cache: key not found")

type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	// Take reads and deletes key in one step.
	Take(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	Close() error
}
