// Package cache is a TTL'd key/value layer in front of the notification
// lookups. A miss is not an error; callers fall back to the database and
// write the result back.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns the stored value and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
