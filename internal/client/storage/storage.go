// Package storage provides the durable key/value store backing the entry
// cache. Values are opaque byte payloads (JSON in practice); keys are
// namespaced by the cache layer ("entries_<userID>" and friends).
package storage

import "context"

// DurableStorage is the device-local persistence boundary.
type DurableStorage interface {
	// GetItem returns the stored value for key, or (nil, nil) when the key
	// is absent.
	GetItem(ctx context.Context, key string) ([]byte, error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key string, value []byte) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}
