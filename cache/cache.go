// Package cache contains the key-value stores backing stable query snapshots.
//
// Entries expire after the TTL the cache was created with. Touch restarts that
// TTL, so entries read regularly stay alive.
package cache

import "context"

type Cache interface {
	Set(ctx context.Context, key string, value []byte) error
	// Get returns found=false for unknown or expired keys
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Touch resets the TTL of key, unknown keys are ignored
	Touch(ctx context.Context, key string) error
}
