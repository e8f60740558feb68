// Package settings persists small key/value pairs, most importantly the
// master credential and the encryption-key salt.
package settings

import "context"

type Repository interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
