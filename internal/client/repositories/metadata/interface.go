// Package metadata is the CLI's key/value store on top of the local SQLite
// database. It backs the persisted session record and the cookie jar.
package metadata

import "context"

type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
