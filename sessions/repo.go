package sessions

import "context"

// Repo is the durable key-value store behind a Store. Values are opaque bytes (JSON in
// practice). Get returns errors.ErrNotFound for a missing key; Delete ignores missing keys.
type Repo interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
