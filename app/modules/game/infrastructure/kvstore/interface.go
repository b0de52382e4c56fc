package kvstore

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("kv store is closed")

// Store is the host key-value collaborator: one string value per key.
type Store interface {
	// ReadRaw returns the value stored at key. found is false when the key
	// was never written.
	ReadRaw(ctx context.Context, key string) (value string, found bool, err error)

	// WriteRaw replaces the value stored at key.
	WriteRaw(ctx context.Context, key, value string) error

	// Close releases the underlying resources.
	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*BoltStore)(nil)
	_ Store = (*BunStore)(nil)
	_ Store = (*RedisStore)(nil)
)
