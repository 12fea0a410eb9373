package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Cache is a key-value store with per-entry TTLs. The daemon uses it as
// the seen-set for webhook replay suppression, keyed by provider event ID,
// but the interface stays generic.
//
// TTL passed to Set:
//   - positive: entry expires after the duration
//   - zero: the backend's configured default TTL applies
//   - negative: entry never expires
type Cache[V any] interface {
	// Get returns the value stored under key, or ErrNotFound when the
	// key is absent or already expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Has reports whether key exists and has not expired.
	Has(ctx context.Context, key string) (bool, error)

	// Clear drops every entry the cache owns.
	Clear(ctx context.Context) error

	// Close releases backend resources. Safe to call more than once.
	Close() error
}

// Marshaler converts values to and from the byte form a remote backend
// stores. The Redis cache needs one; the in-memory cache does not.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}
