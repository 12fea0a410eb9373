package cache

import "errors"

var (
	// ErrNotFound reports that a key is absent or its TTL has lapsed.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrClosed reports a write against a cache that was already closed.
	ErrClosed = errors.New("cache: closed")

	// ErrMarshal wraps a failure to serialize a value for a remote backend.
	ErrMarshal = errors.New("cache: marshal value")

	// ErrUnmarshal wraps a failure to decode a stored value.
	ErrUnmarshal = errors.New("cache: unmarshal value")
)
