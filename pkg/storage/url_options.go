package storage

import "time"

// URLOption configures URL generation.
type URLOption func(*urlOptions)

type urlOptions struct {
	downloadName string
	expiry       time.Duration
	forceSigned  bool
	forcePublic  bool
}

// DefaultURLExpiry applies to signed URLs when no expiry is given.
const DefaultURLExpiry = 15 * time.Minute

// WithExpiry sets how long a signed URL stays valid.
func WithExpiry(d time.Duration) URLOption {
	return func(o *urlOptions) {
		o.expiry = d
	}
}

// WithDownload serves the blob as a download with the given filename
// via Content-Disposition. Implies a signed URL.
func WithDownload(filename string) URLOption {
	return func(o *urlOptions) {
		o.downloadName = filename
		o.forceSigned = true
	}
}

// WithSigned forces a signed URL regardless of the blob's ACL. A zero
// expiry keeps the default.
func WithSigned(expiry time.Duration) URLOption {
	return func(o *urlOptions) {
		o.forceSigned = true
		if expiry > 0 {
			o.expiry = expiry
		}
	}
}

// WithPublic forces a plain public URL. Only useful when the blob or
// bucket is actually world-readable.
func WithPublic() URLOption {
	return func(o *urlOptions) {
		o.forcePublic = true
	}
}
