package storage

import (
	"context"
	"io"
)

// Storage stores and serves message attachment blobs.
type Storage interface {
	// Put writes size bytes from r under a key derived from the options.
	// Pass WithKey for an exact key, or WithPrefix to get a generated
	// ULID-based key under that prefix.
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error)

	// Get opens the blob at key. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob at key.
	Delete(ctx context.Context, key string) error

	// URL returns an access URL for key: signed for private blobs,
	// plain for public ones. URLOptions adjust expiry and disposition.
	URL(ctx context.Context, key string, opts ...URLOption) (string, error)
}

// Config holds the S3-compatible bucket settings, populated from
// environment variables.
type Config struct {
	// Bucket is the bucket name.
	Bucket string `env:"S3_BUCKET,required"`

	// AccessKey and SecretKey are static credentials.
	AccessKey string `env:"S3_ACCESS_KEY,required"`
	SecretKey string `env:"S3_SECRET_KEY,required"`

	// Endpoint points at a custom S3-compatible service such as MinIO.
	// Empty means AWS.
	Endpoint string `env:"S3_ENDPOINT"`

	// Region of the bucket.
	Region string `env:"S3_REGION" envDefault:"us-east-1"`

	// PublicURL, when set, prefixes public blob URLs (CDN in front of
	// the bucket).
	PublicURL string `env:"S3_PUBLIC_URL"`

	// DefaultACL applies to blobs stored without WithACL.
	DefaultACL ACL `env:"S3_DEFAULT_ACL"`

	// PathStyle switches to path-style addressing, required by MinIO.
	PathStyle bool `env:"S3_PATH_STYLE"`
}

// FileInfo describes a stored blob.
type FileInfo struct {
	Key         string
	ContentType string
	ACL         ACL
	Size        int64
}

// ACL is the access level of a stored blob.
type ACL string

const (
	// ACLPrivate blobs are reachable only through signed URLs.
	ACLPrivate ACL = "private"

	// ACLPublicRead blobs are world-readable.
	ACLPublicRead ACL = "public-read"
)

// DefaultRegion is used when S3_REGION is unset.
const DefaultRegion = "us-east-1"

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPrivate
	}
}

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
