package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing bucket", Config{AccessKey: "key", SecretKey: "secret"}},
		{"missing access key", Config{Bucket: "attachments", SecretKey: "secret"}},
		{"missing secret key", Config{Bucket: "attachments", AccessKey: "key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{Bucket: "attachments", AccessKey: "key", SecretKey: "secret"}
	cfg.applyDefaults()

	require.Equal(t, DefaultRegion, cfg.Region)
	require.Equal(t, ACLPrivate, cfg.DefaultACL)

	cfg = Config{Region: "eu-west-1", DefaultACL: ACLPublicRead}
	cfg.applyDefaults()

	require.Equal(t, "eu-west-1", cfg.Region)
	require.Equal(t, ACLPublicRead, cfg.DefaultACL)
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	s := &S3Storage{}

	t.Run("prefix and extension from content type", func(t *testing.T) {
		t.Parallel()

		key := s.generateKey("attachments", "application/pdf")
		require.True(t, strings.HasPrefix(key, "attachments/"))
		require.True(t, strings.HasSuffix(key, ".pdf"))
	})

	t.Run("unknown type falls back to .bin", func(t *testing.T) {
		t.Parallel()

		key := s.generateKey("attachments", "application/x-unknown")
		require.True(t, strings.HasSuffix(key, ".bin"))
	})

	t.Run("no prefix", func(t *testing.T) {
		t.Parallel()

		key := s.generateKey("", "image/png")
		require.NotContains(t, key, "/")
		require.True(t, strings.HasSuffix(key, ".png"))
	})

	t.Run("keys are unique", func(t *testing.T) {
		t.Parallel()

		require.NotEqual(t,
			s.generateKey("attachments", "text/plain"),
			s.generateKey("attachments", "text/plain"),
		)
	})
}

func TestPublicURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		key  string
		want string
	}{
		{
			name: "cdn prefix",
			cfg:  Config{PublicURL: "https://cdn.example.com/"},
			key:  "attachments/a.pdf",
			want: "https://cdn.example.com/attachments/a.pdf",
		},
		{
			name: "custom endpoint path style",
			cfg:  Config{Endpoint: "http://localhost:9000", Bucket: "attachments", PathStyle: true},
			key:  "a.pdf",
			want: "http://localhost:9000/attachments/a.pdf",
		},
		{
			name: "custom endpoint virtual host",
			cfg:  Config{Endpoint: "https://attachments.minio.example.com", Bucket: "attachments"},
			key:  "a.pdf",
			want: "https://attachments.minio.example.com/a.pdf",
		},
		{
			name: "aws default",
			cfg:  Config{Bucket: "attachments", Region: "us-east-1"},
			key:  "a.pdf",
			want: "https://attachments.s3.us-east-1.amazonaws.com/a.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &S3Storage{cfg: tt.cfg}
			require.Equal(t, tt.want, s.publicURL(tt.key))
		})
	}
}

func TestSanitizePathSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"attachments", "attachments"},
		{"../../etc", "__etc"},
		{"in bound", "in_bound"},
		{"/inbound/", "inbound"},
		{"a..b", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, sanitizePathSegment(tt.in))
		})
	}
}
