//go:build integration

package storage_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/postwing/postwing/pkg/storage"
)

// Runs against a local S3-compatible service.
// Start the test infrastructure with: docker-compose up -d
const (
	testEndpoint  = "http://localhost:9000"
	testAccessKey = "admin"
	testSecretKey = "admin123"
	testBucket    = "attachments"
	testRegion    = "us-east-1"
)

func newTestStorage(t *testing.T) *storage.S3Storage {
	t.Helper()

	s, err := storage.New(storage.Config{
		Endpoint:  testEndpoint,
		AccessKey: testAccessKey,
		SecretKey: testSecretKey,
		Bucket:    testBucket,
		Region:    testRegion,
		PathStyle: true,
	})
	require.NoError(t, err)
	return s
}

func TestS3Integration_PutGetDelete(t *testing.T) {
	t.Parallel()

	s := newTestStorage(t)
	ctx := context.Background()

	content := []byte("%PDF-1.4 integration test attachment")
	info, err := s.Put(ctx, bytes.NewReader(content), int64(len(content)),
		storage.WithKey("attachments/msg-1/invoice.pdf"),
		storage.WithContentType("application/pdf"),
	)
	require.NoError(t, err)
	require.Equal(t, "attachments/msg-1/invoice.pdf", info.Key)
	require.Equal(t, "application/pdf", info.ContentType)
	t.Cleanup(func() {
		_ = s.Delete(ctx, info.Key)
	})

	rc, err := s.Get(ctx, info.Key)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, content, got)

	require.NoError(t, s.Delete(ctx, info.Key))
	_, err = s.Get(ctx, info.Key)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestS3Integration_GeneratedKey(t *testing.T) {
	t.Parallel()

	s := newTestStorage(t)
	ctx := context.Background()

	// PNG magic bytes drive both the sniffed type and the extension.
	content := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
	info, err := s.Put(ctx, bytes.NewReader(content), int64(len(content)),
		storage.WithPrefix("attachments"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Delete(ctx, info.Key)
	})

	require.Equal(t, "image/png", info.ContentType)
	require.True(t, strings.HasPrefix(info.Key, "attachments/"))
	require.True(t, strings.HasSuffix(info.Key, ".png"))
}

func TestS3Integration_SignedURL(t *testing.T) {
	t.Parallel()

	s := newTestStorage(t)
	ctx := context.Background()

	content := []byte("signed url attachment")
	info, err := s.Put(ctx, bytes.NewReader(content), int64(len(content)),
		storage.WithKey("attachments/msg-2/note.txt"),
		storage.WithContentType("text/plain"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Delete(ctx, info.Key)
	})

	u, err := s.URL(ctx, info.Key, storage.WithSigned(time.Minute))
	require.NoError(t, err)
	require.Contains(t, u, "X-Amz-Signature")
}
