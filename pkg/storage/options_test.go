package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutOptions(t *testing.T) {
	t.Parallel()

	o := &putOptions{acl: ACLPrivate}
	for _, opt := range []Option{
		WithKey("attachments/msg-1/report.pdf"),
		WithPrefix("attachments"),
		WithContentType("application/pdf"),
		WithACL(ACLPublicRead),
		WithValidation(MaxSize(1 << 20)),
		WithValidation(NotEmpty()),
	} {
		opt(o)
	}

	require.Equal(t, "attachments/msg-1/report.pdf", o.key)
	require.Equal(t, "attachments", o.prefix)
	require.Equal(t, "application/pdf", o.contentType)
	require.Equal(t, ACLPublicRead, o.acl)
	require.Len(t, o.rules, 2)
}

func TestURLOptions(t *testing.T) {
	t.Parallel()

	t.Run("download implies signed", func(t *testing.T) {
		t.Parallel()

		o := &urlOptions{expiry: DefaultURLExpiry}
		WithDownload("invoice.pdf")(o)

		require.Equal(t, "invoice.pdf", o.downloadName)
		require.True(t, o.forceSigned)
	})

	t.Run("signed with zero expiry keeps default", func(t *testing.T) {
		t.Parallel()

		o := &urlOptions{expiry: DefaultURLExpiry}
		WithSigned(0)(o)

		require.True(t, o.forceSigned)
		require.Equal(t, DefaultURLExpiry, o.expiry)
	})
}
