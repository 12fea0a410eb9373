package inbound

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/postwing/postwing/pkg/id"
	"github.com/postwing/postwing/pkg/storage"
)

// ErrArchiveFailed indicates at least one attachment could not be
// written to storage.
var ErrArchiveFailed = errors.New("inbound: archive failed")

const defaultArchivePrefix = "attachments"

// ArchivedAttachment records where one attachment was stored.
type ArchivedAttachment struct {
	Filename    string
	ContentType string
	Key         string
	Size        int64
}

// Archiver writes inbound message attachments to object storage. Keys
// follow {prefix}/{message-id}/{filename}, with a generated ULID
// standing in for either segment when the message does not provide a
// usable value.
type Archiver struct {
	store  storage.Storage
	prefix string
}

// ArchiverOption configures an Archiver.
type ArchiverOption func(*Archiver)

// WithArchivePrefix overrides the default "attachments" key prefix.
func WithArchivePrefix(prefix string) ArchiverOption {
	return func(a *Archiver) {
		a.prefix = strings.Trim(prefix, "/")
	}
}

// NewArchiver returns an Archiver backed by store.
func NewArchiver(store storage.Storage, opts ...ArchiverOption) *Archiver {
	a := &Archiver{
		store:  store,
		prefix: defaultArchivePrefix,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Archive stores every regular attachment of msg and returns their
// storage locations. Inline parts referenced from the HTML body are
// skipped. A storage failure stops the run; attachments already
// written stay in place and are reported alongside the error.
func (a *Archiver) Archive(ctx context.Context, msg *Message) ([]ArchivedAttachment, error) {
	if len(msg.Attachments) == 0 {
		return nil, nil
	}

	folder := archiveFolder(msg)
	archived := make([]ArchivedAttachment, 0, len(msg.Attachments))
	for _, att := range msg.Attachments {
		name := att.SafeFilename()
		if name == "" {
			name = id.NewULID()
		}
		key := a.prefix + "/" + folder + "/" + name

		opts := []storage.Option{storage.WithKey(key)}
		if att.ContentType != "" {
			opts = append(opts, storage.WithContentType(att.ContentType))
		}

		if _, err := a.store.Put(ctx, bytes.NewReader(att.Content), int64(len(att.Content)), opts...); err != nil {
			return archived, fmt.Errorf("%w: %s: %v", ErrArchiveFailed, name, err)
		}
		archived = append(archived, ArchivedAttachment{
			Filename:    name,
			ContentType: att.ContentType,
			Key:         key,
			Size:        int64(len(att.Content)),
		})
	}
	return archived, nil
}

// archiveFolder derives a per-message key segment from the Message-ID
// header. The header value is sender-controlled, so everything outside
// a safe character set is squashed.
func archiveFolder(msg *Message) string {
	raw := strings.Trim(msg.Get("Message-ID"), "<> \t")
	if raw == "" {
		return id.NewULID()
	}
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_' || r == '@':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
