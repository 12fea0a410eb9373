package inbound

import (
	"path"
	"strings"
	"time"

	"github.com/postwing/postwing/pkg/email"
	"github.com/postwing/postwing/pkg/sanitizer"
)

// Message is a parsed inbound email. Bodies are the first text/plain
// and text/html parts that are not attachments; everything else ends up
// in Attachments or Inline.
type Message struct {
	// Header holds all top-level headers, unfolded, keyed in canonical
	// MIME form.
	Header map[string][]string

	Subject string
	Date    time.Time

	From []email.Addr
	To   []email.Addr
	CC   []email.Addr

	Text string
	HTML string

	Attachments []Attachment

	// Inline maps Content-ID (without angle brackets) to inline parts,
	// for resolving cid: references in the HTML body.
	Inline map[string]Attachment

	// Envelope addresses come from the receiving webhook, not from the
	// message headers.
	EnvelopeSender    string
	EnvelopeRecipient string
}

// Attachment is one non-body MIME part.
type Attachment struct {
	// Filename is the declared filename, unmodified. It can contain
	// path segments or anything else a sender chose to put there; use
	// SafeFilename before writing to storage.
	Filename    string
	ContentType string
	ContentID   string
	Content     []byte

	// Message is set for message/rfc822 attachments, parsed
	// recursively. Content still holds the raw attached message.
	Message *Message
}

// SafeFilename strips directory components from the declared filename.
// Senders control that value entirely, so it must never be trusted as a
// storage path.
func (a Attachment) SafeFilename() string {
	name := strings.ReplaceAll(a.Filename, `\`, "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// Get returns the first value of a top-level header, matching
// case-insensitively like net/textproto.
func (m *Message) Get(key string) string {
	values := m.Header[canonicalKey(key)]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Values returns all values of a top-level header.
func (m *Message) Values(key string) []string {
	return m.Header[canonicalKey(key)]
}

// SanitizedHTML returns the HTML body cleaned for display: scripts,
// event handlers, and styles stripped, tables and cid: images kept.
func (m *Message) SanitizedHTML() string {
	if m.HTML == "" {
		return ""
	}
	return sanitizer.SanitizeEmailHTML(m.HTML)
}
