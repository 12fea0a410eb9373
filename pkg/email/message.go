package email

import "time"

// Message represents a provider-neutral transactional email.
//
// Address fields (From, To, CC, BCC, ReplyTo) accept either a bare
// addr-spec ("user@example.com") or RFC 5322 name-addr form
// ("Display Name <user@example.com>").
//
// Zero-valued optional fields are omitted from provider payloads
// entirely, so provider account defaults apply.
type Message struct {
	From    string
	ReplyTo string
	Subject string

	To  []string
	CC  []string
	BCC []string

	// Bodies. Providers require at least one of Text or HTML (or a
	// TemplateID). AMPHTML is the text/x-amp-html alternative supported
	// by some providers.
	Text    string
	HTML    string
	AMPHTML string

	// Headers carries extra message headers. Values may be strings or
	// numbers; providers serialize them as-is and reject anything that
	// does not fit their wire format.
	Headers map[string]any

	Attachments []Attachment
	Inline      []Attachment // inline attachments, referenced by ContentID

	// Tags categorize the message for provider-side reporting.
	Tags []string

	// Metadata is attached to the whole message and echoed back in
	// tracking events.
	Metadata map[string]any

	// MergeData holds per-recipient template substitutions keyed by
	// addr-spec. Setting it (even empty) marks the message as a batch
	// send: each recipient receives an individual message.
	MergeData map[string]map[string]any

	// GlobalMergeData holds substitutions shared by all recipients.
	GlobalMergeData map[string]any

	// MergeMetadata holds per-recipient metadata keyed by addr-spec.
	// Like MergeData, it marks the message as a batch send.
	MergeMetadata map[string]map[string]any

	// TemplateID selects a provider-stored template.
	TemplateID string

	// SendAt schedules delivery. Providers convert to their own format.
	SendAt time.Time

	// TrackOpens and TrackClicks override provider account defaults
	// when non-nil.
	TrackOpens  *bool
	TrackClicks *bool

	// EnvelopeSender overrides the bounce address on providers that
	// support it.
	EnvelopeSender string

	// Extra is merged into the provider payload as-is, after all other
	// fields. Nested maps are deep-merged. Use it for provider options
	// this model does not cover.
	Extra map[string]any
}

// Attachment is a file attached to a message. ContentID is set for
// inline attachments referenced from HTML as cid: URLs.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Content     []byte
}

// IsBatch reports whether the message uses per-recipient merge data or
// metadata. Batch sends deliver an individual message to each recipient,
// so recipients must not see a common To header.
func (m *Message) IsBatch() bool {
	return m.MergeData != nil || m.MergeMetadata != nil
}

// Track returns a pointer to b; convenience for the tracking overrides.
func Track(b bool) *bool {
	return &b
}
