package webhook

import "time"

// EventType is a normalized tracking event category. Provider-specific
// event names are mapped to these in the provider handler packages.
type EventType string

const (
	EventQueued       EventType = "queued"
	EventSent         EventType = "sent"
	EventDelivered    EventType = "delivered"
	EventOpened       EventType = "opened"
	EventClicked      EventType = "clicked"
	EventBounced      EventType = "bounced"
	EventRejected     EventType = "rejected"
	EventDeferred     EventType = "deferred"
	EventComplained   EventType = "complained"
	EventUnsubscribed EventType = "unsubscribed"
	EventInbound      EventType = "inbound"
	EventUnknown      EventType = "unknown"
)

// RejectReason is a normalized explanation for bounced and rejected
// events. Empty when the provider reported no failure.
type RejectReason string

const (
	ReasonBounced      RejectReason = "bounced"
	ReasonBlocked      RejectReason = "blocked"
	ReasonSpam         RejectReason = "spam"
	ReasonUnsubscribed RejectReason = "unsubscribed"
	ReasonInvalid      RejectReason = "invalid"
	ReasonOther        RejectReason = "other"
)

// Event is a normalized tracking event delivered by a provider webhook.
type Event struct {
	Type      EventType
	Timestamp time.Time

	// MessageID matches the ID the sending backend reported for this
	// recipient, so events can be correlated with sends.
	MessageID string
	EventID   string
	Recipient string

	RejectReason RejectReason
	MTAResponse  string

	Tags     []string
	Metadata map[string]any

	ClickURL  string
	UserAgent string

	// Raw is the provider's own event object, for anything the
	// normalized fields do not cover.
	Raw map[string]any
}
