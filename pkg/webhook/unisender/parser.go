// Package unisender parses Unisender Go tracking callbacks into
// normalized webhook events.
//
// Authentication is Unisender's body-hash scheme: the posted JSON
// carries an "auth" value that must equal the MD5 hex digest of the raw
// body with that same auth value substituted by the account API key.
// The check is byte-exact, so the raw body must be hashed as received.
package unisender

import (
	"bytes"
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/postwing/postwing/pkg/mailer/unisender"
	"github.com/postwing/postwing/pkg/webhook"
)

// statusEventName is the only event kind that carries per-message
// delivery tracking. Other kinds (spam block reports and alike) are
// ignored.
const statusEventName = "transactional_email_status"

// eventTimeLayout is the UTC timestamp format of event_time.
const eventTimeLayout = "2006-01-02 15:04:05"

// Config holds Unisender Go webhook configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// APIKey verifies the body-hash auth value. Required: callbacks
	// with a wrong or missing hash are rejected.
	APIKey string `env:"UNISENDER_GO_API_KEY,required"`
}

// Parser implements webhook.Parser for Unisender Go.
type Parser struct {
	config Config
}

// New creates a Unisender Go webhook parser.
func New(cfg Config) *Parser {
	return &Parser{config: cfg}
}

// Provider implements webhook.Parser.
func (p *Parser) Provider() string { return "unisender" }

// statusTypes maps transactional_email_status statuses to normalized
// event types.
var statusTypes = map[string]webhook.EventType{
	"sent":         webhook.EventSent,
	"delivered":    webhook.EventDelivered,
	"opened":       webhook.EventOpened,
	"clicked":      webhook.EventClicked,
	"unsubscribed": webhook.EventUnsubscribed,
	"spam":         webhook.EventComplained,
	"soft_bounced": webhook.EventDeferred,
	"hard_bounced": webhook.EventBounced,
}

// rejectReasons maps delivery_status err_* codes to normalized reject
// reasons. Codes not listed map to "other".
var rejectReasons = map[string]webhook.RejectReason{
	"err_user_unknown":      webhook.ReasonBounced,
	"err_user_inactive":     webhook.ReasonBounced,
	"err_mailbox_full":      webhook.ReasonBounced,
	"err_mailbox_discarded": webhook.ReasonBounced,
	"err_too_large":         webhook.ReasonBounced,
	"err_unreachable":       webhook.ReasonBounced,
	"err_spam_rejected":     webhook.ReasonSpam,
	"err_spam_skipped":      webhook.ReasonSpam,
	"err_blocked":           webhook.ReasonBlocked,
	"err_unsubscribed":      webhook.ReasonUnsubscribed,
	"err_invalid":           webhook.ReasonInvalid,
}

type callbackBody struct {
	Auth         string `json:"auth"`
	EventsByUser []struct {
		Events []struct {
			EventName string          `json:"event_name"`
			EventData json.RawMessage `json:"event_data"`
		} `json:"events"`
	} `json:"events_by_user"`
}

type statusEvent struct {
	JobID        string         `json:"job_id"`
	Metadata     map[string]any `json:"metadata"`
	Email        string         `json:"email"`
	Status       string         `json:"status"`
	EventTime    string         `json:"event_time"`
	URL          string         `json:"url"`
	DeliveryInfo struct {
		DeliveryStatus      string `json:"delivery_status"`
		DestinationResponse string `json:"destination_response"`
		UserAgent           string `json:"user_agent"`
		IP                  string `json:"ip"`
	} `json:"delivery_info"`
}

// Parse implements webhook.Parser.
func (p *Parser) Parse(r *http.Request) ([]webhook.Event, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("unisender: reading body: %w", err)
	}

	var parsed callbackBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unisender: invalid callback payload: %w", err)
	}

	if err := p.authorize(body, parsed.Auth); err != nil {
		return nil, err
	}

	var events []webhook.Event
	for _, user := range parsed.EventsByUser {
		for _, raw := range user.Events {
			if raw.EventName != statusEventName {
				continue
			}
			event, err := parseStatusEvent(raw.EventData)
			if err != nil {
				return nil, err
			}
			events = append(events, event)
		}
	}
	return events, nil
}

// authorize recomputes the body hash with the auth value swapped for
// the API key. Any reformatting of the body breaks the digest, which is
// the point: the hash covers the exact bytes Unisender signed.
func (p *Parser) authorize(body []byte, auth string) error {
	if auth == "" {
		return fmt.Errorf("%w: unisender: missing auth value", webhook.ErrAuthFailed)
	}
	signed := md5.Sum(bytes.ReplaceAll(body, []byte(auth), []byte(p.config.APIKey)))
	expected := hex.EncodeToString(signed[:])
	if subtle.ConstantTimeCompare([]byte(auth), []byte(expected)) != 1 {
		return fmt.Errorf("%w: unisender: body hash mismatch", webhook.ErrAuthFailed)
	}
	return nil
}

func parseStatusEvent(data []byte) (webhook.Event, error) {
	var esp statusEvent
	if err := json.Unmarshal(data, &esp); err != nil {
		return webhook.Event{}, fmt.Errorf("unisender: invalid event data: %w", err)
	}

	eventType, ok := statusTypes[esp.Status]
	if !ok {
		eventType = webhook.EventUnknown
	}

	var timestamp time.Time
	if esp.EventTime != "" {
		t, err := time.Parse(eventTimeLayout, esp.EventTime)
		if err != nil {
			return webhook.Event{}, fmt.Errorf("unisender: invalid event_time %q: %w", esp.EventTime, err)
		}
		timestamp = t.UTC()
	}

	// The sending backend stashes its generated per-recipient ID in
	// recipient metadata; messages sent without generated IDs fall back
	// to the shared job ID.
	messageID := esp.JobID
	metadata := make(map[string]any, len(esp.Metadata))
	for k, v := range esp.Metadata {
		if k == unisender.MessageIDKey {
			if id, ok := v.(string); ok && id != "" {
				messageID = id
			}
			continue
		}
		metadata[k] = v
	}

	var rejectReason webhook.RejectReason
	if status := esp.DeliveryInfo.DeliveryStatus; strings.HasPrefix(status, "err_") {
		rejectReason, ok = rejectReasons[status]
		if !ok {
			rejectReason = webhook.ReasonOther
		}
	}

	var rawEvent map[string]any
	_ = json.Unmarshal(data, &rawEvent)

	return webhook.Event{
		Type:         eventType,
		Timestamp:    timestamp,
		MessageID:    messageID,
		Recipient:    esp.Email,
		RejectReason: rejectReason,
		MTAResponse:  esp.DeliveryInfo.DestinationResponse,
		Metadata:     metadata,
		ClickURL:     esp.URL,
		UserAgent:    esp.DeliveryInfo.UserAgent,
		Raw:          rawEvent,
	}, nil
}

var _ webhook.Parser = (*Parser)(nil)
