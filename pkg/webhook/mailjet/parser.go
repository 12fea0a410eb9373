// Package mailjet parses Mailjet delivery and engagement tracking
// callbacks into normalized webhook events.
package mailjet

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/postwing/postwing/pkg/webhook"
)

// Config holds Mailjet webhook configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// BasicUser and BasicPass protect the webhook endpoint with HTTP
	// basic auth. Leave empty to accept unauthenticated callbacks.
	BasicUser string `env:"MAILJET_WEBHOOK_USER"`
	BasicPass string `env:"MAILJET_WEBHOOK_PASS"`
}

// Parser implements webhook.Parser for Mailjet.
type Parser struct {
	config Config
}

// New creates a Mailjet webhook parser.
func New(cfg Config) *Parser {
	return &Parser{config: cfg}
}

// Provider implements webhook.Parser.
func (p *Parser) Provider() string { return "mailjet" }

// eventTypes maps Mailjet event names to normalized types.
// "sent" means accepted by the receiving MTA.
var eventTypes = map[string]webhook.EventType{
	"sent":    webhook.EventDelivered,
	"open":    webhook.EventOpened,
	"click":   webhook.EventClicked,
	"bounce":  webhook.EventBounced,
	"blocked": webhook.EventRejected,
	"spam":    webhook.EventComplained,
	"unsub":   webhook.EventUnsubscribed,
}

// rejectReasons maps Mailjet error strings to normalized reject reasons.
var rejectReasons = map[string]webhook.RejectReason{
	// error related to recipient
	"user unknown":     webhook.ReasonBounced,
	"mailbox inactive": webhook.ReasonBounced,
	"quota exceeded":   webhook.ReasonBounced,
	"blacklisted":      webhook.ReasonBlocked, // might also be previous unsubscribe
	"spam reporter":    webhook.ReasonSpam,
	// error related to domain
	"invalid domain":      webhook.ReasonBounced,
	"no mail host":        webhook.ReasonBounced,
	"relay/access denied": webhook.ReasonBounced,
	"greylisted":          webhook.ReasonOther, // see deferred handling below
	"typofix":             webhook.ReasonInvalid,
	// provider policy and filtering
	"sender blocked":  webhook.ReasonBlocked,
	"content blocked": webhook.ReasonBlocked,
	"policy issue":    webhook.ReasonBlocked,
	// provider internal
	"preblocked":            webhook.ReasonBlocked,
	"duplicate in campaign": webhook.ReasonOther,
}

// espEvent is one entry of the posted JSON array.
type espEvent struct {
	Event      string      `json:"event"`
	Time       int64       `json:"time"`
	MessageID  json.Number `json:"MessageID"`
	Email      string      `json:"email"`
	Error      *string     `json:"error"`
	HardBounce bool        `json:"hard_bounce"`
	SMTPReply  string      `json:"smtp_reply"`
	Campaign   string      `json:"customcampaign"`
	Payload    string      `json:"Payload"`
	URL        string      `json:"url"`
	Agent      string      `json:"agent"`
}

// Parse implements webhook.Parser. The body is a JSON array of events
// (Mailjet's event grouping setting), or a single event object.
func (p *Parser) Parse(r *http.Request) ([]webhook.Event, error) {
	if err := p.authorize(r); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("mailjet: reading body: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		// Single event without grouping.
		raw = []json.RawMessage{body}
	}

	events := make([]webhook.Event, 0, len(raw))
	for _, item := range raw {
		event, err := parseEvent(item)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (p *Parser) authorize(r *http.Request) error {
	if p.config.BasicUser == "" && p.config.BasicPass == "" {
		return nil
	}
	user, pass, ok := r.BasicAuth()
	if !ok ||
		subtle.ConstantTimeCompare([]byte(user), []byte(p.config.BasicUser)) != 1 ||
		subtle.ConstantTimeCompare([]byte(pass), []byte(p.config.BasicPass)) != 1 {
		return fmt.Errorf("%w: mailjet: missing or wrong basic auth", webhook.ErrAuthFailed)
	}
	return nil
}

func parseEvent(data []byte) (webhook.Event, error) {
	var esp espEvent
	if err := json.Unmarshal(data, &esp); err != nil {
		return webhook.Event{}, fmt.Errorf("mailjet: invalid event payload: %w", err)
	}

	eventType, ok := eventTypes[esp.Event]
	if !ok {
		eventType = webhook.EventUnknown
	}
	// Greylisting is temporary; delivery will be re-attempted.
	if esp.Error != nil && *esp.Error == "greylisted" && !esp.HardBounce {
		eventType = webhook.EventDeferred
	}

	var timestamp time.Time
	if esp.Time > 0 {
		timestamp = time.Unix(esp.Time, 0).UTC()
	}

	var rejectReason webhook.RejectReason
	if esp.Error != nil {
		rejectReason, ok = rejectReasons[*esp.Error]
		if !ok {
			rejectReason = webhook.ReasonOther
		}
	}

	var tags []string
	if esp.Campaign != "" {
		tags = []string{esp.Campaign}
	}

	metadata := map[string]any{}
	if esp.Payload != "" {
		if err := json.Unmarshal([]byte(esp.Payload), &metadata); err != nil {
			metadata = map[string]any{}
		}
	}

	var rawEvent map[string]any
	_ = json.Unmarshal(data, &rawEvent)

	return webhook.Event{
		Type:         eventType,
		Timestamp:    timestamp,
		MessageID:    messageID(esp.MessageID),
		Recipient:    esp.Email,
		RejectReason: rejectReason,
		MTAResponse:  esp.SMTPReply,
		Tags:         tags,
		Metadata:     metadata,
		ClickURL:     esp.URL,
		UserAgent:    esp.Agent,
		Raw:          rawEvent,
	}, nil
}

// messageID normalizes Mailjet's bigint MessageID to the string form
// the sending backends report.
func messageID(n json.Number) string {
	if n == "" {
		return ""
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	return n.String()
}

var _ webhook.Parser = (*Parser)(nil)
