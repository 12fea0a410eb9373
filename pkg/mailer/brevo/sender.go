// Package brevo implements the Brevo (ex Sendinblue) transactional
// email backend on the v3 smtp/email endpoint.
//
// Brevo returns a single message ID per API call, so every recipient in
// the result shares it. Per-recipient merge data and inline attachments
// addressed by content ID have no equivalent in the API and are
// reported as unsupported features.
package brevo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/postwing/postwing/pkg/email"
	"github.com/postwing/postwing/pkg/mailer"
)

const providerName = "brevo"

// scheduledAtLayout is ISO-8601 with milliseconds, as the API requires.
const scheduledAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Sender implements mailer.Sender using the Brevo v3 API.
type Sender struct {
	config Config
	client *http.Client
}

// Option configures the sender.
type Option func(*Sender)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		if c != nil {
			s.client = c
		}
	}
}

// New creates a new Brevo sender.
func New(cfg Config, opts ...Option) *Sender {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	s := &Sender{config: cfg, client: http.DefaultClient}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, msg *email.Message) (*email.Result, error) {
	payload, err := s.buildPayload(msg)
	if err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot serialize message data: %w", providerName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.config.APIURL+"/smtp/email", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", providerName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: calling API: %w", providerName, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", providerName, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &apiErr)
		return nil, &mailer.APIError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    apiErr.Message,
			Body:       respBody,
		}
	}

	var parsed struct {
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%s: invalid API response: %w", providerName, err)
	}

	result := &email.Result{
		Recipients: make(map[string]email.RecipientStatus),
		Response:   respBody,
	}
	for _, list := range [][]string{msg.To, msg.CC, msg.BCC} {
		for _, raw := range list {
			addr, err := email.ParseAddr(raw)
			if err != nil {
				return nil, err
			}
			result.Recipients[addr.Address] = email.RecipientStatus{
				Status:    email.StatusQueued,
				MessageID: parsed.MessageID,
			}
		}
	}
	return result, nil
}

func (s *Sender) buildPayload(msg *email.Message) (map[string]any, error) {
	if msg.EnvelopeSender != "" && !s.config.IgnoreUnsupported {
		return nil, mailer.UnsupportedFeatureError("envelope_sender")
	}
	if msg.IsBatch() && !s.config.IgnoreUnsupported {
		return nil, mailer.UnsupportedFeatureError("per-recipient merge data")
	}

	payload := map[string]any{}
	if msg.Subject != "" {
		payload["subject"] = msg.Subject
	}
	if msg.Text != "" {
		payload["textContent"] = msg.Text
	}
	if msg.HTML != "" {
		payload["htmlContent"] = msg.HTML
	}

	if msg.From != "" {
		from, err := email.ParseAddr(msg.From)
		if err != nil {
			return nil, err
		}
		payload["sender"] = addrObject(from)
	}

	for key, list := range map[string][]string{"to": msg.To, "cc": msg.CC, "bcc": msg.BCC} {
		if len(list) == 0 {
			continue
		}
		addrs, err := email.ParseAddrList(list)
		if err != nil {
			return nil, err
		}
		objs := make([]map[string]any, len(addrs))
		for i, addr := range addrs {
			objs[i] = addrObject(addr)
		}
		payload[key] = objs
	}

	if msg.ReplyTo != "" {
		addr, err := email.ParseAddr(msg.ReplyTo)
		if err != nil {
			return nil, err
		}
		payload["replyTo"] = addrObject(addr)
	}

	if len(msg.Headers) > 0 {
		payload["headers"] = msg.Headers
	}
	if len(msg.Tags) > 0 {
		payload["tags"] = msg.Tags
	}

	if msg.TemplateID != "" {
		// Brevo template IDs are numeric.
		id, err := strconv.Atoi(msg.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric template id %q", mailer.ErrUnsupportedFeature, msg.TemplateID)
		}
		payload["templateId"] = id
	}
	if len(msg.GlobalMergeData) > 0 {
		payload["params"] = msg.GlobalMergeData
	}
	if !msg.SendAt.IsZero() {
		payload["scheduledAt"] = msg.SendAt.UTC().Format(scheduledAtLayout)
	}

	attachments, err := s.buildAttachments(msg)
	if err != nil {
		return nil, err
	}
	if len(attachments) > 0 {
		payload["attachment"] = attachments
	}

	for k, v := range msg.Extra {
		payload[k] = v
	}

	return payload, nil
}

func addrObject(addr email.Addr) map[string]any {
	obj := map[string]any{"email": addr.Address}
	if addr.Name != "" {
		obj["name"] = addr.Name
	}
	return obj
}

func (s *Sender) buildAttachments(msg *email.Message) ([]map[string]any, error) {
	if len(msg.Inline) > 0 && !s.config.IgnoreUnsupported {
		return nil, mailer.UnsupportedFeatureError("inline attachments with content id")
	}
	if len(msg.Attachments) == 0 {
		return nil, nil
	}
	result := make([]map[string]any, len(msg.Attachments))
	for i, a := range msg.Attachments {
		result[i] = map[string]any{
			"name":    a.Filename,
			"content": base64.StdEncoding.EncodeToString(a.Content),
		}
	}
	return result, nil
}

var _ mailer.Sender = (*Sender)(nil)
