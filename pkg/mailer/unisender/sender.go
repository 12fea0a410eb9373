// Package unisender implements the Unisender Go transactional email
// backend.
//
// Every send is a batch send from the API's point of view: each
// recipient receives an individual message, and the sender assigns each
// one a generated message ID (recipient metadata, MessageIDKey) so
// tracking webhooks can be correlated per recipient. The API reports
// accepted and failed recipients separately; failures are normalized
// into email.RecipientStatus values.
package unisender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/postwing/postwing/pkg/email"
	"github.com/postwing/postwing/pkg/mailer"
)

// providerName tags errors and logs.
const providerName = "unisender"

// Sender implements mailer.Sender using the Unisender Go API.
type Sender struct {
	config Config
	client *http.Client
	newID  func() string
}

// Option configures the sender.
type Option func(*Sender)

// WithHTTPClient overrides the HTTP client (timeouts, transport reuse).
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		if c != nil {
			s.client = c
		}
	}
}

// WithIDGenerator overrides how provider-side message IDs are
// generated. The default is a random UUID.
func WithIDGenerator(fn func() string) Option {
	return func(s *Sender) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New creates a new Unisender Go sender.
func New(cfg Config, opts ...Option) *Sender {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	s := &Sender{
		config: cfg,
		client: http.DefaultClient,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// apiResponse is the email/send.json response shape.
type apiResponse struct {
	Status       string            `json:"status"`
	JobID        string            `json:"job_id"`
	Emails       []string          `json:"emails"`
	FailedEmails map[string]string `json:"failed_emails"`
}

// failureStatus maps the API's failed_emails reasons to normalized
// recipient statuses. "duplicate" stays queued: the provider delivers
// the first instance and fails the rest.
var failureStatus = map[string]email.Status{
	"duplicate":             email.StatusQueued,
	"permanent_unavailable": email.StatusRejected,
	"unsubscribed":          email.StatusRejected,
	"temporary_unavailable": email.StatusFailed,
	"invalid":               email.StatusInvalid,
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, msg *email.Message) (*email.Result, error) {
	payload, recipientIDs, err := s.buildPayload(msg)
	if err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(map[string]any{"message": payload})
	if err != nil {
		return nil, fmt.Errorf("%s: cannot serialize message data: %w", providerName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.config.APIURL+"/email/send.json", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", providerName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-KEY", s.config.APIKey)

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
		return nil, &mailer.APIError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(respBody),
			Body:       respBody,
		}
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%s: invalid API response: %w", providerName, err)
	}

	return s.buildResult(parsed, recipientIDs, respBody), nil
}

// buildResult folds accepted and failed recipients into a normalized
// result. Without generated IDs every accepted recipient shares the
// job ID.
func (s *Sender) buildResult(parsed apiResponse, recipientIDs map[string]string, raw []byte) *email.Result {
	result := &email.Result{
		Recipients: make(map[string]email.RecipientStatus),
		Response:   raw,
	}

	for _, addr := range parsed.Emails {
		result.Recipients[addr] = email.RecipientStatus{
			Status:    email.StatusQueued,
			MessageID: s.messageIDFor(addr, recipientIDs, parsed.JobID),
		}
	}

	for addr, reason := range parsed.FailedEmails {
		status, ok := failureStatus[reason]
		if !ok {
			status = email.StatusFailed
		}
		if status == email.StatusQueued {
			// Duplicate of an accepted recipient; keep the queued entry
			// (addresses differ only by case here).
			if _, accepted := result.Recipients[strings.ToLower(addr)]; accepted {
				continue
			}
			result.Recipients[strings.ToLower(addr)] = email.RecipientStatus{
				Status:    email.StatusQueued,
				MessageID: s.messageIDFor(addr, recipientIDs, parsed.JobID),
			}
			continue
		}
		result.Recipients[addr] = email.RecipientStatus{Status: status}
	}

	return result
}

func (s *Sender) messageIDFor(addr string, recipientIDs map[string]string, jobID string) string {
	if s.config.DisableGeneratedIDs {
		return jobID
	}
	return recipientIDs[strings.ToLower(addr)]
}

// extractErrorMessage pulls the provider's explanation out of an error
// response, which may be an object or an array of objects.
func extractErrorMessage(body []byte) string {
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	var list []struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &list); err == nil {
		for _, item := range list {
			if item.Message != "" {
				return item.Message
			}
		}
	}
	return ""
}

var _ mailer.Sender = (*Sender)(nil)
