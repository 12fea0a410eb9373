// Package resend implements the Resend transactional email backend on
// top of the official resend-go client.
package resend

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/resend/resend-go/v3"

	"github.com/postwing/postwing/pkg/email"
	"github.com/postwing/postwing/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a new Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// Send implements mailer.Sender. Resend returns one message ID per
// call, shared by every recipient in the result.
func (s *Sender) Send(ctx context.Context, msg *email.Message) (*email.Result, error) {
	req, err := s.buildRequest(msg)
	if err != nil {
		return nil, err
	}

	sent, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("resend: failed to send email: %w", err)
	}

	result := &email.Result{Recipients: make(map[string]email.RecipientStatus)}
	for _, list := range [][]string{msg.To, msg.CC, msg.BCC} {
		for _, raw := range list {
			addr, err := email.ParseAddr(raw)
			if err != nil {
				return nil, err
			}
			result.Recipients[addr.Address] = email.RecipientStatus{
				Status:    email.StatusQueued,
				MessageID: sent.Id,
			}
		}
	}
	return result, nil
}

func (s *Sender) buildRequest(msg *email.Message) (*resend.SendEmailRequest, error) {
	if !s.config.IgnoreUnsupported {
		switch {
		case msg.IsBatch():
			return nil, mailer.UnsupportedFeatureError("per-recipient merge data")
		case msg.TemplateID != "":
			return nil, mailer.UnsupportedFeatureError("provider template references")
		case msg.TrackOpens != nil || msg.TrackClicks != nil:
			return nil, mailer.UnsupportedFeatureError("per-message tracking toggles")
		case msg.EnvelopeSender != "":
			return nil, mailer.UnsupportedFeatureError("envelope_sender")
		}
	}

	from := msg.From
	if from == "" {
		if s.config.SenderName != "" {
			from = fmt.Sprintf("%s <%s>", s.config.SenderName, s.config.SenderEmail)
		} else {
			from = s.config.SenderEmail
		}
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		Cc:      msg.CC,
		Bcc:     msg.BCC,
	}
	if msg.ReplyTo != "" {
		req.ReplyTo = msg.ReplyTo
	}
	if len(msg.Headers) > 0 {
		req.Headers = stringHeaders(msg.Headers)
	}
	if !msg.SendAt.IsZero() {
		req.ScheduledAt = msg.SendAt.UTC().Format(time.RFC3339)
	}
	if len(msg.Attachments) > 0 || len(msg.Inline) > 0 {
		req.Attachments = convertAttachments(append(msg.Attachments, msg.Inline...))
	}
	if len(msg.Tags) > 0 || len(msg.Metadata) > 0 {
		req.Tags = convertTags(msg.Tags, msg.Metadata)
	}
	return req, nil
}

func stringHeaders(headers map[string]any) map[string]string {
	result := make(map[string]string, len(headers))
	for k, v := range headers {
		result[k] = tagValue(v)
	}
	return result
}

func convertAttachments(attachments []email.Attachment) []*resend.Attachment {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		}
	}
	return result
}

// convertTags folds plain tags and metadata into Resend's name/value
// tag list. Plain tags carry the value "true".
func convertTags(tags []string, metadata map[string]any) []resend.Tag {
	result := make([]resend.Tag, 0, len(tags)+len(metadata))
	for _, name := range tags {
		result = append(result, resend.Tag{Name: name, Value: "true"})
	}
	for name, value := range metadata {
		result = append(result, resend.Tag{Name: name, Value: tagValue(value)})
	}
	return result
}

// tagValue converts any value to a string for Resend's tag API.
func tagValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

var _ mailer.Sender = (*Sender)(nil)
