package mailer

import (
	"bytes"
	"context"
	"errors"
	texttemplate "text/template"

	"github.com/postwing/postwing/pkg/email"
)

// Mailer provides high-level email sending with template rendering.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

// New creates a new Mailer with the given sender and renderer.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{
		sender:   sender,
		renderer: renderer,
		config:   cfg,
	}
}

// SendParams contains parameters for sending a templated email.
type SendParams struct {
	To       string // Single recipient (most common case)
	Template string // Template filename (e.g., "welcome.md")
	Data     any    // Template data

	// Optional overrides
	Subject     string             // Override template subject
	Layout      string             // Override default layout
	From        string             // Override default sender
	ReplyTo     string             // Reply-to address
	CC          []string           // Carbon copy
	BCC         []string           // Blind carbon copy
	Attachments []email.Attachment // File attachments
	Tags        []string           // Provider-side categories
	Metadata    map[string]any     // Echoed back in tracking events
}

// Send renders a template and sends an email.
// Subject resolution: params.Subject > template metadata > config fallback.
func (m *Mailer) Send(ctx context.Context, params SendParams) (*email.Result, error) {
	if params.To == "" {
		return nil, ErrNoRecipient
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	result, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		if subjectFromMeta, ok := result.Metadata["Subject"].(string); ok {
			subject = subjectFromMeta
		} else {
			subject = m.config.FallbackSubject
		}
	}

	// Subject supports {{.Variable}} syntax with the same data.
	processedSubject, err := m.processSubject(subject, params.Data)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	msg := &email.Message{
		To:          []string{params.To},
		Subject:     processedSubject,
		HTML:        result.HTML,
		Text:        result.Text,
		From:        params.From,
		ReplyTo:     params.ReplyTo,
		CC:          params.CC,
		BCC:         params.BCC,
		Attachments: params.Attachments,
		Tags:        params.Tags,
		Metadata:    params.Metadata,
	}

	return m.deliver(ctx, msg)
}

// SendMessage sends a pre-built message without template rendering.
func (m *Mailer) SendMessage(ctx context.Context, msg *email.Message) (*email.Result, error) {
	if len(msg.To) == 0 && len(msg.CC) == 0 && len(msg.BCC) == 0 {
		return nil, ErrNoRecipient
	}
	if msg.Subject == "" && msg.TemplateID == "" {
		return nil, ErrNoSubject
	}
	if msg.Text == "" && msg.HTML == "" && msg.TemplateID == "" {
		return nil, ErrNoContent
	}

	return m.deliver(ctx, msg)
}

func (m *Mailer) deliver(ctx context.Context, msg *email.Message) (*email.Result, error) {
	result, err := m.sender.Send(ctx, msg)
	if err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}

	if result.AllRefused() && !m.config.IgnoreRecipientStatus {
		return result, ErrAllRecipientsRefused
	}

	return result, nil
}

func (m *Mailer) processSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
