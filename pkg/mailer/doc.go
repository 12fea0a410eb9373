// Package mailer provides high-level transactional email sending on top
// of interchangeable ESP backends.
//
// The package separates three concerns:
//
//   - Sender: the provider contract. Backends (unisender, brevo, resend)
//     translate the neutral email.Message into their wire API and report
//     per-recipient outcomes.
//   - Renderer: markdown templates with YAML frontmatter rendered to
//     HTML through goldmark, wrapped in an HTML layout, with table
//     post-processing applied to the final document.
//   - Mailer: validation, rendering, sending, and recipient-refusal
//     handling in one call.
//
// # Usage
//
//	sender := unisender.New(unisender.Config{APIKey: os.Getenv("UNISENDER_GO_API_KEY")})
//	renderer := mailer.NewRenderer(templates.FS)
//	m := mailer.New(sender, renderer, mailer.Config{DefaultLayout: "base.html"})
//
//	result, err := m.Send(ctx, mailer.SendParams{
//		To:       "user@example.com",
//		Template: "welcome.md",
//		Data:     map[string]any{"Name": "Alice"},
//	})
//
// # Recipient refusal
//
// When a provider refuses every recipient the send is useless even
// though the API call succeeded; Mailer surfaces that as
// ErrAllRecipientsRefused unless Config.IgnoreRecipientStatus is set.
// Partial refusals never error: inspect the Result instead.
//
// # Provider errors
//
// API-level failures are reported as *APIError wrapping the provider's
// status code and response, joined with ErrSendFailed so callers can
// match either way.
package mailer
