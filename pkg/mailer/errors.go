package mailer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates the message has neither a body nor a template.
	ErrNoContent = errors.New("email must have text, HTML, or a template id")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("failed to render template")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrAllRecipientsRefused indicates the provider rejected every
	// recipient, so the message reached no one.
	ErrAllRecipientsRefused = errors.New("all recipients were refused")

	// ErrUnsupportedFeature indicates the message uses a feature the
	// selected provider cannot express. Backends can be configured to
	// drop the feature instead of failing.
	ErrUnsupportedFeature = errors.New("feature not supported by provider")
)

// APIError reports a provider API failure with the provider's own
// explanation preserved.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: API response %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: API response %d", e.Provider, e.StatusCode)
}

// UnsupportedFeatureError wraps ErrUnsupportedFeature with the feature name.
func UnsupportedFeatureError(feature string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedFeature, feature)
}
