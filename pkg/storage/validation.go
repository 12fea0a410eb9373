package storage

import "fmt"

// FileValidationError reports why an attachment was rejected before
// upload.
type FileValidationError struct {
	Details map[string]any
	Code    string
	Message string
}

func (e *FileValidationError) Error() string {
	return e.Message
}

// Error codes carried by FileValidationError.
const (
	ErrCodeTooLarge    = "too_large"
	ErrCodeEmpty       = "empty"
	ErrCodeInvalidMIME = "invalid_mime"
)

// ValidationRule checks attachment content before it is uploaded. The
// mimeType is the effective content type of the Put: declared via
// WithContentType, or sniffed from the first bytes.
type ValidationRule interface {
	Validate(size int64, mimeType string) error
}

// ValidateContent runs rules in order and returns the first failure.
func ValidateContent(size int64, mimeType string, rules ...ValidationRule) error {
	for _, rule := range rules {
		if err := rule.Validate(size, mimeType); err != nil {
			return err
		}
	}
	return nil
}

type maxSizeRule struct {
	maxBytes int64
}

// MaxSize rejects attachments larger than the limit.
func MaxSize(bytes int64) ValidationRule {
	return &maxSizeRule{maxBytes: bytes}
}

func (r *maxSizeRule) Validate(size int64, _ string) error {
	if size > r.maxBytes {
		return &FileValidationError{
			Code:    ErrCodeTooLarge,
			Message: fmt.Sprintf("attachment size %d exceeds limit of %d bytes", size, r.maxBytes),
			Details: map[string]any{
				"limit": r.maxBytes,
				"got":   size,
			},
		}
	}
	return nil
}

type notEmptyRule struct{}

// NotEmpty rejects zero-length attachments.
func NotEmpty() ValidationRule {
	return notEmptyRule{}
}

func (notEmptyRule) Validate(size int64, _ string) error {
	if size == 0 {
		return &FileValidationError{
			Code:    ErrCodeEmpty,
			Message: "attachment is empty",
			Details: map[string]any{},
		}
	}
	return nil
}

type allowedTypesRule struct {
	patterns []string
}

// AllowedTypes accepts only attachments whose content type matches one
// of the patterns. Wildcards like "image/*" are supported.
func AllowedTypes(patterns ...string) ValidationRule {
	return &allowedTypesRule{patterns: patterns}
}

func (r *allowedTypesRule) Validate(_ int64, mimeType string) error {
	if !matchesMIME(mimeType, r.patterns) {
		return &FileValidationError{
			Code:    ErrCodeInvalidMIME,
			Message: fmt.Sprintf("attachment type %q is not allowed", mimeType),
			Details: map[string]any{
				"type":    mimeType,
				"allowed": r.patterns,
			},
		}
	}
	return nil
}
