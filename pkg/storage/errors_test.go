package storage

import (
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

type fakeAPIError struct {
	code string
}

func (e *fakeAPIError) Error() string               { return e.code }
func (e *fakeAPIError) ErrorCode() string           { return e.code }
func (e *fakeAPIError) ErrorMessage() string        { return e.code }
func (e *fakeAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func TestWrapS3Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		fallback error
		want     error
	}{
		{"NoSuchKey maps to not found", &fakeAPIError{code: "NoSuchKey"}, ErrUploadFailed, ErrNotFound},
		{"NotFound maps to not found", &fakeAPIError{code: "NotFound"}, ErrUploadFailed, ErrNotFound},
		{"AccessDenied maps to access denied", &fakeAPIError{code: "AccessDenied"}, ErrUploadFailed, ErrAccessDenied},
		{"Forbidden maps to access denied", &fakeAPIError{code: "Forbidden"}, ErrDeleteFailed, ErrAccessDenied},
		{"unknown code keeps fallback", &fakeAPIError{code: "SlowDown"}, ErrUploadFailed, ErrUploadFailed},
		{"plain error keeps fallback", errors.New("connection reset"), ErrDeleteFailed, ErrDeleteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := wrapS3Error(tt.err, tt.fallback)
			require.ErrorIs(t, wrapped, tt.want)
		})
	}
}

func TestWrapS3Error_FlattensOriginal(t *testing.T) {
	t.Parallel()

	orig := &fakeAPIError{code: "NoSuchKey"}
	wrapped := wrapS3Error(orig, ErrUploadFailed)

	// Callers match sentinels, not SDK types.
	var apiErr smithy.APIError
	require.False(t, errors.As(wrapped, &apiErr))
	require.Contains(t, wrapped.Error(), "NoSuchKey")
}
