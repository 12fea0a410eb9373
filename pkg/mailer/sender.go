package mailer

import (
	"context"

	"github.com/postwing/postwing/pkg/email"
)

// Sender is the contract email providers implement. It accepts a fully
// prepared message and returns per-recipient delivery statuses.
//
// Implementations must return an error joined with ErrUnsupportedFeature
// for message features their API cannot express, and a *APIError for
// provider API failures.
type Sender interface {
	Send(ctx context.Context, msg *email.Message) (*email.Result, error)
}
