package health

import "errors"

// ErrCheckTimeout replaces a backend's own error when its check runs out
// of time, so a slow Postgres ping and an outright Postgres refusal stay
// distinguishable in the readiness payload.
var ErrCheckTimeout = errors.New("health: check timed out")
