package redis

import "errors"

var (
	// ErrEmptyConnectionURL means REDIS_URL was not set.
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")

	// ErrFailedToParseURL means the URL was malformed or not redis://.
	ErrFailedToParseURL = errors.New("redis: failed to parse connection URL")

	// ErrConnectionFailed means every connect attempt ended in a failed ping.
	ErrConnectionFailed = errors.New("redis: failed to establish connection")

	// ErrHealthcheckFailed is what the readiness probe reports.
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
