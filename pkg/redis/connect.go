package redis

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option tunes the connection pool behind the client.
type Option func(*options)

type options struct {
	poolSize        int
	minIdleConns    int
	connMaxIdleTime time.Duration
	connMaxLifetime time.Duration
	retryAttempts   int
	retryInterval   time.Duration
	readTimeout     time.Duration
	writeTimeout    time.Duration
	dialTimeout     time.Duration
}

// Defaults are sized for the dedupe seen-set: small bursts of EXISTS/SET
// per inbound webhook, nothing long-running.
func defaultOptions() *options {
	return &options{
		poolSize:        10,
		minIdleConns:    5,
		connMaxIdleTime: 10 * time.Minute,
		connMaxLifetime: 30 * time.Minute,
		retryAttempts:   3,
		retryInterval:   5 * time.Second,
		readTimeout:     3 * time.Second,
		writeTimeout:    3 * time.Second,
		dialTimeout:     5 * time.Second,
	}
}

// WithPoolSize caps pool connections. Default 10.
func WithPoolSize(n int) Option {
	return func(o *options) { o.poolSize = n }
}

// WithMinIdleConns keeps this many connections warm. Default 5.
func WithMinIdleConns(n int) Option {
	return func(o *options) { o.minIdleConns = n }
}

// WithMaxIdleTime closes connections idle longer than d. Default 10m.
func WithMaxIdleTime(d time.Duration) Option {
	return func(o *options) { o.connMaxIdleTime = d }
}

// WithMaxActiveTime recycles connections older than d. Default 30m.
func WithMaxActiveTime(d time.Duration) Option {
	return func(o *options) { o.connMaxLifetime = d }
}

// WithRetry sets how often Open re-pings an unreachable server before
// giving up. Backoff grows linearly from interval. Default 3 attempts, 5s.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(o *options) {
		o.retryAttempts = attempts
		o.retryInterval = interval
	}
}

// WithReadTimeout bounds reads. Default 3s.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) { o.readTimeout = d }
}

// WithWriteTimeout bounds writes. Default 3s.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = d }
}

// WithDialTimeout bounds new connection setup. Default 5s.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) { o.dialTimeout = d }
}

// Open connects to the Redis behind REDIS_URL and verifies it with a
// ping before returning. Accepts redis:// and rediss:// URLs.
//
//	client, err := redis.Open(ctx, cfg.RedisURL,
//	    redis.WithRetry(5, 3*time.Second),
//	)
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	parsed, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	parsed.PoolSize = o.poolSize
	parsed.MinIdleConns = o.minIdleConns
	parsed.ConnMaxIdleTime = o.connMaxIdleTime
	parsed.ConnMaxLifetime = o.connMaxLifetime
	parsed.ReadTimeout = o.readTimeout
	parsed.WriteTimeout = o.writeTimeout
	parsed.DialTimeout = o.dialTimeout

	return connect(ctx, parsed, o.retryAttempts, o.retryInterval)
}

// MustOpen is Open for daemons whose startup cannot proceed without the
// seen-set backend: it logs and exits on failure.
func MustOpen(ctx context.Context, url string, opts ...Option) redis.UniversalClient {
	client, err := Open(ctx, url, opts...)
	if err != nil {
		slog.Error("failed to open redis connection", "error", err)
		os.Exit(1)
	}
	return client
}

func connect(ctx context.Context, opts *redis.Options, attempts int, interval time.Duration) (redis.UniversalClient, error) {
	attempts = max(attempts, 1)

	for i := range attempts {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		if waitErr := wait(ctx, time.Duration(i+1)*interval); waitErr != nil {
			return nil, errors.Join(ErrConnectionFailed, waitErr)
		}
	}

	return nil, ErrConnectionFailed
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
