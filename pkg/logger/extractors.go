package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	messageIDKey ctxKey = iota
	providerKey
)

// WithMessageID stores a message ID in the context so every log line
// emitted while handling that message carries it.
func WithMessageID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, messageIDKey, id)
}

// WithProvider stores the email provider slug in the context.
func WithProvider(ctx context.Context, provider string) context.Context {
	return context.WithValue(ctx, providerKey, provider)
}

// MessageIDExtractor injects the message ID stored with WithMessageID.
func MessageIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := ctx.Value(messageIDKey).(string); ok && id != "" {
		return slog.String("message_id", id), true
	}
	return slog.Attr{}, false
}

// ProviderExtractor injects the provider slug stored with WithProvider.
func ProviderExtractor(ctx context.Context) (slog.Attr, bool) {
	if provider, ok := ctx.Value(providerKey).(string); ok && provider != "" {
		return slog.String("provider", provider), true
	}
	return slog.Attr{}, false
}
