// Package logger builds the daemon's slog loggers: JSON to stdout,
// optional Sentry fan-out, and context extraction so message and
// provider identifiers ride along on every log line.
//
// # Usage
//
//	log := logger.New(logger.MessageIDExtractor, logger.ProviderExtractor)
//
//	ctx := logger.WithMessageID(context.Background(), "msg_01JMD...")
//	log.InfoContext(ctx, "message queued", slog.Int("recipients", 2))
//	// {"level":"INFO","msg":"message queued","recipients":2,"message_id":"msg_01JMD..."}
//
// # Sentry
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//	    DSN:         os.Getenv("SENTRY_DSN"),
//	    Environment: "production",
//	    MinLevel:    slog.LevelWarn,
//	}, logger.MessageIDExtractor, logger.ProviderExtractor)
//
// Errors become Sentry issues; records at MinLevel and above are kept
// as Sentry logs for context. An empty DSN, or a failed init, falls
// back to stdout-only so development runs are unaffected.
//
// # Context extraction
//
// [WithMessageID] and [WithProvider] stash values in the context;
// [MessageIDExtractor] and [ProviderExtractor] pull them back out on
// each log call. [NewContextHandler] applies extractors to any
// slog.Handler, so the same mechanism works over custom handlers.
package logger
