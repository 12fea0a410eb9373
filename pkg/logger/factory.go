package logger

import (
	"log/slog"
	"os"
)

// New builds the plain JSON logger used by tooling that has no Sentry
// wiring, such as postwingctl. Extractors behave as in NewWithSentry.
func New(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(NewContextHandler(h, extractors...))
}
