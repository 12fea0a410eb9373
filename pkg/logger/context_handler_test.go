package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/postwing/postwing/pkg/logger"
)

func jsonLogger(buf *bytes.Buffer, extractors ...logger.ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(buf, nil)
	return slog.New(logger.NewContextHandler(h, extractors...))
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestContextHandler_InjectsMessageID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := jsonLogger(&buf, logger.MessageIDExtractor)

	ctx := logger.WithMessageID(context.Background(), "msg_01JMDN2Y6R")
	log.InfoContext(ctx, "delivery attempted")

	line := lastLine(t, &buf)
	require.Equal(t, "msg_01JMDN2Y6R", line["message_id"])
	require.Equal(t, "delivery attempted", line["msg"])
}

func TestContextHandler_SkipsAbsentValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := jsonLogger(&buf, logger.MessageIDExtractor, logger.ProviderExtractor)

	log.InfoContext(context.Background(), "startup")

	line := lastLine(t, &buf)
	require.NotContains(t, line, "message_id")
	require.NotContains(t, line, "provider")
}

func TestContextHandler_ToleratesNilExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := jsonLogger(&buf, nil, logger.ProviderExtractor)

	ctx := logger.WithProvider(context.Background(), "unisender")
	require.NotPanics(t, func() {
		log.InfoContext(ctx, "webhook received")
	})

	line := lastLine(t, &buf)
	require.Equal(t, "unisender", line["provider"])
}

func TestContextHandler_SurvivesWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := jsonLogger(&buf, logger.MessageIDExtractor).With(slog.String("component", "mailer"))

	ctx := logger.WithMessageID(context.Background(), "msg_x")
	log.InfoContext(ctx, "rendered")

	line := lastLine(t, &buf)
	require.Equal(t, "mailer", line["component"])
	require.Equal(t, "msg_x", line["message_id"])
}

func TestNewWithSentry_EmptyDSNFallsBack(t *testing.T) {
	t.Parallel()

	log := logger.NewWithSentry(logger.SentryConfig{}, logger.MessageIDExtractor)
	require.NotNil(t, log)
	require.NotPanics(t, func() {
		log.Info("no sentry configured")
	})
}
