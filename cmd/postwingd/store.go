package main

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postwing/postwing/pkg/webhook"
)

//go:embed migrations/*.sql
var migrations embed.FS

// eventRecorder persists normalized tracking events to PostgreSQL.
// Insert failures are logged but never fail the webhook response, since
// providers retry rejected callbacks and would resend the whole batch.
type eventRecorder struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func newEventRecorder(pool *pgxpool.Pool, log *slog.Logger) *eventRecorder {
	return &eventRecorder{pool: pool, log: log}
}

// Record implements webhook.Listener.
func (r *eventRecorder) Record(ctx context.Context, e webhook.Event) {
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		metadata = []byte("{}")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO delivery_events
			(event_type, message_id, event_id, recipient, reject_reason,
			 mta_response, tags, metadata, click_url, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(e.Type), e.MessageID, e.EventID, e.Recipient,
		string(e.RejectReason), e.MTAResponse, e.Tags, metadata,
		e.ClickURL, e.UserAgent, e.Timestamp,
	)
	if err != nil {
		r.log.ErrorContext(ctx, "failed to record event",
			slog.String("type", string(e.Type)),
			slog.String("message_id", e.MessageID),
			slog.Any("error", err),
		)
	}
}
