package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postwing/postwing/pkg/mailer"
)

const (
	sendMessageTaskName = "send_message"
	outboundQueue       = "outbound"
)

// sendMessageTask delivers a templated message through the configured
// provider. Failures are retried by the queue with backoff.
type sendMessageTask struct {
	mailer *mailer.Mailer
	log    *slog.Logger
}

func (t *sendMessageTask) Name() string { return sendMessageTaskName }

func (t *sendMessageTask) Handle(ctx context.Context, req sendRequest) error {
	result, err := t.mailer.Send(ctx, sendParams(req))
	if err != nil {
		return err
	}

	for addr, rs := range result.Recipients {
		t.log.InfoContext(ctx, "message delivered",
			slog.String("recipient", addr),
			slog.String("status", string(rs.Status)),
			slog.String("message_id", rs.MessageID),
		)
	}
	return nil
}

// pruneEventsTask removes old delivery events and submission records
// nightly so the tracking tables do not grow without bound.
type pruneEventsTask struct {
	pool *pgxpool.Pool
}

func (t *pruneEventsTask) Name() string     { return "prune_events" }
func (t *pruneEventsTask) Schedule() string { return "0 3 * * *" }

func (t *pruneEventsTask) Handle(ctx context.Context) error {
	if _, err := t.pool.Exec(ctx,
		`DELETE FROM delivery_events WHERE occurred_at < now() - interval '90 days'`); err != nil {
		return err
	}
	_, err := t.pool.Exec(ctx,
		`DELETE FROM submissions WHERE submitted_at < now() - interval '90 days'`)
	return err
}
