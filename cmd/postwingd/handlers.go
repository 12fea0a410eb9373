package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/postwing/postwing/pkg/db"
	"github.com/postwing/postwing/pkg/id"
	"github.com/postwing/postwing/pkg/inbound"
	"github.com/postwing/postwing/pkg/logger"
	"github.com/postwing/postwing/pkg/mailer"
	"github.com/postwing/postwing/pkg/queue"
	"github.com/postwing/postwing/pkg/webhook"
)

// submissionQueue is the slice of queue.Manager the submission path
// needs: enqueueing a job inside the caller's transaction.
type submissionQueue interface {
	EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...queue.EnqueueOption) error
}

// apiHandler serves the message submission and inbound endpoints.
type apiHandler struct {
	mailer     *mailer.Mailer
	queue      submissionQueue
	pool       db.Beginner
	dispatcher *webhook.Dispatcher
	archiver   *inbound.Archiver
	from       string
	log        *slog.Logger
}

// sendRequest is the POST /v1/messages body.
type sendRequest struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Subject  string         `json:"subject,omitempty"`
	From     string         `json:"from,omitempty"`
	ReplyTo  string         `json:"reply_to,omitempty"`
	CC       []string       `json:"cc,omitempty"`
	BCC      []string       `json:"bcc,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (h *apiHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.To == "" {
		writeError(w, http.StatusUnprocessableEntity, "to is required")
		return
	}
	if req.Template == "" {
		writeError(w, http.StatusUnprocessableEntity, "template is required")
		return
	}
	if req.From == "" {
		req.From = h.from
	}

	// With workers enabled the message is handed off and delivered in
	// the background; otherwise it is sent on the request path. The
	// audit row and the job commit together, so an accepted submission
	// always has a queued job and vice versa.
	if h.queue != nil {
		submissionID := id.NewULID()
		err := db.WithTx(r.Context(), h.pool, func(tx pgx.Tx) error {
			_, err := tx.Exec(r.Context(), `
				INSERT INTO submissions (submission_id, recipient, template, subject)
				VALUES ($1, $2, $3, $4)`,
				submissionID, req.To, req.Template, req.Subject,
			)
			if err != nil {
				return err
			}
			return h.queue.EnqueueTx(r.Context(), tx, sendMessageTaskName, req,
				queue.InQueue(outboundQueue),
			)
		})
		if err != nil {
			h.log.ErrorContext(r.Context(), "enqueue failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to queue message")
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"status":        "queued",
			"submission_id": submissionID,
		})
		return
	}

	result, err := h.mailer.Send(r.Context(), sendParams(req))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, mailer.ErrRenderFailed) || errors.Is(err, mailer.ErrTemplateNotFound) {
			status = http.StatusUnprocessableEntity
		}
		h.log.ErrorContext(r.Context(), "send failed", slog.Any("error", err))
		writeError(w, status, "failed to send message")
		return
	}

	recipients := make(map[string]map[string]string, len(result.Recipients))
	for addr, rs := range result.Recipients {
		recipients[addr] = map[string]string{
			"status":     string(rs.Status),
			"message_id": rs.MessageID,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "sent",
		"recipients": recipients,
	})
}

// receiveInbound accepts a raw MIME message and publishes it as an
// inbound tracking event.
func (h *apiHandler) receiveInbound(w http.ResponseWriter, r *http.Request) {
	msg, err := inbound.ParseRaw(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed message")
		return
	}

	event := webhook.Event{
		Type:      webhook.EventInbound,
		Timestamp: time.Now().UTC(),
		MessageID: msg.Get("Message-ID"),
		Metadata: map[string]any{
			"subject": msg.Subject,
		},
	}
	if len(msg.From) > 0 {
		event.Metadata["from"] = msg.From[0].String()
	}
	if len(msg.To) > 0 {
		event.Recipient = msg.To[0].Address
	}

	ctx := logger.WithMessageID(r.Context(), event.MessageID)

	if h.archiver != nil {
		archived, err := h.archiver.Archive(ctx, msg)
		if err != nil {
			h.log.ErrorContext(ctx, "attachment archiving failed", slog.Any("error", err))
		}
		if len(archived) > 0 {
			keys := make([]string, len(archived))
			for i, a := range archived {
				keys[i] = a.Key
			}
			event.Metadata["attachment_keys"] = keys
		}
	}

	h.dispatcher.Dispatch(ctx, event)
	h.log.InfoContext(ctx, "inbound message received",
		slog.String("subject", msg.Subject),
		slog.Int("attachments", len(msg.Attachments)),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"subject":     msg.Subject,
		"attachments": len(msg.Attachments),
	})
}

func sendParams(req sendRequest) mailer.SendParams {
	return mailer.SendParams{
		To:       req.To,
		Template: req.Template,
		Data:     req.Data,
		Subject:  req.Subject,
		From:     req.From,
		ReplyTo:  req.ReplyTo,
		CC:       req.CC,
		BCC:      req.BCC,
		Tags:     req.Tags,
		Metadata: req.Metadata,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
