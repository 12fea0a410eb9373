package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/postwing/postwing/pkg/db"
	"github.com/postwing/postwing/pkg/id"
	"github.com/postwing/postwing/pkg/logger"
	"github.com/postwing/postwing/pkg/queue"
)

// sendMessagePayload mirrors the body the daemon's send_message worker
// decodes. Submissions from here and from POST /v1/messages land in the
// same queue and are indistinguishable to the worker.
type sendMessagePayload struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Subject  string         `json:"subject,omitempty"`
	From     string         `json:"from,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

var (
	submitTo       string
	submitTemplate string
	submitSubject  string
	submitFrom     string
	submitData     string
	submitQueue    string
	submitDelay    time.Duration
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Queue a message for delivery",
	Long: `Inserts a submission record and a delivery job in one transaction,
exactly as the daemon's send endpoint does. A running worker instance
picks the job up; this command does not wait for delivery.`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitTo, "to", "", "Recipient address (required)")
	submitCmd.Flags().StringVar(&submitTemplate, "template", "", "Template name (required)")
	submitCmd.Flags().StringVar(&submitSubject, "subject", "", "Subject override")
	submitCmd.Flags().StringVar(&submitFrom, "from", "", "Sender address override")
	submitCmd.Flags().StringVar(&submitData, "data", "", "Template data as a JSON object")
	submitCmd.Flags().StringVar(&submitQueue, "queue", "outbound", "Queue to submit into")
	submitCmd.Flags().DurationVar(&submitDelay, "in", 0, "Delay before the job becomes runnable")
	_ = submitCmd.MarkFlagRequired("to")
	_ = submitCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger.New()

	payload := sendMessagePayload{
		To:       submitTo,
		Template: submitTemplate,
		Subject:  submitSubject,
		From:     submitFrom,
	}
	if submitData != "" {
		if err := json.Unmarshal([]byte(submitData), &payload.Data); err != nil {
			return fmt.Errorf("parse --data: %w", err)
		}
	}

	var dbCfg db.Config
	if err := env.Parse(&dbCfg); err != nil {
		return fmt.Errorf("parse database config: %w", err)
	}
	pool, err := db.Connect(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	enqueuer, err := queue.NewEnqueuer(pool, queue.WithEnqueuerLogger(log))
	if err != nil {
		return err
	}

	enqOpts := []queue.EnqueueOption{queue.InQueue(submitQueue)}
	if submitDelay > 0 {
		enqOpts = append(enqOpts, queue.ScheduledIn(submitDelay))
	}

	submissionID := id.NewULID()
	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO submissions (submission_id, recipient, template, subject)
			VALUES ($1, $2, $3, $4)`,
			submissionID, payload.To, payload.Template, payload.Subject,
		)
		if err != nil {
			return err
		}
		return enqueuer.EnqueueTx(ctx, tx, "send_message", payload, enqOpts...)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "queued %s for %s\n", submissionID, payload.To)
	return nil
}
