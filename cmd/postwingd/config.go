package main

import (
	"time"

	"github.com/postwing/postwing/pkg/mailer"
	webhookmailjet "github.com/postwing/postwing/pkg/webhook/mailjet"
)

// config holds the daemon configuration, populated from environment
// variables.
type config struct {
	// HTTP server settings.
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Logging and error reporting.
	SentryDSN   string `env:"SENTRY_DSN"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Provider selects the outbound email provider: unisender, brevo,
	// or resend.
	Provider string `env:"EMAIL_PROVIDER" envDefault:"unisender"`

	// DefaultFrom is the sender address used when a message does not
	// carry one.
	DefaultFrom string `env:"DEFAULT_FROM,required"`

	// TemplatesDir is the root of the email template tree. Layouts live
	// in LayoutsDir relative to it.
	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"templates"`
	LayoutsDir   string `env:"LAYOUTS_DIR" envDefault:"layouts"`

	// ContentClass marks the layout region whose tables get empty-cell
	// runs collapsed after rendering.
	ContentClass string `env:"CONTENT_CLASS" envDefault:"document"`

	// QueueEnabled switches message delivery to background workers
	// backed by PostgreSQL. Requires DATABASE_CONN_URL.
	QueueEnabled bool `env:"QUEUE_ENABLED"`
	QueueWorkers int  `env:"QUEUE_WORKERS" envDefault:"10"`

	// PersistEvents stores normalized tracking events in PostgreSQL.
	// Requires DATABASE_CONN_URL.
	PersistEvents bool `env:"PERSIST_EVENTS"`

	// RedisURL enables Redis-backed webhook deduplication. Without it
	// an in-process cache is used, which does not survive restarts or
	// span replicas.
	RedisURL     string        `env:"REDIS_URL"`
	DedupeWindow time.Duration `env:"WEBHOOK_DEDUPE_WINDOW" envDefault:"24h"`

	// ArchiveAttachments stores inbound attachments in S3-compatible
	// object storage. Requires the S3_* variables.
	ArchiveAttachments bool `env:"ARCHIVE_ATTACHMENTS"`

	Mailer  mailer.Config
	Mailjet webhookmailjet.Config
}
