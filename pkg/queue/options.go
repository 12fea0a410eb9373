package queue

import (
	"context"
	"log/slog"
)

// config holds queue manager configuration.
type config struct {
	registry   *taskRegistry
	queues     map[string]int
	logger     *slog.Logger
	schedules  []scheduleConfig
	maxWorkers int
}

func newConfig() *config {
	return &config{
		registry: newTaskRegistry(),
		queues:   make(map[string]int),
	}
}

// scheduleConfig holds scheduled task configuration.
type scheduleConfig struct {
	handler  scheduledHandler
	name     string
	schedule string
}

// scheduledHandler is a function type for scheduled task handlers.
type scheduledHandler func(context.Context) error

// Option configures the queue manager.
type Option func(*config)

// WithTask registers a task handler using structural typing.
// The task must implement Name() and Handle(ctx, P) methods.
// The payload type P is inferred from the Handle method signature.
//
// Example:
//
//	type SendMessage struct {
//	    sender mailer.Sender
//	}
//
//	func (t *SendMessage) Name() string { return "send_message" }
//	func (t *SendMessage) Handle(ctx context.Context, p SendMessagePayload) error {
//	    _, err := t.sender.Send(ctx, p.Message)
//	    return err
//	}
//
//	queue.WithTask(tasks.NewSendMessage(sender))
func WithTask[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}](task T) Option {
	return func(c *config) {
		wrapper := newTaskWrapper[P, T](task)
		c.registry.register(task.Name(), wrapper)
	}
}

// WithScheduledTask registers a periodic task using structural typing.
// The task must implement Name(), Schedule(), and Handle(ctx) methods.
// Schedule() should return a cron expression (5 fields: min hour day month weekday).
//
// Example:
//
//	type PruneEvents struct {
//	    pool *pgxpool.Pool
//	}
//
//	func (t *PruneEvents) Name() string     { return "prune_events" }
//	func (t *PruneEvents) Schedule() string { return "0 3 * * *" } // Daily at 03:00
//	func (t *PruneEvents) Handle(ctx context.Context) error {
//	    return pruneDeliveryEvents(ctx, t.pool)
//	}
//
//	queue.WithScheduledTask(tasks.NewPruneEvents(pool))
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, scheduleConfig{
			name:     task.Name(),
			schedule: task.Schedule(),
			handler:  task.Handle,
		})
	}
}

// WithQueue configures a named queue with the specified number of workers.
// If not specified, tasks use the default queue with default worker count.
//
// Example:
//
//	queue.WithQueue("outbound", 10) // 10 workers for message delivery
//	queue.WithQueue("webhooks", 2)  // 2 workers for event fan-out
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithLogger sets the logger for task processing.
// If not set, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers sets the default maximum number of workers.
// This applies to the default queue and any queue without explicit worker count.
// Defaults to 100 if not set.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}
