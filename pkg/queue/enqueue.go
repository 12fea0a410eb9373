package queue

import "time"

// enqueueConfig holds options for enqueueing a task.
type enqueueConfig struct {
	scheduledAt *time.Time
	queue       string
	uniqueKey   string
	tags        []string
	maxAttempts int
	uniqueFor   time.Duration
	priority    int
}

// EnqueueOption configures task enqueueing.
type EnqueueOption func(*enqueueConfig)

// InQueue specifies which queue to use for the task.
// If not specified, the default queue is used.
//
// Example:
//
//	q.Enqueue(ctx, "send_message", payload, queue.InQueue("outbound"))
func InQueue(name string) EnqueueOption {
	return func(c *enqueueConfig) {
		if name != "" {
			c.queue = name
		}
	}
}

// ScheduledAt schedules the task to run at a specific time.
// The task will not be processed until this time.
func ScheduledAt(t time.Time) EnqueueOption {
	return func(c *enqueueConfig) {
		c.scheduledAt = &t
	}
}

// ScheduledIn schedules the task to run after a duration.
//
// Example:
//
//	q.Enqueue(ctx, "send_reminder", payload, queue.ScheduledIn(24*time.Hour))
func ScheduledIn(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		t := time.Now().Add(d)
		c.scheduledAt = &t
	}
}

// MaxAttempts sets the maximum number of retry attempts for the task.
// Defaults to River's default (25 attempts).
//
// Example:
//
//	q.Enqueue(ctx, "send_message", payload, queue.MaxAttempts(3))
func MaxAttempts(n int) EnqueueOption {
	return func(c *enqueueConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// UniqueFor ensures only one task with this key exists for the specified duration.
// If a task with the same key and name already exists, the new one is skipped.
//
// Example:
//
//	// Only one digest per recipient per day
//	q.Enqueue(ctx, "send_digest", payload,
//	    queue.UniqueFor(24*time.Hour),
//	    queue.UniqueKey(recipient))
func UniqueFor(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		c.uniqueFor = d
	}
}

// UniqueKey sets a custom unique key for deduplication.
// Combined with UniqueFor, this prevents duplicate tasks with the same key.
// If not set, River generates a key based on the task arguments.
func UniqueKey(key string) EnqueueOption {
	return func(c *enqueueConfig) {
		c.uniqueKey = key
	}
}

// Priority sets the task priority (lower numbers = higher priority).
// Defaults to 1 if not set.
//
// Example:
//
//	q.Enqueue(ctx, "send_message", payload, queue.Priority(0))  // Highest
//	q.Enqueue(ctx, "send_campaign", payload, queue.Priority(10)) // Bulk
func Priority(p int) EnqueueOption {
	return func(c *enqueueConfig) {
		c.priority = p
	}
}

// Tags adds metadata tags to the task.
// Tags can be used for filtering, monitoring, and debugging.
//
// Example:
//
//	q.Enqueue(ctx, "send_message", payload,
//	    queue.Tags("transactional", "campaign:123"))
func Tags(tags ...string) EnqueueOption {
	return func(c *enqueueConfig) {
		c.tags = append(c.tags, tags...)
	}
}
