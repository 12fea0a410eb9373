// Package queue provides background task processing backed by River and
// PostgreSQL.
//
// Tasks are registered with typed payloads and processed by a pool of
// workers. The package powers asynchronous message delivery: the HTTP
// layer enqueues a send and returns immediately, while workers pick the
// task up, render the message, and hand it to the configured provider.
//
// # Manager
//
// A Manager both enqueues and processes tasks:
//
//	manager, err := queue.NewManager(pool,
//	    queue.WithTask(tasks.NewSendMessage(sender)),
//	    queue.WithQueue("outbound", 10),
//	    queue.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//
//	if err := manager.Start(ctx); err != nil {
//	    return err
//	}
//	defer manager.Stop(context.Background())
//
//	err = manager.Enqueue(ctx, "send_message", payload,
//	    queue.InQueue("outbound"),
//	    queue.MaxAttempts(3),
//	)
//
// Tasks can be enqueued before Start() is called; they are processed once
// the manager starts. Unknown task names are rejected at enqueue time.
//
// # Enqueuer
//
// An Enqueuer inserts tasks without running workers. Use it in processes
// that only dispatch work:
//
//	enqueuer, err := queue.NewEnqueuer(pool)
//	err = enqueuer.Enqueue(ctx, "send_message", payload)
//
// EnqueueTx inserts within a pgx transaction so the task becomes visible
// only when the surrounding database changes commit.
//
// # Scheduled tasks
//
// Periodic tasks run on a cron schedule (5 fields: min hour day month
// weekday):
//
//	queue.WithScheduledTask(tasks.NewPruneEvents(pool))
//
// # Retries and uniqueness
//
// Failed tasks are retried with River's default backoff up to MaxAttempts.
// UniqueFor plus UniqueKey deduplicates tasks over a window, which keeps a
// retried webhook from enqueueing the same delivery twice.
package queue
