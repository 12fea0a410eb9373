package webhook

import (
	"context"
	"log/slog"
	"sync"
)

// Listener receives normalized tracking events. Listeners run
// synchronously in registration order; slow work should be handed off
// to a queue.
type Listener func(ctx context.Context, event Event)

// Dispatcher fans normalized events out to registered listeners.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
	log       *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil logger defaults to
// slog.Default.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{log: log}
}

// Subscribe registers a listener for all subsequent events.
func (d *Dispatcher) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// Dispatch delivers each event to every listener. A panicking listener
// is logged and does not stop delivery to the rest.
func (d *Dispatcher) Dispatch(ctx context.Context, events ...Event) {
	d.mu.RLock()
	listeners := make([]Listener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.RUnlock()

	for _, event := range events {
		d.log.DebugContext(ctx, "dispatching tracking event",
			slog.String("type", string(event.Type)),
			slog.String("message_id", event.MessageID),
			slog.String("recipient", event.Recipient),
		)
		for _, fn := range listeners {
			d.deliver(ctx, fn, event)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, fn Listener, event Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.ErrorContext(ctx, "tracking event listener panicked",
				slog.Any("panic", r),
				slog.String("type", string(event.Type)),
				slog.String("message_id", event.MessageID),
			)
		}
	}()
	fn(ctx, event)
}
