package htmltable

import "sync"

// Pass is a single-shot transform with a pending -> executed lifecycle.
// Run executes the wrapped function the first time it is called; later
// calls are no-ops. A Pass has no cancellation, retry, or timeout
// semantics: it is a best-effort cosmetic step.
type Pass struct {
	fn   func()
	mu   sync.Mutex
	done bool
}

// NewPass wraps fn in a pending Pass.
func NewPass(fn func()) *Pass {
	return &Pass{fn: fn}
}

// Run executes the transform if it is still pending.
func (p *Pass) Run() {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	p.done = true
	fn := p.fn
	p.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Done reports whether the transform has executed.
func (p *Pass) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// WhenReady schedules fn to run exactly once: synchronously before
// returning when ready is true, otherwise as soon as loaded fires.
// The returned Pass can be observed or run early by the caller.
func WhenReady(ready bool, loaded <-chan struct{}, fn func()) *Pass {
	p := NewPass(fn)
	if ready {
		p.Run()
		return p
	}
	go func() {
		<-loaded
		p.Run()
	}()
	return p
}
