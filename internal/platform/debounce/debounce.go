// Package debounce coalesces rapid-fire lookups (one per keystroke) into a
// single upstream call. Each Submit supersedes any pending one: the older
// generation's timer is stopped and its context cancelled, so only the most
// recent keystroke's result is ever delivered. Superseded calls are
// discarded, not queued.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded reports that a newer Submit replaced this one before it
// fired or while it was in flight.
var ErrSuperseded = errors.New("debounce: superseded by newer call")

// Func is the debounced operation.
type Func[T any] func(ctx context.Context) (T, error)

// Debouncer serializes calls per instance with last-write-wins semantics.
type Debouncer[T any] struct {
	delay time.Duration

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
}

// New creates a debouncer with the given settle delay. A zero delay still
// cancels in-flight predecessors but fires immediately.
func New[T any](delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{delay: delay}
}

// Submit schedules fn after the settle delay and blocks until it completes,
// is superseded, or ctx is done. A later Submit cancels this one at whatever
// stage it is in; the superseded caller gets ErrSuperseded.
func (d *Debouncer[T]) Submit(ctx context.Context, fn Func[T]) (T, error) {
	var zero T

	d.mu.Lock()
	d.generation++
	gen := d.generation
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	fired := make(chan struct{})
	d.timer = time.AfterFunc(d.delay, func() { close(fired) })
	d.mu.Unlock()

	select {
	case <-fired:
	case <-runCtx.Done():
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, ErrSuperseded
	}

	result, err := fn(runCtx)
	if runCtx.Err() != nil && ctx.Err() == nil {
		// Superseded mid-flight: the stale result must not be applied.
		return zero, ErrSuperseded
	}
	if err != nil {
		return zero, err
	}

	// A newer generation may have started while fn ran without cancelling us
	// yet; re-check so only the latest result wins.
	d.mu.Lock()
	latest := d.generation == gen
	d.mu.Unlock()
	if !latest {
		return zero, ErrSuperseded
	}
	return result, nil
}
