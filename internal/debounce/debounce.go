// Package debounce coalesces bursts of calls into one trailing call.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDelay is the quiet period used ahead of search fetches.
const DefaultDelay = 300 * time.Millisecond

// Debouncer delivers the last value passed to Schedule once no further
// Schedule call happened for delay. There is no leading edge and no max wait:
// a steady stream of calls closer than delay postpones delivery indefinitely.
type Debouncer[T any] struct {
	clock clockwork.Clock
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	idle    *sync.Cond // signalled when running drops to zero
	timer   clockwork.Timer
	pending T
	gen     uint64
	running int // callbacks past the timer but not yet returned
}

// New returns a Debouncer calling fn on the given clock.
func New[T any](clock clockwork.Clock, delay time.Duration, fn func(T)) *Debouncer[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer[T]{clock: clock, delay: delay, fn: fn}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Schedule replaces any pending value with v and restarts the quiet period.
func (d *Debouncer[T]) Schedule(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = v
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen, v) })
}

// Cancel drops the pending value, if any, and reports whether one was pending.
// Call it on teardown so a pending timer never fires into a closed consumer.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Flush delivers the pending value right away instead of waiting out the
// quiet period, and reports whether there was one. fn runs on the caller.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	v := d.pending
	d.running++
	d.mu.Unlock()

	d.call(v)
	return true
}

// Wait blocks until no callback is running. A value still waiting out its
// quiet period is not waited for; Flush it first.
func (d *Debouncer[T]) Wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.running > 0 {
		d.idle.Wait()
	}
}

// Pending reports whether a value is waiting for its quiet period to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	// A timer that expired while a newer Schedule or Cancel held the lock is stale.
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.running++
	d.mu.Unlock()

	d.call(v)
}

func (d *Debouncer[T]) call(v T) {
	defer func() {
		d.mu.Lock()
		if d.running--; d.running == 0 {
			d.idle.Broadcast()
		}
		d.mu.Unlock()
	}()
	d.fn(v)
}
