package ui

import (
	"sync"
	"time"
)

// Debouncer delays fn until wait has passed without another Call. Each Call
// cancels the pending invocation; the argument of the last Call wins.
type Debouncer[T any] struct {
	mu       sync.Mutex
	fn       func(T)
	wait     time.Duration
	schedule Scheduler
	timer    Timer
	gen      uint64
	stopped  bool
}

// Debounce wraps fn with a real-time Debouncer.
func Debounce[T any](fn func(T), wait time.Duration) *Debouncer[T] {
	return DebounceWith(fn, wait, RealScheduler)
}

// DebounceWith wraps fn using the supplied scheduler.
func DebounceWith[T any](fn func(T), wait time.Duration, schedule Scheduler) *Debouncer[T] {
	if schedule == nil {
		schedule = RealScheduler
	}
	return &Debouncer[T]{fn: fn, wait: wait, schedule: schedule}
}

// Call records arg and restarts the wait window.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.schedule(d.wait, func() {
		d.mu.Lock()
		if d.stopped || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fn(arg)
	})
}

// Stop cancels any pending invocation and ignores later calls.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
