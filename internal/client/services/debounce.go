// Package services implements the screen-facing controllers: the query
// controller that reconciles search/filter/pagination input into a
// de-duplicated request stream, and the attachment lifecycle manager that
// eagerly uploads files and cleans up orphaned ones.
package services

import (
	"sync"
	"time"
)

// Debouncer delays committing a rapidly-changing value until it has been
// stable for the configured window. Every Observe restarts the timer; only
// the last value observed within a window is emitted. The emit callback runs
// on a timer goroutine.
type Debouncer[T any] struct {
	delay time.Duration
	emit  func(T)

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	closed bool
}

func NewDebouncer[T any](delay time.Duration, emit func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, emit: emit}
}

// Observe schedules v for emission after the delay, cancelling any pending
// value. A timer that has already fired but not yet emitted is suppressed by
// the generation check, so an older value can never overtake a newer one.
func (d *Debouncer[T]) Observe(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		ok := !d.closed && gen == d.gen
		d.mu.Unlock()
		if ok {
			d.emit(v)
		}
	})
}

// Close cancels any pending emission. After Close the debouncer never emits
// again, so it is safe to tear down the owning controller.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
