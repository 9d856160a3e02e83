// Package debounce coalesces bursts of calls into a single trailing call.
package debounce

import (
	"sync"
	"time"
)

// Scheduler runs fn once after a quiet period. Triggering again before it runs
// restarts the wait; Cancel drops a pending run; Flush runs it immediately.
type Scheduler interface {
	Trigger(fn func())
	Cancel() bool
	Flush() bool
}

// Debouncer is the default timer-backed Scheduler. fn runs on its own goroutine.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	gen     uint64
}

// New creates a Debouncer with the given quiet period.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing any pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire ignores timers superseded after they started running.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Cancel drops the pending call and reports whether there was one.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked() != nil
}

// Flush runs the pending call now, on the caller's goroutine, and reports
// whether there was one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.stopLocked()
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

func (d *Debouncer) stopLocked() func() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.pending
	d.pending = nil
	return fn
}

// Manual is a Scheduler that only runs on Flush. It suits event loops that
// drive time themselves, and tests.
type Manual struct {
	pending func()
}

// Trigger records fn, replacing any pending call.
func (m *Manual) Trigger(fn func()) {
	m.pending = fn
}

// Pending reports whether a call is waiting.
func (m *Manual) Pending() bool {
	return m.pending != nil
}

// Cancel drops the pending call.
func (m *Manual) Cancel() bool {
	had := m.pending != nil
	m.pending = nil
	return had
}

// Flush runs the pending call.
func (m *Manual) Flush() bool {
	fn := m.pending
	m.pending = nil
	if fn == nil {
		return false
	}
	fn()
	return true
}
