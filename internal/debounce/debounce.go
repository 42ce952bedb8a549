// Package debounce delays an action until its trigger has been quiet for a
// fixed interval.
//
// The search view arms a Debouncer on every keystroke; only the last
// keystroke of a burst runs the query.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used by interactive search.
const DefaultDelay = 500 * time.Millisecond

// Handle identifies one Arm call.
type Handle uint64

// Debouncer keeps at most one pending timer. Arming replaces the pending
// function. It is safe for concurrent use; the zero value is ready.
type Debouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	latest Handle
}

// New returns an idle Debouncer.
func New() *Debouncer {
	return &Debouncer{}
}

// Arm schedules fn to run after delay, cancelling any pending function. A
// non-positive delay uses DefaultDelay.
func (d *Debouncer) Arm(delay time.Duration, fn func()) Handle {
	if delay <= 0 {
		delay = DefaultDelay
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.latest++
	h := d.latest
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		current := d.latest == h
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
	return h
}

// Cancel drops the pending function if h is still the latest arming.
// Cancelling a handle that already fired or was superseded does nothing.
func (d *Debouncer) Cancel(h Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if h != d.latest || d.timer == nil {
		return
	}
	d.timer.Stop()
	d.timer = nil
	d.latest++
}

// Stop drops whatever is pending.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.latest++
}

// Latest returns the handle of the most recent Arm. Consumers tag async
// results with the handle they were started under and drop results whose
// handle is no longer Latest.
func (d *Debouncer) Latest() Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}
