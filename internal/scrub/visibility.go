package scrub

import (
	"sync"
	"time"
)

// DefaultControlsHideDelay is the quiet period after which the controls hide
const DefaultControlsHideDelay = 2000 * time.Millisecond

// Debouncer runs a function once a quiet period has passed since the last Trigger.  Each Trigger cancels the pending
// run and starts the period again.
//
// fn receives the generation of the trigger that scheduled it.  A run can already be on its way when a newer Trigger
// arrives, so callers that serialise fn with Trigger under their own lock must check Current(gen) under that lock.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func(gen uint64)
	timer *time.Timer
	// gen identifies the latest Trigger or Cancel
	gen uint64
}

// NewDebouncer creates a debouncer calling fn after delay of inactivity
func NewDebouncer(delay time.Duration, fn func(gen uint64)) *Debouncer {
	return &Debouncer{
		delay: delay,
		fn:    fn,
	}
}

// Trigger (re)starts the quiet period
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.gen == gen
		if current {
			d.timer = nil
		}
		d.mu.Unlock()

		if current {
			d.fn(gen)
		}
	})
}

// Cancel drops any pending run
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Current reports whether gen belongs to the latest Trigger, with no Trigger or Cancel since
func (d *Debouncer) Current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen == gen
}

// Pending reports whether a run is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
