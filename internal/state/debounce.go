package state

import (
	"sync"
	"time"
)

// Debouncer runs fn once a burst of Trigger calls has been quiet for delay.
//
// It holds a single slot: a Trigger while a run is pending restarts the
// timer instead of queueing a second run. Each store owns its own Debouncer.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
	running bool

	// done is closed when the current cycle ends, either when fn returns or
	// when it is cancelled. It is nil between cycles.
	done chan struct{}
}

// NewDebouncer creates a Debouncer. fn runs on the timer's goroutine.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	if !d.pending {
		d.pending = true
		if d.done == nil {
			d.done = make(chan struct{})
		}
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		// Superseded by a later Trigger, or cancelled.
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running = true
	d.mu.Unlock()

	d.fn()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = false
	// A Trigger during fn started a new cycle on the same channel; it ends
	// when that cycle does.
	if !d.pending {
		d.endCycle()
	}
}

func (d *Debouncer) endCycle() {
	if d.done != nil {
		close(d.done)
		d.done = nil
	}
}

// Cancel drops the pending run, if there is one, and reports whether it did.
// Callers that want the work done anyway run it themselves (see Flush on the
// stores).
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.pending {
		return false
	}
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	if !d.running {
		d.endCycle()
	}
	return true
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Wait blocks until no run is pending or executing.
func (d *Debouncer) Wait() {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()

	if done != nil {
		<-done
	}
}
