package booking

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid successive triggers into a single execution.
// Each Schedule cancels the previously armed timer and starts a fresh one,
// so only the last call inside the window runs.  Earlier scheduled calls
// are cancelled outright, not merely ignored when they fire.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer returns a debouncer with the given window.  A non-positive
// delay degrades to immediate asynchronous execution.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule arms fn to run once the window elapses, cancelling any
// previously scheduled function that has not fired yet.  fn runs on its own
// goroutine.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending execution.  Called when the booking session is
// abandoned or submitted.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
