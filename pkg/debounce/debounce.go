package debounce

import (
	"sync"
	"time"
)

// Timer is a single-slot timer: scheduling a new callback cancels the
// pending one, so at most one callback is ever waiting to fire.
type Timer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// Reset cancels any pending callback and schedules fn to run after d.
func (t *Timer) Reset(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		current := gen == t.gen
		if current {
			t.timer = nil
		}
		t.mu.Unlock()

		if current {
			fn()
		}
	})
}

// Stop cancels the pending callback, if any. It reports whether a callback was
// pending.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopLocked()
}

// Pending reports whether a callback is waiting to fire.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

func (t *Timer) stopLocked() bool {
	if t.timer == nil {
		return false
	}
	t.timer.Stop()
	t.timer = nil
	// A callback that already started waiting on mu sees a stale generation.
	t.gen++
	return true
}

// Debounce returns a function that delays fn until d has elapsed since the
// last call.
func Debounce(d time.Duration, fn func()) func() {
	t := &Timer{}
	return func() {
		t.Reset(d, fn)
	}
}
