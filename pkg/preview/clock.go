package preview

import "time"

// Timer is a pending callback created by a Clock.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped the
	// timer before it fired.
	Stop() bool
}

// Clock creates one-shot timers. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock is the wall clock, backed by time.AfterFunc.
type SystemClock struct{}

// AfterFunc calls f on its own goroutine after d.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
