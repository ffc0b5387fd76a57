package timer

import "time"

// Expired reports whether a door opened at openedAt has dwelt for at least
// dwell by now. Door timers are polled by the control loop, not scheduled.
func Expired(openedAt, now time.Time, dwell time.Duration) bool {
	return now.Sub(openedAt) >= dwell
}

// Remaining is the time left before the door at openedAt is due to close.
func Remaining(openedAt, now time.Time, dwell time.Duration) time.Duration {
	left := dwell - now.Sub(openedAt)
	if left < 0 {
		return 0
	}
	return left
}
