package auth

import "time"

// Timer is a scheduled call that can be cancelled.
type Timer interface {
	// Stop prevents the call from firing. It returns false if the call already fired or was stopped.
	Stop() bool
}

// Clock tells the time and schedules deferred calls.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock is the Clock backed by package time.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
