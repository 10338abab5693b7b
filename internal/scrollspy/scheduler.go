package scrollspy

import (
	"time"

	"k8s.io/utils/clock"
)

// Timer is a pending expiry that can be cancelled.
type Timer interface {
	// Stop cancels the timer. It reports false when the timer already
	// fired or was stopped.
	Stop() bool
}

// Scheduler runs f once after d. Implementations must invoke f on the
// goroutine that drives the coordinator.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// ClockScheduler schedules on a k8s clock. A real clock fires on its own
// goroutine, so Post must hand f back to the coordinator's goroutine; with a
// fake clock Post can be nil and f runs inside Step.
type ClockScheduler struct {
	Clock clock.WithDelayedExecution
	Post  func(f func())
}

// AfterFunc implements Scheduler.
func (s ClockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	if s.Post == nil {
		return s.Clock.AfterFunc(d, f)
	}
	post := s.Post
	return s.Clock.AfterFunc(d, func() { post(f) })
}
