package deferblock

import "time"

// Disposer releases whatever a Scheduler call armed. Calling it more than
// once is a no-op — see cleanup.go for the registry that enforces this.
type Disposer func()

// Platform gates which trigger kinds are live. On PlatformHeadless,
// interaction/hover/viewport arm as no-ops and never fire (§8.8); when and
// immediate remain active on every platform.
type Platform int

const (
	// PlatformHTMX is the default: DOM-bound triggers render hx-trigger
	// wiring and wait for the browser's follow-up request.
	PlatformHTMX Platform = iota
	// PlatformHeadless is used for non-interactive rendering (exports,
	// JSON API responses) where DOM-bound triggers can never fire.
	PlatformHeadless
)

// Clock abstracts time so idle/timer triggers are deterministic under test,
// the same way the teacher's testing.go fakes the HTTP transport instead of
// hitting a real network.
type Clock interface {
	// AfterFunc schedules f to run after d and returns a Disposer that
	// cancels it if it hasn't fired yet.
	AfterFunc(d time.Duration, f func()) Disposer
	// Now reports the current time.
	Now() time.Time
}

// realClock is the production Clock, backed by the runtime timer wheel.
type realClock struct{}

// RealClock is the default production Clock.
var RealClock Clock = realClock{}

func (realClock) AfterFunc(d time.Duration, f func()) Disposer {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

func (realClock) Now() time.Time { return time.Now() }

// Scheduler wraps the three suspension points the runtime is allowed (§5):
// awaiting the dependency promise, waiting on an idle callback, and waiting
// on a DOM event. Production wiring uses RealClock and renders hx-trigger
// attributes for DOM-bound kinds; tests substitute a fake Clock.
type Scheduler struct {
	clock    Clock
	platform Platform
}

// NewScheduler builds a Scheduler. A nil clock defaults to RealClock.
func NewScheduler(clock Clock, platform Platform) *Scheduler {
	if clock == nil {
		clock = RealClock
	}
	return &Scheduler{clock: clock, platform: platform}
}

// OnTimeout arms a one-shot timer, matching the `on timer(ms)` trigger.
func (s *Scheduler) OnTimeout(d time.Duration, f func()) Disposer {
	return s.clock.AfterFunc(d, f)
}

// Now reports the current time on the scheduler's clock.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// DOMActive reports whether DOM-bound trigger kinds may arm on this
// platform.
func (s *Scheduler) DOMActive() bool {
	return s.platform != PlatformHeadless
}

// Clock exposes the scheduler's underlying Clock, used by instance.go to
// build fresh per-tick trigger values from a descriptor's factories.
func (s *Scheduler) Clock() Clock {
	return s.clock
}
