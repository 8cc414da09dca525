package deferblock

import (
	"fmt"
	"time"

	"github.com/a-h/templ"
)

// TimerTrigger arms a one-shot timeout, matching `on timer(ms)`. Distinct
// from Immediate even at timer(0) — they differ in scheduling boundary
// (immediate runs inline during creation; timer(0) still goes through the
// scheduler), left unmerged per the open question in the runtime design.
// Like IdleTrigger, the real clock.AfterFunc callback armed here is
// released at the end of the Tick that armed it in the plain stateless
// Registry flow, so Attrs — the browser re-requesting the block after the
// same duration via HTMX's delay modifier — is what actually delivers the
// fire; the server-side callback only matters to a host that keeps the
// Instance alive itself.
type TimerTrigger struct {
	d        time.Duration
	clock    Clock
	disposer Disposer
	fired    bool
}

// Timer builds an `on timer(ms)` trigger using clock (nil defaults to
// RealClock).
func Timer(d time.Duration, clock Clock) *TimerTrigger {
	if clock == nil {
		clock = RealClock
	}
	return &TimerTrigger{d: d, clock: clock}
}

func (t *TimerTrigger) kind() string { return "timer" }

// Arm schedules the timeout. If already fired or already armed, Arm is a
// no-op — a trigger fires at most once per (instance, channel) (§8.1).
func (t *TimerTrigger) Arm(onFire FireFunc, ch Channel) error {
	if t.fired || t.disposer != nil {
		return nil
	}
	t.disposer = t.clock.AfterFunc(t.d, func() {
		if t.fired {
			return
		}
		t.fired = true
		t.Disarm()
		if onFire != nil {
			onFire()
		}
	})
	return nil
}

// Disarm cancels the pending timer if it hasn't fired yet.
func (t *TimerTrigger) Disarm() {
	if t.disposer != nil {
		t.disposer()
		t.disposer = nil
	}
}

// Attrs renders hx-get + hx-trigger="load delay:<d>ms" targeting fireURL,
// so the browser re-requests the block once d has elapsed.
func (t *TimerTrigger) Attrs(fireURL string) templ.Attributes {
	return templ.Attributes{
		"hx-get":     fireURL,
		"hx-trigger": fmt.Sprintf("load delay:%dms", t.d.Milliseconds()),
		"hx-swap":    string(SwapOuter),
	}
}
