package deferblock

import (
	"fmt"

	"github.com/a-h/templ"
)

// IdleTrigger arms against the process-wide coalesced idle queue (§4.B,
// §5). However many instances request `on idle`, exactly one idle callback
// is outstanding at a time; when it fires every armed subscriber runs in
// FIFO arming order. The real callback armed here is released with every
// other subscription at the end of the Tick that armed it (instance.go's
// cleanup step) — on a stateless server nothing outlives one request, so
// Attrs is what actually makes `on idle` observable through the plain
// Registry/HTTP integration: it has the browser itself re-issue the fire
// request after the idle window elapses, via HTMX's own delay modifier,
// rather than relying on a callback that dies with the request that armed
// it. A host that keeps an Instance alive across requests (long-poll/SSE)
// can still observe the real callback fire early, before Attrs' delay is
// up; the two mechanisms agree on timing because both read the same
// queue's window.
type IdleTrigger struct {
	queue    *idleQueue
	disposer Disposer
	fired    bool
}

// Idle builds an `on idle` trigger against the process-wide idle queue.
func Idle() *IdleTrigger {
	return &IdleTrigger{queue: globalIdleQueue}
}

func (t *IdleTrigger) kind() string { return "idle" }

// Arm enqueues onFire on the shared idle queue.
func (t *IdleTrigger) Arm(onFire FireFunc, ch Channel) error {
	if t.fired || t.disposer != nil {
		return nil
	}
	t.disposer = t.queue.enqueue(func() {
		if t.fired {
			return
		}
		t.fired = true
		if onFire != nil {
			onFire()
		}
	})
	return nil
}

// Disarm removes the subscription from the idle queue before it flushes.
func (t *IdleTrigger) Disarm() {
	if t.disposer != nil {
		t.disposer()
		t.disposer = nil
	}
}

// Attrs renders hx-get + hx-trigger="load delay:<window>ms" targeting
// fireURL, so the browser re-requests the block once the idle window has
// elapsed — the delay mirrors the process-wide queue's own coalescing
// window (t.queue.window), so every sibling `on idle` occurrence schedules
// the same delay a real idle callback would have waited out.
func (t *IdleTrigger) Attrs(fireURL string) templ.Attributes {
	return templ.Attributes{
		"hx-get":     fireURL,
		"hx-trigger": fmt.Sprintf("load delay:%dms", t.queue.window.Milliseconds()),
		"hx-swap":    string(SwapOuter),
	}
}
