package deferblock

import "github.com/a-h/templ"

// HoverTrigger registers mouseenter on the resolved anchor (§4.B).
type HoverTrigger struct {
	ref      string
	resolved string
	ok       bool
	fired    bool
	onFire   FireFunc
}

// Hover builds an `on hover[(ref)]` trigger.
func Hover(ref string) *HoverTrigger {
	return &HoverTrigger{ref: ref}
}

func (t *HoverTrigger) kind() string { return "hover" }

// Resolve looks up the anchor against scope.
func (t *HoverTrigger) Resolve(scope *ViewScope) error {
	sel, ok := scope.Resolve(t.ref)
	t.resolved, t.ok = sel, ok
	if !ok {
		return ErrUnresolvedTrigger
	}
	return nil
}

// Arm remembers the fire callback for the mouseenter request.
func (t *HoverTrigger) Arm(onFire FireFunc, ch Channel) error {
	if !t.ok {
		return ErrUnresolvedTrigger
	}
	t.onFire = onFire
	return nil
}

func (t *HoverTrigger) Disarm() {
	t.onFire = nil
}

// Fire is called by Tick's dispatch once the browser's mouseenter request
// actually reaches the server.
func (t *HoverTrigger) Fire() {
	if t.fired || t.onFire == nil {
		return
	}
	t.fired = true
	f := t.onFire
	t.onFire = nil
	f()
}

// Attrs renders hx-get + hx-trigger="mouseenter once" targeting fireURL.
func (t *HoverTrigger) Attrs(fireURL string) templ.Attributes {
	if !t.ok {
		return templ.Attributes{}
	}
	return templ.Attributes{
		"hx-get":     fireURL,
		"hx-trigger": "mouseenter once",
		"hx-swap":    string(SwapOuter),
	}
}
