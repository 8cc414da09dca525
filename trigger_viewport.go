package deferblock

import "github.com/a-h/templ"

// ViewportTrigger observes the resolved anchor through the shared viewport
// set, firing on first intersection (§4.B). The intersection test itself
// is delegated to the browser via HTMX's "intersect" trigger — the server
// side only tracks how many subscriptions are outstanding.
type ViewportTrigger struct {
	ref      string
	resolved string
	ok       bool
	fired    bool
	onFire   FireFunc
	dispose  Disposer
}

// Viewport builds an `on viewport[(ref)]` trigger.
func Viewport(ref string) *ViewportTrigger {
	return &ViewportTrigger{ref: ref}
}

func (t *ViewportTrigger) kind() string { return "viewport" }

// Resolve looks up the anchor against scope.
func (t *ViewportTrigger) Resolve(scope *ViewScope) error {
	sel, ok := scope.Resolve(t.ref)
	t.resolved, t.ok = sel, ok
	if !ok {
		return ErrUnresolvedTrigger
	}
	return nil
}

// Arm registers the subscription in the shared viewport set and remembers
// the fire callback for the resulting "intersect" request.
func (t *ViewportTrigger) Arm(onFire FireFunc, ch Channel) error {
	if !t.ok {
		return ErrUnresolvedTrigger
	}
	t.onFire = onFire
	t.dispose = globalViewportSet.add()
	return nil
}

// Disarm removes the subscription from the shared set; once the set
// empties it is considered disconnected (§5).
func (t *ViewportTrigger) Disarm() {
	if t.dispose != nil {
		t.dispose()
		t.dispose = nil
	}
	t.onFire = nil
}

// Fire is called by Tick's dispatch once the browser's intersection-
// triggered request actually reaches the server.
func (t *ViewportTrigger) Fire() {
	if t.fired || t.onFire == nil {
		return
	}
	t.fired = true
	f := t.onFire
	t.Disarm()
	f()
}

// Attrs renders hx-get + hx-trigger="intersect once" targeting fireURL.
func (t *ViewportTrigger) Attrs(fireURL string) templ.Attributes {
	if !t.ok {
		return templ.Attributes{}
	}
	return templ.Attributes{
		"hx-get":     fireURL,
		"hx-trigger": "intersect once",
		"hx-swap":    string(SwapOuter),
	}
}
