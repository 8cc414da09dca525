package deferblock

import "github.com/a-h/templ"

// InteractionTrigger registers click and keydown on the resolved anchor
// (§4.B). On the server this means rendering an hx-trigger="click once,
// keydown once" pair on that anchor; the fire is the resulting HTTP request,
// which Fire represents. Once either event arrives, the other is moot — a
// fresh request against an already-fired channel is simply ignored (§8.1).
type InteractionTrigger struct {
	ref      string
	resolved string
	ok       bool
	fired    bool
	onFire   FireFunc
}

// Interaction builds an `on interaction[(ref)]` trigger. An empty ref means
// the implicit anchor: the placeholder's first node. Using an implicit
// anchor without a placeholder is a compile-time error upstream; here it
// simply fails to resolve and the trigger stays inert.
func Interaction(ref string) *InteractionTrigger {
	return &InteractionTrigger{ref: ref}
}

func (t *InteractionTrigger) kind() string { return "interaction" }

// Resolve looks up the anchor against scope. Called by the instance
// controller once the placeholder has rendered, before Arm.
func (t *InteractionTrigger) Resolve(scope *ViewScope) error {
	sel, ok := scope.Resolve(t.ref)
	t.resolved, t.ok = sel, ok
	if !ok {
		return ErrUnresolvedTrigger
	}
	return nil
}

// Arm remembers the fire callback. The real arming — the hx-trigger markup
// the browser acts on — is produced by Attrs; this only wires what happens
// when the resulting request reaches Fire.
func (t *InteractionTrigger) Arm(onFire FireFunc, ch Channel) error {
	if !t.ok {
		return ErrUnresolvedTrigger
	}
	t.onFire = onFire
	return nil
}

// Disarm clears the pending callback so a late-arriving request no-ops.
func (t *InteractionTrigger) Disarm() {
	t.onFire = nil
}

// Fire is called by Tick's dispatch once the browser's click/keydown
// request actually reaches the server. At most the first call has effect
// (§8.1).
func (t *InteractionTrigger) Fire() {
	if t.fired || t.onFire == nil {
		return
	}
	t.fired = true
	f := t.onFire
	t.onFire = nil
	f()
}

// Attrs renders hx-get + hx-trigger="click once, keydown once" targeting
// fireURL, or no attributes if the anchor never resolved.
func (t *InteractionTrigger) Attrs(fireURL string) templ.Attributes {
	if !t.ok {
		return templ.Attributes{}
	}
	return templ.Attributes{
		"hx-get":     fireURL,
		"hx-trigger": "click once, keydown once",
		"hx-swap":    string(SwapOuter),
	}
}
