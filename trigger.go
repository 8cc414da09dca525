package deferblock

import "github.com/a-h/templ"

// Channel identifies one of the two independent subscriptions an instance
// maintains — Main drives the rendered view, Prefetch only drives the
// dependency loader. Both channels observe the same shared promise (see
// loader.go).
type Channel int

const (
	// Main is the channel whose fires drive the rendered state machine.
	Main Channel = iota
	// Prefetch is the channel whose fires only warm the dependency loader.
	Prefetch
)

func (c Channel) String() string {
	if c == Prefetch {
		return "prefetch"
	}
	return "main"
}

// FireFunc is invoked by a Trigger when its condition is met. The trigger
// must not invoke it more than once per arm — it is responsible for
// disarming itself before or as part of calling back.
type FireFunc func()

// Trigger is the capability every trigger kind implements: arm(onFire,
// channel), disarm(). The armed callback fires at most once per
// (instance, channel) pair (§8.1).
type Trigger interface {
	// Arm begins watching the condition for ch. If the anchor needed by a
	// DOM-bound trigger cannot be resolved, Arm returns ErrUnresolvedTrigger
	// and the trigger remains inert rather than fatally failing the block.
	Arm(onFire FireFunc, ch Channel) error

	// Disarm releases whatever the trigger is watching (timer, listener,
	// observer entry). Idempotent.
	Disarm()
}

// DOMTrigger is implemented by every trigger kind whose fire must reach
// the server as a browser-issued HTTP request rather than a purely
// server-side callback surviving past the request that armed it:
// interaction, hover, and viewport bind to a real DOM event; idle and
// timer bind to HTMX's own delay modifier instead, since nothing keeps a
// Go callback alive between requests in the plain stateless Registry flow.
// Either way, "arming" is really choosing what hx-trigger attributes to
// emit; the actual wait happens in the browser and reaches the server as
// the resulting HTTP request.
type DOMTrigger interface {
	Trigger
	// Attrs returns the HTMX wiring that, once placed on the resolved
	// anchor, causes the browser to issue a GET against fireURL when the
	// condition is met. Empty when the trigger is inert (platform gate,
	// unresolved anchor).
	Attrs(fireURL string) templ.Attributes
}

// TriggerSpec binds one Trigger to one channel, as authored in the
// compiler-emitted descriptor contract (§6): {kind, channel, anchorRef?,
// param?}.
type TriggerSpec struct {
	Channel Channel
	Trigger Trigger
}

// kindName reports a trigger's authoring keyword, used for diagnostics and
// the generated wire attributes' provenance.
type kindName interface {
	kind() string
}
