package deferblock

import (
	"context"

	"github.com/a-h/templ"
)

// Snapshot is the whole of an instance's state that must survive a
// stateless round trip, encoded into the signed token the host page embeds
// in its markup and decoded back on the following request (encoder.go).
// Everything else an Instance needs — the dependency bundle, trigger
// wiring, the cleanup registry — is rebuilt fresh on every Tick rather than
// serialized, the same way the descriptor's memoized future outlives any
// one instance without ever crossing the wire itself.
type Snapshot struct {
	Main     MainState
	Prefetch PrefetchState
}

// Instance is the per-occurrence runtime value of §3/§4.G, reconstructed
// on every request from a Descriptor and the previous Snapshot rather than
// kept alive as a long-lived object. One Tick call plays out whichever of
// the six steps in §4.G apply to this request: triggers the creation pass
// never got to arm are armed now, a fire recorded by the caller (the
// request that hit a trigger's fire URL) is applied, and the loader is
// awaited inline wherever the state machine says to await it — a blocking
// call stands in for "suspend" on a platform with no cooperative scheduler
// to yield to.
type Instance struct {
	desc    *Descriptor
	scope   *ViewScope
	sched   *Scheduler
	cleanup *CleanupRegistry

	main     MainState
	prefetch PrefetchState
	bundle   Bundle
	result   FireResult

	mainTriggers     []Trigger
	prefetchTriggers []Trigger
}

// NewInstance reconstructs an instance from desc, the view scope its
// placeholder (if any) resolved anchors against, a scheduler, and the
// snapshot decoded from the incoming request's state token. A zero
// Snapshot is the creation pass: Placeholder/NotStarted.
func NewInstance(desc *Descriptor, scope *ViewScope, sched *Scheduler, snap Snapshot) *Instance {
	return &Instance{
		desc:     desc,
		scope:    scope,
		sched:    sched,
		cleanup:  NewCleanupRegistry(),
		main:     snap.Main,
		prefetch: snap.Prefetch,
	}
}

// MainState reports the instance's current rendered state.
func (inst *Instance) MainState() MainState { return inst.main }

// PrefetchState reports the instance's current prefetch state.
func (inst *Instance) PrefetchState() PrefetchState { return inst.prefetch }

// Bundle returns the dependency bundle resolved so far, nil until the main
// channel has reached Complete (or a prefetch already cached it).
func (inst *Instance) Bundle() Bundle { return inst.bundle }

// Snapshot captures the instance's survivable state for re-encoding into
// the response.
func (inst *Instance) Snapshot() Snapshot {
	return Snapshot{Main: inst.main, Prefetch: inst.prefetch}
}

// Result returns the FireResult produced by the descriptor's OnSettled
// hook on this tick, or Proceed()'s no-op result if main didn't settle
// this tick or no hook is registered.
func (inst *Instance) Result() FireResult {
	return inst.result
}

// Tick runs one pass of the instance controller (§4.G, steps 2-6; step 1,
// rendering the placeholder, is the caller's job via RenderState before
// Tick is ever called on the creation pass). fired, if non-nil, names the
// channel whose fire URL the current request actually hit — the server
// equivalent of a DOM event or a when-expression reading true reaching the
// task loop. A nil fired is a plain re-render: arm whatever hasn't armed
// yet, poll `when` expressions, and otherwise leave state untouched.
func (inst *Instance) Tick(ctx context.Context, fired *Channel) error {
	clock := inst.sched.Clock()

	if inst.prefetch == NotStarted {
		inst.prefetchTriggers = inst.armTriggers(inst.desc.prefetchFactories, clock, Prefetch, func() {
			inst.handlePrefetchFire(ctx)
		})
		pollWhenTriggers(inst.prefetchTriggers)
	}
	if !inst.main.Terminal() {
		inst.mainTriggers = inst.armTriggers(inst.desc.mainFactories, clock, Main, func() {
			inst.handleMainFire(ctx)
		})
		pollWhenTriggers(inst.mainTriggers)
	}

	if fired != nil {
		switch *fired {
		case Main:
			if !dispatchFire(inst.mainTriggers) {
				inst.handleMainFire(ctx)
			}
		case Prefetch:
			if !dispatchFire(inst.prefetchTriggers) {
				inst.handlePrefetchFire(ctx)
			}
		}
	}

	// Step 6: nothing outlives one request — every subscription armed this
	// tick (timers, idle arming, viewport membership) is released once the
	// response is about to be written, matching "destroying an instance
	// cancels all outstanding subscriptions" for a controller that is, by
	// construction, destroyed at the end of every Tick.
	inst.cleanup.Release()
	return nil
}

// armTriggers instantiates one Trigger per factory, resolves DOM-bound
// anchors against the instance's scope, arms each, and registers its
// Disarm with the cleanup registry. Unresolved DOM-bound triggers are
// logged and skipped rather than treated as fatal (§7); on a platform where
// the scheduler reports DOM activity off, DOM-bound triggers are skipped
// silently and never armed.
func (inst *Instance) armTriggers(factories []triggerFactory, clock Clock, ch Channel, onFire FireFunc) []Trigger {
	if len(factories) == 0 {
		return nil
	}
	triggers := make([]Trigger, 0, len(factories))
	for _, f := range factories {
		t := f(clock)

		if resolver, ok := t.(interface{ Resolve(*ViewScope) error }); ok {
			if !inst.sched.DOMActive() {
				continue
			}
			if err := resolver.Resolve(inst.scope); err != nil {
				logUnresolvedTrigger(triggerKind(t), inst.desc.ID(), "")
				continue
			}
		}

		kind := triggerKind(t)
		wrapped := func() {
			triggerFires.WithLabelValues(kind, ch.String()).Inc()
			onFire()
		}
		if err := t.Arm(wrapped, ch); err != nil {
			logUnresolvedTrigger(kind, inst.desc.ID(), "")
			continue
		}
		inst.cleanup.Add(t.Disarm)
		triggers = append(triggers, t)
	}
	return triggers
}

// pollWhenTriggers evaluates every `when` trigger's expression once, the
// stand-in for "read each change-detection pass" on a server that has no
// persistent task loop to run the expression on in the background.
func pollWhenTriggers(triggers []Trigger) {
	for _, t := range triggers {
		if w, ok := t.(*WhenTrigger); ok {
			w.Poll()
		}
	}
}

// firer is implemented by the trigger kinds whose fire is itself the
// browser's request reaching the fire endpoint (interaction, hover,
// viewport) — each owns a single-fire guard of its own. dispatchFire
// drives the incoming request through that guard instead of bypassing it,
// so Fire's doc comments describe what actually happens rather than a
// parallel, unused code path.
type firer interface {
	Fire()
}

// dispatchFire calls Fire on the first armed trigger that implements
// firer, reporting whether one was found — matching "whichever fires
// first wins" for a channel with more than one trigger registered (§3):
// the incoming request carries no information about which specific
// trigger produced it, but every firer on a channel wraps the same
// onFire, so any one of them applies the fire exactly once. Triggers that
// don't observe the browser event this way (immediate, when, idle, timer)
// leave dispatchFire reporting false; the caller falls back to applying
// the channel's fire directly, which is how their own arming callbacks
// already reach Tick's handlers.
func dispatchFire(triggers []Trigger) bool {
	for _, t := range triggers {
		if f, ok := t.(firer); ok {
			f.Fire()
			return true
		}
	}
	return false
}

// triggerKind reports a trigger's authoring keyword for diagnostics,
// falling back to "unknown" for a Trigger implementation that doesn't
// declare one (there shouldn't be one in this package, but the type
// assertion keeps a host's custom trigger kind from panicking here).
func triggerKind(t Trigger) string {
	if kn, ok := t.(kindName); ok {
		return kn.kind()
	}
	return "unknown"
}

// handleMainFire applies §4.E's main-channel transition for a fire
// observed on this tick, loading the dependency bundle inline wherever the
// state machine calls for awaiting it (Loading) or simply fetching the
// already-cached result (Complete via a prior prefetch).
func (inst *Instance) handleMainFire(ctx context.Context) {
	next, _, err := mainFire(inst.main, inst.prefetch)
	if err != nil {
		logIllegalTransition(inst.desc.ID(), inst.main.String(), "main-fire")
		return
	}
	inst.main = next

	switch next {
	case Complete:
		bundle, _ := inst.desc.Load(ctx)
		inst.bundle = bundle
		inst.settle(ctx, bundle, nil)
	case Loading:
		bundle, loadErr := inst.desc.Load(ctx)
		ok := loadErr == nil
		final, terr := loadSettled(Loading, ok)
		if terr != nil {
			logIllegalTransition(inst.desc.ID(), Loading.String(), "load-settled")
			return
		}
		inst.main = final
		if ok {
			inst.bundle = bundle
			inst.settle(ctx, bundle, nil)
		} else {
			logLoaderRejected(inst.desc.ID(), loadErr)
			inst.settle(ctx, nil, loadErr)
		}
	case Failed:
		inst.settle(ctx, nil, ErrLoaderRejected)
	}
	stateTransitions.WithLabelValues(inst.main.String()).Inc()
}

// settle invokes the descriptor's OnSettled hook, if any, once main has
// reached a terminal state, capturing the produced FireResult for the
// Registry to apply to the response.
func (inst *Instance) settle(ctx context.Context, bundle Bundle, err error) {
	if inst.desc.onSettled == nil {
		return
	}
	inst.result = inst.desc.onSettled(ctx, bundle, err)
}

// handlePrefetchFire applies §4.E's prefetch-channel transition, which
// always invokes the loader (prefetch only ever fires from NotStarted)
// and never affects the rendered view directly — only the shared future
// the main channel later observes.
func (inst *Instance) handlePrefetchFire(ctx context.Context) {
	next, mustLoad, err := prefetchFire(inst.prefetch)
	if err != nil {
		logIllegalTransition(inst.desc.ID(), inst.prefetch.String(), "prefetch-fire")
		return
	}
	inst.prefetch = next
	if !mustLoad {
		return
	}

	bundle, loadErr := inst.desc.Load(ctx)
	ok := loadErr == nil
	final, terr := prefetchSettled(inst.prefetch, ok)
	if terr != nil {
		logIllegalTransition(inst.desc.ID(), inst.prefetch.String(), "prefetch-settled")
		return
	}
	inst.prefetch = final
	if ok {
		inst.bundle = bundle
	} else {
		logLoaderRejected(inst.desc.ID(), loadErr)
	}
}

// TriggerAttrs merges the hx-trigger wiring of every DOM-bound trigger
// armed on ch into one attribute set, for the placeholder template to
// spread onto its resolved anchor. fireURL is the endpoint the browser's
// resulting request should hit. Returns empty attributes once the channel
// has already fired or never armed a DOM-bound trigger (headless platform,
// all triggers unresolved).
func (inst *Instance) TriggerAttrs(ch Channel, fireURL string) templ.Attributes {
	triggers := inst.mainTriggers
	if ch == Prefetch {
		triggers = inst.prefetchTriggers
	}
	attrs := templ.Attributes{}
	for _, t := range triggers {
		dom, ok := t.(DOMTrigger)
		if !ok {
			continue
		}
		for k, v := range dom.Attrs(fireURL) {
			attrs[k] = v
		}
	}
	return attrs
}
