package deferblock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/a-h/templ"
)

// triggerFactory builds a fresh Trigger for one instance occurrence. A
// Descriptor stores factories, not live Triggers, because the same
// descriptor backs every sibling occurrence in a repeat construct (S5) —
// each needs its own arm/fire/disarm state.
type triggerFactory func(clock Clock) Trigger

// StateTemplate renders one of a defer block's sub-views. bundle is the
// instance's resolved bundle: set when main reached Complete on this tick
// or a prefetch on this tick resolved it (in which case the Placeholder or
// Loading factory receives it too), and nil otherwise, including in Failed.
// projected is the content the enclosing component projected into the
// block's host, propagated unchanged into whichever state's factory
// declares a projection slot (§4.F, §8.7); factories that don't project
// anything simply ignore it.
type StateTemplate func(ctx context.Context, bundle Bundle, projected templ.Component) templ.Component

// Templates groups a defer block's four sub-template factories (§3).
// Placeholder, Loading, and Error are optional — their absence is handled
// per the policies in §4.E (empty region, internal-only Loading, etc.).
type Templates struct {
	Main        StateTemplate
	Placeholder StateTemplate
	Loading     StateTemplate
	Error       StateTemplate
}

// Descriptor is the immutable, per-template-site definition compiled once
// per defer block occurrence in a page (§3). It owns the shared,
// memoized dependency future — cached at the descriptor, not the
// instance, so it survives every instance that's destroyed and is never
// invoked twice (§4.D, §8.2).
type Descriptor struct {
	name   string
	id     string
	tmpl   Templates
	loader Loader

	mainFactories     []triggerFactory
	prefetchFactories []triggerFactory

	future    *future
	onSettled func(ctx context.Context, bundle Bundle, err error) FireResult
}

// NewDescriptor registers a defer block site. name is a human label (used
// in diagnostics and URLs); tmpl supplies the sub-template factories;
// loader resolves the dependency bundle.
//
//	desc := deferblock.NewDescriptor("widget", deferblock.Templates{
//	    Main:        renderWidget,
//	    Placeholder: renderSkeleton,
//	}, loadWidgetBundle)
func NewDescriptor(name string, tmpl Templates, loader Loader) *Descriptor {
	return &Descriptor{
		name:   name,
		id:     descriptorID(name, 1),
		tmpl:   tmpl,
		loader: loader,
		future: &future{},
	}
}

// on registers a trigger factory against ch. A descriptor may register any
// number of triggers per channel; whichever fires first wins (§3 trigger
// subscription, lifetime ≤ instance lifetime).
func (d *Descriptor) on(ch Channel, f triggerFactory) *Descriptor {
	if ch == Prefetch {
		d.prefetchFactories = append(d.prefetchFactories, f)
	} else {
		d.mainFactories = append(d.mainFactories, f)
	}
	return d
}

// OnWhen registers a `when <expr>` trigger on ch.
func (d *Descriptor) OnWhen(ch Channel, expr func() bool) *Descriptor {
	return d.on(ch, func(Clock) Trigger { return When(expr) })
}

// OnImmediate registers an `on immediate` trigger on ch.
func (d *Descriptor) OnImmediate(ch Channel) *Descriptor {
	return d.on(ch, func(Clock) Trigger { return Immediate() })
}

// OnIdle registers an `on idle` trigger on ch, coalesced against the
// process-wide idle queue.
func (d *Descriptor) OnIdle(ch Channel) *Descriptor {
	return d.on(ch, func(Clock) Trigger { return Idle() })
}

// OnTimer registers an `on timer(ms)` trigger on ch.
func (d *Descriptor) OnTimer(ch Channel, d2 time.Duration) *Descriptor {
	return d.on(ch, func(clock Clock) Trigger { return Timer(d2, clock) })
}

// OnInteraction registers an `on interaction[(ref)]` trigger on ch.
func (d *Descriptor) OnInteraction(ch Channel, ref string) *Descriptor {
	return d.on(ch, func(Clock) Trigger { return Interaction(ref) })
}

// OnHover registers an `on hover[(ref)]` trigger on ch.
func (d *Descriptor) OnHover(ch Channel, ref string) *Descriptor {
	return d.on(ch, func(Clock) Trigger { return Hover(ref) })
}

// OnViewport registers an `on viewport[(ref)]` trigger on ch.
func (d *Descriptor) OnViewport(ch Channel, ref string) *Descriptor {
	return d.on(ch, func(Clock) Trigger { return Viewport(ref) })
}

// OnSettled registers a hook run once per instance the first time its main
// channel reaches Complete or Failed, producing a FireResult the Registry
// applies to the HTTP response (flashes, a cross-component HX-Trigger
// event, headers). A descriptor without a hook settles with Proceed()'s
// no-op result.
func (d *Descriptor) OnSettled(fn func(ctx context.Context, bundle Bundle, err error) FireResult) *Descriptor {
	d.onSettled = fn
	return d
}

// Name returns the descriptor's label.
func (d *Descriptor) Name() string { return d.name }

// ID returns the descriptor's stable identifier, used to route fire
// requests back to the right descriptor.
func (d *Descriptor) ID() string { return d.id }

// Load resolves the dependency bundle, invoking the loader at most once
// for the lifetime of the descriptor (§4.D). Concurrent callers — main and
// prefetch channels from different requests — block on the same call.
func (d *Descriptor) Load(ctx context.Context) (Bundle, error) {
	return d.future.resolve(ctx, d.loader)
}

// Intercept wraps the descriptor's loader with interceptor, matching the
// optional environment-provided capability of §6. Must be called before
// the first Load; calling it afterwards is a no-op protected by the
// future's own memoization (the interceptor would wrap a loader that's
// already been superseded by a cached result).
func (d *Descriptor) Intercept(interceptor Interceptor) *Descriptor {
	if interceptor != nil {
		d.loader = interceptor(d.loader)
	}
	return d
}

// descriptorID derives a deterministic id from the descriptor's name and
// source location, the same technique the teacher's componentHash uses to
// avoid manual coordination between sibling registrations.
func descriptorID(name string, skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	var input string
	if ok {
		input = fmt.Sprintf("%s:%d:%s", filepath.Base(file), line, name)
	} else {
		input = name
	}
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:4])
}
