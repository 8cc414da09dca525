// Package deferblock provides a server-rendered defer-block runtime for
// building lazily-loaded regions of a page using Go, Templ templates, and
// HTMX.
//
// A defer block is a templated region that starts out as a placeholder and
// swaps through loading/main/error states as its dependency bundle resolves
// and one of its triggers fires. deferblock plays the same role in an HTMX
// page that a framework's `@defer` block plays in a client-rendered one,
// adapted to a stateless HTTP server: instead of a long-lived in-memory
// instance, each request carries a signed state token that round-trips the
// instance's progress through the state machine.
//
// # Core Concepts
//
// A Descriptor is the immutable, per-template-site definition: the four
// sub-template factories (main, and optionally placeholder/loading/error),
// the dependency Loader, and the trigger spec for the Main and Prefetch
// channels.
//
//	desc := deferblock.NewDescriptor("widget", deferblock.Templates{
//	    Main:        renderWidget,
//	    Placeholder: renderSkeleton,
//	    Loading:     renderSpinner,
//	}, loadWidgetBundle)
//	desc.OnViewport(deferblock.Main, "")
//	desc.OnIdle(deferblock.Prefetch)
//
// An Instance is the per-occurrence runtime value. It is constructed fresh
// on every request from the descriptor, a view scope, a scheduler, and the
// Snapshot decoded from the incoming state token, driven through Tick, and
// re-encoded into the response:
//
//	inst := deferblock.NewInstance(desc, scope, sched, snap)
//	inst.Tick(ctx, firedChannel)
//	deferblock.RenderState(ctx, w, inst, nil)
//
// # Triggers
//
// Seven trigger kinds are recognised, matching the authoring grammar `when`,
// `on immediate`, `on idle`, `on timer(ms)`, `on interaction`, `on hover`,
// and `on viewport` — each armed independently per channel (Main or
// Prefetch) and guaranteed to fire at most once per (instance, channel)
// pair. DOM-bound kinds (interaction/hover/viewport) render as hx-trigger
// attributes on the placeholder; arming them never touches a real DOM, it
// only decides what HTML to emit.
//
// # Registration and Routing
//
// Descriptors are registered with a Registry, which owns the registered
// descriptors, the signed state-token codec, the scheduler, and HTTP
// dispatch (each descriptor keeps its own memoized dependency-loader
// future; the idle queue is process-wide). A nil scheduler defaults to a
// real clock on PlatformHTMX:
//
//	reg := deferblock.NewRegistry(signingKey, nil)
//	reg.Add(widgetDescriptor)
//	http.Handle("/_defer/", reg.Handler())
//
// # Design Rationale
//
// The system favors explicitness over magic, following the same rationale
// as the component framework it's adapted from: explicit registration, an
// explicit state machine instead of implicit re-renders, explicit
// communication via events, and an explicit interceptor hook for test
// injection of the dependency loader.
package deferblock
