package deferblock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/a-h/templ"
)

// deferPrefix is the path segment every registered descriptor's render and
// fire routes are mounted under.
const deferPrefix = "/_defer/"

// Registry owns every registered Descriptor, the signed state codec, and
// the scheduler instances are ticked against. It dispatches both the
// initial render of a defer block and the fire requests its DOM-bound
// triggers produce — the server-side half of the wiring a template
// compiler would otherwise have generated (§6).
type Registry struct {
	mu          sync.RWMutex
	state       *StateEncoding
	descriptors map[string]*Descriptor
	sched       *Scheduler

	// OnError is called when dispatch fails before an Instance could be
	// ticked: an unknown descriptor id, a token that failed to decode.
	// Customize to control the response shape; defaults to plain-text
	// 404/400/500 by error kind.
	OnError func(http.ResponseWriter, *http.Request, error)

	// OnDiagnostic, if set via SetOnDiagnostic, additionally receives every
	// non-fatal Diagnostic the runtime would otherwise only log (§7).
	OnDiagnostic func(Diagnostic)
}

// NewRegistry builds a Registry. signingKey authenticates every state
// token (stretched to 32 bytes internally if shorter); a nil sched
// defaults to RealClock on PlatformHTMX.
func NewRegistry(signingKey []byte, sched *Scheduler) *Registry {
	enc, err := NewStateEncoding(signingKey)
	if err != nil {
		panic(fmt.Sprintf("deferblock: failed to build state encoding: %v", err))
	}
	if sched == nil {
		sched = NewScheduler(nil, PlatformHTMX)
	}

	reg := &Registry{
		state:       enc,
		descriptors: make(map[string]*Descriptor),
		sched:       sched,
	}

	reg.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		switch {
		case IsNotFound(err):
			http.Error(w, "Not found", http.StatusNotFound)
		case IsDecryptionError(err) || errors.Is(err, ErrInvalidFormat):
			http.Error(w, "Bad request", http.StatusBadRequest)
		default:
			http.Error(w, "Internal error", http.StatusInternalServerError)
		}
	}

	return reg
}

// SetOnDiagnostic installs fn as both the registry's own diagnostic hook
// and the process-wide sink logging.go reports through, so a disposer
// panic or an unresolved trigger anchor reaches a host's observability
// stack even though it originates deep inside an Instance.Tick the
// registry never directly called.
func (reg *Registry) SetOnDiagnostic(fn func(Diagnostic)) *Registry {
	reg.OnDiagnostic = fn
	diagnosticHandler = fn
	return reg
}

// StateEncoding exposes the registry's token codec, for a host page that
// needs to mint a fire URL for content it rendered outside RenderState
// (e.g. a custom placeholder template building its own anchor markup).
func (reg *Registry) StateEncoding() *StateEncoding {
	return reg.state
}

// Scheduler exposes the registry's Scheduler, for a host page building the
// creation-pass Instance itself (§4.G step 1: rendering the placeholder
// and arming its triggers happens before the registry ever sees a
// request — Handler only answers the fire round trip that follows).
func (reg *Registry) Scheduler() *Scheduler {
	return reg.sched
}

// Mount performs a defer block's creation pass: builds a fresh Instance at
// the zero Snapshot, arms whichever triggers the descriptor declares
// (without a fired channel — a page load never itself hits a fire URL),
// and renders the resulting sub-view (ordinarily the Placeholder). attrs
// carries the hx-trigger wiring a DOM-bound trigger needs, keyed by
// channel, for the host template to spread onto the anchor its scope
// resolves for that channel; a headless platform or a descriptor with no
// DOM-bound trigger on a channel yields empty attrs for it.
func (reg *Registry) Mount(ctx context.Context, w io.Writer, desc *Descriptor, scope *ViewScope) (Snapshot, map[Channel]templ.Attributes, error) {
	if scope == nil {
		scope = RootScope()
	}
	inst := NewInstance(desc, scope, reg.sched, Snapshot{})
	if err := inst.Tick(ctx, nil); err != nil {
		return Snapshot{}, nil, err
	}

	snap := inst.Snapshot()
	attrs := map[Channel]templ.Attributes{
		Main:     inst.TriggerAttrs(Main, reg.FireURL(desc, Main, snap)),
		Prefetch: inst.TriggerAttrs(Prefetch, reg.FireURL(desc, Prefetch, snap)),
	}

	if err := RenderState(ctx, w, inst, nil); err != nil {
		return snap, attrs, err
	}
	return snap, attrs, nil
}

// Add registers one or more descriptors. Panics on an id collision —
// descriptor ids are derived from name + source location (descriptor.go),
// so a collision means two registrations really do refer to the same
// template site.
func (reg *Registry) Add(descs ...*Descriptor) *Registry {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, d := range descs {
		if _, exists := reg.descriptors[d.ID()]; exists {
			panic(fmt.Sprintf("deferblock: descriptor id collision for %q (%s)", d.ID(), d.Name()))
		}
		reg.descriptors[d.ID()] = d
	}
	return reg
}

// FireURL builds the URL a DOM-bound trigger's hx-get should target:
// the descriptor and channel embedded in the path, the current snapshot
// signed into the query string so the following request can resume
// exactly where this render left off.
func (reg *Registry) FireURL(desc *Descriptor, ch Channel, snap Snapshot) string {
	token, _ := reg.state.Encode(snap)
	return fmt.Sprintf("%s%s/%s?s=%s", deferPrefix, desc.ID(), ch.String(), url.QueryEscape(token))
}

// Handler returns the HTTP handler for every registered descriptor's
// render and fire routes. Mount at deferPrefix ("/_defer/").
func (reg *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CSRF protection, same as the teacher's component routes: mutating
		// methods require the HTMX extension's HX-Request header, since a
		// fire request always originates from hx-get/hx-trigger wiring.
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			if !IsHTMX(r) {
				http.Error(w, "Forbidden: HTMX request required", http.StatusForbidden)
				return
			}
		}
		reg.serve(w, r)
	})
}

func (reg *Registry) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, deferPrefix)
	parts := strings.SplitN(path, "/", 2)

	reg.mu.RLock()
	desc, ok := reg.descriptors[parts[0]]
	reg.mu.RUnlock()
	if !ok {
		reg.OnError(w, r, ErrNotFound)
		return
	}

	var fired *Channel
	if len(parts) == 2 && parts[1] != "" {
		ch, ok := parseChannel(parts[1])
		if !ok {
			reg.OnError(w, r, ErrNotFound)
			return
		}
		fired = &ch
	}

	snap, err := reg.state.Decode(r.URL.Query().Get("s"))
	if err != nil {
		reg.OnError(w, r, err)
		return
	}

	inst := NewInstance(desc, RootScope(), reg.sched, snap)
	if err := inst.Tick(r.Context(), fired); err != nil {
		reg.OnError(w, r, err)
		return
	}

	reg.respond(w, r, inst)
}

// respond applies an Instance's settled FireResult to the response and
// renders its current sub-view.
func (reg *Registry) respond(w http.ResponseWriter, r *http.Request, inst *Instance) {
	result := inst.Result()
	for k, v := range result.Headers() {
		w.Header().Set(k, v)
	}
	if event, data := result.TriggerEvent(); event != "" {
		w.Header().Set("HX-Trigger", BuildTriggerHeader(event, data))
	}
	if after := result.AfterSettleEvent(); after != "" {
		w.Header().Set("HX-Trigger-After-Settle", after)
	}
	if token, err := reg.state.Encode(inst.Snapshot()); err == nil {
		w.Header().Set("HX-Defer-State", token)
	}

	status := result.StatusCode()
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	_ = RenderState(r.Context(), w, inst, nil)

	if flashes := result.Flashes(); len(flashes) > 0 {
		io.WriteString(w, RenderFlashesOOB(flashes))
	}
}

func parseChannel(s string) (Channel, bool) {
	switch s {
	case "main":
		return Main, true
	case "prefetch":
		return Prefetch, true
	default:
		return 0, false
	}
}
