// Package deferblockchi mounts a deferblock Registry's render/fire routes
// onto a chi router, with an optional CORS policy for cross-origin HTMX
// hosts (e.g. a separately-deployed static shell embedding widgets served
// from this process).
//
//	r := chi.NewRouter()
//	reg := deferblockchi.Mount(r, signingKey)
//	reg.Add(dashboard.Descriptors...)
package deferblockchi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/riftlab/deferblock"
)

// mountPath is fixed to the registry's own "/_defer/" route prefix:
// Registry.FireURL always emits paths rooted there, so mounting anywhere
// else would desync the fire URLs a render emits from the routes the
// handler actually answers.
const mountPath = "/_defer/*"

// Option configures Mount.
type Option func(*options)

type options struct {
	sched       *deferblock.Scheduler
	corsOrigins []string
}

// WithScheduler overrides the registry's clock and DOM-activity platform.
// Defaults to a real clock on PlatformHTMX.
func WithScheduler(sched *deferblock.Scheduler) Option {
	return func(o *options) { o.sched = sched }
}

// WithCORSOrigins installs a permissive-methods CORS policy scoped to the
// given origins ahead of the registry's handler, for a host page served
// from a different origin than this process.
func WithCORSOrigins(origins ...string) Option {
	return func(o *options) { o.corsOrigins = origins }
}

// Mount creates a Registry and mounts its handler on a chi router.
// signingKey authenticates every state token; see deferblock.NewRegistry.
func Mount(r chi.Router, signingKey []byte, opts ...Option) *deferblock.Registry {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	reg := deferblock.NewRegistry(signingKey, o.sched)

	var handler http.Handler = reg.Handler()
	if len(o.corsOrigins) > 0 {
		handler = cors.Handler(cors.Options{
			AllowedOrigins:   o.corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodPost},
			AllowedHeaders:   []string{"HX-Request", "HX-Current-URL", "HX-Target"},
			ExposedHeaders:   []string{"HX-Trigger", "HX-Trigger-After-Settle", "HX-Defer-State"},
			AllowCredentials: true,
		})(handler)
	}

	r.Handle(mountPath, handler)
	return reg
}
