// Package deferblockecho mounts a deferblock Registry's render/fire routes
// onto an Echo instance or group.
//
//	e := echo.New()
//	reg := deferblockecho.Mount(e, signingKey)
//	reg.Add(dashboard.Descriptors...)
//
// Or mount on a group so defer-block routes share middleware (auth,
// logging) with the rest of the app:
//
//	g := e.Group("/app", authMiddleware)
//	reg := deferblockecho.MountGroup(g, signingKey)
//	reg.Add(dashboard.Descriptors...)
package deferblockecho

import (
	"github.com/labstack/echo/v4"
	"github.com/riftlab/deferblock"
)

// mountPath is fixed to the registry's own "/_defer/" route prefix:
// Registry.FireURL always emits paths rooted there, so mounting anywhere
// else would desync the fire URLs a render emits from the routes the
// handler actually answers.
const mountPath = "/_defer/*"

// Option configures Mount and MountGroup.
type Option func(*options)

type options struct {
	sched *deferblock.Scheduler
}

// WithScheduler overrides the registry's clock and DOM-activity platform.
// Defaults to a real clock on PlatformHTMX.
func WithScheduler(sched *deferblock.Scheduler) Option {
	return func(o *options) { o.sched = sched }
}

// Mount creates a Registry and mounts its handler on an Echo instance.
// signingKey authenticates every state token; see deferblock.NewRegistry.
func Mount(e *echo.Echo, signingKey []byte, opts ...Option) *deferblock.Registry {
	o := resolve(opts)
	reg := deferblock.NewRegistry(signingKey, o.sched)
	e.Any(mountPath, echo.WrapHandler(reg.Handler()))
	return reg
}

// MountGroup creates a Registry and mounts its handler on an Echo group,
// so defer-block routes inherit the group's middleware chain.
func MountGroup(g *echo.Group, signingKey []byte, opts ...Option) *deferblock.Registry {
	o := resolve(opts)
	reg := deferblock.NewRegistry(signingKey, o.sched)
	g.Any(mountPath, echo.WrapHandler(reg.Handler()))
	return reg
}

func resolve(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
