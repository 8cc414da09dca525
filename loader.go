package deferblock

import (
	"context"
	"sync"
)

// Bundle is the ordered set of resolved directive/component/pipe
// definitions a dependency loader produces (§3). deferblock does not
// interpret its contents — it is opaque payload the host's Render
// factories know how to use once the main state reaches Complete.
type Bundle []any

// Loader is the compiler-emitted async dependency producer (§6). It must
// never panic across the call boundary that owns it — Descriptor.Load
// recovers a panic into a rejected future so a buggy loader cannot take
// down the request.
type Loader func(ctx context.Context) (Bundle, error)

// Interceptor transforms a raw Loader, installed per descriptor through
// Descriptor.Intercept for test injection (§6); there is no registry-wide
// installation point. The identity interceptor (nil) leaves the loader
// untouched. An interceptor must preserve the at-most-once contract — it
// wraps, it does not replace, the memoization in future.
type Interceptor func(Loader) Loader

// future memoizes a Loader so it runs at most once regardless of how many
// goroutines (main and prefetch channels, across however many concurrent
// requests observe the same descriptor) call resolve concurrently (§4.D,
// §8.2). Unlike the single-threaded source runtime, a Go server's
// channels really can race, so this uses sync.Once rather than relying on
// cooperative scheduling.
type future struct {
	once   sync.Once
	bundle Bundle
	err    error
}

func (f *future) resolve(ctx context.Context, load Loader) (Bundle, error) {
	f.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				f.bundle, f.err = nil, ErrLoaderRejected
			}
		}()
		loaderInvocations.Inc()
		f.bundle, f.err = load(ctx)
		if f.err != nil {
			f.err = ErrLoaderRejected
		}
	})
	return f.bundle, f.err
}

