package deferblock

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
)

// FakeClock is a deterministic Clock for tests: Now reports whatever the
// clock was last advanced to, and AfterFunc callbacks run synchronously
// from Advance rather than a real timer goroutine. Mirrors the teacher's
// pattern of substituting a fake collaborator instead of hitting a real
// network/timer for a unit test.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeTimer
}

type fakeTimer struct {
	at        time.Time
	f         func()
	cancelled bool
}

// NewFakeClock builds a FakeClock starting at a fixed, arbitrary instant
// rather than time.Now, so tests stay reproducible regardless of when
// they happen to run.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Unix(0, 0)}
}

// Now reports the clock's current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers f to run once the clock has been advanced to or
// past d from now. Returns a Disposer that cancels it if it hasn't run.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Disposer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.pending = append(c.pending, t)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		t.cancelled = true
	}
}

// Advance moves the clock forward by d and runs every timer now due, in
// arming order. A callback that arms a new timer also due at the advanced
// time runs within the same call — matching how a real timer wheel would
// settle a burst of same-tick timers.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	target := c.now
	c.mu.Unlock()

	for {
		due := c.dueTimers(target)
		if len(due) == 0 {
			return
		}
		for _, t := range due {
			t.f()
		}
	}
}

func (c *FakeClock) dueTimers(target time.Time) []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var due, rest []*fakeTimer
	for _, t := range c.pending {
		if t.cancelled {
			continue
		}
		if !t.at.After(target) {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	c.pending = rest
	return due
}

// StubLoader builds a Loader that resolves to bundle/err unconditionally —
// enough for a test Descriptor that doesn't need a real dependency
// resolver. Wrap it in NewCountingLoader to additionally assert §8.2's
// at-most-once invocation.
func StubLoader(bundle Bundle, err error) Loader {
	return func(ctx context.Context) (Bundle, error) {
		return bundle, err
	}
}

// CountingLoader wraps a Loader, counting invocations behind a mutex so a
// test can safely read Count() from the goroutine that called Tick while
// another goroutine races it against the same descriptor's shared future.
type CountingLoader struct {
	mu    sync.Mutex
	count int
	load  Loader
}

// NewCountingLoader wraps load so Count reports how many times it was
// actually invoked underneath the descriptor's memoizing future.
func NewCountingLoader(load Loader) *CountingLoader {
	return &CountingLoader{load: load}
}

// Loader returns the wrapped Loader function to pass to NewDescriptor.
func (c *CountingLoader) Loader() Loader {
	return func(ctx context.Context) (Bundle, error) {
		c.mu.Lock()
		c.count++
		c.mu.Unlock()
		return c.load(ctx)
	}
}

// Count reports how many times the wrapped loader actually ran.
func (c *CountingLoader) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// PlainTemplates builds a Templates set where each sub-view writes only
// its label as the response body — enough for a test asserting on state
// transitions and flashes without authoring a real templ component.
func PlainTemplates() Templates {
	label := func(text string) StateTemplate {
		return func(ctx context.Context, bundle Bundle, projected templ.Component) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				_, err := io.WriteString(w, text)
				return err
			})
		}
	}
	return Templates{
		Main:        label("main"),
		Placeholder: label("placeholder"),
		Loading:     label("loading"),
		Error:       label("error"),
	}
}

// TestResult holds the outcome of one TestTick.Run, mirroring what a real
// Registry.respond would have written to an HTTP response.
type TestResult struct {
	HTML             string
	MainState        MainState
	PrefetchState    PrefetchState
	StatusCode       int
	Headers          map[string]string
	Flashes          []Flash
	TriggerEvent     string
	TriggerData      map[string]any
	AfterSettleEvent string
}

// HTMLContains checks if the rendered HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the rendered HTML contains every substring.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// IsComplete reports whether the main channel settled into Complete.
func (r *TestResult) IsComplete() bool {
	return r.MainState == Complete
}

// IsFailed reports whether the main channel settled into Failed.
func (r *TestResult) IsFailed() bool {
	return r.MainState == Failed
}

// HasFlash checks if a flash message was set with the given level and message.
func (r *TestResult) HasFlash(level, message string) bool {
	for _, f := range r.Flashes {
		if f.Level == level && f.Message == message {
			return true
		}
	}
	return false
}

// HasTrigger checks if the settlement produced the given HX-Trigger event.
func (r *TestResult) HasTrigger(event string) bool {
	return r.TriggerEvent == event
}

// HasHeader checks if a header was set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers[key] == value
}

// TestTick drives one Instance.Tick + RenderState pass against a
// Descriptor and captures the outcome, without needing a real HTTP round
// trip through a Registry. Use the fluent With*/Fire methods to build up
// a request, then Run it:
//
//	result, inst, err := deferblock.NewTestTick(desc, nil).
//	    Fire(deferblock.Main).
//	    Run()
//	if !result.IsComplete() {
//	    t.Fatal("expected main channel to settle")
//	}
type TestTick struct {
	desc  *Descriptor
	scope *ViewScope
	sched *Scheduler
	snap  Snapshot
	fired *Channel
	ctx   context.Context
}

// NewTestTick builds a TestTick against desc. A nil sched defaults to a
// Scheduler over a fresh FakeClock on PlatformHeadless, so DOM-bound
// triggers stay inert unless a test explicitly builds its own HTMX-active
// Scheduler and anchors.
func NewTestTick(desc *Descriptor, sched *Scheduler) *TestTick {
	if sched == nil {
		sched = NewScheduler(NewFakeClock(), PlatformHeadless)
	}
	return &TestTick{
		desc:  desc,
		scope: RootScope(),
		sched: sched,
		ctx:   context.Background(),
	}
}

// WithSnapshot starts the tick from snap instead of the zero (creation
// pass) Snapshot — use this to simulate the Nth request against an
// instance that already progressed past Placeholder/NotStarted.
func (tt *TestTick) WithSnapshot(snap Snapshot) *TestTick {
	tt.snap = snap
	return tt
}

// WithScope supplies the anchor chain a DOM-bound trigger under test
// should resolve against.
func (tt *TestTick) WithScope(scope *ViewScope) *TestTick {
	tt.scope = scope
	return tt
}

// WithContext supplies the context the tick and its loader invocation
// run under.
func (tt *TestTick) WithContext(ctx context.Context) *TestTick {
	tt.ctx = ctx
	return tt
}

// Fire simulates the fire request for ch reaching the server — the same
// information Registry.serve extracts from the request path.
func (tt *TestTick) Fire(ch Channel) *TestTick {
	c := ch
	tt.fired = &c
	return tt
}

// Run executes the tick and renders the instance's current sub-view.
// Returns the captured TestResult and the live Instance, so a test can
// still inspect Snapshot/Bundle/trigger attrs directly when TestResult's
// summary isn't enough.
func (tt *TestTick) Run() (*TestResult, *Instance, error) {
	inst := NewInstance(tt.desc, tt.scope, tt.sched, tt.snap)
	if err := inst.Tick(tt.ctx, tt.fired); err != nil {
		return nil, inst, err
	}

	var buf bytes.Buffer
	if err := RenderState(tt.ctx, &buf, inst, nil); err != nil {
		return nil, inst, err
	}

	result := inst.Result()
	event, data := result.TriggerEvent()
	tr := &TestResult{
		HTML:             buf.String(),
		MainState:        inst.MainState(),
		PrefetchState:    inst.PrefetchState(),
		StatusCode:       result.StatusCode(),
		Headers:          result.Headers(),
		Flashes:          result.Flashes(),
		TriggerEvent:     event,
		TriggerData:      data,
		AfterSettleEvent: result.AfterSettleEvent(),
	}
	return tr, inst, nil
}
