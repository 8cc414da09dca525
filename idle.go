package deferblock

import (
	"sync"
	"time"
)

// defaultIdleWindow is how long the process-wide idle queue waits before
// flushing, standing in for requestIdleCallback's browser-chosen deadline.
// Overridable via the config file's idle_window (Config.Apply).
const defaultIdleWindow = 50 * time.Millisecond

// idleSub is one arming of an idle trigger. cancelled lets Disarm remove a
// subscriber from a queue that has already captured it in a flush batch.
type idleSub struct {
	fn        FireFunc
	cancelled bool
}

// idleQueue coalesces every `on idle` arming process-wide so at most one
// idle callback is outstanding at any time (§5, §8.4), however many
// instances request it — the coalescing that keeps a repeat construct of N
// siblings from scheduling N idle callbacks.
type idleQueue struct {
	mu      sync.Mutex
	clock   Clock
	window  time.Duration
	pending []*idleSub
	timer   Disposer
}

func newIdleQueue(clock Clock, window time.Duration) *idleQueue {
	if clock == nil {
		clock = RealClock
	}
	if window <= 0 {
		window = defaultIdleWindow
	}
	return &idleQueue{clock: clock, window: window}
}

// globalIdleQueue is the process-wide singleton production code arms
// against. Tests that need determinism swap it via ResetIdleQueueForTest.
var globalIdleQueue = newIdleQueue(RealClock, defaultIdleWindow)

// ResetIdleQueueForTest replaces the process-wide idle queue with one
// backed by clock, returning a restore func. Mirrors the teacher's pattern
// of substituting fakes for external collaborators in tests.
func ResetIdleQueueForTest(clock Clock, window time.Duration) (restore func()) {
	prev := globalIdleQueue
	globalIdleQueue = newIdleQueue(clock, window)
	return func() { globalIdleQueue = prev }
}

// enqueue arms fn against the shared idle callback, starting one if none is
// outstanding, and returns a Disposer that removes fn before it fires. When
// the last pending subscriber is removed, the scheduled callback itself is
// cancelled.
func (q *idleQueue) enqueue(fn FireFunc) Disposer {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub := &idleSub{fn: fn}
	q.pending = append(q.pending, sub)
	if q.timer == nil {
		q.timer = q.clock.AfterFunc(q.window, q.flush)
		idleOutstanding.Set(1)
	}
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		sub.cancelled = true
		for i, p := range q.pending {
			if p == sub {
				q.pending = append(q.pending[:i], q.pending[i+1:]...)
				break
			}
		}
		if len(q.pending) == 0 && q.timer != nil {
			q.timer()
			q.timer = nil
			idleOutstanding.Set(0)
		}
	}
}

// flush invokes every non-cancelled subscriber in FIFO arming order, then
// empties the queue so a subsequent arming schedules a fresh callback.
func (q *idleQueue) flush() {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.timer = nil
	q.mu.Unlock()

	idleOutstanding.Set(0)
	idleBatchSize.Observe(float64(len(batch)))

	for _, sub := range batch {
		if !sub.cancelled {
			sub.fn()
		}
	}
}

// outstanding reports 1 if an idle callback is currently scheduled, else 0
// — used by tests asserting the §8.4 invariant directly rather than through
// the metric.
func (q *idleQueue) outstanding() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.timer != nil {
		return 1
	}
	return 0
}
