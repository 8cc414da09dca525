package deferblock

import "sync"

// viewportSet stands in for the single shared IntersectionObserver of §4.B
// and §5: rather than one observer per instance, every `on viewport`
// subscription registers into one process-wide set, which is considered
// "disconnected" (and reports zero) once it empties. On the server this
// set doesn't watch anything itself — the browser's own `intersect once`
// HTMX trigger does the watching — but keeping the shared bookkeeping
// mirrors the source runtime's resource model closely enough to test
// against it and to expose as a metric.
type viewportSet struct {
	mu      sync.Mutex
	members map[uint64]struct{}
	nextID  uint64
}

var globalViewportSet = &viewportSet{members: make(map[uint64]struct{})}

// ResetViewportSetForTest clears the shared viewport set, returning a
// restore func.
func ResetViewportSetForTest() (restore func()) {
	prev := globalViewportSet
	globalViewportSet = &viewportSet{members: make(map[uint64]struct{})}
	return func() { globalViewportSet = prev }
}

// add registers one subscription and returns a Disposer that removes it.
func (s *viewportSet) add() Disposer {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.members[id] = struct{}{}
	viewportObserved.Set(float64(len(s.members)))
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.members, id)
		viewportObserved.Set(float64(len(s.members)))
		s.mu.Unlock()
	}
}

// size reports how many subscriptions are currently registered; zero means
// the shared observer is effectively disconnected (§5).
func (s *viewportSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}
