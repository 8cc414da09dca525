package deferblock

// MainState is the per-instance state of the main channel (§3, §4.E).
// It is monotonic along Placeholder → Loading → Complete, with Failed as
// the only alternate terminal, reachable from Loading or (via a failed
// prefetch) from Placeholder.
type MainState int

const (
	Placeholder MainState = iota
	Loading
	Complete
	Failed
)

func (s MainState) String() string {
	switch s {
	case Placeholder:
		return "placeholder"
	case Loading:
		return "loading"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is Complete or Failed — no further trigger
// event may cause a re-transition out of either (§4.E).
func (s MainState) Terminal() bool {
	return s == Complete || s == Failed
}

// PrefetchState is the per-instance state of the independent prefetch
// channel (§3, §4.E). Its fires drive the loader without affecting the
// rendered view.
type PrefetchState int

const (
	NotStarted PrefetchState = iota
	InProgress
	PrefetchComplete
	PrefetchFailed
)

func (s PrefetchState) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case InProgress:
		return "in-progress"
	case PrefetchComplete:
		return "complete"
	case PrefetchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// mainFire applies the legality rules of §4.E for a main-channel trigger
// fire given the current prefetch state. It returns the next MainState and
// whether the loader must still be (re-)invoked by the caller — it never
// invokes the loader itself, keeping the state machine free of I/O.
func mainFire(current MainState, prefetch PrefetchState) (next MainState, mustLoad bool, err error) {
	if current.Terminal() {
		return current, false, ErrIllegalTransition
	}
	switch prefetch {
	case PrefetchComplete:
		// Bundle already cached: skip the Loading flash entirely.
		return Complete, false, nil
	case InProgress:
		// Await the same shared promise; no second invocation.
		return Loading, false, nil
	case PrefetchFailed:
		// Don't re-invoke the loader — prefetch already observed the
		// rejection on the shared promise.
		return Failed, false, nil
	default: // NotStarted
		return Loading, true, nil
	}
}

// loadSettled applies a resolved dependency promise's outcome to the main
// channel. Called once Loading's awaited future completes.
func loadSettled(current MainState, ok bool) (next MainState, err error) {
	if current != Loading {
		return current, ErrIllegalTransition
	}
	if ok {
		return Complete, nil
	}
	return Failed, nil
}

// prefetchFire applies a prefetch-channel trigger fire. Prefetch is its
// own independent monotonic machine; it only ever moves NotStarted ->
// InProgress, then settles to PrefetchComplete/PrefetchFailed.
func prefetchFire(current PrefetchState) (next PrefetchState, mustLoad bool, err error) {
	if current != NotStarted {
		return current, false, ErrIllegalTransition
	}
	return InProgress, true, nil
}

// prefetchSettled applies a resolved dependency promise's outcome to the
// prefetch channel.
func prefetchSettled(current PrefetchState, ok bool) (next PrefetchState, err error) {
	if current != InProgress {
		return current, ErrIllegalTransition
	}
	if ok {
		return PrefetchComplete, nil
	}
	return PrefetchFailed, nil
}
