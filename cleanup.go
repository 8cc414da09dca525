package deferblock

// CleanupRegistry is the per-instance, append-only disposer list of §4.H.
// Release runs disposers in reverse order; a panicking disposer is
// recorded as ErrDisposerFailed and logged, and does not interrupt the
// rest of the sequence (§7).
type CleanupRegistry struct {
	disposers []Disposer
	done      bool
}

// NewCleanupRegistry builds an empty registry.
func NewCleanupRegistry() *CleanupRegistry {
	return &CleanupRegistry{}
}

// Add appends a disposer. Safe to call after Release only in the sense
// that the disposer is simply run immediately — there is no enclosing
// instance left to batch it with.
func (c *CleanupRegistry) Add(d Disposer) {
	if d == nil {
		return
	}
	if c.done {
		c.runOne(d)
		return
	}
	c.disposers = append(c.disposers, d)
}

// Release runs every registered disposer in reverse order, exactly once.
// Matches §4.H: "executed in reverse order on block destruction, trigger
// destruction, or main-load completion".
func (c *CleanupRegistry) Release() {
	if c.done {
		return
	}
	c.done = true
	for i := len(c.disposers) - 1; i >= 0; i-- {
		c.runOne(c.disposers[i])
	}
	c.disposers = nil
}

// runOne invokes a disposer, converting a panic into a logged
// ErrDisposerFailed rather than letting it propagate into the surrounding
// view's change-detection cycle (§7: "No error is allowed to escape into
// the surrounding view's change-detection cycle").
func (c *CleanupRegistry) runOne(d Disposer) {
	defer func() {
		if r := recover(); r != nil {
			logDisposerFailed(r)
		}
	}()
	d()
}
