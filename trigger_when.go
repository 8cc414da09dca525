package deferblock

// WhenTrigger is not a subscription in the usual sense — per §4.B it is
// polled once per "change-detection pass". On a stateless server that pass
// is every request that touches the instance: the caller re-evaluates the
// expression and calls Tick, which walks armed WhenTriggers and fires the
// first one reading truthy.
type WhenTrigger struct {
	expr   func() bool
	onFire FireFunc
	armed  bool
	fired  bool
}

// When builds a trigger around a boolean expression supplied by the host
// page (e.g. a value read from query params, a feature flag, a signal).
// It fires the first time expr() is observed true.
func When(expr func() bool) *WhenTrigger {
	return &WhenTrigger{expr: expr}
}

func (t *WhenTrigger) kind() string { return "when" }

// Arm marks the trigger as live for ch. The caller must still invoke Poll
// each tick — Arm alone never fires.
func (t *WhenTrigger) Arm(onFire FireFunc, ch Channel) error {
	t.onFire = onFire
	t.armed = true
	return nil
}

// Disarm makes subsequent Poll calls no-ops.
func (t *WhenTrigger) Disarm() {
	t.armed = false
}

// Poll evaluates expr() once. If the trigger is armed, not yet fired, and
// expr() is true, it fires and disarms itself so a second Poll in the same
// or a later tick cannot fire it again (§8.1).
func (t *WhenTrigger) Poll() {
	if !t.armed || t.fired {
		return
	}
	if t.expr != nil && t.expr() {
		t.fired = true
		t.armed = false
		if t.onFire != nil {
			t.onFire()
		}
	}
}
