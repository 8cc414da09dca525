package deferblock

import (
	"testing"
	"time"
)

func TestImmediateTriggerFiresOnceOnArm(t *testing.T) {
	trig := Immediate()
	fires := 0
	if err := trig.Arm(func() { fires++ }, Main); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}
	if fires != 1 {
		t.Fatalf("fires = %d, want 1", fires)
	}
	if err := trig.Arm(func() { fires++ }, Main); err != nil {
		t.Fatalf("second Arm() error = %v", err)
	}
	if fires != 1 {
		t.Errorf("fires after re-arm = %d, want still 1", fires)
	}
}

func TestTimerTriggerFiresAfterDuration(t *testing.T) {
	clock := NewFakeClock()
	trig := Timer(10*time.Millisecond, clock)

	fires := 0
	if err := trig.Arm(func() { fires++ }, Main); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}
	clock.Advance(5 * time.Millisecond)
	if fires != 0 {
		t.Fatalf("fires after 5ms = %d, want 0", fires)
	}
	clock.Advance(5 * time.Millisecond)
	if fires != 1 {
		t.Fatalf("fires after 10ms = %d, want 1", fires)
	}
}

func TestTimerTriggerDisarmCancelsPendingFire(t *testing.T) {
	clock := NewFakeClock()
	trig := Timer(10*time.Millisecond, clock)

	fires := 0
	if err := trig.Arm(func() { fires++ }, Main); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}
	trig.Disarm()
	clock.Advance(20 * time.Millisecond)
	if fires != 0 {
		t.Errorf("fires after disarm = %d, want 0", fires)
	}
}

func TestHoverTriggerRequiresResolvedAnchor(t *testing.T) {
	trig := Hover("card")
	scope := RootScope()
	if err := trig.Resolve(scope); err == nil {
		t.Fatal("Resolve() error = nil, want ErrUnresolvedTrigger")
	}
	if err := trig.Arm(func() {}, Main); err == nil {
		t.Fatal("Arm() error = nil, want ErrUnresolvedTrigger on an unresolved anchor")
	}
}

func TestHoverTriggerFiresOnceOnRequest(t *testing.T) {
	trig := Hover("card")
	scope := RootScope().NestedScope("", map[string]string{"card": "#card"})
	if err := trig.Resolve(scope); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	fires := 0
	if err := trig.Arm(func() { fires++ }, Main); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}
	trig.Fire()
	trig.Fire()
	if fires != 1 {
		t.Errorf("fires = %d, want 1", fires)
	}
	attrs := trig.Attrs("/_defer/x/main?s=tok")
	if attrs["hx-trigger"] != "mouseenter once" {
		t.Errorf("hx-trigger = %v, want mouseenter once", attrs["hx-trigger"])
	}
}

func TestWhenTriggerFiresOnFirstTruthyPoll(t *testing.T) {
	truthy := false
	trig := When(func() bool { return truthy })
	fires := 0
	if err := trig.Arm(func() { fires++ }, Main); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}
	trig.Poll()
	if fires != 0 {
		t.Fatalf("fires before truthy = %d, want 0", fires)
	}
	truthy = true
	trig.Poll()
	trig.Poll()
	if fires != 1 {
		t.Errorf("fires = %d, want 1", fires)
	}
}
