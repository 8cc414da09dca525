package deferblock

import "testing"

func TestMainFireSkipsLoadingWhenPrefetchComplete(t *testing.T) {
	next, mustLoad, err := mainFire(Placeholder, PrefetchComplete)
	if err != nil {
		t.Fatalf("mainFire() error = %v", err)
	}
	if next != Complete || mustLoad {
		t.Errorf("mainFire() = (%v, %v), want (Complete, false)", next, mustLoad)
	}
}

func TestMainFireAwaitsInProgressPrefetch(t *testing.T) {
	next, mustLoad, err := mainFire(Placeholder, InProgress)
	if err != nil {
		t.Fatalf("mainFire() error = %v", err)
	}
	if next != Loading || mustLoad {
		t.Errorf("mainFire() = (%v, %v), want (Loading, false)", next, mustLoad)
	}
}

func TestMainFireInvokesLoaderWhenPrefetchNotStarted(t *testing.T) {
	next, mustLoad, err := mainFire(Placeholder, NotStarted)
	if err != nil {
		t.Fatalf("mainFire() error = %v", err)
	}
	if next != Loading || !mustLoad {
		t.Errorf("mainFire() = (%v, %v), want (Loading, true)", next, mustLoad)
	}
}

func TestMainFireFromTerminalStateIsIllegal(t *testing.T) {
	for _, terminal := range []MainState{Complete, Failed} {
		if _, _, err := mainFire(terminal, NotStarted); err != ErrIllegalTransition {
			t.Errorf("mainFire(%v, ...) error = %v, want ErrIllegalTransition", terminal, err)
		}
	}
}

func TestLoadSettledRequiresLoadingState(t *testing.T) {
	if _, err := loadSettled(Placeholder, true); err != ErrIllegalTransition {
		t.Errorf("loadSettled(Placeholder, ...) error = %v, want ErrIllegalTransition", err)
	}
}

func TestLoadSettledOutcomes(t *testing.T) {
	if next, err := loadSettled(Loading, true); err != nil || next != Complete {
		t.Errorf("loadSettled(Loading, true) = (%v, %v), want (Complete, nil)", next, err)
	}
	if next, err := loadSettled(Loading, false); err != nil || next != Failed {
		t.Errorf("loadSettled(Loading, false) = (%v, %v), want (Failed, nil)", next, err)
	}
}

func TestPrefetchFireIsOnceOnly(t *testing.T) {
	next, mustLoad, err := prefetchFire(NotStarted)
	if err != nil || next != InProgress || !mustLoad {
		t.Fatalf("prefetchFire(NotStarted) = (%v, %v, %v), want (InProgress, true, nil)", next, mustLoad, err)
	}
	if _, _, err := prefetchFire(InProgress); err != ErrIllegalTransition {
		t.Errorf("prefetchFire(InProgress) error = %v, want ErrIllegalTransition", err)
	}
}

func TestPrefetchSettledOutcomes(t *testing.T) {
	if next, err := prefetchSettled(InProgress, true); err != nil || next != PrefetchComplete {
		t.Errorf("prefetchSettled(InProgress, true) = (%v, %v), want (PrefetchComplete, nil)", next, err)
	}
	if next, err := prefetchSettled(InProgress, false); err != nil || next != PrefetchFailed {
		t.Errorf("prefetchSettled(InProgress, false) = (%v, %v), want (PrefetchFailed, nil)", next, err)
	}
	if _, err := prefetchSettled(NotStarted, true); err != ErrIllegalTransition {
		t.Errorf("prefetchSettled(NotStarted, ...) error = %v, want ErrIllegalTransition", err)
	}
}

func TestMainStateTerminal(t *testing.T) {
	for _, s := range []MainState{Placeholder, Loading} {
		if s.Terminal() {
			t.Errorf("%v.Terminal() = true, want false", s)
		}
	}
	for _, s := range []MainState{Complete, Failed} {
		if !s.Terminal() {
			t.Errorf("%v.Terminal() = false, want true", s)
		}
	}
}
