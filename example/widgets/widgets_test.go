package widgets

import (
	"testing"

	"github.com/riftlab/deferblock"
	"github.com/riftlab/deferblock/example/data"
)

func TestStatsSettlesCompleteOnImmediateFire(t *testing.T) {
	set := New(data.NewStore())

	result, _, err := deferblock.NewTestTick(set.Stats, nil).Fire(deferblock.Main).Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.IsComplete() {
		t.Errorf("MainState = %v, want Complete", result.MainState)
	}
	if !result.HTMLContains("active") {
		t.Errorf("HTML = %q, want to contain the stats tile markup", result.HTML)
	}
}

func TestRecommendationsSettlementEmitsTriggerAndFlash(t *testing.T) {
	set := New(data.NewStore())

	result, _, err := deferblock.NewTestTick(set.Recommendations, nil).Fire(deferblock.Main).Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.HasTrigger("recommendations:loaded") {
		t.Errorf("TriggerEvent = %q, want recommendations:loaded", result.TriggerEvent)
	}
	if !result.HasFlash(deferblock.FlashSuccess, "Recommendations ready") {
		t.Errorf("Flashes = %+v, want a success flash", result.Flashes)
	}
}

func TestSetAllReturnsEveryDescriptor(t *testing.T) {
	set := New(data.NewStore())
	all := set.All()
	if len(all) != 6 {
		t.Fatalf("len(All()) = %d, want 6", len(all))
	}
	for i, d := range all {
		if d == nil {
			t.Errorf("All()[%d] is nil", i)
		}
	}
}
