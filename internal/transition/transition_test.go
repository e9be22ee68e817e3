package transition

import (
	"testing"
	"time"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/baseline"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
)

var t0 = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func trackerWith(masking, emotional, authenticity float64) *baseline.Tracker {
	tr := baseline.NewTracker(baseline.Config{Alpha: 0.2, WarmupTarget: 1})
	tr.Seed(signal.DimMasking, masking, 1)
	tr.Seed(signal.DimEmotional, emotional, 1)
	tr.Seed(signal.DimAuthenticity, authenticity, 1)
	return tr
}

func fillWindow(d *Detector, obs Observation) {
	for i := 0; i < DefaultConfig().WindowSize; i++ {
		d.Observe(obs)
	}
}

func TestNoShiftBeforeWindowFull(t *testing.T) {
	d := NewDetector(DefaultConfig())
	base := trackerWith(0.2, 0.5, 0.5)
	d.Observe(Observation{Masking: 0.9, Emotional: 0.5, Authenticity: 0.5})

	if ev := d.DetectShift(base, t0); ev != nil {
		t.Fatalf("partial window must not classify, got %v", ev.Type)
	}
}

func TestNoShiftWithoutEstablishedBaseline(t *testing.T) {
	d := NewDetector(DefaultConfig())
	base := baseline.NewTracker(baseline.DefaultConfig()) // cold start
	fillWindow(d, Observation{Masking: 0.9, Emotional: 0.1, Authenticity: 0.1})

	if ev := d.DetectShift(base, t0); ev != nil {
		t.Fatalf("cold-start baseline must suppress shifts, got %v", ev.Type)
	}
}

func TestMaskingIncrease(t *testing.T) {
	d := NewDetector(DefaultConfig())
	base := trackerWith(0.2, 0.7, 0.7)
	fillWindow(d, Observation{Masking: 0.7, Emotional: 0.3, Authenticity: 0.35})

	ev := d.DetectShift(base, t0)
	if ev == nil {
		t.Fatal("expected a shift event")
	}
	if ev.Type != MaskingIncrease {
		t.Fatalf("expected masking_increase, got %s", ev.Type)
	}
	if ev.Confidence < 0.3 {
		t.Fatalf("expected confidence at least the max delta, got %v", ev.Confidence)
	}
	if ev.ID == "" {
		t.Fatal("events need IDs")
	}
}

func TestMaskingDecrease(t *testing.T) {
	d := NewDetector(DefaultConfig())
	base := trackerWith(0.8, 0.3, 0.3)
	fillWindow(d, Observation{Masking: 0.3, Emotional: 0.7, Authenticity: 0.75})

	ev := d.DetectShift(base, t0)
	if ev == nil {
		t.Fatal("expected a shift event")
	}
	if ev.Type != MaskingDecrease {
		t.Fatalf("expected masking_decrease, got %s", ev.Type)
	}
}

func TestMixedShift(t *testing.T) {
	d := NewDetector(DefaultConfig())
	// Masking up while authenticity also rises sharply: conflicting evidence.
	base := trackerWith(0.2, 0.5, 0.2)
	fillWindow(d, Observation{Masking: 0.7, Emotional: 0.5, Authenticity: 0.8})

	ev := d.DetectShift(base, t0)
	if ev == nil {
		t.Fatal("expected a shift event")
	}
	if ev.Type != MixedShift {
		t.Fatalf("expected mixed_shift, got %s", ev.Type)
	}
}

func TestShiftEdgeTriggered(t *testing.T) {
	d := NewDetector(DefaultConfig())
	base := trackerWith(0.2, 0.7, 0.7)
	obs := Observation{Masking: 0.7, Emotional: 0.3, Authenticity: 0.35}
	fillWindow(d, obs)

	if ev := d.DetectShift(base, t0); ev == nil {
		t.Fatal("expected first detection to fire")
	}
	d.Observe(obs)
	if ev := d.DetectShift(base, t0.Add(time.Second)); ev != nil {
		t.Fatalf("sustained shift must not re-fire, got %s", ev.Type)
	}

	// Settle back under the threshold, then deviate again.
	settled := Observation{Masking: 0.25, Emotional: 0.65, Authenticity: 0.7}
	fillWindow(d, settled)
	if ev := d.DetectShift(base, t0.Add(2*time.Second)); ev != nil {
		t.Fatalf("settled window should not fire, got %s", ev.Type)
	}
	fillWindow(d, obs)
	if ev := d.DetectShift(base, t0.Add(3*time.Second)); ev == nil {
		t.Fatal("expected re-armed detector to fire")
	}
}

func TestSafeSpaceEntryEdgeTriggered(t *testing.T) {
	d := NewDetector(DefaultConfig())

	// First observation establishes history, never fires.
	if ev := d.ObserveSafety(0.9, t0); ev != nil {
		t.Fatalf("first safety observation must not fire, got %v", ev.Type)
	}

	d2 := NewDetector(DefaultConfig())
	if ev := d2.ObserveSafety(0.2, t0); ev != nil {
		t.Fatal("below threshold must not fire")
	}
	ev := d2.ObserveSafety(0.9, t0.Add(time.Minute))
	if ev == nil || ev.Type != SafeSpaceEntry {
		t.Fatalf("expected safe_space_entry on upward crossing, got %+v", ev)
	}
	// Staying above: no re-fire without dropping below first.
	if ev := d2.ObserveSafety(0.95, t0.Add(2*time.Minute)); ev != nil {
		t.Fatal("sustained safety must not re-fire")
	}
	d2.ObserveSafety(0.3, t0.Add(3*time.Minute))
	if ev := d2.ObserveSafety(0.8, t0.Add(4*time.Minute)); ev == nil {
		t.Fatal("expected re-fire after dropping below and re-crossing")
	}
}

func TestAuthenticityMomentHysteresis(t *testing.T) {
	d := NewDetector(DefaultConfig())

	ev := d.ObserveAuthenticity(0.85, 0.75, t0)
	if ev == nil || ev.Type != AuthenticityMoment {
		t.Fatalf("expected authenticity moment, got %+v", ev)
	}

	// Authenticity stays continuously above 0.8: at most one event.
	for i := 1; i <= 10; i++ {
		if ev := d.ObserveAuthenticity(0.9, 0.8, t0.Add(time.Duration(i)*time.Second)); ev != nil {
			t.Fatalf("must not re-fire while continuously high (step %d)", i)
		}
	}

	// A dip to 0.7 is not enough to re-arm (needs < 0.6).
	d.ObserveAuthenticity(0.7, 0.2, t0.Add(11*time.Second))
	if ev := d.ObserveAuthenticity(0.9, 0.9, t0.Add(12*time.Second)); ev != nil {
		t.Fatal("dip above re-arm level must not re-arm")
	}

	// Dip below 0.6, then re-rise: fires again.
	d.ObserveAuthenticity(0.5, 0.2, t0.Add(13*time.Second))
	if ev := d.ObserveAuthenticity(0.9, 0.9, t0.Add(14*time.Second)); ev == nil {
		t.Fatal("expected re-fire after dip below 0.6")
	}
}

func TestAuthenticityMomentNeedsBothHigh(t *testing.T) {
	d := NewDetector(DefaultConfig())
	if ev := d.ObserveAuthenticity(0.95, 0.5, t0); ev != nil {
		t.Fatal("low emotional expression must not fire")
	}
	if ev := d.ObserveAuthenticity(0.5, 0.95, t0); ev != nil {
		t.Fatal("low authenticity must not fire")
	}
}
