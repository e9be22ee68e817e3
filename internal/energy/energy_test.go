package energy

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func TestMonotoneDrainFiresEachThresholdOnce(t *testing.T) {
	b := NewBudget(DefaultConfig(), t0)

	var warnings, criticals int
	prev := b.Current()
	// 60 simulated minutes, masking pinned 1.0, safety pinned 0.0
	for i := 1; i <= 60; i++ {
		crossings := b.Tick(1.0, 0.0, t0.Add(time.Duration(i)*time.Minute))
		if b.Current() > prev {
			t.Fatalf("energy must decrease monotonically: %v -> %v at minute %d", prev, b.Current(), i)
		}
		prev = b.Current()
		for _, c := range crossings {
			switch c {
			case CrossWarning:
				warnings++
			case CrossCritical:
				criticals++
			}
		}
	}

	if warnings != 1 {
		t.Fatalf("expected exactly one warning, got %d", warnings)
	}
	if criticals != 1 {
		t.Fatalf("expected exactly one critical, got %d", criticals)
	}
	if b.Current() != 0 {
		t.Fatalf("expected full depletion after 60 minutes at rate 0.02, got %v", b.Current())
	}
}

func TestRecoveryInSafeContext(t *testing.T) {
	b := NewBudget(DefaultConfig(), t0)
	b.Tick(1.0, 0.0, t0.Add(30*time.Minute)) // drain to 0.4
	drained := b.Current()

	b.Tick(0.0, 1.0, t0.Add(40*time.Minute)) // recover 10 min at 0.01/min
	if b.Current() <= drained {
		t.Fatalf("expected recovery, got %v after %v", b.Current(), drained)
	}
}

func TestThresholdRearmsAfterRecovery(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBudget(cfg, t0)

	now := t0.Add(40 * time.Minute)
	crossings := b.Tick(1.0, 0.0, now) // 40 min * 0.02 = 0.8 drain → 0.2
	if len(crossings) != 1 || crossings[0] != CrossWarning {
		t.Fatalf("expected single warning, got %v", crossings)
	}

	// Still below threshold: no re-fire.
	now = now.Add(time.Minute)
	if crossings = b.Tick(0.5, 0.0, now); len(crossings) != 0 {
		t.Fatalf("warning must not re-fire while below threshold, got %v", crossings)
	}

	// Recover above 0.3, then drain again: warning re-fires.
	now = now.Add(30 * time.Minute)
	b.Tick(0.0, 1.0, now)
	if b.Current() <= cfg.WarningThreshold {
		t.Fatalf("fixture should recover above warning threshold, at %v", b.Current())
	}
	now = now.Add(10 * time.Minute)
	crossings = b.Tick(1.0, 0.0, now)
	if len(crossings) != 1 || crossings[0] != CrossWarning {
		t.Fatalf("expected re-armed warning to fire, got %v", crossings)
	}
}

func TestDailySpentAccumulatesCostOnly(t *testing.T) {
	b := NewBudget(DefaultConfig(), t0)
	b.Tick(1.0, 1.0, t0.Add(10*time.Minute))
	// cost = 0.2, gain = 0.1; spent tracks cost alone
	if got := b.DailySpent(); got < 0.199 || got > 0.201 {
		t.Fatalf("expected dailySpent ~0.2, got %v", got)
	}
}

func TestDailySpentResetsAtMidnight(t *testing.T) {
	b := NewBudget(DefaultConfig(), t0)
	b.Tick(1.0, 0.0, t0.Add(10*time.Minute))
	if b.DailySpent() == 0 {
		t.Fatal("expected nonzero spend")
	}
	nextDay := t0.Add(24 * time.Hour)
	b.Tick(0.0, 0.0, nextDay)
	if b.DailySpent() != 0 {
		t.Fatalf("expected daily reset, got %v", b.DailySpent())
	}
}

func TestZeroElapsedIsNoOp(t *testing.T) {
	b := NewBudget(DefaultConfig(), t0)
	before := b.Current()
	if crossings := b.Tick(1.0, 0.0, t0); crossings != nil {
		t.Fatalf("expected nil crossings, got %v", crossings)
	}
	if b.Current() != before {
		t.Fatalf("zero elapsed must not change energy: %v", b.Current())
	}
}
