package persist

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/prompt"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/transition"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		err := s.SaveSnapshot(SnapshotRow{
			Masking:     0.1 * float64(i),
			Energy:      0.9,
			Safety:      0.5,
			Environment: signal.EnvWork,
			CreatedAt:   t0.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := s.RecentSnapshots(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	// Newest first.
	if got[0].Masking < got[1].Masking {
		t.Fatalf("expected newest first, got %v then %v", got[0].Masking, got[1].Masking)
	}
	if got[0].Environment != signal.EnvWork {
		t.Fatalf("environment lost: %s", got[0].Environment)
	}
}

func TestTransitionRoundTrip(t *testing.T) {
	s := newTestStore(t)

	ev := transition.NewEvent(transition.SafeSpaceEntry, 0.9,
		map[string]float64{"safety_level": 0.9}, t0)
	if err := s.SaveTransition(ev); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.RecentTransitions(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(got))
	}
	if got[0].ID != ev.ID || got[0].Type != transition.SafeSpaceEntry {
		t.Fatalf("round trip mismatch: %+v", got[0])
	}
	if got[0].Payload["safety_level"] != 0.9 {
		t.Fatalf("payload lost: %+v", got[0].Payload)
	}
}

func TestPromptUpsert(t *testing.T) {
	s := newTestStore(t)

	rec := prompt.Record{
		ID:          "p-1",
		Category:    prompt.CategorySafeSpace,
		Text:        "take a moment",
		ScheduledAt: t0,
		DeliverAt:   t0.Add(3 * time.Minute),
	}
	if err := s.SavePrompt(rec); err != nil {
		t.Fatalf("save scheduled: %v", err)
	}

	rec.Delivered = true
	rec.DeliveredAt = t0.Add(3 * time.Minute)
	if err := s.SavePrompt(rec); err != nil {
		t.Fatalf("save delivered: %v", err)
	}

	got, err := s.RecentPrompts(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("upsert should keep one row, got %d", len(got))
	}
	if !got[0].Delivered || !got[0].DeliveredAt.Equal(rec.DeliveredAt) {
		t.Fatalf("delivery state lost: %+v", got[0])
	}
}

func TestBaselineWarmStart(t *testing.T) {
	s := newTestStore(t)

	err := s.UpsertBaseline(BaselineRow{
		Dimension: signal.DimEmotional, Value: 0.6, WarmupCount: 12, UpdatedAt: t0,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// Second upsert overwrites.
	err = s.UpsertBaseline(BaselineRow{
		Dimension: signal.DimEmotional, Value: 0.7, WarmupCount: 13, UpdatedAt: t0.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("upsert 2: %v", err)
	}

	got, err := s.LoadBaselines()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 baseline, got %d", len(got))
	}
	if got[0].Value != 0.7 || got[0].WarmupCount != 13 {
		t.Fatalf("overwrite failed: %+v", got[0])
	}
}
