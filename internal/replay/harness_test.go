package replay

// #region imports
import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	engine "github.com/danielpatrickdp/masking-engine/go-engine"
)

// #endregion imports

// #region fixture-runs

func runFixture(t *testing.T, name string) (*Fixture, *Result) {
	t.Helper()
	f, err := LoadFixture(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	res, err := Run(f, engine.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return f, res
}

// TestFixture_SafeSpace is the regression run for environment-driven
// safe-space entry and the delayed support prompt.
func TestFixture_SafeSpace(t *testing.T) {
	f, res := runFixture(t, "safe_space.json")
	if bad := Verify(f, res); len(bad) != 0 {
		t.Fatalf("fixture mismatches: %v", bad)
	}
	if res.Snapshot.MaskingLevel != 0 {
		t.Fatalf("context-only session produced masking %v", res.Snapshot.MaskingLevel)
	}
}

// TestFixture_MaskingSpike is the regression run for suppression-driven
// masking: if scoring weights drift, the bounds here catch it.
func TestFixture_MaskingSpike(t *testing.T) {
	f, res := runFixture(t, "masking_spike.json")
	if bad := Verify(f, res); len(bad) != 0 {
		t.Fatalf("fixture mismatches: %v", bad)
	}
	if res.Stats.DroppedInputs != 0 || res.Stats.ExtractorFailures != 0 {
		t.Fatalf("clean fixture reported failures: %+v", res.Stats)
	}
}

// TestReplayDeterministic runs the same fixture twice and expects
// identical observable outcomes.
func TestReplayDeterministic(t *testing.T) {
	_, a := runFixture(t, "safe_space.json")
	_, b := runFixture(t, "safe_space.json")

	if a.Snapshot != b.Snapshot {
		t.Fatalf("snapshots diverged: %+v vs %+v", a.Snapshot, b.Snapshot)
	}
	if len(a.Prompts) != len(b.Prompts) {
		t.Fatalf("prompt counts diverged: %d vs %d", len(a.Prompts), len(b.Prompts))
	}
	for i := range a.Prompts {
		if a.Prompts[i].Text != b.Prompts[i].Text || !a.Prompts[i].DeliverAt.Equal(b.Prompts[i].DeliverAt) {
			t.Fatalf("prompt %d diverged", i)
		}
	}
}

// #endregion fixture-runs
