// Package replay re-runs recorded sessions through the full inference
// pipeline deterministically: a fixed seed, a scripted clock, and manual
// ticks instead of the wall-clock run loop.
package replay

// #region imports
import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"

	engine "github.com/danielpatrickdp/masking-engine/go-engine"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/prompt"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/transition"
)

// #endregion imports

// #region types

// Result captures the observable outcome of one replay run.
type Result struct {
	Snapshot    engine.StateSnapshot
	Transitions []transition.Event
	Prompts     []prompt.Record
	Stats       engine.Stats
}

// scriptClock hands the engine whatever time the current step dictates.
type scriptClock struct {
	t time.Time
}

func (c *scriptClock) Now() time.Time { return c.t }

// #endregion types

// #region run

// Run replays the fixture's steps in timestamp order through a fresh
// engine. Operates entirely in-memory; nothing is persisted.
func Run(f *Fixture, cfg engine.Config, log zerolog.Logger) (*Result, error) {
	clock := &scriptClock{t: f.StartAt}
	eng, err := engine.New(engine.Options{
		Config: &cfg,
		Clock:  clock,
		Rand:   rand.New(rand.NewSource(f.Seed)),
		Logger: log,
	})
	if err != nil {
		return nil, fmt.Errorf("replay engine: %w", err)
	}
	defer eng.Stop()

	res := &Result{}
	eng.Subscribe(engine.KindTransition, func(ev engine.Event) {
		res.Transitions = append(res.Transitions, ev.(engine.TransitionEvent).Transition)
	})
	eng.Subscribe(engine.KindPromptDelivered, func(ev engine.Event) {
		res.Prompts = append(res.Prompts, ev.(engine.PromptDelivered).Record)
	})

	steps := make([]Step, len(f.Steps))
	copy(steps, f.Steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].AtMs < steps[j].AtMs })

	for _, s := range steps {
		at := s.At(f.StartAt)
		clock.t = at

		switch s.Kind {
		case "text":
			eng.Ingest(engine.Input{Channel: signal.ChannelText, Text: s.Text, At: at})
			eng.Tick(at)
		case "audio":
			eng.Ingest(engine.Input{Channel: signal.ChannelAudio, Audio: s.Audio, At: at})
			eng.Tick(at)
		case "context":
			eng.Ingest(engine.Input{Channel: signal.ChannelContext, App: s.App, At: at})
			eng.Tick(at)
		case "reassess":
			eng.Reassess(at)
		}
	}

	res.Snapshot = eng.Snapshot()
	res.Stats = eng.Stats()
	return res, nil
}

// #endregion run

// #region verify

// Verify compares a run against the fixture's expectations and returns a
// human-readable mismatch list, empty on success.
func Verify(f *Fixture, res *Result) []string {
	var bad []string

	got := make([]string, len(res.Transitions))
	for i, ev := range res.Transitions {
		got[i] = string(ev.Type)
	}
	if !equalStrings(f.Expect.Transitions, got) {
		bad = append(bad, fmt.Sprintf("transitions: want %v, got %v", f.Expect.Transitions, got))
	}

	cats := make([]string, len(res.Prompts))
	for i, rec := range res.Prompts {
		cats[i] = string(rec.Category)
	}
	if !equalStrings(f.Expect.Prompts, cats) {
		bad = append(bad, fmt.Sprintf("prompts: want %v, got %v", f.Expect.Prompts, cats))
	}

	m := res.Snapshot.MaskingLevel
	if f.Expect.MaskingMin != nil && m < *f.Expect.MaskingMin {
		bad = append(bad, fmt.Sprintf("masking %v below minimum %v", m, *f.Expect.MaskingMin))
	}
	if f.Expect.MaskingMax != nil && m > *f.Expect.MaskingMax {
		bad = append(bad, fmt.Sprintf("masking %v above maximum %v", m, *f.Expect.MaskingMax))
	}
	if f.Expect.EnergyMax != nil && res.Snapshot.EnergyLevel > *f.Expect.EnergyMax {
		bad = append(bad, fmt.Sprintf("energy %v above maximum %v", res.Snapshot.EnergyLevel, *f.Expect.EnergyMax))
	}
	return bad
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// #endregion verify
