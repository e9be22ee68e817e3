package baseline

// #region imports
import (
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
)

// #endregion imports

// #region config

// Config holds EMA and warm-up parameters.
type Config struct {
	Alpha        float64 // EMA smoothing factor
	WarmupTarget int     // updates required before a baseline is established
}

// DefaultConfig returns the standard baseline parameters.
func DefaultConfig() Config {
	return Config{
		Alpha:        0.2,
		WarmupTarget: 12,
	}
}

// #endregion config

// #region baseline

// Baseline is the learned per-dimension "normal" value. Established flips
// true once warm-up completes and never reverts for the session.
type Baseline struct {
	Value       float64
	WarmupCount int
	Established bool
}

// #endregion baseline

// #region tracker

// Tracker maintains per-dimension EMA baselines for one session.
type Tracker struct {
	config Config
	dims   map[signal.Dimension]*Baseline
}

// NewTracker creates an empty tracker.
func NewTracker(config Config) *Tracker {
	if config.Alpha <= 0 || config.Alpha > 1 {
		config.Alpha = DefaultConfig().Alpha
	}
	if config.WarmupTarget < 1 {
		config.WarmupTarget = DefaultConfig().WarmupTarget
	}
	return &Tracker{config: config, dims: make(map[signal.Dimension]*Baseline)}
}

// SetConfig swaps smoothing and warm-up settings. Values and warm-up
// counts carry over; establishment is re-derived on the next update.
func (t *Tracker) SetConfig(config Config) {
	if config.Alpha <= 0 || config.Alpha > 1 {
		config.Alpha = DefaultConfig().Alpha
	}
	if config.WarmupTarget < 1 {
		config.WarmupTarget = DefaultConfig().WarmupTarget
	}
	t.config = config
}

// Update nudges the EMA for dim and advances warm-up. The first update
// seeds the value directly.
func (t *Tracker) Update(dim signal.Dimension, sample float64) {
	b, ok := t.dims[dim]
	if !ok {
		b = &Baseline{Value: sample}
		t.dims[dim] = b
	} else {
		b.Value = b.Value*(1-t.config.Alpha) + sample*t.config.Alpha
	}
	b.WarmupCount++
	if b.WarmupCount >= t.config.WarmupTarget {
		b.Established = true
	}
}

// Get returns the baseline for dim, or false when never updated.
func (t *Tracker) Get(dim signal.Dimension) (Baseline, bool) {
	b, ok := t.dims[dim]
	if !ok {
		return Baseline{}, false
	}
	return *b, true
}

// Established reports whether dim has completed warm-up.
func (t *Tracker) Established(dim signal.Dimension) bool {
	b, ok := t.dims[dim]
	return ok && b.Established
}

// AllEstablished reports whether every given dimension completed warm-up.
// Deviation-based detection downstream stays suppressed until then.
func (t *Tracker) AllEstablished(dims []signal.Dimension) bool {
	for _, d := range dims {
		if !t.Established(d) {
			return false
		}
	}
	return true
}

// Seed restores a persisted baseline. Established is derived from the
// stored warm-up count, never forced.
func (t *Tracker) Seed(dim signal.Dimension, value float64, warmupCount int) {
	t.dims[dim] = &Baseline{
		Value:       value,
		WarmupCount: warmupCount,
		Established: warmupCount >= t.config.WarmupTarget,
	}
}

// Snapshot returns a copy of all baselines, for persistence.
func (t *Tracker) Snapshot() map[signal.Dimension]Baseline {
	out := make(map[signal.Dimension]Baseline, len(t.dims))
	for d, b := range t.dims {
		out[d] = *b
	}
	return out
}

// #endregion tracker
