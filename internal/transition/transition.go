package transition

// #region imports
import (
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/baseline"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/ring"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
)

// #endregion imports

// #region event

// Type enumerates the discrete, edge-triggered state changes.
type Type string

const (
	MaskingIncrease    Type = "masking_increase"
	MaskingDecrease    Type = "masking_decrease"
	MixedShift         Type = "mixed_shift"
	SafeSpaceEntry     Type = "safe_space_entry"
	AuthenticityMoment Type = "authenticity_moment"
	EnergyWarning      Type = "energy_warning"
	EnergyCritical     Type = "energy_critical"
)

// Event is an immutable, fire-and-forget record of a state transition.
type Event struct {
	ID         string
	Type       Type
	Confidence float64
	Payload    map[string]float64
	At         time.Time
}

// NewEvent builds an event with a fresh ID.
func NewEvent(t Type, confidence float64, payload map[string]float64, at time.Time) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       t,
		Confidence: signal.Clip01(confidence),
		Payload:    payload,
		At:         at,
	}
}

// #endregion event

// #region config

// Config holds transition detection thresholds.
type Config struct {
	WindowSize     int     // rolling samples averaged against baseline
	ShiftThreshold float64 // |delta| beyond which a shift registers
	SafetyEntry    float64 // upward safety crossing for safe-space entry

	AuthHigh      float64 // authenticity floor for an authenticity moment
	EmotionalHigh float64 // emotional-expression floor for the same
	AuthRearm     float64 // authenticity must dip below this to re-fire
}

// DefaultConfig returns the standard detection thresholds.
func DefaultConfig() Config {
	return Config{
		WindowSize:     5,
		ShiftThreshold: 0.3,
		SafetyEntry:    0.7,
		AuthHigh:       0.8,
		EmotionalHigh:  0.7,
		AuthRearm:      0.6,
	}
}

// #endregion config

// #region observation

// Observation is one per-sample row of the rolling window.
type Observation struct {
	Masking      float64
	Emotional    float64
	Authenticity float64
}

// #endregion observation

// #region detector

// Detector tracks the rolling window and the edge/hysteresis state for
// all transition types.
type Detector struct {
	config Config
	window *ring.Buffer[Observation]

	prevSafety float64
	haveSafety bool
	authArmed  bool
	shiftArmed bool
}

// NewDetector creates a detector with an empty window.
func NewDetector(config Config) *Detector {
	if config.WindowSize < 1 {
		config.WindowSize = DefaultConfig().WindowSize
	}
	return &Detector{
		config:     config,
		window:     ring.New[Observation](config.WindowSize),
		authArmed:  true,
		shiftArmed: true,
	}
}

// Observe pushes one sample's derived values into the rolling window.
func (d *Detector) Observe(obs Observation) {
	d.window.Push(obs)
}

// SetConfig swaps thresholds. Changing WindowSize resets the rolling
// window; arming state carries over.
func (d *Detector) SetConfig(config Config) {
	if config.WindowSize < 1 {
		config.WindowSize = DefaultConfig().WindowSize
	}
	if config.WindowSize != d.config.WindowSize {
		d.window = ring.New[Observation](config.WindowSize)
	}
	d.config = config
}

// #endregion detector

// #region shift

// DetectShift compares the rolling window average against established
// baselines. A significant delta, jointly across masking, emotional
// expression, and authenticity, classifies the shift direction; the
// detector re-arms once deltas settle back under the threshold.
func (d *Detector) DetectShift(base *baseline.Tracker, now time.Time) *Event {
	if d.window.Len() < d.window.Cap() {
		return nil
	}
	if !base.AllEstablished([]signal.Dimension{signal.DimMasking, signal.DimEmotional, signal.DimAuthenticity}) {
		return nil
	}

	var sum Observation
	for _, o := range d.window.ToSlice() {
		sum.Masking += o.Masking
		sum.Emotional += o.Emotional
		sum.Authenticity += o.Authenticity
	}
	n := float64(d.window.Len())
	avg := Observation{
		Masking:      sum.Masking / n,
		Emotional:    sum.Emotional / n,
		Authenticity: sum.Authenticity / n,
	}

	maskBase, _ := base.Get(signal.DimMasking)
	emoBase, _ := base.Get(signal.DimEmotional)
	authBase, _ := base.Get(signal.DimAuthenticity)

	dMask := avg.Masking - maskBase.Value
	dEmo := avg.Emotional - emoBase.Value
	dAuth := avg.Authenticity - authBase.Value

	th := d.config.ShiftThreshold
	significant := abs(dMask) > th || abs(dEmo) > th || abs(dAuth) > th
	if !significant {
		d.shiftArmed = true
		return nil
	}
	if !d.shiftArmed {
		return nil
	}
	d.shiftArmed = false

	// Evidence pointing toward more masking: masking up, expression or
	// authenticity down. Disagreement classifies as mixed.
	up := dMask > th || dEmo < -th || dAuth < -th
	down := dMask < -th || dEmo > th || dAuth > th

	t := MixedShift
	switch {
	case up && !down:
		t = MaskingIncrease
	case down && !up:
		t = MaskingDecrease
	}

	confidence := max3(abs(dMask), abs(dEmo), abs(dAuth))
	return eventPtr(NewEvent(t, confidence, map[string]float64{
		"delta_masking":      dMask,
		"delta_emotional":    dEmo,
		"delta_authenticity": dAuth,
	}, now))
}

// #endregion shift

// #region safe-space

// ObserveSafety checks for an edge-triggered safe-space entry: safety must
// cross the entry threshold upward, having been below it at the prior tick.
func (d *Detector) ObserveSafety(safety float64, now time.Time) *Event {
	crossed := d.haveSafety &&
		d.prevSafety < d.config.SafetyEntry &&
		safety >= d.config.SafetyEntry

	d.prevSafety = safety
	d.haveSafety = true

	if !crossed {
		return nil
	}
	return eventPtr(NewEvent(SafeSpaceEntry, safety, map[string]float64{
		"safety_level": safety,
	}, now))
}

// #endregion safe-space

// #region authenticity-moment

// ObserveAuthenticity fires an authenticity moment when authenticity and
// emotional expression are both high. Hysteresis: after firing,
// authenticity must dip below the re-arm level before firing again.
func (d *Detector) ObserveAuthenticity(authenticity, emotional float64, now time.Time) *Event {
	if authenticity < d.config.AuthRearm {
		d.authArmed = true
	}
	if !d.authArmed {
		return nil
	}
	if authenticity <= d.config.AuthHigh || emotional <= d.config.EmotionalHigh {
		return nil
	}
	d.authArmed = false
	return eventPtr(NewEvent(AuthenticityMoment, (authenticity+emotional)/2, map[string]float64{
		"authenticity":         authenticity,
		"emotional_expression": emotional,
	}, now))
}

// #endregion authenticity-moment

// #region helpers

func eventPtr(e Event) *Event { return &e }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// #endregion helpers
