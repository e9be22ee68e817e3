package correlate

// #region imports
import (
	"time"

	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
)

// #endregion imports

// #region config

// Config holds correlation window, scoring, and time-budget parameters.
type Config struct {
	WindowMs            int     // max gap between modalities and now for fusion
	TimeBudgetMs        int     // soft budget per Correlate call
	DegradedBudgetMs    int     // shrunk budget while degraded
	ConfidenceThreshold float64 // minimum confidence to report a result
	DegradedThreshold   float64 // raised threshold while degraded
	SlowLimit           int     // consecutive overruns before degrading
}

// DefaultConfig returns the standard correlator tuning.
func DefaultConfig() Config {
	return Config{
		WindowMs:            2000,
		TimeBudgetMs:        100,
		DegradedBudgetMs:    50,
		ConfidenceThreshold: 0.3,
		DegradedThreshold:   0.6,
		SlowLimit:           3,
	}
}

// #endregion config

// #region result

// Result is a fused same-window text+audio observation. Factors names the
// contributing evidence so decisions stay explainable.
type Result struct {
	Confidence float64
	Factors    []string
	At         time.Time
	Degraded   bool
}

// #endregion result

// #region correlator

// Correlator fuses co-occurring text and audio samples into an enhanced
// sarcasm/incongruence confidence. Repeated budget overruns push it into
// degraded mode (raised threshold, shrunk budget) instead of blocking.
type Correlator struct {
	config          Config
	log             zerolog.Logger
	consecutiveSlow int
	degraded        bool
	overruns        int
}

// New creates a correlator.
func New(config Config, log zerolog.Logger) *Correlator {
	return &Correlator{config: config, log: log}
}

// SetConfig swaps the tuning knobs. Degraded-mode state survives the swap.
func (c *Correlator) SetConfig(config Config) {
	c.config = config
}

// Degraded reports whether the correlator has entered degraded mode.
func (c *Correlator) Degraded() bool {
	return c.degraded
}

// Overruns returns the total number of time-budget overruns observed.
func (c *Correlator) Overruns() int {
	return c.overruns
}

// #endregion correlator

// #region correlate

// evidence weights per the fusion formula
const (
	weightTextMarker   = 0.3
	weightProsody      = 0.4
	weightFlatPositive = 0.2
	weightContextCue   = 0.1
	agreementBonus     = 1.2
	factorFloor        = 0.5
)

// Correlate fuses text and audio samples taken within the window around
// now. Returns nil for stale pairs or confidence below the active threshold.
func (c *Correlator) Correlate(text, audio signal.Sample, contextCue float64, now time.Time) *Result {
	start := time.Now()
	defer func() { c.observeElapsed(time.Since(start)) }()

	window := time.Duration(c.config.WindowMs) * time.Millisecond
	if absDuration(now.Sub(text.Timestamp)) > window || absDuration(now.Sub(audio.Timestamp)) > window {
		return nil
	}

	textMarker := text.Scores.Get(signal.DimSarcasm, 0)
	mismatch := audio.Scores.Get(signal.DimProsodyMismatch, 0)
	flat := audio.Scores.Get(signal.DimFlatPositive, 0)
	cue := signal.Clip01(contextCue)

	confidence := signal.Clip01(
		textMarker*weightTextMarker +
			mismatch*weightProsody +
			flat*weightFlatPositive +
			cue*weightContextCue,
	)

	var factors []string
	if textMarker > factorFloor {
		factors = append(factors, "text_marker")
	}
	if mismatch > factorFloor {
		factors = append(factors, "prosody_mismatch")
	}
	if flat > factorFloor {
		factors = append(factors, "flat_positive_tone")
	}
	if cue > factorFloor {
		factors = append(factors, "context_cue")
	}

	// Both modalities independently confident: multiplicative bonus.
	if textMarker > 0.5 && mismatch > 0.5 {
		confidence = signal.Clip01(confidence * agreementBonus)
		factors = append(factors, "multimodal_agreement")
	}

	threshold := c.config.ConfidenceThreshold
	if c.degraded {
		threshold = c.config.DegradedThreshold
	}
	if confidence < threshold {
		return nil
	}

	return &Result{
		Confidence: confidence,
		Factors:    factors,
		At:         now,
		Degraded:   c.degraded,
	}
}

// #endregion correlate

// #region budget

// observeElapsed tracks budget overruns and flips degraded mode after
// SlowLimit consecutive slow calls.
func (c *Correlator) observeElapsed(elapsed time.Duration) {
	budget := time.Duration(c.config.TimeBudgetMs) * time.Millisecond
	if c.degraded {
		budget = time.Duration(c.config.DegradedBudgetMs) * time.Millisecond
	}
	if elapsed <= budget {
		c.consecutiveSlow = 0
		return
	}
	c.overruns++
	c.consecutiveSlow++
	if c.consecutiveSlow >= c.config.SlowLimit && !c.degraded {
		c.degraded = true
		c.log.Warn().
			Int("consecutive_slow", c.consecutiveSlow).
			Dur("elapsed", elapsed).
			Msg("correlator entering degraded mode")
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// #endregion budget
