package engine

// #region imports
import (
	"time"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/baseline"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/correlate"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/energy"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/prompt"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/score"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/transition"
)

// #endregion imports

// #region config

// Config bundles the tuning of every pipeline stage. Zero values fall back
// to defaults at construction; Configure validates before applying.
type Config struct {
	Baseline   baseline.Config
	Correlator correlate.Config
	Score      score.Config
	Energy     energy.Config
	Transition transition.Config
	Prompt     prompt.Config

	BatchInterval time.Duration // fast tick draining the input queue
	SlowInterval  time.Duration // slow tick for energy and environment reassessment
	QueueCap      int           // bounded input queue, drop-oldest on overflow
	MaxExcerpt    int           // retained raw-text excerpt length in runes

	SampleHistory     int // retained processed samples
	TransitionHistory int // retained transition events
	MomentHistory     int // retained authenticity moments

	SafePromptMinDelay time.Duration // earliest unmasking prompt after safe-space entry
	SafePromptMaxDelay time.Duration // latest unmasking prompt after safe-space entry
	EnergyPromptDelay  time.Duration // delay for energy warning/critical prompts
}

// DefaultConfig returns the standard engine tuning.
func DefaultConfig() Config {
	return Config{
		Baseline:   baseline.DefaultConfig(),
		Correlator: correlate.DefaultConfig(),
		Score:      score.DefaultConfig(),
		Energy:     energy.DefaultConfig(),
		Transition: transition.DefaultConfig(),
		Prompt:     prompt.DefaultConfig(),

		BatchInterval: 100 * time.Millisecond,
		SlowInterval:  30 * time.Second,
		QueueCap:      10,
		MaxExcerpt:    120,

		SampleHistory:     100,
		TransitionHistory: 50,
		MomentHistory:     20,

		SafePromptMinDelay: 180 * time.Second,
		SafePromptMaxDelay: 300 * time.Second,
		EnergyPromptDelay:  60 * time.Second,
	}
}

// #endregion config

// #region validate

// Validate rejects configurations that would wedge the pipeline. Returns
// a *ConfigError naming the first offending field.
func (c Config) Validate() error {
	switch {
	case c.Baseline.Alpha <= 0 || c.Baseline.Alpha > 1:
		return &ConfigError{Field: "Baseline.Alpha", Reason: "must be in (0, 1]"}
	case c.Baseline.WarmupTarget < 1:
		return &ConfigError{Field: "Baseline.WarmupTarget", Reason: "must be at least 1"}
	case c.Correlator.WindowMs <= 0:
		return &ConfigError{Field: "Correlator.WindowMs", Reason: "must be positive"}
	case c.Correlator.ConfidenceThreshold < 0 || c.Correlator.ConfidenceThreshold > 1:
		return &ConfigError{Field: "Correlator.ConfidenceThreshold", Reason: "must be in [0, 1]"}
	case c.Correlator.DegradedThreshold < c.Correlator.ConfidenceThreshold:
		return &ConfigError{Field: "Correlator.DegradedThreshold", Reason: "must not undercut the normal threshold"}
	case c.Energy.DepletionRate < 0 || c.Energy.RecoveryRate < 0:
		return &ConfigError{Field: "Energy", Reason: "rates must be non-negative"}
	case c.Energy.CriticalThreshold > c.Energy.WarningThreshold:
		return &ConfigError{Field: "Energy.CriticalThreshold", Reason: "must not exceed the warning threshold"}
	case c.Transition.ShiftThreshold <= 0:
		return &ConfigError{Field: "Transition.ShiftThreshold", Reason: "must be positive"}
	case c.Prompt.DailyCap < 0:
		return &ConfigError{Field: "Prompt.DailyCap", Reason: "must be non-negative"}
	case c.Prompt.MinSpacing < 0:
		return &ConfigError{Field: "Prompt.MinSpacing", Reason: "must be non-negative"}
	case c.BatchInterval <= 0:
		return &ConfigError{Field: "BatchInterval", Reason: "must be positive"}
	case c.SlowInterval <= 0:
		return &ConfigError{Field: "SlowInterval", Reason: "must be positive"}
	case c.QueueCap < 1:
		return &ConfigError{Field: "QueueCap", Reason: "must be at least 1"}
	case c.SafePromptMaxDelay < c.SafePromptMinDelay:
		return &ConfigError{Field: "SafePromptMaxDelay", Reason: "must not undercut the minimum delay"}
	}
	return nil
}

// #endregion validate
