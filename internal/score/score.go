package score

// #region imports
import (
	"time"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/baseline"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/extract"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
)

// #endregion imports

// #region config

// Config holds the masking and safety scoring weights.
type Config struct {
	FormalityWeight    float64 // masking contribution of formality
	AuthenticityWeight float64 // masking contribution of (1 - authenticity)
	SuppressionWeight  float64 // masking contribution of emotional suppression
	// SuppressionGain multiplies the suppression term. The source system
	// shipped a hardcoded 2.0 here; kept configurable rather than corrected.
	SuppressionGain float64

	EnvSafety    map[signal.Environment]float64 // per-environment base safety
	EveningBonus float64                        // added 19:00-09:00
	AppAdjust    map[extract.AppClass]float64   // foreground-app adjustment
}

// DefaultConfig returns the standard scoring weights.
func DefaultConfig() Config {
	return Config{
		FormalityWeight:    0.3,
		AuthenticityWeight: 0.4,
		SuppressionWeight:  0.3,
		SuppressionGain:    2.0,
		EnvSafety: map[signal.Environment]float64{
			signal.EnvHome:    0.9,
			signal.EnvWork:    0.2,
			signal.EnvSchool:  0.3,
			signal.EnvSocial:  0.4,
			signal.EnvPublic:  0.1,
			signal.EnvUnknown: 0.5,
		},
		EveningBonus: 0.2,
		AppAdjust: map[extract.AppClass]float64{
			extract.ClassProfessional: -0.2,
			extract.ClassPersonal:     0.2,
			extract.ClassCreative:     0.3,
			extract.ClassUnknown:      0,
		},
	}
}

// #endregion config

// #region masking

// Masking computes the masking level from text dimension scores. The
// suppression term compares emotional expression against its baseline and
// applies only once the baseline is established; cold-start sessions see
// formality and authenticity contributions only.
func Masking(scores signal.Scores, base *baseline.Tracker, config Config) float64 {
	formality := scores.Get(signal.DimFormality, 0.5)
	authenticity := scores.Get(signal.DimAuthenticity, 0.5)

	suppression := 0.0
	if base != nil && base.Established(signal.DimEmotional) {
		b, _ := base.Get(signal.DimEmotional)
		drop := b.Value - scores.Get(signal.DimEmotional, 0.5)
		if drop > 0 {
			suppression = drop * config.SuppressionWeight * config.SuppressionGain
		}
	}

	return signal.Clip01(
		formality*config.FormalityWeight +
			(1-authenticity)*config.AuthenticityWeight +
			suppression,
	)
}

// #endregion masking

// #region safety

// eveningStart/eveningEnd bound the evening safety bonus: 19:00-09:00.
const (
	eveningStart = 19
	eveningEnd   = 9
)

// Safety computes the safety level from environment, time of day, and the
// foreground application class.
func Safety(env signal.Environment, appClass extract.AppClass, now time.Time, config Config) float64 {
	base, ok := config.EnvSafety[env]
	if !ok {
		base = config.EnvSafety[signal.EnvUnknown]
	}

	h := now.Hour()
	if h >= eveningStart || h < eveningEnd {
		base += config.EveningBonus
	}

	base += config.AppAdjust[appClass]

	return signal.Clip01(base)
}

// #endregion safety
