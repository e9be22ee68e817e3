package extract

import (
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
)

// #region text-scorer

// TextScorer turns raw communication text into normalized dimension scores.
// Implementations must be pure and return values in [0, 1]. The built-in
// MarkerScorer is keyword-based; a real classifier can replace it without
// touching the engine.
type TextScorer interface {
	Score(text string, env signal.Environment) (signal.Scores, error)
}

// #endregion text-scorer

// #region audio-features

// AudioFeatures is the audio-channel payload supplied by the external
// analysis capability. All values are expected in [0, 1]; AudioScores
// clips them anyway.
type AudioFeatures struct {
	Emotions        map[string]float64 `json:"emotions"`
	ProsodyMismatch float64            `json:"prosody_mismatch"`
	FlatPositive    float64            `json:"flat_positive"`
	VocalEnergy     float64            `json:"vocal_energy"`
}

// #endregion audio-features

// #region app-context

// AppClass classifies a foreground application.
type AppClass string

const (
	ClassProfessional AppClass = "professional"
	ClassPersonal     AppClass = "personal"
	ClassCreative     AppClass = "creative"
	ClassUnknown      AppClass = "unknown"
)

// ContextResult is the outcome of classifying the foreground application.
type ContextResult struct {
	Class       AppClass
	Confidence  float64
	Environment signal.Environment
}

// #endregion app-context
