package signal

import "time"

// #region channel

// Channel identifies the source modality of a sample.
type Channel string

const (
	ChannelText    Channel = "text"
	ChannelAudio   Channel = "audio"
	ChannelContext Channel = "context"
)

// #endregion channel

// #region dimension

// Dimension names a normalized score axis produced by an extractor.
type Dimension string

const (
	// Text dimensions
	DimFormality    Dimension = "formality"
	DimEmotional    Dimension = "emotional_expression"
	DimAuthenticity Dimension = "authenticity"
	DimTension      Dimension = "energy_tension"
	DimSarcasm      Dimension = "sarcasm_marker"

	// Audio dimensions (supplied capability, pre-normalized)
	DimProsodyMismatch Dimension = "prosody_mismatch"
	DimFlatPositive    Dimension = "flat_positive"
	DimVocalEnergy     Dimension = "vocal_energy"

	// Context dimension
	DimContextConfidence Dimension = "context_confidence"

	// Derived dimension tracked against baseline
	DimMasking Dimension = "masking"
)

// CoreTextDimensions are the dimensions every text extraction must produce.
var CoreTextDimensions = []Dimension{
	DimFormality, DimEmotional, DimAuthenticity, DimTension,
}

// #endregion dimension

// #region scores

// Scores maps dimensions to values in [0, 1].
type Scores map[Dimension]float64

// Get returns the score for dim, or fallback when absent.
func (s Scores) Get(dim Dimension, fallback float64) float64 {
	if v, ok := s[dim]; ok {
		return v
	}
	return fallback
}

// Clone returns an independent copy.
func (s Scores) Clone() Scores {
	out := make(Scores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// #endregion scores

// #region sample

// Sample is one extracted observation. Immutable after construction;
// the raw excerpt is bounded so buffers stay fixed-size.
type Sample struct {
	Timestamp time.Time
	Channel   Channel
	Scores    Scores
	Excerpt   string
}

// NewSample builds a sample, trimming the raw excerpt to maxExcerpt runes.
func NewSample(ts time.Time, ch Channel, scores Scores, raw string, maxExcerpt int) Sample {
	excerpt := raw
	if maxExcerpt > 0 {
		runes := []rune(raw)
		if len(runes) > maxExcerpt {
			excerpt = string(runes[:maxExcerpt])
		}
	}
	return Sample{Timestamp: ts, Channel: ch, Scores: scores, Excerpt: excerpt}
}

// #endregion sample

// #region environment

// Environment classifies the inferred physical/social setting.
type Environment string

const (
	EnvHome    Environment = "home"
	EnvWork    Environment = "work"
	EnvSchool  Environment = "school"
	EnvSocial  Environment = "social"
	EnvPublic  Environment = "public"
	EnvUnknown Environment = "unknown"
)

// #endregion environment

// #region clip

// Clip01 restricts v to [0, 1].
func Clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion clip
