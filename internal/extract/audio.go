package extract

import (
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
)

// #region audio-scores

// AudioScores normalizes supplied audio features into dimension scores.
// The analysis itself happens in the external capability; this only clips
// and maps the result into the shared score contract.
func AudioScores(f AudioFeatures) signal.Scores {
	return signal.Scores{
		signal.DimEmotional:       signal.Clip01(dominantEmotion(f.Emotions)),
		signal.DimProsodyMismatch: signal.Clip01(f.ProsodyMismatch),
		signal.DimFlatPositive:    signal.Clip01(f.FlatPositive),
		signal.DimVocalEnergy:     signal.Clip01(f.VocalEnergy),
	}
}

// dominantEmotion returns the strongest emotion intensity, 0 when empty.
func dominantEmotion(emotions map[string]float64) float64 {
	var max float64
	for _, v := range emotions {
		if v > max {
			max = v
		}
	}
	return max
}

// #endregion audio-scores
