package extract

// #region imports
import (
	"strings"
	"unicode"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
)

// #endregion imports

// #region marker-scorer

// minScorableWords is the cutoff below which text is too short to score;
// everything under it gets neutral 0.5 on all core dimensions.
const minScorableWords = 3

// MarkerScorer is the built-in keyword-heuristic TextScorer. No model call.
type MarkerScorer struct{}

// NewMarkerScorer returns the default keyword-based text scorer.
func NewMarkerScorer() *MarkerScorer {
	return &MarkerScorer{}
}

// Score computes all text dimensions via marker-set heuristics.
// Output is always in [0, 1]; never returns an error.
func (m *MarkerScorer) Score(text string, env signal.Environment) (signal.Scores, error) {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	if len(words) < minScorableWords {
		return neutralScores(), nil
	}

	return signal.Scores{
		signal.DimFormality:    scoreFormality(lower, text),
		signal.DimEmotional:    scoreEmotional(lower, text),
		signal.DimAuthenticity: scoreAuthenticity(lower),
		signal.DimTension:      scoreTension(lower, env),
		signal.DimSarcasm:      scoreSarcasm(lower),
	}, nil
}

// neutralScores is the documented response to empty or very short text.
func neutralScores() signal.Scores {
	return signal.Scores{
		signal.DimFormality:    0.5,
		signal.DimEmotional:    0.5,
		signal.DimAuthenticity: 0.5,
		signal.DimTension:      0.5,
		signal.DimSarcasm:      0,
	}
}

// #endregion marker-scorer

// #region formality

// scoreFormality combines tiered marker hits with a sentence-length
// heuristic, normalized by total marker count + 1.
func scoreFormality(lower, original string) float64 {
	t1 := countHits(lower, formalTier1)
	t2 := countHits(lower, formalTier2)
	cas := countHits(lower, casualMarkers)
	hits := t1 + t2 + cas

	lengthTerm := 0.5
	switch avg := avgSentenceWords(original); {
	case avg < 6:
		lengthTerm = 0.3
	case avg > 16:
		lengthTerm = 0.7
	}

	markerTerm := (float64(t1) + 0.6*float64(t2) - 0.8*float64(cas)) / float64(hits+1)
	return signal.Clip01(lengthTerm + markerTerm)
}

// #endregion formality

// #region emotional

// scoreEmotional combines emotion marker hits with punctuation and
// emphasis signals.
func scoreEmotional(lower, original string) float64 {
	hits := countHits(lower, emotionMarkers)
	excl := strings.Count(original, "!")
	emph := countShoutedWords(original)
	return signal.Clip01(0.2 + 0.15*float64(hits) + 0.1*float64(excl) + 0.1*float64(emph))
}

// countShoutedWords counts fully-uppercase words of 3+ letters.
func countShoutedWords(text string) int {
	n := 0
	for _, w := range strings.Fields(text) {
		letters := 0
		upper := true
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters++
				if !unicode.IsUpper(r) {
					upper = false
					break
				}
			}
		}
		if upper && letters >= 3 {
			n++
		}
	}
	return n
}

// #endregion emotional

// #region authenticity

// scoreAuthenticity is the ratio of authentic markers to all marker hits.
// No hits at all reads as neutral 0.5.
func scoreAuthenticity(lower string) float64 {
	auth := countHits(lower, authenticMarkers)
	perf := countHits(lower, performativeMarkers)
	hedge := countHits(lower, hedgingMarkers)
	over := countHits(lower, overcompMarkers)

	denom := auth + perf + hedge + over
	if denom == 0 {
		return 0.5
	}
	return float64(auth) / float64(denom)
}

// #endregion authenticity

// #region tension

// scoreTension weighs stress markers against relaxed markers, adjusted
// for the current environment.
func scoreTension(lower string, env signal.Environment) float64 {
	stress := countHits(lower, stressMarkers)
	relaxed := countHits(lower, relaxedMarkers)

	adj := 0.0
	switch env {
	case signal.EnvWork, signal.EnvSchool, signal.EnvPublic:
		adj = 0.1
	case signal.EnvHome:
		adj = -0.1
	}

	return signal.Clip01(0.5 + 0.12*float64(stress) - 0.12*float64(relaxed) + adj)
}

// #endregion tension

// #region sarcasm

// scoreSarcasm is a coarse marker count; the correlator fuses it with
// prosody evidence before it means anything.
func scoreSarcasm(lower string) float64 {
	return signal.Clip01(0.4 * float64(countHits(lower, sarcasmMarkers)))
}

// #endregion sarcasm

// #region helpers

// countHits sums occurrences of each marker in the text.
func countHits(lower string, markers []string) int {
	n := 0
	for _, m := range markers {
		n += strings.Count(lower, m)
	}
	return n
}

// avgSentenceWords computes the mean word count per sentence.
func avgSentenceWords(text string) float64 {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	total, count := 0, 0
	for _, s := range sentences {
		w := len(strings.Fields(s))
		if w == 0 {
			continue
		}
		total += w
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// #endregion helpers
