package query

import (
	"github.com/clipsift/clipsift/internal/fusion"
)

// Predefined weight vectors per classification. Faces are visual evidence,
// so person queries stay visual-dominant.
var (
	personWeights = fusion.WeightVector{
		string(fusion.ModalityVisual): 0.5,
		string(fusion.ModalityAudio):  0.25,
		string(fusion.ModalitySpeech): 0.25,
	}
	visualWeights = fusion.WeightVector{
		string(fusion.ModalityVisual): 0.65,
		string(fusion.ModalityAudio):  0.2,
		string(fusion.ModalitySpeech): 0.15,
	}
	musicWeights = fusion.WeightVector{
		string(fusion.ModalityVisual): 0.2,
		string(fusion.ModalityAudio):  0.65,
		string(fusion.ModalitySpeech): 0.15,
	}
	speechWeights = fusion.WeightVector{
		string(fusion.ModalityVisual): 0.2,
		string(fusion.ModalityAudio):  0.15,
		string(fusion.ModalitySpeech): 0.65,
	}
)

// SelectWeights maps a classification to a concrete weight vector.
// Audio-leaning queries are re-scanned against the music and speech keyword
// subsets to decide which of the two dominates. Unknown kinds fall back to
// the mixed defaults. Pure and total for any input.
func SelectWeights(c Classification, query string, defaults fusion.WeightVector) fusion.WeightVector {
	if len(defaults) == 0 {
		defaults = fusion.DefaultTemporalWeights()
	}

	switch c.Kind {
	case KindPerson:
		return personWeights.Clone()
	case KindVisual:
		return visualWeights.Clone()
	case KindAudio:
		normalized := normalizeQuery(query)
		if countKeywords(normalized, SpeechKeywords) > countKeywords(normalized, MusicKeywords) {
			return speechWeights.Clone()
		}
		return musicWeights.Clone()
	default:
		return defaults.Clone()
	}
}
