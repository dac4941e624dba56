// Package fusion combines independently-scored matches from multiple
// modalities (visual, audio, speech) into a single ranked answer set.
// Temporal fusion aligns timestamped matches into fixed-width time windows;
// cross-modal fusion aggregates file-level results across modalities.
package fusion

// Modality identifies the source modality of a timestamped match.
type Modality string

const (
	// ModalityVisual covers image and video-frame matches.
	ModalityVisual Modality = "visual"

	// ModalityAudio covers non-speech sound matches.
	ModalityAudio Modality = "audio"

	// ModalitySpeech covers transcribed voice matches.
	ModalitySpeech Modality = "speech"
)

// File-level modalities used by cross-modal fusion.
const (
	FileModalityText  = "text"
	FileModalityImage = "image"
	FileModalityAudio = "audio"
	FileModalityVideo = "video"
)

// TimestampMatch is a single timestamped match produced by an external
// per-modality search collaborator. Immutable once decoded.
type TimestampMatch struct {
	// Timestamp is the match position in seconds from the start of the media.
	Timestamp float64 `json:"timestamp"`

	// Similarity is the match score in [0,1].
	Similarity float64 `json:"similarity"`

	// Modality is the source modality (visual, audio, speech).
	Modality Modality `json:"modality"`

	// SegmentInfo carries opaque collaborator metadata (segment bounds,
	// source shard). Never inspected by the fusion algorithm.
	SegmentInfo map[string]any `json:"segment_info,omitempty"`
}

// FusedTimestamp is one ranked time-window result from temporal fusion.
type FusedTimestamp struct {
	// Timestamp is the window center, rounded to the configured precision.
	Timestamp float64 `json:"timestamp"`

	// TotalScore is the weighted combination of per-modality mean scores.
	TotalScore float64 `json:"total_score"`

	// VisualScore is the mean visual similarity in the window (0 if none).
	VisualScore float64 `json:"visual_score"`

	// AudioScore is the mean audio similarity in the window (0 if none).
	AudioScore float64 `json:"audio_score"`

	// SpeechScore is the mean speech similarity in the window (0 if none).
	SpeechScore float64 `json:"speech_score"`

	// Confidence rewards multi-modal corroboration, in [0,1].
	Confidence float64 `json:"confidence"`
}

// SearchResult is a file-level result from an external per-modality search.
type SearchResult struct {
	// FileID uniquely identifies the media file.
	FileID string `json:"file_id"`

	// FilePath is the file location as reported by the collaborator.
	FilePath string `json:"file_path"`

	// FileType is the media type (e.g. "video", "audio", "image").
	FileType string `json:"file_type"`

	// Similarity is the match score in [0,1].
	Similarity float64 `json:"similarity"`

	// Modality is the file-level modality that produced this result
	// (text, image, audio, video).
	Modality string `json:"modality"`

	// Metadata carries optional collaborator metadata. Re-ranking reads
	// the "recency", "popularity" and "quality" keys when present.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// FusedSearchResult is one ranked file after cross-modal fusion. There is
// exactly one per distinct FileID in the input.
type FusedSearchResult struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`

	// FinalScore is the weighted combination of normalized modality scores.
	FinalScore float64 `json:"final_score"`

	// Per-modality maximum similarity (a file is only as good as its best
	// matching segment).
	TextScore  float64 `json:"text_score"`
	ImageScore float64 `json:"image_score"`
	AudioScore float64 `json:"audio_score"`
	VideoScore float64 `json:"video_score"`

	// Confidence rewards agreement across modalities, in [0,1].
	Confidence float64 `json:"confidence"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// WeightVector maps modality names to non-negative linear-combination
// coefficients. Weights need not sum to 1.
type WeightVector map[string]float64

// Clone returns a copy of the weight vector. A nil vector clones to nil.
func (w WeightVector) Clone() WeightVector {
	if w == nil {
		return nil
	}
	out := make(WeightVector, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// DefaultTemporalWeights returns the fallback weights for temporal fusion.
func DefaultTemporalWeights() WeightVector {
	return WeightVector{
		string(ModalityVisual): 0.4,
		string(ModalityAudio):  0.3,
		string(ModalitySpeech): 0.3,
	}
}

// DefaultFileWeights returns the fallback weights for cross-modal fusion.
func DefaultFileWeights() WeightVector {
	return WeightVector{
		FileModalityText:  0.25,
		FileModalityImage: 0.25,
		FileModalityAudio: 0.25,
		FileModalityVideo: 0.25,
	}
}
