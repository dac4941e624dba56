package fusion

import (
	"log/slog"
	"math"
	"sort"
)

// fileModalities lists the file-level modalities cross-modal fusion scores.
var fileModalities = [4]string{
	FileModalityText,
	FileModalityImage,
	FileModalityAudio,
	FileModalityVideo,
}

// neutralFactor is used for re-ranking factors absent from metadata.
const neutralFactor = 0.5

// fileAgg accumulates per-modality maxima for one file during grouping.
type fileAgg struct {
	result FusedSearchResult
	scores map[string]float64
}

// CrossModalEngine fuses file-level results from multiple modalities into
// one ranked list with a single entry per file. Safe for concurrent use.
type CrossModalEngine struct {
	params Params
	logger *slog.Logger
}

// NewCrossModalEngine creates a cross-modal fusion engine. Out-of-range
// params are replaced with defaults; a nil logger falls back to
// slog.Default().
func NewCrossModalEngine(params Params, logger *slog.Logger) *CrossModalEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &CrossModalEngine{params: params.sanitized(), logger: logger}
}

// Fuse groups per-modality file results by FileID and combines them into
// ranked FusedSearchResult entries, sorted descending by FinalScore.
//
// Each file keeps the maximum similarity observed per modality (a file is
// only as good as its best matching segment). Scores are normalized by the
// per-file maximum when normalization is enabled. Results whose confidence
// falls below MinConfidence are dropped. Never returns an error; an
// unrecoverable failure degrades to an empty result.
func (e *CrossModalEngine) Fuse(perModality map[string][]SearchResult, query string, weights WeightVector) (out []FusedSearchResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("cross-modal fusion failed, returning empty result",
				"query", query, "panic", r)
			out = []FusedSearchResult{}
		}
	}()

	w := e.sanitizeWeights(weights)

	groups := e.groupByFile(perModality)
	if len(groups) == 0 {
		return []FusedSearchResult{}
	}

	results := make([]FusedSearchResult, 0, len(groups))
	for _, agg := range groups {
		r := e.scoreFile(agg, w)
		if r.Confidence < e.params.MinConfidence {
			continue
		}
		results = append(results, r)
	}

	sortByFinalScore(results)

	if len(results) > e.params.MaxResults {
		results = results[:e.params.MaxResults]
	}
	return results
}

// groupByFile merges all input lists into one aggregate per FileID,
// keeping the maximum similarity per modality.
func (e *CrossModalEngine) groupByFile(perModality map[string][]SearchResult) map[string]*fileAgg {
	groups := make(map[string]*fileAgg)

	for modality, results := range perModality {
		for _, r := range results {
			if r.FileID == "" {
				continue
			}
			m := modality
			if m == "" {
				m = r.Modality
			}

			agg := groups[r.FileID]
			if agg == nil {
				agg = &fileAgg{
					result: FusedSearchResult{
						FileID:   r.FileID,
						FilePath: r.FilePath,
						FileType: r.FileType,
						Metadata: r.Metadata,
					},
					scores: make(map[string]float64, len(fileModalities)),
				}
				groups[r.FileID] = agg
			}
			if agg.result.FilePath == "" {
				agg.result.FilePath = r.FilePath
			}
			if agg.result.FileType == "" {
				agg.result.FileType = r.FileType
			}
			if agg.result.Metadata == nil {
				agg.result.Metadata = r.Metadata
			}
			if r.Similarity > agg.scores[m] {
				agg.scores[m] = r.Similarity
			}
		}
	}
	return groups
}

// scoreFile computes the weighted final score and confidence for one file.
func (e *CrossModalEngine) scoreFile(agg *fileAgg, w WeightVector) FusedSearchResult {
	r := agg.result
	r.TextScore = agg.scores[FileModalityText]
	r.ImageScore = agg.scores[FileModalityImage]
	r.AudioScore = agg.scores[FileModalityAudio]
	r.VideoScore = agg.scores[FileModalityVideo]

	var maxScore float64
	valid := 0
	for _, name := range fileModalities {
		s := agg.scores[name]
		if s > 0 {
			valid++
		}
		if s > maxScore {
			maxScore = s
		}
	}

	var final float64
	for _, name := range fileModalities {
		s := agg.scores[name]
		if e.params.Normalize && maxScore > 0 {
			s /= maxScore
		}
		final += w[name] * s
	}

	r.FinalScore = final
	r.Confidence = math.Min(final*(1+float64(valid)*0.15), 1.0)
	return r
}

// Rerank blends FinalScore with time-decay, popularity and quality factors
// read from result metadata, then re-sorts. Absent factors default to a
// neutral 0.5. The input slice is not modified.
func (e *CrossModalEngine) Rerank(results []FusedSearchResult) []FusedSearchResult {
	if len(results) == 0 {
		return []FusedSearchResult{}
	}

	rw := e.params.Rerank
	out := make([]FusedSearchResult, len(results))
	copy(out, results)

	for i := range out {
		recency := metadataFactor(out[i].Metadata, "recency")
		popularity := metadataFactor(out[i].Metadata, "popularity")
		quality := metadataFactor(out[i].Metadata, "quality")

		out[i].FinalScore = rw.Score*out[i].FinalScore +
			rw.Recency*recency +
			rw.Popularity*popularity +
			rw.Quality*quality
	}

	sortByFinalScore(out)
	return out
}

// metadataFactor reads a [0,1] factor from metadata, clamping out-of-range
// values and defaulting to neutral when absent or non-numeric.
func metadataFactor(metadata map[string]any, key string) float64 {
	v, ok := metadata[key]
	if !ok {
		return neutralFactor
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	default:
		return neutralFactor
	}

	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// sortByFinalScore sorts descending by FinalScore with deterministic
// tie-breaks: higher confidence first, then lexicographic FileID.
func sortByFinalScore(results []FusedSearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return results[i].FileID < results[j].FileID
	})
}

// sanitizeWeights fills the file-modality weights from FileWeights,
// replacing negative or non-finite values. Extra keys are ignored.
func (e *CrossModalEngine) sanitizeWeights(w WeightVector) WeightVector {
	out := make(WeightVector, len(fileModalities))
	for _, key := range fileModalities {
		fallback, ok := e.params.FileWeights[key]
		if !ok {
			fallback = DefaultFileWeights()[key]
		}

		v, present := w[key]
		switch {
		case !present:
			out[key] = fallback
		case math.IsNaN(v) || math.IsInf(v, 0) || v < 0:
			e.logger.Warn("invalid weight, substituting default",
				"modality", key, "value", v, "default", fallback)
			out[key] = fallback
		default:
			out[key] = v
		}
	}
	return out
}
