package fusion

import (
	"log/slog"
	"math"
	"sort"
)

// Slot indices for the three temporal modalities.
const (
	slotVisual = iota
	slotAudio
	slotSpeech
	slotCount
)

// temporalModalities lists the required weight keys in slot order.
var temporalModalities = [slotCount]string{
	string(ModalityVisual),
	string(ModalityAudio),
	string(ModalitySpeech),
}

// timeWindow accumulates per-modality similarity for one bucket. Created
// transiently during a fusion call and discarded after scoring.
type timeWindow struct {
	sums   [slotCount]float64
	counts [slotCount]int
}

// TemporalEngine fuses timestamped matches from the three modalities into
// ranked, temporally-precise results. The engine holds only immutable
// configuration and is safe for concurrent use.
type TemporalEngine struct {
	params Params
	logger *slog.Logger
}

// NewTemporalEngine creates a temporal fusion engine. Out-of-range params
// are replaced with defaults; a nil logger falls back to slog.Default().
func NewTemporalEngine(params Params, logger *slog.Logger) *TemporalEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemporalEngine{params: params.sanitized(), logger: logger}
}

// Params returns the engine's effective (sanitized) parameters.
func (e *TemporalEngine) Params() Params {
	return e.params
}

// WindowCenter returns the center of the window containing t for window
// width w: round(t/w)*w. Centers are always multiples of w.
func WindowCenter(t, w float64) float64 {
	return math.Round(t/w) * w
}

// Fuse combines the three timestamped match lists into ranked FusedTimestamp
// results, sorted descending by TotalScore and capped at MaxResults.
//
// Pipeline: windowing → per-window weighted scoring → sort → conflict
// resolution → rounding → cap. Nil lists are treated as empty; all-empty
// input yields an empty slice. Invalid weights are substituted from
// defaults with a logged warning. The method never returns an error: a
// window that fails to score is skipped, and an unrecoverable failure
// degrades to an empty result.
func (e *TemporalEngine) Fuse(visual, audio, speech []TimestampMatch, weights WeightVector) (out []FusedTimestamp) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("temporal fusion failed, returning empty result", "panic", r)
			out = []FusedTimestamp{}
		}
	}()

	w := e.sanitizeWeights(weights)

	if len(visual)+len(audio)+len(speech) == 0 {
		// Empty slice, not nil, for consistent API behavior.
		return []FusedTimestamp{}
	}

	windows, minIdx, maxIdx := e.buildWindows(visual, audio, speech)

	// Pre-create every window between the extremes so stretches where only
	// some modalities matched are still represented without gaps.
	for idx := minIdx; idx <= maxIdx; idx++ {
		if windows[idx] == nil {
			windows[idx] = &timeWindow{}
		}
	}

	results := make([]FusedTimestamp, 0, len(windows))
	for idx, win := range windows {
		ft, ok := e.scoreWindow(idx, win, w)
		if !ok {
			continue
		}
		results = append(results, ft)
	}

	sortByScore(results)
	results = e.resolveConflicts(results)

	for i := range results {
		results[i].Timestamp = RoundHalfEven(results[i].Timestamp, e.params.TimestampPrecision)
	}

	if len(results) > e.params.MaxResults {
		results = results[:e.params.MaxResults]
	}
	return results
}

// buildWindows assigns every match to the bucket keyed by its window index
// (window center / W). Returns the bucket map and the observed index range.
func (e *TemporalEngine) buildWindows(visual, audio, speech []TimestampMatch) (map[int64]*timeWindow, int64, int64) {
	windows := make(map[int64]*timeWindow)
	minIdx, maxIdx := int64(math.MaxInt64), int64(math.MinInt64)

	add := func(matches []TimestampMatch, slot int) {
		for _, m := range matches {
			idx := int64(math.Round(m.Timestamp / e.params.TimeWindowSize))
			win := windows[idx]
			if win == nil {
				win = &timeWindow{}
				windows[idx] = win
			}
			win.sums[slot] += m.Similarity
			win.counts[slot]++
			if idx < minIdx {
				minIdx = idx
			}
			if idx > maxIdx {
				maxIdx = idx
			}
		}
	}

	add(visual, slotVisual)
	add(audio, slotAudio)
	add(speech, slotSpeech)
	return windows, minIdx, maxIdx
}

// scoreWindow computes the weighted score and confidence for one window.
// A scoring failure skips the window rather than aborting the call.
func (e *TemporalEngine) scoreWindow(idx int64, win *timeWindow, w WeightVector) (ft FusedTimestamp, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("skipping window after scoring failure", "window", idx, "panic", r)
			ok = false
		}
	}()

	var means [slotCount]float64
	active := 0
	for slot, count := range win.counts {
		if count > 0 {
			means[slot] = win.sums[slot] / float64(count)
			if means[slot] > 0 {
				active++
			}
		}
	}

	var total float64
	for slot, name := range temporalModalities {
		total += w[name] * means[slot]
	}

	// Multi-modal corroboration raises confidence; a single modality caps
	// the multiplier at 0.8, all three at 1.0.
	confidence := math.Min(total*(0.7+0.3*float64(active)/float64(slotCount)), 1.0)

	return FusedTimestamp{
		Timestamp:   float64(idx) * e.params.TimeWindowSize,
		TotalScore:  total,
		VisualScore: means[slotVisual],
		AudioScore:  means[slotAudio],
		SpeechScore: means[slotSpeech],
		Confidence:  confidence,
	}, true
}

// resolveConflicts merges results closer than MinDistance, keeping the
// higher-scored one, so the output never contains two results within the
// configured distance. Input and output are score-sorted.
func (e *TemporalEngine) resolveConflicts(results []FusedTimestamp) []FusedTimestamp {
	if len(results) < 2 {
		return results
	}

	byTime := make([]FusedTimestamp, len(results))
	copy(byTime, results)
	sort.Slice(byTime, func(i, j int) bool { return byTime[i].Timestamp < byTime[j].Timestamp })

	kept := byTime[:1]
	for _, cand := range byTime[1:] {
		last := &kept[len(kept)-1]
		if cand.Timestamp-last.Timestamp < e.params.MinDistance {
			// Replacing the survivor only moves it further from the
			// previous kept entry, so no re-check is needed.
			if cand.TotalScore > last.TotalScore {
				*last = cand
			}
			continue
		}
		kept = append(kept, cand)
	}

	sortByScore(kept)
	return kept
}

// sortByScore sorts descending by TotalScore, tie-breaking on ascending
// timestamp for determinism.
func sortByScore(results []FusedTimestamp) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalScore != results[j].TotalScore {
			return results[i].TotalScore > results[j].TotalScore
		}
		return results[i].Timestamp < results[j].Timestamp
	})
}

// sanitizeWeights fills missing keys from defaults and replaces negative
// or non-finite values, logging a warning for each substitution class.
// Substitution never aborts the call.
func (e *TemporalEngine) sanitizeWeights(w WeightVector) WeightVector {
	out := make(WeightVector, slotCount)
	var missing []string

	for _, key := range temporalModalities {
		fallback, ok := e.params.DefaultWeights[key]
		if !ok {
			fallback = DefaultTemporalWeights()[key]
		}

		v, present := w[key]
		switch {
		case !present:
			missing = append(missing, key)
			out[key] = fallback
		case math.IsNaN(v) || math.IsInf(v, 0) || v < 0:
			e.logger.Warn("invalid weight, substituting default",
				"modality", key, "value", v, "default", fallback)
			out[key] = fallback
		default:
			out[key] = v
		}
	}

	if len(missing) > 0 && len(w) > 0 {
		e.logger.Warn("missing weights, substituting defaults", "modalities", missing)
	}
	return out
}
