package fusion

import (
	"context"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// warnCounter counts Warn-level records emitted during a test.
type warnCounter struct {
	mu    sync.Mutex
	warns int
}

func (h *warnCounter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn
}

func (h *warnCounter) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r.Level == slog.LevelWarn {
		h.warns++
	}
	return nil
}

func (h *warnCounter) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *warnCounter) WithGroup(string) slog.Handler      { return h }

func (h *warnCounter) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.warns
}

func match(ts, sim float64, m Modality) TimestampMatch {
	return TimestampMatch{Timestamp: ts, Similarity: sim, Modality: m}
}

func visualOnly() WeightVector {
	return WeightVector{"visual": 1, "audio": 0, "speech": 0}
}

// --- Window Assignment ---

func TestWindowCenter_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		w := MinTimeWindowSize + rng.Float64()*(MaxTimeWindowSize-MinTimeWindowSize)
		ts := (rng.Float64() - 0.5) * 2000

		center := WindowCenter(ts, w)

		assert.InDelta(t, math.Round(ts/w)*w, center, 1e-9)
		// Center is a multiple of w and within half a window of the match.
		assert.InDelta(t, math.Round(center/w), center/w, 1e-9)
		assert.LessOrEqual(t, math.Abs(ts-center), w/2+1e-9)
	}
}

// --- Single Match Identity ---

func TestTemporalFuse_SingleMatch(t *testing.T) {
	engine := NewTemporalEngine(DefaultParams(), discardLogger())
	weights := WeightVector{"visual": 0.5, "audio": 0.25, "speech": 0.25}

	results := engine.Fuse(
		[]TimestampMatch{match(10.3, 0.8, ModalityVisual)}, nil, nil, weights)

	require.Len(t, results, 1)
	// W=4: round(10.3/4)=3, center 12.0.
	assert.InDelta(t, 12.0, results[0].Timestamp, 1e-9)
	assert.InDelta(t, 0.5*0.8, results[0].TotalScore, 1e-9)
	assert.InDelta(t, 0.8, results[0].VisualScore, 1e-9)
	assert.Zero(t, results[0].AudioScore)
	assert.Zero(t, results[0].SpeechScore)
	// One active modality: multiplier 0.8.
	assert.InDelta(t, 0.4*0.8, results[0].Confidence, 1e-9)
}

// --- Multi-Modal Scenario (spec-level numeric check) ---

func TestTemporalFuse_MultiModalScenario(t *testing.T) {
	engine := NewTemporalEngine(DefaultParams(), discardLogger())
	weights := WeightVector{"visual": 0.5, "audio": 0.3, "speech": 0.2}

	results := engine.Fuse(
		[]TimestampMatch{match(0, 0.9, ModalityVisual)},
		[]TimestampMatch{match(0, 0.6, ModalityAudio)},
		nil,
		weights)

	require.Len(t, results, 1)
	assert.InDelta(t, 0.0, results[0].Timestamp, 1e-9)
	assert.InDelta(t, 0.63, results[0].TotalScore, 1e-9)
	// Two active modalities: 0.63 * (0.7 + 0.3*2/3) = 0.567.
	assert.InDelta(t, 0.567, results[0].Confidence, 1e-9)
}

// --- Conflict Resolution ---

func TestTemporalFuse_ConflictResolution(t *testing.T) {
	params := DefaultParams()
	params.TimeWindowSize = 0.5
	params.MinDistance = 2.0
	engine := NewTemporalEngine(params, discardLogger())

	results := engine.Fuse(
		[]TimestampMatch{
			match(10.0, 0.9, ModalityVisual),
			match(11.5, 0.95, ModalityVisual),
		}, nil, nil, visualOnly())

	// 10.0 and 11.5 are 1.5s apart: only the higher-scored window survives.
	require.Len(t, results, 1)
	assert.InDelta(t, 11.5, results[0].Timestamp, 1e-9)
	assert.InDelta(t, 0.95, results[0].TotalScore, 1e-9)
}

func TestTemporalFuse_NoTwoResultsWithinMinDistance(t *testing.T) {
	params := DefaultParams()
	params.TimeWindowSize = 0.5
	params.MinDistance = 2.0
	params.MaxResults = 100
	engine := NewTemporalEngine(params, discardLogger())

	rng := rand.New(rand.NewSource(7))
	var visual []TimestampMatch
	for i := 0; i < 200; i++ {
		visual = append(visual, match(rng.Float64()*100, rng.Float64(), ModalityVisual))
	}

	results := engine.Fuse(visual, nil, nil, visualOnly())
	require.NotEmpty(t, results)

	for i := range results {
		for j := i + 1; j < len(results); j++ {
			assert.GreaterOrEqual(t,
				math.Abs(results[i].Timestamp-results[j].Timestamp),
				params.MinDistance-1e-9,
				"results %d and %d violate min distance", i, j)
		}
	}
}

// --- Gap-Free Windowing ---

func TestTemporalFuse_PreCreatesGapWindows(t *testing.T) {
	engine := NewTemporalEngine(DefaultParams(), discardLogger())

	results := engine.Fuse(
		[]TimestampMatch{match(0, 0.9, ModalityVisual)},
		nil,
		[]TimestampMatch{match(12, 0.8, ModalitySpeech)},
		visualOnly())

	// Windows 0, 4, 8, 12 all represented; empty ones score zero.
	require.Len(t, results, 4)
	timestamps := make([]float64, len(results))
	for i, r := range results {
		timestamps[i] = r.Timestamp
	}
	assert.ElementsMatch(t, []float64{0, 4, 8, 12}, timestamps)
}

// --- Sort and Cap Invariants ---

func TestTemporalFuse_SortedAndCapped(t *testing.T) {
	params := DefaultParams()
	params.MaxResults = 10
	engine := NewTemporalEngine(params, discardLogger())

	var visual []TimestampMatch
	for i := 0; i < 15; i++ {
		visual = append(visual, match(float64(i)*4, 0.9-float64(i)*0.01, ModalityVisual))
	}

	results := engine.Fuse(visual, nil, nil, visualOnly())

	require.Len(t, results, 10)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].TotalScore, results[i].TotalScore)
	}
	// Top-N by score: the first 10 input windows.
	assert.InDelta(t, 0.9, results[0].TotalScore, 1e-9)
	assert.InDelta(t, 0.81, results[9].TotalScore, 1e-9)
}

// --- Weight Fallback ---

func TestTemporalFuse_WeightFallback(t *testing.T) {
	visual := []TimestampMatch{match(3.0, 0.7, ModalityVisual)}
	audio := []TimestampMatch{match(3.5, 0.4, ModalityAudio)}

	counter := &warnCounter{}
	engine := NewTemporalEngine(DefaultParams(), slog.New(counter))

	// Negative visual, missing audio and speech.
	got := engine.Fuse(visual, audio, nil, WeightVector{"visual": -1})

	reference := NewTemporalEngine(DefaultParams(), discardLogger()).
		Fuse(visual, audio, nil, DefaultTemporalWeights())

	assert.Equal(t, reference, got)
	// One warning for the invalid value, one for the missing keys.
	assert.Equal(t, 2, counter.count())
}

func TestTemporalFuse_NilWeightsUseDefaults(t *testing.T) {
	engine := NewTemporalEngine(DefaultParams(), discardLogger())
	visual := []TimestampMatch{match(1.0, 0.5, ModalityVisual)}

	got := engine.Fuse(visual, nil, nil, nil)
	reference := engine.Fuse(visual, nil, nil, DefaultTemporalWeights())

	assert.Equal(t, reference, got)
}

// --- Empty Input ---

func TestTemporalFuse_EmptyInput(t *testing.T) {
	engine := NewTemporalEngine(DefaultParams(), discardLogger())

	results := engine.Fuse(nil, nil, nil, nil)

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

// --- Determinism ---

func TestTemporalFuse_Deterministic(t *testing.T) {
	engine := NewTemporalEngine(DefaultParams(), discardLogger())

	rng := rand.New(rand.NewSource(99))
	var visual, audio, speech []TimestampMatch
	for i := 0; i < 50; i++ {
		visual = append(visual, match(rng.Float64()*60, rng.Float64(), ModalityVisual))
		audio = append(audio, match(rng.Float64()*60, rng.Float64(), ModalityAudio))
		speech = append(speech, match(rng.Float64()*60, rng.Float64(), ModalitySpeech))
	}

	first := engine.Fuse(visual, audio, speech, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, engine.Fuse(visual, audio, speech, nil))
	}
}

// --- Confidence Bounds ---

func TestTemporalFuse_ConfidenceWithinBounds(t *testing.T) {
	engine := NewTemporalEngine(DefaultParams(), discardLogger())

	results := engine.Fuse(
		[]TimestampMatch{match(0, 1.0, ModalityVisual)},
		[]TimestampMatch{match(0, 1.0, ModalityAudio)},
		[]TimestampMatch{match(0, 1.0, ModalitySpeech)},
		WeightVector{"visual": 3, "audio": 3, "speech": 3})

	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Confidence)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Confidence, 0.0)
		assert.LessOrEqual(t, r.Confidence, 1.0)
	}
}
