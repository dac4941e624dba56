package fusion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuseBatch_MatchesSequentialFusion(t *testing.T) {
	engine := NewTemporalEngine(DefaultParams(), discardLogger())

	reqs := []BatchRequest{
		{Visual: []TimestampMatch{match(10.3, 0.8, ModalityVisual)}},
		{
			Visual:  []TimestampMatch{match(0, 0.9, ModalityVisual)},
			Audio:   []TimestampMatch{match(0, 0.6, ModalityAudio)},
			Weights: WeightVector{"visual": 0.5, "audio": 0.3, "speech": 0.2},
		},
		{}, // empty request
	}

	got := engine.FuseBatch(context.Background(), reqs, 2)

	require.Len(t, got, len(reqs))
	for i, req := range reqs {
		want := engine.Fuse(req.Visual, req.Audio, req.Speech, req.Weights)
		assert.Equal(t, want, got[i], "request %d", i)
	}
}

func TestFuseBatch_EmptyAndDefaults(t *testing.T) {
	engine := NewTemporalEngine(DefaultParams(), discardLogger())

	assert.Empty(t, engine.FuseBatch(context.Background(), nil, 0))

	got := engine.FuseBatch(context.Background(), make([]BatchRequest, 3), -1)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.NotNil(t, r)
		assert.Empty(t, r)
	}
}

func TestFuseBatch_CancelledContext(t *testing.T) {
	engine := NewTemporalEngine(DefaultParams(), discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := engine.FuseBatch(ctx, make([]BatchRequest, 5), 1)

	// Outputs stay non-nil even when scheduling stops early.
	require.Len(t, got, 5)
	for _, r := range got {
		assert.NotNil(t, r)
	}
}
