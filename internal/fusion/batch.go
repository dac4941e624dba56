package fusion

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchRequest is one independent fusion call within a batch.
type BatchRequest struct {
	Visual  []TimestampMatch
	Audio   []TimestampMatch
	Speech  []TimestampMatch
	Weights WeightVector
}

// FuseBatch runs temporal fusion over many independent requests in
// parallel. Each request is an isolated map operation: outputs arrive in
// input order and a failed request yields an empty slice (the engine
// already absorbs internal failures). parallelism <= 0 uses GOMAXPROCS.
//
// Cancelling ctx stops scheduling further requests; already-started
// fusions run to completion (each call is short and non-blocking).
func (e *TemporalEngine) FuseBatch(ctx context.Context, reqs []BatchRequest, parallelism int) [][]FusedTimestamp {
	out := make([][]FusedTimestamp, len(reqs))
	if len(reqs) == 0 {
		return out
	}

	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, req := range reqs {
		if ctx.Err() != nil {
			break
		}
		i, req := i, req
		g.Go(func() error {
			out[i] = e.Fuse(req.Visual, req.Audio, req.Speech, req.Weights)
			return nil
		})
	}

	_ = g.Wait()

	for i := range out {
		if out[i] == nil {
			out[i] = []FusedTimestamp{}
		}
	}
	return out
}
