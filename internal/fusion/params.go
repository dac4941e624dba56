package fusion

// Configuration bounds and defaults. Window width W gives a worst-case
// timestamp error of W/2, so the default 4s window satisfies a ±2s
// accuracy contract.
const (
	MinTimeWindowSize     = 0.5
	MaxTimeWindowSize     = 10.0
	DefaultTimeWindowSize = 4.0

	DefaultMinConfidence = 0.15
	DefaultMaxResults    = 10
	DefaultMinDistance   = 2.0
)

// RerankWeights configures the secondary re-ranking blend for cross-modal
// fusion. The four weights are linear coefficients over the fused score
// and the auxiliary metadata factors.
type RerankWeights struct {
	Score      float64 `yaml:"score" json:"score"`
	Recency    float64 `yaml:"recency" json:"recency"`
	Popularity float64 `yaml:"popularity" json:"popularity"`
	Quality    float64 `yaml:"quality" json:"quality"`
}

// DefaultRerankWeights returns the default re-ranking blend.
func DefaultRerankWeights() RerankWeights {
	return RerankWeights{
		Score:      0.6,
		Recency:    0.2,
		Popularity: 0.1,
		Quality:    0.1,
	}
}

// Params configures the fusion engines. Params are read-only after engine
// construction; engines never mutate them mid-call, which keeps concurrent
// use safe without locking.
type Params struct {
	// TimeWindowSize is the temporal bucket width in seconds (0.5-10).
	TimeWindowSize float64

	// TimestampPrecision is the number of decimal digits kept on output
	// timestamps (1-3), rounded half-to-even.
	TimestampPrecision int

	// MinConfidence drops cross-modal results below this threshold (0-1).
	MinConfidence float64

	// MaxResults caps the fused output length (>= 1).
	MaxResults int

	// MinDistance is the conflict-merge threshold in seconds (> 0). The
	// output never contains two results closer than this.
	MinDistance float64

	// DefaultWeights is the fallback WeightVector for temporal fusion.
	DefaultWeights WeightVector

	// FileWeights is the fallback WeightVector for cross-modal fusion.
	FileWeights WeightVector

	// Normalize enables divide-by-max normalization of per-file modality
	// scores before weighting.
	Normalize bool

	// Rerank is the secondary re-ranking blend.
	Rerank RerankWeights
}

// DefaultParams returns the documented safe defaults.
func DefaultParams() Params {
	return Params{
		TimeWindowSize:     DefaultTimeWindowSize,
		TimestampPrecision: DefaultTimestampPrecision,
		MinConfidence:      DefaultMinConfidence,
		MaxResults:         DefaultMaxResults,
		MinDistance:        DefaultMinDistance,
		DefaultWeights:     DefaultTemporalWeights(),
		FileWeights:        DefaultFileWeights(),
		Normalize:          true,
		Rerank:             DefaultRerankWeights(),
	}
}

// sanitized returns a copy of p with out-of-range values replaced by
// defaults. Engines call this once at construction so a zero Params is
// usable.
func (p Params) sanitized() Params {
	if p.TimeWindowSize < MinTimeWindowSize || p.TimeWindowSize > MaxTimeWindowSize {
		p.TimeWindowSize = DefaultTimeWindowSize
	}
	if p.TimestampPrecision < MinTimestampPrecision || p.TimestampPrecision > MaxTimestampPrecision {
		p.TimestampPrecision = DefaultTimestampPrecision
	}
	if p.MinConfidence < 0 || p.MinConfidence > 1 {
		p.MinConfidence = DefaultMinConfidence
	}
	if p.MaxResults < 1 {
		p.MaxResults = DefaultMaxResults
	}
	if p.MinDistance <= 0 {
		p.MinDistance = DefaultMinDistance
	}
	if len(p.DefaultWeights) == 0 {
		p.DefaultWeights = DefaultTemporalWeights()
	}
	if len(p.FileWeights) == 0 {
		p.FileWeights = DefaultFileWeights()
	}
	if p.Rerank == (RerankWeights{}) {
		p.Rerank = DefaultRerankWeights()
	}
	return p
}
