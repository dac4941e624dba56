// Package telemetry collects local fusion-call metrics for tuning weight
// selection. All data stays in memory - no external reporting.
package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LatencyBucket represents a latency histogram bucket.
type LatencyBucket string

const (
	BucketP1   LatencyBucket = "p1"   // <1ms
	BucketP5   LatencyBucket = "p5"   // 1-5ms
	BucketP20  LatencyBucket = "p20"  // 5-20ms
	BucketP100 LatencyBucket = "p100" // 20-100ms
	BucketSlow LatencyBucket = "slow" // >=100ms
)

// LatencyToBucket converts a duration to its histogram bucket. Fusion is
// pure computation, so the buckets sit well below search-latency scales.
func LatencyToBucket(d time.Duration) LatencyBucket {
	switch ms := d.Milliseconds(); {
	case ms < 1:
		return BucketP1
	case ms < 5:
		return BucketP5
	case ms < 20:
		return BucketP20
	case ms < 100:
		return BucketP100
	default:
		return BucketSlow
	}
}

// FusionEvent records one fusion call.
type FusionEvent struct {
	Query          string
	Classification string
	ResultCount    int
	Latency        time.Duration
	Timestamp      time.Time
}

// IsZeroResult reports whether the call produced no results.
func (e FusionEvent) IsZeroResult() bool {
	return e.ResultCount == 0
}

// Snapshot is an immutable view of collected metrics.
type Snapshot struct {
	ClassificationCounts map[string]int64        `json:"classification_counts"`
	LatencyDistribution  map[LatencyBucket]int64 `json:"latency_distribution"`
	ZeroResultQueries    []string                `json:"zero_result_queries"`
	TotalCalls           int64                   `json:"total_calls"`
	ZeroResultCount      int64                   `json:"zero_result_count"`
	ExactRepeatCount     int64                   `json:"exact_repeat_count"`
	Since                time.Time               `json:"since"`
}

// ZeroResultPercentage returns the percentage of zero-result calls.
func (s *Snapshot) ZeroResultPercentage() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.ZeroResultCount) / float64(s.TotalCalls) * 100
}

// Config configures the metrics collector.
type Config struct {
	ZeroResultsCapacity   int // Max zero-result queries to keep (default: 100)
	RecentQueriesCapacity int // Max query hashes for repeat tracking (default: 500)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ZeroResultsCapacity:   100,
		RecentQueriesCapacity: 500,
	}
}

// Metrics collects fusion telemetry. Thread-safe.
type Metrics struct {
	mu sync.RWMutex

	classifications  map[string]int64
	latencies        map[LatencyBucket]int64
	zeroResults      *CircularBuffer[string]
	recentQueries    *lru.Cache[string, struct{}]
	totalCalls       int64
	zeroResultCount  int64
	exactRepeatCount int64
	startTime        time.Time
}

// NewMetrics creates a metrics collector with default configuration.
func NewMetrics() *Metrics {
	return NewMetricsWithConfig(DefaultConfig())
}

// NewMetricsWithConfig creates a metrics collector with custom capacities.
func NewMetricsWithConfig(cfg Config) *Metrics {
	if cfg.ZeroResultsCapacity <= 0 {
		cfg.ZeroResultsCapacity = 100
	}
	if cfg.RecentQueriesCapacity <= 0 {
		cfg.RecentQueriesCapacity = 500
	}

	recentQueries, _ := lru.New[string, struct{}](cfg.RecentQueriesCapacity)
	return &Metrics{
		classifications: make(map[string]int64),
		latencies:       make(map[LatencyBucket]int64),
		zeroResults:     NewCircularBuffer[string](cfg.ZeroResultsCapacity),
		recentQueries:   recentQueries,
		startTime:       time.Now(),
	}
}

// Record captures one fusion call. Non-blocking and safe for concurrent use.
func (m *Metrics) Record(event FusionEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.classifications[event.Classification]++
	m.totalCalls++
	m.latencies[LatencyToBucket(event.Latency)]++

	if event.IsZeroResult() {
		m.zeroResults.Add(event.Query)
		m.zeroResultCount++
	}

	hash := hashQuery(event.Query)
	if _, exists := m.recentQueries.Get(hash); exists {
		m.exactRepeatCount++
	}
	m.recentQueries.Add(hash, struct{}{})
}

// SnapshotNow returns the current metrics.
func (m *Metrics) SnapshotNow() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	classifications := make(map[string]int64, len(m.classifications))
	for k, v := range m.classifications {
		classifications[k] = v
	}
	latencies := make(map[LatencyBucket]int64, len(m.latencies))
	for k, v := range m.latencies {
		latencies[k] = v
	}

	zero := m.zeroResults.Items()
	sort.Strings(zero)

	return &Snapshot{
		ClassificationCounts: classifications,
		LatencyDistribution:  latencies,
		ZeroResultQueries:    zero,
		TotalCalls:           m.totalCalls,
		ZeroResultCount:      m.zeroResultCount,
		ExactRepeatCount:     m.exactRepeatCount,
		Since:                m.startTime,
	}
}

// hashQuery creates a normalized hash of the query for repeat detection.
func hashQuery(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:16])
}
