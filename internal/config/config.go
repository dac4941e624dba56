// Package config loads and validates fusion configuration. Precedence:
// built-in defaults < config file < CLIPSIFT_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/clipsift/clipsift/internal/errors"
	"github.com/clipsift/clipsift/internal/fusion"
)

// Config is the complete clipsift configuration.
type Config struct {
	Fusion     FusionConfig     `yaml:"fusion" json:"fusion"`
	Classifier ClassifierConfig `yaml:"classifier" json:"classifier"`
	Log        LogConfig        `yaml:"log" json:"log"`
}

// FusionConfig configures the fusion engines. All values are independently
// overridable; out-of-range values are clamped by Validate.
type FusionConfig struct {
	// TimeWindowSize is the temporal bucket width in seconds (0.5-10).
	// W/2 must not exceed the required timestamp accuracy; the default 4s
	// satisfies the ±2s contract.
	TimeWindowSize float64 `yaml:"time_window_size" json:"time_window_size"`

	// TimestampPrecision is the decimal digits on output timestamps (1-3).
	TimestampPrecision int `yaml:"timestamp_precision" json:"timestamp_precision"`

	// MinConfidence is the drop threshold for cross-modal results (0-1).
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence"`

	// MaxResults caps fused output length (>= 1).
	MaxResults int `yaml:"max_results" json:"max_results"`

	// MinDistance is the conflict-merge threshold in seconds (> 0).
	MinDistance float64 `yaml:"min_distance" json:"min_distance"`

	// DefaultWeights is the fallback temporal weight vector.
	DefaultWeights map[string]float64 `yaml:"default_weights" json:"default_weights"`

	// FileWeights is the fallback cross-modal weight vector.
	FileWeights map[string]float64 `yaml:"file_weights" json:"file_weights"`

	// Normalize enables divide-by-max score normalization in cross-modal
	// fusion.
	Normalize bool `yaml:"normalize" json:"normalize"`

	// Rerank configures the secondary re-ranking blend.
	Rerank fusion.RerankWeights `yaml:"rerank" json:"rerank"`
}

// ClassifierConfig overrides the built-in keyword sets. Empty lists keep
// the defaults.
type ClassifierConfig struct {
	VisualKeywords []string `yaml:"visual_keywords" json:"visual_keywords"`
	AudioKeywords  []string `yaml:"audio_keywords" json:"audio_keywords"`
	SpeechKeywords []string `yaml:"speech_keywords" json:"speech_keywords"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" json:"level"`
}

// Default returns the documented safe defaults.
func Default() *Config {
	return &Config{
		Fusion: FusionConfig{
			TimeWindowSize:     fusion.DefaultTimeWindowSize,
			TimestampPrecision: fusion.DefaultTimestampPrecision,
			MinConfidence:      fusion.DefaultMinConfidence,
			MaxResults:         fusion.DefaultMaxResults,
			MinDistance:        fusion.DefaultMinDistance,
			DefaultWeights:     fusion.DefaultTemporalWeights(),
			FileWeights:        fusion.DefaultFileWeights(),
			Normalize:          true,
			Rerank:             fusion.DefaultRerankWeights(),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML config file, applies environment overrides, and
// validates. A missing file yields defaults plus env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return nil, errors.ConfigError(fmt.Sprintf("read config %s", path), err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.ConfigError(fmt.Sprintf("parse config %s", path), err)
			}
		}
	}

	cfg.applyEnv()
	cfg.Validate(nil)
	return cfg, nil
}

// applyEnv applies CLIPSIFT_* environment variable overrides. Env vars
// have the highest precedence.
func (c *Config) applyEnv() {
	if v, ok := envFloat("CLIPSIFT_TIME_WINDOW_SIZE"); ok {
		c.Fusion.TimeWindowSize = v
	}
	if v, ok := envInt("CLIPSIFT_TIMESTAMP_PRECISION"); ok {
		c.Fusion.TimestampPrecision = v
	}
	if v, ok := envFloat("CLIPSIFT_MIN_CONFIDENCE"); ok {
		c.Fusion.MinConfidence = v
	}
	if v, ok := envInt("CLIPSIFT_MAX_RESULTS"); ok {
		c.Fusion.MaxResults = v
	}
	if v, ok := envFloat("CLIPSIFT_MIN_DISTANCE"); ok {
		c.Fusion.MinDistance = v
	}
	if v := os.Getenv("CLIPSIFT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate clamps out-of-range values to their documented ranges, logging
// each adjustment. It never fails: a bad value becomes a safe one.
func (c *Config) Validate(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	clampFloat := func(name string, v *float64, lo, hi, def float64) {
		if *v < lo || *v > hi {
			logger.Warn("config value out of range, using default",
				"key", name, "value", *v, "default", def)
			*v = def
		}
	}

	clampFloat("fusion.time_window_size", &c.Fusion.TimeWindowSize,
		fusion.MinTimeWindowSize, fusion.MaxTimeWindowSize, fusion.DefaultTimeWindowSize)
	clampFloat("fusion.min_confidence", &c.Fusion.MinConfidence,
		0, 1, fusion.DefaultMinConfidence)

	if c.Fusion.TimestampPrecision < fusion.MinTimestampPrecision ||
		c.Fusion.TimestampPrecision > fusion.MaxTimestampPrecision {
		logger.Warn("config value out of range, using default",
			"key", "fusion.timestamp_precision", "value", c.Fusion.TimestampPrecision,
			"default", fusion.DefaultTimestampPrecision)
		c.Fusion.TimestampPrecision = fusion.DefaultTimestampPrecision
	}
	if c.Fusion.MaxResults < 1 {
		logger.Warn("config value out of range, using default",
			"key", "fusion.max_results", "value", c.Fusion.MaxResults,
			"default", fusion.DefaultMaxResults)
		c.Fusion.MaxResults = fusion.DefaultMaxResults
	}
	if c.Fusion.MinDistance <= 0 {
		logger.Warn("config value out of range, using default",
			"key", "fusion.min_distance", "value", c.Fusion.MinDistance,
			"default", fusion.DefaultMinDistance)
		c.Fusion.MinDistance = fusion.DefaultMinDistance
	}
	if len(c.Fusion.DefaultWeights) == 0 {
		c.Fusion.DefaultWeights = fusion.DefaultTemporalWeights()
	}
	if len(c.Fusion.FileWeights) == 0 {
		c.Fusion.FileWeights = fusion.DefaultFileWeights()
	}
}

// Params converts the fusion section to engine parameters.
func (c *Config) Params() fusion.Params {
	return fusion.Params{
		TimeWindowSize:     c.Fusion.TimeWindowSize,
		TimestampPrecision: c.Fusion.TimestampPrecision,
		MinConfidence:      c.Fusion.MinConfidence,
		MaxResults:         c.Fusion.MaxResults,
		MinDistance:        c.Fusion.MinDistance,
		DefaultWeights:     fusion.WeightVector(c.Fusion.DefaultWeights),
		FileWeights:        fusion.WeightVector(c.Fusion.FileWeights),
		Normalize:          c.Fusion.Normalize,
		Rerank:             c.Fusion.Rerank,
	}
}

func envFloat(name string) (float64, bool) {
	s := os.Getenv(name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envInt(name string) (int, bool) {
	s := os.Getenv(name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
