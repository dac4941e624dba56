// Package query classifies free-text media search queries and selects
// per-modality fusion weights. Classification drives how much each
// modality's evidence counts during fusion.
package query

import (
	"context"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/clipsift/clipsift/internal/persons"
)

// DefaultCacheSize is the LRU cache size for classification results.
const DefaultCacheSize = 4096

// Kind is the classification category for a search query.
type Kind string

const (
	// KindPerson indicates the query names a known person. Takes
	// precedence over every other category.
	KindPerson Kind = "person"

	// KindVisual indicates the query is about what is seen.
	KindVisual Kind = "visual"

	// KindAudio indicates the query is about what is heard (music or
	// speech; SelectWeights re-splits the two).
	KindAudio Kind = "audio"

	// KindMixed is the default when no category clearly wins.
	KindMixed Kind = "mixed"
)

// Classification is the result of classifying one query. Derived per call,
// never persisted.
type Classification struct {
	Kind Kind

	// Person is the matched canonical name when Kind is KindPerson.
	Person string
}

// KeywordSets overrides the built-in classification keyword lists.
// Empty fields keep the defaults.
type KeywordSets struct {
	Visual []string
	Audio  []string
	Speech []string
}

// Classifier classifies queries by person-directory lookup and keyword
// counting. Results are cached in an LRU keyed by the normalized query.
// Safe for concurrent use.
type Classifier struct {
	dir    persons.Directory
	visual []string
	audio  []string
	speech []string
	cache  *lru.Cache[string, Classification]
	logger *slog.Logger
}

// NewClassifier creates a classifier. dir may be nil, in which case person
// detection is skipped; a nil logger falls back to slog.Default().
func NewClassifier(dir persons.Directory, sets KeywordSets, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	visual := sets.Visual
	if len(visual) == 0 {
		visual = VisualKeywords
	}
	audio := sets.Audio
	if len(audio) == 0 {
		audio = AudioKeywords
	}
	speech := sets.Speech
	if len(speech) == 0 {
		speech = SpeechKeywords
	}

	cache, _ := lru.New[string, Classification](DefaultCacheSize)
	return &Classifier{
		dir:    dir,
		visual: visual,
		audio:  audio,
		speech: speech,
		cache:  cache,
		logger: logger,
	}
}

// Classify determines the query category. A known person name or alias
// found in the query wins outright; otherwise the keyword set with the
// strictly-highest occurrence count decides, with ties and all-zero counts
// falling back to mixed. An unavailable person directory means "no person
// match", never an error.
func (c *Classifier) Classify(ctx context.Context, query string) Classification {
	normalized := normalizeQuery(query)
	if normalized == "" {
		return Classification{Kind: KindMixed}
	}

	if cached, ok := c.cache.Get(normalized); ok {
		return cached
	}

	result := c.classify(ctx, normalized)
	c.cache.Add(normalized, result)
	return result
}

func (c *Classifier) classify(ctx context.Context, normalized string) Classification {
	if name, ok := c.findPerson(ctx, normalized); ok {
		return Classification{Kind: KindPerson, Person: name}
	}

	visual := countKeywords(normalized, c.visual)
	audio := countKeywords(normalized, c.audio)
	speech := countKeywords(normalized, c.speech)

	switch {
	case visual > audio && visual > speech:
		return Classification{Kind: KindVisual}
	case audio > visual && audio > speech:
		return Classification{Kind: KindAudio}
	case speech > visual && speech > audio:
		// Speech-dominant queries classify as audio; the weight selector
		// re-splits music vs speech.
		return Classification{Kind: KindAudio}
	default:
		return Classification{Kind: KindMixed}
	}
}

// findPerson scans the query for any known person name or alias.
func (c *Classifier) findPerson(ctx context.Context, normalized string) (string, bool) {
	if c.dir == nil {
		return "", false
	}

	names, err := c.dir.AllNames(ctx)
	if err != nil {
		c.logger.Debug("person directory unavailable, skipping person match", "error", err)
		return "", false
	}

	for _, name := range names {
		if name == "" {
			continue
		}
		if strings.Contains(normalized, strings.ToLower(name)) {
			return name, true
		}

		aliases, err := c.dir.LookupAliases(ctx, name)
		if err != nil {
			c.logger.Debug("alias lookup failed", "name", name, "error", err)
			continue
		}
		for _, alias := range aliases {
			if alias != "" && strings.Contains(normalized, strings.ToLower(alias)) {
				return name, true
			}
		}
	}
	return "", false
}

// countKeywords returns the total occurrence count of all keywords in the
// normalized query. Substring occurrences, matching the source behavior.
func countKeywords(normalized string, keywords []string) int {
	total := 0
	for _, kw := range keywords {
		total += strings.Count(normalized, kw)
	}
	return total
}

// normalizeQuery lowercases and trims a query for matching and cache keys.
func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
