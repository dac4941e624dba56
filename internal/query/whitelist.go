package query

import (
	"context"
	"log/slog"

	"github.com/clipsift/clipsift/internal/persons"
)

// WhitelistGenerator narrows candidate files when a query names a known
// person. Callers apply the whitelist upstream of or alongside fusion.
type WhitelistGenerator struct {
	classifier *Classifier
	dir        persons.Directory
	logger     *slog.Logger
}

// NewWhitelistGenerator creates a whitelist generator sharing the given
// classifier and directory.
func NewWhitelistGenerator(classifier *Classifier, dir persons.Directory, logger *slog.Logger) *WhitelistGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &WhitelistGenerator{classifier: classifier, dir: dir, logger: logger}
}

// Whitelist returns the file-ID set for the person the query names.
// ok is false when the query names no person or the directory is
// unavailable, meaning "do not filter". An empty set with ok=true is a
// real answer: the person is known but appears in no files, so filtering
// excludes everything.
func (g *WhitelistGenerator) Whitelist(ctx context.Context, queryText string) (files map[string]struct{}, ok bool) {
	c := g.classifier.Classify(ctx, queryText)
	if c.Kind != KindPerson || g.dir == nil {
		return nil, false
	}

	files, err := g.dir.FilesForPerson(ctx, c.Person)
	if err != nil {
		g.logger.Warn("whitelist lookup failed, not filtering", "person", c.Person, "error", err)
		return nil, false
	}
	return files, true
}
