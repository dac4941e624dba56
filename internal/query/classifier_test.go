package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clipsift/clipsift/internal/persons"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDirectory() *persons.StaticDirectory {
	return persons.NewStaticDirectory([]persons.Entry{
		{Name: "Alice Chen", Aliases: []string{"Ali"}, FileIDs: []string{"f1", "f2"}},
		{Name: "Bob Park", FileIDs: []string{"f3"}},
	})
}

// failingDirectory always errors, simulating an unavailable collaborator.
type failingDirectory struct{}

func (failingDirectory) AllNames(context.Context) ([]string, error) {
	return nil, errors.New("directory offline")
}

func (failingDirectory) LookupAliases(context.Context, string) ([]string, error) {
	return nil, errors.New("directory offline")
}

func (failingDirectory) FilesForPerson(context.Context, string) (map[string]struct{}, error) {
	return nil, errors.New("directory offline")
}

func TestClassify_PersonTakesPrecedence(t *testing.T) {
	c := NewClassifier(testDirectory(), KeywordSets{}, discardLogger())

	// "show" and "scene" are visual keywords, but the person name wins.
	got := c.Classify(context.Background(), "show the scene with Alice Chen")

	assert.Equal(t, KindPerson, got.Kind)
	assert.Equal(t, "Alice Chen", got.Person)
}

func TestClassify_AliasMatchesCanonicalName(t *testing.T) {
	c := NewClassifier(testDirectory(), KeywordSets{}, discardLogger())

	got := c.Classify(context.Background(), "clips where ali is on stage")

	assert.Equal(t, KindPerson, got.Kind)
	assert.Equal(t, "Alice Chen", got.Person)
}

func TestClassify_KeywordCategories(t *testing.T) {
	c := NewClassifier(nil, KeywordSets{}, discardLogger())

	tests := []struct {
		name  string
		query string
		want  Kind
	}{
		{"visual dominant", "scene with a red color background", KindVisual},
		{"music dominant", "play the song with that melody", KindAudio},
		{"speech dominant reports audio", "the part where they discuss the quote", KindAudio},
		{"no keywords", "something about the trip", KindMixed},
		{"empty query", "   ", KindMixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(context.Background(), tt.query)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestClassify_TieYieldsMixed(t *testing.T) {
	c := NewClassifier(nil, KeywordSets{
		Visual: []string{"red"},
		Audio:  []string{"loud"},
		Speech: []string{"quote"},
	}, discardLogger())

	got := c.Classify(context.Background(), "red loud")

	assert.Equal(t, KindMixed, got.Kind)
}

func TestClassify_UnavailableDirectoryIsNotAnError(t *testing.T) {
	c := NewClassifier(failingDirectory{}, KeywordSets{}, discardLogger())

	got := c.Classify(context.Background(), "scene with a red color background")

	// Directory failure degrades to "no person match", keywords still apply.
	assert.Equal(t, KindVisual, got.Kind)
}

func TestClassify_CachesResults(t *testing.T) {
	dir := testDirectory()
	c := NewClassifier(dir, KeywordSets{}, discardLogger())

	first := c.Classify(context.Background(), "Alice Chen singing")
	assert.Equal(t, KindPerson, first.Kind)

	// Same normalized query hits the cache.
	second := c.Classify(context.Background(), "  ALICE CHEN SINGING ")
	assert.Equal(t, first, second)
}

func TestClassify_CustomKeywordSets(t *testing.T) {
	c := NewClassifier(nil, KeywordSets{
		Visual: []string{"paisaje"},
	}, discardLogger())

	got := c.Classify(context.Background(), "un paisaje verde")

	assert.Equal(t, KindVisual, got.Kind)
}
