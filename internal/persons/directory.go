// Package persons provides the person directory collaborator: the mapping
// from person names and aliases to the media files they appear in. The
// fusion core only consumes the Directory interface; storage lives here.
package persons

import (
	"context"
	"strings"
	"sync"
)

// Directory is the person directory contract consumed by query
// classification and whitelist generation.
type Directory interface {
	// AllNames returns every canonical person name in the directory.
	AllNames(ctx context.Context) ([]string, error)

	// LookupAliases returns the known aliases for a canonical name.
	// An unknown name yields an empty slice, not an error.
	LookupAliases(ctx context.Context, name string) ([]string, error)

	// FilesForPerson returns the set of file IDs the person appears in.
	// An unknown name yields an empty set, not an error.
	FilesForPerson(ctx context.Context, name string) (map[string]struct{}, error)
}

// foldName normalizes a person name for lookup.
func foldName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Entry describes one person for StaticDirectory construction.
type Entry struct {
	Name    string
	Aliases []string
	FileIDs []string
}

// StaticDirectory is an in-memory Directory. Lookups are case-insensitive.
// Safe for concurrent use.
type StaticDirectory struct {
	mu      sync.RWMutex
	names   []string
	aliases map[string][]string
	files   map[string]map[string]struct{}
}

// NewStaticDirectory builds an in-memory directory from entries.
func NewStaticDirectory(entries []Entry) *StaticDirectory {
	d := &StaticDirectory{
		aliases: make(map[string][]string),
		files:   make(map[string]map[string]struct{}),
	}
	for _, e := range entries {
		d.Add(e)
	}
	return d
}

// Add inserts or extends a person entry.
func (d *StaticDirectory) Add(e Entry) {
	if e.Name == "" {
		return
	}
	key := foldName(e.Name)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.files[key]; !exists {
		d.names = append(d.names, e.Name)
		d.files[key] = make(map[string]struct{})
	}
	d.aliases[key] = append(d.aliases[key], e.Aliases...)
	for _, id := range e.FileIDs {
		d.files[key][id] = struct{}{}
	}
}

// AllNames implements Directory.
func (d *StaticDirectory) AllNames(_ context.Context) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out, nil
}

// LookupAliases implements Directory.
func (d *StaticDirectory) LookupAliases(_ context.Context, name string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	aliases := d.aliases[foldName(name)]
	out := make([]string, len(aliases))
	copy(out, aliases)
	return out, nil
}

// FilesForPerson implements Directory.
func (d *StaticDirectory) FilesForPerson(_ context.Context, name string) (map[string]struct{}, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]struct{})
	for id := range d.files[foldName(name)] {
		out[id] = struct{}{}
	}
	return out, nil
}

// Ensure StaticDirectory implements Directory.
var _ Directory = (*StaticDirectory)(nil)
