package persons

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDirectory(t *testing.T) *SQLiteDirectory {
	t.Helper()
	dir, err := OpenSQLiteDirectory(filepath.Join(t.TempDir(), "persons.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dir.Close() })
	return dir
}

func TestSQLiteDirectory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := openTestDirectory(t)

	require.NoError(t, dir.AddPerson(ctx, Entry{
		Name:    "Alice Chen",
		Aliases: []string{"Ali", "A. Chen"},
		FileIDs: []string{"f1", "f2"},
	}))
	require.NoError(t, dir.AddPerson(ctx, Entry{Name: "Bob Park", FileIDs: []string{"f3"}}))

	names, err := dir.AllNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice Chen", "Bob Park"}, names)

	aliases, err := dir.LookupAliases(ctx, "ALICE CHEN")
	require.NoError(t, err)
	assert.Equal(t, []string{"A. Chen", "Ali"}, aliases)

	files, err := dir.FilesForPerson(ctx, "alice chen")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"f1": {}, "f2": {}}, files)
}

func TestSQLiteDirectory_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := openTestDirectory(t)

	entry := Entry{Name: "Alice Chen", Aliases: []string{"Ali"}, FileIDs: []string{"f1"}}
	require.NoError(t, dir.AddPerson(ctx, entry))
	require.NoError(t, dir.AddPerson(ctx, entry))

	names, err := dir.AllNames(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 1)

	aliases, err := dir.LookupAliases(ctx, "Alice Chen")
	require.NoError(t, err)
	assert.Len(t, aliases, 1)
}

func TestSQLiteDirectory_UnknownPerson(t *testing.T) {
	ctx := context.Background()
	dir := openTestDirectory(t)

	files, err := dir.FilesForPerson(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, files)

	aliases, err := dir.LookupAliases(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestSQLiteDirectory_RejectsEmptyName(t *testing.T) {
	dir := openTestDirectory(t)
	assert.Error(t, dir.AddPerson(context.Background(), Entry{}))
}
