package persons

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// schema holds the person directory tables. Names are stored with a
// case-folded key column so lookups match the classifier's normalization.
const schema = `
CREATE TABLE IF NOT EXISTS persons (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	key  TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS aliases (
	person_id INTEGER NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	alias     TEXT NOT NULL,
	UNIQUE(person_id, alias)
);
CREATE TABLE IF NOT EXISTS person_files (
	person_id INTEGER NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	file_id   TEXT NOT NULL,
	UNIQUE(person_id, file_id)
);
CREATE INDEX IF NOT EXISTS idx_aliases_person ON aliases(person_id);
CREATE INDEX IF NOT EXISTS idx_person_files_person ON person_files(person_id);
`

// SQLiteDirectory is a sqlite-backed Directory. WAL mode allows concurrent
// readers alongside the indexing process that populates the directory.
type SQLiteDirectory struct {
	db *sql.DB
}

// OpenSQLiteDirectory opens (and migrates) a person directory database at
// the given path. Use ":memory:" for an ephemeral directory.
func OpenSQLiteDirectory(path string) (*SQLiteDirectory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open person directory: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate person directory: %w", err)
	}

	return &SQLiteDirectory{db: db}, nil
}

// Close releases the database handle.
func (d *SQLiteDirectory) Close() error {
	return d.db.Close()
}

// AddPerson upserts a person with aliases and file associations.
func (d *SQLiteDirectory) AddPerson(ctx context.Context, e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("person name is required")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	key := foldName(e.Name)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO persons (name, key) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`,
		e.Name, key); err != nil {
		return fmt.Errorf("insert person: %w", err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM persons WHERE key = ?`, key).Scan(&id); err != nil {
		return fmt.Errorf("resolve person id: %w", err)
	}

	for _, alias := range e.Aliases {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO aliases (person_id, alias) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			id, alias); err != nil {
			return fmt.Errorf("insert alias: %w", err)
		}
	}
	for _, fileID := range e.FileIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO person_files (person_id, file_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			id, fileID); err != nil {
			return fmt.Errorf("insert file: %w", err)
		}
	}

	return tx.Commit()
}

// AllNames implements Directory.
func (d *SQLiteDirectory) AllNames(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT name FROM persons ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// LookupAliases implements Directory.
func (d *SQLiteDirectory) LookupAliases(ctx context.Context, name string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT a.alias FROM aliases a
		 JOIN persons p ON p.id = a.person_id
		 WHERE p.key = ? ORDER BY a.alias`, foldName(name))
	if err != nil {
		return nil, fmt.Errorf("query aliases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var aliases []string
	for rows.Next() {
		var alias string
		if err := rows.Scan(&alias); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		aliases = append(aliases, alias)
	}
	return aliases, rows.Err()
}

// FilesForPerson implements Directory.
func (d *SQLiteDirectory) FilesForPerson(ctx context.Context, name string) (map[string]struct{}, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT f.file_id FROM person_files f
		 JOIN persons p ON p.id = f.person_id
		 WHERE p.key = ?`, foldName(name))
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	files := make(map[string]struct{})
	for rows.Next() {
		var fileID string
		if err := rows.Scan(&fileID); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files[fileID] = struct{}{}
	}
	return files, rows.Err()
}

// Ensure SQLiteDirectory implements Directory.
var _ Directory = (*SQLiteDirectory)(nil)
