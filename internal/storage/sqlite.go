package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/shelf/internal/model"
)

const currentSchemaVersion = 2

// SQLiteStorage implements Storage using a SQLite database. Folders and
// entries are rows linked by parent ID and ordered by position.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	return version, err
}

func (s *SQLiteStorage) migrate() error {
	version, err := s.SchemaVersion()
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}
	return nil
}

// migrateV1 creates the folder and entry tables.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS folders (
			id TEXT PRIMARY KEY NOT NULL,
			parent_id TEXT,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			cover TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			white_text INTEGER,
			aspect_ratio TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			FOREIGN KEY (parent_id) REFERENCES folders(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders(parent_id, position);

		CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY NOT NULL,
			folder_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			cover TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			aspect_ratio TEXT NOT NULL DEFAULT '',
			links TEXT NOT NULL DEFAULT '[]',
			note TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			FOREIGN KEY (folder_id) REFERENCES folders(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_entries_folder ON entries(folder_id, position);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 adds the settings table.
func (s *SQLiteStorage) migrateV2() error {
	migration := `
		CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL
		);
		UPDATE schema_version SET version = 2;
	`
	_, err := s.db.Exec(migration)
	return err
}

type folderRow struct {
	folder   *model.Folder
	parentID sql.NullString
}

// Load reads the tree from the SQLite database. An empty database yields an
// empty tree.
func (s *SQLiteStorage) Load() (*model.Tree, error) {
	rows, err := s.db.Query(`
		SELECT id, parent_id, name, cover, color, white_text, aspect_ratio, tags
		FROM folders
		ORDER BY parent_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []folderRow
	byID := make(map[string]*model.Folder)
	for rows.Next() {
		f := &model.Folder{Folders: []*model.Folder{}, Entries: []*model.Entry{}}
		var parentID sql.NullString
		var whiteText sql.NullInt64
		var tagsJSON string

		if err := rows.Scan(&f.ID, &parentID, &f.Name, &f.Cover, &f.Color, &whiteText, &f.AspectRatio, &tagsJSON); err != nil {
			return nil, err
		}
		if whiteText.Valid {
			w := whiteText.Int64 == 1
			f.WhiteText = &w
		}
		if err := json.Unmarshal([]byte(tagsJSON), &f.FolderTags); err != nil {
			return nil, fmt.Errorf("decode tags of folder %s: %w", f.ID, err)
		}

		folders = append(folders, folderRow{folder: f, parentID: parentID})
		byID[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var root *model.Folder
	for _, row := range folders {
		if !row.parentID.Valid {
			root = row.folder
			continue
		}
		if parent, ok := byID[row.parentID.String]; ok {
			parent.Folders = append(parent.Folders, row.folder)
		}
	}
	if root == nil {
		return model.NewTree(), nil
	}

	entryRows, err := s.db.Query(`
		SELECT id, folder_id, name, cover, color, aspect_ratio, links, note, tags
		FROM entries
		ORDER BY folder_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer entryRows.Close()

	for entryRows.Next() {
		e := &model.Entry{}
		var folderID, linksJSON, tagsJSON string

		if err := entryRows.Scan(&e.ID, &folderID, &e.Name, &e.Cover, &e.Color, &e.AspectRatio, &linksJSON, &e.Note, &tagsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(linksJSON), &e.Links); err != nil {
			return nil, fmt.Errorf("decode links of entry %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &e.EntryTags); err != nil {
			return nil, fmt.Errorf("decode tags of entry %s: %w", e.ID, err)
		}
		if parent, ok := byID[folderID]; ok {
			parent.Entries = append(parent.Entries, e)
		}
	}
	if err := entryRows.Err(); err != nil {
		return nil, err
	}

	var settingsJSON string
	err = s.db.QueryRow("SELECT data FROM settings WHERE id = 1").Scan(&settingsJSON)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, err
	default:
		var settings model.Settings
		if err := json.Unmarshal([]byte(settingsJSON), &settings); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
		root.Settings = &settings
	}

	tree := &model.Tree{Root: root}
	tree.Normalize()
	return tree, nil
}

// Save writes the tree to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(tree *model.Tree) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM folders"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM settings"); err != nil {
		return err
	}

	folderStmt, err := tx.Prepare(`
		INSERT INTO folders (id, parent_id, position, name, cover, color, white_text, aspect_ratio, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer folderStmt.Close()

	entryStmt, err := tx.Prepare(`
		INSERT INTO entries (id, folder_id, position, name, cover, color, aspect_ratio, links, note, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer entryStmt.Close()

	// Parents are inserted before their children, so foreign keys hold.
	var insert func(f *model.Folder, parentID *string, position int) error
	insert = func(f *model.Folder, parentID *string, position int) error {
		if f.ID == "" {
			f.ID = model.GenerateUUID()
		}
		var whiteText *int
		if f.WhiteText != nil {
			w := 0
			if *f.WhiteText {
				w = 1
			}
			whiteText = &w
		}
		if _, err := folderStmt.Exec(
			f.ID, parentID, position, f.Name, f.Cover, f.Color, whiteText, f.AspectRatio, jsonList(f.FolderTags),
		); err != nil {
			return err
		}

		for i, e := range f.Entries {
			if e.ID == "" {
				e.ID = model.GenerateUUID()
			}
			if _, err := entryStmt.Exec(
				e.ID, f.ID, i, e.Name, e.Cover, e.Color, e.AspectRatio, jsonList(e.Links), e.Note, jsonList(e.EntryTags),
			); err != nil {
				return err
			}
		}
		for i, sub := range f.Folders {
			if err := insert(sub, &f.ID, i); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(tree.Root, nil, 0); err != nil {
		return err
	}

	if tree.Root.Settings != nil {
		data, err := json.Marshal(tree.Root.Settings)
		if err != nil {
			return err
		}
		if _, err := tx.Exec("INSERT INTO settings (id, data) VALUES (1, ?)", string(data)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func jsonList(values []string) string {
	if values == nil {
		return "[]"
	}
	data, _ := json.Marshal(values)
	return string(data)
}

// DefaultSQLitePath returns the default SQLite database path: ~/.config/shelf/shelf.db
func DefaultSQLitePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "shelf", "shelf.db"), nil
}
