package storage_test

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikbrunner/shelf/internal/exporter"
	"github.com/nikbrunner/shelf/internal/importer"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

func newSQLite(t *testing.T, name string) *storage.SQLiteStorage {
	t.Helper()
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	s := newSQLite(t, "shelf.db")

	tree := sampleTree(t)
	tree.Settings().EntryClickAction = model.ClickCopyNote
	if err := tree.Settings().SetSlot("work", model.Path{0, 0}); err != nil {
		t.Fatalf("failed to set slot: %v", err)
	}

	if err := s.Save(tree); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	dev, err := loaded.Resolve(model.Path{0})
	if err != nil {
		t.Fatalf("expected folder at 0: %v", err)
	}
	if dev.Name != "Development" {
		t.Errorf("expected folder name 'Development', got %q", dev.Name)
	}
	if dev.WhiteText == nil || !*dev.WhiteText {
		t.Error("expected white text to be preserved")
	}
	if len(dev.FolderTags) != 1 || dev.FolderTags[0] != "code" {
		t.Errorf("expected folder tags [code], got %v", dev.FolderTags)
	}

	e := dev.Entries[0]
	if e.Name != "Go" || e.Note != "the language" {
		t.Errorf("unexpected entry %q with note %q", e.Name, e.Note)
	}
	if len(e.Links) != 2 {
		t.Errorf("expected 2 links, got %d", len(e.Links))
	}
	if loaded.Settings().EntryClickAction != model.ClickCopyNote {
		t.Errorf("expected settings to be preserved, got %q", loaded.Settings().EntryClickAction)
	}
	if slot, ok := loaded.Settings().Slot("work"); !ok || !slot.Path.Equal(model.Path{0, 0}) {
		t.Errorf("expected slot work at 0/0, got %v", slot.Path)
	}
}

func TestSQLiteStorage_EmptyDatabase(t *testing.T) {
	s := newSQLite(t, "empty.db")

	tree, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load empty database: %v", err)
	}
	if tree.Root.Name != model.RootName {
		t.Errorf("expected root name %q, got %q", model.RootName, tree.Root.Name)
	}
	if len(tree.Root.Folders) != 0 || len(tree.Root.Entries) != 0 {
		t.Error("expected empty tree")
	}
}

func TestSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "shelf.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage in nested directory: %v", err)
	}
	defer s.Close()

	if s.Path() != dbPath {
		t.Errorf("expected path %q, got %q", dbPath, s.Path())
	}
}

func TestSQLiteStorage_SchemaVersion(t *testing.T) {
	s := newSQLite(t, "schema.db")

	version, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != 2 {
		t.Errorf("expected schema version 2, got %d", version)
	}
}

func TestSQLiteStorage_PreservesOrder(t *testing.T) {
	s := newSQLite(t, "order.db")

	tree := model.NewTree()
	names := []string{"zeta", "alpha", "mid"}
	for _, name := range names {
		f, err := model.NewFolder(model.NewFolderParams{Name: name})
		if err != nil {
			t.Fatal(err)
		}
		tree.Root.AddFolder(f)
		e, err := model.NewEntry(model.NewEntryParams{Name: name})
		if err != nil {
			t.Fatal(err)
		}
		tree.Root.AddEntry(e)
	}

	if err := s.Save(tree); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	for i, name := range names {
		if loaded.Root.Folders[i].Name != name {
			t.Errorf("folder %d: expected %q, got %q", i, name, loaded.Root.Folders[i].Name)
		}
		if loaded.Root.Entries[i].Name != name {
			t.Errorf("entry %d: expected %q, got %q", i, name, loaded.Root.Entries[i].Name)
		}
	}
}

func TestSQLiteStorage_SaveReplacesPrevious(t *testing.T) {
	s := newSQLite(t, "replace.db")

	tree := sampleTree(t)
	if err := s.Save(tree); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if _, err := tree.Root.RemoveFolderAt(0); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(tree); err != nil {
		t.Fatalf("failed to save again: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(loaded.Root.Folders) != 1 || loaded.Root.Folders[0].Name != "Reading" {
		t.Errorf("expected only Reading to remain, got %d folders", len(loaded.Root.Folders))
	}
	if got := model.TotalEntryCount(loaded.Root); got != 0 {
		t.Errorf("expected deleted entries to be gone, got %d", got)
	}
}

func TestSQLiteStorage_NestedFolders(t *testing.T) {
	s := newSQLite(t, "nested.db")

	tree := sampleTree(t)
	if err := s.Save(tree); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	libs, err := loaded.Resolve(model.Path{0, 0})
	if err != nil {
		t.Fatalf("expected nested folder: %v", err)
	}
	if libs.Name != "Libraries" {
		t.Errorf("expected 'Libraries', got %q", libs.Name)
	}
	if loaded.DisplayPath(model.Path{0, 0}) != "Root / Development / Libraries" {
		t.Errorf("unexpected display path %q", loaded.DisplayPath(model.Path{0, 0}))
	}
}

// Integration tests for import/export with SQLite storage

func TestSQLiteStorage_ImportExportRoundtrip(t *testing.T) {
	s := newSQLite(t, "import.db")

	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<DL><p>
    <DT><H3>Development</H3>
    <DL><p>
        <DT><A HREF="https://github.com" ADD_DATE="1700000000">GitHub</A>
        <DT><A HREF="https://go.dev" ADD_DATE="1700000000">Go Dev</A>
    </DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1700000000">Example</A>
</DL><p>`

	imported, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}

	tree := model.NewTree()
	added, skipped, err := tree.ImportMerge(imported, model.Path{})
	if err != nil {
		t.Fatalf("failed to merge: %v", err)
	}
	if added != 3 || skipped != 0 {
		t.Errorf("expected 3 added and 0 skipped, got %d and %d", added, skipped)
	}

	if err := s.Save(tree); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	html = exporter.ExportHTML(loaded)

	reimported, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse exported HTML: %v", err)
	}
	if got := model.TotalEntryCount(reimported); got != 3 {
		t.Errorf("expected 3 entries after roundtrip, got %d", got)
	}
	if len(reimported.Folders) != 1 || reimported.Folders[0].Name != "Development" {
		t.Error("expected Development folder after roundtrip")
	}
}

func TestSQLiteStorage_CorruptColumnsFailLoad(t *testing.T) {
	tests := []struct {
		name   string
		update string
		want   string
	}{
		{"folder tags", "UPDATE folders SET tags = '{oops' WHERE parent_id IS NOT NULL", "decode tags of folder"},
		{"entry links", "UPDATE entries SET links = 'not json'", "decode links of entry"},
		{"entry tags", "UPDATE entries SET tags = '[1,'", "decode tags of entry"},
		{"settings", "UPDATE settings SET data = '{'", "decode settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "corrupt.db")
			s, err := storage.NewSQLiteStorage(path)
			if err != nil {
				t.Fatalf("failed to create storage: %v", err)
			}
			tree := sampleTree(t)
			tree.Settings().EntryClickAction = model.ClickCopyNote
			if err := s.Save(tree); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
			s.Close()

			db, err := sql.Open("sqlite", path)
			if err != nil {
				t.Fatalf("failed to open database: %v", err)
			}
			if _, err := db.Exec(tt.update); err != nil {
				t.Fatalf("failed to corrupt column: %v", err)
			}
			db.Close()

			s, err = storage.NewSQLiteStorage(path)
			if err != nil {
				t.Fatalf("failed to reopen storage: %v", err)
			}
			defer s.Close()

			if _, err := s.Load(); err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
