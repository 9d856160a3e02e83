package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

// sampleTree builds Root → {Development → {Libraries}, Reading}.
func sampleTree(t *testing.T) *model.Tree {
	t.Helper()
	tree := model.NewTree()

	white := true
	dev, err := model.NewFolder(model.NewFolderParams{Name: "Development", WhiteText: &white, Tags: []string{"code"}})
	if err != nil {
		t.Fatal(err)
	}
	libs, err := model.NewFolder(model.NewFolderParams{Name: "Libraries"})
	if err != nil {
		t.Fatal(err)
	}
	reading, err := model.NewFolder(model.NewFolderParams{Name: "Reading"})
	if err != nil {
		t.Fatal(err)
	}
	goEntry, err := model.NewEntry(model.NewEntryParams{
		Name:  "Go",
		Links: []string{"https://go.dev", "https://pkg.go.dev"},
		Note:  "the language",
	})
	if err != nil {
		t.Fatal(err)
	}

	dev.AddFolder(libs)
	dev.AddEntry(goEntry)
	tree.Root.AddFolder(dev)
	tree.Root.AddFolder(reading)
	return tree
}

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "shelf.json")

	s := storage.NewJSONStorage(configPath)
	if err := s.Save(sampleTree(t)); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("storage file was not created")
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Root.Folders) != 2 {
		t.Errorf("expected 2 folders, got %d", len(loaded.Root.Folders))
	}
	if loaded.Root.Folders[0].Name != "Development" {
		t.Errorf("expected folder name 'Development', got %q", loaded.Root.Folders[0].Name)
	}
	if got := model.TotalEntryCount(loaded.Root); got != 1 {
		t.Errorf("expected 1 entry, got %d", got)
	}
	if loaded.Root.Folders[0].ID == "" {
		t.Error("expected loaded folders to get internal IDs")
	}
}

func TestJSONStorage_LoadNonexistent(t *testing.T) {
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "nonexistent.json"))
	tree, err := s.Load()

	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if tree.Root.Name != model.RootName || len(tree.Root.Folders) != 0 || len(tree.Root.Entries) != 0 {
		t.Error("expected empty tree for missing file")
	}
}

func TestJSONStorage_LoadLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	doc := `{"name":"Root","folders":[{"name":"Old","cover":""}]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	tree, err := storage.NewJSONStorage(path).Load()
	if err != nil {
		t.Fatalf("failed to load legacy document: %v", err)
	}
	if tree.Root.Entries == nil || tree.Root.Folders[0].Entries == nil {
		t.Error("expected missing entries lists to be created")
	}
}

func TestJSONStorage_CreatesDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "dir", "shelf.json")

	s := storage.NewJSONStorage(configPath)
	if err := s.Save(model.NewTree()); err != nil {
		t.Fatalf("failed to save to nested directory: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("storage file was not created in nested directory")
	}
}

func TestOpen_ByExtension(t *testing.T) {
	dir := t.TempDir()

	s, err := storage.Open(filepath.Join(dir, "tree.json"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*storage.JSONStorage); !ok {
		t.Errorf("expected JSON storage, got %T", s)
	}

	s, err = storage.Open(filepath.Join(dir, "tree.db"))
	if err != nil {
		t.Fatal(err)
	}
	sq, ok := s.(*storage.SQLiteStorage)
	if !ok {
		t.Fatalf("expected SQLite storage, got %T", s)
	}
	sq.Close()
}
