package storage_test

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/nikbrunner/shelf/internal/debounce"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

func newRepository(t *testing.T) *storage.Repository {
	t.Helper()
	config, err := storage.LoadConfig(filepath.Join(t.TempDir(), "config.json"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := config.AddProfile("db", "tree.db"); err != nil {
		t.Fatal(err)
	}
	repo := storage.NewRepository(config, nil)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_LoadSaveByProfile(t *testing.T) {
	repo := newRepository(t)

	for _, source := range []string{storage.DefaultProfile, "db"} {
		t.Run(source, func(t *testing.T) {
			empty, err := repo.LoadTree(source)
			if err != nil {
				t.Fatalf("failed to load missing document: %v", err)
			}
			if len(empty.Root.Folders) != 0 {
				t.Error("expected empty tree")
			}

			if err := repo.SaveTree(source, sampleTree(t)); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
			loaded, err := repo.LoadTree(source)
			if err != nil {
				t.Fatalf("failed to load: %v", err)
			}
			if model.TotalEntryCount(loaded.Root) != 1 {
				t.Errorf("expected 1 entry, got %d", model.TotalEntryCount(loaded.Root))
			}
		})
	}
}

func TestRepository_UnknownProfile(t *testing.T) {
	repo := newRepository(t)

	_, err := repo.LoadTree("nope")
	var perr *model.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if perr.Op != "load" || !errors.Is(err, model.ErrItemNotFound) {
		t.Errorf("unexpected error %v", err)
	}
}

type recordingSaver struct {
	mu    sync.Mutex
	trees []*model.Tree
	err   error
}

func (r *recordingSaver) SaveTree(_ string, tree *model.Tree) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trees = append(r.trees, tree)
	return r.err
}

func TestAutoSaver_CoalescesAndSnapshots(t *testing.T) {
	saver := &recordingSaver{}
	var sched debounce.Manual
	auto := storage.NewAutoSaverWithScheduler(saver, &sched, nil)

	tree := sampleTree(t)
	auto.SaveTree("default", tree)
	tree.Root.Name = "Renamed"
	auto.SaveTree("default", tree)
	tree.Root.Name = "After"

	auto.Flush()

	if len(saver.trees) != 1 {
		t.Fatalf("expected a single write, got %d", len(saver.trees))
	}
	if saver.trees[0].Root.Name != "Renamed" {
		t.Errorf("expected snapshot taken at the last call, got %q", saver.trees[0].Root.Name)
	}
	if auto.Saves() != 1 {
		t.Errorf("expected 1 completed save, got %d", auto.Saves())
	}
}

func TestAutoSaver_ReportsErrors(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	var sched debounce.Manual
	auto := storage.NewAutoSaverWithScheduler(saver, &sched, nil)

	var reported error
	auto.OnError = func(err error) { reported = err }

	auto.SaveTree("default", model.NewTree())
	auto.Flush()

	if reported == nil {
		t.Fatal("expected error to be reported")
	}
	if auto.Saves() != 0 {
		t.Errorf("expected no completed saves, got %d", auto.Saves())
	}
}
