package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf", "config.json")

	config, err := storage.LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if config.ActiveProfile != storage.DefaultProfile {
		t.Errorf("expected active profile %q, got %q", storage.DefaultProfile, config.ActiveProfile)
	}
	if config.SaveDelay != time.Second {
		t.Errorf("expected save delay 1s, got %v", config.SaveDelay)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be written: %v", err)
	}

	active, err := config.Active()
	if err != nil {
		t.Fatal(err)
	}
	if active.Path != filepath.Join(filepath.Dir(path), "shelf.json") {
		t.Errorf("expected profile path next to config, got %q", active.Path)
	}
}

func TestConfig_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	config, err := storage.LoadConfig(path, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := config.AddProfile("work", "/tmp/work.db"); err != nil {
		t.Fatalf("failed to add profile: %v", err)
	}
	if err := config.SetActive("work"); err != nil {
		t.Fatal(err)
	}
	config.SortMode = "count-desc"
	config.SearchDelay = 250 * time.Millisecond
	if err := config.Save(); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	reloaded, err := storage.LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if reloaded.ActiveProfile != "work" {
		t.Errorf("expected active profile 'work', got %q", reloaded.ActiveProfile)
	}
	if len(reloaded.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(reloaded.Profiles))
	}
	if reloaded.SortMode != "count-desc" {
		t.Errorf("expected sort mode 'count-desc', got %q", reloaded.SortMode)
	}
	if reloaded.SearchDelay != 250*time.Millisecond {
		t.Errorf("expected search delay 250ms, got %v", reloaded.SearchDelay)
	}
	p, err := reloaded.Profile("work")
	if err != nil || p.Path != "/tmp/work.db" {
		t.Errorf("expected work profile at /tmp/work.db, got %q (%v)", p.Path, err)
	}
}

func TestConfig_ProfileManagement(t *testing.T) {
	config := storage.DefaultConfig()

	var verr *model.ValidationError
	if err := config.AddProfile("default", "x.json"); !errors.As(err, &verr) {
		t.Errorf("expected duplicate name to be rejected, got %v", err)
	}
	if err := config.AddProfile("  ", "x.json"); !errors.As(err, &verr) {
		t.Errorf("expected empty name to be rejected, got %v", err)
	}
	if err := config.RemoveProfile("default"); !errors.As(err, &verr) {
		t.Errorf("expected removing the only profile to fail, got %v", err)
	}

	if err := config.AddProfile("books", "books.json"); err != nil {
		t.Fatal(err)
	}
	if err := config.RenameProfile("default", "main"); err != nil {
		t.Fatalf("failed to rename: %v", err)
	}
	if config.ActiveProfile != "main" {
		t.Errorf("expected active profile to follow rename, got %q", config.ActiveProfile)
	}
	if err := config.RenameProfile("main", "books"); !errors.As(err, &verr) {
		t.Errorf("expected rename onto existing name to fail, got %v", err)
	}

	if err := config.RemoveProfile("main"); err != nil {
		t.Fatal(err)
	}
	if config.ActiveProfile != "books" {
		t.Errorf("expected books to become active, got %q", config.ActiveProfile)
	}
	if err := config.SetActive("missing"); !errors.Is(err, model.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestLoadConfig_UnwritableDefaultsLogged(t *testing.T) {
	dir := t.TempDir()
	// A dangling link reads as missing, but writing through it fails.
	path := filepath.Join(dir, "config.json")
	if err := os.Symlink(filepath.Join(dir, "missing", "config.json"), path); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	log, hook := logtest.NewNullLogger()
	config, err := storage.LoadConfig(path, log)
	if err != nil {
		t.Fatalf("defaults should load even when unwritable: %v", err)
	}
	if config.ActiveProfile != storage.DefaultProfile {
		t.Errorf("expected default profile, got %q", config.ActiveProfile)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a warning to be logged")
	}
	if entry.Level != logrus.WarnLevel {
		t.Errorf("expected warn level, got %v", entry.Level)
	}
	if entry.Data["path"] != path {
		t.Errorf("expected path field %q, got %v", path, entry.Data["path"])
	}
	if _, ok := entry.Data[logrus.ErrorKey].(error); !ok {
		t.Errorf("expected the write error attached, got %v", entry.Data)
	}
}
