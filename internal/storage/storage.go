package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/shelf/internal/model"
)

// Storage defines the interface for persisting a tree.
type Storage interface {
	Load() (*model.Tree, error)
	Save(tree *model.Tree) error
}

// JSONStorage implements Storage using a JSON file holding the root folder.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the tree from the JSON file.
// Returns an empty tree if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Tree, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewTree(), nil
		}
		return nil, err
	}

	var tree model.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return &tree, nil
}

// Save writes the tree to the JSON file.
// Creates the directory if it doesn't exist. The file is replaced atomically.
func (s *JSONStorage) Save(tree *model.Tree) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Open opens the storage backend for path: SQLite for .db, .sqlite and
// .sqlite3 files, JSON otherwise.
func Open(path string) (Storage, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStorage(path)
	default:
		return NewJSONStorage(path), nil
	}
}
