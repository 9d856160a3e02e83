package storage

import (
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/shelf/internal/model"
)

// Repository loads and saves trees by profile name.
type Repository struct {
	config *Config
	log    logrus.FieldLogger

	mu     sync.Mutex
	opened map[string]Storage
}

// NewRepository creates a Repository over the profiles in config.
func NewRepository(config *Config, log logrus.FieldLogger) *Repository {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Repository{config: config, log: log, opened: make(map[string]Storage)}
}

// Config returns the repository's configuration.
func (r *Repository) Config() *Config {
	return r.config
}

func (r *Repository) storage(source string) (Storage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.opened[source]; ok {
		return s, nil
	}
	profile, err := r.config.Profile(source)
	if err != nil {
		return nil, err
	}
	s, err := Open(profile.Path)
	if err != nil {
		return nil, err
	}
	r.opened[source] = s
	return s, nil
}

// LoadTree loads the tree of the named profile. A profile whose file does not
// exist yet loads as an empty tree.
func (r *Repository) LoadTree(source string) (*model.Tree, error) {
	s, err := r.storage(source)
	if err != nil {
		return nil, &model.PersistenceError{Op: "load", Source: source, Err: err}
	}
	tree, err := s.Load()
	if err != nil {
		return nil, &model.PersistenceError{Op: "load", Source: source, Err: err}
	}
	r.log.WithFields(logrus.Fields{"source": source, "count": model.TotalEntryCount(tree.Root)}).Debug("loaded tree")
	return tree, nil
}

// SaveTree saves tree as the named profile's document.
func (r *Repository) SaveTree(source string, tree *model.Tree) error {
	s, err := r.storage(source)
	if err != nil {
		return &model.PersistenceError{Op: "save", Source: source, Err: err}
	}
	if err := s.Save(tree); err != nil {
		return &model.PersistenceError{Op: "save", Source: source, Err: err}
	}
	r.log.WithField("source", source).Debug("saved tree")
	return nil
}

// Close releases every opened storage.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, s := range r.opened {
		if c, ok := s.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
		delete(r.opened, name)
	}
	return errors.Join(errs...)
}
