// Package session holds the state of one editing session over a tree: the
// current folder, sort mode, active search, selection and navigation history.
// A Session is not safe for concurrent use; callers drive it from one event loop.
package session

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/shelf/internal/debounce"
	"github.com/nikbrunner/shelf/internal/history"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/search"
	"github.com/nikbrunner/shelf/internal/selection"
	"github.com/nikbrunner/shelf/internal/sorting"
)

// Persister saves the tree of a source after each mutation.
type Persister interface {
	SaveTree(source string, tree *model.Tree) error
}

// Confirmer asks the user to approve a destructive operation.
type Confirmer interface {
	Confirm(ctx context.Context, title, description string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, title, description string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, title, description string) (bool, error) {
	return f(ctx, title, description)
}

// Opener opens links and reports how many were opened.
type Opener interface {
	OpenLinks(links []string) int
}

// Clipboard receives copied entry notes.
type Clipboard interface {
	CopyText(text string) error
}

// Renderer is told about every state change.
type Renderer interface {
	Render(v View)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(v View)

// Render implements Renderer.
func (f RenderFunc) Render(v View) { f(v) }

// Params holds the tree and collaborators of a new Session. Only Tree is
// required. Without a Confirmer every destructive operation is declined.
type Params struct {
	Tree      *model.Tree
	Source    string
	SortMode  sorting.Mode
	Persister Persister
	Confirmer Confirmer
	Opener    Opener
	Clipboard Clipboard
	Renderer  Renderer
	// SearchScheduler debounces QueueSearch. A timer-backed scheduler calls
	// back on its own goroutine, so the caller must serialize it with other
	// session calls. Nil runs queued searches immediately.
	SearchScheduler debounce.Scheduler
	Logger          logrus.FieldLogger
}

// activeSearch is a search view: the term, where it ran and its results.
type activeSearch struct {
	term    string
	path    model.Path
	results search.Results
}

// Session is the mutable state of one user working on one tree.
type Session struct {
	tree     *model.Tree
	source   string
	path     model.Path
	sortMode sorting.Mode
	search   *activeSearch
	sel      *selection.Set
	hist     *history.History

	persister Persister
	confirmer Confirmer
	opener    Opener
	clipboard Clipboard
	renderer  Renderer
	scheduler debounce.Scheduler
	log       logrus.FieldLogger
}

// New creates a session positioned at the root of p.Tree.
func New(p Params) *Session {
	tree := p.Tree
	if tree == nil {
		tree = model.NewTree()
	}
	mode := p.SortMode
	if mode == "" {
		mode = sorting.NameAsc
	}
	log := p.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	scheduler := p.SearchScheduler
	if scheduler == nil {
		scheduler = &immediate{}
	}

	return &Session{
		tree:      tree,
		source:    p.Source,
		path:      model.Path{},
		sortMode:  mode,
		sel:       selection.New(selection.View{Kind: selection.FolderView, Path: model.Path{}}),
		hist:      history.New(),
		persister: p.Persister,
		confirmer: p.Confirmer,
		opener:    p.Opener,
		clipboard: p.Clipboard,
		renderer:  p.Renderer,
		scheduler: scheduler,
		log:       log.WithField("source", p.Source),
	}
}

// immediate runs triggered calls straight away.
type immediate struct{}

func (immediate) Trigger(fn func()) { fn() }
func (immediate) Cancel() bool      { return false }
func (immediate) Flush() bool       { return false }

// Tree returns the session's tree.
func (s *Session) Tree() *model.Tree {
	return s.tree
}

// Source returns the name the tree is persisted under.
func (s *Session) Source() string {
	return s.source
}

// Path returns a copy of the current folder path.
func (s *Session) Path() model.Path {
	return s.path.Clone()
}

// CurrentFolder resolves the current path.
func (s *Session) CurrentFolder() (*model.Folder, error) {
	return s.tree.Resolve(s.path)
}

// SortMode returns the active sort mode.
func (s *Session) SortMode() sorting.Mode {
	return s.sortMode
}

// SetSortMode changes the ordering of folder and search views. Selection keys
// in search views refer to sorted positions, so the selection is cleared there.
func (s *Session) SetSortMode(m sorting.Mode) {
	if m == s.sortMode {
		return
	}
	s.sortMode = m
	if s.search != nil {
		s.search.results = search.Arrange(s.search.results.Query, flatten(s.search.results), m)
		s.sel.Exit()
	}
	s.render()
}

// Selection returns the selection set of the active view.
func (s *Session) Selection() *selection.Set {
	return s.sel
}

// History returns the navigation history.
func (s *Session) History() *history.History {
	return s.hist
}

// Settings returns the tree's settings, creating defaults if needed.
func (s *Session) Settings() *model.Settings {
	return s.tree.Settings()
}

// SwitchTree replaces the tree, as when changing profile. Path, history,
// search and selection start over.
func (s *Session) SwitchTree(tree *model.Tree, source string) {
	s.scheduler.Cancel()
	s.tree = tree
	s.source = source
	s.path = model.Path{}
	s.search = nil
	s.hist = history.New()
	s.sel = selection.New(selection.View{Kind: selection.FolderView, Path: model.Path{}})
	s.log = s.log.WithField("source", source)
	s.render()
}

// afterMutation refreshes the search view, re-renders and saves. A failed save
// is returned as a *model.PersistenceError; the in-memory change stands.
func (s *Session) afterMutation(op string) error {
	s.refreshSearch()
	s.render()

	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveTree(s.source, s.tree); err != nil {
		s.log.WithError(err).WithField("op", op).Error("save failed")
		return &model.PersistenceError{Op: "save", Source: s.source, Err: err}
	}
	s.log.WithField("op", op).Debug("saved")
	return nil
}

func (s *Session) render() {
	if s.renderer == nil {
		return
	}
	s.renderer.Render(s.View())
}
