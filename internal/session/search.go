package session

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/shelf/internal/history"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/search"
	"github.com/nikbrunner/shelf/internal/selection"
)

// ExecuteSearch runs term from the current folder now, cancelling any queued
// search. A search that finds something is recorded in the history.
func (s *Session) ExecuteSearch(term string) error {
	s.scheduler.Cancel()
	if strings.TrimSpace(term) == "" {
		return fmt.Errorf("search: %w", model.ErrEmptyInput)
	}
	return s.runSearch(term, s.searchRoot(), true)
}

// QueueSearch schedules term to run once typing pauses. Blank input closes
// the search view instead.
func (s *Session) QueueSearch(term string) {
	if strings.TrimSpace(term) == "" {
		s.ClearSearch()
		return
	}
	root := s.searchRoot()
	s.scheduler.Trigger(func() {
		if err := s.runSearch(term, root, true); err != nil {
			s.log.WithError(err).WithField("term", term).Warn("queued search failed")
		}
	})
}

// FlushSearch runs a queued search immediately.
func (s *Session) FlushSearch() bool {
	return s.scheduler.Flush()
}

// ClearSearch closes the search view and returns to the folder it ran in.
func (s *Session) ClearSearch() {
	s.scheduler.Cancel()
	if s.search == nil {
		return
	}
	s.search = nil
	s.sel.Scope(selection.View{Kind: selection.FolderView, Path: s.path})
	s.sel.Exit()
	s.render()
}

// Searching reports whether a search view is active, and its term.
func (s *Session) Searching() (string, bool) {
	if s.search == nil {
		return "", false
	}
	return s.search.term, true
}

// SearchResults returns the active search's results.
func (s *Session) SearchResults() (search.Results, bool) {
	if s.search == nil {
		return search.Results{}, false
	}
	return s.search.results, true
}

// searchRoot is the folder new searches start from: the folder the active
// search ran in, or the current folder.
func (s *Session) searchRoot() model.Path {
	if s.search != nil {
		return s.search.path.Clone()
	}
	return s.path.Clone()
}

func (s *Session) runSearch(term string, root model.Path, push bool) error {
	results, err := search.Run(s.tree, root, term, s.sortMode)
	if err != nil {
		return err
	}

	s.path = root.Clone()
	s.search = &activeSearch{term: term, path: root.Clone(), results: results}
	s.sel.Scope(selection.View{Kind: selection.SearchView, Path: root, Term: term})
	// Keys index result positions, which a rerun may change.
	s.sel.Exit()

	if push && results.Len() > 0 {
		s.hist.Push(history.Search(term, root))
	}
	s.log.WithFields(logrus.Fields{"term": term, "path": root.String(), "count": results.Len()}).Debug("search")
	s.render()
	return nil
}

// refreshSearch reruns the active search after a mutation. If its folder is
// gone the search view is closed.
func (s *Session) refreshSearch() {
	if s.search == nil {
		return
	}
	results, err := search.Run(s.tree, s.search.path, s.search.term, s.sortMode)
	if err != nil {
		s.log.WithError(err).Info("closing search view")
		s.search = nil
		s.path = model.Path{}
		s.sel.Scope(selection.View{Kind: selection.FolderView, Path: s.path})
		s.sel.Exit()
		return
	}
	s.search.results = results
	s.sel.Clear()
}
