package session

import (
	"errors"
	"fmt"

	"github.com/nikbrunner/shelf/internal/history"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/selection"
)

// NavigateTo opens the folder at p as a fresh navigation. An active search is
// closed and the selection cleared.
func (s *Session) NavigateTo(p model.Path) error {
	if _, err := s.tree.Resolve(p); err != nil {
		return err
	}
	s.openFolder(p)
	s.hist.Push(history.Folder(p))
	s.log.WithField("path", p.String()).Debug("navigate")
	s.render()
	return nil
}

// Enter opens the subfolder at index i of the current folder.
func (s *Session) Enter(i int) error {
	folder, err := s.CurrentFolder()
	if err != nil {
		return err
	}
	if _, err := folder.FolderAt(i); err != nil {
		return err
	}
	return s.NavigateTo(s.path.Child(i))
}

// Up opens the parent of the current folder.
func (s *Session) Up() error {
	parent, ok := s.path.Parent()
	if !ok {
		return fmt.Errorf("up from root: %w", model.ErrPathNotFound)
	}
	return s.NavigateTo(parent)
}

// Back replays the previous location. Locations whose path no longer resolves
// are dropped from the history and skipped.
func (s *Session) Back() error {
	return s.replay(s.hist.Previous, s.hist.Back, func() int { return s.hist.Cursor() - 1 })
}

// Forward replays the next location, skipping stale ones like Back.
func (s *Session) Forward() error {
	return s.replay(s.hist.Next, s.hist.Forward, func() int { return s.hist.Cursor() + 1 })
}

func (s *Session) replay(peek, move func() (history.Location, error), target func() int) error {
	for {
		loc, err := peek()
		if err != nil {
			return err
		}
		if _, err := s.tree.Resolve(loc.Path); err != nil {
			s.log.WithField("path", loc.Path.String()).Info("dropping stale history location")
			s.hist.Remove(target())
			continue
		}
		if _, err := move(); err != nil {
			return err
		}
		return s.visit(loc)
	}
}

// visit shows loc without recording it in the history.
func (s *Session) visit(loc history.Location) error {
	if loc.Kind == history.SearchLocation {
		s.scheduler.Cancel()
		s.path = loc.Path.Clone()
		// Searches are rerun against the live tree rather than restored.
		return s.runSearch(loc.Term, loc.Path, false)
	}
	s.openFolder(loc.Path)
	s.render()
	return nil
}

// openFolder switches to the folder view at p.
func (s *Session) openFolder(p model.Path) {
	s.scheduler.Cancel()
	s.search = nil
	s.path = p.Clone()
	s.sel.Scope(selection.View{Kind: selection.FolderView, Path: s.path})
	s.sel.Exit()
}

// SaveSlot stores the current path under name.
func (s *Session) SaveSlot(name string) error {
	if err := s.tree.Settings().SetSlot(name, s.path); err != nil {
		return err
	}
	return s.afterMutation("save slot")
}

// GoToSlot navigates to a saved slot. A slot whose path no longer resolves is
// removed and ErrPathNotFound returned.
func (s *Session) GoToSlot(name string) error {
	slot, ok := s.tree.Settings().Slot(name)
	if !ok {
		return fmt.Errorf("slot %q: %w", name, model.ErrItemNotFound)
	}
	err := s.NavigateTo(slot.Path)
	if !errors.Is(err, model.ErrPathNotFound) {
		return err
	}

	s.tree.Settings().RemoveSlot(name)
	s.log.WithField("path", slot.Path.String()).Info("removed stale slot " + name)
	if perr := s.afterMutation("remove stale slot"); perr != nil {
		return errors.Join(fmt.Errorf("slot %q: %w", name, err), perr)
	}
	return fmt.Errorf("slot %q: %w", name, err)
}

// DeleteSlot removes a saved slot.
func (s *Session) DeleteSlot(name string) error {
	if !s.tree.Settings().RemoveSlot(name) {
		return fmt.Errorf("slot %q: %w", name, model.ErrItemNotFound)
	}
	return s.afterMutation("delete slot")
}
