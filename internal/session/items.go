package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nikbrunner/shelf/internal/model"
)

// CreateFolder adds a folder to the current folder, filling unset display
// fields from the settings.
func (s *Session) CreateFolder(params model.NewFolderParams) (*model.Folder, error) {
	parent, err := s.CurrentFolder()
	if err != nil {
		return nil, err
	}
	f, err := model.NewFolder(params)
	if err != nil {
		return nil, err
	}
	s.tree.Settings().ApplyToFolder(f)
	parent.AddFolder(f)
	return f, s.afterMutation("create folder")
}

// CreateEntry adds an entry to the current folder.
func (s *Session) CreateEntry(params model.NewEntryParams) (*model.Entry, error) {
	parent, err := s.CurrentFolder()
	if err != nil {
		return nil, err
	}
	return s.createEntryIn(parent, params)
}

// CreateEntryFromLink adds an entry holding link to the subfolder at
// folderIndex of the current folder, named after the link's host.
func (s *Session) CreateEntryFromLink(folderIndex int, link string) (*model.Entry, error) {
	parent, err := s.CurrentFolder()
	if err != nil {
		return nil, err
	}
	target, err := parent.FolderAt(folderIndex)
	if err != nil {
		return nil, err
	}
	return s.createEntryIn(target, model.NewEntryParams{
		Name:  "Link from " + hostOf(link),
		Links: []string{link},
	})
}

func (s *Session) createEntryIn(parent *model.Folder, params model.NewEntryParams) (*model.Entry, error) {
	e, err := model.NewEntry(params)
	if err != nil {
		return nil, err
	}
	s.tree.Settings().ApplyToEntry(e)
	parent.AddEntry(e)
	return e, s.afterMutation("create entry")
}

func hostOf(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Hostname() == "" {
		return "Unknown"
	}
	return u.Hostname()
}

// EditFolder replaces the mutable fields of the subfolder at i and returns the
// changes made. An edit that changes nothing is not saved.
func (s *Session) EditFolder(i int, edit model.FolderEdit) ([]string, error) {
	parent, err := s.CurrentFolder()
	if err != nil {
		return nil, err
	}
	f, err := parent.FolderAt(i)
	if err != nil {
		return nil, err
	}
	changes, err := f.ApplyEdit(edit)
	if err != nil || len(changes) == 0 {
		return changes, err
	}
	return changes, s.afterMutation("edit folder")
}

// EditEntry replaces the mutable fields of the entry at i.
func (s *Session) EditEntry(i int, edit model.EntryEdit) ([]string, error) {
	parent, err := s.CurrentFolder()
	if err != nil {
		return nil, err
	}
	e, err := parent.EntryAt(i)
	if err != nil {
		return nil, err
	}
	changes, err := e.ApplyEdit(edit)
	if err != nil || len(changes) == 0 {
		return changes, err
	}
	return changes, s.afterMutation("edit entry")
}

// AddLinkToEntry appends link to the entry at i.
func (s *Session) AddLinkToEntry(i int, link string) error {
	parent, err := s.CurrentFolder()
	if err != nil {
		return err
	}
	e, err := parent.EntryAt(i)
	if err != nil {
		return err
	}
	if err := e.AddLink(link); err != nil {
		return err
	}
	return s.afterMutation("add link")
}

// DeleteFolder removes the subfolder at i after confirmation.
func (s *Session) DeleteFolder(ctx context.Context, i int) error {
	parent, err := s.CurrentFolder()
	if err != nil {
		return err
	}
	f, err := parent.FolderAt(i)
	if err != nil {
		return err
	}
	title, desc := DescribeDeletion([]*model.Folder{f}, nil)
	if err := s.confirm(ctx, title, desc); err != nil {
		return err
	}
	if _, err := parent.RemoveFolderAt(i); err != nil {
		return err
	}
	return s.afterMutation("delete folder")
}

// DeleteEntry removes the entry at i after confirmation.
func (s *Session) DeleteEntry(ctx context.Context, i int) error {
	parent, err := s.CurrentFolder()
	if err != nil {
		return err
	}
	e, err := parent.EntryAt(i)
	if err != nil {
		return err
	}
	title, desc := DescribeDeletion(nil, []*model.Entry{e})
	if err := s.confirm(ctx, title, desc); err != nil {
		return err
	}
	if _, err := parent.RemoveEntryAt(i); err != nil {
		return err
	}
	return s.afterMutation("delete entry")
}

func (s *Session) confirm(ctx context.Context, title, desc string) error {
	if s.confirmer == nil {
		return fmt.Errorf("%s: %w", title, model.ErrCancelled)
	}
	ok, err := s.confirmer.Confirm(ctx, title, desc)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", title, model.ErrCancelled)
	}
	return nil
}

// Activation is what activating an entry did.
type Activation struct {
	Action string // model.ClickOpenLinks or model.ClickCopyNote
	Opened int
}

// ActivateEntry performs the configured click action on the entry at i:
// opening its links or copying its note.
func (s *Session) ActivateEntry(i int) (Activation, error) {
	parent, err := s.CurrentFolder()
	if err != nil {
		return Activation{}, err
	}
	e, err := parent.EntryAt(i)
	if err != nil {
		return Activation{}, err
	}
	return s.activate(e)
}

func (s *Session) activate(e *model.Entry) (Activation, error) {
	action := s.tree.Settings().EntryClickAction
	if action == model.ClickCopyNote {
		if strings.TrimSpace(e.Note) == "" {
			return Activation{Action: action}, fmt.Errorf("entry %q has no note: %w", e.Name, model.ErrEmptyInput)
		}
		if s.clipboard == nil {
			return Activation{Action: action}, errors.New("no clipboard available")
		}
		return Activation{Action: action}, s.clipboard.CopyText(e.Note)
	}

	opened, err := s.openLinks(model.ValidLinks(e))
	return Activation{Action: model.ClickOpenLinks, Opened: opened}, err
}

func (s *Session) openLinks(links []string) (int, error) {
	if len(links) == 0 {
		return 0, model.ErrNoLinks
	}
	if s.opener == nil {
		return 0, errors.New("no link opener available")
	}
	opened := s.opener.OpenLinks(links)
	s.log.WithField("count", opened).Debug("opened links")
	return opened, nil
}

// UpdateSettings validates and replaces the tree's settings. Saved slots are
// kept when settings carries none.
func (s *Session) UpdateSettings(settings *model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	next := settings.Clone()
	if next.Slots == nil {
		next.Slots = s.tree.Settings().Clone().Slots
	}
	s.tree.Root.Settings = next
	return s.afterMutation("update settings")
}

// Import merges src's children into the current folder and returns how many
// entries were added and skipped as duplicates.
func (s *Session) Import(src *model.Folder) (added, skipped int, err error) {
	added, skipped, err = s.tree.ImportMerge(src, s.path)
	if err != nil {
		return 0, 0, err
	}
	s.log.WithField("count", added).Info("imported entries")
	return added, skipped, s.afterMutation("import")
}
