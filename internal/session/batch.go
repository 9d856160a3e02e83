package session

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/selection"
)

// target is a selected item resolved against the live tree.
type target struct {
	key        selection.Key
	parent     *model.Folder
	parentPath model.Path
	index      int
	folder     *model.Folder
	entry      *model.Entry
}

func targetName(t target) string {
	if t.folder != nil {
		return t.folder.Name
	}
	return t.entry.Name
}

// path returns a folder target's own path.
func (t target) path() model.Path {
	return t.parentPath.Child(t.index)
}

// EnterSelectionMode turns selection mode on without selecting anything.
func (s *Session) EnterSelectionMode() {
	s.sel.Enter()
	s.render()
}

// ExitSelectionMode clears the selection and turns selection mode off.
func (s *Session) ExitSelectionMode() {
	s.sel.Exit()
	s.render()
}

// Toggle flips the selection of k in the active view.
func (s *Session) Toggle(k selection.Key) (bool, error) {
	if _, err := s.resolveKey(k); err != nil {
		return false, err
	}
	on := s.sel.Toggle(k)
	s.render()
	return on, nil
}

// SelectAll selects every item of the active view and returns the count.
func (s *Session) SelectAll() (int, error) {
	var keys []selection.Key
	if s.search != nil {
		for i := range s.search.results.Folders {
			keys = append(keys, selection.FolderKey(i))
		}
		for i := range s.search.results.Entries {
			keys = append(keys, selection.EntryKey(i))
		}
	} else {
		folder, err := s.CurrentFolder()
		if err != nil {
			return 0, err
		}
		for i := range folder.Folders {
			keys = append(keys, selection.FolderKey(i))
		}
		for i := range folder.Entries {
			keys = append(keys, selection.EntryKey(i))
		}
	}
	if len(keys) == 0 {
		return 0, fmt.Errorf("select all: nothing to select: %w", model.ErrNoSelection)
	}
	s.sel.Add(keys...)
	s.render()
	return s.sel.Count(), nil
}

// resolveKey finds the item k addresses in the active view.
func (s *Session) resolveKey(k selection.Key) (target, error) {
	if s.search != nil {
		return s.resolveResultKey(k)
	}

	parent, err := s.CurrentFolder()
	if err != nil {
		return target{}, err
	}
	t := target{key: k, parent: parent, parentPath: s.path.Clone(), index: k.Index}
	switch k.Kind {
	case selection.KindFolder:
		t.folder, err = parent.FolderAt(k.Index)
	case selection.KindEntry:
		t.entry, err = parent.EntryAt(k.Index)
	default:
		err = fmt.Errorf("selection key %s: %w", k, model.ErrItemNotFound)
	}
	return t, err
}

func (s *Session) resolveResultKey(k selection.Key) (target, error) {
	notFound := fmt.Errorf("selection key %s: %w", k, model.ErrItemNotFound)
	results := s.search.results

	switch k.Kind {
	case selection.KindFolder:
		if k.Index < 0 || k.Index >= len(results.Folders) {
			return target{}, notFound
		}
		r := results.Folders[k.Index]
		parentPath, ok := r.Path.Parent()
		if !ok {
			return target{}, notFound
		}
		parent, err := s.tree.Resolve(parentPath)
		if err != nil {
			return target{}, err
		}
		index := r.Path[len(r.Path)-1]
		if f, err := parent.FolderAt(index); err != nil || f != r.Folder {
			return target{}, notFound
		}
		return target{key: k, parent: parent, parentPath: parentPath, index: index, folder: r.Folder}, nil

	case selection.KindEntry:
		if k.Index < 0 || k.Index >= len(results.Entries) {
			return target{}, notFound
		}
		r := results.Entries[k.Index]
		parent, err := s.tree.Resolve(r.Path)
		if err != nil {
			return target{}, err
		}
		if e, err := parent.EntryAt(r.EntryIndex); err != nil || e != r.Entry {
			return target{}, notFound
		}
		return target{key: k, parent: parent, parentPath: r.Path.Clone(), index: r.EntryIndex, entry: r.Entry}, nil
	}
	return target{}, notFound
}

// selectedTargets resolves every selected key, folders first, before anything
// is changed.
func (s *Session) selectedTargets() ([]target, error) {
	if s.sel.Empty() {
		return nil, model.ErrNoSelection
	}
	keys := s.sel.Keys()
	targets := make([]target, 0, len(keys))
	for _, k := range keys {
		t, err := s.resolveKey(k)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// removeTargets detaches every target from its parent. Within each parent
// removal runs by descending index so earlier removals never shift later ones.
func removeTargets(targets []target) error {
	ordered := slices.Clone(targets)
	slices.SortStableFunc(ordered, func(a, b target) int {
		return cmp.Compare(b.index, a.index)
	})
	for _, t := range ordered {
		var err error
		if t.folder != nil {
			_, err = t.parent.RemoveFolderAt(t.parent.IndexOfFolder(t.folder))
		} else {
			_, err = t.parent.RemoveEntryAt(t.parent.IndexOfEntry(t.entry))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// DeleteSelected removes the selected items after confirmation and returns how
// many were removed.
func (s *Session) DeleteSelected(ctx context.Context) (int, error) {
	targets, err := s.selectedTargets()
	if err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}

	var folders []*model.Folder
	var entries []*model.Entry
	for _, t := range targets {
		if t.folder != nil {
			folders = append(folders, t.folder)
		} else {
			entries = append(entries, t.entry)
		}
	}
	title, desc := DescribeDeletion(folders, entries)
	if err := s.confirm(ctx, title, desc); err != nil {
		return 0, err
	}

	if err := removeTargets(targets); err != nil {
		return 0, err
	}
	s.sel.Exit()
	s.log.WithField("count", len(targets)).Info("deleted selected items")
	return len(targets), s.afterMutation("delete selected")
}

// DuplicateSelected appends a copy of each selected item, named with a
// "_Copy" suffix, to the current folder.
func (s *Session) DuplicateSelected() (int, error) {
	targets, err := s.selectedTargets()
	if err != nil {
		return 0, fmt.Errorf("duplicate: %w", err)
	}
	dest, err := s.CurrentFolder()
	if err != nil {
		return 0, err
	}

	// Copy everything first so a duplicated folder never contains its own copy.
	var folders []*model.Folder
	var entries []*model.Entry
	for _, t := range targets {
		if t.folder != nil {
			c := t.folder.Clone()
			c.Name += "_Copy"
			folders = append(folders, c)
		} else {
			c := t.entry.Clone()
			c.Name += "_Copy"
			entries = append(entries, c)
		}
	}
	for _, f := range folders {
		dest.AddFolder(f)
	}
	for _, e := range entries {
		dest.AddEntry(e)
	}

	s.sel.Exit()
	return len(targets), s.afterMutation("duplicate selected")
}

// MoveSelected moves the selected items into the folder at dest, appending
// them in their original order. The destination must differ from the current
// folder and must not lie inside any selected folder.
func (s *Session) MoveSelected(dest model.Path) (int, error) {
	targets, err := s.selectedTargets()
	if err != nil {
		return 0, fmt.Errorf("move: %w", err)
	}
	destFolder, err := s.tree.Resolve(dest)
	if err != nil {
		return 0, fmt.Errorf("move destination: %w", err)
	}
	if dest.Equal(s.path) {
		return 0, fmt.Errorf("move: items are already in %s: %w", s.tree.DisplayPath(dest), model.ErrInvalidDestination)
	}
	for _, t := range targets {
		if t.folder != nil && model.IsDescendantOrSelf(t.path(), dest) {
			return 0, &model.CycleError{FolderName: t.folder.Name}
		}
		if t.parentPath.Equal(dest) {
			return 0, fmt.Errorf("move: %q is already in %s: %w", targetName(t), s.tree.DisplayPath(dest), model.ErrInvalidDestination)
		}
	}

	if err := removeTargets(targets); err != nil {
		return 0, err
	}
	for _, t := range targets {
		if t.folder != nil {
			destFolder.AddFolder(t.folder)
		} else {
			destFolder.AddEntry(t.entry)
		}
	}

	s.sel.Exit()
	s.log.WithFields(logrus.Fields{"count": len(targets), "path": dest.String()}).Info("moved selected items")
	return len(targets), s.afterMutation("move selected")
}

// ExportSelected copies the selected items into a new document: folders under
// the root's folders and entries under its entries.
func (s *Session) ExportSelected() (*model.Tree, error) {
	targets, err := s.selectedTargets()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	doc := model.NewDocument()
	for _, t := range targets {
		if t.folder != nil {
			doc.Root.AddFolder(t.folder.Clone())
		} else {
			doc.Root.AddEntry(t.entry.Clone())
		}
	}
	return doc, nil
}

// OpenSelected opens the links of selected entries and every link below
// selected folders. It returns how many links were opened.
func (s *Session) OpenSelected() (int, error) {
	targets, err := s.selectedTargets()
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	var links []string
	for _, t := range targets {
		if t.folder != nil {
			links = append(links, model.CollectLinks(t.folder)...)
		} else {
			links = append(links, model.ValidLinks(t.entry)...)
		}
	}
	return s.openLinks(links)
}

// ActivateResult performs the click action on the entry behind key k of the
// active view.
func (s *Session) ActivateResult(k selection.Key) (Activation, error) {
	t, err := s.resolveKey(k)
	if err != nil {
		return Activation{}, err
	}
	if t.entry == nil {
		return Activation{}, fmt.Errorf("selection key %s is not an entry: %w", k, model.ErrItemNotFound)
	}
	return s.activate(t.entry)
}
