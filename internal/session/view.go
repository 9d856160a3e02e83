package session

import (
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/search"
	"github.com/nikbrunner/shelf/internal/selection"
	"github.com/nikbrunner/shelf/internal/sorting"
)

// Item is one displayed folder or entry. Key addresses it for selection and
// batch operations in the view it came from.
type Item struct {
	Key      selection.Key
	Folder   *model.Folder
	Entry    *model.Entry
	Selected bool
	// Where the item lives; set for search results.
	PathDisplay string
}

// Name returns the item's name.
func (it Item) Name() string {
	if it.Folder != nil {
		return it.Folder.Name
	}
	return it.Entry.Name
}

// View is what a renderer shows: the current folder's children in display
// order, or the results of the active search.
type View struct {
	Path        model.Path
	PathDisplay string
	Searching   bool
	Term        string
	SortMode    sorting.Mode
	Selecting   bool
	Selected    int
	Folders     []Item
	Entries     []Item
	CanBack     bool
	CanForward  bool
}

// View builds the current view.
func (s *Session) View() View {
	v := View{
		Path:        s.path.Clone(),
		PathDisplay: s.tree.DisplayPath(s.path),
		SortMode:    s.sortMode,
		Selecting:   s.sel.Active(),
		Selected:    s.sel.Count(),
		Folders:     []Item{},
		Entries:     []Item{},
	}
	_, errBack := s.hist.Previous()
	_, errFwd := s.hist.Next()
	v.CanBack, v.CanForward = errBack == nil, errFwd == nil

	if s.search != nil {
		v.Searching = true
		v.Term = s.search.term
		for i, r := range s.search.results.Folders {
			v.Folders = append(v.Folders, s.resultItem(selection.FolderKey(i), r))
		}
		for i, r := range s.search.results.Entries {
			v.Entries = append(v.Entries, s.resultItem(selection.EntryKey(i), r))
		}
		return v
	}

	folder, err := s.CurrentFolder()
	if err != nil {
		return v
	}
	folders, entries := sorting.Children(folder, s.sortMode)
	// Sorting reorders references, so the original index is found by identity.
	for _, f := range folders {
		k := selection.FolderKey(folder.IndexOfFolder(f))
		v.Folders = append(v.Folders, Item{Key: k, Folder: f, Selected: s.sel.Has(k)})
	}
	for _, e := range entries {
		k := selection.EntryKey(folder.IndexOfEntry(e))
		v.Entries = append(v.Entries, Item{Key: k, Entry: e, Selected: s.sel.Has(k)})
	}
	return v
}

func (s *Session) resultItem(k selection.Key, r search.Result) Item {
	return Item{
		Key:         k,
		Folder:      r.Folder,
		Entry:       r.Entry,
		Selected:    s.sel.Has(k),
		PathDisplay: r.PathDisplay,
	}
}

func flatten(r search.Results) []search.Result {
	out := make([]search.Result, 0, r.Len())
	out = append(out, r.Folders...)
	return append(out, r.Entries...)
}
