// Package selection tracks the items picked for batch operations within one view.
package selection

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/nikbrunner/shelf/internal/model"
)

// Kind is the type of a selected item.
type Kind string

const (
	KindFolder Kind = "folder"
	KindEntry  Kind = "entry"
)

// Key identifies an item by kind and position within the active view.
type Key struct {
	Kind  Kind
	Index int
}

// FolderKey returns the key of the folder at index i.
func FolderKey(i int) Key { return Key{Kind: KindFolder, Index: i} }

// EntryKey returns the key of the entry at index i.
func EntryKey(i int) Key { return Key{Kind: KindEntry, Index: i} }

// String renders the key as "<kind>:<index>".
func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.Index)
}

// ParseKey parses a "<kind>:<index>" key.
func ParseKey(s string) (Key, error) {
	kind, idx, ok := strings.Cut(s, ":")
	if !ok {
		return Key{}, &model.ValidationError{Field: "key", Message: fmt.Sprintf("invalid selection key %q", s)}
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 {
		return Key{}, &model.ValidationError{Field: "key", Message: fmt.Sprintf("invalid selection index in %q", s)}
	}
	switch Kind(kind) {
	case KindFolder, KindEntry:
		return Key{Kind: Kind(kind), Index: i}, nil
	default:
		return Key{}, &model.ValidationError{Field: "key", Message: fmt.Sprintf("unknown selection kind %q", kind)}
	}
}

// compareKeys orders folders before entries, then by index.
func compareKeys(a, b Key) int {
	if a.Kind != b.Kind {
		if a.Kind == KindFolder {
			return -1
		}
		return 1
	}
	return a.Index - b.Index
}

// ViewKind distinguishes browsing a folder from browsing search results.
type ViewKind int

const (
	FolderView ViewKind = iota
	SearchView
)

// View identifies what the selection's indices refer to.
type View struct {
	Kind ViewKind
	Path model.Path
	Term string // search views only
}

// Equal reports whether both views address the same items.
func (v View) Equal(other View) bool {
	return v.Kind == other.Kind && v.Path.Equal(other.Path) && v.Term == other.Term
}

// Set is the selection state for a single view.
type Set struct {
	active bool
	view   View
	keys   map[Key]bool
}

// New creates an empty, inactive selection scoped to view.
func New(view View) *Set {
	return &Set{view: view, keys: make(map[Key]bool)}
}

// Active reports whether selection mode is on.
func (s *Set) Active() bool {
	return s.active
}

// Enter turns selection mode on without selecting anything.
func (s *Set) Enter() {
	s.active = true
}

// Exit clears the selection and turns selection mode off.
func (s *Set) Exit() {
	s.Clear()
	s.active = false
}

// View returns the view the selection is scoped to.
func (s *Set) View() View {
	return s.view
}

// Scope rescopes the selection. Switching to a different view clears the
// selection and leaves selection mode.
func (s *Set) Scope(view View) {
	if s.view.Equal(view) {
		return
	}
	s.view = View{Kind: view.Kind, Path: view.Path.Clone(), Term: view.Term}
	s.Exit()
}

// Toggle flips membership of k and reports whether it is now selected.
// Toggling enters selection mode.
func (s *Set) Toggle(k Key) bool {
	s.active = true
	if s.keys[k] {
		delete(s.keys, k)
		return false
	}
	s.keys[k] = true
	return true
}

// Add selects every key given.
func (s *Set) Add(keys ...Key) {
	s.active = true
	for _, k := range keys {
		s.keys[k] = true
	}
}

// Has reports whether k is selected.
func (s *Set) Has(k Key) bool {
	return s.keys[k]
}

// Count returns the number of selected items.
func (s *Set) Count() int {
	return len(s.keys)
}

// Empty reports whether nothing is selected.
func (s *Set) Empty() bool {
	return len(s.keys) == 0
}

// Keys returns the selected keys, folders first, each kind by ascending index.
func (s *Set) Keys() []Key {
	keys := make([]Key, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// Clear removes every key but keeps selection mode as it is.
func (s *Set) Clear() {
	clear(s.keys)
}
