// Package history implements browser-style back/forward navigation over
// folder and search locations.
package history

import (
	"fmt"

	"github.com/nikbrunner/shelf/internal/model"
)

// DefaultLimit is the number of locations kept before the oldest are dropped.
const DefaultLimit = 50

// LocationKind distinguishes folder visits from search snapshots.
type LocationKind int

const (
	FolderLocation LocationKind = iota
	SearchLocation
)

// Location is a visited place. Search locations keep only the term and the
// folder searched from; results are recomputed when the location is revisited.
type Location struct {
	Kind LocationKind
	Path model.Path
	Term string
}

// Folder returns a folder location.
func Folder(p model.Path) Location {
	return Location{Kind: FolderLocation, Path: p.Clone()}
}

// Search returns a search location.
func Search(term string, p model.Path) Location {
	return Location{Kind: SearchLocation, Path: p.Clone(), Term: term}
}

func (l Location) String() string {
	if l.Kind == SearchLocation {
		return fmt.Sprintf("search %q in %s", l.Term, l.Path)
	}
	return l.Path.String()
}

// History is a bounded list of locations with a cursor. Locations after the
// cursor are forward history and are discarded by Push.
type History struct {
	entries []Location
	cursor  int
	limit   int
}

// New creates a history holding the root folder location.
func New() *History {
	return NewWithLimit(DefaultLimit)
}

// NewWithLimit creates a history that keeps at most limit locations.
func NewWithLimit(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{entries: []Location{Folder(model.Path{})}, limit: limit}
}

// Push records a fresh navigation. Replays from Back or Forward must not push.
func (h *History) Push(loc Location) {
	h.entries = append(h.entries[:h.cursor+1], loc)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append([]Location(nil), h.entries[over:]...)
	}
	h.cursor = len(h.entries) - 1
}

// Back moves the cursor one step back and returns the location there.
func (h *History) Back() (Location, error) {
	if _, err := h.Previous(); err != nil {
		return Location{}, err
	}
	h.cursor--
	return h.entries[h.cursor], nil
}

// Forward moves the cursor one step forward and returns the location there.
func (h *History) Forward() (Location, error) {
	if _, err := h.Next(); err != nil {
		return Location{}, err
	}
	h.cursor++
	return h.entries[h.cursor], nil
}

// Previous returns the location Back would move to without moving.
func (h *History) Previous() (Location, error) {
	if h.cursor <= 0 {
		return Location{}, fmt.Errorf("back: %w", model.ErrNoHistory)
	}
	return h.entries[h.cursor-1], nil
}

// Next returns the location Forward would move to without moving.
func (h *History) Next() (Location, error) {
	if h.cursor >= len(h.entries)-1 {
		return Location{}, fmt.Errorf("forward: %w", model.ErrNoHistory)
	}
	return h.entries[h.cursor+1], nil
}

// Remove drops the location at index i, used to discard locations whose path
// no longer resolves. The cursor keeps pointing at the same location when it
// can. The last remaining location is never removed.
func (h *History) Remove(i int) {
	if i < 0 || i >= len(h.entries) || len(h.entries) == 1 {
		return
	}
	h.entries = append(h.entries[:i], h.entries[i+1:]...)
	if i < h.cursor || h.cursor >= len(h.entries) {
		h.cursor--
	}
}

// Current returns the location at the cursor.
func (h *History) Current() Location {
	return h.entries[h.cursor]
}

// Cursor returns the cursor position.
func (h *History) Cursor() int {
	return h.cursor
}

// Len returns the number of recorded locations.
func (h *History) Len() int {
	return len(h.entries)
}

// Locations returns a copy of the recorded locations, oldest first.
func (h *History) Locations() []Location {
	return append([]Location(nil), h.entries...)
}
