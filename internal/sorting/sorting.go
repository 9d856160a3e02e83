// Package sorting orders a folder's children for display.
//
// Sorting never mutates or clones the items: it returns fresh slices of the
// same pointers, so a sorted position can be mapped back to the original index
// by identity. All modes use a stable sort; equal-ranked items keep their
// original relative order.
package sorting

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nikbrunner/shelf/internal/model"
)

// Mode selects an ordering.
type Mode string

const (
	NameAsc   Mode = "name-asc"
	NameDesc  Mode = "name-desc"
	CountAsc  Mode = "count-asc"
	CountDesc Mode = "count-desc"
	None      Mode = "none"
)

// Modes lists every mode in cycle order.
var Modes = []Mode{NameAsc, NameDesc, CountAsc, CountDesc, None}

// ParseMode reads a mode name. The empty string means NameAsc.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return NameAsc, nil
	}
	m := Mode(s)
	if !slices.Contains(Modes, m) {
		return "", &model.ValidationError{Field: "sort", Message: fmt.Sprintf("unknown sort mode %q", s)}
	}
	return m, nil
}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode {
	i := slices.Index(Modes, m)
	return Modes[(i+1)%len(Modes)]
}

// Label returns a short status-line label.
func (m Mode) Label() string {
	switch m {
	case NameAsc:
		return "A-Z"
	case NameDesc:
		return "Z-A"
	case CountAsc:
		return "count ↑"
	case CountDesc:
		return "count ↓"
	}
	return "manual"
}

// newCollator compares names case-insensitively in a locale-aware way.
// Collators keep internal buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

// FolderCompare returns the comparison function for folders in mode m, or nil
// for None.
func FolderCompare(m Mode) func(a, b *model.Folder) int {
	switch m {
	case NameAsc, NameDesc:
		c := newCollator()
		sign := direction(m)
		return func(a, b *model.Folder) int {
			return sign * c.CompareString(a.Name, b.Name)
		}
	case CountAsc, CountDesc:
		sign := direction(m)
		return func(a, b *model.Folder) int {
			return sign * cmp.Compare(model.TotalEntryCount(a), model.TotalEntryCount(b))
		}
	}
	return nil
}

// EntryCompare returns the comparison function for entries in mode m, or nil
// for None.
func EntryCompare(m Mode) func(a, b *model.Entry) int {
	switch m {
	case NameAsc, NameDesc:
		c := newCollator()
		sign := direction(m)
		return func(a, b *model.Entry) int {
			return sign * c.CompareString(a.Name, b.Name)
		}
	case CountAsc, CountDesc:
		sign := direction(m)
		return func(a, b *model.Entry) int {
			return sign * cmp.Compare(model.LinkCount(a), model.LinkCount(b))
		}
	}
	return nil
}

func direction(m Mode) int {
	if m == NameDesc || m == CountDesc {
		return -1
	}
	return 1
}

// Folders returns a sorted copy of folders.
func Folders(folders []*model.Folder, m Mode) []*model.Folder {
	sorted := slices.Clone(folders)
	if compare := FolderCompare(m); compare != nil {
		slices.SortStableFunc(sorted, compare)
	}
	return sorted
}

// Entries returns a sorted copy of entries.
func Entries(entries []*model.Entry, m Mode) []*model.Entry {
	sorted := slices.Clone(entries)
	if compare := EntryCompare(m); compare != nil {
		slices.SortStableFunc(sorted, compare)
	}
	return sorted
}

// Children returns sorted copies of f's subfolders and entries.
func Children(f *model.Folder, m Mode) ([]*model.Folder, []*model.Entry) {
	return Folders(f.Folders, m), Entries(f.Entries, m)
}
