package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RootName is the name given to a new tree's root folder.
const RootName = "Root"

// Tree is the folder hierarchy. It serializes as its root folder.
type Tree struct {
	Root *Folder
}

// NewTree creates an empty tree. Settings are created on first access.
func NewTree() *Tree {
	return &Tree{Root: &Folder{
		ID:      GenerateUUID(),
		Name:    RootName,
		Folders: []*Folder{},
		Entries: []*Entry{},
	}}
}

// NewDocument creates an empty tree with default settings, the shape used for
// exported selections.
func NewDocument() *Tree {
	t := NewTree()
	t.Root.Settings = DefaultSettings()
	return t
}

// MarshalJSON implements json.Marshaler. Links keep their literal "&", "<"
// and ">" so saved and exported documents stay readable.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t.Root); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON implements json.Unmarshaler. Documents from older versions
// without an entries list are accepted.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var root Folder
	if err := json.Unmarshal(data, &root); err != nil {
		return err
	}
	t.Root = &root
	t.Normalize()
	return nil
}

// Normalize replaces nil slices with empty ones, drops nil children and assigns
// IDs to nodes that lack one.
func (t *Tree) Normalize() {
	if t.Root == nil {
		t.Root = NewTree().Root
		return
	}
	if t.Root.Name == "" {
		t.Root.Name = RootName
	}
	normalizeFolder(t.Root)
}

func normalizeFolder(f *Folder) {
	if f.ID == "" {
		f.ID = GenerateUUID()
	}
	folders := make([]*Folder, 0, len(f.Folders))
	for _, sub := range f.Folders {
		if sub != nil {
			normalizeFolder(sub)
			folders = append(folders, sub)
		}
	}
	f.Folders = folders

	entries := make([]*Entry, 0, len(f.Entries))
	for _, e := range f.Entries {
		if e == nil {
			continue
		}
		if e.ID == "" {
			e.ID = GenerateUUID()
		}
		if e.Links == nil {
			e.Links = []string{}
		}
		entries = append(entries, e)
	}
	f.Entries = entries
}

// Settings returns the root settings, creating defaults if absent.
func (t *Tree) Settings() *Settings {
	if t.Root.Settings == nil {
		t.Root.Settings = DefaultSettings()
	}
	return t.Root.Settings
}

// Resolve walks from the root through each index of p.
func (t *Tree) Resolve(p Path) (*Folder, error) {
	folder := t.Root
	for depth, idx := range p {
		if idx < 0 || idx >= len(folder.Folders) {
			return nil, fmt.Errorf("resolve %s (index %d at depth %d): %w", p, idx, depth, ErrPathNotFound)
		}
		folder = folder.Folders[idx]
	}
	return folder, nil
}

// DisplayPath renders p as "Root / A / B". Unresolvable segments are omitted.
func (t *Tree) DisplayPath(p Path) string {
	names := []string{t.Root.Name}
	folder := t.Root
	for _, idx := range p {
		if idx < 0 || idx >= len(folder.Folders) {
			break
		}
		folder = folder.Folders[idx]
		names = append(names, folder.Name)
	}
	return strings.Join(names, " / ")
}

// PathOf finds the current path of the folder with the given internal ID.
func (t *Tree) PathOf(id string) (Path, bool) {
	var found Path
	t.Walk(func(p Path, f *Folder) bool {
		if f.ID == id {
			found = p
			return false
		}
		return true
	})
	return found, found != nil
}

// Walk visits every folder in pre-order, starting at the root. Returning false
// from fn stops the walk.
func (t *Tree) Walk(fn func(p Path, f *Folder) bool) {
	walkFolder(Path{}, t.Root, fn)
}

func walkFolder(p Path, f *Folder, fn func(Path, *Folder) bool) bool {
	if !fn(p, f) {
		return false
	}
	for i, sub := range f.Folders {
		if !walkFolder(p.Child(i), sub, fn) {
			return false
		}
	}
	return true
}

// Clone deep-copies the tree, settings included. Node IDs are preserved so a
// clone can be saved in place of the original.
func (t *Tree) Clone() *Tree {
	root := t.Root.clone(true)
	if t.Root.Settings != nil {
		root.Settings = t.Root.Settings.Clone()
	}
	return &Tree{Root: root}
}

// TotalEntryCount counts the entries in f and all of its descendants.
func TotalEntryCount(f *Folder) int {
	count := len(f.Entries)
	for _, sub := range f.Folders {
		count += TotalEntryCount(sub)
	}
	return count
}

// LinkCount counts the entry's non-blank links.
func LinkCount(e *Entry) int {
	count := 0
	for _, link := range e.Links {
		if strings.TrimSpace(link) != "" {
			count++
		}
	}
	return count
}

// ValidLinks returns the entry's trimmed links that parse as valid URLs.
func ValidLinks(e *Entry) []string {
	var links []string
	for _, link := range e.Links {
		link = strings.TrimSpace(link)
		if link != "" && IsValidLink(link) {
			links = append(links, link)
		}
	}
	return links
}

// CollectLinks gathers the valid links of every entry in f and its subfolders,
// depth-first: a folder's own entries come before its subfolders'.
func CollectLinks(f *Folder) []string {
	var links []string
	for _, e := range f.Entries {
		links = append(links, ValidLinks(e)...)
	}
	for _, sub := range f.Folders {
		links = append(links, CollectLinks(sub)...)
	}
	return links
}
