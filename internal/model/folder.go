package model

import "fmt"

// Folder is a container of subfolders and entries. A folder owns its children
// exclusively; moving a child means removing it here and inserting it elsewhere.
type Folder struct {
	ID          string    `json:"-"`
	Name        string    `json:"name"`
	Cover       string    `json:"cover"`
	Color       string    `json:"color,omitempty"`
	WhiteText   *bool     `json:"whiteText,omitempty"`
	AspectRatio string    `json:"aspectRatio,omitempty"`
	FolderTags  []string  `json:"folderTags,omitempty"`
	Folders     []*Folder `json:"folders"`
	Entries     []*Entry  `json:"entries"`
	Settings    *Settings `json:"settings,omitempty"` // root only
}

// NewFolderParams holds parameters for creating a new Folder.
type NewFolderParams struct {
	Name        string
	Cover       string
	Color       string
	AspectRatio string
	WhiteText   *bool
	Tags        []string
}

// NewFolder validates params and creates an empty Folder with a generated ID.
// Unset display fields are left empty for Settings defaults to fill.
func NewFolder(params NewFolderParams) (*Folder, error) {
	name, err := ValidateName("name", params.Name)
	if err != nil {
		return nil, err
	}
	if params.Color != "" {
		if err := ValidateColor(params.Color); err != nil {
			return nil, err
		}
	}
	if err := ValidateCover(params.Cover); err != nil {
		return nil, err
	}
	var tags []string
	if params.Tags != nil {
		if tags, err = ValidateTags(params.Tags); err != nil {
			return nil, err
		}
	}

	return &Folder{
		ID:          GenerateUUID(),
		Name:        name,
		Cover:       params.Cover,
		Color:       params.Color,
		AspectRatio: params.AspectRatio,
		WhiteText:   params.WhiteText,
		FolderTags:  tags,
		Folders:     []*Folder{},
		Entries:     []*Entry{},
	}, nil
}

// FolderAt returns the subfolder at index i.
func (f *Folder) FolderAt(i int) (*Folder, error) {
	if i < 0 || i >= len(f.Folders) {
		return nil, fmt.Errorf("folder %d in %q: %w", i, f.Name, ErrItemNotFound)
	}
	return f.Folders[i], nil
}

// EntryAt returns the entry at index i.
func (f *Folder) EntryAt(i int) (*Entry, error) {
	if i < 0 || i >= len(f.Entries) {
		return nil, fmt.Errorf("entry %d in %q: %w", i, f.Name, ErrItemNotFound)
	}
	return f.Entries[i], nil
}

// AddFolder appends a subfolder.
func (f *Folder) AddFolder(child *Folder) {
	f.Folders = append(f.Folders, child)
}

// AddEntry appends an entry.
func (f *Folder) AddEntry(e *Entry) {
	f.Entries = append(f.Entries, e)
}

// RemoveFolderAt removes and returns the subfolder at index i.
func (f *Folder) RemoveFolderAt(i int) (*Folder, error) {
	child, err := f.FolderAt(i)
	if err != nil {
		return nil, err
	}
	f.Folders = append(f.Folders[:i], f.Folders[i+1:]...)
	return child, nil
}

// RemoveEntryAt removes and returns the entry at index i.
func (f *Folder) RemoveEntryAt(i int) (*Entry, error) {
	e, err := f.EntryAt(i)
	if err != nil {
		return nil, err
	}
	f.Entries = append(f.Entries[:i], f.Entries[i+1:]...)
	return e, nil
}

// IndexOfFolder returns the position of child by identity, or -1.
func (f *Folder) IndexOfFolder(child *Folder) int {
	for i, c := range f.Folders {
		if c == child {
			return i
		}
	}
	return -1
}

// IndexOfEntry returns the position of e by identity, or -1.
func (f *Folder) IndexOfEntry(e *Entry) int {
	for i, c := range f.Entries {
		if c == e {
			return i
		}
	}
	return -1
}

// Clone deep-copies the folder and its subtree. Copies get fresh IDs and never
// carry root Settings.
func (f *Folder) Clone() *Folder {
	return f.clone(false)
}

func (f *Folder) clone(keepIDs bool) *Folder {
	c := &Folder{
		ID:          GenerateUUID(),
		Name:        f.Name,
		Cover:       f.Cover,
		Color:       f.Color,
		AspectRatio: f.AspectRatio,
		FolderTags:  cloneStrings(f.FolderTags),
		Folders:     make([]*Folder, 0, len(f.Folders)),
		Entries:     make([]*Entry, 0, len(f.Entries)),
	}
	if keepIDs {
		c.ID = f.ID
	}
	if f.WhiteText != nil {
		w := *f.WhiteText
		c.WhiteText = &w
	}
	for _, sub := range f.Folders {
		c.Folders = append(c.Folders, sub.clone(keepIDs))
	}
	for _, e := range f.Entries {
		ec := e.Clone()
		if keepIDs {
			ec.ID = e.ID
		}
		c.Entries = append(c.Entries, ec)
	}
	return c
}

// FolderEdit holds the full replacement values for a folder edit.
type FolderEdit struct {
	Name        string
	Color       string
	Cover       string
	AspectRatio string
	WhiteText   bool
	Tags        []string
}

// ApplyEdit validates edit and replaces the folder's mutable fields.
// It returns a description of each changed field; nothing is modified on error.
func (f *Folder) ApplyEdit(edit FolderEdit) ([]string, error) {
	name, err := ValidateName("name", edit.Name)
	if err != nil {
		return nil, err
	}
	if edit.Color != "" {
		if err := ValidateColor(edit.Color); err != nil {
			return nil, err
		}
	}
	if err := ValidateCover(edit.Cover); err != nil {
		return nil, err
	}
	tags, err := ValidateTags(edit.Tags)
	if err != nil {
		return nil, err
	}

	var changes []string
	changes = appendChange(changes, "name", f.Name, name)
	changes = appendChange(changes, "color", f.Color, edit.Color)
	if f.Cover != edit.Cover {
		changes = append(changes, "cover image")
	}
	changes = appendChange(changes, "aspect ratio", f.AspectRatio, edit.AspectRatio)
	oldWhite := f.WhiteText != nil && *f.WhiteText
	if oldWhite != edit.WhiteText {
		if edit.WhiteText {
			changes = append(changes, "text color to white")
		} else {
			changes = append(changes, "text color to dark")
		}
	}
	changes = appendListChange(changes, "tags", f.FolderTags, tags)

	white := edit.WhiteText
	f.Name = name
	f.Color = edit.Color
	f.Cover = edit.Cover
	f.AspectRatio = edit.AspectRatio
	f.WhiteText = &white
	f.FolderTags = tags
	return changes, nil
}
