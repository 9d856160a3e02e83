package model

import "slices"

// Entry click actions.
const (
	ClickOpenLinks = "openLinks"
	ClickCopyNote  = "copyNote"
)

// Settings holds per-tree defaults. They live on the root folder and are
// created on first access.
type Settings struct {
	DefaultFolderAspectRatio string   `json:"defaultFolderAspectRatio"`
	DefaultFolderColor       string   `json:"defaultFolderColor"`
	DefaultEntryAspectRatio  string   `json:"defaultEntryAspectRatio"`
	DefaultEntryColor        string   `json:"defaultEntryColor"`
	DefaultFolderWhiteText   bool     `json:"defaultFolderWhiteText"`
	LinksExpandedByDefault   bool     `json:"linksExpandedByDefault"`
	NoteExpandedByDefault    bool     `json:"noteExpandedByDefault"`
	TagsExpandedByDefault    bool     `json:"tagsExpandedByDefault"`
	EntryClickAction         string   `json:"entryClickAction"`
	DefaultFolderTags        []string `json:"defaultFolderTags,omitempty"`
	DefaultEntryTags         []string `json:"defaultEntryTags,omitempty"`
	Slots                    []Slot   `json:"slots,omitempty"`
}

// Slot is a user-named saved path.
type Slot struct {
	Name string `json:"name"`
	Path Path   `json:"path"`
}

// DefaultSettings returns the settings a new tree starts with.
func DefaultSettings() *Settings {
	return &Settings{
		DefaultFolderAspectRatio: "8:3",
		DefaultFolderColor:       "#28a745",
		DefaultEntryAspectRatio:  "8:3",
		DefaultEntryColor:        "#6c757d",
		DefaultFolderWhiteText:   false,
		LinksExpandedByDefault:   true,
		NoteExpandedByDefault:    true,
		TagsExpandedByDefault:    false,
		EntryClickAction:         ClickOpenLinks,
	}
}

// Validate checks the settings before they replace the current ones.
func (s *Settings) Validate() error {
	if err := ValidateColor(s.DefaultFolderColor); err != nil {
		return err
	}
	if err := ValidateColor(s.DefaultEntryColor); err != nil {
		return err
	}
	if s.EntryClickAction != ClickOpenLinks && s.EntryClickAction != ClickCopyNote {
		return validationErr("entryClickAction", "unknown entry click action %q", s.EntryClickAction)
	}
	if _, err := ValidateTags(s.DefaultFolderTags); err != nil {
		return err
	}
	_, err := ValidateTags(s.DefaultEntryTags)
	return err
}

// ApplyToFolder fills unset display fields of f. Fields already set are never
// overwritten, so applying twice is a no-op.
func (s *Settings) ApplyToFolder(f *Folder) {
	if f.AspectRatio == "" {
		f.AspectRatio = s.DefaultFolderAspectRatio
	}
	if f.Color == "" {
		f.Color = s.DefaultFolderColor
	}
	if f.WhiteText == nil {
		white := s.DefaultFolderWhiteText
		f.WhiteText = &white
	}
	if f.FolderTags == nil {
		f.FolderTags = append([]string{}, s.DefaultFolderTags...)
	}
}

// ApplyToEntry fills unset display fields of e.
func (s *Settings) ApplyToEntry(e *Entry) {
	if e.AspectRatio == "" {
		e.AspectRatio = s.DefaultEntryAspectRatio
	}
	if e.Color == "" {
		e.Color = s.DefaultEntryColor
	}
	if e.EntryTags == nil {
		e.EntryTags = append([]string{}, s.DefaultEntryTags...)
	}
	if e.Links == nil {
		e.Links = []string{}
	}
}

// Slot returns the slot with the given name.
func (s *Settings) Slot(name string) (Slot, bool) {
	i := slices.IndexFunc(s.Slots, func(sl Slot) bool { return sl.Name == name })
	if i < 0 {
		return Slot{}, false
	}
	return s.Slots[i], true
}

// SetSlot saves path under name, replacing an existing slot of that name.
func (s *Settings) SetSlot(name string, path Path) error {
	name, err := ValidateName("slot name", name)
	if err != nil {
		return err
	}
	slot := Slot{Name: name, Path: path.Clone()}
	if i := slices.IndexFunc(s.Slots, func(sl Slot) bool { return sl.Name == name }); i >= 0 {
		s.Slots[i] = slot
		return nil
	}
	s.Slots = append(s.Slots, slot)
	return nil
}

// RemoveSlot deletes the named slot and reports whether it existed.
func (s *Settings) RemoveSlot(name string) bool {
	n := len(s.Slots)
	s.Slots = slices.DeleteFunc(s.Slots, func(sl Slot) bool { return sl.Name == name })
	return len(s.Slots) != n
}

// Clone deep-copies the settings.
func (s *Settings) Clone() *Settings {
	c := *s
	c.DefaultFolderTags = cloneStrings(s.DefaultFolderTags)
	c.DefaultEntryTags = cloneStrings(s.DefaultEntryTags)
	c.Slots = make([]Slot, len(s.Slots))
	for i, sl := range s.Slots {
		c.Slots[i] = Slot{Name: sl.Name, Path: sl.Path.Clone()}
	}
	if s.Slots == nil {
		c.Slots = nil
	}
	return &c
}
