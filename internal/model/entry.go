package model

// Entry is a leaf record holding links, a note and tags.
type Entry struct {
	ID          string   `json:"-"`
	Name        string   `json:"name"`
	Cover       string   `json:"cover"`
	Color       string   `json:"color,omitempty"`
	AspectRatio string   `json:"aspectRatio,omitempty"`
	Links       []string `json:"links"`
	Note        string   `json:"note,omitempty"`
	EntryTags   []string `json:"entryTags,omitempty"`
}

// NewEntryParams holds parameters for creating a new Entry.
type NewEntryParams struct {
	Name        string
	Cover       string
	Color       string
	AspectRatio string
	Links       []string
	Note        string
	Tags        []string
}

// NewEntry validates params and creates an Entry with a generated ID.
// Empty links are dropped.
func NewEntry(params NewEntryParams) (*Entry, error) {
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
	links, err := NormalizeLinks(params.Links)
	if err != nil {
		return nil, err
	}
	var tags []string
	if params.Tags != nil {
		if tags, err = ValidateTags(params.Tags); err != nil {
			return nil, err
		}
	}

	return &Entry{
		ID:          GenerateUUID(),
		Name:        name,
		Cover:       params.Cover,
		Color:       params.Color,
		AspectRatio: params.AspectRatio,
		Links:       links,
		Note:        params.Note,
		EntryTags:   tags,
	}, nil
}

// AddLink validates and appends a link.
func (e *Entry) AddLink(link string) error {
	links, err := NormalizeLinks([]string{link})
	if err != nil {
		return err
	}
	if len(links) == 0 {
		return validationErr("links", "link is required")
	}
	e.Links = append(e.Links, links...)
	return nil
}

// Clone deep-copies the entry with a fresh ID.
func (e *Entry) Clone() *Entry {
	return &Entry{
		ID:          GenerateUUID(),
		Name:        e.Name,
		Cover:       e.Cover,
		Color:       e.Color,
		AspectRatio: e.AspectRatio,
		Links:       cloneStrings(e.Links),
		Note:        e.Note,
		EntryTags:   cloneStrings(e.EntryTags),
	}
}

// EntryEdit holds the full replacement values for an entry edit.
type EntryEdit struct {
	Name        string
	Color       string
	Cover       string
	AspectRatio string
	Links       []string
	Note        string
	Tags        []string
}

// ApplyEdit validates edit and replaces the entry's mutable fields.
// It returns a description of each changed field; nothing is modified on error.
func (e *Entry) ApplyEdit(edit EntryEdit) ([]string, error) {
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
	links, err := NormalizeLinks(edit.Links)
	if err != nil {
		return nil, err
	}
	tags, err := ValidateTags(edit.Tags)
	if err != nil {
		return nil, err
	}

	var changes []string
	changes = appendChange(changes, "name", e.Name, name)
	changes = appendChange(changes, "color", e.Color, edit.Color)
	if e.Cover != edit.Cover {
		changes = append(changes, "cover image")
	}
	changes = appendChange(changes, "aspect ratio", e.AspectRatio, edit.AspectRatio)
	if e.Note != edit.Note {
		changes = append(changes, "note content")
	}
	changes = appendListChange(changes, "links", e.Links, links)
	changes = appendListChange(changes, "tags", e.EntryTags, tags)

	e.Name = name
	e.Color = edit.Color
	e.Cover = edit.Cover
	e.AspectRatio = edit.AspectRatio
	e.Links = links
	e.Note = edit.Note
	e.EntryTags = tags
	return changes, nil
}
