package model

import "fmt"

// ImportMerge merges src's children into the folder at dest. Subfolders reuse an
// existing folder of the same name at the same level; entries whose links are
// already present anywhere in the tree are skipped.
// Returns (added entries, skipped entries).
func (t *Tree) ImportMerge(src *Folder, dest Path) (int, int, error) {
	target, err := t.Resolve(dest)
	if err != nil {
		return 0, 0, fmt.Errorf("import merge: %w", err)
	}

	known := make(map[string]bool)
	t.Walk(func(_ Path, f *Folder) bool {
		for _, e := range f.Entries {
			for _, link := range e.Links {
				known[link] = true
			}
		}
		return true
	})

	added, skipped := mergeInto(target, src, known)
	return added, skipped, nil
}

func mergeInto(dest, src *Folder, known map[string]bool) (int, int) {
	added, skipped := 0, 0

	for _, sub := range src.Folders {
		existing := findFolderByName(dest, sub.Name)
		if existing == nil {
			existing = &Folder{
				ID:          GenerateUUID(),
				Name:        sub.Name,
				Cover:       sub.Cover,
				Color:       sub.Color,
				AspectRatio: sub.AspectRatio,
				WhiteText:   sub.WhiteText,
				FolderTags:  cloneStrings(sub.FolderTags),
				Folders:     []*Folder{},
				Entries:     []*Entry{},
			}
			dest.AddFolder(existing)
		}
		a, s := mergeInto(existing, sub, known)
		added += a
		skipped += s
	}

	for _, e := range src.Entries {
		if hasKnownLink(e, known) {
			skipped++
			continue
		}
		for _, link := range e.Links {
			known[link] = true
		}
		dest.AddEntry(e.Clone())
		added++
	}

	return added, skipped
}

func findFolderByName(f *Folder, name string) *Folder {
	for _, sub := range f.Folders {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

func hasKnownLink(e *Entry, known map[string]bool) bool {
	for _, link := range e.Links {
		if known[link] {
			return true
		}
	}
	return false
}
