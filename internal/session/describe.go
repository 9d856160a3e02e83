package session

import (
	"fmt"
	"strings"

	"github.com/nikbrunner/shelf/internal/model"
)

// DescribeDeletion summarizes what deleting the given items removes, for the
// confirmation prompt.
func DescribeDeletion(folders []*model.Folder, entries []*model.Entry) (title, description string) {
	var parts []string

	switch {
	case len(folders) == 1 && len(entries) == 0:
		title = "Delete Folder?"
		f := folders[0]
		if n := len(f.Folders); n > 0 {
			parts = append(parts, plural(n, "Subfolder", "Subfolders"))
		}
		if n := model.TotalEntryCount(f); n > 0 {
			parts = append(parts, plural(n, "Entry", "Entries"))
		}
		if len(parts) == 0 {
			parts = append(parts, "Empty folder")
		}

	case len(folders) == 0 && len(entries) == 1:
		title = "Delete Entry?"
		e := entries[0]
		if n := model.LinkCount(e); n > 0 {
			parts = append(parts, plural(n, "Link", "Links"))
		}
		if strings.TrimSpace(e.Note) != "" {
			parts = append(parts, "1 Note")
		}
		if len(parts) == 0 {
			parts = append(parts, "Empty entry")
		}

	default:
		title = "Delete Selected Items?"
		if n := len(folders); n > 0 {
			parts = append(parts, plural(n, "Folder", "Folders"))
		}
		if n := len(entries); n > 0 {
			parts = append(parts, plural(n, "Entry", "Entries"))
		}
	}

	return title, "This will delete:\n" + strings.Join(parts, " and ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
