package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/shelf/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/shelf-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("shelf-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports the tree to Netscape bookmark HTML format.
// An entry with several links becomes one bookmark per link, all with the
// entry's name; its note is written as a description after the first.
func ExportHTML(tree *model.Tree) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	writeFolder(&b, tree.Root, 1)

	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeFolder recursively writes the subfolders and entries of f.
func writeFolder(b *strings.Builder, f *model.Folder, indent int) {
	prefix := strings.Repeat("    ", indent)

	for _, sub := range f.Folders {
		fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(sub.Name))
		fmt.Fprintf(b, "%s<DL><p>\n", prefix)
		writeFolder(b, sub, indent+1)
		fmt.Fprintf(b, "%s</DL><p>\n", prefix)
	}

	for _, e := range f.Entries {
		tags := ""
		if len(e.EntryTags) > 0 {
			tags = fmt.Sprintf(" TAGS=\"%s\"", html.EscapeString(strings.Join(e.EntryTags, ",")))
		}
		for i, link := range model.ValidLinks(e) {
			fmt.Fprintf(b,
				"%s<DT><A HREF=\"%s\"%s>%s</A>\n",
				prefix,
				html.EscapeString(link),
				tags,
				html.EscapeString(e.Name),
			)
			if i == 0 && strings.TrimSpace(e.Note) != "" {
				fmt.Fprintf(b, "%s<DD>%s\n", prefix, html.EscapeString(strings.TrimSpace(e.Note)))
			}
		}
	}
}
