package importer_test

import (
	"strings"
	"testing"

	"github.com/nikbrunner/shelf/internal/importer"
	"github.com/nikbrunner/shelf/internal/model"
)

func TestParseHTML_SingleBookmark(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>
</DL><p>`

	root, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(root.Folders) != 0 {
		t.Errorf("expected 0 folders, got %d", len(root.Folders))
	}
	if len(root.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(root.Entries))
	}

	e := root.Entries[0]
	if e.Name != "Example Site" {
		t.Errorf("expected name 'Example Site', got %q", e.Name)
	}
	if len(e.Links) != 1 || e.Links[0] != "https://example.com" {
		t.Errorf("expected link 'https://example.com', got %v", e.Links)
	}
	if e.ID == "" {
		t.Error("expected non-empty ID")
	}
}

func TestParseHTML_NestedFolders(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3 ADD_DATE="1234567890">Development</H3>
    <DL><p>
        <DT><H3 ADD_DATE="1234567890">React</H3>
        <DL><p>
            <DT><A HREF="https://react.dev" ADD_DATE="1234567890">React Docs</A>
        </DL><p>
        <DT><A HREF="https://github.com" ADD_DATE="1234567890">GitHub</A>
    </DL><p>
    <DT><A HREF="https://google.com" ADD_DATE="1234567890">Google</A>
</DL><p>`

	root, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(root.Folders) != 1 || root.Folders[0].Name != "Development" {
		t.Fatal("expected Development at root level")
	}
	dev := root.Folders[0]
	if len(dev.Folders) != 1 || dev.Folders[0].Name != "React" {
		t.Fatal("React should be child of Development")
	}
	react := dev.Folders[0]

	if len(react.Entries) != 1 || react.Entries[0].Name != "React Docs" {
		t.Error("React Docs should be in React folder")
	}
	if len(dev.Entries) != 1 || dev.Entries[0].Name != "GitHub" {
		t.Error("GitHub should be in Development folder")
	}
	if len(root.Entries) != 1 || root.Entries[0].Name != "Google" {
		t.Error("Google should be at root level")
	}
	if got := model.TotalEntryCount(root); got != 3 {
		t.Errorf("expected 3 entries, got %d", got)
	}
}

func TestParseHTML_EmptyFile(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<DL><p>
</DL><p>`

	root, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Folders) != 0 || len(root.Entries) != 0 {
		t.Error("expected empty result")
	}
}

func TestParseHTML_SkipsInvalidLinks(t *testing.T) {
	html := `<DL><p>
    <DT><A>No Href</A>
    <DT><A HREF="javascript:alert(1)">Script</A>
    <DT><A HREF="place:sort=8">Smart Folder</A>
    <DT><A HREF="https://valid.com">Valid</A>
</DL><p>`

	root, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Entries) != 1 {
		t.Fatalf("expected 1 entry (skipping invalid links), got %d", len(root.Entries))
	}
	if root.Entries[0].Name != "Valid" {
		t.Errorf("expected 'Valid', got %q", root.Entries[0].Name)
	}
}

func TestParseHTML_MergesLinksNotesAndTags(t *testing.T) {
	html := `<DL><p>
    <DT><A HREF="https://go.dev" TAGS="go, docs">Go</A>
    <DD>Docs and packages
    <DT><A HREF="https://pkg.go.dev" TAGS="go,docs">Go</A>
    <DT><A HREF="https://example.com">https://example.com</A>
    <DT><A HREF="https://untitled.example"></A>
</DL><p>`

	root, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(root.Entries))
	}

	goEntry := root.Entries[0]
	if len(goEntry.Links) != 2 {
		t.Errorf("expected 2 links on Go, got %v", goEntry.Links)
	}
	if goEntry.Note != "Docs and packages" {
		t.Errorf("expected note from DD, got %q", goEntry.Note)
	}
	if len(goEntry.EntryTags) != 2 || goEntry.EntryTags[0] != "go" {
		t.Errorf("expected tags [go docs], got %v", goEntry.EntryTags)
	}
	if root.Entries[2].Name != "https://untitled.example" {
		t.Errorf("expected URL as fallback name, got %q", root.Entries[2].Name)
	}
}
