package exporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gotest.tools/v3/golden"

	"github.com/nikbrunner/shelf/internal/model"
)

func newEntry(t *testing.T, params model.NewEntryParams) *model.Entry {
	t.Helper()
	e, err := model.NewEntry(params)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func newFolder(t *testing.T, name string) *model.Folder {
	t.Helper()
	f, err := model.NewFolder(model.NewFolderParams{Name: name})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestExportHTML_EmptyTree(t *testing.T) {
	html := ExportHTML(model.NewTree())

	// Should have basic structure even when empty
	if !strings.Contains(html, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Error("expected DOCTYPE declaration")
	}
	if !strings.Contains(html, "<TITLE>Bookmarks</TITLE>") {
		t.Error("expected TITLE element")
	}
	if !strings.Contains(html, "<H1>Bookmarks</H1>") {
		t.Error("expected H1 element")
	}
}

func TestExportHTML_EscapesSpecialChars(t *testing.T) {
	tree := model.NewTree()
	tree.Root.AddEntry(newEntry(t, model.NewEntryParams{
		Name:  "Tom & Jerry <3",
		Links: []string{"https://example.com/?a=1&b=2"},
	}))

	html := ExportHTML(tree)

	if !strings.Contains(html, "Tom &amp; Jerry &lt;3</A>") {
		t.Error("expected escaped entry name")
	}
	if !strings.Contains(html, `HREF="https://example.com/?a=1&amp;b=2"`) {
		t.Error("expected escaped URL")
	}
}

func TestExportHTML_SkipsEntriesWithoutLinks(t *testing.T) {
	tree := model.NewTree()
	tree.Root.AddEntry(newEntry(t, model.NewEntryParams{Name: "just a note", Note: "text"}))

	if strings.Contains(ExportHTML(tree), "just a note") {
		t.Error("expected entry without links to be skipped")
	}
}

func TestExportHTML_Golden(t *testing.T) {
	tree := model.NewTree()

	dev := newFolder(t, "Development")
	tools := newFolder(t, "Tools")
	tools.AddEntry(newEntry(t, model.NewEntryParams{
		Name:  "Go",
		Links: []string{"https://go.dev", "https://pkg.go.dev"},
		Note:  "Docs and packages",
		Tags:  []string{"go", "docs"},
	}))
	dev.AddFolder(tools)
	dev.AddEntry(newEntry(t, model.NewEntryParams{Name: "GitHub", Links: []string{"https://github.com"}}))
	tree.Root.AddFolder(dev)
	tree.Root.AddEntry(newEntry(t, model.NewEntryParams{Name: "Example", Links: []string{"https://example.com"}}))

	golden.Assert(t, ExportHTML(tree), "export.golden")
}

func TestExportJSON(t *testing.T) {
	tree := model.NewDocument()
	tree.Root.AddEntry(newEntry(t, model.NewEntryParams{Name: "a&b", Links: []string{"https://example.com/?a=1&b=2"}}))

	var buf bytes.Buffer
	if err := ExportJSON(&buf, tree); err != nil {
		t.Fatalf("failed to export: %v", err)
	}
	if !strings.Contains(buf.String(), `"https://example.com/?a=1&b=2"`) {
		t.Error("expected links to be written unescaped")
	}

	var loaded model.Tree
	if err := json.Unmarshal(buf.Bytes(), &loaded); err != nil {
		t.Fatalf("exported JSON does not load: %v", err)
	}
	if len(loaded.Root.Entries) != 1 || loaded.Root.Settings == nil {
		t.Error("expected entry and settings in exported document")
	}
}
