// Package importer reads bookmark exports from other tools.
package importer

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/nikbrunner/shelf/internal/model"
)

// ParseHTMLBookmarks parses Netscape bookmark HTML into a detached folder tree
// rooted at a folder named like the tree root. Bookmarks whose URL is not an
// http, https or file link are skipped. Consecutive bookmarks with the same
// title in one folder become a single entry with several links, and a <DD>
// description becomes the entry's note.
func ParseHTMLBookmarks(r io.Reader) (*model.Folder, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	root := &model.Folder{
		ID:      model.GenerateUUID(),
		Name:    model.RootName,
		Folders: []*model.Folder{},
		Entries: []*model.Entry{},
	}

	// Track current folder stack for hierarchy
	stack := []*model.Folder{root}
	var pendingFolder *model.Folder // folder waiting to be pushed on next DL
	var lastEntry *model.Entry      // target for a following <DD>

	current := func() *model.Folder { return stack[len(stack)-1] }

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := getTextContent(n)
				if name != "" {
					folder, err := model.NewFolder(model.NewFolderParams{Name: name})
					if err == nil {
						current().AddFolder(folder)
						pendingFolder = folder
					}
				}
				lastEntry = nil
				return // Don't recurse into H3

			case "a":
				lastEntry = addBookmark(current(), n)
				return // Don't recurse into A

			case "dd":
				if lastEntry != nil && lastEntry.Note == "" {
					lastEntry.Note = ownText(n)
				}
				lastEntry = nil
				// A DD may wrap the following list in sloppy exports.
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode {
						parse(c)
					}
				}
				return

			case "dl":
				// If we have a pending folder, its contents follow.
				pushed := false
				if pendingFolder != nil {
					stack = append(stack, pendingFolder)
					pendingFolder = nil
					pushed = true
				}
				lastEntry = nil

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					stack = stack[:len(stack)-1]
				}
				lastEntry = nil
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return root, nil
}

// addBookmark adds the anchor to folder, merging it into the previous entry if
// that has the same name. It returns the entry the link landed in, or nil if
// the anchor was skipped.
func addBookmark(folder *model.Folder, n *html.Node) *model.Entry {
	href := strings.TrimSpace(getAttr(n, "href"))
	if href == "" || !model.IsValidLink(href) {
		return nil
	}

	title := getTextContent(n)
	if title == "" {
		title = href // fallback to URL as title
	}

	if len(folder.Entries) > 0 {
		prev := folder.Entries[len(folder.Entries)-1]
		if prev.Name == title {
			if err := prev.AddLink(href); err != nil {
				return nil
			}
			return prev
		}
	}

	var tags []string
	if raw := getAttr(n, "tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	e, err := model.NewEntry(model.NewEntryParams{Name: title, Links: []string{href}, Tags: tags})
	if err != nil {
		// Overlong tags and the like: keep the bookmark, drop the tags.
		if e, err = model.NewEntry(model.NewEntryParams{Name: title, Links: []string{href}}); err != nil {
			return nil
		}
	}
	folder.AddEntry(e)
	return e
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// ownText returns the node's direct text children, ignoring nested elements.
func ownText(n *html.Node) string {
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			text.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
