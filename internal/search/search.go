// Package search filters the folder tree with keyword-aware queries.
package search

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/sorting"
)

// Result is a matched folder or entry.
//
// For a folder, Path is the folder's own path. For an entry, Path is the
// containing folder's path and EntryIndex its position there.
type Result struct {
	Folder      *model.Folder
	Entry       *model.Entry
	Path        model.Path
	EntryIndex  int
	PathDisplay string
}

// IsFolder reports whether the result is a folder.
func (r Result) IsFolder() bool {
	return r.Folder != nil
}

// Name returns the matched item's name.
func (r Result) Name() string {
	if r.Folder != nil {
		return r.Folder.Name
	}
	return r.Entry.Name
}

// Results holds matched folders and entries, each ranked independently.
type Results struct {
	Query   Query
	Folders []Result
	Entries []Result
}

// Len returns the total number of matches.
func (r Results) Len() int {
	return len(r.Folders) + len(r.Entries)
}

// matcher folds case once per search; casers are not safe for concurrent use.
type matcher struct {
	fold    cases.Caser
	clauses []Clause
}

func newMatcher(q Query) *matcher {
	m := &matcher{fold: cases.Fold()}
	for _, c := range q.Clauses {
		m.clauses = append(m.clauses, Clause{Keyword: c.Keyword, Term: m.fold.String(c.Term)})
	}
	return m
}

func (m *matcher) contains(s, term string) bool {
	return s != "" && strings.Contains(m.fold.String(s), term)
}

func (m *matcher) any(values []string, term string) bool {
	for _, v := range values {
		if m.contains(v, term) {
			return true
		}
	}
	return false
}

func (m *matcher) folder(f *model.Folder) bool {
	for _, c := range m.clauses {
		var ok bool
		switch c.Keyword {
		case General:
			ok = m.contains(f.Name, c.Term) || m.any(f.FolderTags, c.Term)
		case Name, FName:
			ok = m.contains(f.Name, c.Term)
		case Tag, FTag:
			ok = m.any(f.FolderTags, c.Term)
		}
		if !ok {
			return false
		}
	}
	return true
}

func (m *matcher) entry(e *model.Entry) bool {
	for _, c := range m.clauses {
		var ok bool
		switch c.Keyword {
		case General:
			ok = m.contains(e.Name, c.Term) || m.any(e.EntryTags, c.Term) || m.any(e.Links, c.Term)
		case Name, EName:
			ok = m.contains(e.Name, c.Term)
		case Link:
			ok = m.any(e.Links, c.Term)
		case Tag, ETag:
			ok = m.any(e.EntryTags, c.Term)
		}
		if !ok {
			return false
		}
	}
	return true
}

// Find walks the tree below the folder at start and returns matches in
// pre-order: each subfolder is tested and then recursed into regardless of the
// outcome, and a folder's own entries follow its subfolders. The start folder
// itself is not tested.
func Find(tree *model.Tree, start model.Path, q Query) ([]Result, error) {
	folder, err := tree.Resolve(start)
	if err != nil {
		return nil, err
	}
	var results []Result
	find(tree, folder, start.Clone(), newMatcher(q), &results)
	return results, nil
}

func find(tree *model.Tree, folder *model.Folder, path model.Path, m *matcher, results *[]Result) {
	for i, sub := range folder.Folders {
		subPath := path.Child(i)
		if m.folder(sub) {
			*results = append(*results, Result{
				Folder:      sub,
				Path:        subPath,
				PathDisplay: tree.DisplayPath(subPath),
			})
		}
		find(tree, sub, subPath, m, results)
	}

	for i, e := range folder.Entries {
		if m.entry(e) {
			*results = append(*results, Result{
				Entry:       e,
				Path:        path,
				EntryIndex:  i,
				PathDisplay: tree.DisplayPath(path),
			})
		}
	}
}

// Arrange splits raw results by kind and orders each with the sort engine's
// comparators. Tree order is kept among equal-ranked results.
func Arrange(q Query, raw []Result, mode sorting.Mode) Results {
	out := Results{Query: q, Folders: []Result{}, Entries: []Result{}}
	for _, r := range raw {
		if r.IsFolder() {
			out.Folders = append(out.Folders, r)
		} else {
			out.Entries = append(out.Entries, r)
		}
	}

	if compare := sorting.FolderCompare(mode); compare != nil {
		slices.SortStableFunc(out.Folders, func(a, b Result) int { return compare(a.Folder, b.Folder) })
	}
	if compare := sorting.EntryCompare(mode); compare != nil {
		slices.SortStableFunc(out.Entries, func(a, b Result) int { return compare(a.Entry, b.Entry) })
	}
	return out
}

// Run parses text, searches from start and arranges the results.
func Run(tree *model.Tree, start model.Path, text string, mode sorting.Mode) (Results, error) {
	q, err := ParseQuery(text)
	if err != nil {
		return Results{}, err
	}
	raw, err := Find(tree, start, q)
	if err != nil {
		return Results{}, err
	}
	return Arrange(q, raw, mode), nil
}
