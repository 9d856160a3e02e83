package search_test

import (
	"errors"
	"testing"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/search"
	"github.com/nikbrunner/shelf/internal/sorting"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func folder(t *testing.T, name string, tags ...string) *model.Folder {
	t.Helper()
	f, err := model.NewFolder(model.NewFolderParams{Name: name, Tags: tags})
	assert.NilError(t, err)
	return f
}

func entry(t *testing.T, name string, tags []string, links ...string) *model.Entry {
	t.Helper()
	e, err := model.NewEntry(model.NewEntryParams{Name: name, Tags: tags, Links: links})
	assert.NilError(t, err)
	return e
}

// testTree builds:
//
//	Root
//	├── Foo Projects [bar]
//	│   ├── nested foo
//	│   └── entry: Foo Docs [bar] https://docs.example.com
//	├── Reading
//	└── entry: foo only https://foo.example.com
func testTree(t *testing.T) *model.Tree {
	t.Helper()
	tree := model.NewTree()

	projects := folder(t, "Foo Projects", "bar")
	projects.AddFolder(folder(t, "nested foo"))
	projects.AddEntry(entry(t, "Foo Docs", []string{"bar"}, "https://docs.example.com"))
	tree.Root.AddFolder(projects)
	tree.Root.AddFolder(folder(t, "Reading"))
	tree.Root.AddEntry(entry(t, "foo only", nil, "https://foo.example.com"))
	return tree
}

func names(results []search.Result) []string {
	var out []string
	for _, r := range results {
		out = append(out, r.Name())
	}
	return out
}

func TestParseQuery_GrammarSelection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []search.Clause
	}{
		{
			name:  "plain words stay one general term",
			input: "foo bar",
			want:  []search.Clause{{Keyword: search.General, Term: "foo bar"}},
		},
		{
			name:  "period without space is one general term",
			input: "example.com",
			want:  []search.Clause{{Keyword: search.General, Term: "example.com"}},
		},
		{
			name:  "keyword clauses",
			input: ".name Foo; .tag BAR",
			want: []search.Clause{
				{Keyword: search.Name, Term: "foo"},
				{Keyword: search.Tag, Term: "bar"},
			},
		},
		{
			name:  "mixed general and keyword",
			input: "docs; .link example",
			want: []search.Clause{
				{Keyword: search.General, Term: "docs"},
				{Keyword: search.Link, Term: "example"},
			},
		},
		{
			name:  "prose with a period is read as keyword syntax",
			input: "my.site search",
			want:  []search.Clause{{Keyword: search.General, Term: "my.site search"}},
		},
		{
			name:  "keyword without term is dropped",
			input: ".name; .etag x y",
			want:  []search.Clause{{Keyword: search.ETag, Term: "x y"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := search.ParseQuery(tt.input)
			assert.NilError(t, err)
			assert.DeepEqual(t, q.Clauses, tt.want)
		})
	}
}

func TestParseQuery_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", ".name ; ;"} {
		_, err := search.ParseQuery(input)
		assert.Check(t, errors.Is(err, model.ErrEmptyInput), "input %q", input)
	}
}

func TestFind_AndSemantics(t *testing.T) {
	tree := testTree(t)
	q, err := search.ParseQuery(".name foo; .tag bar")
	assert.NilError(t, err)

	results, err := search.Find(tree, model.Path{}, q)
	assert.NilError(t, err)

	// "nested foo" and "foo only" match the name clause but have no "bar" tag.
	assert.DeepEqual(t, names(results), []string{"Foo Projects", "Foo Docs"})
}

func TestFind_PreOrderWithPaths(t *testing.T) {
	tree := testTree(t)
	q, err := search.ParseQuery("foo")
	assert.NilError(t, err)

	results, err := search.Find(tree, model.Path{}, q)
	assert.NilError(t, err)
	assert.DeepEqual(t, names(results), []string{"Foo Projects", "nested foo", "Foo Docs", "foo only"})

	assert.Check(t, results[0].IsFolder())
	assert.Check(t, results[0].Path.Equal(model.Path{0}))
	assert.Check(t, results[1].Path.Equal(model.Path{0, 0}))
	assert.Equal(t, results[1].PathDisplay, "Root / Foo Projects / nested foo")

	// Entries carry the containing folder's path and their index in it.
	assert.Check(t, !results[2].IsFolder())
	assert.Check(t, results[2].Path.Equal(model.Path{0}))
	assert.Equal(t, results[2].EntryIndex, 0)
	assert.Equal(t, results[2].PathDisplay, "Root / Foo Projects")
	assert.Check(t, results[3].Path.IsRoot())
}

func TestFind_StartFolderNotTested(t *testing.T) {
	tree := testTree(t)
	q, err := search.ParseQuery("foo")
	assert.NilError(t, err)

	results, err := search.Find(tree, model.Path{0}, q)
	assert.NilError(t, err)
	assert.DeepEqual(t, names(results), []string{"nested foo", "Foo Docs"})
}

func TestFind_KeywordKinds(t *testing.T) {
	tree := testTree(t)
	tests := []struct {
		query string
		want  []string
	}{
		{".fname foo", []string{"Foo Projects", "nested foo"}},
		{".ename foo", []string{"Foo Docs", "foo only"}},
		{".ftag bar", []string{"Foo Projects"}},
		{".etag bar", []string{"Foo Docs"}},
		{".link docs.example", []string{"Foo Docs"}},
		{".color foo", nil},
		{"example.com", []string{"Foo Docs", "foo only"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := search.ParseQuery(tt.query)
			assert.NilError(t, err)
			results, err := search.Find(tree, model.Path{}, q)
			assert.NilError(t, err)
			assert.DeepEqual(t, names(results), tt.want)
		})
	}
}

func TestFind_StalePath(t *testing.T) {
	tree := testTree(t)
	q, err := search.ParseQuery("foo")
	assert.NilError(t, err)

	_, err = search.Find(tree, model.Path{7}, q)
	assert.Check(t, errors.Is(err, model.ErrPathNotFound))
}

func TestRun_ArrangesByKind(t *testing.T) {
	tree := testTree(t)

	results, err := search.Run(tree, model.Path{}, "foo", sorting.NameAsc)
	assert.NilError(t, err)
	assert.Equal(t, results.Len(), 4)
	assert.DeepEqual(t, names(results.Folders), []string{"Foo Projects", "nested foo"})
	assert.DeepEqual(t, names(results.Entries), []string{"Foo Docs", "foo only"})

	results, err = search.Run(tree, model.Path{}, "foo", sorting.NameDesc)
	assert.NilError(t, err)
	assert.DeepEqual(t, names(results.Folders), []string{"nested foo", "Foo Projects"})
}

func TestRun_NoMatches(t *testing.T) {
	tree := testTree(t)

	results, err := search.Run(tree, model.Path{}, "zzz", sorting.NameAsc)
	assert.NilError(t, err)
	assert.Check(t, is.Len(results.Folders, 0))
	assert.Check(t, is.Len(results.Entries, 0))
}

func TestFuzzyEntries(t *testing.T) {
	tree := testTree(t)

	results := search.FuzzyEntries(tree, "fdocs")
	assert.Assert(t, is.Len(results, 1))
	assert.Equal(t, results[0].Entry.Name, "Foo Docs")
	assert.Equal(t, results[0].PathDisplay, "Root / Foo Projects")

	assert.Check(t, is.Len(search.FuzzyEntries(tree, ""), 0))
}
