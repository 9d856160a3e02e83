package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/shelf/internal/model"
)

// FuzzyResult is a fuzzy match on an entry name anywhere in the tree.
type FuzzyResult struct {
	Result
	MatchedIndexes []int
	Score          int
}

// entryNames implements fuzzy.Source over a flattened result list.
type entryNames []Result

func (en entryNames) String(i int) string {
	return en[i].Entry.Name
}

func (en entryNames) Len() int {
	return len(en)
}

// FuzzyEntries matches query against every entry name in the tree.
// Results are sorted by match score, best first.
func FuzzyEntries(tree *model.Tree, query string) []FuzzyResult {
	if query == "" {
		return nil
	}

	var entries entryNames
	tree.Walk(func(p model.Path, f *model.Folder) bool {
		for i, e := range f.Entries {
			entries = append(entries, Result{
				Entry:       e,
				Path:        p,
				EntryIndex:  i,
				PathDisplay: tree.DisplayPath(p),
			})
		}
		return true
	})

	matches := fuzzy.FindFrom(query, entries)

	results := make([]FuzzyResult, len(matches))
	for i, m := range matches {
		results[i] = FuzzyResult{
			Result:         entries[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}
