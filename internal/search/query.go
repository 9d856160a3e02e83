package search

import (
	"fmt"
	"strings"

	"github.com/nikbrunner/shelf/internal/model"
)

// Keyword restricts a clause to one field and, for some keywords, one item kind.
type Keyword string

const (
	General Keyword = ""      // name, any tag, or (entries) any link
	Name    Keyword = "name"  // folder or entry name
	FName   Keyword = "fname" // folder name
	EName   Keyword = "ename" // entry name
	Link    Keyword = "link"  // entry links
	Tag     Keyword = "tag"   // folder or entry tags
	FTag    Keyword = "ftag"  // folder tags
	ETag    Keyword = "etag"  // entry tags
)

// Clause is a single search predicate. Term is stored lower-cased.
type Clause struct {
	Keyword Keyword
	Term    string
}

func (c Clause) String() string {
	if c.Keyword == General {
		return c.Term
	}
	return fmt.Sprintf(".%s %s", c.Keyword, c.Term)
}

// Query is a conjunction of clauses: an item matches when every clause does.
type Query struct {
	Raw     string
	Clauses []Clause
}

// ParseQuery turns free text into a Query.
//
// Input containing both a "." and a space is read as semicolon separated
// clauses, where ".keyword term" binds a keyword and anything else is a
// general term. Otherwise the whole input is one general term. Keyword clauses
// without a term are dropped. Unknown keywords are kept and match nothing.
func ParseQuery(text string) (Query, error) {
	text = strings.TrimSpace(text)
	q := Query{Raw: text}
	if text == "" {
		return q, fmt.Errorf("search query: %w", model.ErrEmptyInput)
	}

	if !strings.Contains(text, ".") || !strings.Contains(text, " ") {
		q.Clauses = []Clause{{Keyword: General, Term: strings.ToLower(text)}}
		return q, nil
	}

	for _, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			q.Clauses = append(q.Clauses, Clause{Keyword: General, Term: strings.ToLower(part)})
			continue
		}
		space := strings.Index(part, " ")
		if space <= 0 {
			continue
		}
		term := strings.TrimSpace(part[space+1:])
		if term == "" {
			continue
		}
		q.Clauses = append(q.Clauses, Clause{
			Keyword: Keyword(strings.ToLower(part[1:space])),
			Term:    strings.ToLower(term),
		})
	}

	if len(q.Clauses) == 0 {
		return q, fmt.Errorf("search query %q has no terms: %w", text, model.ErrEmptyInput)
	}
	return q, nil
}
