package exporter

import (
	"encoding/json"
	"io"

	"github.com/nikbrunner/shelf/internal/model"
)

// ExportJSON writes tree as an indented JSON document in the same shape the
// JSON storage uses, so it can be loaded as a profile.
func ExportJSON(w io.Writer, tree *model.Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(tree)
}
