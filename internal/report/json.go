package report

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/gnolang/assertnarrow/internal/narrow"
	"github.com/gnolang/assertnarrow/internal/scenario"
)

// IssuesJSON writes issues as a JSON object keyed by filename.
func IssuesJSON(w io.Writer, issues []scenario.Issue) error {
	byFile, _ := GroupByFile(issues)
	return writeJSON(w, byFile)
}

// ResultJSON writes one evaluated call as JSON.
func ResultJSON(w io.Writer, res scenario.Result) error {
	return writeJSON(w, res)
}

// CatalogJSON writes the predicates as a JSON array.
func CatalogJSON(w io.Writer, c *narrow.Catalog) error {
	return writeJSON(w, catalogEntries(c))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
