// Package cli renders vecstore API responses for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hyperjump/vecstore/internal/models"
	"github.com/hyperjump/vecstore/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one line per result.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const snippetLen = 200

// ParseOutputFormat maps a flag value to an OutputFormat. Empty means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", OutputText:
		return OutputText, nil
	case OutputCompact, OutputJSON:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, compact, or json)", s)
}

// WriteSearchResults writes a search response to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		for _, r := range response.Results {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Rank, r.DocumentID, r.Chunk.ID,
				resultScore(r, response.IndexType), utils.Truncate(utils.OneLine(r.Chunk.Text), 80))
		}
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms (library %s, index %s, k=%d)\n\n",
		response.Total, response.QueryTime, response.LibraryID, response.IndexType, response.K)
	if response.Total == 0 && response.Suggestion != "" {
		fmt.Fprintf(w, "Did you mean: %s\n\n", response.Suggestion)
	}
	for _, r := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | %s\n", r.Rank, resultScore(r, response.IndexType))
		fmt.Fprintf(w, "Document: %s  Chunk: %s\n", r.DocumentID, r.Chunk.ID)
		if r.Highlight != "" {
			fmt.Fprintf(w, "\n%s\n", utils.OneLine(r.Highlight))
		} else if r.Chunk.Text != "" {
			fmt.Fprintf(w, "\n%s\n", utils.Truncate(r.Chunk.Text, snippetLen))
		}
		fmt.Fprintln(w)
	}
}

func resultScore(r *models.SearchResult, indexType string) string {
	switch {
	case indexType == "keyword":
		return fmt.Sprintf("Score: %.4f", r.Score)
	case strings.HasPrefix(indexType, "hybrid"):
		return fmt.Sprintf("Score: %.4f (Keyword: %.4f, Semantic: %.4f)", r.Score, r.KeywordScore, r.SemanticScore)
	}
	return fmt.Sprintf("Distance: %.4f", r.Distance)
}

// WriteLibraries writes a library listing. Text output is one library per line with counts.
func WriteLibraries(w io.Writer, libs []models.Library, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, libs)
	}
	if len(libs) == 0 {
		fmt.Fprintln(w, "No libraries.")
		return nil
	}
	for i := range libs {
		fmt.Fprintf(w, "%s\t%s\tdocuments=%d chunks=%d dim=%d\n", libs[i].ID, libs[i].Name,
			len(libs[i].Documents), libs[i].ChunkCount(), libs[i].Dimension())
	}
	return nil
}

// WriteStatus writes the /status payload as sorted key/value lines, or as JSON.
func WriteStatus(w io.Writer, status map[string]interface{}, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	writeKV(w, "", status)
	return nil
}

func writeKV(w io.Writer, indent string, m map[string]interface{}) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if nested, ok := m[k].(map[string]interface{}); ok {
			fmt.Fprintf(w, "%s%s:\n", indent, k)
			writeKV(w, indent+"  ", nested)
			continue
		}
		fmt.Fprintf(w, "%s%s: %v\n", indent, k, m[k])
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
