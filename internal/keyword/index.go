// Package keyword provides BM25 text search over chunk text using an in-memory Bleve index.
package keyword

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
)

const textField = "text"

// Entry is one chunk to index. Position is its place in the library's flattened
// (document order, chunk order) chunk list and is what search results refer to.
type Entry struct {
	Position   int
	DocumentID string
	ChunkID    string
	Text       string
}

// Result is a single keyword search hit.
type Result struct {
	Position int
	Score    float64
}

// SearchOptions optional parameters for keyword search. Nil means use defaults.
type SearchOptions struct {
	// FuzzyEnabled matches terms within Fuzziness edits for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum Levenshtein edit distance (1 or 2). Default 2.
	Fuzziness int
}

// ChunkIndex is an immutable keyword index over a snapshot of a library's chunks.
// It is replaced wholesale whenever the library changes.
type ChunkIndex struct {
	index bleve.Index
	size  int
}

func newMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so queries match the exact word.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(textField, textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	keywordFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("document_id", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("chunk_id", keywordFieldMapping)

	im.AddDocumentMapping("chunk", docMapping)
	im.DefaultType = "chunk"
	im.DefaultMapping = docMapping
	return im
}

// NewChunkIndex builds an in-memory index over entries in one batch.
func NewChunkIndex(entries []Entry) (*ChunkIndex, error) {
	index, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}

	batch := index.NewBatch()
	for _, e := range entries {
		doc := map[string]interface{}{
			textField:     e.Text,
			"document_id": e.DocumentID,
			"chunk_id":    e.ChunkID,
		}
		if err := batch.Index(strconv.Itoa(e.Position), doc); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index chunk %s/%s: %w", e.DocumentID, e.ChunkID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to apply Bleve batch: %w", err)
	}
	return &ChunkIndex{index: index, size: len(entries)}, nil
}

// Search runs a match (or fuzzy) query over chunk text and returns up to limit hits by descending score.
func (c *ChunkIndex) Search(query string, limit int, opts *SearchOptions) ([]Result, error) {
	if limit <= 0 || strings.TrimSpace(query) == "" {
		return []Result{}, nil
	}

	var q blevequery.Query
	if opts != nil && opts.FuzzyEnabled {
		fuzziness := 2
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
		q = buildFuzzyQuery(query, fuzziness)
	} else {
		mq := bleve.NewMatchQuery(query)
		mq.SetField(textField)
		q = mq
	}

	req := bleve.NewSearchRequest(q)
	req.Size = limit
	results, err := c.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}

	out := make([]Result, 0, len(results.Hits))
	for _, hit := range results.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil {
			return nil, fmt.Errorf("unexpected hit id %q: %w", hit.ID, err)
		}
		out = append(out, Result{Position: pos, Score: hit.Score})
	}
	return out, nil
}

// buildFuzzyQuery ORs one FuzzyQuery per query term.
func buildFuzzyQuery(query string, fuzziness int) blevequery.Query {
	terms := tokenizeQuery(query)
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField(textField)
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// tokenizeQuery splits query into lowercase terms.
func tokenizeQuery(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Size returns the number of indexed chunks.
func (c *ChunkIndex) Size() int {
	return c.size
}

// Close releases the Bleve index.
func (c *ChunkIndex) Close() error {
	return c.index.Close()
}
