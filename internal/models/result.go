package models

// SearchResult is a single hit.
// Distance is the Euclidean distance for vector search; Score is the keyword relevance for text
// search and the fused score for hybrid search.
type SearchResult struct {
	Chunk      Chunk   `json:"chunk"`
	DocumentID string  `json:"document_id"`
	Distance   float64 `json:"distance"`
	Score      float64 `json:"score,omitempty"`
	Rank       int     `json:"rank"`

	// Hybrid components, each normalized to [0,1].
	KeywordScore  float64 `json:"keyword_score,omitempty"`
	SemanticScore float64 `json:"semantic_score,omitempty"`
	// Highlight is a snippet of the chunk text around the first query term.
	Highlight string `json:"highlight,omitempty"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	LibraryID string          `json:"library_id"`
	Query     string          `json:"query,omitempty"`
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	K         int             `json:"k"`
	IndexType string          `json:"index_type,omitempty"`
	// Suggestion is a corrected query offered when a text search finds nothing.
	Suggestion string `json:"suggestion,omitempty"`
}
