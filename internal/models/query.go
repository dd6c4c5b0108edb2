package models

import "fmt"

// SearchQuery is a kNN request against one library. Exactly one of QueryVector or
// QueryText is expected; QueryText is embedded by the caller before reaching the store.
type SearchQuery struct {
	QueryVector []float32 `json:"query_vector,omitempty"`
	QueryText   string    `json:"query_text,omitempty"`
	K           int       `json:"k"`
}

// Validate ensures the query has something to search with and resolves K.
// An omitted K becomes defaultK. A negative K or one above maxK is an error.
func (q *SearchQuery) Validate(defaultK, maxK int) error {
	if len(q.QueryVector) == 0 && q.QueryText == "" {
		return fmt.Errorf("query_vector or query_text is required")
	}
	k, err := resolveK(q.K, defaultK, maxK)
	if err != nil {
		return err
	}
	q.K = k
	return nil
}

// TextQuery is a keyword search request against one library's chunk text.
type TextQuery struct {
	Query string `json:"query"`
	K     int    `json:"k"`
	// Fuzzy matches terms within Fuzziness edits (default 2).
	Fuzzy     bool `json:"fuzzy,omitempty"`
	Fuzziness int  `json:"fuzziness,omitempty"`
}

// Validate ensures the query is non-empty and resolves K the same way as SearchQuery.
func (q *TextQuery) Validate(defaultK, maxK int) error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.Fuzziness < 0 || q.Fuzziness > 2 {
		return fmt.Errorf("fuzziness must be between 0 and 2")
	}
	k, err := resolveK(q.K, defaultK, maxK)
	if err != nil {
		return err
	}
	q.K = k
	return nil
}

// HybridQuery fuses keyword and vector search over one library. QueryText drives the keyword
// side and, when QueryVector is empty, is embedded for the vector side.
type HybridQuery struct {
	QueryText      string    `json:"query_text"`
	QueryVector    []float32 `json:"query_vector,omitempty"`
	K              int       `json:"k"`
	KeywordWeight  float64   `json:"keyword_weight"`
	SemanticWeight float64   `json:"semantic_weight"`
}

// Validate resolves K like SearchQuery and fills both weights from the defaults
// when neither is set.
func (q *HybridQuery) Validate(defaultK, maxK int, defaultKeywordWeight, defaultSemanticWeight float64) error {
	if q.QueryText == "" {
		return fmt.Errorf("query_text cannot be empty")
	}
	if q.KeywordWeight < 0 || q.SemanticWeight < 0 {
		return fmt.Errorf("weights must not be negative")
	}
	if q.KeywordWeight == 0 && q.SemanticWeight == 0 {
		q.KeywordWeight, q.SemanticWeight = defaultKeywordWeight, defaultSemanticWeight
	}
	k, err := resolveK(q.K, defaultK, maxK)
	if err != nil {
		return err
	}
	q.K = k
	return nil
}

// resolveK applies the default to an omitted k. Requests above maxK are refused rather than
// trimmed so a response never holds fewer hits than asked for while more exist.
func resolveK(k, defaultK, maxK int) (int, error) {
	if k < 0 {
		return 0, fmt.Errorf("k must be a positive integer")
	}
	if k == 0 {
		k = defaultK
	}
	if maxK > 0 && k > maxK {
		return 0, fmt.Errorf("k must not exceed %d, got %d", maxK, k)
	}
	return k, nil
}
