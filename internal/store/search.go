package store

import (
	"fmt"

	"github.com/hyperjump/vecstore/internal/keyword"
	"github.com/hyperjump/vecstore/internal/models"
)

// KNNSearch returns the k chunks nearest to query by Euclidean distance, ascending.
// A library without chunks yields an empty result. The query must have the library's
// embedding dimension.
func (s *Store) KNNSearch(libraryID string, query []float32, k int) ([]models.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, err := s.libraryLocked(libraryID)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	refs := flattenLocked(lib)
	if len(refs) == 0 {
		return []models.SearchResult{}, nil
	}
	if dim := lib.Dimension(); len(query) != dim {
		return nil, &DimensionMismatchError{Expected: dim, Actual: len(query)}
	}

	idx, ok := s.indexes[libraryID]
	if !ok {
		s.rebuildLocked(libraryID)
		idx = s.indexes[libraryID]
	}

	neighbors := idx.Search(query, k)
	out := make([]models.SearchResult, 0, len(neighbors))
	for i, n := range neighbors {
		ref := refs[n.Position]
		out = append(out, models.SearchResult{
			Chunk:      ref.chunk.Clone(),
			DocumentID: ref.documentID,
			Distance:   n.Distance,
			Rank:       i + 1,
		})
	}
	return out, nil
}

// TextSearch returns up to k chunks matching query by keyword relevance, best first.
func (s *Store) TextSearch(libraryID, query string, k int, opts *keyword.SearchOptions) ([]models.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ti, refs, err := s.textIndexLocked(libraryID, k)
	if err != nil {
		return nil, err
	}
	hits, err := ti.Search(query, k, opts)
	if err != nil {
		return nil, fmt.Errorf("library %s: %w", libraryID, err)
	}

	out := make([]models.SearchResult, 0, len(hits))
	for i, h := range hits {
		ref := refs[h.Position]
		out = append(out, models.SearchResult{
			Chunk:      ref.chunk.Clone(),
			DocumentID: ref.documentID,
			Score:      h.Score,
			Rank:       i + 1,
		})
	}
	return out, nil
}

// SuggestQuery returns query with unknown terms replaced by the closest terms in the
// library's chunk text. ok is false when nothing was corrected.
func (s *Store) SuggestQuery(libraryID, query string) (suggestion string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ti, _, err := s.textIndexLocked(libraryID, 1)
	if err != nil {
		return "", false, err
	}
	return ti.Suggest(query)
}

// textIndexLocked resolves the library's keyword index, building it if a previous rebuild failed.
func (s *Store) textIndexLocked(libraryID string, k int) (*keyword.ChunkIndex, []chunkRef, error) {
	lib, err := s.libraryLocked(libraryID)
	if err != nil {
		return nil, nil, err
	}
	if k <= 0 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	if !s.keywordEnabled {
		return nil, nil, ErrKeywordDisabled
	}

	refs := flattenLocked(lib)
	ti, ok := s.textIndexes[libraryID]
	if !ok {
		if ti = s.rebuildTextLocked(libraryID, refs); ti == nil {
			return nil, nil, fmt.Errorf("library %s: keyword index unavailable", libraryID)
		}
	}
	return ti, refs, nil
}
