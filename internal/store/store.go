// Package store keeps libraries of documents and chunks in memory together with one
// nearest-neighbor index per library.
//
// All access goes through a single mutex. Every mutation rebuilds the affected library's
// index before the lock is released, so a search never observes a stale index.
// Exported methods take the lock exactly once; helpers with a Locked suffix assume it is held.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hyperjump/vecstore/internal/keyword"
	"github.com/hyperjump/vecstore/internal/models"
	"github.com/hyperjump/vecstore/internal/vector"
	"go.uber.org/zap"
)

// Store owns all libraries and their indexes.
type Store struct {
	mu sync.Mutex

	indexType      vector.IndexType
	keywordEnabled bool
	logger         *zap.Logger

	libraries   map[string]*models.Library
	indexes     map[string]vector.SpatialIndex
	textIndexes map[string]*keyword.ChunkIndex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a logger for debug output (rebuilds, mutations) and keyword index warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithKeywordIndex enables or disables the per-library keyword index used by TextSearch.
func WithKeywordIndex(enabled bool) Option {
	return func(s *Store) { s.keywordEnabled = enabled }
}

// New creates an empty store whose libraries are indexed with indexType.
func New(indexType vector.IndexType, opts ...Option) (*Store, error) {
	if _, err := vector.NewSpatialIndex(indexType); err != nil {
		return nil, err
	}
	s := &Store{
		indexType:   indexType,
		logger:      zap.NewNop(),
		libraries:   make(map[string]*models.Library),
		indexes:     make(map[string]vector.SpatialIndex),
		textIndexes: make(map[string]*keyword.ChunkIndex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IndexType returns the index algorithm used for every library.
func (s *Store) IndexType() vector.IndexType {
	return s.indexType
}

// Stats summarizes store contents.
type Stats struct {
	Libraries      int              `json:"libraries"`
	Documents      int              `json:"documents"`
	Chunks         int              `json:"chunks"`
	IndexedVectors int              `json:"indexed_vectors"`
	IndexType      vector.IndexType `json:"index_type"`
	KeywordEnabled bool             `json:"keyword_enabled"`
}

// Stats returns counts across all libraries.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Libraries:      len(s.libraries),
		IndexType:      s.indexType,
		KeywordEnabled: s.keywordEnabled,
	}
	for _, lib := range s.libraries {
		st.Documents += len(lib.Documents)
		st.Chunks += lib.ChunkCount()
	}
	for _, idx := range s.indexes {
		st.IndexedVectors += idx.Size()
	}
	return st
}

// Close releases keyword indexes. The store must not be used afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for id, ti := range s.textIndexes {
		if err := ti.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close keyword index for library %s: %w", id, err)
		}
		delete(s.textIndexes, id)
	}
	return firstErr
}

// chunkRef addresses one chunk in a library's flattened chunk list.
type chunkRef struct {
	documentID string
	chunk      *models.Chunk
}

// flattenLocked lists chunks in (document order, chunk order). The refs point into stored
// state and must not escape the lock.
func flattenLocked(lib *models.Library) []chunkRef {
	refs := make([]chunkRef, 0, lib.ChunkCount())
	for i := range lib.Documents {
		doc := &lib.Documents[i]
		for j := range doc.Chunks {
			refs = append(refs, chunkRef{documentID: doc.ID, chunk: &doc.Chunks[j]})
		}
	}
	return refs
}

// rebuildLocked replaces the library's vector index, and its keyword index when enabled,
// with ones built from the current chunks.
func (s *Store) rebuildLocked(libraryID string) {
	lib := s.libraries[libraryID]
	refs := flattenLocked(lib)

	vectors := make([][]float32, len(refs))
	for i, ref := range refs {
		vectors[i] = ref.chunk.Embedding
	}
	// Type was validated in New.
	idx, _ := vector.NewSpatialIndex(s.indexType)
	idx.Build(vectors)
	s.indexes[libraryID] = idx

	s.logger.Debug("store index rebuilt",
		zap.String("library", libraryID),
		zap.Int("vectors", len(vectors)),
		zap.String("index", string(s.indexType)))

	if s.keywordEnabled {
		s.rebuildTextLocked(libraryID, refs)
	}
}

// rebuildTextLocked replaces the keyword index. On failure the library is left without one;
// TextSearch builds it again on demand.
func (s *Store) rebuildTextLocked(libraryID string, refs []chunkRef) *keyword.ChunkIndex {
	s.dropTextLocked(libraryID)

	entries := make([]keyword.Entry, len(refs))
	for i, ref := range refs {
		entries[i] = keyword.Entry{Position: i, DocumentID: ref.documentID, ChunkID: ref.chunk.ID, Text: ref.chunk.Text}
	}
	ti, err := keyword.NewChunkIndex(entries)
	if err != nil {
		s.logger.Warn("store keyword index rebuild failed", zap.String("library", libraryID), zap.Error(err))
		return nil
	}
	s.textIndexes[libraryID] = ti
	return ti
}

func (s *Store) dropTextLocked(libraryID string) {
	if old, ok := s.textIndexes[libraryID]; ok {
		if err := old.Close(); err != nil {
			s.logger.Warn("store keyword index close failed", zap.String("library", libraryID), zap.Error(err))
		}
		delete(s.textIndexes, libraryID)
	}
}

func (s *Store) libraryLocked(libraryID string) (*models.Library, error) {
	lib, ok := s.libraries[libraryID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLibraryNotFound, libraryID)
	}
	return lib, nil
}

// documentLocked returns the library and the position of the document within it.
func (s *Store) documentLocked(libraryID, documentID string) (*models.Library, int, error) {
	lib, err := s.libraryLocked(libraryID)
	if err != nil {
		return nil, -1, err
	}
	for i := range lib.Documents {
		if lib.Documents[i].ID == documentID {
			return lib, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: %s in library %s", ErrDocumentNotFound, documentID, libraryID)
}

// chunkLocked returns the owning document and the position of the chunk within it.
func (s *Store) chunkLocked(libraryID, documentID, chunkID string) (*models.Document, int, error) {
	lib, di, err := s.documentLocked(libraryID, documentID)
	if err != nil {
		return nil, -1, err
	}
	doc := &lib.Documents[di]
	for i := range doc.Chunks {
		if doc.Chunks[i].ID == chunkID {
			return doc, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: %s in document %s", ErrChunkNotFound, chunkID, documentID)
}

// expectedDimension returns the embedding length shared by the library's chunks, ignoring
// the document at skipDoc (when skipChunk < 0) or only the chunk at (skipDoc, skipChunk).
// 0 means no constraint.
func expectedDimension(lib *models.Library, skipDoc, skipChunk int) int {
	for i := range lib.Documents {
		if i == skipDoc && skipChunk < 0 {
			continue
		}
		for j := range lib.Documents[i].Chunks {
			if i == skipDoc && j == skipChunk {
				continue
			}
			return len(lib.Documents[i].Chunks[j].Embedding)
		}
	}
	return 0
}

// checkDimensions verifies that every chunk has the expected embedding length. With
// expected 0 the first chunk sets it.
func checkDimensions(expected int, chunks ...models.Chunk) error {
	for i := range chunks {
		n := len(chunks[i].Embedding)
		if expected == 0 {
			expected = n
			continue
		}
		if n != expected {
			return &DimensionMismatchError{Expected: expected, Actual: n}
		}
	}
	return nil
}

func allChunks(docs []models.Document) []models.Chunk {
	var out []models.Chunk
	for i := range docs {
		out = append(out, docs[i].Chunks...)
	}
	return out
}

func sortedLibraryIDs(m map[string]*models.Library) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
