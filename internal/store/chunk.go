package store

import (
	"fmt"

	"github.com/hyperjump/vecstore/internal/models"
	"go.uber.org/zap"
)

// AddChunk appends a copy of chunk to the document and rebuilds the library index.
func (s *Store) AddChunk(libraryID, documentID string, chunk models.Chunk) (*models.Chunk, error) {
	if err := chunk.Validate(); err != nil {
		return nil, validationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lib, di, err := s.documentLocked(libraryID, documentID)
	if err != nil {
		return nil, err
	}
	doc := &lib.Documents[di]
	for i := range doc.Chunks {
		if doc.Chunks[i].ID == chunk.ID {
			return nil, fmt.Errorf("%w: %s in document %s", ErrDuplicateChunk, chunk.ID, documentID)
		}
	}
	if err := checkDimensions(lib.Dimension(), chunk); err != nil {
		return nil, fmt.Errorf("chunk %s: %w", chunk.ID, err)
	}

	doc.Chunks = append(doc.Chunks, chunk.Clone())
	s.rebuildLocked(libraryID)

	s.logger.Debug("store chunk added",
		zap.String("library", libraryID),
		zap.String("document", documentID),
		zap.String("chunk", chunk.ID))
	out := chunk.Clone()
	return &out, nil
}

// GetChunk returns a copy of the chunk.
func (s *Store) GetChunk(libraryID, documentID, chunkID string) (*models.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ci, err := s.chunkLocked(libraryID, documentID, chunkID)
	if err != nil {
		return nil, err
	}
	out := doc.Chunks[ci].Clone()
	return &out, nil
}

// UpdateChunk replaces the chunk at chunkID in place. The target is resolved first, so a
// missing library, document or chunk always reports not found. An empty chunk.ID takes chunkID;
// any other disagreement fails with ErrIDMismatch and leaves the stored chunk untouched.
func (s *Store) UpdateChunk(libraryID, documentID, chunkID string, chunk models.Chunk) (*models.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, di, err := s.documentLocked(libraryID, documentID)
	if err != nil {
		return nil, err
	}
	doc, ci, err := s.chunkLocked(libraryID, documentID, chunkID)
	if err != nil {
		return nil, err
	}
	if chunk.ID == "" {
		chunk.ID = chunkID
	}
	if chunk.ID != chunkID {
		return nil, fmt.Errorf("%w: chunk %s != %s", ErrIDMismatch, chunk.ID, chunkID)
	}
	if err := chunk.Validate(); err != nil {
		return nil, validationError(err)
	}
	if err := checkDimensions(expectedDimension(lib, di, ci), chunk); err != nil {
		return nil, fmt.Errorf("chunk %s: %w", chunk.ID, err)
	}

	doc.Chunks[ci] = chunk.Clone()
	s.rebuildLocked(libraryID)

	s.logger.Debug("store chunk updated",
		zap.String("library", libraryID),
		zap.String("document", documentID),
		zap.String("chunk", chunkID))
	out := chunk.Clone()
	return &out, nil
}

// DeleteChunk removes the chunk from its document.
func (s *Store) DeleteChunk(libraryID, documentID, chunkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ci, err := s.chunkLocked(libraryID, documentID, chunkID)
	if err != nil {
		return err
	}
	doc.Chunks = append(doc.Chunks[:ci], doc.Chunks[ci+1:]...)
	s.rebuildLocked(libraryID)

	s.logger.Debug("store chunk deleted",
		zap.String("library", libraryID),
		zap.String("document", documentID),
		zap.String("chunk", chunkID))
	return nil
}
