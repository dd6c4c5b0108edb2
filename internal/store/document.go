package store

import (
	"fmt"

	"github.com/hyperjump/vecstore/internal/models"
	"go.uber.org/zap"
)

// AddDocument appends a copy of doc to the library and rebuilds its index.
func (s *Store) AddDocument(libraryID string, doc models.Document) (*models.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, validationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lib, err := s.libraryLocked(libraryID)
	if err != nil {
		return nil, err
	}
	for i := range lib.Documents {
		if lib.Documents[i].ID == doc.ID {
			return nil, fmt.Errorf("%w: %s in library %s", ErrDuplicateDocument, doc.ID, libraryID)
		}
	}
	if err := checkDimensions(lib.Dimension(), doc.Chunks...); err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	lib.Documents = append(lib.Documents, doc.Clone())
	s.rebuildLocked(libraryID)

	s.logger.Debug("store document added",
		zap.String("library", libraryID),
		zap.String("document", doc.ID),
		zap.Int("chunks", len(doc.Chunks)))
	out := doc.Clone()
	return &out, nil
}

// GetDocument returns a copy of the document.
func (s *Store) GetDocument(libraryID, documentID string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, di, err := s.documentLocked(libraryID, documentID)
	if err != nil {
		return nil, err
	}
	out := lib.Documents[di].Clone()
	return &out, nil
}

// UpdateDocument replaces the document at documentID, keeping its position in the library.
// A missing library or document reports not found before the payload is checked.
// An empty doc.ID takes documentID; any other disagreement fails with ErrIDMismatch.
func (s *Store) UpdateDocument(libraryID, documentID string, doc models.Document) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, di, err := s.documentLocked(libraryID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.ID == "" {
		doc.ID = documentID
	}
	if doc.ID != documentID {
		return nil, fmt.Errorf("%w: document %s != %s", ErrIDMismatch, doc.ID, documentID)
	}
	if err := doc.Validate(); err != nil {
		return nil, validationError(err)
	}
	if err := checkDimensions(expectedDimension(lib, di, -1), doc.Chunks...); err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	lib.Documents[di] = doc.Clone()
	s.rebuildLocked(libraryID)

	s.logger.Debug("store document updated", zap.String("library", libraryID), zap.String("document", documentID))
	out := doc.Clone()
	return &out, nil
}

// DeleteDocument removes the document and all its chunks.
func (s *Store) DeleteDocument(libraryID, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, di, err := s.documentLocked(libraryID, documentID)
	if err != nil {
		return err
	}
	lib.Documents = append(lib.Documents[:di], lib.Documents[di+1:]...)
	s.rebuildLocked(libraryID)

	s.logger.Debug("store document deleted", zap.String("library", libraryID), zap.String("document", documentID))
	return nil
}
