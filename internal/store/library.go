package store

import (
	"fmt"

	"github.com/hyperjump/vecstore/internal/models"
	"go.uber.org/zap"
)

// CreateLibrary stores a copy of lib and builds its index.
// Fails with ErrDuplicateLibrary if the id is taken, or a validation error if lib is malformed
// or its chunks disagree on embedding dimension.
func (s *Store) CreateLibrary(lib models.Library) (*models.Library, error) {
	if err := lib.Validate(); err != nil {
		return nil, validationError(err)
	}
	if err := checkDimensions(0, allChunks(lib.Documents)...); err != nil {
		return nil, fmt.Errorf("library %s: %w", lib.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.libraries[lib.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateLibrary, lib.ID)
	}
	stored := lib.Clone()
	s.libraries[lib.ID] = &stored
	s.rebuildLocked(lib.ID)

	s.logger.Debug("store library created", zap.String("library", lib.ID), zap.Int("documents", len(lib.Documents)))
	out := stored.Clone()
	return &out, nil
}

// GetLibrary returns a copy of the library.
func (s *Store) GetLibrary(libraryID string) (*models.Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, err := s.libraryLocked(libraryID)
	if err != nil {
		return nil, err
	}
	out := lib.Clone()
	return &out, nil
}

// ListLibraries returns copies of all libraries ordered by id.
func (s *Store) ListLibraries() []*models.Library {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Library, 0, len(s.libraries))
	for _, id := range sortedLibraryIDs(s.libraries) {
		lib := s.libraries[id].Clone()
		out = append(out, &lib)
	}
	return out
}

// LibraryExists reports whether a library with the id is stored.
func (s *Store) LibraryExists(libraryID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.libraries[libraryID]
	return ok
}

// UpdateLibrary replaces the stored library with the same id and rebuilds its index.
// A missing library reports ErrLibraryNotFound before the payload is validated.
func (s *Store) UpdateLibrary(lib models.Library) (*models.Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.libraryLocked(lib.ID); err != nil {
		return nil, err
	}
	if err := lib.Validate(); err != nil {
		return nil, validationError(err)
	}
	if err := checkDimensions(0, allChunks(lib.Documents)...); err != nil {
		return nil, fmt.Errorf("library %s: %w", lib.ID, err)
	}
	stored := lib.Clone()
	s.libraries[lib.ID] = &stored
	s.rebuildLocked(lib.ID)

	s.logger.Debug("store library updated", zap.String("library", lib.ID))
	out := stored.Clone()
	return &out, nil
}

// DeleteLibrary removes the library together with its indexes.
func (s *Store) DeleteLibrary(libraryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.libraryLocked(libraryID); err != nil {
		return err
	}
	delete(s.libraries, libraryID)
	delete(s.indexes, libraryID)
	s.dropTextLocked(libraryID)

	s.logger.Debug("store library deleted", zap.String("library", libraryID))
	return nil
}
