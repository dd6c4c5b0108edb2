package store

import (
	"testing"

	"github.com/hyperjump/vecstore/internal/keyword"
	"github.com/hyperjump/vecstore/internal/models"
	"github.com/hyperjump/vecstore/internal/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedText(t *testing.T, s *Store) {
	t.Helper()
	_, err := s.CreateLibrary(models.Library{ID: "T"})
	require.NoError(t, err)
	_, err = s.AddDocument("T", models.Document{ID: "D1", Chunks: []models.Chunk{
		{ID: "a", Text: "kd trees split on one axis per level", Embedding: []float32{1, 0}},
		{ID: "b", Text: "ball trees nest bounding spheres", Embedding: []float32{0, 1}},
	}})
	require.NoError(t, err)
}

func TestTextSearch(t *testing.T) {
	s := newTestStore(t, vector.IndexTypeKDTree)
	seedText(t, s)

	got, err := s.TextSearch("T", "spheres", 5, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Chunk.ID)
	assert.Equal(t, "D1", got[0].DocumentID)
	assert.Greater(t, got[0].Score, 0.0)
	assert.Equal(t, 1, got[0].Rank)

	// Text search follows mutations.
	_, err = s.AddChunk("T", "D1", models.Chunk{ID: "c", Text: "spheres everywhere spheres", Embedding: []float32{1, 1}})
	require.NoError(t, err)
	got, err = s.TextSearch("T", "spheres", 5, nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, s.DeleteChunk("T", "D1", "b"))
	got, err = s.TextSearch("T", "bounding", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.TextSearch("T", "treez", 5, &keyword.SearchOptions{FuzzyEnabled: true, Fuzziness: 1})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "a", got[0].Chunk.ID)
}

func TestTextSearch_Errors(t *testing.T) {
	s := newTestStore(t, vector.IndexTypeKDTree)
	seedText(t, s)

	_, err := s.TextSearch("missing", "x", 5, nil)
	assert.ErrorIs(t, err, ErrLibraryNotFound)
	_, err = s.TextSearch("T", "x", 0, nil)
	assert.ErrorIs(t, err, ErrInvalidK)

	off, err := New(vector.IndexTypeKDTree)
	require.NoError(t, err)
	_, err = off.CreateLibrary(models.Library{ID: "T"})
	require.NoError(t, err)
	_, err = off.TextSearch("T", "x", 5, nil)
	assert.ErrorIs(t, err, ErrKeywordDisabled)
}

func TestTextSearch_RebuildsMissingIndex(t *testing.T) {
	s := newTestStore(t, vector.IndexTypeKDTree)
	seedText(t, s)

	s.mu.Lock()
	s.dropTextLocked("T")
	s.mu.Unlock()

	got, err := s.TextSearch("T", "axis", 5, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Chunk.ID)
}

func TestSuggestQuery(t *testing.T) {
	s := newTestStore(t, vector.IndexTypeKDTree)
	seedText(t, s)

	got, ok, err := s.SuggestQuery("T", "bounding spheers")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bounding spheres", got)

	_, ok, err = s.SuggestQuery("T", "spheres")
	require.NoError(t, err)
	assert.False(t, ok)
}
