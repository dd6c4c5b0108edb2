package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hyperjump/vecstore/internal/models"
	"github.com/hyperjump/vecstore/internal/store"
	"go.uber.org/zap"
)

// documentRequest creates or replaces a document from explicit chunks or from raw text.
type documentRequest struct {
	ID       string                 `json:"id"`
	Chunks   []models.Chunk         `json:"chunks,omitempty"`
	Text     string                 `json:"text,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func (s *Server) handleCreateLibrary(w http.ResponseWriter, r *http.Request) {
	var lib models.Library
	if err := json.NewDecoder(r.Body).Decode(&lib); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if lib.ID == "" {
		lib.ID = uuid.New().String()
	}
	s.logger.Debug("create library request", zap.String("library", lib.ID))
	if err := s.prepareDocuments(r.Context(), lib.Documents); err != nil {
		s.respondStoreError(w, err)
		return
	}
	created, err := s.store.CreateLibrary(lib)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListLibraries(w http.ResponseWriter, r *http.Request) {
	libs := s.store.ListLibraries()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"libraries": libs, "total": len(libs)})
}

func (s *Server) handleGetLibrary(w http.ResponseWriter, r *http.Request) {
	lib, err := s.store.GetLibrary(chi.URLParam(r, "libraryID"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, lib)
}

func (s *Server) handleUpdateLibrary(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryID")
	var lib models.Library
	if err := json.NewDecoder(r.Body).Decode(&lib); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.store.LibraryExists(libraryID) {
		s.respondStoreError(w, fmt.Errorf("%w: %s", store.ErrLibraryNotFound, libraryID))
		return
	}
	if lib.ID == "" {
		lib.ID = libraryID
	}
	if lib.ID != libraryID {
		s.respondStoreError(w, fmt.Errorf("%w: library %s != %s", store.ErrIDMismatch, lib.ID, libraryID))
		return
	}
	s.logger.Debug("update library request", zap.String("library", libraryID))
	if err := s.prepareDocuments(r.Context(), lib.Documents); err != nil {
		s.respondStoreError(w, err)
		return
	}
	updated, err := s.store.UpdateLibrary(lib)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLibrary(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryID")
	s.logger.Debug("delete library request", zap.String("library", libraryID))
	if err := s.store.DeleteLibrary(libraryID); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryID")
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	s.logger.Debug("create document request", zap.String("library", libraryID), zap.String("document", req.ID))
	doc, err := s.buildDocument(r.Context(), req)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	created, err := s.store.AddDocument(libraryID, doc)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.GetDocument(chi.URLParam(r, "libraryID"), chi.URLParam(r, "documentID"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	libraryID, documentID := chi.URLParam(r, "libraryID"), chi.URLParam(r, "documentID")
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Resolve the target before judging the payload so a missing id reports 404.
	if _, err := s.store.GetDocument(libraryID, documentID); err != nil {
		s.respondStoreError(w, err)
		return
	}
	if req.ID == "" {
		req.ID = documentID
	}
	if req.ID != documentID {
		s.respondStoreError(w, fmt.Errorf("%w: document %s != %s", store.ErrIDMismatch, req.ID, documentID))
		return
	}
	s.logger.Debug("update document request", zap.String("library", libraryID), zap.String("document", documentID))
	doc, err := s.buildDocument(r.Context(), req)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	updated, err := s.store.UpdateDocument(libraryID, documentID, doc)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	libraryID, documentID := chi.URLParam(r, "libraryID"), chi.URLParam(r, "documentID")
	s.logger.Debug("delete document request", zap.String("library", libraryID), zap.String("document", documentID))
	if err := s.store.DeleteDocument(libraryID, documentID); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCreateChunk(w http.ResponseWriter, r *http.Request) {
	libraryID, documentID := chi.URLParam(r, "libraryID"), chi.URLParam(r, "documentID")
	var chunk models.Chunk
	if err := json.NewDecoder(r.Body).Decode(&chunk); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if chunk.ID == "" {
		chunk.ID = uuid.New().String()
	}
	s.logger.Debug("create chunk request",
		zap.String("library", libraryID), zap.String("document", documentID), zap.String("chunk", chunk.ID))
	chunks := []models.Chunk{chunk}
	if err := s.embedChunks(r.Context(), chunks); err != nil {
		s.respondStoreError(w, err)
		return
	}
	created, err := s.store.AddChunk(libraryID, documentID, chunks[0])
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetChunk(w http.ResponseWriter, r *http.Request) {
	chunk, err := s.store.GetChunk(chi.URLParam(r, "libraryID"), chi.URLParam(r, "documentID"), chi.URLParam(r, "chunkID"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, chunk)
}

func (s *Server) handleUpdateChunk(w http.ResponseWriter, r *http.Request) {
	libraryID, documentID, chunkID := chi.URLParam(r, "libraryID"), chi.URLParam(r, "documentID"), chi.URLParam(r, "chunkID")
	var chunk models.Chunk
	if err := json.NewDecoder(r.Body).Decode(&chunk); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.store.GetChunk(libraryID, documentID, chunkID); err != nil {
		s.respondStoreError(w, err)
		return
	}
	if chunk.ID == "" {
		chunk.ID = chunkID
	}
	s.logger.Debug("update chunk request",
		zap.String("library", libraryID), zap.String("document", documentID), zap.String("chunk", chunkID))
	chunks := []models.Chunk{chunk}
	if err := s.embedChunks(r.Context(), chunks); err != nil {
		s.respondStoreError(w, err)
		return
	}
	updated, err := s.store.UpdateChunk(libraryID, documentID, chunkID, chunks[0])
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteChunk(w http.ResponseWriter, r *http.Request) {
	libraryID, documentID, chunkID := chi.URLParam(r, "libraryID"), chi.URLParam(r, "documentID"), chi.URLParam(r, "chunkID")
	s.logger.Debug("delete chunk request",
		zap.String("library", libraryID), zap.String("document", documentID), zap.String("chunk", chunkID))
	if err := s.store.DeleteChunk(libraryID, documentID, chunkID); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryID")
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request",
		zap.String("library", libraryID), zap.String("query_text", query.QueryText), zap.Int("k", query.K))
	resp, err := s.engine.Vector(r.Context(), libraryID, &query)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTextSearch(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryID")
	var query models.TextQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("text search request",
		zap.String("library", libraryID), zap.String("query", query.Query), zap.Int("k", query.K), zap.Bool("fuzzy", query.Fuzzy))
	resp, err := s.engine.Text(r.Context(), libraryID, &query)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHybridSearch(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryID")
	var query models.HybridQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("hybrid search request",
		zap.String("library", libraryID), zap.String("query_text", query.QueryText), zap.Int("k", query.K))
	resp, err := s.engine.Hybrid(r.Context(), libraryID, &query)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.store.Stats()
	resp := map[string]interface{}{
		"libraries":       stats.Libraries,
		"documents":       stats.Documents,
		"chunks":          stats.Chunks,
		"indexed_vectors": stats.IndexedVectors,
		"uptime_seconds":  int64(time.Since(s.startedAt).Seconds()),
	}

	configInfo := map[string]interface{}{
		"index_type":        stats.IndexType,
		"keyword_enabled":   stats.KeywordEnabled,
		"default_k":         s.config.Search.DefaultK,
		"max_k":             s.config.Search.MaxK,
		"chunk_size":        s.config.Search.ChunkSize,
		"chunk_overlap":     s.config.Search.ChunkOverlap,
		"hybrid_candidates": s.config.Search.HybridCandidates,
	}
	if s.ingestor != nil {
		configInfo["embedding_dimensions"] = s.ingestor.Dimensions()
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

// buildDocument turns a request into a document with embedded chunks. Raw text is chunked
// and embedded by the ingestor; explicit chunks only have missing ids and embeddings filled.
func (s *Server) buildDocument(ctx context.Context, req documentRequest) (models.Document, error) {
	if req.Text != "" && len(req.Chunks) == 0 {
		if s.ingestor == nil {
			return models.Document{}, fmt.Errorf("%w: text ingestion requires an embedder", store.ErrValidation)
		}
		return s.ingestor.BuildDocument(ctx, req.ID, req.Text, req.Metadata)
	}
	doc := models.Document{ID: req.ID, Chunks: req.Chunks, Metadata: req.Metadata}
	if err := s.embedChunks(ctx, doc.Chunks); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

func (s *Server) prepareDocuments(ctx context.Context, docs []models.Document) error {
	for i := range docs {
		if docs[i].ID == "" {
			docs[i].ID = uuid.New().String()
		}
		if err := s.embedChunks(ctx, docs[i].Chunks); err != nil {
			return err
		}
	}
	return nil
}

// embedChunks assigns ids to chunks without one and embeds chunks that carry only text.
func (s *Server) embedChunks(ctx context.Context, chunks []models.Chunk) error {
	for i := range chunks {
		if chunks[i].ID == "" {
			chunks[i].ID = uuid.New().String()
		}
	}
	if s.ingestor == nil {
		return nil
	}
	return s.ingestor.FillEmbeddings(ctx, chunks)
}

// respondStoreError maps store error classes to HTTP status codes.
func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrValidation):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
