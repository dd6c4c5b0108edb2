// Package search runs vector, keyword, and hybrid queries against the store and builds
// API responses.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/vecstore/internal/config"
	"github.com/hyperjump/vecstore/internal/indexer"
	"github.com/hyperjump/vecstore/internal/keyword"
	"github.com/hyperjump/vecstore/internal/models"
	"github.com/hyperjump/vecstore/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// highlightLen is the snippet length attached to keyword and hybrid hits.
const highlightLen = 160

// Engine answers search requests for one store.
type Engine struct {
	store    *store.Store
	ingestor *indexer.Ingestor
	config   *config.SearchConfig
	logger   *zap.Logger
}

// NewEngine creates a search engine. ingestor may be nil, in which case queries must carry
// a vector. logger may be nil.
func NewEngine(st *store.Store, ing *indexer.Ingestor, cfg *config.SearchConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: st, ingestor: ing, config: cfg, logger: logger}
}

// Vector runs a kNN query. A query without a vector has its text embedded first.
func (e *Engine) Vector(ctx context.Context, libraryID string, query *models.SearchQuery) (*models.SearchResponse, error) {
	start := time.Now()
	if err := query.Validate(e.config.DefaultK, e.config.MaxK); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrValidation, err)
	}
	vec, err := e.queryVector(ctx, query.QueryVector, query.QueryText)
	if err != nil {
		return nil, err
	}
	results, err := e.store.KNNSearch(libraryID, vec, query.K)
	if err != nil {
		return nil, err
	}
	resp := e.response(libraryID, results, query.K, start)
	resp.Query = query.QueryText
	resp.IndexType = string(e.store.IndexType())
	return resp, nil
}

// Text runs a keyword query. When nothing matches, the response carries a spelling
// suggestion drawn from the library's vocabulary if one exists.
func (e *Engine) Text(ctx context.Context, libraryID string, query *models.TextQuery) (*models.SearchResponse, error) {
	start := time.Now()
	if err := query.Validate(e.config.DefaultK, e.config.MaxK); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrValidation, err)
	}
	var opts *keyword.SearchOptions
	if query.Fuzzy {
		opts = &keyword.SearchOptions{FuzzyEnabled: true, Fuzziness: query.Fuzziness}
	}
	results, err := e.store.TextSearch(libraryID, query.Query, query.K, opts)
	if err != nil {
		return nil, err
	}
	highlight(results, query.Query)

	resp := e.response(libraryID, results, query.K, start)
	resp.Query = query.Query
	resp.IndexType = "keyword"
	if len(results) == 0 {
		if suggestion, ok, err := e.store.SuggestQuery(libraryID, query.Query); err != nil {
			e.logger.Warn("query suggestion failed", zap.String("library", libraryID), zap.Error(err))
		} else if ok {
			resp.Suggestion = suggestion
		}
	}
	return resp, nil
}

// Hybrid runs the keyword and vector sides concurrently, each fetching up to
// HybridCandidates hits, and fuses them by weighted normalized score. A side with zero
// weight is skipped.
func (e *Engine) Hybrid(ctx context.Context, libraryID string, query *models.HybridQuery) (*models.SearchResponse, error) {
	start := time.Now()
	if err := query.Validate(e.config.DefaultK, e.config.MaxK, e.config.DefaultKeywordWeight, e.config.DefaultSemanticWeight); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrValidation, err)
	}
	candidates := max(query.K, e.config.HybridCandidates)

	var keywordResults, vectorResults []models.SearchResult
	g, gctx := errgroup.WithContext(ctx)
	if query.KeywordWeight > 0 {
		g.Go(func() error {
			var err error
			keywordResults, err = e.store.TextSearch(libraryID, query.QueryText, candidates, nil)
			if err != nil {
				return fmt.Errorf("keyword search failed: %w", err)
			}
			return nil
		})
	}
	if query.SemanticWeight > 0 {
		g.Go(func() error {
			vec, err := e.queryVector(gctx, query.QueryVector, query.QueryText)
			if err != nil {
				return err
			}
			vectorResults, err = e.store.KNNSearch(libraryID, vec, candidates)
			if err != nil {
				return fmt.Errorf("vector search failed: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := Fuse(keywordResults, vectorResults, Weights{Keyword: query.KeywordWeight, Semantic: query.SemanticWeight}, query.K)
	highlight(fused, query.QueryText)
	e.logger.Debug("hybrid search",
		zap.String("library", libraryID),
		zap.Int("keyword_hits", len(keywordResults)),
		zap.Int("vector_hits", len(vectorResults)),
		zap.Int("fused", len(fused)))

	resp := e.response(libraryID, fused, query.K, start)
	resp.Query = query.QueryText
	resp.IndexType = "hybrid:" + string(e.store.IndexType())
	return resp, nil
}

func (e *Engine) queryVector(ctx context.Context, vec []float32, text string) ([]float32, error) {
	if len(vec) > 0 {
		return vec, nil
	}
	if e.ingestor == nil {
		return nil, fmt.Errorf("%w: query_vector is required when no embedder is configured", store.ErrValidation)
	}
	return e.ingestor.EmbedQuery(ctx, text)
}

func (e *Engine) response(libraryID string, results []models.SearchResult, k int, start time.Time) *models.SearchResponse {
	resp := &models.SearchResponse{
		LibraryID: libraryID,
		Results:   make([]*models.SearchResult, len(results)),
		Total:     len(results),
		K:         k,
	}
	for i := range results {
		resp.Results[i] = &results[i]
	}
	resp.QueryTime = time.Since(start).Milliseconds()
	return resp
}

func highlight(results []models.SearchResult, query string) {
	for i := range results {
		results[i].Highlight = Highlight(results[i].Chunk.Text, query, highlightLen)
	}
}
