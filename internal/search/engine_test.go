package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/vecstore/internal/config"
	"github.com/hyperjump/vecstore/internal/embedding"
	"github.com/hyperjump/vecstore/internal/indexer"
	"github.com/hyperjump/vecstore/internal/models"
	"github.com/hyperjump/vecstore/internal/store"
	"github.com/hyperjump/vecstore/internal/vector"
)

func newTestEngine(t *testing.T, keywordEnabled bool) (*Engine, *store.Store, *indexer.Ingestor) {
	t.Helper()
	st, err := store.New(vector.IndexTypeBallTree, store.WithKeywordIndex(keywordEnabled))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })
	ing := indexer.NewIngestor(embedding.NewMockEmbedder(4), 8, 2)
	cfg := config.Default().Search
	return NewEngine(st, ing, &cfg, nil), st, ing
}

func seed(t *testing.T, st *store.Store, ing *indexer.Ingestor) {
	t.Helper()
	ctx := context.Background()
	chunks := []models.Chunk{
		{ID: "kd", Text: "kd trees split space along the axis of widest spread"},
		{ID: "ball", Text: "ball trees nest points inside bounding spheres"},
		{ID: "brute", Text: "brute force compares the query with every vector"},
	}
	if err := ing.FillEmbeddings(ctx, chunks); err != nil {
		t.Fatal(err)
	}
	lib := models.Library{ID: "L", Documents: []models.Document{{ID: "D", Chunks: chunks}}}
	if _, err := st.CreateLibrary(lib); err != nil {
		t.Fatal(err)
	}
}

func TestEngine_Vector(t *testing.T) {
	ctx := context.Background()
	e, st, ing := newTestEngine(t, true)
	seed(t, st, ing)

	text := "ball trees nest points inside bounding spheres"
	resp, err := e.Vector(ctx, "L", &models.SearchQuery{QueryText: text, K: 1})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Results[0].Chunk.ID != "ball" {
		t.Fatalf("embedding the chunk's own text should find it first: %+v", resp.Results)
	}
	if resp.Results[0].Distance > 1e-5 {
		t.Errorf("distance to itself = %f", resp.Results[0].Distance)
	}
	if resp.IndexType != string(vector.IndexTypeBallTree) || resp.Query != text {
		t.Errorf("response metadata: %+v", resp)
	}

	resp, err = e.Vector(ctx, "L", &models.SearchQuery{QueryVector: []float32{0, 0, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.K != 10 || resp.Total != 3 {
		t.Errorf("default k: k=%d total=%d", resp.K, resp.Total)
	}
}

func TestEngine_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	e, st, ing := newTestEngine(t, true)
	seed(t, st, ing)

	_, err := e.Vector(ctx, "L", &models.SearchQuery{})
	if !errors.Is(err, store.ErrValidation) {
		t.Errorf("empty vector query: %v", err)
	}
	_, err = e.Text(ctx, "L", &models.TextQuery{})
	if !errors.Is(err, store.ErrValidation) {
		t.Errorf("empty text query: %v", err)
	}
	_, err = e.Hybrid(ctx, "L", &models.HybridQuery{QueryText: "x", KeywordWeight: -1})
	if !errors.Is(err, store.ErrValidation) {
		t.Errorf("negative weight: %v", err)
	}
	_, err = e.Hybrid(ctx, "missing", &models.HybridQuery{QueryText: "trees"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown library: %v", err)
	}
}

func TestEngine_VectorWithoutEmbedder(t *testing.T) {
	st, err := store.New(vector.IndexTypeBruteForce)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default().Search
	e := NewEngine(st, nil, &cfg, nil)
	if _, err := st.CreateLibrary(models.Library{ID: "L"}); err != nil {
		t.Fatal(err)
	}
	_, err = e.Vector(context.Background(), "L", &models.SearchQuery{QueryText: "text only"})
	if !errors.Is(err, store.ErrValidation) {
		t.Errorf("text query without embedder: %v", err)
	}
	resp, err := e.Vector(context.Background(), "L", &models.SearchQuery{QueryVector: []float32{1}})
	if err != nil || resp.Total != 0 {
		t.Errorf("empty library: %v, %+v", err, resp)
	}
}

func TestEngine_TextHighlightsAndSuggests(t *testing.T) {
	ctx := context.Background()
	e, st, ing := newTestEngine(t, true)
	seed(t, st, ing)

	resp, err := e.Text(ctx, "L", &models.TextQuery{Query: "spheres"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Results[0].Chunk.ID != "ball" || resp.IndexType != "keyword" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !strings.Contains(resp.Results[0].Highlight, "spheres") {
		t.Errorf("highlight = %q", resp.Results[0].Highlight)
	}

	resp, err = e.Text(ctx, "L", &models.TextQuery{Query: "spheers"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 0 || resp.Suggestion != "spheres" {
		t.Errorf("suggestion: total=%d suggestion=%q", resp.Total, resp.Suggestion)
	}

	resp, err = e.Text(ctx, "L", &models.TextQuery{Query: "spheers", Fuzzy: true})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Suggestion != "" {
		t.Errorf("fuzzy: total=%d suggestion=%q", resp.Total, resp.Suggestion)
	}
}

func TestEngine_Hybrid(t *testing.T) {
	ctx := context.Background()
	e, st, ing := newTestEngine(t, true)
	seed(t, st, ing)

	resp, err := e.Hybrid(ctx, "L", &models.HybridQuery{QueryText: "brute force compares the query with every vector", K: 3})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 3 {
		t.Fatalf("total = %d, want 3", resp.Total)
	}
	top := resp.Results[0]
	if top.Chunk.ID != "brute" {
		t.Errorf("top hit = %s, want brute", top.Chunk.ID)
	}
	if top.KeywordScore != 1 || top.SemanticScore < 0.99 {
		t.Errorf("top components: keyword=%f semantic=%f", top.KeywordScore, top.SemanticScore)
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].Score > resp.Results[i-1].Score {
			t.Errorf("results not sorted by fused score at %d", i)
		}
	}
	if !strings.HasPrefix(resp.IndexType, "hybrid:") {
		t.Errorf("index type = %s", resp.IndexType)
	}

	resp, err = e.Hybrid(ctx, "L", &models.HybridQuery{QueryText: "spheres", SemanticWeight: 1, K: 2})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range resp.Results {
		if r.KeywordScore != 0 {
			t.Errorf("keyword side should be skipped with zero weight: %+v", r)
		}
	}
}

func TestEngine_HybridKeywordDisabled(t *testing.T) {
	ctx := context.Background()
	e, st, ing := newTestEngine(t, false)
	seed(t, st, ing)

	_, err := e.Hybrid(ctx, "L", &models.HybridQuery{QueryText: "trees"})
	if !errors.Is(err, store.ErrKeywordDisabled) {
		t.Errorf("expected keyword disabled error, got %v", err)
	}
	resp, err := e.Hybrid(ctx, "L", &models.HybridQuery{QueryText: "trees", SemanticWeight: 1})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 3 {
		t.Errorf("semantic-only hybrid total = %d", resp.Total)
	}
}
