package indexer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hyperjump/vecstore/internal/embedding"
	"github.com/hyperjump/vecstore/internal/models"
	"go.uber.org/zap"
)

// Ingestor builds documents from raw text and fills in missing chunk embeddings.
type Ingestor struct {
	embedder embedding.Embedder
	chunker  *Chunker
	logger   *zap.Logger
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) IngestorOption {
	return func(in *Ingestor) {
		if l != nil {
			in.logger = l
		}
	}
}

// NewIngestor creates an ingestor that chunks with chunkSize/chunkOverlap (words) and embeds with embedder.
func NewIngestor(embedder embedding.Embedder, chunkSize, chunkOverlap int, opts ...IngestorOption) *Ingestor {
	in := &Ingestor{
		embedder: embedder,
		chunker:  NewChunker(chunkSize, chunkOverlap),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Dimensions returns the embedding dimension produced by the ingestor.
func (in *Ingestor) Dimensions() int {
	return in.embedder.Dimensions()
}

// BuildDocument preprocesses and chunks text and embeds every chunk. An empty id is replaced
// by a random UUID. Text with no words yields a document without chunks.
func (in *Ingestor) BuildDocument(ctx context.Context, id, text string, metadata map[string]interface{}) (models.Document, error) {
	if id == "" {
		id = uuid.New().String()
	}
	doc := models.Document{
		ID:       id,
		Chunks:   in.chunker.Chunk(id, Preprocess(text)),
		Metadata: metadata,
	}
	if err := in.FillEmbeddings(ctx, doc.Chunks); err != nil {
		return models.Document{}, fmt.Errorf("document %s: %w", id, err)
	}
	in.logger.Debug("ingestor document built", zap.String("doc_id", id), zap.Int("chunks", len(doc.Chunks)))
	return doc, nil
}

// FillEmbeddings embeds, in one batch, the text of every chunk that has no embedding.
// Chunks without embedding and without text are left for validation to reject.
func (in *Ingestor) FillEmbeddings(ctx context.Context, chunks []models.Chunk) error {
	var idx []int
	var texts []string
	for i := range chunks {
		if len(chunks[i].Embedding) == 0 && chunks[i].Text != "" {
			idx = append(idx, i)
			texts = append(texts, chunks[i].Text)
		}
	}
	if len(texts) == 0 {
		return nil
	}
	embeddings, err := in.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	for j, i := range idx {
		chunks[i].Embedding = embeddings[j]
	}
	return nil
}

// EmbedQuery embeds a search query.
func (in *Ingestor) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	emb, err := in.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return emb, nil
}
