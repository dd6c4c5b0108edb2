// Package embedding turns text into vectors for chunks and queries that arrive without one.
package embedding

import (
	"context"

	"go.uber.org/zap"
)

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// Options selects and sizes an embedder.
type Options struct {
	ModelPath  string
	Dimensions int
	MaxTokens  int
	CacheSize  int
}

// New returns an ONNX embedder for opts.ModelPath, or a deterministic mock embedder when no
// model is configured or the model cannot be loaded. Either is wrapped in an LRU cache
// when opts.CacheSize > 0.
func New(opts Options, logger *zap.Logger) Embedder {
	if logger == nil {
		logger = zap.NewNop()
	}

	var inner Embedder
	if opts.ModelPath != "" {
		onnx, err := NewONNXEmbedder(opts.ModelPath, opts.Dimensions, opts.MaxTokens)
		if err != nil {
			logger.Warn("embedding model unavailable, using mock embedder",
				zap.String("model", opts.ModelPath), zap.Error(err))
		} else {
			inner = onnx
		}
	}
	if inner == nil {
		inner = NewMockEmbedder(opts.Dimensions)
	}

	if opts.CacheSize > 0 {
		return NewCachedEmbedder(inner, opts.CacheSize)
	}
	return inner
}

// embedEach calls embed for each text in order.
func embedEach(ctx context.Context, texts []string, embed func(context.Context, string) ([]float32, error)) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emb, err := embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}
