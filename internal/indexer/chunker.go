// Package indexer turns raw document text into embedded chunks ready for the store.
package indexer

import (
	"fmt"
	"strings"

	"github.com/hyperjump/vecstore/internal/models"
)

// Metadata keys set on every chunk produced by the Chunker.
const (
	MetaChunkIndex = "chunk_index"
	MetaWordStart  = "word_start"
	MetaWordCount  = "word_count"
)

// Chunker splits text into overlapping word-based chunks.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in words).
// A non-positive size means one chunk per document.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Chunk splits text into chunks with overlapping windows. Chunk ids are "<docID>_<n>"
// counting from 0, so re-chunking the same text yields the same ids. Embeddings are left empty.
func (c *Chunker) Chunk(docID, text string) []models.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	size := c.chunkSize
	if size <= 0 {
		size = len(words)
	}
	step := size - c.chunkOverlap
	if step <= 0 {
		step = 1
	}

	var chunks []models.Chunk
	for start := 0; start < len(words); start += step {
		end := min(start+size, len(words))
		n := len(chunks)
		chunks = append(chunks, models.Chunk{
			ID:   fmt.Sprintf("%s_%d", docID, n),
			Text: strings.Join(words[start:end], " "),
			Metadata: map[string]interface{}{
				MetaChunkIndex: n,
				MetaWordStart:  start,
				MetaWordCount:  end - start,
			},
		})
		if end >= len(words) {
			break
		}
	}
	return chunks
}
