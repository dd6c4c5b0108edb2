// Package models defines core data structures for libraries, documents, chunks, and search results.
package models

import "fmt"

// Chunk is the smallest indexed unit: one embedding plus its text and metadata.
type Chunk struct {
	ID        string                 `json:"id"`
	Text      string                 `json:"text"`
	Embedding []float32              `json:"embedding"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Document is an ordered sequence of chunks within a library.
type Document struct {
	ID       string                 `json:"id"`
	Chunks   []Chunk                `json:"chunks"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Library is the top-level container of documents. Each library owns one vector index.
type Library struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Documents []Document             `json:"documents"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the chunk. Metadata values are copied shallowly.
func (c Chunk) Clone() Chunk {
	out := c
	if c.Embedding != nil {
		out.Embedding = make([]float32, len(c.Embedding))
		copy(out.Embedding, c.Embedding)
	}
	out.Metadata = cloneMetadata(c.Metadata)
	return out
}

// Clone returns a deep copy of the document and its chunks.
func (d Document) Clone() Document {
	out := d
	if d.Chunks != nil {
		out.Chunks = make([]Chunk, len(d.Chunks))
		for i := range d.Chunks {
			out.Chunks[i] = d.Chunks[i].Clone()
		}
	}
	out.Metadata = cloneMetadata(d.Metadata)
	return out
}

// Clone returns a deep copy of the library and everything below it.
func (l Library) Clone() Library {
	out := l
	if l.Documents != nil {
		out.Documents = make([]Document, len(l.Documents))
		for i := range l.Documents {
			out.Documents[i] = l.Documents[i].Clone()
		}
	}
	out.Metadata = cloneMetadata(l.Metadata)
	return out
}

// ChunkCount returns the number of chunks across all documents.
func (l *Library) ChunkCount() int {
	n := 0
	for i := range l.Documents {
		n += len(l.Documents[i].Chunks)
	}
	return n
}

// Dimension returns the embedding length of the first chunk in (document, chunk) order,
// or 0 when the library holds no chunks.
func (l *Library) Dimension() int {
	for i := range l.Documents {
		for j := range l.Documents[i].Chunks {
			return len(l.Documents[i].Chunks[j].Embedding)
		}
	}
	return 0
}

// Validate checks required chunk fields.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("chunk id cannot be empty")
	}
	if len(c.Embedding) == 0 {
		return fmt.Errorf("chunk %s: embedding cannot be empty", c.ID)
	}
	return nil
}

// Validate checks required document fields, chunk fields, and chunk id uniqueness.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document id cannot be empty")
	}
	seen := make(map[string]bool, len(d.Chunks))
	for i := range d.Chunks {
		if err := d.Chunks[i].Validate(); err != nil {
			return fmt.Errorf("document %s: %w", d.ID, err)
		}
		if seen[d.Chunks[i].ID] {
			return fmt.Errorf("document %s: duplicate chunk id %s", d.ID, d.Chunks[i].ID)
		}
		seen[d.Chunks[i].ID] = true
	}
	return nil
}

// Validate checks required library fields, its documents, and document id uniqueness.
func (l *Library) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("library id cannot be empty")
	}
	seen := make(map[string]bool, len(l.Documents))
	for i := range l.Documents {
		if err := l.Documents[i].Validate(); err != nil {
			return fmt.Errorf("library %s: %w", l.ID, err)
		}
		if seen[l.Documents[i].ID] {
			return fmt.Errorf("library %s: duplicate document id %s", l.ID, l.Documents[i].ID)
		}
		seen[l.Documents[i].ID] = true
	}
	return nil
}

func cloneMetadata(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
