package models

import (
	"testing"
)

func sampleLibrary() Library {
	return Library{
		ID:   "lib",
		Name: "Sample",
		Documents: []Document{
			{ID: "d1", Chunks: []Chunk{
				{ID: "c1", Text: "one", Embedding: []float32{1, 0}, Metadata: map[string]interface{}{"page": 1}},
				{ID: "c2", Text: "two", Embedding: []float32{0, 1}},
			}},
			{ID: "d2", Chunks: []Chunk{{ID: "c3", Text: "three", Embedding: []float32{1, 1}}}},
		},
		Metadata: map[string]interface{}{"owner": "team"},
	}
}

func TestLibrary_CloneIsDeep(t *testing.T) {
	lib := sampleLibrary()
	cp := lib.Clone()

	cp.Documents[0].Chunks[0].Embedding[0] = 42
	cp.Documents[0].Chunks[0].Metadata["page"] = 7
	cp.Documents[1].ID = "changed"
	cp.Metadata["owner"] = "other"

	if lib.Documents[0].Chunks[0].Embedding[0] != 1 {
		t.Error("embedding should not be shared with clone")
	}
	if lib.Documents[0].Chunks[0].Metadata["page"] != 1 {
		t.Error("chunk metadata should not be shared with clone")
	}
	if lib.Documents[1].ID != "d2" {
		t.Error("documents should not be shared with clone")
	}
	if lib.Metadata["owner"] != "team" {
		t.Error("library metadata should not be shared with clone")
	}
}

func TestLibrary_CountsAndDimension(t *testing.T) {
	lib := sampleLibrary()
	if got := lib.ChunkCount(); got != 3 {
		t.Errorf("ChunkCount() = %d, want 3", got)
	}
	if got := lib.Dimension(); got != 2 {
		t.Errorf("Dimension() = %d, want 2", got)
	}
	empty := Library{ID: "e", Documents: []Document{{ID: "d"}}}
	if got := empty.Dimension(); got != 0 {
		t.Errorf("Dimension() of empty library = %d, want 0", got)
	}
}

func TestLibrary_Validate(t *testing.T) {
	tests := []struct {
		name    string
		lib     Library
		wantErr bool
	}{
		{"valid", sampleLibrary(), false},
		{"missing id", Library{}, true},
		{"duplicate document", Library{ID: "l", Documents: []Document{{ID: "d"}, {ID: "d"}}}, true},
		{"duplicate chunk", Library{ID: "l", Documents: []Document{{ID: "d", Chunks: []Chunk{
			{ID: "c", Embedding: []float32{1}}, {ID: "c", Embedding: []float32{2}},
		}}}}, true},
		{"empty embedding", Library{ID: "l", Documents: []Document{{ID: "d", Chunks: []Chunk{{ID: "c"}}}}}, true},
		{"missing chunk id", Library{ID: "l", Documents: []Document{{ID: "d", Chunks: []Chunk{{Embedding: []float32{1}}}}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lib.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
