package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/vecstore/internal/models"
)

func vectorResponse() *models.SearchResponse {
	return &models.SearchResponse{
		LibraryID: "L1",
		QueryTime: 42,
		K:         2,
		IndexType: "kdtree",
		Total:     2,
		Results: []*models.SearchResult{
			{Rank: 1, Distance: 0.1414, DocumentID: "D2", Chunk: models.Chunk{ID: "c3", Text: "near\nthe origin"}},
			{Rank: 2, Distance: 1.2728, DocumentID: "D1", Chunk: models.Chunk{ID: "c1", Text: "origin"}},
		},
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"compact", OutputCompact, false},
		{"json", OutputJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	response := vectorResponse()
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputJSON); err != nil {
		t.Fatalf("WriteSearchResults(json): %v", err)
	}
	var decoded models.SearchResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.LibraryID != "L1" || decoded.QueryTime != 42 || len(decoded.Results) != 2 {
		t.Errorf("decoded %+v", decoded)
	}
	if decoded.Results[0].Chunk.ID != "c3" {
		t.Errorf("first result chunk = %s, want c3", decoded.Results[0].Chunk.ID)
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, vectorResponse(), OutputText); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"Found 2 results", "42ms", "index kdtree", "Rank: 1", "Distance: 0.1414", "Document: D2", "Chunk: c3"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteSearchResults_compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, vectorResponse(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "1\tD2\tc3\t") || !strings.HasSuffix(lines[0], "near the origin") {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestWriteSearchResults_keywordSuggestion(t *testing.T) {
	response := &models.SearchResponse{LibraryID: "L1", IndexType: "keyword", Suggestion: "origin"}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Did you mean: origin") {
		t.Errorf("expected suggestion in output:\n%s", buf.String())
	}

	response.Total = 1
	response.Results = []*models.SearchResult{{Rank: 1, Score: 0.75, DocumentID: "D1", Chunk: models.Chunk{ID: "c1"}}}
	buf.Reset()
	_ = WriteSearchResults(&buf, response, OutputText)
	if !strings.Contains(buf.String(), "Score: 0.7500") || strings.Contains(buf.String(), "Did you mean") {
		t.Errorf("keyword hit output:\n%s", buf.String())
	}
}

func TestWriteSearchResults_hybridHighlight(t *testing.T) {
	response := &models.SearchResponse{LibraryID: "L1", IndexType: "hybrid:kdtree", Total: 1, Results: []*models.SearchResult{{
		Rank: 1, Score: 0.75, KeywordScore: 1, SemanticScore: 0.5, DocumentID: "D1",
		Chunk: models.Chunk{ID: "c1", Text: "full chunk text"}, Highlight: "...around the\nmatch...",
	}}}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Score: 0.7500 (Keyword: 1.0000, Semantic: 0.5000)") {
		t.Errorf("hybrid score line missing:\n%s", out)
	}
	if !strings.Contains(out, "...around the match...") || strings.Contains(out, "full chunk text") {
		t.Errorf("highlight should replace the chunk text:\n%s", out)
	}
}

func TestWriteLibraries(t *testing.T) {
	libs := []models.Library{{ID: "L1", Name: "docs", Documents: []models.Document{
		{ID: "d", Chunks: []models.Chunk{{ID: "c", Embedding: []float32{1, 2, 3}}}},
	}}}
	var buf bytes.Buffer
	if err := WriteLibraries(&buf, libs, OutputText); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "L1\tdocs\tdocuments=1 chunks=1 dim=3\n" {
		t.Errorf("got %q", got)
	}

	buf.Reset()
	_ = WriteLibraries(&buf, nil, OutputText)
	if !strings.Contains(buf.String(), "No libraries") {
		t.Errorf("empty listing: %q", buf.String())
	}
}

func TestWriteStatus(t *testing.T) {
	status := map[string]interface{}{
		"libraries": 2,
		"config":    map[string]interface{}{"index_type": "balltree"},
	}
	var buf bytes.Buffer
	if err := WriteStatus(&buf, status, OutputText); err != nil {
		t.Fatal(err)
	}
	want := "config:\n  index_type: balltree\nlibraries: 2\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
