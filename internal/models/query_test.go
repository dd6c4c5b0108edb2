package models

import (
	"testing"
)

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   *SearchQuery
		wantErr bool
		wantK   int
	}{
		{"empty query", &SearchQuery{}, true, 0},
		{"vector query", &SearchQuery{QueryVector: []float32{1, 0}, K: 3}, false, 3},
		{"text query", &SearchQuery{QueryText: "hello", K: 2}, false, 2},
		{"sets default k", &SearchQuery{QueryVector: []float32{1}}, false, 10},
		{"k at max", &SearchQuery{QueryVector: []float32{1}, K: 100}, false, 100},
		{"k above max", &SearchQuery{QueryVector: []float32{1}, K: 500}, true, 0},
		{"negative k", &SearchQuery{QueryVector: []float32{1}, K: -1}, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate(10, 100)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.query.K != tt.wantK {
				t.Errorf("K = %d, want %d", tt.query.K, tt.wantK)
			}
		})
	}
}

func TestTextQuery_Validate(t *testing.T) {
	q := &TextQuery{}
	if err := q.Validate(5, 50); err == nil {
		t.Error("expected error for empty query")
	}
	q = &TextQuery{Query: "vector"}
	if err := q.Validate(5, 50); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if q.K != 5 {
		t.Errorf("K = %d, want default 5", q.K)
	}
}

func TestTextQuery_ValidateFuzziness(t *testing.T) {
	for _, f := range []int{-1, 3} {
		q := &TextQuery{Query: "vector", Fuzzy: true, Fuzziness: f}
		if err := q.Validate(5, 50); err == nil {
			t.Errorf("fuzziness %d: expected error", f)
		}
	}
	q := &TextQuery{Query: "vector", Fuzzy: true, Fuzziness: 1, K: 50}
	if err := q.Validate(5, 50); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if q.K != 50 {
		t.Errorf("K = %d, want 50", q.K)
	}
	q.K = 80
	if err := q.Validate(5, 50); err == nil {
		t.Error("k above max: expected error")
	}
}

func TestHybridQuery_Validate(t *testing.T) {
	tests := []struct {
		name            string
		query           HybridQuery
		wantErr         bool
		wantK           int
		wantKw, wantSem float64
	}{
		{"empty text", HybridQuery{}, true, 0, 0, 0},
		{"negative weight", HybridQuery{QueryText: "q", KeywordWeight: -1}, true, 0, 0, 0},
		{"negative k", HybridQuery{QueryText: "q", K: -2}, true, 0, 0, 0},
		{"default weights", HybridQuery{QueryText: "q"}, false, 10, 0.3, 0.7},
		{"k above max", HybridQuery{QueryText: "q", K: 200}, true, 0, 0, 0},
		{"explicit weights kept", HybridQuery{QueryText: "q", KeywordWeight: 1, K: 100}, false, 100, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			err := q.Validate(10, 100, 0.3, 0.7)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if q.K != tt.wantK || q.KeywordWeight != tt.wantKw || q.SemanticWeight != tt.wantSem {
				t.Errorf("got k=%d kw=%v sem=%v", q.K, q.KeywordWeight, q.SemanticWeight)
			}
		})
	}
}
