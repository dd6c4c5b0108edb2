package search

import (
	"fmt"
	"testing"

	"github.com/hyperjump/vecstore/internal/models"
)

func BenchmarkFuse(b *testing.B) {
	kw := make([]models.SearchResult, 50)
	vec := make([]models.SearchResult, 50)
	for i := range kw {
		kw[i] = hit("d", fmt.Sprintf("c%d", i))
		kw[i].Score = float64(i) / 50
		vec[i] = hit("d", fmt.Sprintf("c%d", i*2))
		vec[i].Distance = float64(50-i) / 50
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Fuse(kw, vec, Weights{Keyword: 0.5, Semantic: 0.5}, 10)
	}
}
