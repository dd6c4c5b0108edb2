package embedding

import (
	"context"
	"math"
	"testing"

	"go.uber.org/zap"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(16)
	ctx := context.Background()

	a, err := e.Embed(ctx, "same text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, _ := e.Embed(ctx, "same text")
	c, _ := e.Embed(ctx, "other text")

	if len(a) != 16 {
		t.Fatalf("len=%d, want 16", len(a))
	}
	same, differs := true, false
	for i := range a {
		if a[i] != b[i] {
			same = false
		}
		if a[i] != c[i] {
			differs = true
		}
	}
	if !same {
		t.Error("same text should give the same embedding")
	}
	if !differs {
		t.Error("different text should give a different embedding")
	}

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-5 {
		t.Errorf("norm=%f, want 1", math.Sqrt(norm))
	}
}

func TestMockEmbedder_DefaultDimensions(t *testing.T) {
	if d := NewMockEmbedder(0).Dimensions(); d != 384 {
		t.Errorf("Dimensions=%d, want 384", d)
	}
}

func TestMockEmbedder_BatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMockEmbedder(4).EmbedBatch(ctx, []string{"a"}); err == nil {
		t.Error("expected context error")
	}
}

func TestNew_FallsBackToMock(t *testing.T) {
	e := New(Options{ModelPath: "/nonexistent/model.onnx", Dimensions: 32, MaxTokens: 16}, zap.NewNop())
	defer e.Close()
	if _, ok := e.(*MockEmbedder); !ok {
		t.Fatalf("got %T, want *MockEmbedder", e)
	}
	if e.Dimensions() != 32 {
		t.Errorf("Dimensions=%d, want 32", e.Dimensions())
	}
}

func TestNew_Cached(t *testing.T) {
	e := New(Options{Dimensions: 8, CacheSize: 4}, nil)
	defer e.Close()
	if _, ok := e.(*CachedEmbedder); !ok {
		t.Fatalf("got %T, want *CachedEmbedder", e)
	}
	emb, err := e.Embed(context.Background(), "hi")
	if err != nil || len(emb) != 8 {
		t.Errorf("Embed = %d values, %v", len(emb), err)
	}
}

func BenchmarkMockEmbedder_Embed(b *testing.B) {
	e := NewMockEmbedder(384)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "benchmark query text for embedding")
	}
}
