package keyword

import "testing"

func TestEditDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical empty", "", "", 0},
		{"identical word", "hello", "hello", 0},
		{"empty a", "", "hello", 5},
		{"empty b", "hello", "", 5},
		{"one substitution", "cat", "bat", 1},
		{"one insertion", "cat", "cart", 1},
		{"one deletion", "cart", "cat", 1},
		{"kitten to sitting", "kitten", "sitting", 3},
		{"transposition", "ab", "ba", 1},
		{"transposed typo", "teh", "the", 1},
		{"unicode substitution", "café", "cafe", 1},
		{"case difference", "Hello", "hello", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EditDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("EditDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := EditDistance(tt.b, tt.a); got != tt.want {
				t.Errorf("EditDistance is not symmetric for (%q, %q): %d", tt.a, tt.b, got)
			}
		})
	}
}

func TestChunkIndex_Terms(t *testing.T) {
	idx := newTestIndex(t)
	terms, err := idx.Terms()
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}
	if terms["omnisyan"] != 1 {
		t.Errorf("omnisyan frequency = %d, want 1", terms["omnisyan"])
	}
	if _, ok := terms["d1"]; ok {
		t.Error("document ids should not be in the text vocabulary")
	}
}

func TestChunkIndex_Suggest(t *testing.T) {
	idx := newTestIndex(t)

	tests := []struct {
		query  string
		want   string
		wantOK bool
	}{
		{"omnisyn", "omnisyan", true},
		{"bayes appendx", "bayes appendix", true},
		{"bayes", "bayes", false},
		{"zzzzzzzz", "zzzzzzzz", false},
	}
	for _, tt := range tests {
		got, ok, err := idx.Suggest(tt.query)
		if err != nil {
			t.Fatalf("Suggest(%q): %v", tt.query, err)
		}
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Suggest(%q) = (%q, %v), want (%q, %v)", tt.query, got, ok, tt.want, tt.wantOK)
		}
	}
}
