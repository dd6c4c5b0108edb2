package vector

// BruteForceIndex computes the distance to every stored vector and fully sorts them.
// It is exact and serves as the reference result for the tree indexes.
type BruteForceIndex struct {
	vectors [][]float32
}

// NewBruteForceIndex creates an empty brute-force index.
func NewBruteForceIndex() *BruteForceIndex {
	return &BruteForceIndex{}
}

// Type returns the index type identifier.
func (b *BruteForceIndex) Type() IndexType {
	return IndexTypeBruteForce
}

// Build stores the vectors verbatim.
func (b *BruteForceIndex) Build(vectors [][]float32) {
	b.vectors = vectors
}

// Search returns the k nearest vectors by Euclidean distance.
func (b *BruteForceIndex) Search(query []float32, k int) []Neighbor {
	if k <= 0 || len(b.vectors) == 0 {
		return []Neighbor{}
	}
	all := make([]Neighbor, len(b.vectors))
	for i, vec := range b.vectors {
		all[i] = Neighbor{Position: i, Distance: EuclideanDistance(query, vec)}
	}
	sortNeighbors(all)
	if k > len(all) {
		k = len(all)
	}
	return all[:k]
}

// Size returns the number of indexed vectors.
func (b *BruteForceIndex) Size() int {
	return len(b.vectors)
}
