// Package vector provides exact nearest-neighbor index structures over embedding vectors.
package vector

// SpatialIndex is a nearest-neighbor index over a positional list of vectors.
// Build replaces all prior state. Search returns at most k neighbors ordered by
// ascending Euclidean distance; an index that was never built, or was built on
// zero vectors, returns an empty result. Implementations do not validate
// dimensions; callers guarantee that all vectors and the query share one length.
//
// Build retains the vector slices it is given; callers must not mutate them
// afterwards. Implementations are not safe for concurrent Build and Search; the
// owner serializes access.
type SpatialIndex interface {
	Build(vectors [][]float32)
	Search(query []float32, k int) []Neighbor
	Size() int
	Type() IndexType
}

// Neighbor is a single search hit: the position the vector held in the slice
// passed to the most recent Build, and its distance to the query.
type Neighbor struct {
	Position int
	Distance float64
}
