package vector

import (
	"fmt"
	"strings"
)

// IndexType selects a SpatialIndex implementation.
type IndexType string

const (
	// IndexTypeBruteForce scans every vector. Exact, O(n) per query; the correctness baseline.
	IndexTypeBruteForce IndexType = "bruteforce"
	// IndexTypeKDTree partitions on one coordinate axis per level. Good for low dimensions.
	IndexTypeKDTree IndexType = "kdtree"
	// IndexTypeBallTree nests bounding balls around halves of the vector list.
	IndexTypeBallTree IndexType = "balltree"
)

// DefaultIndexType is used when no algorithm is configured.
const DefaultIndexType = IndexTypeKDTree

// ParseIndexType resolves a configured algorithm name.
// Supported: "bruteforce", "kdtree", "balltree" (and "brute_force", "linear", "kd_tree", "ball_tree").
// An empty name selects DefaultIndexType.
func ParseIndexType(name string) (IndexType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultIndexType, nil
	case "bruteforce", "brute_force", "linear":
		return IndexTypeBruteForce, nil
	case "kdtree", "kd_tree":
		return IndexTypeKDTree, nil
	case "balltree", "ball_tree":
		return IndexTypeBallTree, nil
	default:
		return "", fmt.Errorf("unknown index type: %s (supported: bruteforce, kdtree, balltree)", name)
	}
}

// NewSpatialIndex creates an empty index of the given type.
func NewSpatialIndex(indexType IndexType) (SpatialIndex, error) {
	switch indexType {
	case IndexTypeBruteForce:
		return NewBruteForceIndex(), nil
	case IndexTypeKDTree:
		return NewKDTree(), nil
	case IndexTypeBallTree:
		return NewBallTree(), nil
	default:
		return nil, fmt.Errorf("unknown index type: %s (supported: bruteforce, kdtree, balltree)", indexType)
	}
}

// IndexTypes lists the supported index types.
func IndexTypes() []IndexType {
	return []IndexType{IndexTypeBruteForce, IndexTypeKDTree, IndexTypeBallTree}
}
