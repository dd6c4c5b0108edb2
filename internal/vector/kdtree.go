package vector

import (
	"math"
	"sort"
)

// kdNode is one arena slot. left and right are arena indexes, -1 when absent.
type kdNode struct {
	point int
	axis  int
	left  int
	right int
}

// KDTree is a k-d tree over a positional vector list, stored as an arena of nodes.
// Each level splits on axis = depth mod dimension at the median vector.
// The tree is rebuilt from scratch on every Build; there is no incremental update.
type KDTree struct {
	vectors [][]float32
	nodes   []kdNode
	root    int
}

// NewKDTree creates an empty k-d tree.
func NewKDTree() *KDTree {
	return &KDTree{root: -1}
}

// Type returns the index type identifier.
func (t *KDTree) Type() IndexType {
	return IndexTypeKDTree
}

// Build discards the previous arena and builds a balanced tree over vectors.
func (t *KDTree) Build(vectors [][]float32) {
	t.vectors = vectors
	t.nodes = nil
	t.root = -1
	if len(vectors) == 0 {
		return
	}
	t.nodes = make([]kdNode, 0, len(vectors))
	indices := make([]int, len(vectors))
	for i := range indices {
		indices[i] = i
	}
	t.root = t.build(indices, 0, len(vectors[0]))
}

// build sorts indices along the depth's axis in place and recurses on the halves
// either side of the median.
func (t *KDTree) build(indices []int, depth, dim int) int {
	if len(indices) == 0 {
		return -1
	}
	// Zero-dimension vectors have no axis to split on; axis -1 marks a plain chain.
	axis := -1
	if dim > 0 {
		axis = depth % dim
		sort.SliceStable(indices, func(i, j int) bool {
			return t.vectors[indices[i]][axis] < t.vectors[indices[j]][axis]
		})
	}
	median := len(indices) / 2

	id := len(t.nodes)
	t.nodes = append(t.nodes, kdNode{point: indices[median], axis: axis, left: -1, right: -1})
	left := t.build(indices[:median], depth+1, dim)
	right := t.build(indices[median+1:], depth+1, dim)
	t.nodes[id].left = left
	t.nodes[id].right = right
	return id
}

// Search returns the k nearest vectors using branch-and-bound descent.
func (t *KDTree) Search(query []float32, k int) []Neighbor {
	if k <= 0 || t.root < 0 {
		return []Neighbor{}
	}
	best := newBestK(k)
	t.search(t.root, query, best)
	return best.sorted()
}

func (t *KDTree) search(id int, query []float32, best *bestK) {
	if id < 0 {
		return
	}
	node := &t.nodes[id]
	point := t.vectors[node.point]
	best.offer(Neighbor{Position: node.point, Distance: EuclideanDistance(query, point)})

	var diff float64
	if node.axis >= 0 {
		diff = float64(query[node.axis]) - float64(point[node.axis])
	}
	near, far := node.right, node.left
	if diff < 0 {
		near, far = node.left, node.right
	}
	t.search(near, query, best)

	// Every vector in the far subtree is at least |diff| away along this axis.
	if !best.full() || math.Abs(diff) < best.worst() {
		t.search(far, query, best)
	}
}

// Size returns the number of indexed vectors.
func (t *KDTree) Size() int {
	return len(t.vectors)
}
