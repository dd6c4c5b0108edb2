package vector

// ballNode is one arena slot. Leaves hold a single vector (point >= 0) and have no children.
type ballNode struct {
	center []float64
	radius float64
	point  int
	left   int
	right  int
}

// BallTree nests bounding balls (centroid plus covering radius) over halves of the
// vector list. Halves are taken by position in the list, not by clustering, so
// sibling balls may overlap; pruning is still exact because every member lies
// inside its node's ball.
type BallTree struct {
	vectors [][]float32
	nodes   []ballNode
	root    int
}

// NewBallTree creates an empty ball tree.
func NewBallTree() *BallTree {
	return &BallTree{root: -1}
}

// Type returns the index type identifier.
func (t *BallTree) Type() IndexType {
	return IndexTypeBallTree
}

// Build discards the previous arena and builds a new tree over vectors.
func (t *BallTree) Build(vectors [][]float32) {
	t.vectors = vectors
	t.nodes = nil
	t.root = -1
	if len(vectors) == 0 {
		return
	}
	t.nodes = make([]ballNode, 0, 2*len(vectors)-1)
	indices := make([]int, len(vectors))
	for i := range indices {
		indices[i] = i
	}
	t.root = t.build(indices)
}

func (t *BallTree) build(indices []int) int {
	if len(indices) == 0 {
		return -1
	}
	center := t.centroid(indices)
	var radius float64
	for _, i := range indices {
		if d := euclideanToCenter(t.vectors[i], center); d > radius {
			radius = d
		}
	}

	id := len(t.nodes)
	t.nodes = append(t.nodes, ballNode{center: center, radius: radius, point: -1, left: -1, right: -1})
	if len(indices) == 1 {
		t.nodes[id].point = indices[0]
		return id
	}
	mid := len(indices) / 2
	left := t.build(indices[:mid])
	right := t.build(indices[mid:])
	t.nodes[id].left = left
	t.nodes[id].right = right
	return id
}

func (t *BallTree) centroid(indices []int) []float64 {
	dim := len(t.vectors[indices[0]])
	center := make([]float64, dim)
	for _, i := range indices {
		for j, v := range t.vectors[i] {
			center[j] += float64(v)
		}
	}
	n := float64(len(indices))
	for j := range center {
		center[j] /= n
	}
	return center
}

// Search returns the k nearest vectors, pruning balls that cannot contain a better candidate.
func (t *BallTree) Search(query []float32, k int) []Neighbor {
	if k <= 0 || t.root < 0 {
		return []Neighbor{}
	}
	best := newBestK(k)
	t.search(t.root, query, euclideanToCenter(query, t.nodes[t.root].center), best)
	return best.sorted()
}

// search visits node id whose center is dist away from the query.
func (t *BallTree) search(id int, query []float32, dist float64, best *bestK) {
	node := &t.nodes[id]
	// Triangle inequality: no member is closer than dist - radius.
	if best.full() && dist-node.radius >= best.worst() {
		return
	}
	if node.point >= 0 {
		best.offer(Neighbor{Position: node.point, Distance: EuclideanDistance(query, t.vectors[node.point])})
		return
	}
	ld := euclideanToCenter(query, t.nodes[node.left].center)
	rd := euclideanToCenter(query, t.nodes[node.right].center)
	if ld <= rd {
		t.search(node.left, query, ld, best)
		t.search(node.right, query, rd, best)
	} else {
		t.search(node.right, query, rd, best)
		t.search(node.left, query, ld, best)
	}
}

// Size returns the number of indexed vectors.
func (t *BallTree) Size() int {
	return len(t.vectors)
}
