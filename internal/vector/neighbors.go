package vector

import (
	"container/heap"
	"sort"
)

// neighborHeap is a max-heap on distance so the current worst candidate sits at the root.
// Among equal distances the larger position is considered worse.
type neighborHeap []Neighbor

func (h neighborHeap) Len() int { return len(h) }
func (h neighborHeap) Less(i, j int) bool {
	if h[i].Distance != h[j].Distance {
		return h[i].Distance > h[j].Distance
	}
	return h[i].Position > h[j].Position
}
func (h neighborHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *neighborHeap) Push(x interface{}) {
	*h = append(*h, x.(Neighbor))
}

func (h *neighborHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// bestK keeps the k nearest candidates seen so far.
type bestK struct {
	k int
	h neighborHeap
}

func newBestK(k int) *bestK {
	return &bestK{k: k, h: make(neighborHeap, 0, k)}
}

func (b *bestK) full() bool { return len(b.h) >= b.k }

// worst returns the k-th best distance. Only meaningful when full.
func (b *bestK) worst() float64 { return b.h[0].Distance }

// offer inserts n if the set is not full or n beats the current worst.
func (b *bestK) offer(n Neighbor) {
	if !b.full() {
		heap.Push(&b.h, n)
		return
	}
	top := b.h[0]
	if n.Distance < top.Distance || (n.Distance == top.Distance && n.Position < top.Position) {
		b.h[0] = n
		heap.Fix(&b.h, 0)
	}
}

// sorted returns the candidates in ascending distance, ties by position.
func (b *bestK) sorted() []Neighbor {
	out := make([]Neighbor, len(b.h))
	copy(out, b.h)
	sortNeighbors(out)
	return out
}

func sortNeighbors(ns []Neighbor) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].Distance != ns[j].Distance {
			return ns[i].Distance < ns[j].Distance
		}
		return ns[i].Position < ns[j].Position
	})
}
