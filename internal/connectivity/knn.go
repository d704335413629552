package connectivity

import (
	"context"

	"github.com/hupe1980/fastslic/internal/parallel"
)

// candidate is one entry in a cluster's bounded neighbor heap.
type candidate struct {
	id   int32
	dist int32
}

// worse reports whether a is a worse (larger-distance) candidate than b,
// breaking exact ties by id so the heap's eviction order is deterministic
// regardless of scan order.
func worse(a, b candidate) bool {
	if a.dist != b.dist {
		return a.dist > b.dist
	}
	return a.id > b.id
}

// maxHeap4 is a bounded 4-ary max-heap of candidates, keyed on distance.
// Once full, a new candidate is admitted only if it is better than the
// current worst, which is then evicted.
type maxHeap4 struct {
	items []candidate
	cap   int
}

func newMaxHeap4(capacity int) *maxHeap4 {
	return &maxHeap4{items: make([]candidate, 0, capacity), cap: capacity}
}

func (h *maxHeap4) full() bool { return len(h.items) >= h.cap }

func (h *maxHeap4) worst() candidate { return h.items[0] }

func (h *maxHeap4) push(c candidate) {
	h.items = append(h.items, c)
	h.up(len(h.items) - 1)
}

func (h *maxHeap4) replaceWorst(c candidate) {
	h.items[0] = c
	h.down(0)
}

func (h *maxHeap4) offer(c candidate) {
	if !h.full() {
		h.push(c)
		return
	}
	if worse(c, h.worst()) {
		return
	}
	h.replaceWorst(c)
}

func (h *maxHeap4) up(i int) {
	for i > 0 {
		parent := (i - 1) / 4
		if !worse(h.items[i], h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *maxHeap4) down(i int) {
	n := len(h.items)
	for {
		worstChild := -1
		for c := 4*i + 1; c < 4*i+5 && c < n; c++ {
			if worstChild == -1 || worse(h.items[c], h.items[worstChild]) {
				worstChild = c
			}
		}
		if worstChild == -1 || !worse(h.items[worstChild], h.items[i]) {
			break
		}
		h.items[i], h.items[worstChild] = h.items[worstChild], h.items[i]
		i = worstChild
	}
}

// sortedAscending drains the heap into a slice ordered nearest-first.
func (h *maxHeap4) sortedAscending() []candidate {
	out := make([]candidate, len(h.items))
	copy(out, h.items)
	// insertion sort: numNeighbors is small (heap capacity), so this is
	// cheaper than pulling in container/heap or sort for a handful of items.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && (out[j].dist < out[j-1].dist || (out[j].dist == out[j-1].dist && out[j].id < out[j-1].id)); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Centroid is the subset of cluster state the KNN builder reads.
type Centroid struct {
	Y, X int
}

// BuildKNN implements C6: place every cluster into a coarse grid of cell
// side s, then for each cluster search the 6x6 block of cells centered on
// its own cell, keeping the numNeighbors closest others by centroid L1
// distance in a bounded 4-ary max-heap. Candidates outside the 6x6 block
// are never considered, so sparse regions can miss true nearest
// neighbors; this is an accepted tradeoff for a local-adjacency hint.
//
// The grid is built once, single-threaded, then searched in parallel
// across clusters over pool using the same static-partition scheduling
// shape C2 and C3 use: each shard owns a disjoint slice of lists, so no
// synchronization is needed between workers.
func BuildKNN(ctx context.Context, pool *parallel.Pool, h, w, s, numNeighbors int, centroids []Centroid) (*Arena, error) {
	if s < 1 {
		s = 1
	}
	k := len(centroids)

	gridW := w/s + 1
	gridH := h/s + 1
	cells := make(map[int][]int32, k)
	cellOf := func(y, x int) int { return (y/s)*gridW + (x / s) }
	for i, c := range centroids {
		cell := cellOf(c.Y, c.X)
		cells[cell] = append(cells[cell], int32(i))
	}

	lists := make([][]int32, k)
	err := pool.ParallelFor(ctx, k, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			c := centroids[i]
			cy, cx := c.Y/s, c.X/s
			heap := newMaxHeap4(numNeighbors)

			for dy := -3; dy < 3; dy++ {
				ny := cy + dy
				if ny < 0 || ny >= gridH {
					continue
				}
				for dx := -3; dx < 3; dx++ {
					nx := cx + dx
					if nx < 0 || nx >= gridW {
						continue
					}
					for _, j := range cells[ny*gridW+nx] {
						if int(j) == i {
							continue
						}
						other := centroids[j]
						dist := absInt(c.Y-other.Y) + absInt(c.X-other.X)
						heap.offer(candidate{id: j, dist: int32(dist)})
					}
				}
			}

			ordered := heap.sortedAscending()
			list := make([]int32, len(ordered))
			for idx, cand := range ordered {
				list[idx] = cand.id
			}
			lists[i] = list
		}
	})
	if err != nil {
		return nil, err
	}

	return packDirected(lists), nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// packDirected builds an arena from possibly-asymmetric per-node lists
// (KNN neighbor relations need not be mutual), unlike pack in graph.go
// which is only ever fed mutually-appended edges.
func packDirected(lists [][]int32) *Arena {
	return pack(lists)
}
