// Package connectivity builds undirected cluster adjacency lists, either
// from a finished label map (C5) or from cluster centroids via a spatial
// grid KNN search (C6). Both return a flat Offsets/Neighbors arena.
package connectivity

import "github.com/bits-and-blooms/bitset"

// Arena is the flat Offsets/Neighbors adjacency representation shared by
// both builders.
type Arena struct {
	Offsets   []int32
	Neighbors []int32
}

const capPerNode = 12

// symmetricHash mirrors the original implementation's
// ((s*0x1f1f1f1f)^t) + ((t*0x1f1f1f1f)^s), which is symmetric in s and t.
func symmetricHash(s, t uint32) uint32 {
	const magic = 0x1f1f1f1f
	return ((s * magic) ^ t) + ((t * magic) ^ s)
}

// BuildFromLabels implements C5: scan pixels in row-major order
// (excluding the last row/column), inspecting the three forward
// neighbors at +1, +W, +W+1, and dedup candidate edges with a
// single-hash Bloom-style bitmap of size 32*k bits before appending to
// each endpoint's (capped at 12) neighbor list. This builder is
// single-threaded: the bitmap is not safe for concurrent writers.
func BuildFromLabels(h, w, k int, labels []uint32) *Arena {
	lists := make([][]int32, k)
	bits := bitset.New(uint(32 * k))

	tryAdd := func(s, t uint32) {
		if s == t || int(s) >= k || int(t) >= k {
			return
		}
		if len(lists[s]) >= capPerNode || len(lists[t]) >= capPerNode {
			return
		}
		h := symmetricHash(s, t) % uint32(32*k)
		if bits.Test(uint(h)) {
			if contains(lists[s], t) || contains(lists[t], s) {
				return
			}
		}
		lists[s] = append(lists[s], int32(t))
		lists[t] = append(lists[t], int32(s))
		bits.Set(uint(h))
	}

	for i := 0; i < h-1; i++ {
		rowBase := i * w
		for j := 0; j < w-1; j++ {
			p := rowBase + j
			s := labels[p] & 0xFFFF
			tryAdd(s, labels[p+1]&0xFFFF)
			tryAdd(s, labels[p+w]&0xFFFF)
			tryAdd(s, labels[p+w+1]&0xFFFF)
		}
	}

	return pack(lists)
}

func contains(list []int32, v uint32) bool {
	for _, x := range list {
		if x == int32(v) {
			return true
		}
	}
	return false
}

func pack(lists [][]int32) *Arena {
	offsets := make([]int32, len(lists)+1)
	total := int32(0)
	for i, l := range lists {
		offsets[i] = total
		total += int32(len(l))
	}
	offsets[len(lists)] = total

	neighbors := make([]int32, 0, total)
	for _, l := range lists {
		neighbors = append(neighbors, l...)
	}
	return &Arena{Offsets: offsets, Neighbors: neighbors}
}
