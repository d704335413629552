// Package morton orders cluster indices by a Z-order (Morton) score of
// their grid cell, so that spatially-coherent clusters stay contiguous in
// a work queue. This balances assignment-kernel work between parallel
// workers and reduces assignment-word contention between workers touching
// disjoint regions of the image.
package morton

import "sort"

// interleave spreads the low 16 bits of v across even bit positions,
// leaving room to OR in a second coordinate at odd bit positions.
func interleave(v uint32) uint64 {
	x := uint64(v) & 0xFFFF
	x = (x | (x << 16)) & 0x0000FFFF0000FFFF
	x = (x | (x << 8)) & 0x00FF00FF00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F0F0F0F0F
	x = (x | (x << 2)) & 0x3333333333333333
	x = (x | (x << 1)) & 0x5555555555555555
	return x
}

// Score returns the Morton code for grid cell (cellY, cellX).
func Score(cellY, cellX int) uint64 {
	return interleave(uint32(cellY)) | (interleave(uint32(cellX)) << 1)
}

// Order returns a permutation of [0, n) that visits cellOf(i) in
// non-decreasing Z-order.
func Order(n int, cellOf func(i int) (cellY, cellX int)) []int {
	idx := make([]int, n)
	scores := make([]uint64, n)
	for i := 0; i < n; i++ {
		idx[i] = i
		cy, cx := cellOf(i)
		scores[i] = Score(cy, cx)
	}
	sort.Slice(idx, func(a, b int) bool {
		return scores[idx[a]] < scores[idx[b]]
	})
	return idx
}
