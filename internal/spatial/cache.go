// Package spatial precomputes the quantized spatial-distance penalty used
// by the assignment kernel, keyed by Manhattan distance from a cluster
// center.
package spatial

import "github.com/hupe1980/fastslic/internal/conv"

// Cache holds spatialCache[m] for m in [0, 2S], the quantized spatial
// penalty at Manhattan distance m. It is built once per Iterate call and
// is safe to share read-only across goroutines.
type Cache struct {
	table []uint16
	s     int
}

// Build constructs a Cache for nominal superpixel side s, compactness
// weight and quantizeLevel fractional bits:
//
//	table[m] = round(compactness * m * (1<<quantizeLevel) / s)
//
// saturated to uint16.
func Build(s int, compactness float64, quantizeLevel int) *Cache {
	if s < 1 {
		s = 1
	}
	n := 2*s + 1
	table := make([]uint16, n)
	scale := compactness * float64(uint32(1)<<uint(quantizeLevel)) / float64(s)
	for m := 0; m < n; m++ {
		v := scale * float64(m)
		table[m] = conv.SaturateUint16(int64(v + 0.5))
	}
	return &Cache{table: table, s: s}
}

// At returns the cached spatial penalty for Manhattan distance m, clamping
// m into the table's range [0, 2s]. The assignment kernel's window stays
// within s of the center on each axis, so it never probes beyond 2s.
func (c *Cache) At(m int) uint16 {
	if m < 0 {
		m = 0
	}
	if m >= len(c.table) {
		m = len(c.table) - 1
	}
	return c.table[m]
}

// S returns the nominal superpixel side this cache was built for.
func (c *Cache) S() int {
	return c.s
}
