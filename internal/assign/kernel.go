// Package assign implements the SLIC pixel-to-cluster assignment kernel
// (C2): for each cluster, scan its local window and keep the minimum
// packed (distance, cluster_id) word at every pixel it reaches.
package assign

import (
	"context"
	"sync/atomic"

	"github.com/hupe1980/fastslic/internal/conv"
	"github.com/hupe1980/fastslic/internal/morton"
	"github.com/hupe1980/fastslic/internal/parallel"
	"github.com/hupe1980/fastslic/internal/spatial"
)

// ClusterView is the subset of cluster state the kernel reads.
type ClusterView struct {
	Number  uint16
	Y, X    int
	R, G, B int
}

// Image is the subset of image data the kernel reads.
type Image struct {
	Pix  []byte
	H, W int
}

func (img Image) at(i, j int) (r, g, b int) {
	off := 3 * (i*img.W + j)
	return int(img.Pix[off]), int(img.Pix[off+1]), int(img.Pix[off+2])
}

// Unassigned is the packed sentinel every label starts at: larger than
// any real (distance, cluster_id) word, so the first write to a pixel
// always wins the initial compare-and-swap.
const Unassigned = 0xFFFFFFFF

// Run fills labels (length H*W, row-major) with packed
// (distance<<16 | cluster_number) words by scanning every cluster's
// 2S×2S window in Z-order across a fixed worker pool, using an atomic
// compare-and-swap at every pixel so the result is independent of
// goroutine interleaving. quantizeLevel is the color-distance left-shift.
// labels must be pre-sized by the caller; Run resets every entry to
// Unassigned before scanning.
func Run(ctx context.Context, pool *parallel.Pool, img Image, clusters []ClusterView, cache *spatial.Cache, quantizeLevel int, labels []uint32) error {
	for i := range labels {
		labels[i] = Unassigned
	}

	s := cache.S()
	if s < 1 {
		s = 1
	}

	order := morton.Order(len(clusters), func(i int) (int, int) {
		return clusters[i].Y / s, clusters[i].X / s
	})

	return pool.ParallelFor(ctx, len(order), func(lo, hi int) {
		for oi := lo; oi < hi; oi++ {
			assignOne(img, clusters[order[oi]], cache, s, quantizeLevel, labels)
		}
	})
}

func assignOne(img Image, c ClusterView, cache *spatial.Cache, s, quantizeLevel int, labels []uint32) {
	yLo := c.Y - s
	if yLo < 0 {
		yLo = 0
	}
	yHi := c.Y + s + 1
	if yHi > img.H {
		yHi = img.H
	}
	xLo := c.X - s
	if xLo < 0 {
		xLo = 0
	}
	xHi := c.X + s + 1
	if xHi > img.W {
		xHi = img.W
	}

	for y := yLo; y < yHi; y++ {
		dy := y - c.Y
		if dy < 0 {
			dy = -dy
		}
		rowBase := y * img.W
		for x := xLo; x < xHi; x++ {
			dx := x - c.X
			if dx < 0 {
				dx = -dx
			}
			spatialDist := cache.At(dy + dx)

			r, g, b := img.at(y, x)
			dr, dg, db := r-c.R, g-c.G, b-c.B
			if dr < 0 {
				dr = -dr
			}
			if dg < 0 {
				dg = -dg
			}
			if db < 0 {
				db = -db
			}
			colorDist := conv.SaturateUint16(int64(dr+dg+db) << uint(quantizeLevel))
			total := conv.SaturateUint16(int64(colorDist) + int64(spatialDist))
			val := (uint32(total) << 16) | uint32(c.Number)

			p := &labels[rowBase+x]
			for {
				cur := atomic.LoadUint32(p)
				if cur <= val {
					break
				}
				if atomic.CompareAndSwapUint32(p, cur, val) {
					break
				}
			}
		}
	}
}

// Finalize masks every word down to its low 16 bits in place, discarding
// the distance that was only needed to pick the winning cluster.
func Finalize(labels []uint32) {
	for i, v := range labels {
		labels[i] = v & 0xFFFF
	}
}
