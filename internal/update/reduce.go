// Package update implements the SLIC cluster-update reduction (C3):
// partition the image into row-bands, accumulate per-cluster sums in a
// private accumulator per worker, then merge into shared totals.
package update

import (
	"context"
	"sync"

	"github.com/hupe1980/fastslic/internal/parallel"
)

// Accumulator holds the running sums needed to recompute one cluster's
// centroid and mean color.
type Accumulator struct {
	SumY, SumX       []int64
	SumR, SumG, SumB []int64
	Count            []int64
}

// NewAccumulator allocates zeroed accumulators for k clusters.
func NewAccumulator(k int) *Accumulator {
	return &Accumulator{
		SumY:  make([]int64, k),
		SumX:  make([]int64, k),
		SumR:  make([]int64, k),
		SumG:  make([]int64, k),
		SumB:  make([]int64, k),
		Count: make([]int64, k),
	}
}

func (a *Accumulator) addInto(other *Accumulator) {
	for i := range a.Count {
		a.SumY[i] += other.SumY[i]
		a.SumX[i] += other.SumX[i]
		a.SumR[i] += other.SumR[i]
		a.SumG[i] += other.SumG[i]
		a.SumB[i] += other.SumB[i]
		a.Count[i] += other.Count[i]
	}
}

// Image is the subset of image data the reduction reads.
type Image struct {
	Pix  []byte
	H, W int
}

func (img Image) at(i, j int) (r, g, b int) {
	off := 3 * (i*img.W + j)
	return int(img.Pix[off]), int(img.Pix[off+1]), int(img.Pix[off+2])
}

const unassignedLabel = 0xFFFF

// Run partitions img into one row-band per pool worker, accumulates each
// band into a private Accumulator, and reduces all of them into the
// returned shared Accumulator under a mutex. labels holds one cluster id
// (low 16 bits only) per pixel; unassignedLabel pixels are skipped.
func Run(ctx context.Context, pool *parallel.Pool, img Image, labels []uint32, k int) (*Accumulator, error) {
	total := NewAccumulator(k)
	var mu sync.Mutex

	err := pool.ParallelFor(ctx, img.H, func(yLo, yHi int) {
		local := NewAccumulator(k)
		for y := yLo; y < yHi; y++ {
			rowBase := y * img.W
			for x := 0; x < img.W; x++ {
				label := labels[rowBase+x] & 0xFFFF
				if label == unassignedLabel {
					continue
				}
				r, g, b := img.at(y, x)
				local.SumY[label] += int64(y)
				local.SumX[label] += int64(x)
				local.SumR[label] += int64(r)
				local.SumG[label] += int64(g)
				local.SumB[label] += int64(b)
				local.Count[label]++
			}
		}

		mu.Lock()
		total.addInto(local)
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	return total, nil
}

// roundDiv performs nearest-integer division, rounding ties away from
// zero: round(sum/count) == floor((sum + count/2) / count) for sum, count
// >= 0.
func roundDiv(sum, count int64) int64 {
	if count == 0 {
		return 0
	}
	return (sum + count/2) / count
}

// RoundDiv exposes roundDiv for callers applying an Accumulator to
// clusters.
func RoundDiv(sum, count int64) int64 {
	return roundDiv(sum, count)
}
