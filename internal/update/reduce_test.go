package update

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fastslic/internal/parallel"
)

func TestRun(t *testing.T) {
	t.Run("computes per-cluster mean position and color", func(t *testing.T) {
		h, w := 4, 4
		img := Image{Pix: make([]byte, h*w*3), H: h, W: w}
		labels := make([]uint32, h*w)

		// Left half -> cluster 0, right half -> cluster 1.
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				p := y*w + x
				if x < w/2 {
					labels[p] = 0
				} else {
					labels[p] = 1
				}
				img.Pix[3*p] = byte(10 * (x + 1))
			}
		}

		pool := parallel.New(3)
		defer pool.Close()

		acc, err := Run(context.Background(), pool, img, labels, 2)
		require.NoError(t, err)

		assert.Equal(t, int64(h*w/2), acc.Count[0])
		assert.Equal(t, int64(h*w/2), acc.Count[1])
		assert.Less(t, acc.SumR[0], acc.SumR[1])
	})

	t.Run("skips unassigned pixels", func(t *testing.T) {
		h, w := 2, 2
		img := Image{Pix: make([]byte, h*w*3), H: h, W: w}
		labels := []uint32{0, unassignedLabel, unassignedLabel, 0}

		pool := parallel.New(2)
		defer pool.Close()

		acc, err := Run(context.Background(), pool, img, labels, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), acc.Count[0])
	})
}

func TestRoundDiv(t *testing.T) {
	assert.Equal(t, int64(0), RoundDiv(0, 0))
	assert.Equal(t, int64(3), RoundDiv(10, 3))
	assert.Equal(t, int64(3), RoundDiv(5, 2))
}
