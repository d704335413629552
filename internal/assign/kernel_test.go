package assign

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fastslic/internal/parallel"
	"github.com/hupe1980/fastslic/internal/spatial"
)

func solidImage(h, w int, r, g, b byte) Image {
	pix := make([]byte, h*w*3)
	for i := 0; i < h*w; i++ {
		pix[3*i] = r
		pix[3*i+1] = g
		pix[3*i+2] = b
	}
	return Image{Pix: pix, H: h, W: w}
}

func TestRun(t *testing.T) {
	t.Run("every pixel gets a label within [0,k)", func(t *testing.T) {
		h, w := 16, 16
		img := solidImage(h, w, 100, 100, 100)
		clusters := []ClusterView{
			{Number: 0, Y: 4, X: 4, R: 100, G: 100, B: 100},
			{Number: 1, Y: 12, X: 12, R: 100, G: 100, B: 100},
		}
		// S = floor(sqrt(16*16/2)) = 11, the nominal side for this image
		// and k; with it the two windows cover every pixel.
		cache := spatial.Build(11, 10, 8)
		labels := make([]uint32, h*w)

		pool := parallel.New(2)
		defer pool.Close()

		require.NoError(t, Run(context.Background(), pool, img, clusters, cache, 8, labels))
		Finalize(labels)

		for _, l := range labels {
			assert.Less(t, l, uint32(2))
		}
	})

	t.Run("closer cluster color wins the boundary pixel", func(t *testing.T) {
		h, w := 4, 4
		img := solidImage(h, w, 0, 0, 0)
		// Make pixel (0,3) closer in color to cluster 1.
		img.Pix[3*(0*w+3)] = 200

		clusters := []ClusterView{
			{Number: 0, Y: 0, X: 0, R: 0, G: 0, B: 0},
			{Number: 1, Y: 0, X: 3, R: 200, G: 0, B: 0},
		}
		cache := spatial.Build(4, 1, 8)
		labels := make([]uint32, h*w)

		pool := parallel.New(1)
		defer pool.Close()

		require.NoError(t, Run(context.Background(), pool, img, clusters, cache, 8, labels))
		Finalize(labels)

		assert.Equal(t, uint32(1), labels[0*w+3])
	})

	t.Run("deterministic across repeated runs", func(t *testing.T) {
		h, w := 20, 20
		img := solidImage(h, w, 50, 60, 70)
		clusters := []ClusterView{
			{Number: 0, Y: 5, X: 5, R: 50, G: 60, B: 70},
			{Number: 1, Y: 5, X: 15, R: 50, G: 60, B: 70},
			{Number: 2, Y: 15, X: 10, R: 50, G: 60, B: 70},
		}
		cache := spatial.Build(10, 10, 8)

		var prev []uint32
		for run := 0; run < 3; run++ {
			labels := make([]uint32, h*w)
			pool := parallel.New(4)
			require.NoError(t, Run(context.Background(), pool, img, clusters, cache, 8, labels))
			Finalize(labels)
			pool.Close()

			if prev != nil {
				assert.Equal(t, prev, labels)
			}
			prev = labels
		}
	})
}
