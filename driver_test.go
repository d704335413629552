package fastslic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoToneImage(t *testing.T, h, w int) Image {
	t.Helper()
	pix := make([]byte, h*w*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := y*w + x
			if x < w/2 {
				pix[3*p] = 20
			} else {
				pix[3*p] = 220
			}
		}
	}
	img, err := NewImage(pix, h, w)
	require.NoError(t, err)
	return img
}

func TestIterate(t *testing.T) {
	t.Run("converges to a well-formed labeling", func(t *testing.T) {
		h, w, k := 32, 32, 8
		img := twoToneImage(t, h, w)
		clusters, err := InitializeClusters(img, k)
		require.NoError(t, err)
		assignment := NewAssignment(h, w)

		cfg := DefaultConfig().Apply(WithMaxIter(4), WithWorkers(4))
		require.NoError(t, Iterate(context.Background(), img, clusters, assignment, cfg))

		seen := 0
		for _, word := range assignment.Labels {
			label := word & 0xFFFF
			if label == UnassignedLabel {
				continue
			}
			assert.Less(t, label, uint32(k))
			seen++
		}
		assert.Equal(t, h*w, seen, "every pixel should end up labeled after connectivity enforcement")

		total := 0
		for _, c := range clusters {
			total += c.NumMembers
		}
		assert.Equal(t, h*w, total)
	})

	t.Run("rejects k greater than pixel count", func(t *testing.T) {
		h, w := 4, 4
		img := twoToneImage(t, h, w)
		clusters := make([]Cluster, h*w+1)
		assignment := NewAssignment(h, w)

		err := Iterate(context.Background(), img, clusters, assignment, DefaultConfig())
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		h, w, k := 8, 8, 2
		img := twoToneImage(t, h, w)
		clusters, err := InitializeClusters(img, k)
		require.NoError(t, err)
		assignment := NewAssignment(h, w)

		cfg := DefaultConfig().Apply(WithMaxIter(-1))
		err = Iterate(context.Background(), img, clusters, assignment, cfg)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("honors cancellation between iterations", func(t *testing.T) {
		h, w, k := 16, 16, 4
		img := twoToneImage(t, h, w)
		clusters, err := InitializeClusters(img, k)
		require.NoError(t, err)
		assignment := NewAssignment(h, w)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		cfg := DefaultConfig().Apply(WithMaxIter(5))
		err = Iterate(ctx, img, clusters, assignment, cfg)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("honors a configured governor's worker limit", func(t *testing.T) {
		h, w, k := 16, 16, 4
		img := twoToneImage(t, h, w)
		clusters, err := InitializeClusters(img, k)
		require.NoError(t, err)
		assignment := NewAssignment(h, w)

		governor := NewGovernor(GovernorConfig{MaxWorkers: 1, MemoryBudgetBytes: 1 << 30})
		cfg := DefaultConfig().Apply(WithMaxIter(2), WithGovernor(governor))
		require.NoError(t, Iterate(context.Background(), img, clusters, assignment, cfg))

		// The slot Iterate acquired must have been released.
		require.NoError(t, governor.AcquireWorker(context.Background()))
		governor.ReleaseWorker()
	})

	t.Run("deterministic across repeated runs", func(t *testing.T) {
		h, w, k := 24, 24, 6
		img := twoToneImage(t, h, w)

		var prev []uint32
		for run := 0; run < 2; run++ {
			clusters, err := InitializeClusters(img, k)
			require.NoError(t, err)
			assignment := NewAssignment(h, w)
			cfg := DefaultConfig().Apply(WithMaxIter(3), WithWorkers(4))
			require.NoError(t, Iterate(context.Background(), img, clusters, assignment, cfg))

			if prev != nil {
				assert.Equal(t, prev, assignment.Labels)
			}
			prev = append([]uint32(nil), assignment.Labels...)
		}
	})
}
