package connectivity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fastslic/internal/parallel"
)

func TestBuildKNN(t *testing.T) {
	t.Run("finds the single nearest neighbor", func(t *testing.T) {
		centroids := []Centroid{
			{Y: 0, X: 0},
			{Y: 0, X: 5},
			{Y: 0, X: 100},
		}
		pool := parallel.New(2)
		defer pool.Close()
		arena, err := BuildKNN(context.Background(), pool, 200, 200, 10, 1, centroids)
		require.NoError(t, err)
		require.Equal(t, int32(1), arena.Offsets[1]-arena.Offsets[0])
		assert.Equal(t, int32(1), arena.Neighbors[arena.Offsets[0]])
	})

	t.Run("never returns self", func(t *testing.T) {
		centroids := []Centroid{{Y: 10, X: 10}, {Y: 20, X: 20}}
		pool := parallel.New(2)
		defer pool.Close()
		arena, err := BuildKNN(context.Background(), pool, 100, 100, 15, 2, centroids)
		require.NoError(t, err)
		for _, n := range neighborsOf(arena, 0) {
			assert.NotEqual(t, int32(0), n)
		}
	})

	t.Run("caps at numNeighbors even with many candidates", func(t *testing.T) {
		centroids := make([]Centroid, 30)
		for i := range centroids {
			centroids[i] = Centroid{Y: 50, X: 50}
		}
		pool := parallel.New(4)
		defer pool.Close()
		arena, err := BuildKNN(context.Background(), pool, 100, 100, 20, 3, centroids)
		require.NoError(t, err)
		assert.Len(t, neighborsOf(arena, 0), 3)
	})
}

// TestBuildKNNRegularGrid covers the scenario of K=25 clusters laid out on
// a regular 5x5 grid with cell side S=10 and numNeighbors=4: every
// non-boundary cluster's neighbor set must equal exactly its four
// axis-adjacent clusters in the grid, since those sit at L1 distance S
// while every diagonal neighbor sits strictly farther away at 2S.
func TestBuildKNNRegularGrid(t *testing.T) {
	const (
		rows, cols   = 5, 5
		s            = 10
		h, w         = rows * s, cols * s
		numNeighbors = 4
	)

	centroids := make([]Centroid, rows*cols)
	index := func(r, c int) int { return r*cols + c }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			centroids[index(r, c)] = Centroid{Y: r*s + s/2, X: c*s + s/2}
		}
	}

	pool := parallel.New(4)
	defer pool.Close()
	arena, err := BuildKNN(context.Background(), pool, h, w, s, numNeighbors, centroids)
	require.NoError(t, err)

	for r := 1; r < rows-1; r++ {
		for c := 1; c < cols-1; c++ {
			id := index(r, c)
			want := []int32{
				int32(index(r-1, c)),
				int32(index(r+1, c)),
				int32(index(r, c-1)),
				int32(index(r, c+1)),
			}
			got := neighborsOf(arena, id)
			assert.ElementsMatchf(t, want, got, "cluster (%d,%d)", r, c)
		}
	}
}

func TestMaxHeap4(t *testing.T) {
	t.Run("keeps the numNeighbors smallest distances", func(t *testing.T) {
		h := newMaxHeap4(3)
		for _, d := range []int32{10, 1, 7, 3, 9, 2} {
			h.offer(candidate{id: d, dist: d})
		}
		sorted := h.sortedAscending()
		require.Len(t, sorted, 3)
		assert.Equal(t, []int32{1, 2, 3}, []int32{sorted[0].dist, sorted[1].dist, sorted[2].dist})
	})
}
