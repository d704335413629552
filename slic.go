package fastslic

import (
	"context"
	"math"

	"github.com/hupe1980/fastslic/internal/connectivity"
	"github.com/hupe1980/fastslic/internal/mask"
	"github.com/hupe1980/fastslic/internal/parallel"
)

// GetConnectivity builds the C5 undirected cluster adjacency list from a
// finished assignment, capped at 12 neighbors per cluster. logger may be
// nil; pass cfg.Logger from the Config used with Iterate to correlate
// this call's log line with the run that produced assignment.
func GetConnectivity(h, w, k int, assignment Assignment, logger *Logger) (*Connectivity, error) {
	if logger == nil {
		logger = NoopLogger()
	}
	ctx := context.Background()

	if err := assignment.validate(h, w); err != nil {
		logger.LogConnectivity(ctx, k, 0, err)
		return nil, err
	}
	if k <= 0 {
		err := invalidArgf("k", "must be positive, got %d", k)
		logger.LogConnectivity(ctx, k, 0, err)
		return nil, err
	}

	arena := connectivity.BuildFromLabels(h, w, k, assignment.Labels)
	logger.LogConnectivity(ctx, k, len(arena.Neighbors), nil)
	return &Connectivity{Offsets: arena.Offsets, Neighbors: arena.Neighbors}, nil
}

// KNNConnectivity builds the C6 adjacency list of the numNeighbors
// nearest other clusters by centroid L1 distance, searched over a coarse
// spatial grid in parallel across clusters over a worker pool sized the
// same way Iterate sizes its own (DefaultWorkers). logger may be nil.
func KNNConnectivity(h, w, k int, clusters []Cluster, numNeighbors int, logger *Logger) (*Connectivity, error) {
	if logger == nil {
		logger = NoopLogger()
	}
	ctx := context.Background()

	if k <= 0 {
		err := invalidArgf("k", "must be positive, got %d", k)
		logger.LogKNN(ctx, k, 0, err)
		return nil, err
	}
	if len(clusters) != k {
		err := invalidArgf("clusters", "length %d does not match k=%d", len(clusters), k)
		logger.LogKNN(ctx, k, 0, err)
		return nil, err
	}
	if numNeighbors <= 0 {
		err := invalidArgf("numNeighbors", "must be positive, got %d", numNeighbors)
		logger.LogKNN(ctx, k, 0, err)
		return nil, err
	}
	if h <= 0 || w <= 0 {
		err := invalidArgf("h,w", "must be positive, got %dx%d", h, w)
		logger.LogKNN(ctx, k, 0, err)
		return nil, err
	}

	s := int(math.Sqrt(float64(h*w) / float64(k)))
	if s < 1 {
		s = 1
	}

	centroids := make([]connectivity.Centroid, k)
	for i, c := range clusters {
		centroids[i] = connectivity.Centroid{Y: int(c.Y), X: int(c.X)}
	}

	pool := parallel.New(DefaultWorkers(logger))
	defer pool.Close()

	arena, err := connectivity.BuildKNN(ctx, pool, h, w, s, numNeighbors, centroids)
	if err != nil {
		logger.LogKNN(ctx, k, 0, err)
		return nil, err
	}
	logger.LogKNN(ctx, k, len(arena.Neighbors), nil)
	return &Connectivity{Offsets: arena.Offsets, Neighbors: arena.Neighbors}, nil
}

// FreeConnectivity is a documented no-op: Go's garbage collector owns a
// *Connectivity's backing arrays. It exists only for API parity with the
// original explicit free/destroy lifecycle operation.
func FreeConnectivity(conn *Connectivity) {}

// GetMaskDensity sums mask over each cluster's members and divides by its
// member count (C8).
func GetMaskDensity(h, w, k int, clusters []Cluster, assignment Assignment, maskBytes []byte) ([]byte, error) {
	if err := assignment.validate(h, w); err != nil {
		return nil, err
	}
	if len(maskBytes) != h*w {
		return nil, invalidArgf("mask", "length %d does not match h*w=%d", len(maskBytes), h*w)
	}
	if len(clusters) != k {
		return nil, invalidArgf("clusters", "length %d does not match k=%d", len(clusters), k)
	}

	numMembers := make([]int, k)
	for i, c := range clusters {
		numMembers[i] = c.NumMembers
	}
	return mask.Density(h, w, k, assignment.Labels, numMembers, maskBytes), nil
}

// ClusterDensityToMask broadcasts per-cluster density values back onto
// every pixel each cluster owns; pixels with an invalid label become 0.
func ClusterDensityToMask(h, w, k int, assignment Assignment, densities []byte) ([]byte, error) {
	if err := assignment.validate(h, w); err != nil {
		return nil, err
	}
	if len(densities) != k {
		return nil, invalidArgf("densities", "length %d does not match k=%d", len(densities), k)
	}
	return mask.Broadcast(h, w, k, assignment.Labels, densities), nil
}
