package fastslic

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hupe1980/fastslic/internal/assign"
	"github.com/hupe1980/fastslic/internal/parallel"
	"github.com/hupe1980/fastslic/internal/spatial"
	"github.com/hupe1980/fastslic/internal/update"
)

// Iterate runs the SLIC driver (C4): build the spatial-distance cache
// once, then run maxIter passes of (assignment kernel, cluster update),
// and finally enforce connectivity over the finished label map. clusters
// and assignment are mutated in place. ctx is checked for cancellation
// between iterations, not mid-kernel.
func Iterate(ctx context.Context, img Image, clusters []Cluster, assignment Assignment, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if img.H <= 0 || img.W <= 0 {
		return invalidArgf("img", "must have positive dimensions")
	}
	k := len(clusters)
	if k == 0 {
		return invalidArgf("clusters", "must be non-empty")
	}
	if k > img.H*img.W {
		return invalidArgf("clusters", "k=%d exceeds pixel count %d", k, img.H*img.W)
	}
	if err := assignment.validate(img.H, img.W); err != nil {
		return err
	}

	logger := cfg.logger()
	runLogger, _ := logger.WithRunID()
	runLogger = runLogger.WithDimensions(img.H, img.W).WithClusterCount(k)

	if cfg.Governor != nil {
		bufBytes := int64(len(assignment.Labels)) * 4
		if err := cfg.Governor.ReserveMemory(bufBytes); err != nil {
			runLogger.LogIterate(ctx, 0, err)
			return err
		}
		defer cfg.Governor.ReleaseMemory(bufBytes)

		if err := cfg.Governor.AcquireWorker(ctx); err != nil {
			runLogger.LogIterate(ctx, 0, err)
			return fmt.Errorf("fastslic: acquire governor worker slot: %w", err)
		}
		defer cfg.Governor.ReleaseWorker()
	}

	s := int(math.Sqrt(float64(img.H*img.W) / float64(k)))
	if s < 1 {
		s = 1
	}
	cache := spatial.Build(s, cfg.Compactness, cfg.QuantizeLevel)

	workers := cfg.workerCount()
	pool := parallel.New(workers)
	defer pool.Close()

	internalImg := assign.Image{Pix: img.Pix, H: img.H, W: img.W}
	updateImg := update.Image{Pix: img.Pix, H: img.H, W: img.W}

	prevLabels := make([]uint32, len(assignment.Labels))

	ranIters := 0
	for iter := 0; iter < cfg.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			runLogger.LogIterate(ctx, ranIters, err)
			return fmt.Errorf("fastslic: iterate cancelled: %w", err)
		}

		start := time.Now()
		copy(prevLabels, assignment.Labels)

		views := make([]assign.ClusterView, k)
		for i, c := range clusters {
			views[i] = assign.ClusterView{
				Number: c.Number,
				Y:      int(c.Y), X: int(c.X),
				R: int(c.R), G: int(c.G), B: int(c.B),
			}
		}

		if err := assign.Run(ctx, pool, internalImg, views, cache, cfg.QuantizeLevel, assignment.Labels); err != nil {
			runLogger.LogIterate(ctx, ranIters, err)
			return err
		}
		assign.Finalize(assignment.Labels)

		acc, err := update.Run(ctx, pool, updateImg, assignment.Labels, k)
		if err != nil {
			runLogger.LogIterate(ctx, ranIters, err)
			return err
		}
		applyAccumulator(clusters, acc)

		ranIters++

		changed := 0
		for i, label := range assignment.Labels {
			if label != prevLabels[i] {
				changed++
			}
		}
		if cfg.Governor.AllowProgressLog() {
			runLogger.WithIteration(iter).LogAssignPass(ctx, changed, time.Since(start).Nanoseconds())
		}
	}

	if err := EnforceConnectivity(img.H, img.W, k, cfg.MinSizeFactor, assignment); err != nil {
		runLogger.LogIterate(ctx, ranIters, err)
		return err
	}
	RecomputeMembership(img.H, img.W, k, assignment, clusters)

	runLogger.LogIterate(ctx, ranIters, nil)
	return nil
}

func applyAccumulator(clusters []Cluster, acc *update.Accumulator) {
	for i := range clusters {
		count := acc.Count[i]
		clusters[i].NumMembers = int(count)
		if count == 0 {
			continue
		}
		clusters[i].Y = uint16(update.RoundDiv(acc.SumY[i], count))
		clusters[i].X = uint16(update.RoundDiv(acc.SumX[i], count))
		clusters[i].R = uint16(update.RoundDiv(acc.SumR[i], count))
		clusters[i].G = uint16(update.RoundDiv(acc.SumG[i], count))
		clusters[i].B = uint16(update.RoundDiv(acc.SumB[i], count))
	}
}
