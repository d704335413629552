package fastslic

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// DefaultWorkers reports the worker count Iterate uses when Config.Workers
// is left at zero, logging the detected CPU feature set along the way.
// C2's integer kernel is not hand-vectorized (see the package doc's
// "no GPU offload" non-goal), so the feature flags below are informational
// only — they help a caller reason about why two machines converge at
// different wall-clock speed, not a dispatch decision this package makes.
func DefaultWorkers(logger *Logger) int {
	n := runtime.GOMAXPROCS(0)
	if logger == nil {
		logger = NoopLogger()
	}
	logger.Debug("worker sizing",
		"workers", n,
		"cpu", cpuid.CPU.BrandName,
		"logical_cores", cpuid.CPU.LogicalCores,
		"avx2", cpuid.CPU.Supports(cpuid.AVX2),
	)
	return n
}
