package conv

import (
	"fmt"
	"math"
)

// IntToUint16 converts v to uint16, erroring if it would overflow. Used to
// validate image dimensions before they are narrowed into the 16-bit
// centroid fields (Cluster.Y/X).
func IntToUint16(v int) (uint16, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint16 (negative)", v)
	}
	if v > math.MaxUint16 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint16 (too large)", v)
	}
	return uint16(v), nil
}

// SaturateUint16 clamps v into [0, math.MaxUint16], used by the assignment
// kernel's distance arithmetic instead of returning an overflow error —
// saturation there is a documented, silent policy (see the package root's
// error-handling design), not a failure.
func SaturateUint16(v int64) uint16 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
