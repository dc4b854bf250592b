// Package scroll implements raw-motion ingress and the scroll engine:
// acceleration, direction reversal/swap, and the three output modes
// (direct, real-wheel, VH-adjusted).
package scroll

import (
	"math"

	"wheelgo/internal/config"
)

// Accelerate applies the nearest-threshold lookup to an instantaneous
// delta d: find the threshold index minimizing |thresholds[i]-|d||,
// ties going to the smaller index, then return round(d*multiplier[i]).
// d==0 always returns 0 unchanged since thresholds are all positive, so
// |d|=0 ties toward index 0 and round(0*m)==0 regardless of m.
func Accelerate(d int32, table config.AccelTable) int32 {
	if d == 0 || !table.Valid() {
		return d
	}
	abs := d
	if abs < 0 {
		abs = -abs
	}
	best := 0
	bestDiff := diff(table.Thresholds[0], abs)
	for i := 1; i < len(table.Thresholds); i++ {
		dd := diff(table.Thresholds[i], abs)
		if dd < bestDiff {
			bestDiff = dd
			best = i
		}
	}
	return roundHalfUp(float64(d) * table.Multipliers[best])
}

func diff(threshold, abs int32) int32 {
	if threshold > abs {
		return threshold - abs
	}
	return abs - threshold
}

// roundHalfUp rounds ties away from zero toward the larger magnitude,
// rather than Go's round-half-to-even.
func roundHalfUp(v float64) int32 {
	if v >= 0 {
		return int32(math.Floor(v + 0.5))
	}
	return int32(math.Ceil(v - 0.5))
}
