// Package timeline rescales sampled-frame timestamps when sampling-derived
// timing drifts from the independently resolved video duration.
package timeline

import (
	"log"
	"math"
)

// DriftTolerance is the relative error below which timestamps are left
// untouched. At or above it, one global linear correction is applied.
const DriftTolerance = 0.01

// Reconcile compares the last sampled timestamp with the true duration and,
// when drift reaches the tolerance, multiplies every timestamp by
// trueDuration/lastSampled. It runs once, after extraction and before phase
// tracking consumes timestamps.
func Reconcile(timestamps []float64, trueDuration float64) []float64 {
	if len(timestamps) == 0 || trueDuration <= 0 {
		return timestamps
	}
	last := timestamps[len(timestamps)-1]
	if last <= 0 {
		return timestamps
	}

	drift := math.Abs(last-trueDuration) / trueDuration
	if drift < DriftTolerance {
		return timestamps
	}

	scale := trueDuration / last
	log.Printf("timeline: timestamp drift %.1f%%, rescaling by %.4f", drift*100, scale)
	out := make([]float64, len(timestamps))
	for i, ts := range timestamps {
		out[i] = ts * scale
	}
	return out
}
